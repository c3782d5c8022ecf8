package parse

import (
	"fmt"
	"strings"

	"github.com/matzehuels/flowdraw/pkg/flow"
)

// Error is a parse failure with the byte offset where it occurred.
type Error struct {
	Message string
	Offset  int
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s at byte %d", e.Message, e.Offset)
}

func newError(message string, offset int) *Error {
	return &Error{Message: message, Offset: offset}
}

type tokenKind int

const (
	tokenEOF tokenKind = iota
	tokenNewline
	tokenFlowchart
	tokenGraph
	tokenSubgraph
	tokenEnd
	tokenDirection
	tokenIdent
	tokenEdgeOp
	tokenLabelBracket
	tokenLabelRound
	tokenLabelCircle
	tokenLabelDiamond
	tokenLabelHexagon
	tokenLabelPipe
	tokenString
)

type token struct {
	kind  tokenKind
	text  string
	dir   flow.Direction
	style flow.EdgeStyle
	arrow flow.EdgeArrow
	start int
	end   int
}

// lexer produces tokens from flowchart source. It is byte oriented: the
// grammar's structural characters are all ASCII, and label text between
// delimiters is passed through untouched.
type lexer struct {
	input string
	pos   int
}

func newLexer(input string) *lexer {
	return &lexer{input: input}
}

func (l *lexer) next() (token, error) {
	for l.pos < len(l.input) {
		b := l.input[l.pos]
		if b == ' ' || b == '\t' || b == '\r' {
			l.pos++
			continue
		}

		// %% starts a comment running to end of line.
		if b == '%' && l.pos+1 < len(l.input) && l.input[l.pos+1] == '%' {
			l.pos += 2
			for l.pos < len(l.input) && l.input[l.pos] != '\n' {
				l.pos++
			}
			continue
		}

		if b == '\n' {
			start := l.pos
			l.pos++
			return token{kind: tokenNewline, start: start, end: l.pos}, nil
		}

		if tok, ok := l.readEdgeOp(); ok {
			return tok, nil
		}

		switch {
		case b == '[':
			return l.readDelimited(tokenLabelBracket, "[", "]")
		case b == '|':
			return l.readDelimited(tokenLabelPipe, "|", "|")
		case b == '(':
			return l.readRoundLabel()
		case b == '{':
			return l.readBraceLabel()
		case b == '"':
			return l.readDelimited(tokenString, `"`, `"`)
		case isIdentStart(b):
			return l.readIdent(), nil
		}

		return token{}, newError(fmt.Sprintf("unexpected character %q", rune(b)), l.pos)
	}
	return token{kind: tokenEOF, start: l.pos, end: l.pos}, nil
}

func (l *lexer) readIdent() token {
	start := l.pos
	l.pos++
	for l.pos < len(l.input) && isIdentContinue(l.input[l.pos]) {
		l.pos++
	}
	text := l.input[start:l.pos]

	tok := token{text: text, start: start, end: l.pos}
	switch text {
	case "flowchart":
		tok.kind = tokenFlowchart
	case "graph":
		tok.kind = tokenGraph
	case "subgraph":
		tok.kind = tokenSubgraph
	case "end":
		tok.kind = tokenEnd
	default:
		if dir, ok := flow.ParseDirection(text); ok {
			tok.kind = tokenDirection
			tok.dir = dir
		} else {
			tok.kind = tokenIdent
		}
	}
	return tok
}

// readDelimited scans a label enclosed by single-character delimiters,
// e.g. [text], |text| or "text".
func (l *lexer) readDelimited(kind tokenKind, open, close string) (token, error) {
	start := l.pos
	searchStart := l.pos + len(open)
	rel := strings.Index(l.input[searchStart:], close)
	if rel < 0 {
		return token{}, newError(fmt.Sprintf("unterminated '%s' label", open), start)
	}
	end := searchStart + rel
	l.pos = end + len(close)
	return token{kind: kind, text: l.input[searchStart:end], start: start, end: l.pos}, nil
}

func (l *lexer) readRoundLabel() (token, error) {
	start := l.pos

	// ((text)) is a circle.
	if l.pos+1 < len(l.input) && l.input[l.pos+1] == '(' {
		searchStart := l.pos + 2
		rel := strings.Index(l.input[searchStart:], "))")
		if rel < 0 {
			return token{}, newError("unterminated '(( ))' label", start)
		}
		end := searchStart + rel
		l.pos = end + 2
		return token{kind: tokenLabelCircle, text: l.input[searchStart:end], start: start, end: l.pos}, nil
	}

	// ("text") is a round label with quoted text.
	if l.pos+1 < len(l.input) && l.input[l.pos+1] == '"' {
		searchStart := l.pos + 2
		rel := strings.IndexByte(l.input[searchStart:], '"')
		if rel < 0 {
			return token{}, newError("unterminated round label", start)
		}
		end := searchStart + rel
		close := end + 1
		if close >= len(l.input) || l.input[close] != ')' {
			return token{}, newError("expected ')' after round label", close)
		}
		l.pos = close + 1
		return token{kind: tokenLabelRound, text: l.input[searchStart:end], start: start, end: l.pos}, nil
	}

	return l.readDelimited(tokenLabelRound, "(", ")")
}

func (l *lexer) readBraceLabel() (token, error) {
	start := l.pos

	// {{text}} is a hexagon.
	if l.pos+1 < len(l.input) && l.input[l.pos+1] == '{' {
		searchStart := l.pos + 2
		rel := strings.Index(l.input[searchStart:], "}}")
		if rel < 0 {
			return token{}, newError("unterminated '{{ }}' label", start)
		}
		end := searchStart + rel
		l.pos = end + 2
		return token{kind: tokenLabelHexagon, text: l.input[searchStart:end], start: start, end: l.pos}, nil
	}

	return l.readDelimited(tokenLabelDiamond, "{", "}")
}

// readEdgeOp recognizes the edge operators. Longest match wins, so -.->
// is checked before -.- and --> before ---.
func (l *lexer) readEdgeOp() (token, bool) {
	start := l.pos
	rest := l.input[l.pos:]

	type op struct {
		text  string
		style flow.EdgeStyle
		arrow flow.EdgeArrow
	}
	ops := []op{
		{"-.->", flow.EdgeDotted, flow.ArrowForward},
		{"-.-", flow.EdgeDotted, flow.ArrowNone},
		{"-->", flow.EdgeSolid, flow.ArrowForward},
		{"---", flow.EdgeSolid, flow.ArrowNone},
		{"==>", flow.EdgeThick, flow.ArrowForward},
		{"===", flow.EdgeThick, flow.ArrowNone},
	}
	for _, o := range ops {
		if strings.HasPrefix(rest, o.text) {
			l.pos += len(o.text)
			return token{kind: tokenEdgeOp, style: o.style, arrow: o.arrow, start: start, end: l.pos}, true
		}
	}
	return token{}, false
}

func isIdentStart(b byte) bool {
	return b >= 'A' && b <= 'Z' || b >= 'a' && b <= 'z' || b == '_'
}

func isIdentContinue(b byte) bool {
	return isIdentStart(b) || b >= '0' && b <= '9'
}
