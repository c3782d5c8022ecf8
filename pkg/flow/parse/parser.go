package parse

import (
	"fmt"

	"github.com/matzehuels/flowdraw/pkg/flow"
)

// Parse parses flowchart source text into a [flow.Graph].
//
// The grammar is a flowchart subset: a "flowchart" or "graph" header with
// an optional direction, node declarations with shape labels, edge chains
// like A --> B --> C with optional |labels|, %% comments, and nested
// subgraph blocks closed by "end". Nodes may be referenced before they
// are declared; a later declaration with a label refreshes the node.
//
// Errors are returned as [*Error] carrying the byte offset of the
// offending token.
func Parse(input string) (*flow.Graph, error) {
	p, err := newParser(input)
	if err != nil {
		return nil, err
	}
	return p.parseFlowchart()
}

type parser struct {
	lex   *lexer
	cur   token
	graph *flow.Graph
}

func newParser(input string) (*parser, error) {
	lex := newLexer(input)
	first, err := lex.next()
	if err != nil {
		return nil, err
	}
	return &parser{
		lex:   lex,
		cur:   first,
		graph: flow.New(flow.DirectionTB),
	}, nil
}

func (p *parser) parseFlowchart() (*flow.Graph, error) {
	if p.cur.kind != tokenFlowchart && p.cur.kind != tokenGraph {
		return nil, p.errorHere("expected 'flowchart' or 'graph' header")
	}
	if err := p.advance(); err != nil {
		return nil, err
	}

	if p.cur.kind == tokenDirection {
		p.graph.Direction = p.cur.dir
		if err := p.advance(); err != nil {
			return nil, err
		}
	}

	for p.cur.kind != tokenEOF {
		switch p.cur.kind {
		case tokenNewline:
			if err := p.advance(); err != nil {
				return nil, err
			}
		case tokenSubgraph:
			sg, err := p.parseSubgraph()
			if err != nil {
				return nil, err
			}
			p.graph.Subgraphs = append(p.graph.Subgraphs, sg)
		case tokenEnd:
			return nil, p.errorHere("unexpected 'end' outside subgraph")
		case tokenIdent:
			id := p.cur.text
			if err := p.advance(); err != nil {
				return nil, err
			}
			if err := p.parseStatement(id, nil); err != nil {
				return nil, err
			}
		default:
			return nil, p.errorHere("expected identifier, 'subgraph', or newline")
		}
	}

	return p.graph, nil
}

// parseStatement handles one statement starting with a node identifier:
// a bare declaration, a shaped declaration like id[Label], or the start
// of an edge chain. sg is non-nil inside a subgraph body, in which case
// every mentioned node becomes a member.
func (p *parser) parseStatement(id string, sg *flow.Subgraph) error {
	if sg != nil {
		sg.AddNode(id)
	}

	switch p.cur.kind {
	case tokenEdgeOp:
		return p.parseEdgeChain(id, p.cur.style, p.cur.arrow, sg)

	case tokenLabelBracket, tokenLabelRound, tokenLabelCircle, tokenLabelDiamond, tokenLabelHexagon:
		label := p.cur.text
		shape := shapeForToken(p.cur.kind)
		if err := p.advance(); err != nil {
			return err
		}
		p.graph.UpsertNode(id, label, shape)
		if sg != nil {
			sg.AddNode(id)
		}
		return p.parseEdgeAfterLabeledNode(id, sg)

	case tokenNewline, tokenEOF:
		p.graph.UpsertNode(id, "", flow.ShapePlain)
		return nil

	default:
		return p.errorHere("expected edge, label, or end of line")
	}
}

func (p *parser) parseEdgeAfterLabeledNode(from string, sg *flow.Subgraph) error {
	switch p.cur.kind {
	case tokenEdgeOp:
		return p.parseEdgeChain(from, p.cur.style, p.cur.arrow, sg)
	case tokenNewline, tokenEOF:
		return nil
	default:
		return p.errorHere("expected edge or end of line")
	}
}

// parseEdgeChain consumes A --> B --> C style chains. Each hop may carry
// a |label|. Both endpoints of every hop are upserted before the edge is
// recorded, so edges never reference undeclared nodes.
func (p *parser) parseEdgeChain(from string, style flow.EdgeStyle, arrow flow.EdgeArrow, sg *flow.Subgraph) error {
	for {
		if err := p.advance(); err != nil {
			return err
		}

		var label string
		if p.cur.kind == tokenLabelPipe {
			label = p.cur.text
			if err := p.advance(); err != nil {
				return err
			}
		}

		if p.cur.kind != tokenIdent {
			return p.errorHere("expected destination node id")
		}
		to := p.cur.text
		if err := p.advance(); err != nil {
			return err
		}

		p.graph.UpsertNode(from, "", flow.ShapePlain)
		p.graph.UpsertNode(to, "", flow.ShapePlain)
		if sg != nil {
			sg.AddNode(from)
			sg.AddNode(to)
		}
		if err := p.graph.AddEdge(flow.Edge{From: from, To: to, Label: label, Style: style, Arrow: arrow}); err != nil {
			panic(fmt.Sprintf("parse: add edge %s->%s: %v", from, to, err))
		}

		if p.cur.kind != tokenEdgeOp {
			return nil
		}
		from = to
		style = p.cur.style
		arrow = p.cur.arrow
	}
}

func (p *parser) parseSubgraph() (flow.Subgraph, error) {
	if err := p.advance(); err != nil {
		return flow.Subgraph{}, err
	}

	if p.cur.kind != tokenIdent {
		return flow.Subgraph{}, p.errorHere("expected subgraph identifier")
	}
	sg := flow.Subgraph{ID: p.cur.text}
	if err := p.advance(); err != nil {
		return flow.Subgraph{}, err
	}

	switch p.cur.kind {
	case tokenString, tokenLabelBracket, tokenLabelRound, tokenLabelCircle, tokenLabelDiamond, tokenLabelHexagon:
		sg.Title = p.cur.text
		if err := p.advance(); err != nil {
			return flow.Subgraph{}, err
		}
	}

	for p.cur.kind != tokenEOF {
		switch p.cur.kind {
		case tokenNewline:
			if err := p.advance(); err != nil {
				return flow.Subgraph{}, err
			}
		case tokenSubgraph:
			child, err := p.parseSubgraph()
			if err != nil {
				return flow.Subgraph{}, err
			}
			sg.Children = append(sg.Children, child)
		case tokenEnd:
			if err := p.advance(); err != nil {
				return flow.Subgraph{}, err
			}
			return sg, nil
		case tokenIdent:
			id := p.cur.text
			if err := p.advance(); err != nil {
				return flow.Subgraph{}, err
			}
			if err := p.parseStatement(id, &sg); err != nil {
				return flow.Subgraph{}, err
			}
		default:
			return flow.Subgraph{}, p.errorHere("expected identifier, 'subgraph', or 'end'")
		}
	}

	return flow.Subgraph{}, p.errorHere("expected 'end' to close subgraph")
}

func shapeForToken(kind tokenKind) flow.NodeShape {
	switch kind {
	case tokenLabelBracket:
		return flow.ShapeBracket
	case tokenLabelRound:
		return flow.ShapeRound
	case tokenLabelCircle:
		return flow.ShapeCircle
	case tokenLabelDiamond:
		return flow.ShapeDiamond
	case tokenLabelHexagon:
		return flow.ShapeHexagon
	default:
		return flow.ShapePlain
	}
}

func (p *parser) advance() error {
	tok, err := p.lex.next()
	if err != nil {
		return err
	}
	p.cur = tok
	return nil
}

func (p *parser) errorHere(message string) *Error {
	return newError(message, p.cur.start)
}
