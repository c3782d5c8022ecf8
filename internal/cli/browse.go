package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/flowdraw/internal/preview"
	"github.com/matzehuels/flowdraw/pkg/flow"
	"github.com/matzehuels/flowdraw/pkg/flow/parse"
	"github.com/matzehuels/flowdraw/pkg/layout"
	"github.com/matzehuels/flowdraw/pkg/render/ascii"
)

var (
	browseDiagramStyle = lipgloss.NewStyle().Foreground(colorWhite)
	browseSourceStyle  = lipgloss.NewStyle().Foreground(colorDim)
	browseErrorStyle   = lipgloss.NewStyle().Foreground(colorRed)
)

// directionCycle is the order the "d" key steps through. Empty means
// "whatever the source declares".
var directionCycle = []string{"", "TB", "BT", "LR", "RL"}

// browseCommand creates the browse command, an interactive terminal
// viewer for randomly generated diagrams.
func (c *CLI) browseCommand() *cobra.Command {
	var seed uint64

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse random diagrams in the terminal",
		Long: `Browse random diagrams in the terminal.

Each press of "n" generates a fresh random flowchart and renders it as
ASCII art in place. Useful for exploring what the layout engine does
with different graph shapes.

Keys:
  n, space   next diagram
  d          cycle direction override (source, TB, BT, LR, RL)
  o          toggle ordering strategy (barycenter, exhaustive)
  s          toggle source text
  q, esc     quit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if seed == 0 {
				seed = uint64(time.Now().UnixNano())
			}
			model := newBrowseModel(seed)
			_, err := tea.NewProgram(model, tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	cmd.Flags().Uint64Var(&seed, "seed", 0, "fixed seed for the diagram sequence")

	return cmd
}

// browseModel is the bubbletea model for the diagram browser.
type browseModel struct {
	seed       uint64
	counter    uint64
	source     string
	diagram    string
	err        error
	direction  int // index into directionCycle
	exhaustive bool
	showSource bool
	width      int
	height     int
}

func newBrowseModel(seed uint64) browseModel {
	m := browseModel{seed: seed, width: 100, height: 40}
	m.source = preview.RandomSource(m.seed)
	m.render()
	return m
}

func (m browseModel) Init() tea.Cmd {
	return nil
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "n", " ", "enter":
			m.counter++
			m.source = preview.RandomSource(m.seed + m.counter)
			m.render()
		case "d":
			m.direction = (m.direction + 1) % len(directionCycle)
			m.render()
		case "o":
			m.exhaustive = !m.exhaustive
			m.render()
		case "s":
			m.showSource = !m.showSource
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.render()
	}
	return m, nil
}

// render parses and lays out the current source into ASCII art.
func (m *browseModel) render() {
	m.err = nil

	g, err := parse.Parse(m.source)
	if err != nil {
		m.err = err
		return
	}
	if dir := directionCycle[m.direction]; dir != "" {
		if d, ok := flow.ParseDirection(dir); ok {
			g.Direction = d
		}
	}

	style := layout.Style{}
	if m.exhaustive {
		style.Ordering = layout.OrderingExhaustive
	}
	style.ApplyDefaults()

	l, err := layout.Flowchart(g, style)
	if err != nil {
		m.err = err
		return
	}

	m.diagram = ascii.Render(l, ascii.Options{
		MaxWidth:  m.width,
		MaxHeight: max(m.height-6, 10),
	})
}

func (m browseModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("flowdraw browse"))
	b.WriteString("  ")
	b.WriteString(StyleDim.Render(m.statusLine()))
	b.WriteString("\n\n")

	switch {
	case m.err != nil:
		b.WriteString(browseErrorStyle.Render(fmt.Sprintf("render failed: %v", m.err)))
		b.WriteString("\n")
	case m.showSource:
		b.WriteString(browseSourceStyle.Render(m.source))
	default:
		b.WriteString(browseDiagramStyle.Render(m.diagram))
	}

	b.WriteString("\n")
	b.WriteString(StyleDim.Render("n next · d direction · o ordering · s source · q quit"))

	return b.String()
}

// statusLine summarizes the active overrides.
func (m browseModel) statusLine() string {
	dir := directionCycle[m.direction]
	if dir == "" {
		dir = "auto"
	}
	ordering := layout.OrderingBarycenter
	if m.exhaustive {
		ordering = layout.OrderingExhaustive
	}
	return fmt.Sprintf("#%d · %s · %s", m.counter+1, dir, ordering)
}
