package cli

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/sketchgraph/pkg/graph"
)

var listDimStyle = lipgloss.NewStyle().Foreground(colorDim)

// =============================================================================
// EdgeTableModel - Interactive edge browser
// =============================================================================

// edgeRow is one edge with its endpoint labels resolved.
type edgeRow struct {
	Source string
	Target string
	Key    string
	Weight int
	Attrs  graph.Attrs
}

// EdgeTableModel is the bubbletea model for browsing a graph's edges.
type EdgeTableModel struct {
	Rows     []edgeRow
	Directed bool
	Cursor   int
	Height   int
	Offset   int
}

// NewEdgeTableModel creates an edge table over g's edges in insertion order.
func NewEdgeTableModel(g *graph.Graph) EdgeTableModel {
	label := func(id string) string {
		if n, ok := g.Node(id); ok {
			if l := n.Label(); l != id {
				return fmt.Sprintf("%s (%s)", l, id)
			}
		}
		return id
	}

	edges := g.Edges()
	rows := make([]edgeRow, len(edges))
	for i, e := range edges {
		rows[i] = edgeRow{
			Source: label(e.Source),
			Target: label(e.Target),
			Key:    e.Key,
			Weight: e.Weight,
			Attrs:  e.Attrs,
		}
	}
	return EdgeTableModel{Rows: rows, Directed: g.Directed(), Height: 15}
}

func (m EdgeTableModel) Init() tea.Cmd {
	return nil
}

func (m EdgeTableModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Rows)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "home", "g":
			m.Cursor, m.Offset = 0, 0
		case "end", "G":
			m.Cursor = max(len(m.Rows)-1, 0)
			m.Offset = max(m.Cursor-m.Height+1, 0)
		}
	case tea.WindowSizeMsg:
		// Room for the title, help, footer and table borders.
		m.Height = max(msg.Height-10, 5)
		if m.Cursor >= m.Offset+m.Height {
			m.Offset = m.Cursor - m.Height + 1
		}
	}
	return m, nil
}

func (m EdgeTableModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Edges"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  g/G first/last  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Rows))
	arrow := "--"
	if m.Directed {
		arrow = "->"
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		r := m.Rows[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		weight := ""
		if r.Key == "" {
			weight = strconv.Itoa(r.Weight)
		}
		rows = append(rows, []string{cursor, r.Source, arrow, r.Target, r.Key, weight})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Source", "", "Target", "Key", "Weight").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
			}
			if col == 2 {
				return listDimStyle
			}
			return lipgloss.NewStyle()
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	if len(m.Rows) > 0 {
		b.WriteString(listDimStyle.Render("  " + formatAttrs(m.Rows[m.Cursor].Attrs)))
		b.WriteString("\n")
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Rows))))

	return b.String()
}

// formatAttrs renders attributes as sorted key=value pairs.
func formatAttrs(a graph.Attrs) string {
	if len(a) == 0 {
		return "no attributes"
	}
	keys := make([]string, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%v", k, a[k])
	}
	return strings.Join(parts, " ")
}
