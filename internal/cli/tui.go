package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/flowplot/pkg/gates"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// GateListModel - Interactive gate selection
// =============================================================================

// GateListModel is the bubbletea model for picking a gate to recolour.
type GateListModel struct {
	Gates    []gates.Style
	Cursor   int
	Selected *gates.Style
	Height   int
	Offset   int
}

// NewGateListModel creates a new gate list model.
func NewGateListModel(styles []gates.Style) GateListModel {
	return GateListModel{Gates: styles, Height: 15}
}

func (m GateListModel) Init() tea.Cmd {
	return nil
}

func (m GateListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.Cursor < len(m.Gates)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Gates) == 0 {
				return m, nil
			}
			g := m.Gates[m.Cursor]
			m.Selected = &g
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(5, msg.Height-6)
	}
	return m, nil
}

func (m GateListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Gate"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Gates))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		g := m.Gates[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		parent := g.Parent
		if parent == "" {
			parent = "—"
		}
		rows = append(rows, []string{cursor, g.ID, g.Name, parent, swatch(g.Fill), g.Fill})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "ID", "Name", "Parent", "", "Colour").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 4 {
				return lipgloss.NewStyle()
			}
			if m.Offset+row == m.Cursor {
				return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
			}
			return lipgloss.NewStyle().Foreground(colorGray)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Gates))))
	return b.String()
}

// =============================================================================
// ColorListModel - Interactive colour selection
// =============================================================================

// ColorListModel picks a colour from a palette. The current colour's alpha
// byte is kept on the chosen colour.
type ColorListModel struct {
	Gate     gates.Style
	Palette  []string
	Cursor   int
	Selected string
}

// NewColorListModel creates a colour list for gate.
func NewColorListModel(gate gates.Style, palette []string) ColorListModel {
	return ColorListModel{Gate: gate, Palette: palette}
}

func (m ColorListModel) Init() tea.Cmd {
	return nil
}

func (m ColorListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Palette)-1 {
				m.Cursor++
			}
		case "enter":
			if len(m.Palette) == 0 {
				return m, nil
			}
			m.Selected = gates.ComposeColor(m.Gate.Fill, opaque(m.Palette[m.Cursor]))
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m ColorListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Recolour " + m.Gate.Name))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("arrows: navigate  enter: select  q: quit"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("  current %s %s\n\n", swatch(m.Gate.Fill), listDimStyle.Render(m.Gate.Fill)))

	for i, c := range m.Palette {
		cursor := "  "
		style := listNormalStyle
		if i == m.Cursor {
			cursor = "> "
			style = listSelectedStyle
		}
		b.WriteString(cursor + swatch(c) + " " + style.Render(opaque(c)) + "\n")
	}
	return b.String()
}

// opaque drops the alpha byte of an #rrggbbaa colour.
func opaque(c string) string {
	if len(c) == 9 {
		return c[:7]
	}
	return c
}
