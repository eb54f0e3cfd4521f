package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/gazestep/pkg/gesture"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	detailBoxStyle    = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorDim).
				Padding(0, 1)
)

// =============================================================================
// GestureListModel - Interactive gesture selection
// =============================================================================

// GestureListModel is the bubbletea model for interactive gesture selection.
// The step list of the gesture under the cursor is shown below the table.
type GestureListModel struct {
	Gestures []gesture.Gesture
	Cursor   int
	Selected *gesture.Gesture
	Height   int
	Offset   int
}

// NewGestureListModel creates a new gesture list model.
func NewGestureListModel(gestures []gesture.Gesture) GestureListModel {
	return GestureListModel{
		Gestures: gestures,
		Height:   10,
	}
}

func (m GestureListModel) Init() tea.Cmd {
	return nil
}

func (m GestureListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.Cursor < len(m.Gestures)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "home", "g":
			m.Cursor, m.Offset = 0, 0
		case "end", "G":
			if n := len(m.Gestures); n > 0 {
				m.Cursor = n - 1
				m.Offset = max(0, n-m.Height)
			}
		case "enter":
			if len(m.Gestures) == 0 || len(m.Gestures[m.Cursor].Steps) == 0 {
				return m, nil
			}
			g := m.Gestures[m.Cursor]
			m.Selected = &g
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		// Leave room for the title and the details pane.
		m.Height = msg.Height - 14
		if m.Height < 3 {
			m.Height = 3
		}
		if m.Cursor >= m.Offset+m.Height {
			m.Offset = m.Cursor - m.Height + 1
		}
	}
	return m, nil
}

func (m GestureListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Gesture"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ render  q quit"))
	b.WriteString("\n\n")

	if len(m.Gestures) == 0 {
		b.WriteString(listDimStyle.Render("  no gestures"))
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.Gestures))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		g := m.Gestures[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		enabled := "✓"
		if !g.Enabled {
			enabled = ""
		}
		rows = append(rows, []string{cursor, g.Name, enabled, fmt.Sprintf("%d", len(g.Steps))})
	}

	headerStyle := styleHeader

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Gesture", "Enabled", "Steps").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			idx := m.Offset + row
			if idx >= len(m.Gestures) {
				return lipgloss.NewStyle()
			}
			g := m.Gestures[idx]
			switch {
			case idx == m.Cursor && len(g.Steps) > 0:
				return listSelectedStyle
			case idx == m.Cursor:
				return listDimStyle.Bold(true)
			case !g.Enabled || len(g.Steps) == 0:
				return listDimStyle
			}
			return lipgloss.NewStyle()
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(detailBoxStyle.Render(stepDetails(m.Gestures[m.Cursor])))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Gestures))))

	return b.String()
}

// =============================================================================
// Helpers
// =============================================================================

// stepDetails lists the steps of g, one per line, with their parameters.
func stepDetails(g gesture.Gesture) string {
	if len(g.Steps) == 0 {
		return listDimStyle.Render("(no steps)")
	}
	lines := make([]string, len(g.Steps))
	for i, s := range g.Steps {
		line := fmt.Sprintf("%d. %s", i+1, describeStep(s))
		if gesture.HighDwell(s) {
			line = StyleWarning.Render(line)
		}
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}

// describeStep formats a step and its parameters.
func describeStep(s gesture.Step) string {
	switch s := s.(type) {
	case gesture.Fixation:
		return fmt.Sprintf("%s  radius %g%%  dwell %dms", s.Kind(), s.Radius, s.DwellMillis)
	case gesture.LookInDirection:
		return fmt.Sprintf("%s  (%g, %g)", s.Kind(), s.DX, s.DY)
	case gesture.LookAtArea:
		shape := "rect"
		if s.Round {
			shape = "round"
		}
		return fmt.Sprintf("%s  %g,%g %gx%g %s  dwell %dms",
			s.Kind(), s.Left, s.Top, s.Width, s.Height, shape, s.DwellMillis)
	case gesture.ReturnToFixation:
		return fmt.Sprintf("%s  radius %g%%  dwell %dms", s.Kind(), s.Radius, s.DwellMillis)
	}
	return s.Kind().String()
}
