package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/netprune/pkg/errors"
	"github.com/matzehuels/netprune/pkg/simplify"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// ReportModel - Interactive simplification report
// =============================================================================

// ReportModel is the bubbletea model for browsing the nodes a run kept.
// Tab cycles a filter over the skip reasons.
type ReportModel struct {
	Report *simplify.Result
	Cursor int
	Height int
	Offset int
	Filter errors.Code // empty shows every skip

	visible []simplify.Skip
}

// reportFilters is the Tab cycle order.
var reportFilters = []errors.Code{"", errors.ErrCodeMergeConflict, errors.ErrCodeInvalidOperation, errors.ErrCodeInternal}

// NewReportModel creates a report browser for res.
func NewReportModel(res *simplify.Result) ReportModel {
	m := ReportModel{Report: res, Height: 15}
	m.visible = m.filtered()
	return m
}

func (m ReportModel) filtered() []simplify.Skip {
	if m.Filter == "" {
		return m.Report.Skipped
	}
	var out []simplify.Skip
	for _, s := range m.Report.Skipped {
		if s.Code == m.Filter {
			out = append(out, s)
		}
	}
	return out
}

func (m ReportModel) Init() tea.Cmd {
	return nil
}

func (m ReportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc", "enter":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.visible)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "tab":
			next := 0
			for i, f := range reportFilters {
				if f == m.Filter {
					next = (i + 1) % len(reportFilters)
				}
			}
			m.Filter = reportFilters[next]
			m.visible = m.filtered()
			m.Cursor, m.Offset = 0, 0
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 8
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m ReportModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Simplification Report"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s  %s  %s\n",
		StyleSuccess.Render(fmt.Sprintf("%d removed", m.Report.Deleted)),
		StyleWarning.Render(fmt.Sprintf("%d kept", len(m.Report.Skipped))),
		listDimStyle.Render(fmt.Sprintf("%d candidates · %d connectors removed", m.Report.Candidates, m.Report.ConnectorsRemoved)))
	filter := "all"
	if m.Filter != "" {
		filter = string(m.Filter)
	}
	b.WriteString(listDimStyle.Render("↑/↓ navigate  tab filter (" + filter + ")  q quit"))
	b.WriteString("\n\n")

	if len(m.visible) == 0 {
		b.WriteString(listDimStyle.Render("  no kept nodes"))
		b.WriteString("\n")
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.visible))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		s := m.visible[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, fmt.Sprint(s.Node), string(s.Code), s.Message})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleTableBorder).
		Headers("", "Node", "Reason", "Message").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleTableHeader
			}
			if m.Offset+row == m.Cursor {
				return listSelectedStyle
			}
			if col == 2 {
				return listDimStyle
			}
			return lipgloss.NewStyle()
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.visible))))

	return b.String()
}

// runReport shows the interactive report until the user quits.
func runReport(res *simplify.Result) error {
	_, err := tea.NewProgram(NewReportModel(res)).Run()
	return err
}
