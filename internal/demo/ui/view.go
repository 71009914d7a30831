package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jask/loom/internal/demo/feature"
	"github.com/jask/loom/present"
)

// Catppuccin Mocha subset.
const (
	colorAccent  lipgloss.Color = "#f5c2e7"
	colorText    lipgloss.Color = "#cdd6f4"
	colorSubtext lipgloss.Color = "#a6adc8"
	colorSurface lipgloss.Color = "#313244"
	colorGreen   lipgloss.Color = "#a6e3a1"
	colorRed     lipgloss.Color = "#f38ba8"
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	rowStyle       = lipgloss.NewStyle().Foreground(colorText)
	doneStyle      = lipgloss.NewStyle().Foreground(colorSubtext).Strikethrough(true)
	selectedStyle  = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	statusBarStyle = lipgloss.NewStyle().Foreground(colorSubtext).Background(colorSurface).Padding(0, 1)
	helpStyle      = lipgloss.NewStyle().Foreground(colorSubtext)
	modalStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorAccent).Padding(0, 1)
	dimModalStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorSurface).Padding(0, 1)
	errStyle       = lipgloss.NewStyle().Foreground(colorRed)
	savedStyle     = lipgloss.NewStyle().Foreground(colorGreen)
)

func (m Model) View() string {
	if m.width == 0 {
		return "loading..."
	}
	if m.state.Help.Len() > 1 {
		return m.helpView()
	}

	body := m.listView()
	if m.state.Modal.Phase() != present.Idle {
		body = m.overlayView()
	}

	status := m.state.Status
	if m.state.Loading {
		status = "loading notes..."
	}
	bar := statusBarStyle.Width(m.width).Render(status)
	help := helpStyle.Render(m.shortHelpView())

	return lipgloss.JoinVertical(lipgloss.Left, body, bar, help)
}

func (m Model) listView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("notes"))
	b.WriteString("\n\n")

	if m.adding {
		b.WriteString("add: " + m.input.View())
		b.WriteString("\n\n")
	}

	visible := m.state.VisibleNotes()
	if len(visible) == 0 {
		b.WriteString(helpStyle.Render("no notes yet; press a to add one"))
		b.WriteString("\n")
	}

	// window of maxRows rows keeping the cursor in view
	top := 0
	if m.cursor >= m.maxRows {
		top = m.cursor - m.maxRows + 1
	}
	end := top + m.maxRows
	if end > len(visible) {
		end = len(visible)
	}
	for i := top; i < end; i++ {
		item := visible[i]
		mark := "[ ]"
		style := rowStyle
		if item.State.Done {
			mark = "[x]"
			style = doneStyle
		}
		line := fmt.Sprintf("%s %s", mark, item.State.Body)
		if item.State.Saving {
			line += " …"
		}
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString(style.Render("  " + line))
		}
		b.WriteString("\n")
	}
	return lipgloss.NewStyle().Height(m.contentHeight()).Render(b.String())
}

// overlayView centers the active modal over a dimmed backdrop. During the
// enter and exit transitions the border drops to the surface color; the
// content itself stays rendered, dismissal included.
func (m Model) overlayView() string {
	style := modalStyle
	phase := m.state.Modal.Phase()
	if phase == present.Presenting || phase == present.Dismissing {
		style = dimModalStyle
	}

	var content string
	switch {
	case m.detailActive():
		content = m.detailView()
	case m.pickerActive():
		content = m.pickerView()
	case m.settingsActive():
		content = m.settingsView()
	default:
		content = phase.String()
	}

	box := style.Render(content)
	return lipgloss.Place(m.width, m.contentHeight(), lipgloss.Center, lipgloss.Center, box)
}

func (m Model) detailView() string {
	dt, _ := feature.DetailCase.Extract(m.state.Dest)
	var b strings.Builder
	b.WriteString(titleStyle.Render("edit note"))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	switch {
	case dt.Err != "":
		b.WriteString(errStyle.Render(dt.Err))
	case dt.Saving:
		b.WriteString(savedStyle.Render("saving..."))
	default:
		b.WriteString(helpStyle.Render("enter: save  esc: cancel"))
	}
	return b.String()
}

func (m Model) pickerView() string {
	p, _ := feature.PickerCase.Extract(m.state.Dest)
	var b strings.Builder
	b.WriteString(titleStyle.Render("find note"))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	matches := p.Matches()
	if len(matches) == 0 {
		b.WriteString(helpStyle.Render("no matches"))
	}
	for i, c := range matches {
		if i == p.Cursor {
			b.WriteString(selectedStyle.Render("> " + c.Body))
		} else {
			b.WriteString(rowStyle.Render("  " + c.Body))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("enter: open  esc: close"))
	return b.String()
}

func (m Model) settingsView() string {
	st, _ := feature.SettingsCase.Extract(m.state.Dest)
	mark := "[ ]"
	if st.ShowDone {
		mark = "[x]"
	}
	return titleStyle.Render("settings") + "\n\n" +
		rowStyle.Render(mark+" show done notes") + "\n\n" +
		helpStyle.Render("space: toggle  esc: close")
}

func (m Model) helpView() string {
	page, _ := m.state.Help.Top()
	var b strings.Builder
	b.WriteString(titleStyle.Render(page.Title))
	b.WriteString("\n\n")
	if page.Expanded {
		b.WriteString(rowStyle.Render(page.Body))
	} else {
		b.WriteString(helpStyle.Render(truncate(page.Body, 60) + "  (enter: expand)"))
	}
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render(fmt.Sprintf("page %d  ?: next  esc: back", m.state.Help.Len()-1)))
	return lipgloss.NewStyle().Height(m.contentHeight() + 2).Render(b.String())
}

func (m Model) shortHelpView() string {
	parts := make([]string, 0, 8)
	for _, binding := range m.keys.ShortHelp() {
		h := binding.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, "  ")
}

func (m Model) contentHeight() int {
	h := m.height - 2
	if h < 3 {
		h = 3
	}
	return h
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
