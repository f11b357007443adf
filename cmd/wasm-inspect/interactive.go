package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type browserModel struct {
	rep      *report
	st       styles
	filter   textinput.Model
	visible  []funcEntry
	selected int
	expanded bool
}

func newBrowserModel(rep *report, st styles) *browserModel {
	ti := textinput.New()
	ti.Placeholder = "index or signature"
	ti.Prompt = "filter: "
	ti.Width = 40
	ti.Focus()

	m := &browserModel{rep: rep, st: st, filter: ti}
	m.applyFilter()
	return m
}

func (m *browserModel) applyFilter() {
	q := m.filter.Value()
	m.visible = m.visible[:0]
	for _, f := range m.rep.funcs {
		if f.matches(q) {
			m.visible = append(m.visible, f)
		}
	}
	if m.selected >= len(m.visible) {
		m.selected = max(len(m.visible)-1, 0)
	}
}

func (m *browserModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *browserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "up":
			if m.selected > 0 {
				m.selected--
			}
			return m, nil
		case "down":
			if m.selected < len(m.visible)-1 {
				m.selected++
			}
			return m, nil
		case "enter":
			m.expanded = !m.expanded
			return m, nil
		case "esc":
			if m.filter.Value() == "" {
				return m, tea.Quit
			}
			m.filter.SetValue("")
			m.applyFilter()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.applyFilter()
	return m, cmd
}

func (m *browserModel) View() string {
	var b strings.Builder

	b.WriteString(m.st.title.Render("wasm-inspect"))
	b.WriteString(" ")
	b.WriteString(m.rep.filename)
	b.WriteString("\n\n")
	b.WriteString(m.filter.View())
	b.WriteString("\n\n")

	if len(m.visible) == 0 {
		b.WriteString(m.st.dim.Render("no matching functions"))
		b.WriteString("\n")
	}
	for i, f := range m.visible {
		line := fmt.Sprintf("func[%d] %s", f.index, f.signature())
		if i == m.selected {
			b.WriteString(m.st.title.Render("> " + line))
		} else {
			b.WriteString("  " + m.st.fn.Render(line))
		}
		b.WriteString("\n")
		if i == m.selected && m.expanded {
			writeFunc(&b, m.st, f)
		}
	}

	b.WriteString("\n")
	b.WriteString(m.st.dim.Render("type to filter • ↑/↓ select • enter show body • esc clear/quit"))
	return b.String()
}

func runInteractive(rep *report) error {
	p := tea.NewProgram(newBrowserModel(rep, newStyles(true)), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
