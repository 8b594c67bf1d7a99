package tui

import (
	"fmt"
	"strings"

	"daylist-cli/internal/model"

	xansi "github.com/charmbracelet/x/ansi"
)

func priorityGlyph(p model.Priority) string {
	switch p {
	case model.PriorityHigh:
		return "▲"
	case model.PriorityLow:
		return "▽"
	default:
		return "●"
	}
}

// fitWidth pads or cuts s to exactly w display cells.
func fitWidth(s string, w int) string {
	if w <= 0 {
		return ""
	}
	sw := xansi.StringWidth(s)
	switch {
	case sw < w:
		return s + strings.Repeat(" ", w-sw)
	case sw > w:
		return xansi.Cut(s, 0, w)
	}
	return s
}

func (m appModel) renderRow(t model.Task, index int) string {
	hint := "  -"
	if t.Order != nil {
		hint = fmt.Sprintf("%3d", *t.Order)
	}
	marker := "  "
	if t.ID == m.grabbed {
		marker = "≡ "
	} else if index == m.cursor {
		marker = "> "
	}
	left := marker + priorityGlyph(t.Priority) + " "
	right := " " + hint
	titleW := m.width - xansi.StringWidth(left) - xansi.StringWidth(right)
	line := left + fitWidth(t.Title, titleW) + right

	switch {
	case t.ID == m.grabbed:
		return m.styles.grabbed.Render(line)
	case index == m.cursor:
		return m.styles.selected.Render(line)
	case t.Priority == model.PriorityLow:
		return m.styles.muted.Render(line)
	}
	return m.styles.row.Render(line)
}

func (m appModel) View() string {
	var b strings.Builder

	header := "daylist · " + m.state.Date()
	var flags []string
	if q := m.filter.Value(); q != "" && !m.filtering {
		flags = append(flags, "filter: "+q)
	}
	if m.hideLow {
		flags = append(flags, "low hidden")
	}
	if m.inflight > 0 {
		flags = append(flags, "saving")
	}
	if len(flags) > 0 {
		header += "  [" + strings.Join(flags, ", ") + "]"
	}
	b.WriteString(m.styles.header.Render(fitWidth(header, m.width)))
	b.WriteString("\n")

	if m.filtering {
		b.WriteString(m.filter.View())
		b.WriteString("\n")
	}

	rows := m.visible()
	if len(rows) == 0 {
		b.WriteString(m.styles.muted.Render("  no tasks"))
		b.WriteString("\n")
	}
	for i, t := range rows {
		b.WriteString(m.renderRow(t, i))
		b.WriteString("\n")
	}

	if m.preview {
		if t, ok := m.selected(); ok {
			notes := renderNotes(t.Notes, m.width-2)
			if notes == "" {
				notes = m.styles.muted.Render("no notes")
			}
			b.WriteString(m.styles.preview.Width(m.width).Render(notes))
			b.WriteString("\n")
		}
	}

	if m.status != "" {
		st := m.styles.status
		if m.statusErr {
			st = m.styles.errorMsg
		}
		b.WriteString(st.Render(fitWidth(m.status, m.width)))
		b.WriteString("\n")
	}

	if m.grabbed != "" {
		b.WriteString(m.help.View(grabKeyMap{m.keys}))
	} else {
		b.WriteString(m.help.View(m.keys))
	}
	return b.String()
}
