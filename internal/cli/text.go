package cli

import (
	"fmt"
	"strings"

	"daylist-cli/internal/model"
)

// Text forms for --format text.

type taskRows []model.Task

func (r taskRows) Text() string {
	if len(r) == 0 {
		return "no tasks"
	}
	var b strings.Builder
	for _, t := range r {
		order := "-"
		if t.Order != nil {
			order = fmt.Sprint(*t.Order)
		}
		fmt.Fprintf(&b, "%-3s %-6s %s  %s  %s\n", order, t.Priority, t.Date, t.ID, t.Title)
	}
	return b.String()
}

type taskDetail model.Task

func (t taskDetail) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", t.ID, t.Title)
	fmt.Fprintf(&b, "date: %s  priority: %s", t.Date, t.Priority)
	if t.Order != nil {
		fmt.Fprintf(&b, "  order: %d", *t.Order)
	}
	b.WriteString("\n")
	if notes := strings.TrimSpace(t.Notes); notes != "" {
		b.WriteString("\n" + notes + "\n")
	}
	return b.String()
}

type reorderResult struct {
	Outcome model.ReorderOutcome `json:"outcome"`
	Items   taskRows             `json:"items"`
}

func (r reorderResult) Text() string {
	return r.Outcome.Message + "\n" + r.Items.Text()
}

type importResult struct {
	Created taskRows              `json:"created"`
	Outcome *model.ReorderOutcome `json:"outcome,omitempty"`
}

func (r importResult) Text() string {
	s := fmt.Sprintf("imported %d tasks\n", len(r.Created))
	if r.Outcome != nil {
		s += r.Outcome.Message + "\n"
	}
	return s
}
