package tui

import (
	"sort"
	"strings"

	"daylist-cli/internal/model"

	"github.com/sahilm/fuzzy"
)

type titleSource []model.Task

func (s titleSource) String(i int) string { return s[i].Title }
func (s titleSource) Len() int            { return len(s) }

// visibleSubset narrows tasks (already in display order) to the rows the user
// sees. Matches keep display order rather than fuzzy score, so moving a row
// within a filtered list behaves like moving it in the full list.
func visibleSubset(tasks []model.Task, query string, hideLow bool) []model.Task {
	pool := tasks
	if hideLow {
		pool = make([]model.Task, 0, len(tasks))
		for _, t := range tasks {
			if t.Priority != model.PriorityLow {
				pool = append(pool, t)
			}
		}
	}
	query = strings.TrimSpace(query)
	if query == "" {
		out := make([]model.Task, len(pool))
		copy(out, pool)
		return out
	}

	matches := fuzzy.FindFrom(query, titleSource(pool))
	idx := make([]int, 0, len(matches))
	for _, m := range matches {
		idx = append(idx, m.Index)
	}
	sort.Ints(idx)
	out := make([]model.Task, 0, len(idx))
	for _, i := range idx {
		out = append(out, pool[i])
	}
	return out
}
