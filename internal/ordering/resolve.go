// Package ordering computes the display order of a date's tasks.
//
// An explicit order hint always wins over priority: tasks carrying an order
// sort before tasks without one, and ties (including "no order at all") fall
// back to priority, high first. Every function here is pure over values so the
// same rules can run in the server, the CLI and the TUI.
package ordering

import (
	"math"
	"sort"

	"daylist-cli/internal/model"
)

// Unordered is the sort key used for tasks without an order hint.
const Unordered = math.MaxInt

// PriorityRank maps a priority to its tie-break weight. Unknown or empty
// priorities rank as medium.
func PriorityRank(p model.Priority) int {
	switch p {
	case model.PriorityHigh:
		return 3
	case model.PriorityLow:
		return 1
	default:
		return 2
	}
}

func orderKey(t model.Task) int {
	if t.Order == nil {
		return Unordered
	}
	return *t.Order
}

func compareTasks(a, b model.Task) int {
	ka, kb := orderKey(a), orderKey(b)
	if ka < kb {
		return -1
	}
	if ka > kb {
		return 1
	}
	ra, rb := PriorityRank(a.Priority), PriorityRank(b.Priority)
	if ra > rb {
		return -1
	}
	if ra < rb {
		return 1
	}
	return 0
}

// Resolve returns tasks sorted by order hint ascending, then priority
// descending. The sort is stable and the input slice is left untouched.
func Resolve(tasks []model.Task) []model.Task {
	out := append([]model.Task(nil), tasks...)
	sort.SliceStable(out, func(i, j int) bool {
		return compareTasks(out[i], out[j]) < 0
	})
	return out
}

// IDs returns the task identifiers in slice order.
func IDs(tasks []model.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}
