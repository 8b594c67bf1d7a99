package model

import "time"

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// ParsePriority normalizes user input. Unknown values report ok=false.
func ParsePriority(s string) (Priority, bool) {
	switch Priority(s) {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return Priority(s), true
	case "":
		return PriorityMedium, true
	default:
		return "", false
	}
}

type Task struct {
	ID       string   `json:"id" yaml:"id"`
	Date     string   `json:"date" yaml:"date"` // YYYY-MM-DD
	Title    string   `json:"title" yaml:"title"`
	Notes    string   `json:"notes,omitempty" yaml:"notes,omitempty"`
	Priority Priority `json:"priority" yaml:"priority"`

	// Order is the manual placement hint within Date. Nil until the first reorder.
	Order *int `json:"order,omitempty" yaml:"order,omitempty"`

	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" yaml:"updatedAt"`
}

// HasOrder reports whether the task carries an order hint.
func (t Task) HasOrder() bool { return t.Order != nil }

// WithOrder returns a copy of t with Order set to n.
func (t Task) WithOrder(n int) Task {
	v := n
	t.Order = &v
	return t
}

type ReorderEntry struct {
	ID    string `json:"id"`
	Order int    `json:"order"`
}

// ReorderRequest is the complete desired order of a visible subset.
type ReorderRequest struct {
	Tasks []ReorderEntry `json:"tasks"`
}

type ReorderOutcome struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	Modified int    `json:"modified"`
}

const DateLayout = "2006-01-02"

// ValidDate reports whether s is a YYYY-MM-DD calendar date.
func ValidDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}
