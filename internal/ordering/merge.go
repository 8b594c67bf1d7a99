package ordering

import "daylist-cli/internal/model"

// Merge folds a reordered visible subset back into the full task set.
//
// Visible tasks get Order = their index in visible (0..n-1) and come first.
// Tasks of full that are not in visible keep their order hint (or lack of one)
// and follow in their existing relative order. Untouched hints may tie with
// the renumbered range; Resolve then falls back to priority for those.
//
// Field values always come from full; visible only contributes positions.
// Unknown IDs in visible are dropped and duplicates count once.
func Merge(full, visible []model.Task) []model.Task {
	byID := make(map[string]int, len(full))
	for i, t := range full {
		if _, ok := byID[t.ID]; !ok {
			byID[t.ID] = i
		}
	}

	out := make([]model.Task, 0, len(full))
	taken := make(map[string]bool, len(visible))
	for _, v := range visible {
		idx, ok := byID[v.ID]
		if !ok || taken[v.ID] {
			continue
		}
		taken[v.ID] = true
		out = append(out, full[idx].WithOrder(len(out)))
	}
	for _, t := range full {
		if taken[t.ID] {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Request pairs each visible task with the index Merge gives it. Ids missing
// from full and repeated ids are skipped the same way Merge skips them.
func Request(full, visible []model.Task) model.ReorderRequest {
	known := make(map[string]bool, len(full))
	for _, t := range full {
		known[t.ID] = true
	}
	req := model.ReorderRequest{Tasks: make([]model.ReorderEntry, 0, len(visible))}
	seen := make(map[string]bool, len(visible))
	for _, t := range visible {
		if !known[t.ID] || seen[t.ID] {
			continue
		}
		seen[t.ID] = true
		req.Tasks = append(req.Tasks, model.ReorderEntry{ID: t.ID, Order: len(req.Tasks)})
	}
	return req
}
