// Package session holds the client-side task list for one date and pushes
// local reorders to the server.
package session

import (
	"sync"

	"daylist-cli/internal/model"
	"daylist-cli/internal/ordering"
)

// State is the authoritative local view of one date's tasks. The rendering
// layer reads Snapshot and replaces the order through ApplyMerge; every merge
// bumps the generation so late server data can be recognised as stale.
//
// unsent counts merges whose request has not completed yet. Server data read
// while one is outstanding may predate it, so Reload refuses it.
type State struct {
	mu     sync.Mutex
	date   string
	tasks  []model.Task
	gen    uint64
	unsent int
}

func NewState(date string, tasks []model.Task) *State {
	return &State{date: date, tasks: ordering.Resolve(tasks)}
}

func (s *State) Date() string { return s.date }

// Snapshot returns the tasks in display order. The slice is a copy.
func (s *State) Snapshot() []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// ApplyMerge folds a reordered visible subset into the state and returns the
// new generation.
func (s *State) ApplyMerge(visible []model.Task) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = ordering.Resolve(ordering.Merge(s.tasks, visible))
	s.gen++
	return s.gen
}

func (s *State) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen
}

// Settled returns the current generation and whether every merge so far has
// finished sending. A fetch should only start from a settled generation.
func (s *State) Settled() (uint64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen, s.unsent == 0
}

func (s *State) beginSend() {
	s.mu.Lock()
	s.unsent++
	s.mu.Unlock()
}

func (s *State) endSend() {
	s.mu.Lock()
	if s.unsent > 0 {
		s.unsent--
	}
	s.mu.Unlock()
}

// Reload replaces the state with tasks fetched while the state was settled at
// generation since. It is a no-op once a newer merge has happened or while a
// merge is still being sent.
func (s *State) Reload(tasks []model.Task, since uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != since || s.unsent > 0 {
		return false
	}
	s.tasks = ordering.Resolve(tasks)
	return true
}

// Lookup returns the task with the given id.
func (s *State) Lookup(id string) (model.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return model.Task{}, false
}
