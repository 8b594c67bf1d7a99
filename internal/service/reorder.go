// Package service applies batch reorder requests to the task store.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"daylist-cli/internal/model"
)

var ErrMalformedRequest = errors.New("malformed reorder request")

// OrderStore updates one task's order hint by id, reporting whether it exists.
type OrderStore interface {
	UpdateOrder(ctx context.Context, id string, order int, updatedAt time.Time) (bool, error)
}

type ReorderService struct {
	store OrderStore
	now   func() time.Time
}

func NewReorderService(store OrderStore) *ReorderService {
	return &ReorderService{
		store: store,
		now:   time.Now,
	}
}

// Validate rejects requests that must not be applied at all. A nil task list
// means the field was missing; an empty one is a valid no-op.
func Validate(req model.ReorderRequest) error {
	if req.Tasks == nil {
		return fmt.Errorf("%w: missing tasks", ErrMalformedRequest)
	}
	for i, e := range req.Tasks {
		if strings.TrimSpace(e.ID) == "" {
			return fmt.Errorf("%w: tasks[%d].id is empty", ErrMalformedRequest, i)
		}
		if e.Order < 0 {
			return fmt.Errorf("%w: tasks[%d].order is negative", ErrMalformedRequest, i)
		}
	}
	return nil
}

// Apply writes each (id, order) pair as its own update. Pairs are independent:
// unknown ids are skipped, and a failure part-way leaves earlier pairs applied.
// Re-sending the same request converges to the same stored state.
//
// The returned outcome counts matched records, so applying a request twice
// reports the same count both times.
func (s *ReorderService) Apply(ctx context.Context, req model.ReorderRequest) (model.ReorderOutcome, error) {
	if err := Validate(req); err != nil {
		return model.ReorderOutcome{}, err
	}
	now := s.now().UTC()
	modified := 0
	for _, e := range req.Tasks {
		if err := ctx.Err(); err != nil {
			return partial(modified), err
		}
		ok, err := s.store.UpdateOrder(ctx, e.ID, e.Order, now)
		if err != nil {
			return partial(modified), fmt.Errorf("update order for %s: %w", e.ID, err)
		}
		if ok {
			modified++
		}
	}
	return model.ReorderOutcome{
		Success:  true,
		Modified: modified,
		Message:  fmt.Sprintf("Updated order for %d tasks", modified),
	}, nil
}

func partial(modified int) model.ReorderOutcome {
	return model.ReorderOutcome{
		Modified: modified,
		Message:  fmt.Sprintf("Updated order for %d tasks before failing", modified),
	}
}
