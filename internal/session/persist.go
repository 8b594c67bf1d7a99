package session

import (
	"context"
	"fmt"

	"daylist-cli/internal/model"
	"daylist-cli/internal/ordering"
)

// Remote accepts batch reorder requests; *client.Client satisfies it.
type Remote interface {
	UpdateOrder(ctx context.Context, req model.ReorderRequest) (model.ReorderOutcome, error)
}

type Persistor struct {
	State  *State
	Remote Remote
}

// Pending is a reorder already applied to the local state and not yet sent.
type Pending struct {
	remote Remote
	state  *State
	date   string
	req    model.ReorderRequest
	gen    uint64
	staged bool
}

// Generation is the state generation the merge produced.
func (p *Pending) Generation() uint64 { return p.gen }

func (p *Pending) Request() model.ReorderRequest { return p.req }

// Send pushes the request. Failures are returned wrapped and leave the local
// state as it is.
func (p *Pending) Send(ctx context.Context) (model.ReorderOutcome, error) {
	if p.staged {
		p.staged = false
		defer p.state.endSend()
	}
	if len(p.req.Tasks) == 0 {
		return model.ReorderOutcome{Success: true, Message: "Nothing to reorder"}, nil
	}
	out, err := p.remote.UpdateOrder(ctx, p.req)
	if err != nil {
		return out, fmt.Errorf("save order for %s: %w", p.date, err)
	}
	return out, nil
}

// Stage merges visible into the local state synchronously and returns the
// request to send. An empty visible subset changes nothing.
//
// Until Send returns, the state refuses reloads.
func (p *Persistor) Stage(visible []model.Task) *Pending {
	pd := &Pending{remote: p.Remote, state: p.State, date: p.State.Date()}
	if len(visible) == 0 {
		pd.gen = p.State.Generation()
		return pd
	}
	pd.req = ordering.Request(p.State.Snapshot(), visible)
	p.State.beginSend()
	pd.staged = true
	pd.gen = p.State.ApplyMerge(visible)
	return pd
}

// Submit records a new order for the visible subset. The local state changes
// before the request is sent and is not rolled back when the request fails;
// the outcome is informational.
func (p *Persistor) Submit(ctx context.Context, visible []model.Task) (model.ReorderOutcome, error) {
	return p.Stage(visible).Send(ctx)
}
