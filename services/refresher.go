package services

import "context"

// Refresher collapses every "something changed" signal — poll tick, socket
// push, post-mutation nudge — into at most one queued refetch. Consumers
// never learn which producer fired; the fetch result is the only truth.
type Refresher struct {
	signal chan struct{}
	fetch  func(ctx context.Context)
}

func NewRefresher(fetch func(ctx context.Context)) *Refresher {
	return &Refresher{
		signal: make(chan struct{}, 1), // buffered 1 → duplicates coalesce
		fetch:  fetch,
	}
}

// Invalidate never blocks; a signal landing while one is already queued
// is absorbed.
func (r *Refresher) Invalidate() {
	select {
	case r.signal <- struct{}{}:
	default:
	}
}

// Run drains signals one at a time, so at most one fetch is in flight.
func (r *Refresher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-r.signal:
			r.fetch(ctx)
		}
	}
}
