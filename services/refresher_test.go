package services

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestRefresherCoalescesBursts(t *testing.T) {
	var fetches atomic.Int32
	started := make(chan struct{})
	release := make(chan struct{})

	r := NewRefresher(func(ctx context.Context) {
		fetches.Add(1)
		started <- struct{}{}
		<-release
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go r.Run(ctx)

	r.Invalidate()
	<-started // first fetch in flight

	// a burst while the fetch is busy collapses into one queued signal
	for i := 0; i < 10; i++ {
		r.Invalidate()
	}
	release <- struct{}{}

	<-started // the single coalesced follow-up
	release <- struct{}{}

	// nothing else queued: no third fetch shows up
	select {
	case <-started:
		t.Fatal("burst of invalidates produced more than one queued fetch")
	case <-time.After(50 * time.Millisecond):
	}

	if got := fetches.Load(); got != 2 {
		t.Errorf("fetch count = %d, want 2", got)
	}
}

func TestRefresherInvalidateNeverBlocks(t *testing.T) {
	r := NewRefresher(func(ctx context.Context) {})

	done := make(chan struct{})
	go func() {
		// no Run loop draining — these must still return immediately
		for i := 0; i < 100; i++ {
			r.Invalidate()
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Invalidate blocked without a consumer")
	}
}

func TestRefresherStopsOnContextCancel(t *testing.T) {
	var fetches atomic.Int32
	r := NewRefresher(func(ctx context.Context) { fetches.Add(1) })

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		r.Run(ctx)
		close(stopped)
	}()

	cancel()
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("Run did not exit after cancel")
	}

	r.Invalidate()
	time.Sleep(20 * time.Millisecond)
	if got := fetches.Load(); got != 0 {
		t.Errorf("fetch ran after cancel: %d", got)
	}
}
