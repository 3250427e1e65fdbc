package views

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/johnwards/professionals/internal/domain"
)

// Lister fetches the directory, optionally filtered by source.
type Lister interface {
	ListProfessionals(ctx context.Context, source domain.Source) ([]domain.Professional, error)
}

// ListingSnapshot is a point-in-time copy of a ListingView's state.
type ListingSnapshot struct {
	Records []domain.Professional
	Filter  domain.Source
	Loading bool
	// Failed is set when the latest fetch returned an error. Records is
	// empty in that case.
	Failed bool
}

// ListingView holds the fetched records and the source filter. It refetches
// on entry, whenever the filter changes and whenever it observes a new
// generation. Only the most recently issued fetch may update its state.
type ListingView struct {
	lister Lister
	ctx    context.Context
	stop   context.CancelFunc

	mu          sync.Mutex
	records     []domain.Professional
	filter      domain.Source
	loading     bool
	failed      bool
	entered     bool
	observed    uint64
	seq         uint64
	cancelFetch context.CancelFunc
	idle        chan struct{} // closed whenever loading is false
	closed      bool
	unsubscribe func()
}

// NewListingView returns an unentered view. Nothing is fetched until the
// first Observe.
func NewListingView(lister Lister) *ListingView {
	ctx, stop := context.WithCancel(context.Background())
	idle := make(chan struct{})
	close(idle)
	return &ListingView{
		lister:  lister,
		ctx:     ctx,
		stop:    stop,
		records: []domain.Professional{},
		idle:    idle,
	}
}

// Observe feeds the current generation to the view. The first call always
// fetches; later calls fetch only when gen differs from the last value seen.
func (v *ListingView) Observe(gen uint64) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed || (v.entered && gen == v.observed) {
		return
	}
	v.entered = true
	v.observed = gen
	v.refetchLocked()
}

// SetFilter changes the source filter. "" clears it. Setting the current
// value again does nothing.
func (v *ListingView) SetFilter(filter domain.Source) error {
	if _, err := domain.ParseFilter(string(filter)); err != nil {
		return err
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed || filter == v.filter {
		return nil
	}
	v.filter = filter
	if v.entered {
		v.refetchLocked()
	}
	return nil
}

// Follow subscribes the view to g and observes its current value. The
// subscription ends when the view is closed.
func (v *ListingView) Follow(g *Generation) {
	ch, cancel := g.Subscribe()

	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		cancel()
		return
	}
	prev := v.unsubscribe
	v.unsubscribe = cancel
	v.mu.Unlock()
	if prev != nil {
		prev()
	}

	v.Observe(g.Value())
	go func() {
		for range ch {
			v.Observe(g.Value())
		}
	}()
}

// Settle blocks until no fetch is outstanding or ctx is done.
func (v *ListingView) Settle(ctx context.Context) error {
	for {
		v.mu.Lock()
		idle, loading := v.idle, v.loading
		v.mu.Unlock()
		if !loading {
			return nil
		}

		select {
		case <-idle:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Snapshot returns a copy of the current state.
func (v *ListingView) Snapshot() ListingSnapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	return ListingSnapshot{
		Records: slices.Clone(v.records),
		Filter:  v.filter,
		Loading: v.loading,
		Failed:  v.failed,
	}
}

// Close cancels any outstanding fetch and stops following the generation.
// Results arriving afterwards are discarded.
func (v *ListingView) Close() {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}
	v.closed = true
	v.stop()
	v.seq++
	if v.loading {
		v.loading = false
		close(v.idle)
	}
	unsubscribe := v.unsubscribe
	v.unsubscribe = nil
	v.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}

func (v *ListingView) refetchLocked() {
	if v.cancelFetch != nil {
		v.cancelFetch()
	}
	v.seq++
	ctx, cancel := context.WithCancel(v.ctx)
	v.cancelFetch = cancel
	if !v.loading {
		v.loading = true
		v.idle = make(chan struct{})
	}
	go v.fetch(ctx, v.seq, v.filter)
}

func (v *ListingView) fetch(ctx context.Context, seq uint64, filter domain.Source) {
	records, err := v.lister.ListProfessionals(ctx, filter)

	v.mu.Lock()
	defer v.mu.Unlock()

	if seq != v.seq {
		return
	}
	v.cancelFetch()
	v.cancelFetch = nil

	if err != nil {
		slog.Warn("list professionals failed", "source", string(filter), "error", err)
		v.records = []domain.Professional{}
		v.failed = true
	} else {
		if records == nil {
			records = []domain.Professional{}
		}
		v.records = records
		v.failed = false
	}
	v.loading = false
	close(v.idle)
}
