// Package planestate implements the Plane-State Actor: a single goroutine
// owning the authoritative mutable map of current aircraft state, serving
// reads and writes through a request mailbox so that no lock is ever
// exposed to callers.
package planestate

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
)

// nowMillisFn is swappable in tests; production uses wall-clock time.
var nowMillisFn = func() int64 { return time.Now().UnixMilli() }

// ErrMailboxClosed is returned to any caller whose request could not be
// delivered because the actor has shut down.
var ErrMailboxClosed = errors.New("planestate: mailbox closed")

const (
	lastUpdatedKey  = "last_updated_timestamp"
	filterSampleHz  = 30.0
	filterTimeConst = 100 * time.Millisecond
)

// Batch is a set of field updates applied atomically; as a map it has no
// defined order.
type Batch map[string]any

type updateBatchReq struct {
	batch Batch
	reply chan struct{}
}

type getRawReq struct {
	reply chan map[string]any
}

type getFilteredReq struct {
	reply chan map[string]float64
}

type clearReq struct {
	reply chan struct{}
}

// Actor owns the raw state map and the per-field low-pass filters. Zero
// value is not usable; construct with New.
type Actor struct {
	log *logrus.Entry

	updateBatchCh  chan updateBatchReq
	getRawCh       chan getRawReq
	getFilteredCh  chan getFilteredReq
	clearCh        chan clearReq
	done           chan struct{}
}

// New creates an Actor and starts its serving goroutine. The goroutine
// exits when ctx is cancelled; after that every mailbox call returns
// ErrMailboxClosed.
func New(ctx context.Context, log *logrus.Entry) *Actor {
	a := &Actor{
		log:           log,
		updateBatchCh: make(chan updateBatchReq),
		getRawCh:      make(chan getRawReq),
		getFilteredCh: make(chan getFilteredReq),
		clearCh:       make(chan clearReq),
		done:          make(chan struct{}),
	}
	go a.run(ctx)
	return a
}

func (a *Actor) run(ctx context.Context) {
	defer close(a.done)

	raw := make(map[string]any)
	filters := make(map[string]*lowPassFilter)
	var lastTimestamp int64

	for {
		select {
		case <-ctx.Done():
			return

		case req := <-a.updateBatchCh:
			for key, value := range req.batch {
				raw[key] = value
				if numeric, ok := asFloat(value); ok {
					f, exists := filters[key]
					if !exists {
						f = newLowPassFilter(filterSampleHz, filterTimeConst, numeric)
						filters[key] = f
					}
					f.Update(numeric)
				}
			}
			ts := nowMillisFn()
			if ts <= lastTimestamp {
				ts = lastTimestamp + 1
			}
			lastTimestamp = ts
			raw[lastUpdatedKey] = ts
			close(req.reply)

		case req := <-a.getRawCh:
			req.reply <- cloneAny(raw)

		case req := <-a.getFilteredCh:
			out := make(map[string]float64, len(filters))
			for k, f := range filters {
				out[k] = f.Output()
			}
			req.reply <- out

		case req := <-a.clearCh:
			raw = make(map[string]any)
			filters = make(map[string]*lowPassFilter)
			close(req.reply)
		}
	}
}

// UpdateBatch overwrites the current value for every (key, value) pair in
// batch, feeds numeric values into that field's low-pass filter, and
// refreshes last_updated_timestamp. Callers never observe a partial
// update for a single batch.
func (a *Actor) UpdateBatch(ctx context.Context, batch Batch) error {
	reply := make(chan struct{})
	select {
	case a.updateBatchCh <- updateBatchReq{batch: batch, reply: reply}:
	case <-a.done:
		return ErrMailboxClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-reply:
		return nil
	case <-a.done:
		return ErrMailboxClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// GetRaw returns a snapshot of the raw state map.
func (a *Actor) GetRaw(ctx context.Context) (map[string]any, error) {
	reply := make(chan map[string]any, 1)
	select {
	case a.getRawCh <- getRawReq{reply: reply}:
	case <-a.done:
		return nil, ErrMailboxClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	select {
	case snap := <-reply:
		return snap, nil
	case <-a.done:
		return nil, ErrMailboxClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// GetFiltered returns a snapshot of each field's current low-pass output.
func (a *Actor) GetFiltered(ctx context.Context) (map[string]float64, error) {
	reply := make(chan map[string]float64, 1)
	select {
	case a.getFilteredCh <- getFilteredReq{reply: reply}:
	case <-a.done:
		return nil, ErrMailboxClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	select {
	case snap := <-reply:
		return snap, nil
	case <-a.done:
		return nil, ErrMailboxClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Clear drops all fields and filters.
func (a *Actor) Clear(ctx context.Context) error {
	reply := make(chan struct{})
	select {
	case a.clearCh <- clearReq{reply: reply}:
	case <-a.done:
		return ErrMailboxClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-reply:
		return nil
	case <-a.done:
		return ErrMailboxClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func cloneAny(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}

