package allocation

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/mpetrov/stagtrip/internal/metrics"
)

// job is one queued recomputation request.
type job struct {
	eventID string
	reason  string
}

// Result reports the outcome of one dispatched recomputation. Consumers
// that want visibility into background failures read these from
// Dispatcher.Results; nobody is required to.
type Result struct {
	EventID string
	Reason  string
	Err     error
}

// Dispatcher runs recomputations in the background so attendance and cost
// changes never block the request that triggered them. Enqueue never
// blocks: when the buffer is full the job is dropped with a warning, and
// the next trigger or the startup sweep heals any resulting drift.
type Dispatcher struct {
	engine  *Engine
	jobs    chan job
	results chan Result
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewDispatcher creates a Dispatcher with the given job buffer size.
// Call Start to begin processing and Shutdown to drain and stop.
func NewDispatcher(engine *Engine, bufferSize int) *Dispatcher {
	ctx, cancel := context.WithCancel(context.Background())
	return &Dispatcher{
		engine:  engine,
		jobs:    make(chan job, bufferSize),
		results: make(chan Result, bufferSize),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start launches the worker goroutine.
func (d *Dispatcher) Start() {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		for {
			select {
			case <-d.ctx.Done():
				slog.Info("draining recompute queue before shutdown", "remaining", len(d.jobs))
				for len(d.jobs) > 0 {
					d.run(context.Background(), <-d.jobs)
				}
				return
			case j := <-d.jobs:
				d.run(d.ctx, j)
			}
		}
	}()
}

// Enqueue schedules a recomputation for the event. It never blocks and
// never returns an error to the caller; failures surface through logs,
// metrics, and the Results channel.
func (d *Dispatcher) Enqueue(eventID, reason string) {
	select {
	case d.jobs <- job{eventID: eventID, reason: reason}:
		metrics.QueueDepth.Set(float64(len(d.jobs)))
	default:
		slog.Warn("recompute queue full, dropping job", "event_id", eventID, "reason", reason)
		metrics.RecomputesTotal.WithLabelValues("dropped").Inc()
	}
}

// EnqueueAll schedules a recomputation for every event the engine owns.
// Used when a roster-wide change (registration, trip-status change,
// deletion) can affect any event's paying set.
func (d *Dispatcher) EnqueueAll(ctx context.Context, reason string) {
	events, err := d.engine.store.ListAutoSplitEvents(ctx)
	if err != nil {
		slog.Error("failed to list events for recompute", "reason", reason, "error", err)
		return
	}
	for _, ev := range events {
		d.Enqueue(ev.ID, reason)
	}
}

// Results exposes the completion/failure channel. Results are dropped if
// nobody is reading and the channel fills; they are observability, not
// control flow.
func (d *Dispatcher) Results() <-chan Result {
	return d.results
}

// Shutdown stops the worker after draining queued jobs.
func (d *Dispatcher) Shutdown() {
	d.cancel()
	d.wg.Wait()
	close(d.results)
}

func (d *Dispatcher) run(ctx context.Context, j job) {
	start := time.Now()
	err := d.engine.Recompute(ctx, j.eventID)
	metrics.RecomputeDuration.Observe(time.Since(start).Seconds())
	metrics.QueueDepth.Set(float64(len(d.jobs)))
	if err != nil {
		// Best effort: the triggering request already succeeded. The next
		// trigger or the startup sweep re-reads attendance and heals this.
		slog.Error("recompute failed", "event_id", j.eventID, "reason", j.reason, "error", err)
		metrics.RecomputesTotal.WithLabelValues("error").Inc()
	} else {
		metrics.RecomputesTotal.WithLabelValues("ok").Inc()
	}

	select {
	case d.results <- Result{EventID: j.eventID, Reason: j.reason, Err: err}:
	default:
	}
}
