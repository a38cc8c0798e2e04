package notify

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

type Options struct {
	QueueSize     int
	FlushInterval time.Duration
	BatchSize     int
	MaxInFlight   int
	RatePerSec    float64
	MaxAttempts   int
}

type envelope struct {
	ev       Event
	attempts int
}

// Dispatcher decouples email delivery from request handling. Publish enqueues without
// blocking; Run drains the queue on a ticker with bounded concurrency and a send rate cap.
type Dispatcher struct {
	queue   chan envelope
	sender  Sender
	limiter *rate.Limiter
	opts    Options
	log     *slog.Logger

	sent    atomic.Int64
	dropped atomic.Int64
}

func NewDispatcher(sender Sender, opts Options, log *slog.Logger) *Dispatcher {
	if opts.QueueSize < 1 {
		opts.QueueSize = 1024
	}
	if opts.BatchSize < 1 {
		opts.BatchSize = 50
	}
	if opts.MaxInFlight < 1 {
		opts.MaxInFlight = 4
	}
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = 1
	}
	if opts.FlushInterval <= 0 {
		opts.FlushInterval = 2 * time.Second
	}
	limit := rate.Inf
	if opts.RatePerSec > 0 {
		limit = rate.Limit(opts.RatePerSec)
	}
	return &Dispatcher{
		queue:   make(chan envelope, opts.QueueSize),
		sender:  sender,
		limiter: rate.NewLimiter(limit, opts.MaxInFlight),
		opts:    opts,
		log:     log,
	}
}

// Publish never blocks. It reports false when the event was dropped.
func (d *Dispatcher) Publish(ev Event) bool {
	return d.enqueue(envelope{ev: ev})
}

func (d *Dispatcher) enqueue(e envelope) bool {
	select {
	case d.queue <- e:
		return true
	default:
		d.dropped.Add(1)
		d.log.Warn("notify: queue full, dropping event", "kind", e.ev.Kind, "to", e.ev.To)
		return false
	}
}

func (d *Dispatcher) Sent() int64    { return d.sent.Load() }
func (d *Dispatcher) Dropped() int64 { return d.dropped.Load() }
func (d *Dispatcher) Pending() int   { return len(d.queue) }

// Run flushes until ctx is cancelled, then performs one final flush of whatever is queued.
func (d *Dispatcher) Run(ctx context.Context) error {
	t := time.NewTicker(d.opts.FlushInterval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			final, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
			defer cancel()
			d.flush(final, len(d.queue), false)
			return nil
		case <-t.C:
			d.flush(ctx, d.opts.BatchSize, true)
		}
	}
}

func (d *Dispatcher) flush(ctx context.Context, max int, retry bool) {
	batch := make([]envelope, 0, max)
drain:
	for len(batch) < max {
		select {
		case e := <-d.queue:
			batch = append(batch, e)
		default:
			break drain
		}
	}
	if len(batch) == 0 {
		return
	}

	var g errgroup.Group
	g.SetLimit(d.opts.MaxInFlight)
	for _, e := range batch {
		g.Go(func() error {
			d.deliver(ctx, e, retry)
			return nil
		})
	}
	_ = g.Wait()
}

func (d *Dispatcher) deliver(ctx context.Context, e envelope, retry bool) {
	msg, err := Render(e.ev)
	if err != nil {
		d.dropped.Add(1)
		d.log.Error("notify: render failed", "kind", e.ev.Kind, "err", err)
		return
	}
	if len(msg.To) == 0 {
		d.log.Debug("notify: no recipients", "kind", e.ev.Kind)
		return
	}

	err = d.limiter.Wait(ctx)
	if err == nil {
		err = d.sender.Send(ctx, msg)
	}
	if err == nil {
		d.sent.Add(1)
		return
	}

	e.attempts++
	if retry && e.attempts < d.opts.MaxAttempts {
		d.log.Warn("notify: send failed, requeueing", "kind", e.ev.Kind, "attempt", e.attempts, "err", err)
		d.enqueue(e)
		return
	}
	d.dropped.Add(1)
	d.log.Error("notify: giving up on email", "kind", e.ev.Kind, "to", msg.To, "attempts", e.attempts, "err", err)
}
