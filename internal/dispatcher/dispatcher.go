// Package dispatcher delivers ticket-issued notifications off the request
// path through a bounded queue and a fixed worker pool.
package dispatcher

import (
	"context"
	"sync"
	"time"

	"github.com/vogiaan1904/ticketbottle-ticketing/config"
	"github.com/vogiaan1904/ticketbottle-ticketing/internal/metrics"
	"github.com/vogiaan1904/ticketbottle-ticketing/internal/models"
	"github.com/vogiaan1904/ticketbottle-ticketing/pkg/logger"
)

const (
	resultSent    = "sent"
	resultFailed  = "failed"
	resultDropped = "dropped"
)

type Notifier interface {
	NotifyTicketIssued(ctx context.Context, t *models.Ticket) error
}

type job struct {
	ctx    context.Context
	ticket *models.Ticket
}

type Dispatcher struct {
	notifier Notifier
	l        logger.Logger
	workers  int
	timeout  time.Duration

	queue  chan job
	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

func New(notifier Notifier, cfg config.DispatcherConfig, l logger.Logger) *Dispatcher {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	size := cfg.QueueSize
	if size <= 0 {
		size = 1
	}

	return &Dispatcher{
		notifier: notifier,
		l:        l,
		workers:  workers,
		timeout:  cfg.Timeout,
		queue:    make(chan job, size),
	}
}

// Start launches the worker pool. Call Stop to drain it.
func (d *Dispatcher) Start() {
	for range d.workers {
		d.wg.Go(d.work)
	}
}

// Stop refuses new work and waits until every queued notification has
// been attempted.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	d.wg.Wait()
}

// Dispatch queues t without blocking. It returns false when the queue is
// full or the dispatcher is stopped; the caller's outcome is unaffected.
func (d *Dispatcher) Dispatch(ctx context.Context, t *models.Ticket) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		metrics.Dispatches.WithLabelValues(resultDropped).Inc()
		d.l.Warnf(ctx, "dispatcher.Dispatch: stopped, dropping notification for %s", t.ID)
		return false
	}

	select {
	case d.queue <- job{ctx: context.WithoutCancel(ctx), ticket: t}:
		metrics.DispatchQueueDepth.Set(float64(len(d.queue)))
		return true
	default:
		metrics.Dispatches.WithLabelValues(resultDropped).Inc()
		d.l.Errorf(ctx, "dispatcher.Dispatch: queue full, dropping notification for %s", t.ID)
		return false
	}
}

func (d *Dispatcher) work() {
	for j := range d.queue {
		metrics.DispatchQueueDepth.Set(float64(len(d.queue)))
		d.deliver(j)
	}
}

func (d *Dispatcher) deliver(j job) {
	ctx := j.ctx
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	if err := d.notifier.NotifyTicketIssued(ctx, j.ticket); err != nil {
		metrics.Dispatches.WithLabelValues(resultFailed).Inc()
		d.l.Errorf(ctx, "dispatcher.deliver: ticket %s: %v", j.ticket.ID, err)
		return
	}

	metrics.Dispatches.WithLabelValues(resultSent).Inc()
	d.l.Debugf(ctx, "dispatcher.deliver: notification sent for %s", j.ticket.ID)
}
