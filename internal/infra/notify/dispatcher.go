package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"salon-booking/internal/pkg/clock"
	"salon-booking/internal/pkg/config"
	"salon-booking/internal/pkg/crypto"
	"salon-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

// JobStore tracks delivery state of outbox rows.
type JobStore interface {
	MarkSent(ctx context.Context, jobID uuid.UUID) error
	MarkRetry(ctx context.Context, jobID uuid.UUID, reason string, runAt time.Time) error
	MarkFailed(ctx context.Context, jobID uuid.UUID, reason string) error
	ClaimDue(ctx context.Context, cutoff, leaseUntil time.Time, maxAttempts, limit int32) ([]shared.NotificationJob, error)
}

type DeliveryRecorder interface {
	ObserveNotification(topic, result string)
}

const (
	resultSent    = "sent"
	resultRetry   = "retry"
	resultFailed  = "failed"
	resultDropped = "dropped"

	redeliverBatch = 50
)

// Dispatcher delivers committed outbox jobs on a bounded queue. Dispatch never
// blocks: a full queue leaves the job queued for the redelivery sweep.
type Dispatcher struct {
	sender   shared.Notifier
	store    JobStore
	recorder DeliveryRecorder
	clock    clock.Clock
	cfg      config.NotifierConfig

	queue  chan shared.NotificationJob
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewDispatcher(sender shared.Notifier, store JobStore, recorder DeliveryRecorder, clk clock.Clock, cfg config.NotifierConfig) *Dispatcher {
	size := cfg.QueueSize
	if size <= 0 {
		size = 100
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 5
	}
	if cfg.RedeliverLease <= 0 {
		cfg.RedeliverLease = 5 * time.Minute
	}
	return &Dispatcher{
		sender:   sender,
		store:    store,
		recorder: recorder,
		clock:    clk,
		cfg:      cfg,
		queue:    make(chan shared.NotificationJob, size),
	}
}

func (d *Dispatcher) Dispatch(job shared.NotificationJob) {
	select {
	case d.queue <- job:
	default:
		slog.Warn("notification queue full, leaving job for redelivery",
			"job_id", job.ID, "topic", job.Topic)
		d.observe(job.Topic, resultDropped)
	}
}

// Start launches the workers and, when RedeliverInterval is set, the sweep.
func (d *Dispatcher) Start(ctx context.Context) {
	ctx, d.cancel = context.WithCancel(context.WithoutCancel(ctx))

	for range d.cfg.Workers {
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			d.work(ctx)
		}()
	}

	if d.cfg.RedeliverInterval > 0 {
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			d.sweepLoop(ctx)
		}()
	}
}

// Stop drains what is already queued, then waits for the workers.
func (d *Dispatcher) Stop(ctx context.Context) error {
	if d.cancel == nil {
		return nil
	}
	d.cancel()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) work(ctx context.Context) {
	for {
		select {
		case job := <-d.queue:
			d.deliver(ctx, job)
		case <-ctx.Done():
			for {
				select {
				case job := <-d.queue:
					d.deliver(context.Background(), job)
				default:
					return
				}
			}
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, job shared.NotificationJob) {
	sendCtx := ctx
	if d.cfg.SendTimeout > 0 {
		var cancel context.CancelFunc
		sendCtx, cancel = context.WithTimeout(ctx, d.cfg.SendTimeout)
		defer cancel()
	}

	err := d.sender.Send(sendCtx, shared.Message{To: job.Recipient, Subject: job.Subject, Body: job.Body})
	// status updates must land even when shutdown cancelled ctx
	storeCtx := context.WithoutCancel(ctx)
	if err == nil {
		d.observe(job.Topic, resultSent)
		if markErr := d.store.MarkSent(storeCtx, job.ID); markErr != nil {
			slog.Error("failed to mark notification sent", "job_id", job.ID, "error", markErr.Error())
		}
		return
	}

	if job.Attempts+1 >= d.cfg.MaxAttempts {
		slog.Error("notification failed permanently",
			"job_id", job.ID, "topic", job.Topic, "to", crypto.MaskEmail(job.Recipient),
			"attempts", job.Attempts+1, "error", err.Error())
		d.observe(job.Topic, resultFailed)
		if markErr := d.store.MarkFailed(storeCtx, job.ID, err.Error()); markErr != nil {
			slog.Error("failed to mark notification failed", "job_id", job.ID, "error", markErr.Error())
		}
		return
	}

	slog.Warn("notification send failed, will retry",
		"job_id", job.ID, "topic", job.Topic, "attempts", job.Attempts+1, "error", err.Error())
	d.observe(job.Topic, resultRetry)
	runAt := d.clock.Now().Add(d.cfg.RetryDelay)
	if markErr := d.store.MarkRetry(storeCtx, job.ID, err.Error(), runAt); markErr != nil {
		slog.Error("failed to mark notification for retry", "job_id", job.ID, "error", markErr.Error())
	}
}

func (d *Dispatcher) sweepLoop(ctx context.Context) {
	ticker := time.NewTicker(d.cfg.RedeliverInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if _, err := d.Redeliver(ctx); err != nil {
				slog.Warn("notification redelivery sweep failed", "error", err.Error())
			}
		case <-ctx.Done():
			return
		}
	}
}

// Redeliver claims jobs that are still pending after the grace period, such as
// those whose process died after commit or that failed transiently. A claimed
// job that does not fit the queue comes back once its lease runs out.
func (d *Dispatcher) Redeliver(ctx context.Context) (int, error) {
	now := d.clock.Now()
	jobs, err := d.store.ClaimDue(ctx, now.Add(-d.cfg.RedeliverGrace), now.Add(d.cfg.RedeliverLease), int32(d.cfg.MaxAttempts), redeliverBatch)
	if err != nil {
		return 0, err
	}
	queued := 0
	for _, job := range jobs {
		select {
		case d.queue <- job:
			queued++
		default:
			slog.Warn("notification queue full, claimed jobs wait for their lease",
				"claimed", len(jobs), "queued", queued)
			return queued, nil
		}
	}
	return queued, nil
}

func (d *Dispatcher) observe(topic, result string) {
	if d.recorder != nil {
		d.recorder.ObserveNotification(topic, result)
	}
}

var _ shared.NotificationDispatcher = (*Dispatcher)(nil)
