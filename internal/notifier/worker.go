package notifier

import (
	"context"
	"log/slog"
	"time"

	"family-booking/internal/pkg/clock"
	"family-booking/internal/usecase/shared"

	"github.com/robfig/cron/v3"
)

const claimBatchSize = 20

// Worker drains the notification outbox on a cron schedule. Delivery is
// best-effort: a failed send is logged and retried later, and is never
// reported back to the operation that queued it.
type Worker struct {
	uow      shared.UnitOfWork
	mailer   Mailer
	renderer *Renderer
	clock    clock.Clock
	cron     *cron.Cron
	spec     string
}

func NewWorker(
	uow shared.UnitOfWork,
	mailer Mailer,
	renderer *Renderer,
	clk clock.Clock,
	spec string,
) *Worker {
	return &Worker{
		uow:      uow,
		mailer:   mailer,
		renderer: renderer,
		clock:    clk,
		cron:     cron.New(),
		spec:     spec,
	}
}

func (w *Worker) Start() error {
	_, err := w.cron.AddFunc(w.spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		w.Tick(ctx)
	})
	if err != nil {
		return err
	}
	w.cron.Start()
	return nil
}

func (w *Worker) Stop() {
	stopCtx := w.cron.Stop()
	<-stopCtx.Done()
}

// Tick claims one batch of due jobs and delivers them. The whole batch
// runs in a single transaction: the SKIP LOCKED claim keeps concurrent
// ticks off the same rows until the outcome is committed. Exported so
// tests and the startup hook can run a sweep without waiting for the
// schedule.
func (w *Worker) Tick(ctx context.Context) {
	err := w.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		jobs, err := tx.Outbox().ClaimDue(ctx, tx.DB(), w.clock.Now(), claimBatchSize)
		if err != nil {
			return err
		}
		for _, job := range jobs {
			if err := w.deliver(ctx, tx, job); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		slog.Error("notification sweep failed", "error", err.Error())
	}
}

// deliver sends one job and records the outcome. Only bookkeeping errors
// propagate; a failed send just requeues the job.
func (w *Worker) deliver(ctx context.Context, tx shared.Tx, job shared.OutboxJob) error {
	msg, err := w.renderer.Render(job.Kind, job.Payload)
	if err == nil && msg.ToEmail == "" {
		// No recipient configured (e.g. NOTIFY_EMAIL unset): drop quietly.
		return tx.Outbox().MarkSent(ctx, tx.DB(), job.ID)
	}
	if err == nil {
		err = w.mailer.Send(msg)
	}

	if err != nil {
		slog.Warn("notification delivery failed",
			"job_id", job.ID.String(),
			"kind", job.Kind,
			"attempts", job.Attempts+1,
			"error", err.Error())
		return tx.Outbox().MarkFailed(ctx, tx.DB(), job.ID, err.Error())
	}

	slog.Info("notification delivered", "job_id", job.ID.String(), "kind", job.Kind)
	return tx.Outbox().MarkSent(ctx, tx.DB(), job.ID)
}
