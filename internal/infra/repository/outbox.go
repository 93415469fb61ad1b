package repository

import (
	"context"
	"time"

	"family-booking/internal/domain/booking"
	"family-booking/internal/infra"
	"family-booking/internal/infra/db"
	"family-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

// OutboxRepository persists notification jobs in the same transaction as
// the lifecycle change that triggered them. Delivery happens later, from
// the notifier worker, so a mail failure can never roll back a decision.
type OutboxRepository struct{}

func NewOutboxRepository() *OutboxRepository {
	return &OutboxRepository{}
}

func (r *OutboxRepository) CreateJob(ctx context.Context, tx db.DBTX, kind booking.EventKind, payload []byte, runAt time.Time) error {
	const query = `
		INSERT INTO notification_jobs (id, kind, payload, status, run_at)
		VALUES ($1, $2, $3, 'queued', $4)`

	_, err := tx.Exec(ctx, query, uuid.New(), kind.String(), payload, runAt)
	if err != nil {
		return infra.WrapRepoErr("failed to create notification job", err)
	}

	return nil
}

// ClaimDue picks up due queued jobs with SKIP LOCKED so concurrent worker
// ticks never deliver the same job twice.
func (r *OutboxRepository) ClaimDue(ctx context.Context, tx db.DBTX, now time.Time, limit int32) ([]shared.OutboxJob, error) {
	const query = `
		SELECT id, kind, payload, attempts, run_at
		FROM notification_jobs
		WHERE status = 'queued' AND run_at <= $1
		ORDER BY run_at
		LIMIT $2
		FOR UPDATE SKIP LOCKED`

	rows, err := tx.Query(ctx, query, now, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to claim notification jobs", err)
	}
	defer rows.Close()

	var jobs []shared.OutboxJob
	for rows.Next() {
		var job shared.OutboxJob
		if err := rows.Scan(&job.ID, &job.Kind, &job.Payload, &job.Attempts, &job.RunAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan notification job", err)
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read notification jobs", err)
	}

	return jobs, nil
}

func (r *OutboxRepository) MarkSent(ctx context.Context, tx db.DBTX, id uuid.UUID) error {
	const query = `
		UPDATE notification_jobs
		SET status = 'sent', attempts = attempts + 1, last_error = NULL, updated_at = now()
		WHERE id = $1`

	if _, err := tx.Exec(ctx, query, id); err != nil {
		return infra.WrapRepoErr("failed to mark notification job sent", err)
	}

	return nil
}

// MarkFailed requeues the job with backoff until the attempt budget is
// spent, then parks it as dead.
func (r *OutboxRepository) MarkFailed(ctx context.Context, tx db.DBTX, id uuid.UUID, lastError string) error {
	const maxAttempts = 5
	const query = `
		UPDATE notification_jobs
		SET attempts = attempts + 1,
		    last_error = $2,
		    status = CASE WHEN attempts + 1 >= $3 THEN 'dead' ELSE 'queued' END,
		    run_at = now() + make_interval(mins => (attempts + 1) * 5),
		    updated_at = now()
		WHERE id = $1`

	if _, err := tx.Exec(ctx, query, id, lastError, maxAttempts); err != nil {
		return infra.WrapRepoErr("failed to mark notification job failed", err)
	}

	return nil
}
