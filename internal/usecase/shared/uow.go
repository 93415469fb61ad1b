package shared

import (
	"context"
	"time"

	"family-booking/internal/domain/booking"
	"family-booking/internal/infra/db"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithDB: Single query operations using implicit transactions
	WithDB(ctx context.Context, fn func(ctx context.Context, db db.DBTX) error) error
}

type Tx interface {
	Bookings() BookingRepository
	Outbox() OutboxRepository
	DB() db.DBTX
}

type BookingRepository interface {
	Insert(ctx context.Context, tx db.DBTX, b *booking.Booking) (int64, error)
	// FindForUpdate acquires a row lock on the candidate so competing
	// decisions on the same request serialize.
	FindForUpdate(ctx context.Context, tx db.DBTX, id int64) (*booking.Booking, error)
	// LockApprovedOverlapping locks every committed approved row whose
	// stay overlaps the candidate range and returns their ids.
	LockApprovedOverlapping(ctx context.Context, tx db.DBTX, stay booking.Stay) ([]int64, error)
	// UpdateDecision persists a status transition as a compare-and-swap
	// on the source status. A write that would create two overlapping
	// approved stays fails with KindExclusionViolated.
	UpdateDecision(ctx context.Context, tx db.DBTX, b *booking.Booking, from booking.Status) error
	// DeleteDecidedBefore hard-deletes terminal rows decided before the cutoff.
	DeleteDecidedBefore(ctx context.Context, tx db.DBTX, cutoff time.Time) (int64, error)
}

// OutboxJob is one queued notification, claimed and delivered by the
// notifier worker after the originating transaction commits.
type OutboxJob struct {
	ID       uuid.UUID
	Kind     string
	Payload  []byte
	Attempts int32
	RunAt    time.Time
}

type OutboxRepository interface {
	CreateJob(ctx context.Context, tx db.DBTX, kind booking.EventKind, payload []byte, runAt time.Time) error
	ClaimDue(ctx context.Context, tx db.DBTX, now time.Time, limit int32) ([]OutboxJob, error)
	MarkSent(ctx context.Context, tx db.DBTX, id uuid.UUID) error
	MarkFailed(ctx context.Context, tx db.DBTX, id uuid.UUID, lastError string) error
}
