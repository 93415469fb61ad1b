package repository

import (
	"context"
	"errors"
	"time"

	"family-booking/internal/domain/booking"
	"family-booking/internal/infra"
	"family-booking/internal/infra/db"

	"github.com/jackc/pgx/v5"
)

type BookingRepository struct{}

func NewBookingRepository() *BookingRepository {
	return &BookingRepository{}
}

const bookingColumns = `id, requester_name, requester_email, start_date, end_date, status, notes, created_at, decision_at, decided_by`

func (r *BookingRepository) Insert(ctx context.Context, tx db.DBTX, b *booking.Booking) (int64, error) {
	const query = `
		INSERT INTO bookings (requester_name, requester_email, start_date, end_date, status, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7)
		RETURNING id`

	var id int64
	err := tx.QueryRow(ctx, query,
		b.Requester().Name(),
		b.Requester().Email(),
		b.Stay().Start(),
		b.Stay().End(),
		b.Status().String(),
		b.Notes().String(),
		b.CreatedAt(),
	).Scan(&id)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to insert booking", err)
	}

	return id, nil
}

// FindForUpdate locks the candidate row so two administrators cannot
// decide the same request at once.
func (r *BookingRepository) FindForUpdate(ctx context.Context, tx db.DBTX, id int64) (*booking.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1 FOR UPDATE`

	row := tx.QueryRow(ctx, query, id)
	b, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking for update", err)
	}

	return b, nil
}

// LockApprovedOverlapping takes row locks on every committed approved
// booking whose half-open range overlaps the candidate stay. Rows still
// pending in a rival transaction are invisible here; those races fall
// through to the bookings_no_overlap_approved exclusion constraint.
func (r *BookingRepository) LockApprovedOverlapping(ctx context.Context, tx db.DBTX, stay booking.Stay) ([]int64, error) {
	const query = `
		SELECT id FROM bookings
		WHERE status = 'approved'
		  AND end_date > $1
		  AND start_date < $2
		ORDER BY id
		FOR UPDATE`

	rows, err := tx.Query(ctx, query, stay.Start(), stay.End())
	if err != nil {
		return nil, infra.WrapRepoErr("failed to lock overlapping approved bookings", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, infra.WrapRepoErr("failed to scan overlapping booking id", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read overlapping booking ids", err)
	}

	return ids, nil
}

// UpdateDecision is a compare-and-swap on the source status: if another
// transaction already moved the row, zero rows match and the caller sees
// KindNotFound.
func (r *BookingRepository) UpdateDecision(ctx context.Context, tx db.DBTX, b *booking.Booking, from booking.Status) error {
	const query = `
		UPDATE bookings
		SET status = $1, notes = NULLIF($2, ''), decision_at = $3, decided_by = $4
		WHERE id = $5 AND status = $6`

	tag, err := tx.Exec(ctx, query,
		b.Status().String(),
		b.Notes().String(),
		b.DecisionAt(),
		b.DecidedBy(),
		b.ID(),
		from.String(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update booking decision", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("booking status changed concurrently", nil, infra.KindNotFound)
	}

	return nil
}

func (r *BookingRepository) DeleteDecidedBefore(ctx context.Context, tx db.DBTX, cutoff time.Time) (int64, error) {
	const query = `
		DELETE FROM bookings
		WHERE status IN ('cancelled', 'rejected')
		  AND decision_at < $1`

	tag, err := tx.Exec(ctx, query, cutoff)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to delete expired bookings", err)
	}

	return tag.RowsAffected(), nil
}

func scanBooking(row pgx.Row) (*booking.Booking, error) {
	var (
		id         int64
		name       string
		email      string
		startDate  time.Time
		endDate    time.Time
		status     string
		notes      *string
		createdAt  time.Time
		decisionAt *time.Time
		decidedBy  *string
	)

	if err := row.Scan(&id, &name, &email, &startDate, &endDate, &status, &notes, &createdAt, &decisionAt, &decidedBy); err != nil {
		return nil, err
	}

	st := booking.Status(status)
	if !st.IsValid() {
		return nil, errors.New("unknown booking status in storage: " + status)
	}

	noteText := ""
	if notes != nil {
		noteText = *notes
	}

	return booking.ReconstructBooking(
		id,
		booking.ReconstructRequester(name, email),
		booking.ReconstructStay(startDate, endDate),
		st,
		booking.NewNotes(noteText),
		createdAt,
		decisionAt,
		decidedBy,
	), nil
}
