package readstore

import (
	"context"
	"errors"

	"family-booking/internal/domain/booking"
	"family-booking/internal/infra"
	"family-booking/internal/infra/db"
	"family-booking/internal/usecase/queries"

	"github.com/jackc/pgx/v5"
)

type BookingReadStore struct {
	db db.DBTX
}

func NewBookingReadStore(dbtx db.DBTX) *BookingReadStore {
	return &BookingReadStore{db: dbtx}
}

const bookingViewColumns = `id, requester_name, requester_email, start_date, end_date, status, notes, created_at, decision_at, decided_by`

func (r *BookingReadStore) FindByID(ctx context.Context, id int64) (*queries.BookingView, error) {
	query := `SELECT ` + bookingViewColumns + ` FROM bookings WHERE id = $1`

	view, err := scanBookingView(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking by ID", err)
	}

	return view, nil
}

// List returns the admin view, ordered by (start_date, id) so requests
// for the same window keep their submission order.
func (r *BookingReadStore) List(ctx context.Context, filter queries.StatusFilter) ([]*queries.BookingView, error) {
	query := `SELECT ` + bookingViewColumns + ` FROM bookings`
	var args []any

	switch {
	case filter.Active:
		query += ` WHERE status IN ('pending', 'approved')`
	case filter.Status != nil:
		query += ` WHERE status = $1`
		args = append(args, filter.Status.String())
	}
	query += ` ORDER BY start_date ASC, id ASC`

	return r.queryViews(ctx, query, args...)
}

func (r *BookingReadStore) ListApproved(ctx context.Context) ([]*queries.BookingView, error) {
	query := `SELECT ` + bookingViewColumns + ` FROM bookings WHERE status = 'approved' ORDER BY start_date ASC, id ASC`
	return r.queryViews(ctx, query)
}

func (r *BookingReadStore) queryViews(ctx context.Context, query string, args ...any) ([]*queries.BookingView, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list bookings", err)
	}
	defer rows.Close()

	result := []*queries.BookingView{}
	for rows.Next() {
		view, err := scanBookingView(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan booking row", err)
		}
		result = append(result, view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read booking rows", err)
	}

	return result, nil
}

func scanBookingView(row pgx.Row) (*queries.BookingView, error) {
	var view queries.BookingView
	err := row.Scan(
		&view.ID,
		&view.RequesterName,
		&view.RequesterEmail,
		&view.StartDate,
		&view.EndDate,
		&view.Status,
		&view.Notes,
		&view.CreatedAt,
		&view.DecisionAt,
		&view.DecidedBy,
	)
	if err != nil {
		return nil, err
	}
	if !booking.Status(view.Status).IsValid() {
		return nil, errors.New("unknown booking status in storage: " + view.Status)
	}
	return &view, nil
}
