package queries

import (
	"context"
	"time"

	"family-booking/internal/domain/booking"
	"family-booking/internal/infra"
	"family-booking/internal/pkg/errs"
)

var ErrBookingNotFound = errs.New("booking not found")

// Read model (DTO for read side)
type BookingView struct {
	ID             int64      `json:"id"`
	RequesterName  string     `json:"requester_name"`
	RequesterEmail string     `json:"requester_email"`
	StartDate      time.Time  `json:"start_date"`
	EndDate        time.Time  `json:"end_date"`
	Status         string     `json:"status"`
	Notes          *string    `json:"notes,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	DecisionAt     *time.Time `json:"decision_at,omitempty"`
	DecidedBy      *string    `json:"decided_by,omitempty"`
}

// StatusFilter narrows the admin listing. Active is shorthand for
// status in {pending, approved} and wins over Status when set.
type StatusFilter struct {
	Status *booking.Status
	Active bool
}

type BookingReadStore interface {
	FindByID(ctx context.Context, id int64) (*BookingView, error)
	List(ctx context.Context, filter StatusFilter) ([]*BookingView, error)
	ListApproved(ctx context.Context) ([]*BookingView, error)
}

type BookingQueries interface {
	GetByID(ctx context.Context, id int64) (*BookingView, error)
	List(ctx context.Context, filter StatusFilter) ([]*BookingView, error)
	ListApproved(ctx context.Context) ([]*BookingView, error)
}

type bookingQueriesImpl struct {
	store BookingReadStore
}

func NewBookingQueries(store BookingReadStore) BookingQueries {
	return &bookingQueriesImpl{store: store}
}

func (q *bookingQueriesImpl) GetByID(ctx context.Context, id int64) (*BookingView, error) {
	view, err := q.store.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return view, nil
}

func (q *bookingQueriesImpl) List(ctx context.Context, filter StatusFilter) ([]*BookingView, error) {
	return q.store.List(ctx, filter)
}

func (q *bookingQueriesImpl) ListApproved(ctx context.Context) ([]*BookingView, error) {
	return q.store.ListApproved(ctx)
}
