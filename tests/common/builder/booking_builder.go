//go:build unit || e2e

package builder

import (
	"time"

	dombooking "family-booking/internal/domain/booking"
	reqdto "family-booking/internal/handler/dto/request"
	"family-booking/internal/usecase/commands"
	"family-booking/internal/usecase/queries"
)

type BookingBuilder struct {
	ID             int64
	RequesterName  string
	RequesterEmail string
	StartDate      time.Time
	EndDate        time.Time
	Status         dombooking.Status
	Notes          string
	CreatedAt      time.Time
	DecisionAt     *time.Time
	DecidedBy      *string
}

func NewBookingBuilder() *BookingBuilder {
	start := time.Date(2026, 7, 10, 0, 0, 0, 0, time.UTC)
	return &BookingBuilder{
		ID:             1,
		RequesterName:  "Alice Smith",
		RequesterEmail: "alice@example.com",
		StartDate:      start,
		EndDate:        start.AddDate(0, 0, 3),
		Status:         dombooking.StatusPending,
		Notes:          "Summer trip",
		CreatedAt:      time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (b *BookingBuilder) With(mutate func(*BookingBuilder)) *BookingBuilder {
	mutate(b)
	return b
}

// Build methods
func (b *BookingBuilder) BuildDomain() (*dombooking.Booking, error) {
	requester, err := dombooking.NewRequester(b.RequesterName, b.RequesterEmail)
	if err != nil {
		return nil, err
	}
	stay, err := dombooking.NewStay(b.StartDate, b.EndDate)
	if err != nil {
		return nil, err
	}
	return dombooking.ReconstructBooking(
		b.ID, requester, stay, b.Status,
		dombooking.NewNotes(b.Notes), b.CreatedAt, b.DecisionAt, b.DecidedBy,
	), nil
}

func (b *BookingBuilder) BuildSubmitInput() commands.SubmitBookingInput {
	return commands.SubmitBookingInput{
		RequesterName:  b.RequesterName,
		RequesterEmail: b.RequesterEmail,
		StartDate:      b.StartDate,
		EndDate:        b.EndDate,
		Notes:          b.Notes,
	}
}

func (b *BookingBuilder) BuildSubmitRequestDTO() reqdto.SubmitBookingRequest {
	notes := b.Notes
	return reqdto.SubmitBookingRequest{
		RequesterName:  b.RequesterName,
		RequesterEmail: b.RequesterEmail,
		StartDate:      b.StartDate.Format(time.DateOnly),
		EndDate:        b.EndDate.Format(time.DateOnly),
		Notes:          &notes,
	}
}

func (b *BookingBuilder) BuildView() *queries.BookingView {
	var notes *string
	if b.Notes != "" {
		n := b.Notes
		notes = &n
	}
	return &queries.BookingView{
		ID:             b.ID,
		RequesterName:  b.RequesterName,
		RequesterEmail: b.RequesterEmail,
		StartDate:      b.StartDate,
		EndDate:        b.EndDate,
		Status:         string(b.Status),
		Notes:          notes,
		CreatedAt:      b.CreatedAt,
		DecisionAt:     b.DecisionAt,
		DecidedBy:      b.DecidedBy,
	}
}
