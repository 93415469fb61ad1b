package booking

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidTransition = errors.New("invalid status transition")

// Booking is a request for the apartment moving through
// pending → approved → cancelled, or pending → rejected.
type Booking struct {
	id         int64
	requester  Requester
	stay       Stay
	status     Status
	notes      Notes
	createdAt  time.Time
	decisionAt *time.Time
	decidedBy  *string
}

// NewBooking creates a pending request. The id stays zero until the
// ledger persists the row.
func NewBooking(requester Requester, stay Stay, notes Notes, now time.Time) *Booking {
	return &Booking{
		requester: requester,
		stay:      stay,
		status:    StatusPending,
		notes:     notes,
		createdAt: now,
	}
}

func ReconstructBooking(
	id int64,
	requester Requester,
	stay Stay,
	status Status,
	notes Notes,
	createdAt time.Time,
	decisionAt *time.Time,
	decidedBy *string,
) *Booking {
	return &Booking{
		id:         id,
		requester:  requester,
		stay:       stay,
		status:     status,
		notes:      notes,
		createdAt:  createdAt,
		decisionAt: decisionAt,
		decidedBy:  decidedBy,
	}
}

// Approve moves a pending request to approved. The non-overlap check
// against other approved bookings belongs to the ledger transaction,
// not the entity.
func (b *Booking) Approve(decidedBy string, now time.Time) error {
	if b.status != StatusPending {
		return fmt.Errorf("%w: cannot approve booking in status %s", ErrInvalidTransition, b.status)
	}
	b.status = StatusApproved
	b.decide(decidedBy, now)
	return nil
}

func (b *Booking) Reject(decidedBy string, now time.Time) error {
	if b.status != StatusPending {
		return fmt.Errorf("%w: cannot reject booking in status %s", ErrInvalidTransition, b.status)
	}
	b.status = StatusRejected
	b.decide(decidedBy, now)
	return nil
}

// Cancel withdraws an already approved booking. An optional reason is
// appended to the notes, never replacing what the requester wrote.
func (b *Booking) Cancel(reason, decidedBy string, now time.Time) error {
	if b.status != StatusApproved {
		return fmt.Errorf("%w: only approved bookings can be cancelled (current: %s)", ErrInvalidTransition, b.status)
	}
	b.status = StatusCancelled
	b.notes = b.notes.AppendCancellation(reason)
	b.decide(decidedBy, now)
	return nil
}

func (b *Booking) decide(decidedBy string, now time.Time) {
	b.decisionAt = &now
	b.decidedBy = &decidedBy
}

func (b *Booking) ID() int64              { return b.id }
func (b *Booking) Requester() Requester   { return b.requester }
func (b *Booking) Stay() Stay             { return b.stay }
func (b *Booking) Status() Status         { return b.status }
func (b *Booking) Notes() Notes           { return b.notes }
func (b *Booking) CreatedAt() time.Time   { return b.createdAt }
func (b *Booking) DecisionAt() *time.Time { return b.decisionAt }
func (b *Booking) DecidedBy() *string     { return b.decidedBy }
