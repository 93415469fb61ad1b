package commands

import (
	"context"
	"encoding/json"
	"time"

	"family-booking/internal/domain/booking"
	"family-booking/internal/infra"
	"family-booking/internal/pkg/clock"
	"family-booking/internal/pkg/config"
	"family-booking/internal/pkg/errs"
	"family-booking/internal/usecase/shared"
)

var (
	ErrBookingNotFound         = errs.New("booking not found")
	ErrInvalidTransition       = errs.New("invalid booking transition")
	ErrDateConflict            = errs.New("date conflict with an approved booking")
	ErrDomainValidation        = errs.New("domain validation error")
	ErrDatabaseOperationFailed = errs.New("database operation failed")
)

type SubmitBookingInput struct {
	RequesterName  string
	RequesterEmail string
	StartDate      time.Time
	EndDate        time.Time
	Notes          string
}

type BookingCommands interface {
	// Submit stores a new pending request. Overlapping pending requests
	// are allowed on purpose: conflicts are resolved at approval time,
	// first admin decision wins.
	Submit(ctx context.Context, input SubmitBookingInput) (int64, error)
	Approve(ctx context.Context, id int64) error
	Reject(ctx context.Context, id int64) error
	Cancel(ctx context.Context, id int64, reason string) error
	// Cleanup hard-deletes rejected/cancelled rows decided before
	// now-retention and reports how many went away.
	Cleanup(ctx context.Context, retention time.Duration) (int64, error)
}

type bookingCommandsImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
	admin config.AdminConfig
}

func NewBookingCommands(uow shared.UnitOfWork, clk clock.Clock, admin config.AdminConfig) BookingCommands {
	return &bookingCommandsImpl{uow: uow, clock: clk, admin: admin}
}

func (uc *bookingCommandsImpl) Submit(ctx context.Context, input SubmitBookingInput) (int64, error) {
	requester, err := booking.NewRequester(input.RequesterName, input.RequesterEmail)
	if err != nil {
		return 0, errs.Mark(err, ErrDomainValidation)
	}

	stay, err := booking.NewStay(input.StartDate, input.EndDate)
	if err != nil {
		return 0, errs.Mark(err, ErrDomainValidation)
	}

	entity := booking.NewBooking(requester, stay, booking.NewNotes(input.Notes), uc.clock.Now())

	var createdID int64
	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		id, derr := tx.Bookings().Insert(ctx, tx.DB(), entity)
		if derr != nil {
			return errs.Mark(derr, ErrDatabaseOperationFailed)
		}
		createdID = id
		return uc.enqueueEvent(ctx, tx, booking.EventCreated, id, entity)
	})
	if err != nil {
		return 0, err
	}

	return createdID, nil
}

func (uc *bookingCommandsImpl) Approve(ctx context.Context, id int64) error {
	return uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		entity, err := uc.findForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}

		if err := entity.Approve(uc.admin.Name, uc.clock.Now()); err != nil {
			return errs.Mark(err, ErrInvalidTransition)
		}

		// Fast path: lock and report any already-approved overlapping
		// booking. This only sees committed approvals; the race between
		// two approves of different pending requests is settled by the
		// exclusion constraint on the status write below.
		conflicts, err := tx.Bookings().LockApprovedOverlapping(ctx, tx.DB(), entity.Stay())
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if len(conflicts) > 0 {
			return ErrDateConflict
		}

		// The bookings_no_overlap_approved constraint makes the loser of
		// a concurrent approve wait for the winner's commit and then fail
		// here, leaving its request pending.
		if err := tx.Bookings().UpdateDecision(ctx, tx.DB(), entity, booking.StatusPending); err != nil {
			if infra.IsKind(err, infra.KindExclusionViolated) {
				return ErrDateConflict
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		return uc.enqueueEvent(ctx, tx, booking.EventApproved, id, entity)
	})
}

func (uc *bookingCommandsImpl) Reject(ctx context.Context, id int64) error {
	return uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		entity, err := uc.findForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}

		// Rejecting never conflicts, no overlap scan needed.
		if err := entity.Reject(uc.admin.Name, uc.clock.Now()); err != nil {
			return errs.Mark(err, ErrInvalidTransition)
		}

		if err := tx.Bookings().UpdateDecision(ctx, tx.DB(), entity, booking.StatusPending); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		return uc.enqueueEvent(ctx, tx, booking.EventRejected, id, entity)
	})
}

func (uc *bookingCommandsImpl) Cancel(ctx context.Context, id int64, reason string) error {
	return uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		entity, err := uc.findForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}

		if err := entity.Cancel(reason, uc.admin.Name, uc.clock.Now()); err != nil {
			return errs.Mark(err, ErrInvalidTransition)
		}

		if err := tx.Bookings().UpdateDecision(ctx, tx.DB(), entity, booking.StatusApproved); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		return uc.enqueueEvent(ctx, tx, booking.EventCancelled, id, entity)
	})
}

func (uc *bookingCommandsImpl) Cleanup(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := uc.clock.Now().Add(-retention)

	var deleted int64
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		n, derr := tx.Bookings().DeleteDecidedBefore(ctx, tx.DB(), cutoff)
		if derr != nil {
			return errs.Mark(derr, ErrDatabaseOperationFailed)
		}
		deleted = n
		return nil
	})
	if err != nil {
		return 0, err
	}

	return deleted, nil
}

func (uc *bookingCommandsImpl) findForUpdate(ctx context.Context, tx shared.Tx, id int64) (*booking.Booking, error) {
	entity, err := tx.Bookings().FindForUpdate(ctx, tx.DB(), id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return entity, nil
}

// eventPayload is the booking snapshot carried by an outbox job.
type eventPayload struct {
	BookingID      int64   `json:"booking_id"`
	Event          string  `json:"event"`
	RequesterName  string  `json:"requester_name"`
	RequesterEmail string  `json:"requester_email"`
	StartDate      string  `json:"start_date"`
	EndDate        string  `json:"end_date"`
	Status         string  `json:"status"`
	Notes          *string `json:"notes,omitempty"`
}

func (uc *bookingCommandsImpl) enqueueEvent(ctx context.Context, tx shared.Tx, kind booking.EventKind, id int64, entity *booking.Booking) error {
	payload := eventPayload{
		BookingID:      id,
		Event:          kind.String(),
		RequesterName:  entity.Requester().Name(),
		RequesterEmail: entity.Requester().Email(),
		StartDate:      entity.Stay().Start().Format(time.DateOnly),
		EndDate:        entity.Stay().End().Format(time.DateOnly),
		Status:         entity.Status().String(),
	}
	if !entity.Notes().IsEmpty() {
		notes := entity.Notes().String()
		payload.Notes = &notes
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}

	if err := tx.Outbox().CreateJob(ctx, tx.DB(), kind, data, uc.clock.Now()); err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}

	return nil
}
