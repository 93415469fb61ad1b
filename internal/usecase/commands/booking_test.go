//go:build unit

package commands_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"family-booking/internal/domain/booking"
	"family-booking/internal/infra"
	"family-booking/internal/infra/db"
	"family-booking/internal/pkg/clock"
	"family-booking/internal/pkg/config"
	"family-booking/internal/usecase/commands"
	"family-booking/internal/usecase/shared"
	"family-booking/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBookingRepo keeps bookings in memory and records decision writes.
type fakeBookingRepo struct {
	rows         map[int64]*booking.Booking
	nextID       int64
	overlapping  []int64
	updatedFrom  []booking.Status
	deletedCount int64
	findErr      error
	updateErr    error
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{rows: map[int64]*booking.Booking{}, nextID: 1}
}

func (f *fakeBookingRepo) Insert(_ context.Context, _ db.DBTX, b *booking.Booking) (int64, error) {
	id := f.nextID
	f.nextID++
	f.rows[id] = b
	return id, nil
}

func (f *fakeBookingRepo) FindForUpdate(_ context.Context, _ db.DBTX, id int64) (*booking.Booking, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	b, ok := f.rows[id]
	if !ok {
		return nil, infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	return b, nil
}

func (f *fakeBookingRepo) LockApprovedOverlapping(_ context.Context, _ db.DBTX, _ booking.Stay) ([]int64, error) {
	return f.overlapping, nil
}

func (f *fakeBookingRepo) UpdateDecision(_ context.Context, _ db.DBTX, b *booking.Booking, from booking.Status) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updatedFrom = append(f.updatedFrom, from)
	f.rows[b.ID()] = b
	return nil
}

func (f *fakeBookingRepo) DeleteDecidedBefore(_ context.Context, _ db.DBTX, _ time.Time) (int64, error) {
	return f.deletedCount, nil
}

// fakeOutboxRepo records enqueued jobs.
type fakeOutboxRepo struct {
	jobs []shared.OutboxJob
}

func (f *fakeOutboxRepo) CreateJob(_ context.Context, _ db.DBTX, kind booking.EventKind, payload []byte, runAt time.Time) error {
	f.jobs = append(f.jobs, shared.OutboxJob{ID: uuid.New(), Kind: kind.String(), Payload: payload, RunAt: runAt})
	return nil
}

func (f *fakeOutboxRepo) ClaimDue(_ context.Context, _ db.DBTX, _ time.Time, _ int32) ([]shared.OutboxJob, error) {
	return f.jobs, nil
}

func (f *fakeOutboxRepo) MarkSent(_ context.Context, _ db.DBTX, _ uuid.UUID) error {
	return nil
}

func (f *fakeOutboxRepo) MarkFailed(_ context.Context, _ db.DBTX, _ uuid.UUID, _ string) error {
	return nil
}

type fakeTx struct {
	bookings *fakeBookingRepo
	outbox   *fakeOutboxRepo
}

func (t *fakeTx) Bookings() shared.BookingRepository { return t.bookings }
func (t *fakeTx) Outbox() shared.OutboxRepository    { return t.outbox }
func (t *fakeTx) DB() db.DBTX                        { return nil }

// fakeUoW runs the function directly, without a real transaction.
type fakeUoW struct {
	tx *fakeTx
}

func (u *fakeUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return fn(ctx, u.tx)
}

func (u *fakeUoW) WithDB(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error {
	return fn(ctx, nil)
}

type commandsFixture struct {
	bookings *fakeBookingRepo
	outbox   *fakeOutboxRepo
	clock    *clock.MockClock
	commands commands.BookingCommands
}

func newCommandsFixture(t *testing.T) *commandsFixture {
	t.Helper()

	bookings := newFakeBookingRepo()
	outbox := &fakeOutboxRepo{}
	clk := clock.NewMockClock(time.Date(2026, 7, 2, 10, 0, 0, 0, time.UTC))
	uow := &fakeUoW{tx: &fakeTx{bookings: bookings, outbox: outbox}}

	return &commandsFixture{
		bookings: bookings,
		outbox:   outbox,
		clock:    clk,
		commands: commands.NewBookingCommands(uow, clk, config.AdminConfig{Secret: "secret", Name: "admin"}),
	}
}

func (f *commandsFixture) seed(t *testing.T, status booking.Status) int64 {
	t.Helper()

	entity, err := builder.NewBookingBuilder().
		With(func(b *builder.BookingBuilder) { b.Status = status }).
		BuildDomain()
	require.NoError(t, err)

	id, err := f.bookings.Insert(context.Background(), nil, entity)
	require.NoError(t, err)
	return id
}

func TestSubmit(t *testing.T) {
	t.Run("stores a pending request and queues a created event", func(t *testing.T) {
		f := newCommandsFixture(t)

		id, err := f.commands.Submit(context.Background(), builder.NewBookingBuilder().BuildSubmitInput())
		require.NoError(t, err)
		require.NotZero(t, id)

		stored := f.bookings.rows[id]
		require.NotNil(t, stored)
		assert.Equal(t, booking.StatusPending, stored.Status())
		assert.Equal(t, f.clock.Now(), stored.CreatedAt())

		require.Len(t, f.outbox.jobs, 1)
		assert.Equal(t, "created", f.outbox.jobs[0].Kind)

		var payload map[string]any
		require.NoError(t, json.Unmarshal(f.outbox.jobs[0].Payload, &payload))
		assert.Equal(t, "Alice Smith", payload["requester_name"])
		assert.Equal(t, "2026-07-10", payload["start_date"])
		assert.Equal(t, "2026-07-13", payload["end_date"])
	})

	t.Run("overlapping pending requests are accepted", func(t *testing.T) {
		f := newCommandsFixture(t)
		input := builder.NewBookingBuilder().BuildSubmitInput()

		first, err := f.commands.Submit(context.Background(), input)
		require.NoError(t, err)
		second, err := f.commands.Submit(context.Background(), input)
		require.NoError(t, err)

		assert.NotEqual(t, first, second)
	})

	t.Run("validation failures carry the domain sentinel", func(t *testing.T) {
		f := newCommandsFixture(t)

		cases := []struct {
			name   string
			mutate func(*commands.SubmitBookingInput)
			errIs  error
		}{
			{
				name:   "blank name",
				mutate: func(in *commands.SubmitBookingInput) { in.RequesterName = "  " },
				errIs:  booking.ErrEmptyName,
			},
			{
				name:   "broken email",
				mutate: func(in *commands.SubmitBookingInput) { in.RequesterEmail = "nope" },
				errIs:  booking.ErrMalformedEmail,
			},
			{
				name:   "end before start",
				mutate: func(in *commands.SubmitBookingInput) { in.EndDate = in.StartDate.AddDate(0, 0, -1) },
				errIs:  booking.ErrEmptyStay,
			},
			{
				name:   "zero-night stay",
				mutate: func(in *commands.SubmitBookingInput) { in.EndDate = in.StartDate },
				errIs:  booking.ErrEmptyStay,
			},
		}
		for _, c := range cases {
			t.Run(c.name, func(t *testing.T) {
				input := builder.NewBookingBuilder().BuildSubmitInput()
				c.mutate(&input)

				_, err := f.commands.Submit(context.Background(), input)
				assert.ErrorIs(t, err, c.errIs)
				assert.ErrorIs(t, err, commands.ErrDomainValidation)
			})
		}
	})
}

func TestApprove(t *testing.T) {
	t.Run("approves a pending request", func(t *testing.T) {
		f := newCommandsFixture(t)
		id := f.seed(t, booking.StatusPending)

		require.NoError(t, f.commands.Approve(context.Background(), id))

		stored := f.bookings.rows[id]
		assert.Equal(t, booking.StatusApproved, stored.Status())
		require.NotNil(t, stored.DecidedBy())
		assert.Equal(t, "admin", *stored.DecidedBy())
		require.NotNil(t, stored.DecisionAt())
		assert.Equal(t, f.clock.Now(), *stored.DecisionAt())

		// CAS source status is pending.
		require.Len(t, f.bookings.updatedFrom, 1)
		assert.Equal(t, booking.StatusPending, f.bookings.updatedFrom[0])

		require.Len(t, f.outbox.jobs, 1)
		assert.Equal(t, "approved", f.outbox.jobs[0].Kind)
	})

	t.Run("conflicting approved booking wins", func(t *testing.T) {
		f := newCommandsFixture(t)
		id := f.seed(t, booking.StatusPending)
		f.bookings.overlapping = []int64{99}

		err := f.commands.Approve(context.Background(), id)
		assert.ErrorIs(t, err, commands.ErrDateConflict)

		assert.Empty(t, f.bookings.updatedFrom)
		assert.Empty(t, f.outbox.jobs)
	})

	t.Run("storage overlap rejection maps to date conflict", func(t *testing.T) {
		// A rival approve committed between the overlap scan and the
		// status write surfaces as an exclusion violation.
		f := newCommandsFixture(t)
		id := f.seed(t, booking.StatusPending)
		f.bookings.updateErr = infra.WrapRepoErr("overlapping approved stay", nil, infra.KindExclusionViolated)

		err := f.commands.Approve(context.Background(), id)
		assert.ErrorIs(t, err, commands.ErrDateConflict)

		assert.Empty(t, f.bookings.updatedFrom)
		assert.Empty(t, f.outbox.jobs)
	})

	t.Run("unknown id maps to not found", func(t *testing.T) {
		f := newCommandsFixture(t)

		err := f.commands.Approve(context.Background(), 404)
		assert.ErrorIs(t, err, commands.ErrBookingNotFound)
	})

	t.Run("already decided request is rejected as invalid transition", func(t *testing.T) {
		for _, status := range []booking.Status{booking.StatusApproved, booking.StatusRejected, booking.StatusCancelled} {
			t.Run(string(status), func(t *testing.T) {
				f := newCommandsFixture(t)
				id := f.seed(t, status)

				err := f.commands.Approve(context.Background(), id)
				assert.ErrorIs(t, err, commands.ErrInvalidTransition)
				assert.ErrorIs(t, err, booking.ErrInvalidTransition)
			})
		}
	})
}

func TestReject(t *testing.T) {
	t.Run("rejects a pending request without an overlap scan", func(t *testing.T) {
		f := newCommandsFixture(t)
		id := f.seed(t, booking.StatusPending)
		// Even with overlapping approved rows a reject goes through.
		f.bookings.overlapping = []int64{1, 2}

		require.NoError(t, f.commands.Reject(context.Background(), id))

		assert.Equal(t, booking.StatusRejected, f.bookings.rows[id].Status())
		require.Len(t, f.outbox.jobs, 1)
		assert.Equal(t, "rejected", f.outbox.jobs[0].Kind)
	})

	t.Run("non-pending request cannot be rejected", func(t *testing.T) {
		f := newCommandsFixture(t)
		id := f.seed(t, booking.StatusApproved)

		err := f.commands.Reject(context.Background(), id)
		assert.ErrorIs(t, err, commands.ErrInvalidTransition)
	})
}

func TestCancel(t *testing.T) {
	t.Run("cancels an approved booking and keeps the reason", func(t *testing.T) {
		f := newCommandsFixture(t)
		id := f.seed(t, booking.StatusApproved)

		require.NoError(t, f.commands.Cancel(context.Background(), id, "plans changed"))

		stored := f.bookings.rows[id]
		assert.Equal(t, booking.StatusCancelled, stored.Status())
		assert.Contains(t, stored.Notes().String(), "[cancelled] plans changed")

		require.Len(t, f.bookings.updatedFrom, 1)
		assert.Equal(t, booking.StatusApproved, f.bookings.updatedFrom[0])

		var payload map[string]any
		require.Len(t, f.outbox.jobs, 1)
		require.NoError(t, json.Unmarshal(f.outbox.jobs[0].Payload, &payload))
		assert.Equal(t, "cancelled", payload["event"])
		assert.Contains(t, payload["notes"], "plans changed")
	})

	t.Run("pending request cannot be cancelled", func(t *testing.T) {
		f := newCommandsFixture(t)
		id := f.seed(t, booking.StatusPending)

		err := f.commands.Cancel(context.Background(), id, "")
		assert.ErrorIs(t, err, commands.ErrInvalidTransition)
	})
}

func TestCleanup(t *testing.T) {
	t.Run("reports the purge count", func(t *testing.T) {
		f := newCommandsFixture(t)
		f.bookings.deletedCount = 4

		deleted, err := f.commands.Cleanup(context.Background(), 15*24*time.Hour)
		require.NoError(t, err)
		assert.Equal(t, int64(4), deleted)
	})
}
