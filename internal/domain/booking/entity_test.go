//go:build unit

package booking_test

import (
	"testing"
	"time"

	"family-booking/internal/domain/booking"
	"family-booking/tests/common/builder"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookingLifecycle(t *testing.T) {
	now := time.Date(2026, 7, 2, 10, 0, 0, 0, time.UTC)

	t.Run("new booking starts pending", func(t *testing.T) {
		b, err := builder.NewBookingBuilder().BuildDomain()
		require.NoError(t, err)

		assert.Equal(t, booking.StatusPending, b.Status())
		assert.Nil(t, b.DecisionAt())
		assert.Nil(t, b.DecidedBy())
	})

	t.Run("approve records the decision", func(t *testing.T) {
		b, err := builder.NewBookingBuilder().BuildDomain()
		require.NoError(t, err)

		require.NoError(t, b.Approve("admin", now))

		assert.Equal(t, booking.StatusApproved, b.Status())
		require.NotNil(t, b.DecisionAt())
		assert.Equal(t, now, *b.DecisionAt())
		require.NotNil(t, b.DecidedBy())
		assert.Equal(t, "admin", *b.DecidedBy())
	})

	t.Run("cancel appends the reason to notes", func(t *testing.T) {
		b, err := builder.NewBookingBuilder().BuildDomain()
		require.NoError(t, err)
		require.NoError(t, b.Approve("admin", now))

		require.NoError(t, b.Cancel("plans changed", "admin", now.Add(time.Hour)))

		assert.Equal(t, booking.StatusCancelled, b.Status())
		assert.Equal(t, "Summer trip\n[cancelled] plans changed", b.Notes().String())
	})

	t.Run("cancel without reason keeps notes", func(t *testing.T) {
		b, err := builder.NewBookingBuilder().BuildDomain()
		require.NoError(t, err)
		require.NoError(t, b.Approve("admin", now))

		require.NoError(t, b.Cancel("", "admin", now))

		assert.Equal(t, booking.StatusCancelled, b.Status())
		assert.Equal(t, "Summer trip", b.Notes().String())
	})

	t.Run("transition validation", func(t *testing.T) {
		cases := []struct {
			name string
			from booking.Status
			act  func(*booking.Booking) error
			ok   bool
		}{
			{name: "approve pending", from: booking.StatusPending, act: func(b *booking.Booking) error { return b.Approve("admin", now) }, ok: true},
			{name: "reject pending", from: booking.StatusPending, act: func(b *booking.Booking) error { return b.Reject("admin", now) }, ok: true},
			{name: "cancel approved", from: booking.StatusApproved, act: func(b *booking.Booking) error { return b.Cancel("", "admin", now) }, ok: true},
			{name: "approve approved", from: booking.StatusApproved, act: func(b *booking.Booking) error { return b.Approve("admin", now) }},
			{name: "approve rejected", from: booking.StatusRejected, act: func(b *booking.Booking) error { return b.Approve("admin", now) }},
			{name: "approve cancelled", from: booking.StatusCancelled, act: func(b *booking.Booking) error { return b.Approve("admin", now) }},
			{name: "reject approved", from: booking.StatusApproved, act: func(b *booking.Booking) error { return b.Reject("admin", now) }},
			{name: "reject rejected", from: booking.StatusRejected, act: func(b *booking.Booking) error { return b.Reject("admin", now) }},
			{name: "cancel pending", from: booking.StatusPending, act: func(b *booking.Booking) error { return b.Cancel("", "admin", now) }},
			{name: "cancel rejected", from: booking.StatusRejected, act: func(b *booking.Booking) error { return b.Cancel("", "admin", now) }},
			{name: "cancel cancelled", from: booking.StatusCancelled, act: func(b *booking.Booking) error { return b.Cancel("", "admin", now) }},
		}
		for _, c := range cases {
			t.Run(c.name, func(t *testing.T) {
				b, err := builder.NewBookingBuilder().
					With(func(bb *builder.BookingBuilder) { bb.Status = c.from }).
					BuildDomain()
				require.NoError(t, err)

				err = c.act(b)
				if c.ok {
					assert.NoError(t, err)
				} else {
					assert.ErrorIs(t, err, booking.ErrInvalidTransition)
				}
			})
		}
	})

	t.Run("invalid transition message names current status", func(t *testing.T) {
		b, err := builder.NewBookingBuilder().
			With(func(bb *builder.BookingBuilder) { bb.Status = booking.StatusRejected }).
			BuildDomain()
		require.NoError(t, err)

		err = b.Approve("admin", now)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "rejected")
	})
}

func TestStatus(t *testing.T) {
	cases := []struct {
		status   booking.Status
		valid    bool
		active   bool
		terminal bool
	}{
		{status: booking.StatusPending, valid: true, active: true},
		{status: booking.StatusApproved, valid: true, active: true},
		{status: booking.StatusRejected, valid: true, terminal: true},
		{status: booking.StatusCancelled, valid: true, terminal: true},
		{status: booking.Status("unknown")},
		{status: booking.Status("")},
	}
	for _, c := range cases {
		t.Run(string(c.status), func(t *testing.T) {
			assert.Equal(t, c.valid, c.status.IsValid())
			assert.Equal(t, c.active, c.status.IsActive())
			assert.Equal(t, c.terminal, c.status.IsTerminal())
		})
	}
}
