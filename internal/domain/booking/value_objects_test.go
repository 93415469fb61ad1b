//go:build unit

package booking_test

import (
	"testing"
	"time"

	"family-booking/internal/domain/booking"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func mustStay(t *testing.T, start, end time.Time) booking.Stay {
	t.Helper()
	stay, err := booking.NewStay(start, end)
	require.NoError(t, err)
	return stay
}

func TestStay(t *testing.T) {
	t.Run("basic success case", func(t *testing.T) {
		stay, err := booking.NewStay(day(2026, 7, 10), day(2026, 7, 13))
		require.NoError(t, err)

		assert.Equal(t, day(2026, 7, 10), stay.Start())
		assert.Equal(t, day(2026, 7, 13), stay.End())
		assert.Equal(t, 3, stay.Nights())
	})

	t.Run("truncates time of day and timezone", func(t *testing.T) {
		loc := time.FixedZone("JST", 9*3600)
		stay, err := booking.NewStay(
			time.Date(2026, 7, 10, 18, 30, 0, 0, loc),
			time.Date(2026, 7, 12, 6, 0, 0, 0, loc),
		)
		require.NoError(t, err)

		// 18:30 JST on the 10th is still the 10th in UTC terms after
		// converting: 09:30 UTC.
		assert.Equal(t, day(2026, 7, 10), stay.Start())
		assert.Equal(t, day(2026, 7, 11), stay.End())
	})

	t.Run("range validation", func(t *testing.T) {
		cases := []struct {
			name  string
			start time.Time
			end   time.Time
			errIs error
		}{
			{name: "one night", start: day(2026, 7, 10), end: day(2026, 7, 11)},
			{name: "end equals start", start: day(2026, 7, 10), end: day(2026, 7, 10), errIs: booking.ErrEmptyStay},
			{name: "end before start", start: day(2026, 7, 10), end: day(2026, 7, 9), errIs: booking.ErrEmptyStay},
		}
		for _, c := range cases {
			t.Run(c.name, func(t *testing.T) {
				_, err := booking.NewStay(c.start, c.end)
				if c.errIs != nil {
					assert.ErrorIs(t, err, c.errIs)
				} else {
					assert.NoError(t, err)
				}
			})
		}
	})

	t.Run("overlap uses half-open semantics", func(t *testing.T) {
		base := mustStay(t, day(2026, 7, 10), day(2026, 7, 13))

		cases := []struct {
			name     string
			other    booking.Stay
			overlaps bool
		}{
			{name: "identical range", other: mustStay(t, day(2026, 7, 10), day(2026, 7, 13)), overlaps: true},
			{name: "contained range", other: mustStay(t, day(2026, 7, 11), day(2026, 7, 12)), overlaps: true},
			{name: "containing range", other: mustStay(t, day(2026, 7, 9), day(2026, 7, 14)), overlaps: true},
			{name: "overlapping tail", other: mustStay(t, day(2026, 7, 12), day(2026, 7, 15)), overlaps: true},
			{name: "overlapping head", other: mustStay(t, day(2026, 7, 8), day(2026, 7, 11)), overlaps: true},
			{name: "checkout day is free for check-in", other: mustStay(t, day(2026, 7, 13), day(2026, 7, 15)), overlaps: false},
			{name: "ends on check-in day", other: mustStay(t, day(2026, 7, 8), day(2026, 7, 10)), overlaps: false},
			{name: "disjoint after", other: mustStay(t, day(2026, 7, 20), day(2026, 7, 22)), overlaps: false},
			{name: "disjoint before", other: mustStay(t, day(2026, 7, 1), day(2026, 7, 5)), overlaps: false},
		}
		for _, c := range cases {
			t.Run(c.name, func(t *testing.T) {
				assert.Equal(t, c.overlaps, base.Overlaps(c.other))
				assert.Equal(t, c.overlaps, c.other.Overlaps(base))
			})
		}
	})
}

func TestRequester(t *testing.T) {
	t.Run("basic success case", func(t *testing.T) {
		r, err := booking.NewRequester("  Alice Smith  ", "alice@example.com")
		require.NoError(t, err)

		assert.Equal(t, "Alice Smith", r.Name())
		assert.Equal(t, "alice@example.com", r.Email())
	})

	t.Run("validation", func(t *testing.T) {
		cases := []struct {
			name    string
			reqName string
			email   string
			errIs   error
		}{
			{name: "empty name", reqName: "", email: "alice@example.com", errIs: booking.ErrEmptyName},
			{name: "whitespace only name", reqName: "   ", email: "alice@example.com", errIs: booking.ErrEmptyName},
			{name: "empty email", reqName: "Alice", email: "", errIs: booking.ErrMalformedEmail},
			{name: "missing at sign", reqName: "Alice", email: "alice.example.com", errIs: booking.ErrMalformedEmail},
			{name: "missing domain", reqName: "Alice", email: "alice@", errIs: booking.ErrMalformedEmail},
			{name: "valid with display quirks", reqName: "Alice", email: "alice+trip@example.com"},
		}
		for _, c := range cases {
			t.Run(c.name, func(t *testing.T) {
				_, err := booking.NewRequester(c.reqName, c.email)
				if c.errIs != nil {
					assert.ErrorIs(t, err, c.errIs)
				} else {
					assert.NoError(t, err)
				}
			})
		}
	})
}

func TestNotes(t *testing.T) {
	t.Run("cancellation annotation appends", func(t *testing.T) {
		notes := booking.NewNotes("Summer trip")
		annotated := notes.AppendCancellation("plans changed")

		assert.Equal(t, "Summer trip\n[cancelled] plans changed", annotated.String())
		// Original is untouched.
		assert.Equal(t, "Summer trip", notes.String())
	})

	t.Run("annotation on empty notes", func(t *testing.T) {
		annotated := booking.NewNotes("").AppendCancellation("plans changed")
		assert.Equal(t, "[cancelled] plans changed", annotated.String())
	})

	t.Run("blank reason leaves notes unchanged", func(t *testing.T) {
		notes := booking.NewNotes("Summer trip")
		assert.Equal(t, "Summer trip", notes.AppendCancellation("   ").String())
	})
}
