package booking

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
)

var (
	ErrEmptyStay       = errors.New("stay must end after it starts")
	ErrEmptyName       = errors.New("requester name must not be empty")
	ErrMalformedEmail  = errors.New("requester email is malformed")
	ErrEmptyCancelNote = errors.New("cancellation reason must not be blank when provided")
)

// Stay is a half-open date range [start, end): the end date is the
// checkout day and is not occupied.
type Stay struct {
	start time.Time
	end   time.Time
}

func NewStay(start, end time.Time) (Stay, error) {
	start = truncateToDate(start)
	end = truncateToDate(end)
	if !end.After(start) {
		return Stay{}, ErrEmptyStay
	}
	return Stay{start: start, end: end}, nil
}

// ReconstructStay hydrates a range already validated at write time.
func ReconstructStay(start, end time.Time) Stay {
	return Stay{start: truncateToDate(start), end: truncateToDate(end)}
}

func (s Stay) Start() time.Time {
	return s.start
}

func (s Stay) End() time.Time {
	return s.end
}

func (s Stay) Nights() int {
	return int(s.end.Sub(s.start).Hours() / 24)
}

// Overlaps uses half-open semantics: ranges that merely touch
// (one checks out the day the other checks in) do not overlap.
func (s Stay) Overlaps(other Stay) bool {
	return s.end.After(other.start) && other.end.After(s.start)
}

func (s Stay) String() string {
	return fmt.Sprintf("%s → %s", s.start.Format(time.DateOnly), s.end.Format(time.DateOnly))
}

func truncateToDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Requester is the immutable identity of the person asking for the stay.
type Requester struct {
	name  string
	email string
}

func NewRequester(name, email string) (Requester, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Requester{}, ErrEmptyName
	}

	email = strings.TrimSpace(email)
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return Requester{}, ErrMalformedEmail
	}

	return Requester{name: name, email: addr.Address}, nil
}

// ReconstructRequester hydrates identity fields already validated at
// submission time.
func ReconstructRequester(name, email string) Requester {
	return Requester{name: name, email: email}
}

func (r Requester) Name() string {
	return r.name
}

func (r Requester) Email() string {
	return r.email
}

// Notes is append-only free text: the only legal mutation is adding a
// cancellation annotation.
type Notes struct {
	value string
}

func NewNotes(value string) Notes {
	return Notes{value: strings.TrimSpace(value)}
}

func (n Notes) String() string {
	return n.value
}

func (n Notes) IsEmpty() bool {
	return n.value == ""
}

func (n Notes) AppendCancellation(reason string) Notes {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return n
	}
	annotation := "[cancelled] " + reason
	if n.value == "" {
		return Notes{value: annotation}
	}
	return Notes{value: n.value + "\n" + annotation}
}
