package request

import (
	"time"
)

// SubmitBookingRequest carries a new stay request. Dates are plain
// calendar days; end_date is the checkout day and is not occupied.
type SubmitBookingRequest struct {
	RequesterName  string  `json:"requester_name" binding:"required"`
	RequesterEmail string  `json:"requester_email" binding:"required,email"`
	StartDate      string  `json:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate        string  `json:"end_date" binding:"required,datetime=2006-01-02"`
	Notes          *string `json:"notes,omitempty"`
}

func (r SubmitBookingRequest) GetNotes() string {
	if r.Notes == nil {
		return ""
	}
	return *r.Notes
}

// Dates returns the parsed range. Formats are already enforced by the
// binding tags, so errors here only guard direct construction in tests.
func (r SubmitBookingRequest) Dates() (start, end time.Time, err error) {
	start, err = time.Parse(time.DateOnly, r.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err = time.Parse(time.DateOnly, r.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

type CancelBookingRequest struct {
	Reason *string `json:"reason,omitempty"`
}

func (r CancelBookingRequest) GetReason() string {
	if r.Reason == nil {
		return ""
	}
	return *r.Reason
}
