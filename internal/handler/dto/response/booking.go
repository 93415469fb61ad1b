package response

import (
	"time"

	"family-booking/internal/usecase/queries"
)

type BookingResponse struct {
	ID             int64      `json:"id"`
	RequesterName  string     `json:"requester_name"`
	RequesterEmail string     `json:"requester_email"`
	StartDate      string     `json:"start_date"`
	EndDate        string     `json:"end_date"`
	Status         string     `json:"status"`
	Notes          *string    `json:"notes,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	DecisionAt     *time.Time `json:"decision_at,omitempty"`
	DecidedBy      *string    `json:"decided_by,omitempty"`
}

type CleanupResponse struct {
	Deleted int64 `json:"deleted"`
}

func FromBookingView(view *queries.BookingView) *BookingResponse {
	return &BookingResponse{
		ID:             view.ID,
		RequesterName:  view.RequesterName,
		RequesterEmail: view.RequesterEmail,
		StartDate:      view.StartDate.Format(time.DateOnly),
		EndDate:        view.EndDate.Format(time.DateOnly),
		Status:         view.Status,
		Notes:          view.Notes,
		CreatedAt:      view.CreatedAt,
		DecisionAt:     view.DecisionAt,
		DecidedBy:      view.DecidedBy,
	}
}

func FromBookingViews(views []*queries.BookingView) []*BookingResponse {
	result := make([]*BookingResponse, len(views))
	for i, view := range views {
		result[i] = FromBookingView(view)
	}
	return result
}
