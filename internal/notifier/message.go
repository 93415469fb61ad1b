package notifier

import (
	"encoding/json"
	"fmt"

	"family-booking/internal/domain/booking"
	"family-booking/internal/pkg/config"
	"family-booking/internal/pkg/errs"
)

// bookingEvent mirrors the outbox payload written by the ledger.
type bookingEvent struct {
	BookingID      int64   `json:"booking_id"`
	Event          string  `json:"event"`
	RequesterName  string  `json:"requester_name"`
	RequesterEmail string  `json:"requester_email"`
	StartDate      string  `json:"start_date"`
	EndDate        string  `json:"end_date"`
	Status         string  `json:"status"`
	Notes          *string `json:"notes,omitempty"`
}

// Renderer turns a lifecycle event into a human-readable mail. A new
// request notifies the administrator; decisions notify the requester.
type Renderer struct {
	adminEmail string
	adminName  string
}

func NewRenderer(mailCfg config.MailConfig, adminCfg config.AdminConfig) *Renderer {
	return &Renderer{
		adminEmail: mailCfg.AdminEmail,
		adminName:  adminCfg.Name,
	}
}

func (r *Renderer) Render(kind string, payload []byte) (Message, error) {
	var ev bookingEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		return Message{}, errs.Wrap(err, "failed to decode booking event payload")
	}

	switch booking.EventKind(kind) {
	case booking.EventCreated:
		return r.renderCreated(ev), nil
	case booking.EventApproved:
		return r.renderDecision(ev, "Your booking has been approved", "approved"), nil
	case booking.EventRejected:
		return r.renderDecision(ev, "Your booking has been rejected", "rejected"), nil
	case booking.EventCancelled:
		return r.renderDecision(ev, "Your booking has been cancelled", "cancelled"), nil
	default:
		return Message{}, errs.Newf("unknown booking event kind: %s", kind)
	}
}

func (r *Renderer) renderCreated(ev bookingEvent) Message {
	notes := "-"
	if ev.Notes != nil {
		notes = *ev.Notes
	}
	body := fmt.Sprintf(
		"A new booking request has been submitted.\n\n"+
			"Name: %s\n"+
			"Email: %s\n"+
			"Dates: %s → %s\n"+
			"Notes: %s\n"+
			"Status: %s\n",
		ev.RequesterName, ev.RequesterEmail, ev.StartDate, ev.EndDate, notes, ev.Status,
	)
	return Message{
		ToName:  r.adminName,
		ToEmail: r.adminEmail,
		Subject: fmt.Sprintf("New booking request from %s", ev.RequesterName),
		Body:    body,
	}
}

func (r *Renderer) renderDecision(ev bookingEvent, subject, verb string) Message {
	body := fmt.Sprintf(
		"Hi %s,\n\nYour booking request for %s → %s has been %s.\n",
		ev.RequesterName, ev.StartDate, ev.EndDate, verb,
	)
	return Message{
		ToName:  ev.RequesterName,
		ToEmail: ev.RequesterEmail,
		Subject: subject,
		Body:    body,
	}
}
