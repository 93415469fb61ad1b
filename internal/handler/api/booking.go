package api

import (
	"errors"
	"net/http"

	"family-booking/internal/domain/booking"
	reqdto "family-booking/internal/handler/dto/request"
	resdto "family-booking/internal/handler/dto/response"
	"family-booking/internal/usecase/commands"
	"family-booking/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

// BookingHandler serves the public surface: anyone may submit a request
// or read the approved calendar.
type BookingHandler struct {
	bookingCommands commands.BookingCommands
	bookingQueries  queries.BookingQueries
}

func NewBookingHandler(bookingCommands commands.BookingCommands, bookingQueries queries.BookingQueries) *BookingHandler {
	return &BookingHandler{
		bookingCommands: bookingCommands,
		bookingQueries:  bookingQueries,
	}
}

// @Summary Submit booking request
// @Description Submit a new booking request for the apartment
// @Tags bookings
// @Accept json
// @Produce json
// @Param request body reqdto.SubmitBookingRequest true "Booking request"
// @Success 201 {object} resdto.BookingResponse
// @Failure 400 {object} map[string]string
// @Router /api/requests [post]
func (h *BookingHandler) Submit(c *gin.Context) {
	var req reqdto.SubmitBookingRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	start, end, err := req.Dates()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Dates must use the YYYY-MM-DD format",
		})
		return
	}

	input := commands.SubmitBookingInput{
		RequesterName:  req.RequesterName,
		RequesterEmail: req.RequesterEmail,
		StartDate:      start,
		EndDate:        end,
		Notes:          req.GetNotes(),
	}

	id, err := h.bookingCommands.Submit(c.Request.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrEmptyStay):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "end_date must be after start_date (checkout day)",
			})
		case errors.Is(err, booking.ErrEmptyName):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "requester_name must not be empty",
			})
		case errors.Is(err, booking.ErrMalformedEmail):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "requester_email is malformed",
			})
		case errors.Is(err, commands.ErrDomainValidation):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid booking request",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	view, err := h.bookingQueries.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusCreated, resdto.FromBookingView(view))
}

// @Summary Approved bookings
// @Description List approved bookings for the shared calendar
// @Tags bookings
// @Produce json
// @Success 200 {array} resdto.BookingResponse
// @Router /api/bookings/approved [get]
func (h *BookingHandler) ListApproved(c *gin.Context) {
	views, err := h.bookingQueries.ListApproved(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.FromBookingViews(views))
}
