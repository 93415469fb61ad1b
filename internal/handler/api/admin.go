package api

import (
	"errors"
	"net/http"
	"strconv"

	"family-booking/internal/domain/booking"
	reqdto "family-booking/internal/handler/dto/request"
	resdto "family-booking/internal/handler/dto/response"
	"family-booking/internal/handler/middleware"
	"family-booking/internal/pkg/config"
	"family-booking/internal/usecase/commands"
	"family-booking/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

// AdminHandler serves every administrator operation: request listing,
// lifecycle decisions and the retention sweep.
type AdminHandler struct {
	bookingCommands commands.BookingCommands
	bookingQueries  queries.BookingQueries
	adminAuth       *middleware.AdminAuthMiddleware
	cleanup         config.CleanupConfig
}

func NewAdminHandler(
	bookingCommands commands.BookingCommands,
	bookingQueries queries.BookingQueries,
	adminAuth *middleware.AdminAuthMiddleware,
	cfg config.Config,
) *AdminHandler {
	return &AdminHandler{
		bookingCommands: bookingCommands,
		bookingQueries:  bookingQueries,
		adminAuth:       adminAuth,
		cleanup:         cfg.Cleanup,
	}
}

// @Summary Verify admin secret
// @Description Check whether the presented admin secret is valid
// @Tags admin
// @Produce json
// @Param X-Admin-Secret header string true "Admin shared secret"
// @Success 200 {object} map[string]bool
// @Failure 401 {object} map[string]string
// @Router /api/admin/verify [get]
func (h *AdminHandler) Verify(c *gin.Context) {
	if !h.adminAuth.Verify(c.GetHeader("X-Admin-Secret")) {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Unauthorized (bad admin secret)",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// @Summary List booking requests
// @Description List booking requests, optionally filtered by status or activity
// @Tags admin
// @Produce json
// @Security AdminSecret
// @Param status query string false "Filter by status (pending|approved|rejected|cancelled)"
// @Param active query bool false "Shorthand for status in {pending, approved}"
// @Success 200 {array} resdto.BookingResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /api/requests [get]
func (h *AdminHandler) List(c *gin.Context) {
	var filter queries.StatusFilter

	if active, ok := c.GetQuery("active"); ok {
		parsed, err := strconv.ParseBool(active)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid active flag",
			})
			return
		}
		filter.Active = parsed
	}

	if status, ok := c.GetQuery("status"); ok && !filter.Active {
		st := booking.Status(status)
		if !st.IsValid() {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Unknown status: " + status,
			})
			return
		}
		filter.Status = &st
	}

	views, err := h.bookingQueries.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.FromBookingViews(views))
}

// @Summary Approve booking request
// @Description Approve a pending request unless it overlaps an approved booking
// @Tags admin
// @Produce json
// @Security AdminSecret
// @Param id path int true "Booking request ID"
// @Success 200 {object} resdto.BookingResponse
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /api/requests/{id}/approve [post]
func (h *AdminHandler) Approve(c *gin.Context) {
	id, ok := h.bookingID(c)
	if !ok {
		return
	}

	if err := h.bookingCommands.Approve(c.Request.Context(), id); err != nil {
		h.renderDecisionError(c, err)
		return
	}

	h.renderBooking(c, id)
}

// @Summary Reject booking request
// @Description Reject a pending request
// @Tags admin
// @Produce json
// @Security AdminSecret
// @Param id path int true "Booking request ID"
// @Success 200 {object} resdto.BookingResponse
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /api/requests/{id}/reject [post]
func (h *AdminHandler) Reject(c *gin.Context) {
	id, ok := h.bookingID(c)
	if !ok {
		return
	}

	if err := h.bookingCommands.Reject(c.Request.Context(), id); err != nil {
		h.renderDecisionError(c, err)
		return
	}

	h.renderBooking(c, id)
}

// @Summary Cancel approved booking
// @Description Cancel an approved booking, optionally recording a reason
// @Tags admin
// @Accept json
// @Produce json
// @Security AdminSecret
// @Param id path int true "Booking request ID"
// @Param request body reqdto.CancelBookingRequest false "Cancellation reason"
// @Success 200 {object} resdto.BookingResponse
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /api/requests/{id}/cancel [post]
func (h *AdminHandler) Cancel(c *gin.Context) {
	id, ok := h.bookingID(c)
	if !ok {
		return
	}

	var req reqdto.CancelBookingRequest
	if c.Request.ContentLength > 0 {
		if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid request format",
			})
			return
		}
	}

	if err := h.bookingCommands.Cancel(c.Request.Context(), id, req.GetReason()); err != nil {
		h.renderDecisionError(c, err)
		return
	}

	h.renderBooking(c, id)
}

// @Summary Purge old decided requests
// @Description Hard-delete rejected/cancelled requests past the retention window
// @Tags admin
// @Produce json
// @Security AdminSecret
// @Success 200 {object} resdto.CleanupResponse
// @Failure 401 {object} map[string]string
// @Router /api/admin/cleanup [post]
func (h *AdminHandler) Cleanup(c *gin.Context) {
	deleted, err := h.bookingCommands.Cleanup(c.Request.Context(), h.cleanup.Retention)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.CleanupResponse{Deleted: deleted})
}

func (h *AdminHandler) bookingID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid booking request ID",
		})
		return 0, false
	}
	return id, true
}

func (h *AdminHandler) renderBooking(c *gin.Context, id int64) {
	view, err := h.bookingQueries.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}
	c.JSON(http.StatusOK, resdto.FromBookingView(view))
}

func (h *AdminHandler) renderDecisionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, commands.ErrBookingNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Request not found",
		})
	case errors.Is(err, commands.ErrDateConflict):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Date conflict with an existing approved booking",
		})
	case errors.Is(err, commands.ErrInvalidTransition):
		// The domain message names the current status, which the admin
		// UI shows as-is.
		c.JSON(http.StatusConflict, gin.H{
			"error": err.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	}
}
