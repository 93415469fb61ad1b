//go:build unit

package api_test

import (
	"errors"
	"net/http"
	"testing"

	"family-booking/internal/domain/booking"
	"family-booking/internal/handler/api"
	resdto "family-booking/internal/handler/dto/response"
	"family-booking/internal/usecase/commands"
	"family-booking/internal/usecase/queries"
	"family-booking/tests/common/builder"
	"family-booking/tests/common/httptest"
	"family-booking/tests/common/testutil"
	commandsmock "family-booking/tests/mock/commands"
	queriesmock "family-booking/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type BookingHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockBookingCommands
	mockQueries  *queriesmock.MockBookingQueries
	handler      *api.BookingHandler
}

func (s *BookingHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockBookingCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockBookingQueries(s.mockCtrl)
	s.handler = api.NewBookingHandler(s.mockCommands, s.mockQueries)

	s.router.POST("/api/requests", s.handler.Submit)
	s.router.GET("/api/bookings/approved", s.handler.ListApproved)
}

func (s *BookingHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestBookingHandlerSuite(t *testing.T) {
	suite.Run(t, new(BookingHandlerTestSuite))
}

// ================================================================================
// TestSubmit
// ================================================================================

func (s *BookingHandlerTestSuite) TestSubmit() {
	url := "/api/requests"

	reqBody := builder.NewBookingBuilder().BuildSubmitRequestDTO()
	returnView := builder.NewBookingBuilder().BuildView()

	s.Run("success: returns 201 Created with the stored request", func() {
		s.mockCommands.EXPECT().Submit(gomock.Any(), gomock.Any()).
			Return(returnView.ID, nil).Times(1)
		s.mockQueries.EXPECT().GetByID(gomock.Any(), returnView.ID).
			Return(returnView, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")

		var response resdto.BookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &response)
		httptest.AssertHeaders(s.T(), rec, map[string]string{
			"Content-Type": "application/json; charset=utf-8",
		})
		s.Equal(returnView.ID, response.ID)
		s.Equal("pending", response.Status)
		s.Equal(reqBody.StartDate, response.StartDate)
		s.Equal(reqBody.EndDate, response.EndDate)
	})

	s.Run("error: 400 Bad Request on binding failures", func() {
		cases := []struct {
			name   string
			mutate func(map[string]any)
		}{
			{name: "missing requester_name", mutate: testutil.Field("requester_name", nil)},
			{name: "missing requester_email", mutate: testutil.Field("requester_email", nil)},
			{name: "malformed email", mutate: testutil.Field("requester_email", "not-an-email")},
			{name: "missing start_date", mutate: testutil.Field("start_date", nil)},
			{name: "missing end_date", mutate: testutil.Field("end_date", nil)},
			{name: "start_date not a date", mutate: testutil.Field("start_date", "July 10th")},
			{name: "end_date with time component", mutate: testutil.Field("end_date", "2026-07-13T00:00:00Z")},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				requestMap := testutil.DtoMap(s.T(), reqBody, tc.mutate)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap, "")
				httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "")
			})
		}
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		cases := []struct {
			name           string
			commandsError  error
			expectedStatus int
			expectedMsg    string
		}{
			{
				name:           "empty stay",
				commandsError:  booking.ErrEmptyStay,
				expectedStatus: http.StatusBadRequest,
				expectedMsg:    "end_date must be after start_date",
			},
			{
				name:           "empty name",
				commandsError:  booking.ErrEmptyName,
				expectedStatus: http.StatusBadRequest,
				expectedMsg:    "requester_name",
			},
			{
				name:           "malformed email",
				commandsError:  booking.ErrMalformedEmail,
				expectedStatus: http.StatusBadRequest,
				expectedMsg:    "requester_email",
			},
			{
				name:           "other domain validation failure",
				commandsError:  commands.ErrDomainValidation,
				expectedStatus: http.StatusBadRequest,
				expectedMsg:    "Invalid booking request",
			},
			{
				name:           "database failure",
				commandsError:  errors.New("connection refused"),
				expectedStatus: http.StatusInternalServerError,
				expectedMsg:    "Internal server error",
			},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().Submit(gomock.Any(), gomock.Any()).
					Return(int64(0), tc.commandsError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
			})
		}
	})
}

// ================================================================================
// TestListApproved
// ================================================================================

func (s *BookingHandlerTestSuite) TestListApproved() {
	url := "/api/bookings/approved"

	s.Run("success: returns 200 OK with approved bookings", func() {
		approved := builder.NewBookingBuilder().
			With(func(b *builder.BookingBuilder) { b.Status = booking.StatusApproved }).
			BuildView()
		s.mockQueries.EXPECT().ListApproved(gomock.Any()).
			Return([]*queries.BookingView{approved}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")

		var response []resdto.BookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Len(response, 1)
		s.Equal("approved", response[0].Status)
	})

	s.Run("success: empty calendar lists as empty array", func() {
		s.mockQueries.EXPECT().ListApproved(gomock.Any()).
			Return([]*queries.BookingView{}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")

		var response []resdto.BookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Empty(response)
	})

	s.Run("error: 500 on read store failure", func() {
		s.mockQueries.EXPECT().ListApproved(gomock.Any()).
			Return(nil, errors.New("connection refused")).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusInternalServerError, "Internal server error")
	})
}
