//go:build unit

package api_test

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"featured-slots/internal/domain/slot"
	"featured-slots/internal/handler/api"
	resdto "featured-slots/internal/handler/dto/response"
	"featured-slots/internal/usecase/commands"
	"featured-slots/internal/usecase/queries"
	"featured-slots/tests/common/builder"
	"featured-slots/tests/common/httptest"
	"featured-slots/tests/common/testutil"
	commandsmock "featured-slots/tests/mock/commands"
	queriesmock "featured-slots/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type SlotHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockSlotCommands
	mockQueries  *queriesmock.MockSlotQueries
	handler      *api.SlotHandler
}

func (s *SlotHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockSlotCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockSlotQueries(s.mockCtrl)
	s.handler = api.NewSlotHandler(s.mockCommands, s.mockQueries)

	pools := s.router.Group("/api/pools/:tier")
	pools.POST("/slots", s.handler.Schedule)
	pools.PATCH("/slots/:id", s.handler.Reschedule)
	pools.DELETE("/slots/:id", s.handler.Cancel)
	pools.DELETE("/slots", s.handler.ClearScheduled)
	pools.GET("/queue", s.handler.Queue)
	pools.GET("/history", s.handler.History)
	pools.DELETE("/history", s.handler.ClearHistory)
}

func (s *SlotHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestSlotHandlerSuite(t *testing.T) {
	suite.Run(t, new(SlotHandlerTestSuite))
}

// ================================================================================
// TestSchedule
// ================================================================================

func (s *SlotHandlerTestSuite) TestSchedule() {
	url := "/api/pools/spotlight/slots"

	reqBody := builder.NewSlotBuilder().BuildScheduleRequestDTO()
	returnView := builder.NewSlotBuilder().BuildView()

	s.Run("success: returns 201 Created with the planned slot", func() {
		s.mockCommands.EXPECT().Schedule(gomock.Any(), slot.TierSpotlight, gomock.Any()).
			Return(returnView, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody)

		var response resdto.SlotResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &response)
		s.Equal(returnView.ID, response.ID)
		s.Equal("spotlight", response.Tier)
	})

	s.Run("success: omitted requested start means feature now", func() {
		captured := make(chan commands.ScheduleParams, 1)
		s.mockCommands.EXPECT().Schedule(gomock.Any(), slot.TierSpotlight, gomock.Any()).
			DoAndReturn(func(_ any, _ slot.Tier, params commands.ScheduleParams) (*queries.SlotView, error) {
				captured <- params
				return returnView, nil
			}).Times(1)

		body := testutil.DtoMap(s.T(), reqBody, testutil.Field("requested_start_at", nil))
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body)

		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, nil)
		s.Nil((<-captured).RequestedStartAt)
	})

	s.Run("error: 400 Bad Request on body validation errors", func() {
		cases := []struct {
			name   string
			mutate func(m map[string]any)
		}{
			{name: "missing field: resource_key", mutate: testutil.Field("resource_key", nil)},
			{name: "missing field: duration_hours", mutate: testutil.Field("duration_hours", nil)},
			{name: "malformed requested_start_at", mutate: testutil.Field("requested_start_at", "not-a-time")},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				body := testutil.DtoMap(s.T(), reqBody, tc.mutate)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body)
				httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "")
			})
		}
	})

	s.Run("error: 400 Bad Request on unknown tier", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/api/pools/banner/slots", reqBody)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Unknown pool tier")
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		cases := []struct {
			name           string
			commandsError  error
			expectedStatus int
			expectedMsg    string
		}{
			{
				name:           "domain validation error",
				commandsError:  commands.ErrValidation,
				expectedStatus: http.StatusBadRequest,
				expectedMsg:    "Validation failed",
			},
			{
				name:           "concurrent modification",
				commandsError:  commands.ErrConcurrentModification,
				expectedStatus: http.StatusConflict,
				expectedMsg:    "Concurrent modification",
			},
			{
				name:           "store unavailable",
				commandsError:  commands.ErrDatabaseOperationFailed,
				expectedStatus: http.StatusServiceUnavailable,
				expectedMsg:    "Storage unavailable",
			},
			{
				name:           "unclassified error",
				commandsError:  errors.New("boom"),
				expectedStatus: http.StatusInternalServerError,
				expectedMsg:    "Internal server error",
			},
		}

		for _, tc := range cases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().Schedule(gomock.Any(), slot.TierSpotlight, gomock.Any()).
					Return(nil, tc.commandsError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody)
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
			})
		}
	})
}

// ================================================================================
// TestReschedule
// ================================================================================

func (s *SlotHandlerTestSuite) TestReschedule() {
	slotID := uuid.New()
	url := "/api/pools/promoted/slots/" + slotID.String()

	reqBody := builder.NewSlotBuilder().BuildRescheduleRequestDTO()
	returnView := builder.NewSlotBuilder().With(func(b *builder.SlotBuilder) {
		b.ID = slotID
		b.Tier = slot.TierPromoted
	}).BuildView()

	s.Run("success: returns 200 OK with the replanned slot", func() {
		s.mockCommands.EXPECT().Reschedule(gomock.Any(), slot.TierPromoted, slotID, gomock.Any()).
			Return(returnView, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url, reqBody)

		var response resdto.SlotResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(slotID, response.ID)
	})

	s.Run("error: 400 Bad Request on malformed slot ID", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, "/api/pools/promoted/slots/not-a-uuid", reqBody)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid slot request ID")
	})

	s.Run("error: 404 Not Found for an unknown slot", func() {
		s.mockCommands.EXPECT().Reschedule(gomock.Any(), slot.TierPromoted, slotID, gomock.Any()).
			Return(nil, commands.ErrSlotNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url, reqBody)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "not found")
	})

	s.Run("error: 409 Conflict for a terminal slot", func() {
		s.mockCommands.EXPECT().Reschedule(gomock.Any(), slot.TierPromoted, slotID, gomock.Any()).
			Return(nil, commands.ErrNotSchedulable).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url, reqBody)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "no longer schedulable")
	})
}

// ================================================================================
// TestCancel
// ================================================================================

func (s *SlotHandlerTestSuite) TestCancel() {
	slotID := uuid.New()
	url := "/api/pools/spotlight/slots/" + slotID.String()

	s.Run("success: returns 204 No Content", func() {
		s.mockCommands.EXPECT().Cancel(gomock.Any(), slot.TierSpotlight, slotID).
			Return(nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, url, nil)
		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Run("error: 404 Not Found for an unknown slot", func() {
		s.mockCommands.EXPECT().Cancel(gomock.Any(), slot.TierSpotlight, slotID).
			Return(commands.ErrSlotNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, url, nil)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "not found")
	})

	s.Run("error: 409 Conflict for an already cancelled slot", func() {
		s.mockCommands.EXPECT().Cancel(gomock.Any(), slot.TierSpotlight, slotID).
			Return(commands.ErrNotSchedulable).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, url, nil)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "")
	})
}

// ================================================================================
// TestQueue
// ================================================================================

func (s *SlotHandlerTestSuite) TestQueue() {
	url := "/api/pools/spotlight/queue"

	s.Run("success: returns 200 OK with queue view", func() {
		pos := 1
		waiting := builder.NewSlotBuilder().BuildView()
		waiting.QueuePosition = &pos

		queueView := &queries.QueueView{
			ActiveCount: 2,
			Config: queries.PoolConfigView{
				Tier:              "spotlight",
				MaxConcurrent:     3,
				Timezone:          "Asia/Tokyo",
				RecentEndedWindow: (24 * time.Hour).String(),
			},
			Queue: []*queries.SlotView{waiting},
		}

		s.mockQueries.EXPECT().Queue(gomock.Any(), slot.TierSpotlight).
			Return(queueView, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil)

		var response resdto.QueueResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(2, response.ActiveCount)
		s.Equal(3, response.Config.MaxConcurrent)
		s.Require().Len(response.Queue, 1)
		s.Require().NotNil(response.Queue[0].QueuePosition)
		s.Equal(1, *response.Queue[0].QueuePosition)
	})

	s.Run("error: 400 Bad Request on unknown tier", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/pools/vip/queue", nil)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Unknown pool tier")
	})

	s.Run("error: 503 Service Unavailable when the store fails", func() {
		s.mockQueries.EXPECT().Queue(gomock.Any(), slot.TierSpotlight).
			Return(nil, queries.ErrQueueUnavailable).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusServiceUnavailable, "unavailable")
	})
}

// ================================================================================
// TestHistory
// ================================================================================

func (s *SlotHandlerTestSuite) TestHistory() {
	url := "/api/pools/promoted/history"

	s.Run("success: returns 200 OK with terminal slots", func() {
		cancelled := builder.NewSlotBuilder().With(func(b *builder.SlotBuilder) {
			b.Tier = slot.TierPromoted
			b.Status = slot.StatusCancelled
		}).BuildView()
		cancelled.State = slot.StateCancelled.String()

		s.mockQueries.EXPECT().History(gomock.Any(), slot.TierPromoted).
			Return([]*queries.SlotView{cancelled}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil)

		var response []*resdto.SlotResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Require().Len(response, 1)
		s.Equal("cancelled", response[0].Status)
		s.Equal("cancelled", response[0].State)
	})

	s.Run("success: empty history is an empty array", func() {
		s.mockQueries.EXPECT().History(gomock.Any(), slot.TierPromoted).
			Return([]*queries.SlotView{}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil)

		var response []*resdto.SlotResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Empty(response)
	})
}

// ================================================================================
// TestClearScheduled / TestClearHistory
// ================================================================================

func (s *SlotHandlerTestSuite) TestClearScheduled() {
	url := "/api/pools/spotlight/slots"

	s.Run("success: returns the number of cancelled slots", func() {
		s.mockCommands.EXPECT().ClearScheduled(gomock.Any(), slot.TierSpotlight).
			Return(int64(4), nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, url, nil)

		var response resdto.ClearResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(int64(4), response.Count)
	})

	s.Run("error: 409 Conflict on concurrent modification", func() {
		s.mockCommands.EXPECT().ClearScheduled(gomock.Any(), slot.TierSpotlight).
			Return(int64(0), commands.ErrConcurrentModification).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, url, nil)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "")
	})
}

func (s *SlotHandlerTestSuite) TestClearHistory() {
	url := "/api/pools/promoted/history"

	s.Run("success: returns the number of deleted rows", func() {
		s.mockCommands.EXPECT().ClearHistory(gomock.Any(), slot.TierPromoted).
			Return(int64(7), nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, url, nil)

		var response resdto.ClearResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(int64(7), response.Count)
	})

	s.Run("success: clearing an empty history reports zero", func() {
		s.mockCommands.EXPECT().ClearHistory(gomock.Any(), slot.TierPromoted).
			Return(int64(0), nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, url, nil)

		var response resdto.ClearResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(int64(0), response.Count)
	})
}
