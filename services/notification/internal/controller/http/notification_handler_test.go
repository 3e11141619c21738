package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"donorseeker/pkg/logger"
	"donorseeker/pkg/queue"
	"donorseeker/services/notification/internal/entity"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type MockNotificationUseCase struct {
	mock.Mock
}

func (m *MockNotificationUseCase) HandleDonationAccepted(ctx context.Context, task queue.DonationAcceptedTask) error {
	return m.Called(ctx, task).Error(0)
}

func (m *MockNotificationUseCase) GetNotifications(ctx context.Context, userID string, limit, offset int) ([]entity.Notification, int64, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]entity.Notification), args.Get(1).(int64), args.Error(2)
}

func setupNotificationTestRouter(uc *MockNotificationUseCase, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewNotificationHandler(uc, logger.NewWithZap(zap.NewNop()))

	router := gin.New()
	router.GET("/notifications", func(c *gin.Context) {
		if userID != "" {
			c.Set("user_id", userID)
		}
		c.Next()
	}, handler.GetNotifications)
	return router
}

func TestGetNotifications_Unauthorized(t *testing.T) {
	uc := new(MockNotificationUseCase)
	router := setupNotificationTestRouter(uc, "")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/notifications", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Contains(t, response["error"], "Unauthorized")
	uc.AssertNotCalled(t, "GetNotifications", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestGetNotifications_Success(t *testing.T) {
	uc := new(MockNotificationUseCase)
	uc.On("GetNotifications", mock.Anything, "seeker", 10, 5).
		Return([]entity.Notification{{ID: "evt-1", Title: "Your request was accepted"}}, int64(6), nil)
	router := setupNotificationTestRouter(uc, "seeker")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/notifications?limit=10&offset=5", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.EqualValues(t, 1, response["count"])
	assert.EqualValues(t, 6, response["total"])
	assert.EqualValues(t, 5, response["offset"])
	uc.AssertExpectations(t)
}

func TestGetNotifications_DefaultsOnBadPaging(t *testing.T) {
	uc := new(MockNotificationUseCase)
	uc.On("GetNotifications", mock.Anything, "seeker", 50, 0).Return([]entity.Notification{}, int64(0), nil)
	router := setupNotificationTestRouter(uc, "seeker")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/notifications?limit=500&offset=-1", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	uc.AssertExpectations(t)
}

func TestGetNotifications_StoreError(t *testing.T) {
	uc := new(MockNotificationUseCase)
	uc.On("GetNotifications", mock.Anything, "seeker", 50, 0).Return(nil, int64(0), errors.New("redis down"))
	router := setupNotificationTestRouter(uc, "seeker")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/notifications", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "redis")
}
