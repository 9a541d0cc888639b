package notification_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/srihar-15/EMS/internal/domain"
	"github.com/srihar-15/EMS/internal/middleware"
	"github.com/srihar-15/EMS/internal/notification"
	notificationerrors "github.com/srihar-15/EMS/internal/notification/errors"
	notificationMock "github.com/srihar-15/EMS/internal/notification/mock"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

var reader = domain.Actor{ID: "emp-7", UserID: "user-7", Role: domain.RoleEmployee}

func newNotificationRouter(t *testing.T) (*gin.Engine, *notificationMock.MockService) {
	gin.SetMode(gin.TestMode)
	svc := notificationMock.NewMockService(gomock.NewController(t))
	h := notification.NewHandler(svc)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ContextEmployeeID, reader.ID)
		c.Set(middleware.ContextUserID, reader.UserID)
		c.Set(middleware.ContextRole, string(reader.Role))
		c.Next()
	})
	r.GET("/notifications/my", h.GetMine)
	r.PATCH("/notifications/:id/read", h.MarkRead)
	r.DELETE("/notifications/my", h.ClearMine)
	return r, svc
}

func serve(r http.Handler, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestNotificationHandler(t *testing.T) {
	t.Run("my notifications", func(t *testing.T) {
		r, svc := newNotificationRouter(t)
		svc.EXPECT().ListMine(gomock.Any(), reader).Return([]notification.NotificationResponse{
			{ID: "n-1", Message: "Leave approved", Severity: string(notification.SeveritySuccess)},
		}, nil)

		w := serve(r, http.MethodGet, "/notifications/my")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"message":"Leave approved"`)
	})

	t.Run("mark read", func(t *testing.T) {
		r, svc := newNotificationRouter(t)
		svc.EXPECT().MarkRead(gomock.Any(), reader, "n-1").Return(nil)

		w := serve(r, http.MethodPatch, "/notifications/n-1/read")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"is_read":true`)
	})

	t.Run("negative mark read of foreign notification", func(t *testing.T) {
		r, svc := newNotificationRouter(t)
		svc.EXPECT().MarkRead(gomock.Any(), reader, "n-9").Return(notificationerrors.ErrNotificationNotFound)

		w := serve(r, http.MethodPatch, "/notifications/n-9/read")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("clear mine", func(t *testing.T) {
		r, svc := newNotificationRouter(t)
		svc.EXPECT().ClearMine(gomock.Any(), reader).Return(int64(3), nil)

		w := serve(r, http.MethodDelete, "/notifications/my")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"cleared":3`)
	})

	t.Run("negative storage failure", func(t *testing.T) {
		r, svc := newNotificationRouter(t)
		svc.EXPECT().ListMine(gomock.Any(), reader).Return(nil, errors.New("db down"))

		w := serve(r, http.MethodGet, "/notifications/my")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
