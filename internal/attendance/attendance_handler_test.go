package attendance_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-sirh/internal/attendance"
	attendanceerrors "go-sirh/internal/attendance/errors"
	"go-sirh/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeService struct {
	clockInFn  func(ctx context.Context, req attendance.ClockInRequest) (store.Record, error)
	clockOutFn func(ctx context.Context, req attendance.ClockOutRequest) (store.Record, error)
}

func (f *fakeService) ClockIn(ctx context.Context, req attendance.ClockInRequest) (store.Record, error) {
	return f.clockInFn(ctx, req)
}

func (f *fakeService) ClockOut(ctx context.Context, req attendance.ClockOutRequest) (store.Record, error) {
	return f.clockOutFn(ctx, req)
}

func TestHandler_ClockInAndOut(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := &fakeService{
		clockInFn: func(ctx context.Context, req attendance.ClockInRequest) (store.Record, error) {
			assert.Equal(t, int64(7), req.EmployeID)
			return store.Record{"id": 1, "employe_id": 7, "heure_entree": "08:58"}, nil
		},
		clockOutFn: func(ctx context.Context, req attendance.ClockOutRequest) (store.Record, error) {
			return nil, attendanceerrors.ErrClockInNotFound
		},
	}
	h := attendance.NewHandler(svc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/pointages/clock-in", strings.NewReader(`{"employe_id":7}`))
	c.Request.Header.Set("Content-Type", "application/json")
	h.ClockIn(c)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"heure_entree":"08:58"`)

	w2 := httptest.NewRecorder()
	c2, _ := gin.CreateTestContext(w2)
	c2.Request = httptest.NewRequest(http.MethodPost, "/pointages/clock-in", strings.NewReader(`{}`))
	c2.Request.Header.Set("Content-Type", "application/json")
	h.ClockIn(c2)
	assert.Equal(t, http.StatusBadRequest, w2.Code)

	w3 := httptest.NewRecorder()
	c3, _ := gin.CreateTestContext(w3)
	c3.Request = httptest.NewRequest(http.MethodPost, "/pointages/clock-out", strings.NewReader(`{"employe_id":7}`))
	c3.Request.Header.Set("Content-Type", "application/json")
	h.ClockOut(c3)
	assert.Equal(t, http.StatusNotFound, w3.Code)
}
