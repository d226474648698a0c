package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeChecker struct {
	err error
}

func (f *fakeChecker) HealthCheck(ctx context.Context) error {
	return f.err
}

func TestHandleHealth(t *testing.T) {
	h := NewHealthHandler(&fakeChecker{}, &fakeChecker{}, zap.NewNop())

	w := httptest.NewRecorder()
	h.HandleHealth(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestHandleReadiness(t *testing.T) {
	t.Run("all dependencies up", func(t *testing.T) {
		h := NewHealthHandler(&fakeChecker{}, &fakeChecker{}, zap.NewNop())

		w := httptest.NewRecorder()
		h.HandleReadiness(w, httptest.NewRequest(http.MethodGet, "/healthz/ready", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"mongodb":"healthy"`)
		assert.Contains(t, w.Body.String(), `"redis":"healthy"`)
	})

	t.Run("store outage makes the service unready", func(t *testing.T) {
		h := NewHealthHandler(&fakeChecker{err: assert.AnError}, &fakeChecker{}, zap.NewNop())

		w := httptest.NewRecorder()
		h.HandleReadiness(w, httptest.NewRequest(http.MethodGet, "/healthz/ready", nil))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), `"mongodb":"unhealthy"`)
	})

	t.Run("cache outage only degrades", func(t *testing.T) {
		h := NewHealthHandler(&fakeChecker{}, &fakeChecker{err: assert.AnError}, zap.NewNop())

		w := httptest.NewRecorder()
		h.HandleReadiness(w, httptest.NewRequest(http.MethodGet, "/healthz/ready", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"redis":"degraded"`)
	})
}

func TestHandleServiceErrorNil(t *testing.T) {
	w := httptest.NewRecorder()
	HandleServiceError(w, nil, zap.NewNop())
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())
}
