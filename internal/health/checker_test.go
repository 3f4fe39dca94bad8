package health

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubChecker struct {
	name string
	err  error
}

func (s *stubChecker) Name() string                    { return s.name }
func (s *stubChecker) Check(ctx context.Context) error { return s.err }

func newTestManager() *Manager {
	log := logrus.New()
	log.SetOutput(&bytes.Buffer{})
	return NewManager(log)
}

func TestManagerOverallStatus(t *testing.T) {
	mgr := newTestManager()

	// No results yet: down.
	assert.Equal(t, StatusDown, mgr.GetOverallStatus())

	mgr.Register(&stubChecker{name: "a"})
	mgr.Register(&stubChecker{name: "b"})
	mgr.RunChecks(context.Background())
	assert.Equal(t, StatusOK, mgr.GetOverallStatus())

	mgr.Register(&stubChecker{name: "c", err: errors.New("broken")})
	results := mgr.RunChecks(context.Background())
	assert.Equal(t, StatusDown, mgr.GetOverallStatus())
	assert.Equal(t, StatusDown, results["c"].Status)
	assert.Equal(t, "broken", results["c"].Message)
}

func TestRedisChecker(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	checker := NewRedisChecker(client)
	assert.Equal(t, "redis", checker.Name())
	assert.NoError(t, checker.Check(context.Background()))

	mr.Close()
	assert.Error(t, checker.Check(context.Background()))
}

func TestDetectorChecker(t *testing.T) {
	ok := NewDetectorChecker(func(ctx context.Context) error { return nil })
	assert.NoError(t, ok.Check(context.Background()))

	bad := NewDetectorChecker(func(ctx context.Context) error { return errors.New("no detections") })
	assert.Error(t, bad.Check(context.Background()))
}

func TestHandleHealth(t *testing.T) {
	mgr := newTestManager()
	mgr.Register(&stubChecker{name: "detector"})
	handler := NewHandler(mgr)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	handler.HandleHealth(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, StatusOK, resp.Status)
	require.Contains(t, resp.Checks, "detector")
	assert.Equal(t, StatusOK, resp.Checks["detector"].Status)
}

func TestHandleHealthDown(t *testing.T) {
	mgr := newTestManager()
	mgr.Register(&stubChecker{name: "redis", err: errors.New("gone")})
	handler := NewHandler(mgr)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	handler.HandleHealth(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHandleLive(t *testing.T) {
	handler := NewHandler(newTestManager())

	req := httptest.NewRequest(http.MethodGet, "/live", nil)
	rec := httptest.NewRecorder()
	handler.HandleLive(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "alive")
}
