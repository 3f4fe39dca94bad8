package server

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crowdguardian/sentinel/internal/config"
)

type capturedAlert struct {
	path     string
	title    string
	priority string
	body     string
}

func newAlertSink(t *testing.T) (*httptest.Server, *[]capturedAlert) {
	t.Helper()
	var alerts []capturedAlert

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		alerts = append(alerts, capturedAlert{
			path:     r.URL.Path,
			title:    r.Header.Get("Title"),
			priority: r.Header.Get("Priority"),
			body:     string(body),
		})
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	return srv, &alerts
}

func newAlertNotifier(cfg config.AlertsConfig, redisClient *redis.Client) *AlertNotifier {
	log := logrus.New()
	log.SetOutput(&bytes.Buffer{})
	return NewAlertNotifier(cfg, redisClient, log)
}

func TestNotifyHighDensity(t *testing.T) {
	sink, alerts := newAlertSink(t)

	notifier := newAlertNotifier(config.AlertsConfig{
		Enabled: true,
		NtfyURL: sink.URL,
		Topic:   "crowdguardian_test",
	}, nil)

	notifier.NotifyHighDensity(context.Background(), 87)

	require.Len(t, *alerts, 1)
	got := (*alerts)[0]
	assert.Equal(t, "/crowdguardian_test", got.path)
	assert.Equal(t, "CrowdGuardian Alert", got.title)
	assert.Equal(t, "high", got.priority)
	assert.Contains(t, got.body, "Detected 87 people")
}

func TestNotifyDisabled(t *testing.T) {
	sink, alerts := newAlertSink(t)

	notifier := newAlertNotifier(config.AlertsConfig{
		Enabled: false,
		NtfyURL: sink.URL,
		Topic:   "crowdguardian_test",
	}, nil)

	notifier.NotifyHighDensity(context.Background(), 87)
	assert.Empty(t, *alerts)
}

func TestNotifyLocalCooldown(t *testing.T) {
	sink, alerts := newAlertSink(t)

	notifier := newAlertNotifier(config.AlertsConfig{
		Enabled:  true,
		NtfyURL:  sink.URL,
		Topic:    "crowdguardian_test",
		Cooldown: time.Minute,
	}, nil)

	notifier.NotifyHighDensity(context.Background(), 60)
	notifier.NotifyHighDensity(context.Background(), 95)

	assert.Len(t, *alerts, 1)
}

func TestNotifyRedisCooldown(t *testing.T) {
	sink, alerts := newAlertSink(t)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	notifier := newAlertNotifier(config.AlertsConfig{
		Enabled:  true,
		NtfyURL:  sink.URL,
		Topic:    "crowdguardian_test",
		Cooldown: time.Minute,
	}, client)

	notifier.NotifyHighDensity(context.Background(), 60)
	notifier.NotifyHighDensity(context.Background(), 95)
	require.Len(t, *alerts, 1)

	// After the cooldown window expires, alerts flow again.
	mr.FastForward(2 * time.Minute)
	notifier.NotifyHighDensity(context.Background(), 120)
	assert.Len(t, *alerts, 2)
}
