package server

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/crowdguardian/sentinel/internal/config"
	"github.com/crowdguardian/sentinel/internal/logger"
)

const alertCooldownKey = "sentinel:alerts:cooldown"

// AlertNotifier pushes a mobile notification (via ntfy) when crowd density
// reaches critical levels. Notifications are deduplicated with a cooldown
// window tracked in Redis, with an in-process fallback when Redis is absent.
type AlertNotifier struct {
	cfg   config.AlertsConfig
	http  *resty.Client
	redis *redis.Client
	log   logger.Logger

	mu       sync.Mutex
	lastSent time.Time
}

// NewAlertNotifier creates an alert notifier. redisClient may be nil.
func NewAlertNotifier(cfg config.AlertsConfig, redisClient *redis.Client, log *logrus.Logger) *AlertNotifier {
	httpClient := resty.New().
		SetBaseURL(cfg.NtfyURL).
		SetTimeout(3 * time.Second)

	return &AlertNotifier{
		cfg:   cfg,
		http:  httpClient,
		redis: redisClient,
		log:   logger.NewLogrusAdapter(logger.WithComponent(log, "alerts")),
	}
}

// NotifyHighDensity sends a high-priority push alert for a critical crowd.
// Within the configured cooldown window repeated alerts are suppressed.
func (n *AlertNotifier) NotifyHighDensity(ctx context.Context, peopleCount int) {
	if !n.cfg.Enabled {
		return
	}

	if !n.acquireCooldown(ctx) {
		n.log.WithField("people_count", peopleCount).Debug("Alert suppressed by cooldown")
		return
	}

	message := fmt.Sprintf(
		"HIGH RISK ALERT! Crowd density is critical. Detected %d people in the area. Please redirect flow.",
		peopleCount,
	)

	resp, err := n.http.R().
		SetContext(ctx).
		SetHeader("Title", "CrowdGuardian Alert").
		SetHeader("Priority", "high").
		SetHeader("Tags", "rotating_light,warning").
		SetBody(message).
		Post("/" + n.cfg.Topic)
	if err != nil {
		n.log.WithError(err).Error("Failed to send mobile alert")
		return
	}

	if resp.IsError() {
		n.log.WithField("status", resp.StatusCode()).Error("Mobile alert rejected")
		return
	}

	n.log.WithField("people_count", peopleCount).Info("Mobile push alert sent")
}

// acquireCooldown returns true when an alert may be sent now.
func (n *AlertNotifier) acquireCooldown(ctx context.Context) bool {
	if n.cfg.Cooldown <= 0 {
		return true
	}

	if n.redis != nil {
		ok, err := n.redis.SetNX(ctx, alertCooldownKey, "1", n.cfg.Cooldown).Result()
		if err == nil {
			return ok
		}
		n.log.WithError(err).Warn("Cooldown check failed, falling back to local window")
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	if time.Since(n.lastSent) < n.cfg.Cooldown {
		return false
	}
	n.lastSent = time.Now()
	return true
}
