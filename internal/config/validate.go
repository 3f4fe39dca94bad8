package config

import (
	"fmt"
	"net/url"

	"github.com/sirupsen/logrus"
)

func (c *Config) Validate() error {
	if err := c.Client.Validate(); err != nil {
		return fmt.Errorf("client config: %w", err)
	}

	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server config: %w", err)
	}

	if err := c.Redis.Validate(); err != nil {
		return fmt.Errorf("redis config: %w", err)
	}

	if err := c.Alerts.Validate(); err != nil {
		return fmt.Errorf("alerts config: %w", err)
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	if err := c.Metrics.Validate(); err != nil {
		return fmt.Errorf("metrics config: %w", err)
	}

	return nil
}

func (c *ClientConfig) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base_url is required")
	}

	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid base_url: %s", c.BaseURL)
	}

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive")
	}

	if c.RetryCount < 0 {
		return fmt.Errorf("retry_count must not be negative")
	}

	if c.ClockInterval <= 0 {
		return fmt.Errorf("clock_interval must be positive")
	}

	if c.GaugeInterval <= 0 {
		return fmt.Errorf("gauge_interval must be positive")
	}

	if c.RefreshDelay < 0 {
		return fmt.Errorf("refresh_delay must not be negative")
	}

	return nil
}

func (s *ServerConfig) Validate() error {
	if s.Port < 1 || s.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", s.Port)
	}

	if s.MaxUploadBytes <= 0 {
		return fmt.Errorf("max_upload_bytes must be positive")
	}

	if s.AnalyzeRate <= 0 {
		return fmt.Errorf("analyze_rate must be positive")
	}

	if s.AnalyzeBurst < 1 {
		return fmt.Errorf("analyze_burst must be at least 1")
	}

	return nil
}

func (r *RedisConfig) Validate() error {
	if !r.Enabled {
		return nil
	}

	if r.Addr == "" {
		return fmt.Errorf("redis address is required when redis is enabled")
	}

	if r.DB < 0 {
		return fmt.Errorf("invalid redis DB: %d", r.DB)
	}

	return nil
}

func (a *AlertsConfig) Validate() error {
	if !a.Enabled {
		return nil
	}

	if a.Topic == "" {
		return fmt.Errorf("alert topic is required when alerts are enabled")
	}

	u, err := url.Parse(a.NtfyURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid ntfy_url: %s", a.NtfyURL)
	}

	if a.Cooldown < 0 {
		return fmt.Errorf("cooldown must not be negative")
	}

	return nil
}

func (l *LoggingConfig) Validate() error {
	if _, err := logrus.ParseLevel(l.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", l.Level)
	}

	if l.Format != "json" && l.Format != "text" {
		return fmt.Errorf("invalid log format: %s", l.Format)
	}

	return nil
}

func (m *MetricsConfig) Validate() error {
	if !m.Enabled {
		return nil
	}

	if m.Port < 1 || m.Port > 65535 {
		return fmt.Errorf("invalid metrics port: %d", m.Port)
	}

	if m.Path == "" {
		return fmt.Errorf("metrics path is required")
	}

	return nil
}
