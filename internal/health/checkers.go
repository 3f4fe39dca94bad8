package health

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisChecker checks Redis connectivity.
type RedisChecker struct {
	client *redis.Client
}

// NewRedisChecker creates a new Redis health checker.
func NewRedisChecker(client *redis.Client) *RedisChecker {
	return &RedisChecker{client: client}
}

// Name returns the name of the checker.
func (r *RedisChecker) Name() string {
	return "redis"
}

// Check performs the Redis health check.
func (r *RedisChecker) Check(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// DetectorChecker verifies the analysis detector responds. It accepts a
// probe function so the health package stays decoupled from analysis types.
type DetectorChecker struct {
	probe func(ctx context.Context) error
}

// NewDetectorChecker creates a detector health checker around a probe.
func NewDetectorChecker(probe func(ctx context.Context) error) *DetectorChecker {
	return &DetectorChecker{probe: probe}
}

// Name returns the name of the checker.
func (d *DetectorChecker) Name() string {
	return "detector"
}

// Check runs the probe.
func (d *DetectorChecker) Check(ctx context.Context) error {
	return d.probe(ctx)
}
