package server

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/crowdguardian/sentinel/internal/api"
	"github.com/crowdguardian/sentinel/internal/logger"
)

const (
	historyKey       = "sentinel:analysis:history"
	historyRetention = 7 * 24 * time.Hour
)

// historyEntry is the stored record of one completed analysis.
type historyEntry struct {
	Timestamp   int64   `json:"ts"`
	PeopleCount int     `json:"people_count"`
	Occupancy   float64 `json:"occupancy"`
}

// DayAggregate summarizes the analyses recorded on one calendar day.
type DayAggregate struct {
	Total      int
	AvgDensity float64
	Samples    int
}

// HistoryStore records analysis results in Redis so the analytics endpoint
// can aggregate real data. A nil client disables recording; callers fall
// back to synthetic series.
type HistoryStore struct {
	client *redis.Client
	log    logger.Logger
}

// NewHistoryStore creates a history store. client may be nil.
func NewHistoryStore(client *redis.Client, log *logrus.Logger) *HistoryStore {
	return &HistoryStore{
		client: client,
		log:    logger.NewLogrusAdapter(logger.WithComponent(log, "history")),
	}
}

// Enabled reports whether a backing store is configured.
func (s *HistoryStore) Enabled() bool {
	return s.client != nil
}

// Record appends one analysis result and trims entries past retention.
func (s *HistoryStore) Record(ctx context.Context, result *api.AnalysisResult) error {
	if s.client == nil {
		return nil
	}

	entry := historyEntry{
		Timestamp:   time.Now().Unix(),
		PeopleCount: result.PeopleCount,
		Occupancy:   result.Occupancy,
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal history entry: %w", err)
	}

	cutoff := time.Now().Add(-historyRetention).Unix()

	pipe := s.client.TxPipeline()
	pipe.ZAdd(ctx, historyKey, redis.Z{Score: float64(entry.Timestamp), Member: string(data)})
	pipe.ZRemRangeByScore(ctx, historyKey, "0", strconv.FormatInt(cutoff, 10))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to record analysis: %w", err)
	}

	return nil
}

// DailyAggregates buckets recorded analyses by calendar day for the last
// `days` days, keyed by date in YYYY-MM-DD.
func (s *HistoryStore) DailyAggregates(ctx context.Context, days int, now time.Time) (map[string]DayAggregate, error) {
	if s.client == nil {
		return map[string]DayAggregate{}, nil
	}

	since := now.AddDate(0, 0, -days).Unix()
	members, err := s.client.ZRangeByScore(ctx, historyKey, &redis.ZRangeBy{
		Min: strconv.FormatInt(since, 10),
		Max: "+inf",
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}

	type bucket struct {
		total     int
		occupancy float64
		samples   int
	}
	buckets := make(map[string]*bucket)

	for _, member := range members {
		var entry historyEntry
		if err := json.Unmarshal([]byte(member), &entry); err != nil {
			s.log.WithError(err).Warn("Skipping malformed history entry")
			continue
		}

		day := time.Unix(entry.Timestamp, 0).Format("2006-01-02")
		b := buckets[day]
		if b == nil {
			b = &bucket{}
			buckets[day] = b
		}
		b.total += entry.PeopleCount
		b.occupancy += entry.Occupancy
		b.samples++
	}

	aggregates := make(map[string]DayAggregate, len(buckets))
	for day, b := range buckets {
		avg := b.occupancy / float64(b.samples) / 100
		aggregates[day] = DayAggregate{
			Total:      b.total,
			AvgDensity: roundTo(avg, 2),
			Samples:    b.samples,
		}
	}

	return aggregates, nil
}

func roundTo(v float64, decimals int) float64 {
	shift := 1.0
	for i := 0; i < decimals; i++ {
		shift *= 10
	}
	return float64(int64(v*shift+0.5)) / shift
}
