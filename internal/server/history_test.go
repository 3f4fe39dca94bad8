package server

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crowdguardian/sentinel/internal/api"
)

func newHistoryStore(t *testing.T) (*HistoryStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	log := logrus.New()
	log.SetOutput(&bytes.Buffer{})

	return NewHistoryStore(client, log), mr
}

func TestHistoryStoreDisabled(t *testing.T) {
	log := logrus.New()
	log.SetOutput(&bytes.Buffer{})
	store := NewHistoryStore(nil, log)

	assert.False(t, store.Enabled())
	assert.NoError(t, store.Record(context.Background(), &api.AnalysisResult{PeopleCount: 10}))

	aggregates, err := store.DailyAggregates(context.Background(), 7, time.Now())
	require.NoError(t, err)
	assert.Empty(t, aggregates)
}

func TestHistoryStoreRecordAndAggregate(t *testing.T) {
	store, _ := newHistoryStore(t)
	ctx := context.Background()

	require.NoError(t, store.Record(ctx, &api.AnalysisResult{PeopleCount: 40, Occupancy: 20}))
	require.NoError(t, store.Record(ctx, &api.AnalysisResult{PeopleCount: 60, Occupancy: 40}))

	now := time.Now()
	aggregates, err := store.DailyAggregates(ctx, 7, now)
	require.NoError(t, err)

	today := now.Format("2006-01-02")
	require.Contains(t, aggregates, today)

	agg := aggregates[today]
	assert.Equal(t, 100, agg.Total)
	assert.Equal(t, 2, agg.Samples)
	// Mean occupancy 30% maps to density 0.3.
	assert.InDelta(t, 0.3, agg.AvgDensity, 0.001)
}

func TestHistoryStoreSkipsMalformedEntries(t *testing.T) {
	store, mr := newHistoryStore(t)
	ctx := context.Background()

	require.NoError(t, store.Record(ctx, &api.AnalysisResult{PeopleCount: 25, Occupancy: 10}))
	_, err := mr.ZAdd(historyKey, float64(time.Now().Unix()), "not-json")
	require.NoError(t, err)

	aggregates, err := store.DailyAggregates(ctx, 7, time.Now())
	require.NoError(t, err)

	agg := aggregates[time.Now().Format("2006-01-02")]
	assert.Equal(t, 25, agg.Total)
	assert.Equal(t, 1, agg.Samples)
}

func TestHistoryStoreRedisDown(t *testing.T) {
	store, mr := newHistoryStore(t)
	mr.Close()

	err := store.Record(context.Background(), &api.AnalysisResult{PeopleCount: 1})
	assert.Error(t, err)

	_, err = store.DailyAggregates(context.Background(), 7, time.Now())
	assert.Error(t, err)
}
