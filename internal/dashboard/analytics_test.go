package dashboard

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crowdguardian/sentinel/internal/api"
	"github.com/crowdguardian/sentinel/internal/logger"
)

func weekSnapshot(scale int) *api.AnalyticsSnapshot {
	return &api.AnalyticsSnapshot{
		Labels: []string{"Monday", "Tuesday", "Wednesday"},
		Datasets: api.Datasets{
			TotalPeople: []int{8000 * scale, 9000 * scale, 10000 * scale},
			AvgDensity:  []float64{0.2, 0.3, 0.25},
		},
		Zones: []api.Zone{
			{Name: "Main Entrance", CurrentCount: 120, Status: api.ZoneStatusStable},
			{Name: "Food Court", CurrentCount: 340, Status: api.ZoneStatusCrowded},
			{Name: "VIP Lounge", CurrentCount: 12, Status: api.ZoneStatusQuiet},
		},
	}
}

func newTestPipeline(client AnalyticsClient) (*AnalyticsPipeline, *recordingNotifier) {
	notifier := &recordingNotifier{}
	return NewAnalyticsPipeline(client, notifier, logger.NewNullLogger()), notifier
}

func TestRefreshBuildsChartAndZones(t *testing.T) {
	client := &stubClient{snapshot: weekSnapshot(1)}
	p, _ := newTestPipeline(client)

	cmd := p.Refresh()
	msg, ok := cmd().(analyticsMsg)
	require.True(t, ok)
	p.HandleSnapshot(msg)

	require.NotNil(t, p.Chart())
	assert.Equal(t, []string{"Monday", "Tuesday", "Wednesday"}, p.Chart().Labels())
	assert.Equal(t, []int{8000, 9000, 10000}, p.Chart().Values())

	zones := p.Zones()
	require.Len(t, zones, 3)
	assert.Equal(t, ToneNeutral, zones[0].Tone)
	assert.Equal(t, ToneNegative, zones[1].Tone)
	assert.Equal(t, TonePositive, zones[2].Tone)
}

func TestRefreshReplacesChartAndZonesWholesale(t *testing.T) {
	client := &stubClient{snapshot: weekSnapshot(1)}
	p, _ := newTestPipeline(client)

	p.HandleSnapshot(p.Refresh()().(analyticsMsg))
	firstChart := p.Chart()

	client.snapshot = &api.AnalyticsSnapshot{
		Labels:   []string{"Thursday"},
		Datasets: api.Datasets{TotalPeople: []int{11000}, AvgDensity: []float64{0.4}},
		Zones:    []api.Zone{{Name: "Concert Hall", CurrentCount: 250, Status: api.ZoneStatusNormal}},
	}
	p.HandleSnapshot(p.Refresh()().(analyticsMsg))

	assert.True(t, firstChart.Closed(), "previous chart must be destroyed before recreation")
	assert.NotSame(t, firstChart, p.Chart())
	assert.Equal(t, []string{"Thursday"}, p.Chart().Labels())

	zones := p.Zones()
	require.Len(t, zones, 1, "zone grid is rebuilt wholesale")
	assert.Equal(t, "Concert Hall", zones[0].Name)
}

func TestOverlappingRefreshKeepsOnlyLatest(t *testing.T) {
	client := &stubClient{snapshot: weekSnapshot(1)}
	p, _ := newTestPipeline(client)

	first := p.Refresh()
	firstMsg := first().(analyticsMsg)

	client.snapshot = weekSnapshot(2)
	second := p.Refresh()
	secondMsg := second().(analyticsMsg)

	// Deliver out of order: the superseded snapshot must be discarded.
	p.HandleSnapshot(secondMsg)
	p.HandleSnapshot(firstMsg)

	require.NotNil(t, p.Chart())
	assert.False(t, p.Chart().Closed())
	assert.Equal(t, []int{16000, 18000, 20000}, p.Chart().Values())
}

func TestRefreshFailureKeepsPreviousRender(t *testing.T) {
	client := &stubClient{snapshot: weekSnapshot(1)}
	p, notifier := newTestPipeline(client)

	p.HandleSnapshot(p.Refresh()().(analyticsMsg))
	chart := p.Chart()

	client.analyticsErr = errors.New("connection refused")
	p.HandleSnapshot(p.Refresh()().(analyticsMsg))

	assert.Same(t, chart, p.Chart(), "failed refresh keeps the previous chart")
	assert.False(t, chart.Closed())
	assert.Len(t, p.Zones(), 3)

	require.Len(t, notifier.events, 1)
	assert.Equal(t, SeverityPassive, notifier.events[0].severity, "refresh failures never block the operator")
}

func TestZoneTone(t *testing.T) {
	assert.Equal(t, ToneNegative, zoneTone(api.ZoneStatusCrowded))
	assert.Equal(t, TonePositive, zoneTone(api.ZoneStatusQuiet))
	assert.Equal(t, ToneNeutral, zoneTone(api.ZoneStatusNormal))
	assert.Equal(t, ToneNeutral, zoneTone(api.ZoneStatusStable))
	assert.Equal(t, ToneNeutral, zoneTone("anything-else"))
}
