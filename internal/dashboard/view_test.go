package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/crowdguardian/sentinel/internal/logger"
)

func TestParseView(t *testing.T) {
	for _, v := range AllViews {
		parsed, ok := ParseView(string(v))
		assert.True(t, ok)
		assert.Equal(t, v, parsed)
	}

	_, ok := ParseView("bogus")
	assert.False(t, ok)
}

func TestRouterStartsOnDashboard(t *testing.T) {
	r := NewRouter(logger.NewNullLogger())
	assert.Equal(t, ViewDashboard, r.Active())
}

func TestRouterNavigate(t *testing.T) {
	r := NewRouter(logger.NewNullLogger())

	refresh := r.Navigate("analyzer")
	assert.False(t, refresh)
	assert.Equal(t, ViewAnalyzer, r.Active())

	refresh = r.Navigate("analytics")
	assert.True(t, refresh, "entering analytics should request a refresh")
	assert.Equal(t, ViewAnalytics, r.Active())
}

func TestRouterNavigateUnknownIsNoOp(t *testing.T) {
	r := NewRouter(logger.NewNullLogger())
	r.Navigate("reports")

	refresh := r.Navigate("does-not-exist")
	assert.False(t, refresh)
	assert.Equal(t, ViewReports, r.Active(), "unknown target must not change the active view")
}

func TestViewTitles(t *testing.T) {
	assert.Equal(t, "AI Analyzer", ViewAnalyzer.Title())
	assert.Equal(t, "Dashboard", ViewDashboard.Title())
}
