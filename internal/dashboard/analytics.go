package dashboard

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/crowdguardian/sentinel/internal/api"
	"github.com/crowdguardian/sentinel/internal/logger"
)

// ZoneTone is the styling class of a zone card, derived from its status.
type ZoneTone int

const (
	ToneNeutral ZoneTone = iota
	ToneNegative
	TonePositive
)

// zoneTone maps a raw zone status to a card tone. Crowded zones read as
// negative, quiet zones as positive, everything else stays neutral.
func zoneTone(status string) ZoneTone {
	switch status {
	case api.ZoneStatusCrowded:
		return ToneNegative
	case api.ZoneStatusQuiet:
		return TonePositive
	default:
		return ToneNeutral
	}
}

// ZoneCard is one rendered zone tile.
type ZoneCard struct {
	Name   string
	Count  int
	Status string
	Tone   ZoneTone
}

// AnalyticsClient is the slice of the API client the pipeline consumes.
type AnalyticsClient interface {
	Analytics(ctx context.Context) (*api.AnalyticsSnapshot, error)
}

type analyticsMsg struct {
	generation uint64
	snapshot   *api.AnalyticsSnapshot
	err        error
}

// AnalyticsPipeline fetches analytics snapshots and rebuilds the weekly
// chart and zone grid from them. At most one chart instance is ever bound:
// a new snapshot closes the previous chart before a replacement is created.
// Fetch failures are logged passively and the previous render is kept.
type AnalyticsPipeline struct {
	client   AnalyticsClient
	notifier Notifier
	log      logger.Logger

	generation uint64
	cancel     context.CancelFunc
	chart      *BarChart
	zones      []ZoneCard
}

// NewAnalyticsPipeline creates an empty pipeline.
func NewAnalyticsPipeline(client AnalyticsClient, notifier Notifier, log logger.Logger) *AnalyticsPipeline {
	return &AnalyticsPipeline{
		client:   client,
		notifier: notifier,
		log:      log.WithField("component", "analytics"),
	}
}

// Chart returns the currently bound chart, or nil before the first
// successful refresh.
func (p *AnalyticsPipeline) Chart() *BarChart { return p.chart }

// Zones returns the current zone cards.
func (p *AnalyticsPipeline) Zones() []ZoneCard { return p.zones }

// Generation returns the current fetch generation.
func (p *AnalyticsPipeline) Generation() uint64 { return p.generation }

// Refresh starts a snapshot fetch. A refresh issued while one is already
// outstanding supersedes it: the older fetch is cancelled and its response,
// should it still arrive, is discarded by generation.
func (p *AnalyticsPipeline) Refresh() tea.Cmd {
	if p.cancel != nil {
		p.cancel()
	}

	p.generation++
	gen := p.generation
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel

	client := p.client
	return func() tea.Msg {
		snapshot, err := client.Analytics(ctx)
		return analyticsMsg{generation: gen, snapshot: snapshot, err: err}
	}
}

// HandleSnapshot applies a fetch completion. The zone grid is rebuilt
// wholesale so no stale card survives a refresh.
func (p *AnalyticsPipeline) HandleSnapshot(msg analyticsMsg) {
	if msg.generation != p.generation {
		p.log.WithFields(logger.Fields{
			"generation": msg.generation,
			"current":    p.generation,
		}).Debug("Discarding stale analytics snapshot")
		return
	}

	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}

	if msg.err != nil {
		p.log.WithError(msg.err).Error("Analytics refresh failed")
		p.notifier.Notify(SeverityPassive, "Analytics refresh failed: "+msg.err.Error())
		return
	}

	if p.chart != nil {
		p.chart.Close()
	}
	p.chart = NewBarChart(msg.snapshot.Labels, msg.snapshot.Datasets.TotalPeople)

	zones := make([]ZoneCard, 0, len(msg.snapshot.Zones))
	for _, z := range msg.snapshot.Zones {
		zones = append(zones, ZoneCard{
			Name:   z.Name,
			Count:  z.CurrentCount,
			Status: z.Status,
			Tone:   zoneTone(z.Status),
		})
	}
	p.zones = zones

	p.log.WithFields(logger.Fields{
		"labels": len(msg.snapshot.Labels),
		"zones":  len(zones),
	}).Info("Analytics snapshot applied")
}
