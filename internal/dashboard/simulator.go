package dashboard

import (
	"math"
	"math/rand"
	"strconv"

	"github.com/crowdguardian/sentinel/internal/logger"
)

// MetricSimulator feeds the live density readout between real analyses.
// Each tick draws a density in [0.08, 0.12), rounds it to two decimals and
// drives the inverse free-capacity gauge from it.
type MetricSimulator struct {
	sinks *Registry
	rng   *rand.Rand
	log   logger.Logger
}

// NewMetricSimulator creates a simulator writing through the given registry.
// The rand source is injectable so tests can pin the sequence.
func NewMetricSimulator(sinks *Registry, rng *rand.Rand, log logger.Logger) *MetricSimulator {
	return &MetricSimulator{
		sinks: sinks,
		rng:   rng,
		log:   log.WithField("component", "simulator"),
	}
}

// Tick produces one simulated reading. Both sink writes are skipped together
// when either cell is missing so the readout and gauge never diverge.
func (s *MetricSimulator) Tick() {
	density := math.Round((0.08+s.rng.Float64()*0.04)*100) / 100

	_, haveValue := s.sinks.Lookup(SinkDensityValue)
	_, haveGauge := s.sinks.Lookup(SinkGaugeFill)
	if !haveValue || !haveGauge {
		s.log.Debug("Density sinks unavailable, skipping tick")
		return
	}

	s.sinks.SetText(SinkDensityValue, strconv.FormatFloat(density, 'f', 2, 64))
	s.sinks.SetPercent(SinkGaugeFill, (1-density)*100)
}
