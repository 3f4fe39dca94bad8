package dashboard

import (
	"math/rand"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crowdguardian/sentinel/internal/logger"
)

func TestSimulatorTick(t *testing.T) {
	sinks := DefaultRegistry()
	sim := NewMetricSimulator(sinks, rand.New(rand.NewSource(7)), logger.NewNullLogger())

	for i := 0; i < 50; i++ {
		sim.Tick()

		text := sinks.Text(SinkDensityValue)
		density, err := strconv.ParseFloat(text, 64)
		require.NoError(t, err)

		assert.GreaterOrEqual(t, density, 0.08)
		assert.LessOrEqual(t, density, 0.12)

		_, frac, found := strings.Cut(text, ".")
		require.True(t, found)
		assert.Len(t, frac, 2, "density text should carry two decimals: %q", text)

		assert.InDelta(t, (1-density)*100, sinks.Percent(SinkGaugeFill), 1e-9)
	}
}

func TestSimulatorSkipsTickWhenSinkMissing(t *testing.T) {
	sinks := NewRegistry(SinkDensityValue) // gauge cell absent
	sim := NewMetricSimulator(sinks, rand.New(rand.NewSource(1)), logger.NewNullLogger())

	sim.Tick()

	assert.Equal(t, "", sinks.Text(SinkDensityValue), "readout and gauge must not diverge")
	assert.Contains(t, sinks.Misses(), SinkGaugeFill)
}
