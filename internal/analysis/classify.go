package analysis

import "github.com/crowdguardian/sentinel/internal/api"

// Density thresholds. High risk requires both a large count and high spatial
// constraint; moderate covers rising counts in compact zones.
const (
	highCountThreshold     = 50
	highOccupancyThreshold = 45.0

	moderateCountThreshold     = 25
	moderateOccupancyThreshold = 30.0
	moderateOccupancyOnly      = 40.0
)

// Density colors rendered by the dashboard.
const (
	ColorHigh     = "#ff3e3e"
	ColorModerate = "#ff7b00"
	ColorLow      = "#37ff8b"
)

const (
	recommendationHigh     = "Danger: Critical mass detected (50+ people) in a constrained space. Alert triggered."
	recommendationModerate = "Monitor closely: Space is moderately filled or people count is rising in a compact zone."
	recommendationLow      = "Area clear: Safe conditions. Substantial open space available for movement."
)

// Classify maps a people count and occupancy percentage to a density level,
// display color and operator recommendation.
func Classify(peopleCount int, occupancy float64) (level, color, recommendation string) {
	switch {
	case peopleCount >= highCountThreshold && occupancy >= highOccupancyThreshold:
		return api.DensityHigh, ColorHigh, recommendationHigh
	case (peopleCount >= moderateCountThreshold && occupancy >= moderateOccupancyThreshold) ||
		occupancy >= moderateOccupancyOnly:
		return api.DensityModerate, ColorModerate, recommendationModerate
	default:
		return api.DensityLow, ColorLow, recommendationLow
	}
}
