package api

// Density levels reported by the analyzer.
const (
	DensityLow      = "LOW"
	DensityModerate = "MODERATE"
	DensityHigh     = "HIGH"
)

// Zone statuses reported by the analytics endpoint.
const (
	ZoneStatusCrowded = "Crowded"
	ZoneStatusQuiet   = "Quiet"
	ZoneStatusNormal  = "Normal"
	ZoneStatusStable  = "Stable"
)

// BoundingBox is a detected person region in image coordinates.
type BoundingBox struct {
	X1         float64 `json:"x1"`
	Y1         float64 `json:"y1"`
	X2         float64 `json:"x2"`
	Y2         float64 `json:"y2"`
	Confidence float64 `json:"confidence"`
}

// AnalysisResult is the response body of POST /api/analyze.
type AnalysisResult struct {
	PeopleCount    int           `json:"people_count"`
	DensityLevel   string        `json:"density_level"`
	DensityColor   string        `json:"density_color"`
	Occupancy      float64       `json:"occupancy"`
	Recommendation string        `json:"recommendation"`
	BoundingBoxes  []BoundingBox `json:"bounding_boxes,omitempty"`
	ResultImage    string        `json:"result_image,omitempty"` // base64-encoded JPEG
	ImageWidth     int           `json:"image_width,omitempty"`
	ImageHeight    int           `json:"image_height,omitempty"`
}

// Zone is a named sub-area with a live count and categorical status.
type Zone struct {
	Name         string `json:"name"`
	CurrentCount int    `json:"current_count"`
	Status       string `json:"status"`
}

// Datasets holds the aligned historical series of an analytics snapshot.
type Datasets struct {
	TotalPeople []int     `json:"total_people"`
	AvgDensity  []float64 `json:"avg_density"`
}

// AnalyticsSnapshot is the response body of GET /api/analytics. Labels and
// the dataset series are aligned by index.
type AnalyticsSnapshot struct {
	Labels   []string `json:"labels"`
	Datasets Datasets `json:"datasets"`
	Zones    []Zone   `json:"zones"`
}
