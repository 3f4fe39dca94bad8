package dashboard

import "sync"

// Sink identifiers for the fixed render surface. Every component writes
// through the registry so missing cells degrade to recorded no-ops instead
// of panics.
const (
	SinkClock          = "clock"
	SinkDensityValue   = "density-value"
	SinkGaugeFill      = "gauge-fill"
	SinkUploadStatus   = "upload-status"
	SinkPreviewSource  = "preview-source"
	SinkPreviewImage   = "preview-image"
	SinkResultPanel    = "result-panel"
	SinkPeopleCount    = "people-count"
	SinkDensityLabel   = "density-label"
	SinkDensityBg      = "density-bg"
	SinkDensityFg      = "density-fg"
	SinkOccupancyBar   = "occupancy-bar"
	SinkOccupancyValue = "occupancy-value"
	SinkRecommendation = "recommendation"
	SinkAnalyzeLabel   = "analyze-label"
	SinkAnalyzeEnabled = "analyze-enabled"
	SinkReportStatus   = "report-status"
)

// defaultSinkIDs enumerates the cells the standard dashboard surface owns.
var defaultSinkIDs = []string{
	SinkClock,
	SinkDensityValue,
	SinkGaugeFill,
	SinkUploadStatus,
	SinkPreviewSource,
	SinkPreviewImage,
	SinkResultPanel,
	SinkPeopleCount,
	SinkDensityLabel,
	SinkDensityBg,
	SinkDensityFg,
	SinkOccupancyBar,
	SinkOccupancyValue,
	SinkRecommendation,
	SinkAnalyzeLabel,
	SinkAnalyzeEnabled,
	SinkReportStatus,
}

// Cell is a single named render primitive: a text value, a percentage, a
// color and a visibility flag, of which a given sink typically uses one.
type Cell struct {
	text    string
	percent float64
	color   string
	flag    bool
}

// Text returns the cell's text value.
func (c *Cell) Text() string { return c.text }

// Percent returns the cell's percentage value.
func (c *Cell) Percent() float64 { return c.percent }

// Color returns the cell's color value.
func (c *Cell) Color() string { return c.color }

// Flag returns the cell's visibility flag.
func (c *Cell) Flag() bool { return c.flag }

// Registry holds the named render cells. Writers look cells up by ID; a
// lookup against an unregistered ID is recorded and the write skipped, so a
// partially built surface never crashes the event loop.
type Registry struct {
	mu     sync.Mutex
	cells  map[string]*Cell
	misses map[string]int
}

// NewRegistry creates a registry containing the given cell IDs.
func NewRegistry(ids ...string) *Registry {
	r := &Registry{
		cells:  make(map[string]*Cell, len(ids)),
		misses: make(map[string]int),
	}
	for _, id := range ids {
		r.cells[id] = &Cell{}
	}
	return r
}

// DefaultRegistry creates a registry with the full standard surface.
func DefaultRegistry() *Registry {
	return NewRegistry(defaultSinkIDs...)
}

// Lookup returns the cell for id. A miss is recorded for later inspection.
func (r *Registry) Lookup(id string) (*Cell, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cell, ok := r.cells[id]
	if !ok {
		r.misses[id]++
	}
	return cell, ok
}

// SetText writes a text value. It reports whether the cell existed.
func (r *Registry) SetText(id, text string) bool {
	cell, ok := r.Lookup(id)
	if !ok {
		return false
	}
	cell.text = text
	return true
}

// SetPercent writes a percentage value.
func (r *Registry) SetPercent(id string, percent float64) bool {
	cell, ok := r.Lookup(id)
	if !ok {
		return false
	}
	cell.percent = percent
	return true
}

// SetColor writes a color value.
func (r *Registry) SetColor(id, color string) bool {
	cell, ok := r.Lookup(id)
	if !ok {
		return false
	}
	cell.color = color
	return true
}

// SetFlag writes a visibility flag.
func (r *Registry) SetFlag(id string, flag bool) bool {
	cell, ok := r.Lookup(id)
	if !ok {
		return false
	}
	cell.flag = flag
	return true
}

// Text reads a text value; missing cells yield the empty string.
func (r *Registry) Text(id string) string {
	cell, ok := r.Lookup(id)
	if !ok {
		return ""
	}
	return cell.text
}

// Percent reads a percentage; missing cells yield zero.
func (r *Registry) Percent(id string) float64 {
	cell, ok := r.Lookup(id)
	if !ok {
		return 0
	}
	return cell.percent
}

// Color reads a color; missing cells yield the empty string.
func (r *Registry) Color(id string) string {
	cell, ok := r.Lookup(id)
	if !ok {
		return ""
	}
	return cell.color
}

// Flag reads a visibility flag; missing cells yield false.
func (r *Registry) Flag(id string) bool {
	cell, ok := r.Lookup(id)
	if !ok {
		return false
	}
	return cell.flag
}

// Misses returns a copy of the recorded lookup misses keyed by sink ID.
func (r *Registry) Misses() map[string]int {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[string]int, len(r.misses))
	for id, n := range r.misses {
		out[id] = n
	}
	return out
}
