package analysis

import (
	"hash/fnv"
	"image"
	"math"
	"math/rand"

	"github.com/crowdguardian/sentinel/internal/api"
)

// Detector locates people in a frame. The production deployment plugs in a
// real model-backed implementation; the shipped SyntheticDetector generates
// deterministic pseudo-detections so the service runs end to end without
// inference hardware.
type Detector interface {
	// DetectPeople returns person bounding boxes for a frame with the given
	// bounds. content is the raw upload, used by synthetic implementations
	// to derive a stable seed.
	DetectPeople(bounds image.Rectangle, content []byte) []api.BoundingBox
}

// SyntheticDetector produces deterministic pseudo-detections seeded from the
// upload content. The same file always yields the same boxes.
type SyntheticDetector struct {
	// MaxPeople bounds the generated crowd size. Zero means the default.
	MaxPeople int
}

const defaultMaxPeople = 80

// DetectPeople implements Detector.
func (d *SyntheticDetector) DetectPeople(bounds image.Rectangle, content []byte) []api.BoundingBox {
	maxPeople := d.MaxPeople
	if maxPeople <= 0 {
		maxPeople = defaultMaxPeople
	}

	h := fnv.New64a()
	h.Write(content)
	rng := rand.New(rand.NewSource(int64(h.Sum64())))

	frameW := float64(bounds.Dx())
	frameH := float64(bounds.Dy())
	if frameW <= 0 || frameH <= 0 {
		return nil
	}

	count := rng.Intn(maxPeople + 1)
	boxes := make([]api.BoundingBox, 0, count)
	for i := 0; i < count; i++ {
		// Person-shaped boxes, 3-8% of frame width, ~2.5:1 aspect.
		bw := (0.03 + rng.Float64()*0.05) * frameW
		bh := bw * (2.2 + rng.Float64()*0.6)
		if bh > frameH {
			bh = frameH
		}

		x1 := rng.Float64() * (frameW - bw)
		y1 := rng.Float64() * (frameH - bh)

		boxes = append(boxes, api.BoundingBox{
			X1:         math.Round(x1),
			Y1:         math.Round(y1),
			X2:         math.Round(x1 + bw),
			Y2:         math.Round(y1 + bh),
			Confidence: math.Round((0.15+rng.Float64()*0.8)*100) / 100,
		})
	}

	return boxes
}
