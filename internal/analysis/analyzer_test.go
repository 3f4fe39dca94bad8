package analysis

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crowdguardian/sentinel/internal/api"
	"github.com/crowdguardian/sentinel/internal/logger"
)

// fixedDetector returns a preset box list regardless of input.
type fixedDetector struct {
	boxes []api.BoundingBox
}

func (d *fixedDetector) DetectPeople(bounds image.Rectangle, content []byte) []api.BoundingBox {
	return d.boxes
}

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		count     int
		occupancy float64
		wantLevel string
		wantColor string
	}{
		{"critical mass in constrained space", 50, 45.0, api.DensityHigh, ColorHigh},
		{"high count but open space", 120, 20.0, api.DensityLow, ColorLow},
		{"moderate count compact zone", 25, 30.0, api.DensityModerate, ColorModerate},
		{"occupancy alone triggers moderate", 5, 40.0, api.DensityModerate, ColorModerate},
		{"empty area", 0, 0, api.DensityLow, ColorLow},
		{"just below every threshold", 24, 29.9, api.DensityLow, ColorLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level, col, rec := Classify(tt.count, tt.occupancy)
			assert.Equal(t, tt.wantLevel, level)
			assert.Equal(t, tt.wantColor, col)
			assert.NotEmpty(t, rec)
		})
	}
}

func TestOccupancyPercent(t *testing.T) {
	bounds := image.Rect(0, 0, 100, 100)

	t.Run("no boxes", func(t *testing.T) {
		assert.Equal(t, 0.0, OccupancyPercent(bounds, nil))
	})

	t.Run("quarter coverage", func(t *testing.T) {
		boxes := []api.BoundingBox{{X1: 0, Y1: 0, X2: 50, Y2: 50}}
		assert.Equal(t, 25.0, OccupancyPercent(bounds, boxes))
	})

	t.Run("capped at 100", func(t *testing.T) {
		boxes := []api.BoundingBox{
			{X1: 0, Y1: 0, X2: 100, Y2: 100},
			{X1: 0, Y1: 0, X2: 100, Y2: 100},
		}
		assert.Equal(t, 100.0, OccupancyPercent(bounds, boxes))
	})
}

func TestAnalyzeImage(t *testing.T) {
	detector := &fixedDetector{boxes: []api.BoundingBox{
		{X1: 10, Y1: 10, X2: 40, Y2: 80, Confidence: 0.9},
		{X1: 50, Y1: 20, X2: 80, Y2: 90, Confidence: 0.7},
	}}
	analyzer := NewAnalyzer(detector, logger.NewNullLogger())

	result, err := analyzer.AnalyzeImage(encodePNG(t, 100, 100))
	require.NoError(t, err)

	assert.Equal(t, 2, result.PeopleCount)
	assert.Equal(t, api.DensityLow, result.DensityLevel)
	assert.Equal(t, 100, result.ImageWidth)
	assert.Equal(t, 100, result.ImageHeight)
	assert.Len(t, result.BoundingBoxes, 2)

	// Result image is a decodable JPEG of the same dimensions.
	raw, err := base64.StdEncoding.DecodeString(result.ResultImage)
	require.NoError(t, err)
	annotated, err := jpeg.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, 100, annotated.Bounds().Dx())
}

func TestAnalyzeImageRejectsGarbage(t *testing.T) {
	analyzer := NewAnalyzer(&SyntheticDetector{}, logger.NewNullLogger())

	_, err := analyzer.AnalyzeImage([]byte("definitely not an image"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "could not decode image")
}

func TestAnalyzeVideo(t *testing.T) {
	analyzer := NewAnalyzer(&SyntheticDetector{}, logger.NewNullLogger())

	result, err := analyzer.AnalyzeVideo([]byte("fake video bytes"))
	require.NoError(t, err)

	assert.Equal(t, 1280, result.ImageWidth)
	assert.Equal(t, 720, result.ImageHeight)
	assert.NotEmpty(t, result.ResultImage)
	assert.GreaterOrEqual(t, result.PeopleCount, 0)
}

func TestAnalyzeVideoRejectsEmpty(t *testing.T) {
	analyzer := NewAnalyzer(&SyntheticDetector{}, logger.NewNullLogger())

	_, err := analyzer.AnalyzeVideo(nil)
	assert.Error(t, err)
}

func TestSyntheticDetectorDeterministic(t *testing.T) {
	detector := &SyntheticDetector{}
	bounds := image.Rect(0, 0, 640, 480)
	content := []byte("stable seed material")

	first := detector.DetectPeople(bounds, content)
	second := detector.DetectPeople(bounds, content)
	assert.Equal(t, first, second)

	for _, b := range first {
		assert.GreaterOrEqual(t, b.X1, 0.0)
		assert.GreaterOrEqual(t, b.Y1, 0.0)
		assert.LessOrEqual(t, b.X2, 640.0)
		assert.LessOrEqual(t, b.Y2, 480.0)
		assert.Greater(t, b.X2, b.X1)
		assert.Greater(t, b.Y2, b.Y1)
	}
}

func TestIsVideoFilename(t *testing.T) {
	assert.True(t, IsVideoFilename("clip.mp4"))
	assert.True(t, IsVideoFilename("CLIP.MOV"))
	assert.True(t, IsVideoFilename("seq.webm"))
	assert.False(t, IsVideoFilename("photo.jpg"))
	assert.False(t, IsVideoFilename("noext"))
}
