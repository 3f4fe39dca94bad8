package analysis

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"math"
	"path/filepath"
	"strings"

	_ "image/gif"
	_ "image/png"

	"github.com/crowdguardian/sentinel/internal/api"
	"github.com/crowdguardian/sentinel/internal/logger"
)

// videoExtensions are analyzed as video uploads (by file name, matching the
// upstream service behavior).
var videoExtensions = map[string]bool{
	".mp4":  true,
	".avi":  true,
	".mov":  true,
	".mkv":  true,
	".webm": true,
}

// Nominal frame size used for video uploads, where no frame is decoded.
const (
	nominalFrameWidth  = 1280
	nominalFrameHeight = 720
)

var boxColor = color.RGBA{R: 0, G: 255, B: 213, A: 255}

// IsVideoFilename reports whether the upload should take the video path.
func IsVideoFilename(name string) bool {
	return videoExtensions[strings.ToLower(filepath.Ext(name))]
}

// Analyzer runs crowd analysis over uploaded media.
type Analyzer struct {
	detector Detector
	quality  int
	log      logger.Logger
}

// NewAnalyzer creates an analyzer around the given detector.
func NewAnalyzer(detector Detector, log logger.Logger) *Analyzer {
	return &Analyzer{
		detector: detector,
		quality:  90,
		log:      log.WithField("component", "analyzer"),
	}
}

// AnalyzeImage decodes the image, detects people, classifies crowd density
// and returns the result including a base64 JPEG with boxes drawn in.
func (a *Analyzer) AnalyzeImage(data []byte) (*api.AnalysisResult, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("could not decode image: %w", err)
	}

	a.log.WithFields(map[string]interface{}{
		"format": format,
		"bytes":  len(data),
	}).Debug("Decoded upload")

	boxes := a.detector.DetectPeople(img.Bounds(), data)
	return a.buildResult(img, boxes)
}

// AnalyzeVideo analyzes a video upload. Frame extraction is delegated to the
// model-backed detector in production; the synthetic path works on a nominal
// frame so the full response shape is still produced.
func (a *Analyzer) AnalyzeVideo(data []byte) (*api.AnalysisResult, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("could not read video frame: empty upload")
	}

	bounds := image.Rect(0, 0, nominalFrameWidth, nominalFrameHeight)
	frame := image.NewRGBA(bounds)
	draw.Draw(frame, bounds, image.NewUniform(color.RGBA{R: 18, G: 22, B: 28, A: 255}), image.Point{}, draw.Src)

	boxes := a.detector.DetectPeople(bounds, data)
	return a.buildResult(frame, boxes)
}

func (a *Analyzer) buildResult(img image.Image, boxes []api.BoundingBox) (*api.AnalysisResult, error) {
	bounds := img.Bounds()
	occupancy := OccupancyPercent(bounds, boxes)
	level, densityColor, recommendation := Classify(len(boxes), occupancy)

	annotated := annotate(img, boxes)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, annotated, &jpeg.Options{Quality: a.quality}); err != nil {
		return nil, fmt.Errorf("failed to encode result image: %w", err)
	}

	return &api.AnalysisResult{
		PeopleCount:    len(boxes),
		DensityLevel:   level,
		DensityColor:   densityColor,
		Occupancy:      occupancy,
		Recommendation: recommendation,
		BoundingBoxes:  boxes,
		ResultImage:    base64.StdEncoding.EncodeToString(buf.Bytes()),
		ImageWidth:     bounds.Dx(),
		ImageHeight:    bounds.Dy(),
	}, nil
}

// OccupancyPercent estimates how much of the frame is filled by people: the
// summed box area over the frame area, as a percentage capped at 100 and
// rounded to one decimal.
func OccupancyPercent(bounds image.Rectangle, boxes []api.BoundingBox) float64 {
	frameArea := float64(bounds.Dx()) * float64(bounds.Dy())
	if frameArea <= 0 {
		return 0
	}

	var personArea float64
	for _, b := range boxes {
		personArea += (b.X2 - b.X1) * (b.Y2 - b.Y1)
	}

	occupancy := math.Round(personArea/frameArea*100*10) / 10
	return math.Min(occupancy, 100)
}

// annotate draws bounding boxes onto a copy of the frame.
func annotate(img image.Image, boxes []api.BoundingBox) *image.RGBA {
	bounds := img.Bounds()
	out := image.NewRGBA(bounds)
	draw.Draw(out, bounds, img, bounds.Min, draw.Src)

	for _, b := range boxes {
		rect := image.Rect(int(b.X1), int(b.Y1), int(b.X2), int(b.Y2)).Add(bounds.Min)
		drawRect(out, rect.Intersect(bounds), 2)
	}

	return out
}

// drawRect draws a rectangle outline of the given thickness.
func drawRect(img *image.RGBA, rect image.Rectangle, thickness int) {
	if rect.Empty() {
		return
	}

	fill := image.NewUniform(boxColor)

	top := image.Rect(rect.Min.X, rect.Min.Y, rect.Max.X, rect.Min.Y+thickness)
	bottom := image.Rect(rect.Min.X, rect.Max.Y-thickness, rect.Max.X, rect.Max.Y)
	left := image.Rect(rect.Min.X, rect.Min.Y, rect.Min.X+thickness, rect.Max.Y)
	right := image.Rect(rect.Max.X-thickness, rect.Min.Y, rect.Max.X, rect.Max.Y)

	for _, edge := range []image.Rectangle{top, bottom, left, right} {
		draw.Draw(img, edge.Intersect(img.Bounds()), fill, image.Point{}, draw.Src)
	}
}
