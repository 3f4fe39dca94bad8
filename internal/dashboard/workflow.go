package dashboard

import (
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/crowdguardian/sentinel/internal/api"
	"github.com/crowdguardian/sentinel/internal/logger"
)

// RequestState tracks the analysis request lifecycle.
type RequestState int

const (
	StateIdle RequestState = iota
	StateInFlight
	StateSucceeded
	StateFailed
)

func (s RequestState) String() string {
	switch s {
	case StateInFlight:
		return "in-flight"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "idle"
	}
}

// MediaKind classifies a selected file by its MIME type prefix.
type MediaKind int

const (
	KindOther MediaKind = iota
	KindImage
	KindVideo
)

// PendingMedia is the single selected file awaiting analysis. The workflow
// owns it exclusively; it is replaced wholesale on selection and cleared
// when a request reaches a terminal state.
type PendingMedia struct {
	Path string
	Name string
	MIME string
	Kind MediaKind
}

// AnalyzeClient is the slice of the API client the workflow consumes.
type AnalyzeClient interface {
	Analyze(ctx context.Context, path string) (*api.AnalysisResult, error)
}

const (
	analyzeLabelReady = "Analyze"
	analyzeLabelBusy  = "Analyzing..."
	noFileMessage     = "Please select an image or video first"
)

type previewReadyMsg struct {
	path      string
	dataURL   string
	thumbnail string
	err       error
}

type analysisDoneMsg struct {
	generation uint64
	result     *api.AnalysisResult
	err        error
}

// AnalyzeWorkflow drives file selection and analysis submission. A
// monotonically increasing generation counter ties each response to the
// request that produced it; completions from superseded requests are
// discarded and their contexts cancelled.
type AnalyzeWorkflow struct {
	client   AnalyzeClient
	sinks    *Registry
	notifier Notifier
	log      logger.Logger

	state      RequestState
	pending    *PendingMedia
	generation uint64
	cancel     context.CancelFunc
}

// NewAnalyzeWorkflow creates the workflow in the idle state with the
// analyze trigger enabled.
func NewAnalyzeWorkflow(client AnalyzeClient, sinks *Registry, notifier Notifier, log logger.Logger) *AnalyzeWorkflow {
	w := &AnalyzeWorkflow{
		client:   client,
		sinks:    sinks,
		notifier: notifier,
		log:      log.WithField("component", "analyzer"),
	}
	sinks.SetText(SinkAnalyzeLabel, analyzeLabelReady)
	sinks.SetFlag(SinkAnalyzeEnabled, true)
	return w
}

// State returns the current request state.
func (w *AnalyzeWorkflow) State() RequestState { return w.state }

// Pending returns the currently selected media, or nil.
func (w *AnalyzeWorkflow) Pending() *PendingMedia { return w.pending }

// Generation returns the current request generation.
func (w *AnalyzeWorkflow) Generation() uint64 { return w.generation }

// SelectFile records a new pending file, replacing any previous selection.
// Images hide any stale result panel and start an asynchronous preview
// decode; videos update the status distinctly and leave the preview
// untouched; other types are accepted without preview.
func (w *AnalyzeWorkflow) SelectFile(path string) tea.Cmd {
	if path == "" {
		return nil
	}

	name := filepath.Base(path)
	mimeType := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	kind := KindOther
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		kind = KindImage
	case strings.HasPrefix(mimeType, "video/"):
		kind = KindVideo
	}

	w.pending = &PendingMedia{Path: path, Name: name, MIME: mimeType, Kind: kind}
	w.state = StateIdle

	switch kind {
	case KindImage:
		w.sinks.SetText(SinkUploadStatus, name)
		w.sinks.SetFlag(SinkResultPanel, false)
		return loadPreview(path, mimeType)
	case KindVideo:
		w.sinks.SetText(SinkUploadStatus, name+" (video, no preview)")
		return nil
	default:
		w.sinks.SetText(SinkUploadStatus, name)
		return nil
	}
}

// loadPreview reads and decodes the file off the event loop and delivers a
// data URL plus a rendered thumbnail.
func loadPreview(path, mimeType string) tea.Cmd {
	return func() tea.Msg {
		content, err := os.ReadFile(path)
		if err != nil {
			return previewReadyMsg{path: path, err: err}
		}
		thumb, err := renderThumbnailBytes(content, previewWidth, previewHeight)
		if err != nil {
			return previewReadyMsg{path: path, err: err}
		}
		dataURL := "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(content)
		return previewReadyMsg{path: path, dataURL: dataURL, thumbnail: thumb}
	}
}

// HandlePreview applies a finished preview decode. Previews for files no
// longer selected are dropped.
func (w *AnalyzeWorkflow) HandlePreview(msg previewReadyMsg) {
	if w.pending == nil || w.pending.Path != msg.path {
		return
	}
	if msg.err != nil {
		w.log.WithError(msg.err).WithField("path", msg.path).Warn("Preview decode failed")
		return
	}
	w.sinks.SetText(SinkPreviewSource, msg.dataURL)
	w.sinks.SetText(SinkPreviewImage, msg.thumbnail)
}

// Analyze submits the pending file. With no selection it raises a blocking
// notification and performs no request. A still in-flight request is
// superseded: its context is cancelled and its eventual completion will be
// discarded by generation.
func (w *AnalyzeWorkflow) Analyze() tea.Cmd {
	if w.pending == nil {
		w.notifier.Notify(SeverityBlocking, noFileMessage)
		return nil
	}

	if w.cancel != nil {
		w.cancel()
	}

	w.generation++
	gen := w.generation
	w.state = StateInFlight
	w.sinks.SetFlag(SinkAnalyzeEnabled, false)
	w.sinks.SetText(SinkAnalyzeLabel, analyzeLabelBusy)

	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel
	path := w.pending.Path

	w.log.WithFields(logger.Fields{
		"generation": gen,
		"file":       w.pending.Name,
	}).Info("Submitting analysis")

	client := w.client
	return func() tea.Msg {
		result, err := client.Analyze(ctx, path)
		return analysisDoneMsg{generation: gen, result: result, err: err}
	}
}

// HandleResult applies an analysis completion. Stale generations are
// discarded. The trigger is restored on every current completion, success
// or failure, and the pending selection is cleared on the terminal
// transition so a repeat analyze requires a fresh selection.
func (w *AnalyzeWorkflow) HandleResult(msg analysisDoneMsg) {
	if msg.generation != w.generation {
		w.log.WithFields(logger.Fields{
			"generation": msg.generation,
			"current":    w.generation,
		}).Debug("Discarding stale analysis completion")
		return
	}

	w.sinks.SetFlag(SinkAnalyzeEnabled, true)
	w.sinks.SetText(SinkAnalyzeLabel, analyzeLabelReady)
	if w.cancel != nil {
		w.cancel()
		w.cancel = nil
	}
	w.pending = nil

	if msg.err != nil {
		w.state = StateFailed
		w.log.WithError(msg.err).Error("Analysis request failed")
		w.notifier.Notify(SeverityBlocking, "Analysis failed: "+msg.err.Error())
		return
	}

	w.state = StateSucceeded
	w.renderResult(msg.result)
}

// renderResult maps an analysis result onto the result panel sinks and
// reveals the panel.
func (w *AnalyzeWorkflow) renderResult(res *api.AnalysisResult) {
	w.sinks.SetText(SinkPeopleCount, strconv.Itoa(res.PeopleCount))
	w.sinks.SetText(SinkDensityLabel, res.DensityLevel+" Crowd Density")
	w.sinks.SetColor(SinkDensityBg, res.DensityColor)
	if res.DensityLevel == api.DensityLow {
		w.sinks.SetColor(SinkDensityFg, "#000000")
	} else {
		w.sinks.SetColor(SinkDensityFg, "#ffffff")
	}

	w.sinks.SetPercent(SinkOccupancyBar, res.Occupancy)
	w.sinks.SetColor(SinkOccupancyBar, res.DensityColor)
	w.sinks.SetText(SinkOccupancyValue, formatPercent(res.Occupancy))
	w.sinks.SetText(SinkRecommendation, res.Recommendation)

	if res.ResultImage != "" {
		w.sinks.SetText(SinkPreviewSource, "data:image/jpeg;base64,"+res.ResultImage)
		if raw, err := base64.StdEncoding.DecodeString(res.ResultImage); err == nil {
			if thumb, err := renderThumbnailBytes(raw, previewWidth, previewHeight); err == nil {
				w.sinks.SetText(SinkPreviewImage, thumb)
			}
		}
	}

	w.sinks.SetFlag(SinkResultPanel, true)
}

// formatPercent renders an occupancy percentage without trailing zeros.
func formatPercent(v float64) string {
	return fmt.Sprintf("%s%%", strconv.FormatFloat(v, 'f', -1, 64))
}
