package dashboard

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/crowdguardian/sentinel/internal/config"
	"github.com/crowdguardian/sentinel/internal/logger"
	"github.com/crowdguardian/sentinel/pkg/version"
)

// Client is the full API surface the dashboard consumes.
type Client interface {
	AnalyzeClient
	AnalyticsClient
	DownloadReport(ctx context.Context, format string) ([]byte, string, error)
}

type clockTickMsg time.Time

type gaugeTickMsg time.Time

type refreshDueMsg struct{}

type reportSavedMsg struct {
	filename string
	err      error
}

// trendSeed is the fixed series backing the occupancy trend sparkline.
var trendSeed = []float64{0.09, 0.10, 0.08, 0.11, 0.12, 0.10, 0.09, 0.11, 0.10, 0.12, 0.11, 0.09}

// Model is the root dashboard program: a header with live clock, a tab bar
// over the seven views, and the per-view panels beneath.
type Model struct {
	cfg      *config.ClientConfig
	log      logger.Logger
	client   Client
	router   *Router
	sinks    *Registry
	sim      *MetricSimulator
	notifier *uiNotifier
	workflow *AnalyzeWorkflow
	pipeline *AnalyticsPipeline

	trend    []float64
	input    string
	width    int
	height   int
	quitting bool
}

// NewModel assembles the dashboard from its components.
func NewModel(cfg *config.ClientConfig, client Client, log logger.Logger) *Model {
	sinks := DefaultRegistry()
	notifier := newUINotifier(log)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	return &Model{
		cfg:      cfg,
		log:      log.WithField("component", "dashboard"),
		client:   client,
		router:   NewRouter(log),
		sinks:    sinks,
		sim:      NewMetricSimulator(sinks, rng, log),
		notifier: notifier,
		workflow: NewAnalyzeWorkflow(client, sinks, notifier, log),
		pipeline: NewAnalyticsPipeline(client, notifier, log),
		trend:    append([]float64(nil), trendSeed...),
	}
}

// Sinks exposes the render registry, used by tests to observe output cells.
func (m *Model) Sinks() *Registry { return m.sinks }

// Init starts the clock and the metric simulator.
func (m *Model) Init() tea.Cmd {
	m.sinks.SetText(SinkClock, time.Now().Format("15:04:05"))
	m.sim.Tick()
	return tea.Batch(
		tea.Tick(m.cfg.ClockInterval, func(t time.Time) tea.Msg { return clockTickMsg(t) }),
		tea.Tick(m.cfg.GaugeInterval, func(t time.Time) tea.Msg { return gaugeTickMsg(t) }),
	)
}

// Update is the single event loop; all component state changes flow through
// the messages handled here.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case clockTickMsg:
		m.sinks.SetText(SinkClock, time.Time(msg).Format("15:04:05"))
		return m, tea.Tick(m.cfg.ClockInterval, func(t time.Time) tea.Msg { return clockTickMsg(t) })

	case gaugeTickMsg:
		m.sim.Tick()
		return m, tea.Tick(m.cfg.GaugeInterval, func(t time.Time) tea.Msg { return gaugeTickMsg(t) })

	case refreshDueMsg:
		return m, m.pipeline.Refresh()

	case analyticsMsg:
		m.pipeline.HandleSnapshot(msg)
		return m, nil

	case previewReadyMsg:
		m.workflow.HandlePreview(msg)
		return m, nil

	case analysisDoneMsg:
		m.workflow.HandleResult(msg)
		return m, nil

	case reportSavedMsg:
		if msg.err != nil {
			m.sinks.SetText(SinkReportStatus, "Download failed: "+msg.err.Error())
		} else {
			m.sinks.SetText(SinkReportStatus, "Saved "+msg.filename)
		}
		return m, nil
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// A blocking notification owns the keyboard until dismissed.
	if m.notifier.Modal() != "" {
		if msg.String() != "ctrl+c" {
			m.notifier.Dismiss()
			return m, nil
		}
	}

	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "tab":
		return m, m.cycleView(1)
	case "shift+tab":
		return m, m.cycleView(-1)
	}

	if m.router.Active() == ViewAnalyzer {
		return m.handleAnalyzerKey(msg)
	}

	switch msg.String() {
	case "q":
		m.quitting = true
		return m, tea.Quit
	case "1", "2", "3", "4", "5", "6", "7":
		idx, _ := strconv.Atoi(msg.String())
		return m, m.navigate(string(AllViews[idx-1]))
	case "r":
		if m.router.Active() == ViewAnalytics {
			return m, m.pipeline.Refresh()
		}
	case "d":
		if m.router.Active() == ViewReports {
			return m, m.downloadReport("csv")
		}
	case "x":
		if m.router.Active() == ViewReports {
			return m, m.downloadReport("xlsx")
		}
	}

	return m, nil
}

// handleAnalyzerKey routes keys to the file path input. Enter with a typed
// path selects it; enter on an empty input submits the pending selection.
func (m *Model) handleAnalyzerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		if m.input != "" {
			path := m.input
			m.input = ""
			return m, m.workflow.SelectFile(path)
		}
		return m, m.workflow.Analyze()
	case tea.KeyBackspace:
		if len(m.input) > 0 {
			m.input = m.input[:len(m.input)-1]
		}
		return m, nil
	case tea.KeyEsc:
		m.input = ""
		return m, nil
	case tea.KeySpace:
		m.input += " "
		return m, nil
	case tea.KeyRunes:
		m.input += string(msg.Runes)
		return m, nil
	}
	return m, nil
}

// navigate switches views and, on entering analytics, schedules a refresh
// after the configured settle delay.
func (m *Model) navigate(name string) tea.Cmd {
	if m.router.Navigate(name) {
		return tea.Tick(m.cfg.RefreshDelay, func(time.Time) tea.Msg { return refreshDueMsg{} })
	}
	return nil
}

func (m *Model) cycleView(step int) tea.Cmd {
	current := 0
	for i, v := range AllViews {
		if v == m.router.Active() {
			current = i
			break
		}
	}
	next := (current + step + len(AllViews)) % len(AllViews)
	return m.navigate(string(AllViews[next]))
}

// downloadReport fetches a report and writes it beside the binary.
func (m *Model) downloadReport(format string) tea.Cmd {
	m.sinks.SetText(SinkReportStatus, "Downloading "+format+" report...")
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		content, filename, err := client.DownloadReport(ctx, format)
		if err != nil {
			return reportSavedMsg{err: err}
		}
		if err := os.WriteFile(filename, content, 0644); err != nil {
			return reportSavedMsg{err: err}
		}
		return reportSavedMsg{filename: filename}
	}
}

// View renders the header, tab bar, active panel and footer.
func (m *Model) View() string {
	if m.quitting {
		return "Shutting down sentinel dashboard.\n"
	}

	header := headerStyle.Render(fmt.Sprintf("CrowdGuardian Sentinel %s  %s",
		version.Version, m.sinks.Text(SinkClock)))

	tabs := make([]string, 0, len(AllViews))
	for i, v := range AllViews {
		label := fmt.Sprintf("%d %s", i+1, v.Title())
		if v == m.router.Active() {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, tabStyle.Render(label))
		}
	}
	tabBar := lipgloss.JoinHorizontal(lipgloss.Left, tabs...)

	var body string
	switch m.router.Active() {
	case ViewDashboard:
		body = m.viewDashboard()
	case ViewCameras:
		body = m.viewCameras()
	case ViewAnalyzer:
		body = m.viewAnalyzer()
	case ViewAnalytics:
		body = m.viewAnalytics()
	case ViewReports:
		body = m.viewReports()
	case ViewAlerts:
		body = m.viewAlerts()
	case ViewSettings:
		body = m.viewSettings()
	}

	footer := mutedStyle.Render("1-7 views · tab cycle · r refresh · ctrl+c quit")

	screen := lipgloss.JoinVertical(lipgloss.Left, header, tabBar, body, footer)

	if modal := m.notifier.Modal(); modal != "" {
		overlay := modalStyle.Render(modal + "\n\n" + mutedStyle.Render("press any key to dismiss"))
		screen = lipgloss.JoinVertical(lipgloss.Left, screen, overlay)
	}
	return screen
}

func (m *Model) viewDashboard() string {
	density := m.sinks.Text(SinkDensityValue)
	if density == "" {
		density = "-"
	}
	gauge := renderProgressBar(int(m.sinks.Percent(SinkGaugeFill)), 24)

	lines := []string{
		panelTitleStyle.Render("LIVE DENSITY"),
		fmt.Sprintf("Crowd density: %s", valueStyle.Render(density)),
		fmt.Sprintf("Free capacity: %s %.0f%%", gauge, m.sinks.Percent(SinkGaugeFill)),
		"",
		panelTitleStyle.Render("OCCUPANCY TREND"),
		successStyle.Render(renderSparkline(m.trend, 36)),
	}
	return panelStyle.Render(strings.Join(lines, "\n"))
}

func (m *Model) viewCameras() string {
	lines := []string{
		panelTitleStyle.Render("CAMERA FEEDS"),
		"Camera 1  Main Entrance   " + mutedStyle.Render("stream offline"),
		"Camera 2  Food Court      " + mutedStyle.Render("stream offline"),
		"Camera 3  Concert Hall    " + mutedStyle.Render("stream offline"),
		"Camera 4  VIP Lounge      " + mutedStyle.Render("stream offline"),
		"",
		mutedStyle.Render("Use the AI Analyzer to inspect captured frames."),
	}
	return panelStyle.Render(strings.Join(lines, "\n"))
}

func (m *Model) viewAnalyzer() string {
	status := m.sinks.Text(SinkUploadStatus)
	if status == "" {
		status = mutedStyle.Render("no file selected")
	}

	trigger := m.sinks.Text(SinkAnalyzeLabel)
	if m.sinks.Flag(SinkAnalyzeEnabled) {
		trigger = successStyle.Render("[ " + trigger + " ]")
	} else {
		trigger = mutedStyle.Render("[ " + trigger + " ]")
	}

	lines := []string{
		panelTitleStyle.Render("AI CROWD ANALYZER"),
		fmt.Sprintf("File: %s", status),
		fmt.Sprintf("Path: %s▌", m.input),
		fmt.Sprintf("%s  %s", trigger, mutedStyle.Render("enter with path selects · enter again analyzes")),
	}

	if preview := m.sinks.Text(SinkPreviewImage); preview != "" {
		lines = append(lines, "", preview)
	}

	if m.sinks.Flag(SinkResultPanel) {
		label := lipgloss.NewStyle().
			Foreground(lipgloss.Color(m.sinks.Color(SinkDensityFg))).
			Background(lipgloss.Color(m.sinks.Color(SinkDensityBg))).
			Bold(true).
			Padding(0, 1).
			Render(m.sinks.Text(SinkDensityLabel))

		lines = append(lines,
			"",
			panelTitleStyle.Render("ANALYSIS RESULT"),
			fmt.Sprintf("People detected: %s", valueStyle.Render(m.sinks.Text(SinkPeopleCount))),
			label,
			fmt.Sprintf("Occupancy: %s %s",
				renderProgressBar(int(m.sinks.Percent(SinkOccupancyBar)), 20),
				m.sinks.Text(SinkOccupancyValue)),
			fmt.Sprintf("Recommendation: %s", m.sinks.Text(SinkRecommendation)),
		)
	}
	return panelStyle.Render(strings.Join(lines, "\n"))
}

func (m *Model) viewAnalytics() string {
	lines := []string{panelTitleStyle.Render("WEEKLY VISITORS")}

	if chart := m.pipeline.Chart(); chart != nil {
		lines = append(lines, chart.Render(28))
	} else {
		lines = append(lines, mutedStyle.Render("loading analytics..."))
	}

	lines = append(lines, "", panelTitleStyle.Render("ZONES"))
	for _, zone := range m.pipeline.Zones() {
		lines = append(lines, fmt.Sprintf("%-14s %4d  %s",
			zone.Name, zone.Count, zoneToneStyle(zone.Tone).Render(zone.Status)))
	}
	return panelStyle.Render(strings.Join(lines, "\n"))
}

func (m *Model) viewReports() string {
	status := m.sinks.Text(SinkReportStatus)
	if status == "" {
		status = mutedStyle.Render("no report downloaded yet")
	}
	lines := []string{
		panelTitleStyle.Render("REPORTS"),
		"d  download 24h report (csv)",
		"x  download 24h report (xlsx)",
		"",
		status,
	}
	return panelStyle.Render(strings.Join(lines, "\n"))
}

func (m *Model) viewAlerts() string {
	lines := []string{
		panelTitleStyle.Render("ALERTS"),
		"High density detections push a notification to the configured",
		"ntfy topic with a cooldown between alerts.",
		"",
		warningStyle.Render("HIGH") + "      triggers a push alert",
		infoStyle.Render("MODERATE") + "  logged only",
		successStyle.Render("LOW") + "       logged only",
	}
	return panelStyle.Render(strings.Join(lines, "\n"))
}

func (m *Model) viewSettings() string {
	lines := []string{
		panelTitleStyle.Render("SETTINGS"),
		fmt.Sprintf("API endpoint:     %s", valueStyle.Render(m.cfg.BaseURL)),
		fmt.Sprintf("Request timeout:  %s", m.cfg.RequestTimeout),
		fmt.Sprintf("Retry count:      %d", m.cfg.RetryCount),
		fmt.Sprintf("Gauge interval:   %s", m.cfg.GaugeInterval),
		fmt.Sprintf("Refresh delay:    %s", m.cfg.RefreshDelay),
	}
	return panelStyle.Render(strings.Join(lines, "\n"))
}
