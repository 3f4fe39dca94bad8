package dashboard

import "github.com/crowdguardian/sentinel/internal/logger"

// View identifies one of the mutually exclusive dashboard panels.
type View string

const (
	ViewDashboard View = "dashboard"
	ViewCameras   View = "cameras"
	ViewAnalyzer  View = "analyzer"
	ViewAnalytics View = "analytics"
	ViewReports   View = "reports"
	ViewAlerts    View = "alerts"
	ViewSettings  View = "settings"
)

// AllViews lists every panel in navigation order.
var AllViews = []View{
	ViewDashboard,
	ViewCameras,
	ViewAnalyzer,
	ViewAnalytics,
	ViewReports,
	ViewAlerts,
	ViewSettings,
}

// ParseView resolves a view name. Unknown names report false.
func ParseView(name string) (View, bool) {
	for _, v := range AllViews {
		if string(v) == name {
			return v, true
		}
	}
	return "", false
}

// Title returns the display name of a view.
func (v View) Title() string {
	switch v {
	case ViewDashboard:
		return "Dashboard"
	case ViewCameras:
		return "Cameras"
	case ViewAnalyzer:
		return "AI Analyzer"
	case ViewAnalytics:
		return "Analytics"
	case ViewReports:
		return "Reports"
	case ViewAlerts:
		return "Alerts"
	case ViewSettings:
		return "Settings"
	default:
		return string(v)
	}
}

// Router tracks which single view is active. Exactly one view is active at
// any time; stray or unknown navigation targets are ignored.
type Router struct {
	active View
	log    logger.Logger
}

// NewRouter creates a router with the dashboard view active.
func NewRouter(log logger.Logger) *Router {
	return &Router{
		active: ViewDashboard,
		log:    log.WithField("component", "router"),
	}
}

// Active returns the currently active view.
func (r *Router) Active() View {
	return r.active
}

// Navigate switches the active view. Unknown view names are silently
// ignored, a deliberate tolerance for stray or future navigation targets.
// It reports whether the analytics view was just entered, in which case the
// caller schedules an analytics refresh.
func (r *Router) Navigate(name string) (refreshAnalytics bool) {
	view, ok := ParseView(name)
	if !ok {
		r.log.WithField("view", name).Debug("Ignoring unknown navigation target")
		return false
	}

	r.active = view
	return view == ViewAnalytics
}
