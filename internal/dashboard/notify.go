package dashboard

import "github.com/crowdguardian/sentinel/internal/logger"

// Severity classifies user notifications.
type Severity int

const (
	// SeverityBlocking interrupts the operator and requires dismissal.
	SeverityBlocking Severity = iota
	// SeverityPassive is logged without interrupting the operator.
	SeverityPassive
)

// Notifier surfaces messages to the operator. Validation failures and
// analysis errors interrupt; background refresh failures do not.
type Notifier interface {
	Notify(severity Severity, message string)
}

// uiNotifier routes blocking notifications to a modal overlay and passive
// ones to the log. The model reads and clears the pending modal text from
// its update loop.
type uiNotifier struct {
	log   logger.Logger
	modal string
}

func newUINotifier(log logger.Logger) *uiNotifier {
	return &uiNotifier{log: log.WithField("component", "notifier")}
}

func (n *uiNotifier) Notify(severity Severity, message string) {
	switch severity {
	case SeverityBlocking:
		n.modal = message
		n.log.WithField("message", message).Warn("Blocking notification raised")
	default:
		n.log.WithField("message", message).Info("Passive notification")
	}
}

// Modal returns the pending blocking message, or "" when none is active.
func (n *uiNotifier) Modal() string { return n.modal }

// Dismiss clears the pending blocking message.
func (n *uiNotifier) Dismiss() { n.modal = "" }
