package session

import (
	"sync"

	"github.com/mark3labs/appify/internal/logger"
)

// Severity controls how a notification is styled.
type Severity int

const (
	SeverityInfo Severity = iota
	SeveritySuccess
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeveritySuccess:
		return "success"
	case SeverityError:
		return "error"
	default:
		return "info"
	}
}

// Notification is a transient, user-visible message.
type Notification struct {
	Title       string
	Description string
	Severity    Severity
}

// Notifier receives notifications. Delivery is fire-and-forget.
type Notifier interface {
	Notify(n Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notification)

func (f NotifierFunc) Notify(n Notification) { f(n) }

// Queue buffers notifications until the UI drains them.
type Queue struct {
	mu    sync.Mutex
	items []Notification
}

func (q *Queue) Notify(n Notification) {
	q.mu.Lock()
	q.items = append(q.items, n)
	q.mu.Unlock()
}

// Drain returns and clears the buffered notifications, oldest first.
func (q *Queue) Drain() []Notification {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.items
	q.items = nil
	return out
}

// Len returns the number of buffered notifications.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// LogNotifier writes notifications to the debug log. Used when no UI is attached.
var LogNotifier Notifier = NotifierFunc(func(n Notification) {
	logger.Info("notification [%s] %s: %s", n.Severity, n.Title, n.Description)
})

// Fixed notification texts.
var (
	notifyInvalidURL = Notification{
		Title:       "Invalid URL",
		Description: "Please enter a valid website URL",
		Severity:    SeverityError,
	}
	notifyGenerated = Notification{
		Title:       "Success!",
		Description: "Your Android app has been generated.",
		Severity:    SeveritySuccess,
	}
	notifyReset = Notification{
		Title:       "Wizard Reset",
		Description: "All settings were restored to their defaults.",
		Severity:    SeverityInfo,
	}
	notifyDownload = Notification{
		Title:       "Download Started",
		Description: "Your Android app is being downloaded.",
		Severity:    SeverityInfo,
	}
	notifyQRSaved = Notification{
		Title:       "QR Code Downloaded",
		Description: "The QR code has been downloaded successfully.",
		Severity:    SeveritySuccess,
	}
	notifyQRFailed = Notification{
		Title:       "Download Failed",
		Description: "There was an error downloading the QR code.",
		Severity:    SeverityError,
	}
)
