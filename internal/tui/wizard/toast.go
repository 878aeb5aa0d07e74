package wizard

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/mark3labs/appify/internal/session"
	"github.com/mark3labs/appify/internal/tui/theme"
)

// toastLifetime is how long a toast stays on screen.
const toastLifetime = 4 * time.Second

// maxToasts caps the number of visible toasts; older ones are dropped first.
const maxToasts = 3

// toastDismissMsg removes the toast with the given id.
type toastDismissMsg struct {
	id int
}

type toast struct {
	id   int
	note session.Notification
}

// Toasts is a stack of notifications shown in the bottom-right corner. Each
// toast dismisses itself after toastLifetime.
type Toasts struct {
	items  []toast
	nextID int
}

// NewToasts creates an empty toast stack.
func NewToasts() *Toasts {
	return &Toasts{}
}

// Push shows n and returns the command that will dismiss it.
func (t *Toasts) Push(n session.Notification) tea.Cmd {
	t.nextID++
	id := t.nextID
	t.items = append(t.items, toast{id: id, note: n})
	if len(t.items) > maxToasts {
		t.items = t.items[len(t.items)-maxToasts:]
	}
	return tea.Tick(toastLifetime, func(time.Time) tea.Msg {
		return toastDismissMsg{id: id}
	})
}

// Update handles dismissals.
func (t *Toasts) Update(msg tea.Msg) tea.Cmd {
	if m, ok := msg.(toastDismissMsg); ok {
		for i, item := range t.items {
			if item.id == m.id {
				t.items = append(t.items[:i], t.items[i+1:]...)
				break
			}
		}
	}
	return nil
}

// Len returns the number of visible toasts.
func (t *Toasts) Len() int { return len(t.items) }

// Notifications returns the visible notifications, oldest first.
func (t *Toasts) Notifications() []session.Notification {
	out := make([]session.Notification, 0, len(t.items))
	for _, item := range t.items {
		out = append(out, item.note)
	}
	return out
}

// View renders the stack, newest at the bottom. Empty when nothing is shown.
func (t *Toasts) View(maxWidth int) string {
	if len(t.items) == 0 {
		return ""
	}
	width := min(40, maxWidth)
	var boxes []string
	for _, item := range t.items {
		boxes = append(boxes, renderToast(item.note, width))
	}
	return lipgloss.JoinVertical(lipgloss.Right, boxes...)
}

func renderToast(n session.Notification, width int) string {
	th := theme.Current()
	accent := th.Info
	icon := "ℹ"
	switch n.Severity {
	case session.SeveritySuccess:
		accent = th.Success
		icon = "✓"
	case session.SeverityError:
		accent = th.Error
		icon = "✗"
	}

	inner := max(width-4, 10)
	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(accent)).
		Render(icon + " " + ansi.Truncate(n.Title, inner-2, "…"))
	lines := []string{title}
	if n.Description != "" {
		desc := ansi.Wrap(n.Description, inner, "")
		lines = append(lines, lipgloss.NewStyle().Foreground(lipgloss.Color(th.FgBase)).Render(desc))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(accent)).
		Background(lipgloss.Color(th.BgMantle)).
		Padding(0, 1).
		Width(width).
		Render(strings.Join(lines, "\n"))
}
