// Package published describes an app after generation: where it lives and
// how to reach it from a phone.
package published

import (
	"fmt"
	"strings"

	"charm.land/glamour/v2"
	"github.com/mark3labs/appify/internal/qr"
)

// DefaultName is shown for apps whose name is unknown.
const DefaultName = "Android App"

// Description is the blurb shown on every published app page.
const Description = "Your Android app is ready to test. Scan the QR code to try it on your mobile device."

// App is the public view of a generated app.
type App struct {
	ID          string
	Name        string
	URL         string
	Description string
	QRImageURL  string
}

// Lookup builds the published record for id. There is no backend, so every
// well-formed id resolves.
func Lookup(id, baseURL string, svc qr.Service) (App, error) {
	id = strings.TrimSpace(id)
	if id == "" || strings.ContainsAny(id, "/?# ") {
		return App{}, fmt.Errorf("invalid app id %q", id)
	}
	u := qr.PublishedURL(baseURL, id)
	return App{
		ID:          id,
		Name:        DefaultName,
		URL:         u,
		Description: Description,
		QRImageURL:  svc.ImageURL(u),
	}, nil
}

// Markdown renders the app page as markdown.
func (a App) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", a.Name)
	fmt.Fprintf(&b, "%s\n\n", a.Description)
	fmt.Fprintf(&b, "| | |\n|---|---|\n")
	fmt.Fprintf(&b, "| App ID | `%s` |\n", a.ID)
	fmt.Fprintf(&b, "| Open App | %s |\n", a.URL)
	fmt.Fprintf(&b, "| QR Code | %s |\n\n", a.QRImageURL)
	b.WriteString("Scan this QR code with your mobile device to open the app.\n")
	return b.String()
}

// Render renders the app page for a terminal of the given width, falling back
// to raw markdown if glamour fails.
func (a App) Render(width int) string {
	md := a.Markdown()
	if width <= 0 || width > 120 {
		width = 120
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimSuffix(out, "\n")
}
