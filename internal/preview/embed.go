package preview

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	xhtml "golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Content is what the device frame shows once a page has loaded.
type Content struct {
	URL    string
	Title  string
	Text   string
	Failed bool // Text is an error page rather than the site
}

// Embedder loads a page for display inside the device frame. Implementations
// always return Content; failures become an error page instead of an error.
type Embedder interface {
	Embed(ctx context.Context, url string) Content
}

// StaticEmbedder never touches the network. It is used in offline mode.
type StaticEmbedder struct{}

func (StaticEmbedder) Embed(_ context.Context, target string) Content {
	title := target
	if u, err := url.Parse(target); err == nil && u.Host != "" {
		title = u.Host
	}
	return Content{URL: target, Title: title, Text: "Live content is disabled in offline mode."}
}

// DefaultMaxBytes caps how much of a page is read.
const DefaultMaxBytes = 512 << 10

// HTTPEmbedder fetches pages over HTTP and reduces them to plain text.
type HTTPEmbedder struct {
	Client   *http.Client
	MaxBytes int64

	policy *bluemonday.Policy
}

// NewHTTPEmbedder returns an embedder whose requests give up after timeout.
func NewHTTPEmbedder(timeout time.Duration) *HTTPEmbedder {
	return &HTTPEmbedder{
		Client:   &http.Client{Timeout: timeout},
		MaxBytes: DefaultMaxBytes,
		policy:   textPolicy(),
	}
}

func (e *HTTPEmbedder) Embed(ctx context.Context, target string) Content {
	body, err := e.fetch(ctx, target)
	if err != nil {
		log.Warn("preview load failed for %s: %v", target, err)
		return errorPage(target, err)
	}

	title := extractTitle(body)
	if title == "" {
		title = target
	}
	return Content{
		URL:   target,
		Title: title,
		Text:  e.plainText(body),
	}
}

func (e *HTTPEmbedder) fetch(ctx context.Context, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "appify-preview/1.0 (Android; Mobile)")

	client := e.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("server returned %s", resp.Status)
	}

	limit := e.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxBytes
	}
	return io.ReadAll(io.LimitReader(resp.Body, limit))
}

func (e *HTTPEmbedder) plainText(body []byte) string {
	policy := e.policy
	if policy == nil {
		policy = textPolicy()
	}
	// Only the document body is shown.
	if i := bytes.Index(bytes.ToLower(body), []byte("</head>")); i >= 0 {
		body = body[i+len("</head>"):]
	}
	text := html.UnescapeString(string(policy.SanitizeBytes(body)))
	return strings.Join(strings.Fields(text), " ")
}

// textPolicy drops every tag, keeping word boundaries between block elements.
func textPolicy() *bluemonday.Policy {
	p := bluemonday.StrictPolicy()
	p.AddSpaceWhenStrippingTag(true)
	return p
}

// extractTitle returns the first <title> text in the document.
func extractTitle(body []byte) string {
	z := xhtml.NewTokenizer(bytes.NewReader(body))
	inTitle := false
	for {
		switch z.Next() {
		case xhtml.ErrorToken:
			return ""
		case xhtml.StartTagToken:
			name, _ := z.TagName()
			inTitle = atom.Lookup(name) == atom.Title
		case xhtml.TextToken:
			if inTitle {
				return strings.Join(strings.Fields(string(z.Text())), " ")
			}
		case xhtml.EndTagToken:
			inTitle = false
		}
	}
}

func errorPage(target string, err error) Content {
	return Content{
		URL:    target,
		Title:  "This site can't be reached",
		Text:   err.Error(),
		Failed: true,
	}
}
