// Package qr turns published app URLs into QR code images served by an
// external image service.
package qr

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/mark3labs/appify/internal/logger"
)

// DefaultServiceURL is the public QR image endpoint.
const DefaultServiceURL = "https://api.qrserver.com/v1/create-qr-code/"

// DefaultSize is the edge length of the QR image in pixels.
const DefaultSize = 200

// Service produces QR code images for arbitrary text.
type Service interface {
	// ImageURL returns the address of an image encoding data.
	ImageURL(data string) string
	// Save downloads the image encoding data to path.
	Save(ctx context.Context, data, path string) error
}

var log = logger.Named("qr")

// HTTPService renders QR codes through a qrserver-compatible HTTP endpoint.
type HTTPService struct {
	BaseURL  string
	Size     int
	Client   *http.Client
	MaxTries uint

	// initialInterval overrides the first backoff delay; tests shorten it.
	initialInterval time.Duration
}

// NewHTTPService returns a service for baseURL. Empty or non-positive
// arguments fall back to the defaults.
func NewHTTPService(baseURL string, size int) *HTTPService {
	if baseURL == "" {
		baseURL = DefaultServiceURL
	}
	if size <= 0 {
		size = DefaultSize
	}
	return &HTTPService{
		BaseURL:  baseURL,
		Size:     size,
		Client:   &http.Client{Timeout: 15 * time.Second},
		MaxTries: 3,
	}
}

// ImageURL appends size=NxN&data=<escaped> to the base URL, keeping any query
// the base already carries.
func (s *HTTPService) ImageURL(data string) string {
	params := "size=" + s.sizeParam() + "&data=" + url.QueryEscape(data)
	sep := "?"
	if strings.Contains(s.BaseURL, "?") {
		sep = "&"
	}
	return s.BaseURL + sep + params
}

func (s *HTTPService) sizeParam() string {
	return fmt.Sprintf("%dx%d", s.Size, s.Size)
}

// Save fetches the image with exponential backoff and writes it to path.
// Client errors (4xx) are not retried.
func (s *HTTPService) Save(ctx context.Context, data, path string) error {
	target := s.ImageURL(data)

	expBackoff := backoff.NewExponentialBackOff()
	if s.initialInterval > 0 {
		expBackoff.InitialInterval = s.initialInterval
		expBackoff.MaxInterval = 10 * s.initialInterval
	}
	expBackoff.Reset()

	attempt := 0
	operation := func() ([]byte, error) {
		attempt++
		body, err := s.fetch(ctx, target)
		if err != nil {
			log.Warn("QR fetch failed (attempt %d/%d): %v", attempt, s.MaxTries, err)
			return nil, err
		}
		return body, nil
	}

	tries := s.MaxTries
	if tries == 0 {
		tries = 1
	}
	body, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(expBackoff),
		backoff.WithMaxTries(tries),
		backoff.WithNotify(func(_ error, d time.Duration) {
			log.Debug("retrying QR fetch after %v", d)
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to download QR code: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return fmt.Errorf("failed to write QR code: %w", err)
	}
	log.Info("saved QR code to %s (%d bytes)", path, len(body))
	return nil
}

func (s *HTTPService) fetch(ctx context.Context, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		return nil, backoff.Permanent(fmt.Errorf("qr service returned %s", resp.Status))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("qr service returned %s", resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return body, nil
}

// PublishedURL is where a generated app is reachable: base/<app-id>.
func PublishedURL(base, appID string) string {
	return strings.TrimRight(base, "/") + "/" + url.PathEscape(appID)
}

// DefaultFilename is the suggested file name for a saved QR image.
func DefaultFilename(appID string) string {
	return "app-" + appID + "-qrcode.png"
}
