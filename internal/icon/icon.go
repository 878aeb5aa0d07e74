// Package icon resolves user input into an app icon reference: a remote URL,
// a bundled preset or an uploaded image encoded as a data URL.
package icon

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
)

// MaxUploadSize bounds uploaded icon files.
const MaxUploadSize = 1 << 20

var (
	// ErrTooLarge is returned for uploads over MaxUploadSize.
	ErrTooLarge = errors.New("icon file exceeds 1 MiB")
	// ErrNotImage is returned when an upload is not an image.
	ErrNotImage = errors.New("icon file is not an image")
	// ErrNotRemote is returned by ResolveRemote for anything but a URL or preset.
	ErrNotRemote = errors.New("icon must be an http(s) URL or a preset name")
)

// Preset is a bundled icon.
type Preset struct {
	Name string
	Ref  string
}

// Presets are the bundled icons in picker order.
var Presets = []Preset{
	{Name: "preset-1", Ref: "/preset-icons/app-icon-1.png"},
	{Name: "preset-2", Ref: "/preset-icons/app-icon-2.png"},
	{Name: "preset-3", Ref: "/preset-icons/app-icon-3.png"},
	{Name: "preset-4", Ref: "/preset-icons/app-icon-4.png"},
	{Name: "preset-5", Ref: "/preset-icons/app-icon-5.png"},
	{Name: "preset-6", Ref: "/preset-icons/app-icon-6.png"},
}

// Resolve turns picker input into an icon reference:
//   - "" clears the icon
//   - http(s) URLs are used as is
//   - preset names (or preset refs) map to the preset ref
//   - anything else is read as a local file and inlined as a data URL
func Resolve(input string) (string, error) {
	ref, err := ResolveRemote(input)
	if errors.Is(err, ErrNotRemote) {
		return fromFile(strings.TrimSpace(input))
	}
	return ref, err
}

// ResolveRemote is Resolve without the local file case. It never touches the
// filesystem.
func ResolveRemote(input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", nil
	}
	if isRemote(input) {
		return input, nil
	}
	for _, p := range Presets {
		if strings.EqualFold(input, p.Name) || input == p.Ref {
			return p.Ref, nil
		}
	}
	return "", ErrNotRemote
}

func isRemote(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func fromFile(p string) (string, error) {
	f, err := os.Open(p)
	if err != nil {
		return "", fmt.Errorf("failed to open icon: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxUploadSize+1))
	if err != nil {
		return "", fmt.Errorf("failed to read icon: %w", err)
	}
	if len(data) > MaxUploadSize {
		return "", ErrTooLarge
	}

	mime := http.DetectContentType(data)
	if !strings.HasPrefix(mime, "image/") {
		return "", fmt.Errorf("%w: detected %s", ErrNotImage, mime)
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// Label is a short human-readable description of a reference.
func Label(ref string) string {
	switch {
	case ref == "":
		return "default"
	case strings.HasPrefix(ref, "data:"):
		mime, _, _ := strings.Cut(strings.TrimPrefix(ref, "data:"), ";")
		return "uploaded " + mime
	}
	for _, p := range Presets {
		if ref == p.Ref {
			return p.Name
		}
	}
	if u, err := url.Parse(ref); err == nil && u.Host != "" {
		return u.Host + "/…/" + path.Base(u.Path)
	}
	return ref
}
