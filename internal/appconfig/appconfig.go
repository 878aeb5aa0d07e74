// Package appconfig holds the configuration a user accumulates while walking
// through the wizard: the target site, branding, feature flags and advanced
// build settings.
package appconfig

import (
	"fmt"
	"strings"

	"github.com/gosimple/slug"
)

// DefaultDisplayName is shown wherever the app name is rendered and the user
// has not typed one. It is never stored in Configuration.AppName.
const DefaultDisplayName = "My Android App"

// DefaultPrimaryColor is the brand color a fresh configuration starts with.
const DefaultPrimaryColor = "#6366f1"

// ScreenSize selects the preview device frame.
type ScreenSize string

const (
	ScreenSmall  ScreenSize = "small"
	ScreenMedium ScreenSize = "medium"
	ScreenLarge  ScreenSize = "large"
)

// ScreenSizes lists the sizes in cycling order.
var ScreenSizes = []ScreenSize{ScreenSmall, ScreenMedium, ScreenLarge}

// ParseScreenSize maps a config string onto a ScreenSize.
func ParseScreenSize(s string) (ScreenSize, error) {
	switch ScreenSize(strings.ToLower(strings.TrimSpace(s))) {
	case ScreenSmall:
		return ScreenSmall, nil
	case ScreenMedium, "":
		return ScreenMedium, nil
	case ScreenLarge:
		return ScreenLarge, nil
	}
	return ScreenMedium, fmt.Errorf("unknown screen size %q", s)
}

// Next returns the following size, wrapping from large to small.
func (s ScreenSize) Next() ScreenSize {
	for i, size := range ScreenSizes {
		if size == s {
			return ScreenSizes[(i+1)%len(ScreenSizes)]
		}
	}
	return ScreenMedium
}

// CacheStrategy is the offline caching policy baked into the generated app.
type CacheStrategy string

const (
	CacheNetworkFirst         CacheStrategy = "network-first"
	CacheCacheFirst           CacheStrategy = "cache-first"
	CacheStaleWhileRevalidate CacheStrategy = "stale-while-revalidate"
	CacheNetworkOnly          CacheStrategy = "network-only"
)

// CacheStrategies lists the strategies in cycling order.
var CacheStrategies = []CacheStrategy{
	CacheNetworkFirst,
	CacheCacheFirst,
	CacheStaleWhileRevalidate,
	CacheNetworkOnly,
}

// Next returns the following strategy, wrapping around.
func (c CacheStrategy) Next() CacheStrategy {
	for i, s := range CacheStrategies {
		if s == c {
			return CacheStrategies[(i+1)%len(CacheStrategies)]
		}
	}
	return CacheNetworkFirst
}

// FeatureFlags are the user-facing toggles of the customization step.
type FeatureFlags struct {
	FullScreen        bool `yaml:"full_screen"`
	OfflineSupport    bool `yaml:"offline_support"`
	SplashScreen      bool `yaml:"splash_screen"`
	PushNotifications bool `yaml:"push_notifications"`
	Landscape         bool `yaml:"landscape"`
	ShowStatusBar     bool `yaml:"show_status_bar"`
}

// AdvancedSettings only apply in enterprise mode.
type AdvancedSettings struct {
	MinifyCode       bool          `yaml:"minify_code"`
	OptimizeImages   bool          `yaml:"optimize_images"`
	AddAnalytics     bool          `yaml:"add_analytics"`
	DeepLinks        bool          `yaml:"deep_links"`
	ObfuscateCode    bool          `yaml:"obfuscate_code"`
	AutoUpdate       bool          `yaml:"auto_update"`
	SplashDurationMs int           `yaml:"splash_duration_ms"`
	CacheStrategy    CacheStrategy `yaml:"cache_strategy"`
}

// Configuration is the wizard's accumulated app description. It is owned by a
// single wizard session and mutated in place.
type Configuration struct {
	TargetURL    string           `yaml:"target_url"`
	URLValid     bool             `yaml:"-"`
	AppName      string           `yaml:"app_name"`
	PrimaryColor string           `yaml:"primary_color"`
	IconRef      string           `yaml:"icon_ref,omitempty"`
	Features     FeatureFlags     `yaml:"features"`
	Advanced     AdvancedSettings `yaml:"advanced"`
	ScreenSize   ScreenSize       `yaml:"screen_size"`
	Enterprise   bool             `yaml:"enterprise"`
}

// Default returns a configuration with every documented default applied.
func Default() Configuration {
	return Configuration{
		PrimaryColor: DefaultPrimaryColor,
		Features: FeatureFlags{
			FullScreen:    true,
			SplashScreen:  true,
			ShowStatusBar: true,
		},
		Advanced: AdvancedSettings{
			MinifyCode:       true,
			OptimizeImages:   true,
			DeepLinks:        true,
			AutoUpdate:       true,
			SplashDurationMs: 2000,
			CacheStrategy:    CacheNetworkFirst,
		},
		ScreenSize: ScreenMedium,
		Enterprise: true,
	}
}

// New returns a default configuration whose preview starts at the given size.
func New(size ScreenSize) *Configuration {
	c := Default()
	c.ScreenSize = size
	return &c
}

// SetTargetURL stores raw input and recomputes URLValid.
func (c *Configuration) SetTargetURL(raw string) {
	c.TargetURL = raw
	c.URLValid = ValidateURL(raw)
}

// DisplayName is the app name as rendered, falling back to the default.
func (c *Configuration) DisplayName() string {
	if name := strings.TrimSpace(c.AppName); name != "" {
		return name
	}
	return DefaultDisplayName
}

// HasIcon reports whether a custom icon reference is set.
func (c *Configuration) HasIcon() bool {
	return c.IconRef != ""
}

// SetPrimaryColor accepts #rgb or #rrggbb and stores the long lowercase form.
func (c *Configuration) SetPrimaryColor(raw string) error {
	hex, err := NormalizeHexColor(raw)
	if err != nil {
		return err
	}
	c.PrimaryColor = hex
	return nil
}

// PackageID derives an Android application id such as com.appify.newsapp.
func (c *Configuration) PackageID(prefix string) string {
	name := slug.Make(c.DisplayName())
	name = strings.ReplaceAll(name, "-", "")
	if name == "" || (name[0] >= '0' && name[0] <= '9') {
		name = "app" + name
	}
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}

// NormalizeHexColor validates a CSS hex color.
func NormalizeHexColor(raw string) (string, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.TrimPrefix(s, "#")
	switch len(s) {
	case 3:
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	case 6:
	default:
		return "", fmt.Errorf("invalid color %q: want #rgb or #rrggbb", raw)
	}
	for _, r := range s {
		if !strings.ContainsRune("0123456789abcdef", r) {
			return "", fmt.Errorf("invalid color %q: non-hex digit %q", raw, r)
		}
	}
	return "#" + s, nil
}
