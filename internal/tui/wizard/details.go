package wizard

import (
	"bytes"
	"fmt"
	"strings"

	"charm.land/glamour/v2"
	chroma "github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/mark3labs/appify/internal/appconfig"
	"github.com/mark3labs/appify/internal/icon"
	"github.com/mark3labs/appify/internal/tui/theme"
)

// enabled formats a flag the way the details tab shows it.
func enabled(b bool) string {
	if b {
		return "Enabled"
	}
	return "Disabled"
}

// detailsMarkdown summarizes the configuration for the details tab.
func detailsMarkdown(cfg *appconfig.Configuration, packagePrefix string) string {
	var b strings.Builder
	b.WriteString("## App Details\n\n")
	b.WriteString("| | |\n|---|---|\n")
	fmt.Fprintf(&b, "| App Name | %s |\n", cfg.DisplayName())
	fmt.Fprintf(&b, "| Package | `%s` |\n", cfg.PackageID(packagePrefix))
	fmt.Fprintf(&b, "| Website URL | %s |\n", cfg.TargetURL)
	fmt.Fprintf(&b, "| Primary Color | `%s` |\n", cfg.PrimaryColor)
	fmt.Fprintf(&b, "| Icon | %s |\n\n", icon.Label(cfg.IconRef))

	b.WriteString("## Features\n\n")
	b.WriteString("| | |\n|---|---|\n")
	fmt.Fprintf(&b, "| Full Screen | %s |\n", enabled(cfg.Features.FullScreen))
	fmt.Fprintf(&b, "| Offline Support | %s |\n", enabled(cfg.Features.OfflineSupport))
	fmt.Fprintf(&b, "| Splash Screen | %s |\n", enabled(cfg.Features.SplashScreen))
	fmt.Fprintf(&b, "| Push Notifications | %s |\n", enabled(cfg.Features.PushNotifications))
	fmt.Fprintf(&b, "| Landscape | %s |\n", enabled(cfg.Features.Landscape))
	fmt.Fprintf(&b, "| Status Bar | %s |\n", enabled(cfg.Features.ShowStatusBar))

	if cfg.Enterprise {
		b.WriteString("\n## Advanced\n\n")
		b.WriteString("| | |\n|---|---|\n")
		fmt.Fprintf(&b, "| Minify Code | %s |\n", enabled(cfg.Advanced.MinifyCode))
		fmt.Fprintf(&b, "| Optimize Images | %s |\n", enabled(cfg.Advanced.OptimizeImages))
		fmt.Fprintf(&b, "| Analytics | %s |\n", enabled(cfg.Advanced.AddAnalytics))
		fmt.Fprintf(&b, "| Deep Links | %s |\n", enabled(cfg.Advanced.DeepLinks))
		fmt.Fprintf(&b, "| Obfuscate Code | %s |\n", enabled(cfg.Advanced.ObfuscateCode))
		fmt.Fprintf(&b, "| Auto Update | %s |\n", enabled(cfg.Advanced.AutoUpdate))
		fmt.Fprintf(&b, "| Splash Duration | %d ms |\n", cfg.Advanced.SplashDurationMs)
		fmt.Fprintf(&b, "| Cache Strategy | %s |\n", cfg.Advanced.CacheStrategy)
	}
	return b.String()
}

// renderMarkdown renders md with glamour, falling back to the raw text.
func renderMarkdown(md string, width int) string {
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
	return strings.Trim(out, "\n")
}

// highlightYAML colors a YAML document for the terminal. Token backgrounds
// are replaced with the theme surface so the block blends in.
func highlightYAML(source string) string {
	lexer := lexers.Get("yaml")
	if lexer == nil {
		lexer = lexers.Fallback
	}

	formatter := formatters.Get("terminal16m")
	if formatter == nil {
		formatter = formatters.Get("terminal256")
	}
	if formatter == nil {
		return source
	}

	baseStyle := styles.Get("catppuccin-mocha")
	if baseStyle == nil {
		baseStyle = styles.Fallback
	}
	bg := chroma.MustParseColour(theme.Current().BgMantle)
	style, err := baseStyle.Builder().Transform(func(entry chroma.StyleEntry) chroma.StyleEntry {
		entry.Background = bg
		return entry
	}).Build()
	if err != nil {
		style = baseStyle
	}

	iterator, err := lexer.Tokenise(nil, source)
	if err != nil {
		return source
	}
	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return source
	}
	return strings.TrimRight(buf.String(), "\n")
}

// renderDetails renders the summary followed by the highlighted manifest.
func renderDetails(cfg *appconfig.Configuration, packagePrefix string, width int) string {
	out := renderMarkdown(detailsMarkdown(cfg, packagePrefix), width)
	manifest, err := cfg.Manifest()
	if err != nil {
		log.Warn("rendering manifest: %v", err)
		return out
	}
	return out + "\n\n" + styleSectionLabel.Render("  Manifest") + "\n" + highlightYAML(manifest)
}
