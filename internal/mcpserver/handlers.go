package mcpserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/appify/internal/appconfig"
	"github.com/mark3labs/appify/internal/generate"
	"github.com/mark3labs/appify/internal/icon"
	"github.com/mark3labs/appify/internal/preview"
	"github.com/mark3labs/appify/internal/published"
	"github.com/mark3labs/appify/internal/qr"
	"github.com/mark3labs/appify/internal/session"
	"github.com/mark3labs/mcp-go/mcp"
)

// maxPreviewText bounds the page text returned by preview_app.
const maxPreviewText = 500

// featureNames maps tool feature names onto flags.
var featureNames = map[string]func(*appconfig.FeatureFlags) *bool{
	"full_screen":        func(f *appconfig.FeatureFlags) *bool { return &f.FullScreen },
	"offline_support":    func(f *appconfig.FeatureFlags) *bool { return &f.OfflineSupport },
	"splash_screen":      func(f *appconfig.FeatureFlags) *bool { return &f.SplashScreen },
	"push_notifications": func(f *appconfig.FeatureFlags) *bool { return &f.PushNotifications },
	"landscape":          func(f *appconfig.FeatureFlags) *bool { return &f.Landscape },
	"show_status_bar":    func(f *appconfig.FeatureFlags) *bool { return &f.ShowStatusBar },
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(
		mcp.NewTool("validate_url",
			mcp.WithDescription("Check whether a website URL can be turned into an app"),
			mcp.WithString("url", mcp.Required(), mcp.Description("Absolute http(s) URL")),
		),
		s.handleValidateURL,
	)

	appArgs := []mcp.ToolOption{
		mcp.WithString("url", mcp.Required(), mcp.Description("Website to wrap")),
		mcp.WithString("name", mcp.Description("App name (default: My Android App)")),
		mcp.WithString("color", mcp.Description("Primary color as #rgb or #rrggbb")),
		mcp.WithString("icon", mcp.Description("Icon URL or preset-1..preset-6")),
		mcp.WithString("screen_size", mcp.Description("Preview size: small, medium or large")),
		mcp.WithArray("features",
			mcp.Description("Enabled features; replaces the defaults when given"),
			mcp.Items(map[string]any{
				"type": "string",
				"enum": []string{"full_screen", "offline_support", "splash_screen", "push_notifications", "landscape", "show_status_bar"},
			})),
	}

	s.mcpServer.AddTool(
		mcp.NewTool("preview_app",
			append([]mcp.ToolOption{mcp.WithDescription("Load a website the way the device preview does and describe the frame")}, appArgs...)...,
		),
		s.handlePreviewApp,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("simulate_build",
			append([]mcp.ToolOption{mcp.WithDescription("Run a simulated Android build and return the app id and QR handoff")}, appArgs...)...,
		),
		s.handleSimulateBuild,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("qr_url",
			mcp.WithDescription("Return the published URL and QR image URL of a generated app"),
			mcp.WithString("app_id", mcp.Required(), mcp.Description("App id returned by simulate_build")),
		),
		s.handleQRURL,
	)
}

// configFromArgs builds a configuration from tool arguments.
func (s *Server) configFromArgs(args map[string]any) (*appconfig.Configuration, error) {
	sizeArg, _ := args["screen_size"].(string)
	if sizeArg == "" {
		sizeArg = s.cfg.ScreenSize
	}
	size, err := appconfig.ParseScreenSize(sizeArg)
	if err != nil {
		return nil, err
	}
	cfg := appconfig.New(size)

	u, _ := args["url"].(string)
	cfg.SetTargetURL(strings.TrimSpace(u))

	if name, ok := args["name"].(string); ok {
		cfg.AppName = strings.TrimSpace(name)
	}
	if color, ok := args["color"].(string); ok && color != "" {
		if err := cfg.SetPrimaryColor(color); err != nil {
			return nil, err
		}
	}
	if in, ok := args["icon"].(string); ok && in != "" {
		ref, err := icon.ResolveRemote(in)
		if err != nil {
			return nil, err
		}
		cfg.IconRef = ref
	}

	if raw, ok := args["features"]; ok {
		list, ok := raw.([]any)
		if !ok {
			return nil, fmt.Errorf("'features' is not an array")
		}
		cfg.Features = appconfig.FeatureFlags{}
		for i, item := range list {
			name, _ := item.(string)
			flag, ok := featureNames[name]
			if !ok {
				return nil, fmt.Errorf("feature %d: unknown feature %q", i, item)
			}
			*flag(&cfg.Features) = true
		}
	}
	return cfg, nil
}

// handleValidateURL reports whether a URL passes the wizard's first step.
func (s *Server) handleValidateURL(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	u, _ := args["url"].(string)
	if u == "" {
		return mcp.NewToolResultError("missing 'url' parameter"), nil
	}
	if appconfig.ValidateURL(u) {
		return mcp.NewToolResultText("valid: " + u), nil
	}
	return mcp.NewToolResultText("invalid: " + u + " (Please enter a valid website URL)"), nil
}

// handlePreviewApp embeds the page and describes the device frame.
func (s *Server) handlePreviewApp(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := s.configFromArgs(request.GetArguments())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !cfg.URLValid {
		return mcp.NewToolResultError(preview.PromptText), nil
	}

	embedCtx, cancel := context.WithTimeout(ctx, s.cfg.PreviewTimeout)
	defer cancel()
	content := s.embedder.Embed(embedCtx, cfg.TargetURL)

	frame := preview.FrameFor(cfg.ScreenSize)
	var b strings.Builder
	fmt.Fprintf(&b, "App: %s\n", cfg.DisplayName())
	fmt.Fprintf(&b, "Color: %s\n", cfg.PrimaryColor)
	fmt.Fprintf(&b, "Icon: %s\n", icon.Label(cfg.IconRef))
	fmt.Fprintf(&b, "Frame: %s (%dx%d)\n", cfg.ScreenSize, frame.WidthPx, frame.HeightPx)
	fmt.Fprintf(&b, "URL: %s\n", content.URL)
	fmt.Fprintf(&b, "Title: %s\n", content.Title)
	if content.Failed {
		b.WriteString("Status: unreachable\n")
	}
	text := []rune(content.Text)
	if len(text) > maxPreviewText {
		text = append(text[:maxPreviewText], '…')
	}
	fmt.Fprintf(&b, "\n%s", string(text))
	return mcp.NewToolResultText(b.String()), nil
}

// handleSimulateBuild walks a fresh session to completion.
func (s *Server) handleSimulateBuild(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := s.configFromArgs(request.GetArguments())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	sess := session.New(*cfg, generate.NewSimulator(s.newSource()), session.LogNotifier)
	id, err := sess.Run(ctx, s.cfg.TickInterval, nil)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("build failed: %v", err)), nil
	}

	appURL := qr.PublishedURL(s.cfg.AppBaseURL, id)
	manifest, err := sess.Config().Manifest()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString("Your Android app has been generated.\n\n")
	fmt.Fprintf(&b, "App ID: %s\n", id)
	fmt.Fprintf(&b, "Name: %s\n", sess.Config().DisplayName())
	fmt.Fprintf(&b, "Package: %s\n", sess.Config().PackageID(s.cfg.PackagePrefix))
	fmt.Fprintf(&b, "App URL: %s\n", appURL)
	fmt.Fprintf(&b, "QR Code: %s\n\n", s.qr.ImageURL(appURL))
	b.WriteString(manifest)
	return mcp.NewToolResultText(b.String()), nil
}

// handleQRURL returns the handoff URLs for a generated app.
func (s *Server) handleQRURL(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, _ := request.GetArguments()["app_id"].(string)
	app, err := published.Lookup(id, s.cfg.AppBaseURL, s.qr)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("App URL: %s\nQR Code: %s", app.URL, app.QRImageURL)), nil
}
