package preview

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/colorprofile"
	"github.com/mark3labs/appify/internal/appconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	lipgloss.Writer.Profile = colorprofile.Ascii
}

// fakeEmbedder records calls and returns canned content.
type fakeEmbedder struct {
	calls []string
}

func (f *fakeEmbedder) Embed(_ context.Context, url string) Content {
	f.calls = append(f.calls, url)
	return Content{URL: url, Title: "Daily News", Text: "Top stories of the day."}
}

func configWith(url string) appconfig.Configuration {
	c := appconfig.Default()
	c.SetTargetURL(url)
	return c
}

func TestFrameFor(t *testing.T) {
	assert.Equal(t, Frame{240, 500}, FrameFor(appconfig.ScreenSmall))
	assert.Equal(t, Frame{280, 580}, FrameFor(appconfig.ScreenMedium))
	assert.Equal(t, Frame{320, 650}, FrameFor(appconfig.ScreenLarge))
	assert.Equal(t, Frame{280, 580}, FrameFor("tablet"))

	f := FrameFor(appconfig.ScreenMedium)
	assert.Equal(t, 28, f.Cols())
	assert.Equal(t, 29, f.Rows())
}

func TestModel_EmptyURLPrompts(t *testing.T) {
	m := New(&fakeEmbedder{}, time.Second)

	assert.Nil(t, m.SetConfig(configWith("")))
	assert.Nil(t, m.LoadCmd())
	assert.False(t, m.Loaded())
	assert.Contains(t, m.View(), "Enter a website URL")
}

func TestModel_InvalidURLNoLoad(t *testing.T) {
	m := New(&fakeEmbedder{}, time.Second)

	m.SetConfig(configWith("not a url"))
	assert.Nil(t, m.LoadCmd())
	assert.Contains(t, m.View(), "Enter a website URL")
}

func TestModel_LoadLifecycle(t *testing.T) {
	emb := &fakeEmbedder{}
	m := New(emb, time.Second)

	cmd := m.SetConfig(configWith("https://news.example"))
	require.NotNil(t, cmd)
	assert.False(t, m.Loaded())

	view := m.View()
	assert.Contains(t, view, "Loading preview...")
	assert.Contains(t, view, "9:41")

	msg := m.LoadCmd()()
	loaded, ok := msg.(LoadedMsg)
	require.True(t, ok)
	assert.Equal(t, "https://news.example", loaded.URL)
	assert.Equal(t, []string{"https://news.example"}, emb.calls)

	m.Update(loaded)
	assert.True(t, m.Loaded())

	view = m.View()
	assert.NotContains(t, view, "Loading preview...")
	assert.Contains(t, view, "‹ Back")
	assert.Contains(t, view, "My Android App")
	assert.Contains(t, view, "Daily News")
	assert.Contains(t, view, "Home")
	assert.Contains(t, view, "Search")
	assert.Contains(t, view, "Settings")
}

func TestModel_URLChangeResetsLoaded(t *testing.T) {
	m := New(&fakeEmbedder{}, time.Second)
	m.SetConfig(configWith("https://a.example"))
	m.Update(m.LoadCmd()())
	require.True(t, m.Loaded())

	cmd := m.SetConfig(configWith("https://b.example"))
	assert.NotNil(t, cmd)
	assert.False(t, m.Loaded())
}

func TestModel_OtherChangesKeepLoaded(t *testing.T) {
	m := New(&fakeEmbedder{}, time.Second)
	cfg := configWith("https://a.example")
	m.SetConfig(cfg)
	m.Update(m.LoadCmd()())
	require.True(t, m.Loaded())

	cfg.ScreenSize = appconfig.ScreenLarge
	cfg.AppName = "Renamed"
	cfg.PrimaryColor = "#ff0000"
	assert.Nil(t, m.SetConfig(cfg))
	assert.True(t, m.Loaded())
	assert.Equal(t, FrameFor(appconfig.ScreenLarge), m.Frame())
	assert.Contains(t, m.View(), "Renamed")
}

func TestModel_StaleLoadDropped(t *testing.T) {
	m := New(&fakeEmbedder{}, time.Second)
	m.SetConfig(configWith("https://a.example"))
	stale := m.LoadCmd()()

	m.SetConfig(configWith("https://b.example"))
	m.Update(stale)
	assert.False(t, m.Loaded(), "load for the old URL must not mark the new one loaded")
}

func TestModel_LoadWaitsForURLToSettle(t *testing.T) {
	emb := &fakeEmbedder{}
	m := New(emb, time.Second)
	m.SetDebounce(time.Millisecond)

	first := m.SetConfig(configWith("https://n.example"))
	require.NotNil(t, first)
	batch, ok := first().(tea.BatchMsg)
	require.True(t, ok, "debounced load schedules a timer")
	var timers []tea.Msg
	for _, c := range batch {
		if msg, ok := c().(loadTimerMsg); ok {
			timers = append(timers, msg)
		}
	}
	require.Len(t, timers, 1)
	assert.Empty(t, emb.calls, "nothing fetched before the timer fires")

	m.SetConfig(configWith("https://news.example"))
	assert.Nil(t, m.Update(timers[0]), "timer for an outdated URL is dropped")
	assert.Empty(t, emb.calls)

	load := m.Update(loadTimerMsg{url: "https://news.example"})
	require.NotNil(t, load)
	m.Update(load())
	assert.True(t, m.Loaded())
	assert.Equal(t, []string{"https://news.example"}, emb.calls)

	assert.Nil(t, m.Update(loadTimerMsg{url: "https://news.example"}), "no refetch once loaded")
}

func TestModel_FrameSizeMatchesScreenSize(t *testing.T) {
	for _, size := range appconfig.ScreenSizes {
		t.Run(string(size), func(t *testing.T) {
			m := New(nil, time.Second)
			cfg := configWith("https://a.example")
			cfg.ScreenSize = size
			m.SetConfig(cfg)
			m.Update(m.LoadCmd()())

			view := m.View()
			f := FrameFor(size)
			assert.Equal(t, f.Cols(), lipgloss.Width(view))
			assert.Equal(t, f.Rows(), lipgloss.Height(view))
		})
	}
}

func TestModel_IconLabelShownWhileLoading(t *testing.T) {
	m := New(nil, time.Second)
	cfg := configWith("https://a.example")
	cfg.IconRef = "/preset-icons/app-icon-2.png"
	m.SetConfig(cfg)

	assert.Contains(t, m.View(), "preset-2")
}

func TestModel_LongNameTruncated(t *testing.T) {
	m := New(nil, time.Second)
	cfg := configWith("https://a.example")
	cfg.AppName = strings.Repeat("VeryLongName", 5)
	cfg.ScreenSize = appconfig.ScreenSmall
	m.SetConfig(cfg)
	m.Update(m.LoadCmd()())

	assert.Equal(t, FrameFor(appconfig.ScreenSmall).Cols(), lipgloss.Width(m.View()))
	assert.Contains(t, m.View(), "…")
}

func TestHTTPEmbedder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<!doctype html><html><head><title>  News &amp; More </title>
<style>body{color:red}</style><script>alert("x")</script></head>
<body><h1>Headline</h1><p>First   paragraph &lt;ok&gt;</p></body></html>`))
	}))
	defer srv.Close()

	c := NewHTTPEmbedder(time.Second).Embed(context.Background(), srv.URL)

	assert.False(t, c.Failed)
	assert.Equal(t, srv.URL, c.URL)
	assert.Equal(t, "News & More", c.Title)
	assert.Equal(t, "Headline First paragraph <ok>", c.Text)
}

func TestHTTPEmbedder_NoTitleFallsBackToURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<p>hello</p>`))
	}))
	defer srv.Close()

	c := NewHTTPEmbedder(time.Second).Embed(context.Background(), srv.URL)
	assert.Equal(t, srv.URL, c.Title)
	assert.Equal(t, "hello", c.Text)
}

func TestHTTPEmbedder_ErrorStatusBecomesErrorPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c := NewHTTPEmbedder(time.Second).Embed(context.Background(), srv.URL)
	assert.True(t, c.Failed)
	assert.Equal(t, "This site can't be reached", c.Title)
	assert.Contains(t, c.Text, "404")
}

func TestHTTPEmbedder_TimeoutBecomesErrorPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	c := NewHTTPEmbedder(time.Second).Embed(ctx, srv.URL)
	assert.True(t, c.Failed)
}

func TestStaticEmbedder(t *testing.T) {
	c := StaticEmbedder{}.Embed(context.Background(), "https://news.example/path")
	assert.Equal(t, "news.example", c.Title)
	assert.False(t, c.Failed)
}
