package published

import (
	"testing"

	"github.com/mark3labs/appify/internal/qr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	app, err := Lookup("cv1abc", "https://appify-demo.com/app", qr.NewHTTPService("", 0))
	require.NoError(t, err)

	assert.Equal(t, "cv1abc", app.ID)
	assert.Equal(t, "Android App", app.Name)
	assert.Equal(t, "https://appify-demo.com/app/cv1abc", app.URL)
	assert.Equal(t, Description, app.Description)
	assert.Contains(t, app.QRImageURL, "api.qrserver.com")
	assert.Contains(t, app.QRImageURL, "cv1abc")
}

func TestLookup_InvalidID(t *testing.T) {
	svc := qr.NewHTTPService("", 0)
	for _, id := range []string{"", "  ", "a/b", "x?y", "has space"} {
		_, err := Lookup(id, "https://appify-demo.com/app", svc)
		assert.Error(t, err, "id %q", id)
	}
}

func TestMarkdownAndRender(t *testing.T) {
	app, err := Lookup("cv1abc", "https://appify-demo.com/app", qr.NewHTTPService("", 0))
	require.NoError(t, err)

	md := app.Markdown()
	assert.Contains(t, md, "# Android App")
	assert.Contains(t, md, "`cv1abc`")

	out := app.Render(80)
	assert.Contains(t, out, "Android App")
	assert.Contains(t, out, "cv1abc")
}
