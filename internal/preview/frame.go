package preview

import "github.com/mark3labs/appify/internal/appconfig"

// Frame is a device frame size in CSS pixels.
type Frame struct {
	WidthPx  int
	HeightPx int
}

var frames = map[appconfig.ScreenSize]Frame{
	appconfig.ScreenSmall:  {WidthPx: 240, HeightPx: 500},
	appconfig.ScreenMedium: {WidthPx: 280, HeightPx: 580},
	appconfig.ScreenLarge:  {WidthPx: 320, HeightPx: 650},
}

// FrameFor returns the preset for size; unknown sizes get the medium frame.
func FrameFor(size appconfig.ScreenSize) Frame {
	if f, ok := frames[size]; ok {
		return f
	}
	return frames[appconfig.ScreenMedium]
}

// Cols is the frame width in terminal cells, border included.
func (f Frame) Cols() int { return f.WidthPx / 10 }

// Rows is the frame height in terminal cells, border included. Cells are
// roughly twice as tall as they are wide.
func (f Frame) Rows() int { return f.HeightPx / 20 }
