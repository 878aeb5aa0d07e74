package wizard

import "github.com/mark3labs/appify/internal/generate"

// NextStepMsg is sent by a step when the user asks to move forward.
type NextStepMsg struct{}

// StartGenerationMsg is sent by the generate step to begin a run.
type StartGenerationMsg struct{}

// DownloadMsg is sent by the generate step to download the finished app.
type DownloadMsg struct{}

// SaveQRMsg asks the wizard to save the QR image for the finished app.
type SaveQRMsg struct{}

// QRSavedMsg reports the outcome of a QR save.
type QRSavedMsg struct {
	Path string
	Err  error
}

// tickMsg advances the generation run identified by handle.
type tickMsg struct {
	handle generate.Handle
}
