package vtoutput

import "io"

// ResponseWriter is where a Handler writes terminal responses destined
// back to the program driving the terminal (DSR replies, OSC query
// answers, and the like).
type ResponseWriter = io.Writer

// BellProvider is notified when the bell character or BEL escape fires.
type BellProvider interface {
	Ring()
}

// TitleProvider tracks window title changes (OSC 0/1/2) and the
// title-stack operations (XTWINOPS 22/23).
type TitleProvider interface {
	SetTitle(title string)
	PushTitle()
	PopTitle()
}

// ClipboardProvider backs OSC 52 clipboard read/write requests.
type ClipboardProvider interface {
	Read(selection byte) string
	Write(selection byte, data []byte)
}

// ScrollbackProvider receives lines scrolled off the top of the screen.
type ScrollbackProvider interface {
	Push(line string)
}

// RecordingProvider is handed every byte the parser consumes, for
// session-recording / asciinema-style capture.
type RecordingProvider interface {
	Record(data []byte)
}

// NoopBell discards bell notifications.
type NoopBell struct{}

func (NoopBell) Ring() {}

// NoopTitle discards all title operations.
type NoopTitle struct{}

func (NoopTitle) SetTitle(string) {}
func (NoopTitle) PushTitle()      {}
func (NoopTitle) PopTitle()       {}

// NoopClipboard always returns empty content and discards writes.
type NoopClipboard struct{}

func (NoopClipboard) Read(byte) string      { return "" }
func (NoopClipboard) Write(byte, []byte)    {}

// NoopScrollback discards scrolled-off lines.
type NoopScrollback struct{}

func (NoopScrollback) Push(string) {}

// NoopRecording discards every byte handed to it.
type NoopRecording struct{}

func (NoopRecording) Record([]byte) {}
