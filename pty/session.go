package pty

import (
	"bytes"
	"errors"
	"os"
	"os/exec"
	"time"

	creackpty "github.com/creack/pty"
)

// ErrAtMostOneDevice documents the at-most-one-device rule pattern used
// by hostinput; pty.Session itself has no such restriction (many
// sessions may coexist), but the sentinel lives here so callers that
// wire pty and hostinput together share one error family.
var ErrAtMostOneDevice = errors.New("pty: at most one InputDevice may exist; use Subscribe instead")

// Size is a terminal size in character cells.
type Size struct {
	Rows, Cols int
}

// Option configures a Session at Spawn time, matching this codebase's
// functional-options convention.
type Option func(*spawnConfig)

type spawnConfig struct {
	dir string
	env []string
}

// WithDir sets the child process's working directory.
func WithDir(dir string) Option { return func(c *spawnConfig) { c.dir = dir } }

// WithEnv sets the child process's environment, overriding the inherited
// one entirely.
func WithEnv(env []string) Option { return func(c *spawnConfig) { c.env = env } }

// Session is a spawned child process attached to a PTY, with goroutines
// bridging its blocking master file descriptor to channel-based
// consumers.
type Session struct {
	cmd  *exec.Cmd
	ptmx *os.File

	Output <-chan OutputEvent
	input  chan InputEvent

	done chan struct{}
}

// Spawn starts command under a new PTY pair sized to size and launches
// the four concurrent actors described in this package's doc comment:
// an orchestrator goroutine that awaits the child's exit, a blocking
// reader goroutine, a blocking writer goroutine, and an async-to-sync
// bridge goroutine.
func Spawn(name string, args []string, size Size, opts ...Option) (*Session, error) {
	cfg := spawnConfig{}
	for _, o := range opts {
		o(&cfg)
	}

	cmd := exec.Command(name, args...)
	if cfg.dir != "" {
		cmd.Dir = cfg.dir
	}
	if cfg.env != nil {
		cmd.Env = cfg.env
	}

	ptmx, err := creackpty.StartWithSize(cmd, &creackpty.Winsize{
		Rows: uint16(size.Rows),
		Cols: uint16(size.Cols),
	})
	if err != nil {
		return nil, err
	}

	outputCh := make(chan OutputEvent, 64)
	inputCh := make(chan InputEvent, 16)
	bridgeCh := make(chan InputEvent)
	done := make(chan struct{})

	s := &Session{
		cmd:    cmd,
		ptmx:   ptmx,
		Output: outputCh,
		input:  inputCh,
		done:   done,
	}

	readerDone := make(chan struct{})
	writerDone := make(chan struct{})

	go readerLoop(ptmx, outputCh, readerDone)
	go writerLoop(ptmx, bridgeCh, outputCh, writerDone)
	go bridgeLoop(inputCh, bridgeCh)
	go orchestrate(cmd, outputCh, readerDone, writerDone, done)

	return s, nil
}

// orchestrate awaits the child's exit, sends the final Exit event, then
// waits for the reader and writer goroutines to finish before closing
// the output channel, matching the termination protocol: child exit ->
// reader sees EOF -> Exit event -> caller drops its input sender ->
// bridge closes -> writer exits.
func orchestrate(cmd *exec.Cmd, out chan<- OutputEvent, readerDone, writerDone <-chan struct{}, done chan<- struct{}) {
	err := cmd.Wait()
	state := cmd.ProcessState
	out <- OutputEvent{Kind: OutputExit, ExitState: state, Err: err}

	<-readerDone
	<-writerDone
	close(out)
	close(done)
}

const readBufferSize = 4096

var (
	cursorKeyModeOn  = []byte("\x1b[?1h")
	cursorKeyModeOff = []byte("\x1b[?1l")
)

// readerLoop owns the PTY master's read side. It scans each chunk for
// cursor-key mode-switch sequences before forwarding the raw bytes
// unchanged (a "dumb pipe" except for this one piece of intelligence),
// and reports EOF/read errors as UnexpectedExit.
func readerLoop(ptmx *os.File, out chan<- OutputEvent, done chan<- struct{}) {
	defer close(done)
	buf := make([]byte, readBufferSize)
	for {
		n, err := ptmx.Read(buf)
		if n > 0 {
			data := append([]byte(nil), buf[:n]...)
			if bytes.Contains(data, cursorKeyModeOn) {
				out <- OutputEvent{Kind: OutputCursorModeChange, CursorModeApp: true}
			}
			if bytes.Contains(data, cursorKeyModeOff) {
				out <- OutputEvent{Kind: OutputCursorModeChange, CursorModeApp: false}
			}
			out <- OutputEvent{Kind: OutputData, Data: data}
		}
		if err != nil {
			out <- OutputEvent{Kind: OutputUnexpectedExit, Err: err}
			return
		}
	}
}

// writerLoop owns the PTY master's write side. It polls its input
// channel with a 100ms timeout so it can promptly notice the channel has
// been closed (the bridge's signal that it should exit) rather than
// blocking forever on a channel receive.
func writerLoop(ptmx *os.File, in <-chan InputEvent, out chan<- OutputEvent, done chan<- struct{}) {
	defer close(done)
	applicationCursorKeys := false
	for {
		select {
		case ev, ok := <-in:
			if !ok {
				return
			}
			switch ev.Kind {
			case InputWrite:
				if err := writeAndFlush(ptmx, ev.Data); err != nil {
					out <- OutputEvent{Kind: OutputWriteError, Err: err}
					return
				}
			case InputWriteLine:
				if err := writeAndFlush(ptmx, append(ev.Data, '\n')); err != nil {
					out <- OutputEvent{Kind: OutputWriteError, Err: err}
					return
				}
			case InputSendControl:
				payload := ev.Control.ToBytes(applicationCursorKeys, ev.Data)
				if err := writeAndFlush(ptmx, payload); err != nil {
					out <- OutputEvent{Kind: OutputWriteError, Err: err}
					return
				}
			case InputResize:
				if err := creackpty.Setsize(ptmx, &creackpty.Winsize{
					Rows: uint16(ev.Rows), Cols: uint16(ev.Cols),
				}); err != nil {
					out <- OutputEvent{Kind: OutputWriteError, Err: err}
				}
			case InputFlush:
				// Writes are flushed as they happen; nothing buffered.
			case InputClose:
				return
			}
		case <-time.After(100 * time.Millisecond):
			// Wake periodically only to re-check for channel closure;
			// the select above already does that via the ok flag.
		}
	}
}

func writeAndFlush(ptmx *os.File, data []byte) error {
	if len(data) == 0 {
		return nil
	}
	_, err := ptmx.Write(data)
	return err
}

// bridgeLoop forwards input events from the caller-facing async channel
// to the writer's channel, sending a final close when the caller's
// sender side is dropped (channel closed).
func bridgeLoop(in <-chan InputEvent, out chan<- InputEvent) {
	for ev := range in {
		out <- ev
	}
	close(out)
}

// Write queues raw bytes to be written to the PTY.
func (s *Session) Write(data []byte) { s.input <- InputEvent{Kind: InputWrite, Data: data} }

// WriteLine queues text followed by a line feed.
func (s *Session) WriteLine(text string) {
	s.input <- InputEvent{Kind: InputWriteLine, Data: []byte(text)}
}

// SendControl queues a named control sequence, translated according to
// the current cursor-key mode at write time.
func (s *Session) SendControl(c ControlSequence) {
	s.input <- InputEvent{Kind: InputSendControl, Control: c}
}

// SendRawSequence queues an arbitrary escape sequence verbatim.
func (s *Session) SendRawSequence(raw []byte) {
	s.input <- InputEvent{Kind: InputSendControl, Control: RawSequence, Data: raw}
}

// Resize queues a PTY window-size change.
func (s *Session) Resize(size Size) {
	s.input <- InputEvent{Kind: InputResize, Rows: size.Rows, Cols: size.Cols}
}

// Close queues a close request to the writer; the reader and
// orchestrator continue until the child itself exits or is killed via
// Terminate.
func (s *Session) Close() { close(s.input) }

// Terminate kills the child process outright.
func (s *Session) Terminate() error {
	if s.cmd.Process == nil {
		return nil
	}
	return s.cmd.Process.Kill()
}

// Done is closed once the orchestrator has joined the reader and writer
// goroutines and the child's exit status has been delivered.
func (s *Session) Done() <-chan struct{} { return s.done }
