// Command tuidemo wires gcs, screen, vtoutput, vtinput, lineeditor, pty,
// and hostinput together into a minimal interactive shell front-end: it
// spawns a child process under a PTY, mirrors the child's output into a
// screen.Buffer via vtoutput, and drives a lineeditor.Editor off the
// host terminal's raw stdin via hostinput.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/kagenti/tuicore/hostinput"
	"github.com/kagenti/tuicore/lineeditor"
	"github.com/kagenti/tuicore/pty"
	"github.com/kagenti/tuicore/vtinput"
	"github.com/kagenti/tuicore/vtoutput"
)

func main() {
	shell := flag.String("shell", defaultShell(), "child command to run under the PTY")
	flag.Parse()

	rows, cols, err := hostinput.QuerySize()
	if err != nil {
		rows, cols = 24, 80
	}

	dev, err := hostinput.NewInputDevice()
	if err != nil {
		fmt.Fprintln(os.Stderr, "tuidemo: enabling raw mode:", err)
		os.Exit(1)
	}
	defer dev.Close()

	sess, err := pty.Spawn(*shell, nil, pty.Size{Rows: rows, Cols: cols})
	if err != nil {
		fmt.Fprintln(os.Stderr, "tuidemo: spawning child:", err)
		os.Exit(1)
	}

	out := vtoutput.New(rows, cols)

	editor := lineeditor.New("", rows, cols)
	editor.Output = os.Stdout
	hist := lineeditor.NewSliceHistory()
	editor.History = hist

	childDone := make(chan struct{})
	go pumpChildOutput(sess, out, childDone)

	runEventLoop(dev, sess, out, editor, hist)

	<-childDone
}

func defaultShell() string {
	if sh := os.Getenv("SHELL"); sh != "" {
		return sh
	}
	return "sh"
}

// pumpChildOutput copies the PTY's byte stream straight to the host
// terminal (so the child's own cursor movement and styling render
// normally) while also feeding a copy through vtoutput so this
// process keeps an addressable, diffable model of what the child drew.
func pumpChildOutput(sess *pty.Session, out *vtoutput.Handler, done chan<- struct{}) {
	defer close(done)
	for ev := range sess.Output {
		switch ev.Kind {
		case pty.OutputData:
			os.Stdout.Write(ev.Data)
			out.Write(ev.Data)
		case pty.OutputExit, pty.OutputUnexpectedExit:
			return
		case pty.OutputWriteError:
			fmt.Fprintln(os.Stderr, "tuidemo: pty write error:", ev.Err)
			return
		}
	}
}

// runEventLoop drives the line editor from raw host keystrokes,
// forwarding submitted lines to the child and Ctrl+C/Ctrl+D as control
// sequences, until the device's event channel closes or the editor
// raises SignalEof.
func runEventLoop(dev *hostinput.InputDevice, sess *pty.Session, out *vtoutput.Handler, editor *lineeditor.Editor, hist *lineeditor.SliceHistory) {
	for {
		ev, ok := dev.Next()
		if !ok {
			return
		}

		if ev.Kind == vtinput.EventResize {
			editor.Apply(ev)
			sess.Resize(pty.Size{Rows: ev.Resize.Rows, Cols: ev.Resize.Cols})
			out.Resize(ev.Resize.Rows, ev.Resize.Cols)
			continue
		}

		res := editor.Apply(ev)
		editor.Render(os.Stdout)

		switch res.Signal {
		case lineeditor.SignalLine:
			hist.Push(res.Line)
			sess.WriteLine(res.Line)
		case lineeditor.SignalInterrupted:
			sess.SendControl(pty.CtrlC)
		case lineeditor.SignalEof:
			sess.SendControl(pty.CtrlD)
			sess.Close()
			return
		}
	}
}
