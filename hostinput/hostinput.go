// Package hostinput owns the process's stdin: exactly one goroutine ever
// calls Read on it, and every caller that wants keyboard, mouse, paste,
// focus, or resize events subscribes to a broadcast fan-out instead of
// reading stdin directly. A second concurrent reader would steal bytes
// from the first (the OS does not arbitrate fd 0 between goroutines), so
// this package enforces the single-reader rule behind a package-level
// singleton rather than leaving callers to coordinate it themselves.
package hostinput

import (
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/kagenti/tuicore/pty"
	"github.com/kagenti/tuicore/vtinput"
	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

var deviceClaimed int32 // atomic; 0 = free, 1 = held by an InputDevice

var (
	mu             sync.Mutex
	state          *readerState // nil when no reader goroutine is running
	lastGeneration int          // monotonic even across reader restarts
)

// readerState is the process-wide singleton's live state, held only
// while a reader goroutine is running. Replaced (not mutated in place)
// each time the reader restarts, which is what "generation" counts.
type readerState struct {
	generation int

	subsMu  sync.Mutex
	subs    map[int]*subscriber
	nextID  int

	wake     chan struct{}
	sigwinch chan os.Signal
	stopped  chan struct{}
}

type subscriber struct {
	events  chan vtinput.InputEvent
	dropped uint64 // atomic
}

// SubscriptionHandle is a live fan-out feed from the host stdin reader.
// Closing it releases the subscriber slot; when the last subscriber
// closes, the reader goroutine exits (and a later Subscribe call starts
// a fresh one, with generation incremented).
type SubscriptionHandle struct {
	id    int
	gen   int
	sub   *subscriber
}

// Events returns the channel of fan-out input events. Receives are
// lossy under lag: if this subscriber's buffer is full when an event
// arrives, the event is dropped and Dropped's count increases rather
// than blocking the reader goroutine or the other subscribers.
func (h *SubscriptionHandle) Events() <-chan vtinput.InputEvent { return h.sub.events }

// Dropped returns the number of events silently dropped for this
// subscriber because it was not keeping up.
func (h *SubscriptionHandle) Dropped() uint64 { return atomic.LoadUint64(&h.sub.dropped) }

// Close releases this subscription. The reader goroutine keeps running
// as long as any other subscriber remains.
func (h *SubscriptionHandle) Close() {
	mu.Lock()
	st := state
	mu.Unlock()
	if st == nil || st.generation != h.gen {
		return
	}

	st.subsMu.Lock()
	if sub, ok := st.subs[h.id]; ok {
		delete(st.subs, h.id)
		close(sub.events)
	}
	st.subsMu.Unlock()

	select {
	case st.wake <- struct{}{}:
	default:
	}
}

// Subscribe registers a new fan-out subscriber, starting the reader
// goroutine first if none is currently running.
func Subscribe() *SubscriptionHandle {
	mu.Lock()
	defer mu.Unlock()

	if state == nil {
		lastGeneration++
		state = startReader(lastGeneration)
	}

	st := state
	st.subsMu.Lock()
	id := st.nextID
	st.nextID++
	sub := &subscriber{events: make(chan vtinput.InputEvent, 64)}
	st.subs[id] = sub
	st.subsMu.Unlock()

	return &SubscriptionHandle{id: id, gen: st.generation, sub: sub}
}

// InputDevice is the single owner of the host terminal's raw-mode input
// for the lifetime of the process, or until it is closed. A second
// InputDevice created while one is already live panics with
// pty.ErrAtMostOneDevice: allowing two would make "the" terminal input
// device meaningless, and silently letting the second construction
// succeed would hide the bug until both started racing each other for
// keystrokes. Code that genuinely wants more than one consumer should
// call Subscribe directly, which has no such restriction.
type InputDevice struct {
	sub      *SubscriptionHandle
	oldState *term.State
	closed   bool
}

// NewInputDevice claims the process's sole InputDevice slot, puts the
// terminal into raw mode, and subscribes to the host stdin reader.
func NewInputDevice() (*InputDevice, error) {
	if !atomic.CompareAndSwapInt32(&deviceClaimed, 0, 1) {
		panic(pty.ErrAtMostOneDevice)
	}

	oldState, err := term.MakeRaw(int(os.Stdin.Fd()))
	if err != nil {
		atomic.StoreInt32(&deviceClaimed, 0)
		return nil, err
	}

	return &InputDevice{sub: Subscribe(), oldState: oldState}, nil
}

// Next blocks for the next input event, returning ok == false once the
// device has been closed and its events channel drained.
func (d *InputDevice) Next() (vtinput.InputEvent, bool) {
	ev, ok := <-d.sub.Events()
	return ev, ok
}

// Dropped reports how many events this device has missed due to lag.
func (d *InputDevice) Dropped() uint64 { return d.sub.Dropped() }

// Close restores the terminal's prior mode, releases the subscription,
// and frees the at-most-one-device slot for a future InputDevice.
func (d *InputDevice) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	d.sub.Close()
	atomic.StoreInt32(&deviceClaimed, 0)
	if d.oldState != nil {
		return term.Restore(int(os.Stdin.Fd()), d.oldState)
	}
	return nil
}

// QuerySize reads the controlling terminal's current size directly via
// TIOCGWINSZ, independent of the SIGWINCH delivery path, for callers
// that need an initial size before the first resize signal arrives.
func QuerySize() (rows, cols int, err error) {
	ws, err := unix.IoctlGetWinsize(int(os.Stdout.Fd()), unix.TIOCGWINSZ)
	if err != nil {
		return 0, 0, err
	}
	return int(ws.Row), int(ws.Col), nil
}

// startReader spawns the dispatcher goroutine backing generation gen and
// returns its state. Caller must hold mu.
func startReader(gen int) *readerState {
	st := &readerState{
		generation: gen,
		subs:       make(map[int]*subscriber),
		wake:       make(chan struct{}, 1),
		sigwinch:   make(chan os.Signal, 1),
		stopped:    make(chan struct{}),
	}
	signal.Notify(st.sigwinch, syscall.SIGWINCH)

	reads := make(chan readResult, 1)
	go blockingStdinReader(reads)

	go dispatch(st, reads)

	return st
}

type readResult struct {
	data []byte
	err  error
}

// blockingStdinReader is the one goroutine in the process allowed to
// call Read on stdin. It never stops on its own; the dispatcher abandons
// it (letting it leak blocked in Read) when the last subscriber departs,
// since os.Stdin offers no portable way to interrupt a pending read.
func blockingStdinReader(out chan<- readResult) {
	buf := make([]byte, 4096)
	for {
		n, err := os.Stdin.Read(buf)
		data := append([]byte(nil), buf[:n]...)
		out <- readResult{data: data, err: err}
		if err != nil {
			return
		}
	}
}

func (st *readerState) broadcast(ev vtinput.InputEvent) {
	st.subsMu.Lock()
	defer st.subsMu.Unlock()
	for _, sub := range st.subs {
		select {
		case sub.events <- ev:
		default:
			atomic.AddUint64(&sub.dropped, 1)
		}
	}
}

func (st *readerState) subscriberCount() int {
	st.subsMu.Lock()
	defer st.subsMu.Unlock()
	return len(st.subs)
}

func (st *readerState) closeAll() {
	st.subsMu.Lock()
	defer st.subsMu.Unlock()
	for id, sub := range st.subs {
		close(sub.events)
		delete(st.subs, id)
	}
}

// dispatch is the single poll loop for this generation: it merges
// stdin bytes, SIGWINCH, and subscriber-count wakeups into one
// sequential stream, the Go equivalent of the mio::Poll loop this
// design is grounded on. It exits (and lets the reader goroutine leak
// blocked in Read) once the subscriber count reaches zero.
func dispatch(st *readerState, reads <-chan readResult) {
	defer signal.Stop(st.sigwinch)
	defer close(st.stopped)

	parser := vtinput.NewParser()

	for {
		select {
		case r, ok := <-reads:
			if !ok {
				return
			}
			events, _ := parser.Feed(r.data)
			for _, ev := range events {
				st.broadcast(ev)
			}
			if r.err != nil {
				mu.Lock()
				if state == st {
					state = nil
				}
				mu.Unlock()
				st.closeAll()
				return
			}

		case <-st.sigwinch:
			rows, cols, err := QuerySize()
			if err == nil {
				st.broadcast(vtinput.InputEvent{
					Kind:   vtinput.EventResize,
					Resize: vtinput.ResizeEvent{Rows: rows, Cols: cols},
				})
			}

		case <-st.wake:
			if st.subscriberCount() == 0 {
				mu.Lock()
				if state == st {
					state = nil
				}
				mu.Unlock()
				st.closeAll()
				return
			}
		}
	}
}
