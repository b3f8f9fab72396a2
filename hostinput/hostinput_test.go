package hostinput

import (
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kagenti/tuicore/pty"
	"github.com/kagenti/tuicore/vtinput"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAtMostOneDevicePanicsWhenAlreadyClaimed(t *testing.T) {
	require.True(t, atomic.CompareAndSwapInt32(&deviceClaimed, 0, 1))
	defer atomic.StoreInt32(&deviceClaimed, 0)

	assert.PanicsWithValue(t, pty.ErrAtMostOneDevice, func() {
		_, _ = NewInputDevice()
	})
}

func TestBroadcastDropsOnFullBuffer(t *testing.T) {
	st := &readerState{subs: make(map[int]*subscriber)}
	sub := &subscriber{events: make(chan vtinput.InputEvent, 1)}
	st.subs[0] = sub

	ev := vtinput.InputEvent{Kind: vtinput.EventKey, Key: vtinput.KeyEvent{Rune: 'a'}}
	st.broadcast(ev)
	st.broadcast(ev) // buffer already full; this one is dropped

	assert.Equal(t, uint64(1), atomic.LoadUint64(&sub.dropped))
	assert.Len(t, sub.events, 1)
}

func newBareState() *readerState {
	return &readerState{
		subs:     make(map[int]*subscriber),
		wake:     make(chan struct{}, 1),
		sigwinch: make(chan os.Signal, 1),
		stopped:  make(chan struct{}),
	}
}

func TestDispatchFansOutParsedKeyToAllSubscribers(t *testing.T) {
	st := newBareState()
	a := &subscriber{events: make(chan vtinput.InputEvent, 4)}
	b := &subscriber{events: make(chan vtinput.InputEvent, 4)}
	st.subs[0] = a
	st.subs[1] = b

	reads := make(chan readResult, 1)
	go dispatch(st, reads)

	reads <- readResult{data: []byte("x")}

	for _, sub := range []*subscriber{a, b} {
		select {
		case ev := <-sub.events:
			require.Equal(t, vtinput.EventKey, ev.Kind)
			assert.Equal(t, 'x', ev.Key.Rune)
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for fanned-out event")
		}
	}

	close(reads)
	select {
	case <-st.stopped:
	case <-time.After(time.Second):
		t.Fatal("dispatch did not exit after reads channel closed")
	}
}

func TestDispatchExitsWhenLastSubscriberLeaves(t *testing.T) {
	st := newBareState()
	sub := &subscriber{events: make(chan vtinput.InputEvent, 1)}
	st.subs[0] = sub

	reads := make(chan readResult)
	go dispatch(st, reads)

	st.subsMu.Lock()
	delete(st.subs, 0)
	st.subsMu.Unlock()
	st.wake <- struct{}{}

	select {
	case <-st.stopped:
	case <-time.After(time.Second):
		t.Fatal("dispatch did not exit once subscriber count reached zero")
	}
}
