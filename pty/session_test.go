package pty

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collectUntilExit(t *testing.T, s *Session, timeout time.Duration) (string, bool) {
	t.Helper()
	var out strings.Builder
	deadline := time.After(timeout)
	for {
		select {
		case ev, ok := <-s.Output:
			if !ok {
				return out.String(), true
			}
			switch ev.Kind {
			case OutputData:
				out.Write(ev.Data)
			case OutputExit:
				return out.String(), true
			case OutputUnexpectedExit:
				// The reader reports the EOF it sees when the child exits
				// this way; the orchestrator's Exit event still follows.
			case OutputWriteError:
				return out.String(), false
			}
		case <-deadline:
			return out.String(), false
		}
	}
}

func TestSpawnEchoProducesOutputAndExit(t *testing.T) {
	s, err := Spawn("echo", []string{"hello from pty"}, Size{Rows: 24, Cols: 80})
	require.NoError(t, err)

	out, sawExit := collectUntilExit(t, s, 5*time.Second)
	assert.True(t, sawExit)
	assert.Contains(t, out, "hello from pty")
}

func TestSessionWriteLineEchoedByCat(t *testing.T) {
	s, err := Spawn("cat", nil, Size{Rows: 24, Cols: 80})
	require.NoError(t, err)

	s.WriteLine("round trip")
	s.SendControl(CtrlD)

	out, sawExit := collectUntilExit(t, s, 5*time.Second)
	assert.True(t, sawExit)
	assert.Contains(t, out, "round trip")
}

func TestCloseStopsWriterWithoutKillingChild(t *testing.T) {
	s, err := Spawn("cat", nil, Size{Rows: 24, Cols: 80})
	require.NoError(t, err)

	s.Close()
	// The child is still running; terminate it explicitly so the test
	// doesn't leak the process or hang waiting for natural exit.
	require.NoError(t, s.Terminate())

	_, _ = collectUntilExit(t, s, 5*time.Second)
}

func TestControlSequenceToBytesArrowModes(t *testing.T) {
	assert.Equal(t, []byte{0x1b, '[', 'A'}, ArrowUp.ToBytes(false, nil))
	assert.Equal(t, []byte{0x1b, 'O', 'A'}, ArrowUp.ToBytes(true, nil))
}

func TestControlSequenceRawPassthrough(t *testing.T) {
	raw := []byte{0x1b, '[', '3', '1', 'm'}
	assert.Equal(t, raw, RawSequence.ToBytes(false, raw))
}
