package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kb9rlw/sdrcore/control"
	"github.com/kb9rlw/sdrcore/demod"
	"github.com/kb9rlw/sdrcore/diag"
	"github.com/kb9rlw/sdrcore/pcm"
	"github.com/kb9rlw/sdrcore/queue"
	"github.com/kb9rlw/sdrcore/squelch"
	"github.com/kb9rlw/sdrcore/tuner"
)

func iqPayload(n int, iByte, qByte byte) []byte {
	b := make([]byte, 2*n)
	for k := 0; k < n; k++ {
		b[2*k] = iByte
		b[2*k+1] = qByte
	}
	return b
}

type capturingSink struct {
	blocks []pcm.Block
}

func (c *capturingSink) OnPCM(b pcm.Block) error {
	c.blocks = append(c.blocks, b)
	return nil
}

func newTestPipeline(t *testing.T) (*Pipeline, *control.Interface, *capturingSink) {
	t.Helper()
	ctl := control.New()
	require.NoError(t, ctl.SetDemodMode(demod.FM))
	ctl.SetAGCEnabled(false)

	sink := &capturingSink{}
	p := New(Config{
		Queue:  queue.NewQueue(queue.DefaultQueueCapacity),
		Driver: tuner.NewLoopbackDriver(0),
		Sink:   sink,
		Diag:   diag.NoopSink{},
	}, ctl)
	return p, ctl, sink
}

// TestSquelchEventOrderingEndToEnd exercises scenario 6 through the full
// orchestrator: below-threshold, above-threshold, below-threshold blocks,
// expecting the tail block to still reach the demodulator.
func TestSquelchEventOrderingEndToEnd(t *testing.T) {
	p, ctl, sink := newTestPipeline(t)
	require.NoError(t, ctl.SetSquelchThreshold(-10))

	var events []squelch.Event
	p.squelchObserver = func(e squelch.Event) { events = append(events, e) }

	below := queue.IqBlock{Payload: iqPayload(4096, 140, 128)}
	above := queue.IqBlock{Payload: iqPayload(4096, 255, 128)}

	p.AcceptBlock(below)
	p.AcceptBlock(above)
	blocksBeforeTail := len(sink.blocks)
	p.AcceptBlock(below)

	require.Len(t, events, 3)
	assert.Equal(t, squelch.EventNoise, events[0])
	assert.Equal(t, squelch.EventStartOfSignal, events[1])
	assert.Equal(t, squelch.EventEndOfSignal, events[2])
	assert.Greater(t, len(sink.blocks), blocksBeforeTail, "tail block should still reach the demodulator")

	p.AcceptBlock(below)
	assert.Len(t, events, 4)
	assert.Equal(t, squelch.EventNoise, events[3])
}

// TestSetDemodModeResetsOnlyNewChain exercises set_demod_mode: switching
// modes replaces the active chain (so it starts from zero state) without
// touching the squelch tracker's accumulated state.
func TestSetDemodModeResetsOnlyNewChain(t *testing.T) {
	p, ctl, _ := newTestPipeline(t)
	require.NoError(t, ctl.SetSquelchThreshold(-10))
	p.AcceptBlock(queue.IqBlock{Payload: iqPayload(4096, 255, 128)})
	require.Equal(t, squelch.Active, p.squelchTracker.State())

	require.NoError(t, p.SetDemodMode(demod.AM))
	p.AcceptBlock(queue.IqBlock{Payload: iqPayload(4096, 255, 128)})

	assert.Equal(t, demod.AM, p.activeMode)
	assert.Equal(t, squelch.Active, p.squelchTracker.State(), "mode switch must not reset squelch state")
}

// TestResetZeroesBlankingAndSquelch exercises the orchestrator's reset
// operation.
func TestResetZeroesBlankingAndSquelch(t *testing.T) {
	p, ctl, _ := newTestPipeline(t)
	require.NoError(t, ctl.SetSquelchThreshold(-10))
	p.AcceptBlock(queue.IqBlock{Payload: iqPayload(4096, 255, 128)})
	require.Equal(t, squelch.Active, p.squelchTracker.State())

	p.Reset()

	assert.Equal(t, squelch.Noise, p.squelchTracker.State())
}
