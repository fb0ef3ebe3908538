// Package audio provides pcm.Sink implementations: a live PortAudio output
// device and a WAV file writer, either of which can terminate a pipeline's
// demodulated PCM stream.
package audio

import (
	"fmt"

	"github.com/gordonklaus/portaudio"

	"github.com/kb9rlw/sdrcore/pcm"
)

// PortAudioSink plays PCM blocks to the default output device at
// pcm.SampleRateHz.
type PortAudioSink struct {
	stream *portaudio.Stream
	buf    []int16
}

// NewPortAudioSink opens the default output stream. Callers must call
// portaudio.Initialize before constructing a sink and portaudio.Terminate
// on shutdown.
func NewPortAudioSink(framesPerBuffer int) (*PortAudioSink, error) {
	s := &PortAudioSink{buf: make([]int16, framesPerBuffer)}
	stream, err := portaudio.OpenDefaultStream(0, 1, float64(pcm.SampleRateHz), framesPerBuffer, &s.buf)
	if err != nil {
		return nil, fmt.Errorf("audio: portaudio: open stream: %w", err)
	}
	s.stream = stream
	if err := stream.Start(); err != nil {
		return nil, fmt.Errorf("audio: portaudio: start stream: %w", err)
	}
	return s, nil
}

// OnPCM implements pcm.Sink. Blocks produced by the pipeline are written
// straight through in frames of the stream's configured size.
func (s *PortAudioSink) OnPCM(block pcm.Block) error {
	samples := block.Samples
	for len(samples) > 0 {
		n := copy(s.buf, samples)
		for i := n; i < len(s.buf); i++ {
			s.buf[i] = 0
		}
		if err := s.stream.Write(); err != nil {
			return fmt.Errorf("audio: portaudio: write: %w", err)
		}
		samples = samples[n:]
	}
	return nil
}

// Close stops and releases the stream.
func (s *PortAudioSink) Close() error {
	if err := s.stream.Stop(); err != nil {
		return err
	}
	return s.stream.Close()
}
