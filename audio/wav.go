package audio

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"os"
	"time"

	"github.com/lestrrat-go/strftime"

	"github.com/kb9rlw/sdrcore/pcm"
)

// SessionFilenamePattern is the default strftime pattern used to name a
// new capture file each time the pipeline starts recording.
const SessionFilenamePattern = "capture-%Y%m%dT%H%M%S.wav"

// SessionFilename renders pattern against t, for naming a new capture
// file at recording start.
func SessionFilename(pattern string, t time.Time) (string, error) {
	f, err := strftime.New(pattern)
	if err != nil {
		return "", fmt.Errorf("audio: strftime pattern %q: %w", pattern, err)
	}
	return f.FormatString(t), nil
}

// WAVSink writes PCM blocks to a mono 16-bit WAV file at pcm.SampleRateHz.
// The header's data-length fields are backpatched on Close.
type WAVSink struct {
	f       *os.File
	w       *bufio.Writer
	written uint32
}

const wavHeaderBytes = 44

// NewWAVSink creates (or truncates) path and writes a placeholder header.
func NewWAVSink(path string) (*WAVSink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("audio: wav: create %s: %w", path, err)
	}
	s := &WAVSink{f: f, w: bufio.NewWriter(f)}
	if err := s.writeHeader(0); err != nil {
		f.Close()
		return nil, err
	}
	return s, nil
}

func (s *WAVSink) writeHeader(dataBytes uint32) error {
	if _, err := s.f.Seek(0, 0); err != nil {
		return err
	}
	var hdr [wavHeaderBytes]byte
	copy(hdr[0:4], "RIFF")
	binary.LittleEndian.PutUint32(hdr[4:8], 36+dataBytes)
	copy(hdr[8:12], "WAVE")
	copy(hdr[12:16], "fmt ")
	binary.LittleEndian.PutUint32(hdr[16:20], 16)
	binary.LittleEndian.PutUint16(hdr[20:22], 1) // PCM
	binary.LittleEndian.PutUint16(hdr[22:24], 1) // mono
	binary.LittleEndian.PutUint32(hdr[24:28], pcm.SampleRateHz)
	binary.LittleEndian.PutUint32(hdr[28:32], pcm.SampleRateHz*2)
	binary.LittleEndian.PutUint16(hdr[32:34], 2)  // block align
	binary.LittleEndian.PutUint16(hdr[34:36], 16) // bits per sample
	copy(hdr[36:40], "data")
	binary.LittleEndian.PutUint32(hdr[40:44], dataBytes)
	_, err := s.f.Write(hdr[:])
	return err
}

// OnPCM implements pcm.Sink.
func (s *WAVSink) OnPCM(block pcm.Block) error {
	encoded := block.Encode()
	if _, err := s.w.Write(encoded); err != nil {
		return fmt.Errorf("audio: wav: write: %w", err)
	}
	s.written += uint32(len(encoded))
	return nil
}

// Close flushes buffered samples, backpatches the header, and closes the
// file.
func (s *WAVSink) Close() error {
	if err := s.w.Flush(); err != nil {
		return err
	}
	if err := s.writeHeader(s.written); err != nil {
		return err
	}
	return s.f.Close()
}
