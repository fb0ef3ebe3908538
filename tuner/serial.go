package tuner

import (
	"bufio"
	"fmt"
	"io"
	"sync"

	"github.com/pkg/term"
)

// SerialPort is the subset of *term.Term a SerialDriver needs; satisfied
// by *term.Term in production and by a pty's file end in tests.
type SerialPort interface {
	io.ReadWriter
	Close() error
}

// SerialDriver drives a tuner over a line-oriented CAT protocol: each
// command is a single ASCII line, terminated with '\n', echoing "OK\n" on
// success. This mirrors the simple textual CAT dialects common on
// hobbyist SDR front ends that expose a serial control port alongside
// their USB bulk data interface.
type SerialDriver struct {
	mu       sync.Mutex
	port     SerialPort
	reader   *bufio.Reader
	ifGainDB uint
}

// OpenSerialDriver opens the given device at baud and returns a
// SerialDriver.
func OpenSerialDriver(device string, baud int) (*SerialDriver, error) {
	t, err := term.Open(device, term.Speed(baud), term.RawMode)
	if err != nil {
		return nil, fmt.Errorf("tuner: serial: open %s: %w", device, err)
	}
	return NewSerialDriver(t), nil
}

// NewSerialDriver wraps an already-open SerialPort (used directly by
// tests against a pty).
func NewSerialDriver(port SerialPort) *SerialDriver {
	return &SerialDriver{port: port, reader: bufio.NewReader(port)}
}

// Close releases the underlying port.
func (d *SerialDriver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.port.Close()
}

func (d *SerialDriver) command(format string, args ...any) error {
	line := fmt.Sprintf(format, args...) + "\n"
	if _, err := io.WriteString(d.port, line); err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	reply, err := d.reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	if reply != "OK\n" {
		return fmt.Errorf("%w: unexpected reply %q", ErrIO, reply)
	}
	return nil
}

func (d *SerialDriver) SetCenterFrequency(hz uint64) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.command("F%d", hz)
}

func (d *SerialDriver) SetSampleRate(hz uint32) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.command("S%d", hz)
}

func (d *SerialDriver) SetIFGainDB(_ byte, gainDB uint) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.command("I%d", gainDB); err != nil {
		return err
	}
	d.ifGainDB = gainDB
	return nil
}

func (d *SerialDriver) IFGainDB() (uint, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.ifGainDB, nil
}

func (d *SerialDriver) SetOverallGainDB(gainDB uint32) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.command("G%d", gainDB)
}
