// Package indicator drives a GPIO line to reflect squelch state, for
// front-panel "signal present" LEDs on embedded receiver builds.
package indicator

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"

	"github.com/kb9rlw/sdrcore/squelch"
)

// SquelchLine drives a single GPIO output line high while the squelch
// gate is open.
type SquelchLine struct {
	line *gpiocdev.Line
}

// NewSquelchLine requests offset on chip (e.g. "gpiochip0") as an output,
// initially low.
func NewSquelchLine(chip string, offset int) (*SquelchLine, error) {
	line, err := gpiocdev.RequestLine(chip, offset, gpiocdev.AsOutput(0))
	if err != nil {
		return nil, fmt.Errorf("indicator: request line %s:%d: %w", chip, offset, err)
	}
	return &SquelchLine{line: line}, nil
}

// OnEvent updates the line from a squelch event: high for any forwarded
// (signal-present) event, low otherwise.
func (s *SquelchLine) OnEvent(event squelch.Event) error {
	v := 0
	if event.Forwarded() {
		v = 1
	}
	if err := s.line.SetValue(v); err != nil {
		return fmt.Errorf("indicator: set value: %w", err)
	}
	return nil
}

// Close releases the GPIO line.
func (s *SquelchLine) Close() error {
	return s.line.Close()
}
