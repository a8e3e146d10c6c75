package surface

import (
	"fmt"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// Color is a scribble strip backlight.
type Color uint8

const (
	Black Color = iota
	Red
	Green
	Yellow
	Blue
	Magenta
	Cyan
	White
)

// invertLower shows the lower scribble strip row dark on light.
const invertLower = 0x20

// Output echoes desk state back to the surface.
type Output struct {
	send     func(msg midi.Message) error
	DeviceID uint8
}

func NewOutput(port drivers.Out, deviceID uint8) (*Output, error) {
	send, err := midi.SendTo(port)
	if err != nil {
		return nil, fmt.Errorf("surface: open output: %w", err)
	}
	return &Output{send: send, DeviceID: deviceID}, nil
}

// Fader moves a strip's motor fader to level, 0-100.
func (o *Output) Fader(strip int, level float64) error {
	return o.send(midi.ControlChange(0, CCFader+uint8(strip), ToFader(level)))
}

// Light switches a button LED.
func (o *Output) Light(note uint8, on bool) error {
	var v uint8
	if on {
		v = 127
	}
	return o.send(midi.NoteOn(0, note, v))
}

// Label writes both rows of a strip's scribble strip, seven characters each.
func (o *Output) Label(strip int, c Color, upper, lower string) error {
	attr := uint8(c)
	if c != Black {
		attr |= invertLower
	}
	data := []byte{0x00, 0x20, 0x32, o.DeviceID, 0x4C, uint8(strip), attr}
	data = append(data, fit(upper)...)
	data = append(data, fit(lower)...)
	return o.send(midi.SysEx(data))
}

func fit(s string) string {
	return fmt.Sprintf("%-7.7s", s)
}
