// Package surface drives a Behringer X-Touch in MIDI mode as a fader desk
// for the pipeline: strips edit controller intensity and pan, mute and solo
// set controller flags, and the transport section runs playback.
package surface

import (
	"fmt"
	"math"
	"strings"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

const (
	DeviceIDXTouch   = 0x14
	DeviceIDExtender = 0x15
)

// Strips is the number of channel strips on one unit.
const Strips = 8

// MIDI-mode layout. Strip controls are the first note or CC plus the strip.
const (
	NoteSolo  = 8
	NoteMute  = 16
	NoteStop  = 93
	NotePlay  = 94
	NoteScrub = 101

	CCFootSwitch = 64
	CCFader      = 70
	CCEncoder    = 80
	CCJogWheel   = 88
)

// Control is what a surface message asks the desk to do.
type Control int

const (
	Level Control = iota + 1
	Pan
	Solo
	Mute
	Play
	Stop
	Scrub
	PlayPause
	Jog
)

var controlNames = map[Control]string{
	Level:     "level",
	Pan:       "pan",
	Solo:      "solo",
	Mute:      "mute",
	Play:      "play",
	Stop:      "stop",
	Scrub:     "scrub",
	PlayPause: "play/pause",
	Jog:       "jog",
}

func (c Control) String() string {
	if name, ok := controlNames[c]; ok {
		return name
	}
	return fmt.Sprintf("control(%d)", int(c))
}

// Action is one decoded desk action. Strip is set for strip controls, Level
// for faders (0-100) and Steps for encoders and the jog wheel.
type Action struct {
	Control Control
	Strip   int
	Level   float64
	Steps   int
}

func (a Action) String() string {
	switch a.Control {
	case Level:
		return fmt.Sprintf("strip %d level %.1f", a.Strip+1, a.Level)
	case Pan:
		return fmt.Sprintf("strip %d pan %+d", a.Strip+1, a.Steps)
	case Solo, Mute:
		return fmt.Sprintf("strip %d %s", a.Strip+1, a.Control)
	case Jog:
		return fmt.Sprintf("jog %+d", a.Steps)
	}
	return a.Control.String()
}

// Decode turns one message from the surface into a desk action. Messages the
// desk has no use for, such as releases, fader touches and the main fader,
// report false.
func Decode(msg midi.Message) (Action, bool) {
	var ch, a, b uint8
	switch {
	case msg.GetNoteOn(&ch, &a, &b):
		if b == 0 {
			return Action{}, false
		}
		return press(a)
	case msg.GetControlChange(&ch, &a, &b):
		return turn(a, b)
	}
	return Action{}, false
}

func press(note uint8) (Action, bool) {
	switch {
	case note >= NoteSolo && note < NoteSolo+Strips:
		return Action{Control: Solo, Strip: int(note - NoteSolo)}, true
	case note >= NoteMute && note < NoteMute+Strips:
		return Action{Control: Mute, Strip: int(note - NoteMute)}, true
	case note == NotePlay:
		return Action{Control: Play}, true
	case note == NoteStop:
		return Action{Control: Stop}, true
	case note == NoteScrub:
		return Action{Control: Scrub}, true
	}
	return Action{}, false
}

func turn(cc, v uint8) (Action, bool) {
	switch {
	case cc >= CCFader && cc < CCFader+Strips:
		return Action{Control: Level, Strip: int(cc - CCFader), Level: FromFader(v)}, true
	case cc >= CCEncoder && cc < CCEncoder+Strips:
		if steps := detents(v); steps != 0 {
			return Action{Control: Pan, Strip: int(cc - CCEncoder), Steps: steps}, true
		}
	case cc == CCJogWheel:
		if steps := detents(v); steps != 0 {
			return Action{Control: Jog, Steps: steps}, true
		}
	case cc == CCFootSwitch && v > 0:
		return Action{Control: PlayPause}, true
	}
	return Action{}, false
}

// detents reads a relative encoder value: 65 and up turn clockwise by
// v-64, 1 to 63 counter-clockwise by v.
func detents(v uint8) int {
	switch {
	case v > 64:
		return int(v) - 64
	case v > 0 && v < 64:
		return -int(v)
	}
	return 0
}

func FindInPort(substr string) (drivers.In, error) {
	for _, port := range midi.GetInPorts() {
		if matches(port.String(), substr) {
			return port, nil
		}
	}
	return nil, fmt.Errorf("surface: no MIDI input matching %q", substr)
}

func FindOutPort(substr string) (drivers.Out, error) {
	for _, port := range midi.GetOutPorts() {
		if matches(port.String(), substr) {
			return port, nil
		}
	}
	return nil, fmt.Errorf("surface: no MIDI output matching %q", substr)
}

func matches(name, substr string) bool {
	return strings.Contains(strings.ToLower(name), strings.ToLower(substr))
}

// FromFader converts a 7-bit fader position to 0-100.
func FromFader(v uint8) float64 {
	return float64(v) * 100 / 127
}

func ToFader(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(100, v)) * 127 / 100))
}
