package surface

import (
	"testing"

	"github.com/go-playground/assert/v2"
	"gitlab.com/gomidi/midi/v2"

	"stagecpv/lib/cpv"
)

func TestDecode(t *testing.T) {
	for _, tc := range []struct {
		msg  midi.Message
		want Action
	}{
		{midi.NoteOn(0, NotePlay, 127), Action{Control: Play}},
		{midi.NoteOn(0, NoteStop, 127), Action{Control: Stop}},
		{midi.NoteOn(0, NoteScrub, 127), Action{Control: Scrub}},
		{midi.NoteOn(0, NoteMute+2, 127), Action{Control: Mute, Strip: 2}},
		{midi.NoteOn(0, NoteSolo+7, 127), Action{Control: Solo, Strip: 7}},
		{midi.ControlChange(0, CCFader+1, 127), Action{Control: Level, Strip: 1, Level: 100}},
		{midi.ControlChange(0, CCEncoder, 65), Action{Control: Pan, Steps: 1}},
		{midi.ControlChange(0, CCEncoder+7, 1), Action{Control: Pan, Strip: 7, Steps: -1}},
		{midi.ControlChange(0, CCEncoder+3, 67), Action{Control: Pan, Strip: 3, Steps: 3}},
		{midi.ControlChange(0, CCJogWheel, 65), Action{Control: Jog, Steps: 1}},
		{midi.ControlChange(0, CCJogWheel, 1), Action{Control: Jog, Steps: -1}},
		{midi.ControlChange(0, CCFootSwitch, 127), Action{Control: PlayPause}},
	} {
		got, ok := Decode(tc.msg)
		assert.Equal(t, true, ok)
		assert.Equal(t, tc.want, got)
	}

	for _, msg := range []midi.Message{
		midi.NoteOn(0, NotePlay, 0),
		midi.NoteOff(0, NotePlay),
		midi.NoteOn(0, NoteMute+Strips, 127),
		midi.NoteOn(0, 110, 127),
		midi.ControlChange(0, CCFader+Strips, 10),
		midi.ControlChange(0, CCEncoder, 0),
		midi.ControlChange(0, CCFootSwitch, 0),
		midi.ControlChange(0, 120, 1),
	} {
		_, ok := Decode(msg)
		assert.Equal(t, false, ok)
	}
}

func TestActionString(t *testing.T) {
	assert.Equal(t, "strip 2 level 50.0", Action{Control: Level, Strip: 1, Level: 50}.String())
	assert.Equal(t, "strip 1 mute", Action{Control: Mute}.String())
	assert.Equal(t, "jog -2", Action{Control: Jog, Steps: -2}.String())
	assert.Equal(t, "play/pause", Action{Control: PlayPause}.String())
}

func TestTransport(t *testing.T) {
	tr := &Transport{}
	assert.Equal(t, cpv.Idle, tr.Status())
	assert.Equal(t, false, tr.Tick())

	tr.Play()
	assert.Equal(t, true, tr.Tick())
	assert.Equal(t, true, tr.Tick())
	assert.Equal(t, int64(2), tr.Frame())

	tr.Stop()
	assert.Equal(t, int64(2), tr.Frame())
	tr.Stop()
	assert.Equal(t, int64(0), tr.Frame())

	tr.ToggleScrub()
	assert.Equal(t, cpv.Scrubbing, tr.Status())
	assert.Equal(t, true, tr.Tick())
	assert.Equal(t, int64(0), tr.Frame())
	tr.Step(-3)
	assert.Equal(t, int64(0), tr.Frame())
	tr.Step(5)
	assert.Equal(t, int64(5), tr.Frame())
	tr.ToggleScrub()
	assert.Equal(t, cpv.Idle, tr.Status())
}

type capture struct {
	msgs []midi.Message
}

func (c *capture) send(msg midi.Message) error {
	c.msgs = append(c.msgs, msg)
	return nil
}

type edit struct {
	name  string
	param cpv.Parameter
}

func setupDesk(t *testing.T) (*Desk, *capture, *[]edit) {
	t.Helper()
	out := &capture{}
	var edits []edit
	a := &cpv.Direct{Header: cpv.Header{ID: cpv.NewControllerID(), Name: "front"}, Channels: []cpv.Channel{1}}
	b := &cpv.Direct{Header: cpv.Header{ID: cpv.NewControllerID(), Name: "back"}, Channels: []cpv.Channel{2}}
	d := &Desk{
		Controllers: []cpv.Controller{a, b},
		Transport:   &Transport{},
		Output:      &Output{send: out.send, DeviceID: DeviceIDXTouch},
		Edit: func(c cpv.Controller, param cpv.Parameter) error {
			edits = append(edits, edit{c.Common().Name, param})
			return nil
		},
	}
	return d, out, &edits
}

func TestDeskLevel(t *testing.T) {
	d, _, edits := setupDesk(t)

	if err := d.Handle(Action{Control: Level, Strip: 1, Level: 100}); err != nil {
		t.Fatal(err)
	}
	if err := d.Handle(Action{Control: Level, Strip: 5, Level: 100}); err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, []edit{{"back", cpv.Intensity}}, *edits)
	v, _ := d.Controllers[1].Common().Value(cpv.Intensity)
	assert.Equal(t, cpv.Scalar(100), v)
}

func TestDeskPan(t *testing.T) {
	d, _, edits := setupDesk(t)
	d.PanStep = 60

	d.Handle(Action{Control: Pan, Steps: 1})
	d.Handle(Action{Control: Pan, Steps: 1})
	v, _ := d.Controllers[0].Common().Value(cpv.Pan)
	assert.Equal(t, cpv.Scalar(100), v)
	d.Handle(Action{Control: Pan, Steps: -3})
	v, _ = d.Controllers[0].Common().Value(cpv.Pan)
	assert.Equal(t, cpv.Scalar(-80), v)
	assert.Equal(t, 3, len(*edits))
}

func TestDeskButtons(t *testing.T) {
	d, out, _ := setupDesk(t)

	d.Handle(Action{Control: Mute})
	d.Handle(Action{Control: Solo, Strip: 1})
	d.Handle(Action{Control: Mute, Strip: 7})
	assert.Equal(t, true, d.Controllers[0].Common().Muted)
	assert.Equal(t, true, d.Controllers[1].Common().Solo)
	assert.Equal(t, []midi.Message{midi.NoteOn(0, NoteMute, 127), midi.NoteOn(0, NoteSolo+1, 127)}, out.msgs)

	d.Handle(Action{Control: Play})
	assert.Equal(t, cpv.Playing, d.Transport.Status())
	d.Handle(Action{Control: Jog, Steps: 2})
	d.Handle(Action{Control: Jog, Steps: -1})
	assert.Equal(t, int64(1), d.Transport.Frame())
	d.Handle(Action{Control: Stop})
	assert.Equal(t, cpv.Idle, d.Transport.Status())
	d.Handle(Action{Control: Scrub})
	assert.Equal(t, cpv.Scrubbing, d.Transport.Status())
	d.Handle(Action{Control: PlayPause})
	assert.Equal(t, cpv.Playing, d.Transport.Status())
	d.Handle(Action{Control: PlayPause})
	assert.Equal(t, cpv.Idle, d.Transport.Status())
}

func TestDeskRefreshAndEcho(t *testing.T) {
	d, out, _ := setupDesk(t)
	d.Controllers[0].Common().SetValue(cpv.Intensity, cpv.Scalar(50))

	if err := d.Refresh(); err != nil {
		t.Fatal(err)
	}
	label := []byte{0x00, 0x20, 0x32, DeviceIDXTouch, 0x4C, 0, byte(White) | invertLower}
	label = append(label, "front  direct "...)
	assert.Equal(t, midi.SysEx(label), out.msgs[0])
	assert.Equal(t, midi.ControlChange(0, CCFader, 64), out.msgs[1])

	out.msgs = nil
	d.Controllers[1].Common().SetValue(cpv.Intensity, cpv.Scalar(100))
	d.Echo(d.Controllers[1])
	assert.Equal(t, []midi.Message{midi.ControlChange(0, CCFader+1, 127)}, out.msgs)
}

func TestFaderScale(t *testing.T) {
	assert.Equal(t, 0.0, FromFader(0))
	assert.Equal(t, 100.0, FromFader(127))
	assert.Equal(t, uint8(0), ToFader(-5))
	assert.Equal(t, uint8(127), ToFader(140))
	assert.Equal(t, uint8(64), ToFader(50))
}

func TestFit(t *testing.T) {
	assert.Equal(t, "ab     ", fit("ab"))
	assert.Equal(t, "abcdefg", fit("abcdefghij"))
}
