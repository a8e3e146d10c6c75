package surface

import (
	"math"

	"github.com/golang/glog"

	"stagecpv/lib/cpv"
)

// EditFunc runs one parameter edit through the pipeline.
type EditFunc func(c cpv.Controller, param cpv.Parameter) error

// Desk applies surface actions to controllers. Strip i is Controllers[i];
// strips past the end are unbound.
type Desk struct {
	Controllers []cpv.Controller
	Transport   *Transport
	Edit        EditFunc
	// Output is optional; without it nothing is echoed.
	Output *Output
	// PanStep is the pan change per encoder detent.
	PanStep float64
}

func (d *Desk) strip(i int) cpv.Controller {
	if i < 0 || i >= len(d.Controllers) || i >= Strips {
		return nil
	}
	return d.Controllers[i]
}

// Handle applies one decoded action.
func (d *Desk) Handle(a Action) error {
	switch a.Control {
	case Level, Pan, Solo, Mute:
		c := d.strip(a.Strip)
		if c == nil {
			return nil
		}
		return d.stripAction(c, a)
	case Play:
		d.Transport.Play()
	case Stop:
		d.Transport.Stop()
	case Scrub:
		d.Transport.ToggleScrub()
	case PlayPause:
		if d.Transport.Status() == cpv.Playing {
			d.Transport.Stop()
		} else {
			d.Transport.Play()
		}
	case Jog:
		d.Transport.Step(int64(a.Steps))
		return nil
	default:
		return nil
	}
	d.transportLights()
	return nil
}

func (d *Desk) stripAction(c cpv.Controller, a Action) error {
	h := c.Common()
	switch a.Control {
	case Level:
		h.SetValue(cpv.Intensity, cpv.Scalar(a.Level))
		return d.edit(c, cpv.Intensity)
	case Pan:
		step := d.PanStep
		if step == 0 {
			step = 1
		}
		v, _ := h.Value(cpv.Pan)
		h.SetValue(cpv.Pan, cpv.Scalar(math.Max(-100, math.Min(100, v.Float()+float64(a.Steps)*step))))
		return d.edit(c, cpv.Pan)
	case Solo:
		h.Solo = !h.Solo
		d.light(NoteSolo+uint8(a.Strip), h.Solo)
		glog.V(1).Infof("[surface]%s solo=%t\n", h.Name, h.Solo)
	case Mute:
		h.Muted = !h.Muted
		d.light(NoteMute+uint8(a.Strip), h.Muted)
		glog.V(1).Infof("[surface]%s muted=%t\n", h.Name, h.Muted)
	}
	return nil
}

func (d *Desk) edit(c cpv.Controller, param cpv.Parameter) error {
	if d.Edit == nil {
		return nil
	}
	return d.Edit(c, param)
}

func (d *Desk) light(note uint8, on bool) {
	if d.Output == nil {
		return
	}
	if err := d.Output.Light(note, on); err != nil {
		glog.Warningf("[surface]led %d: %v\n", note, err)
	}
}

func (d *Desk) transportLights() {
	s := d.Transport.Status()
	d.light(NotePlay, s == cpv.Playing)
	d.light(NoteStop, s == cpv.Idle)
	d.light(NoteScrub, s == cpv.Scrubbing)
}

// Refresh pushes every strip's state to the surface: scribble strip name,
// motor fader, and mute and solo lights.
func (d *Desk) Refresh() error {
	if d.Output == nil {
		return nil
	}
	for i := 0; i < Strips; i++ {
		c := d.strip(i)
		if c == nil {
			if err := d.Output.Label(i, Black, "", ""); err != nil {
				return err
			}
			continue
		}
		h := c.Common()
		if err := d.Output.Label(i, kindColor(c.Kind()), h.Name, c.Kind().String()); err != nil {
			return err
		}
		v, _ := h.Value(cpv.Intensity)
		if err := d.Output.Fader(i, v.Float()); err != nil {
			return err
		}
		d.light(NoteSolo+uint8(i), h.Solo)
		d.light(NoteMute+uint8(i), h.Muted)
	}
	d.transportLights()
	return nil
}

// Echo moves the motor fader of every strip bound to c, for values that
// changed elsewhere, such as mirrored or propagated edits.
func (d *Desk) Echo(c cpv.Controller) {
	if d.Output == nil || c == nil {
		return
	}
	for i, n := 0, min(len(d.Controllers), Strips); i < n; i++ {
		if d.Controllers[i].Common().ID != c.Common().ID {
			continue
		}
		v, _ := c.Common().Value(cpv.Intensity)
		if err := d.Output.Fader(i, v.Float()); err != nil {
			glog.Warningf("[surface]fader %d: %v\n", i, err)
		}
	}
}

var kindColors = map[cpv.Kind]Color{
	cpv.KindDirect:     White,
	cpv.KindInfluencer: Cyan,
	cpv.KindBrush:      Magenta,
	cpv.KindKey:        Yellow,
	cpv.KindMixer:      Green,
}

func kindColor(k cpv.Kind) Color {
	if c, ok := kindColors[k]; ok {
		return c
	}
	return Red
}
