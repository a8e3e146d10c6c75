package deck

import (
	"image"
	"image/color"
	"math"

	"github.com/golang/glog"

	"stagecpv/lib/cpv"
)

// Keys is the part of a Device the palette draws on.
type Keys interface {
	SetKeyImage(key int, img image.Image) error
}

// Palette binds key i to Controllers[i]. Pressing a bound key toggles the
// controller's mute.
type Palette struct {
	Controllers []cpv.Controller
	Keys        Keys
	Model       *Model
	// Changed is called after a press flips a controller, if set.
	Changed func(c cpv.Controller)
}

func (p *Palette) key(i int) cpv.Controller {
	if i < 0 || i >= len(p.Controllers) || i >= p.Model.Keys {
		return nil
	}
	return p.Controllers[i]
}

// Press handles one key event. Releases are ignored.
func (p *Palette) Press(ev KeyEvent) error {
	if !ev.Pressed {
		return nil
	}
	c := p.key(ev.Key)
	if c == nil {
		return nil
	}
	h := c.Common()
	h.Muted = !h.Muted
	glog.V(1).Infof("[deck]%s muted=%t\n", h.Name, h.Muted)
	if p.Changed != nil {
		p.Changed(c)
	}
	return p.Paint(ev.Key)
}

// Paint redraws one key.
func (p *Palette) Paint(i int) error {
	sz := p.Model.KeySize
	c := p.key(i)
	if c == nil {
		return p.Keys.SetKeyImage(i, KeyImage(sz, color.Black, color.Black))
	}
	h := c.Common()
	bg := Swatch(c)
	state := c.Kind().String()
	if h.Muted {
		bg = color.RGBA{bg.R / 4, bg.G / 4, bg.B / 4, 255}
		state = "muted"
	}
	return p.Keys.SetKeyImage(i, KeyImage(sz, bg, Ink(bg), h.Name, state))
}

// Refresh redraws every key.
func (p *Palette) Refresh() error {
	for i := 0; i < p.Model.Keys; i++ {
		if err := p.Paint(i); err != nil {
			return err
		}
	}
	return nil
}

// Swatch is the controller's color value, or a grey for controllers that
// carry none.
func Swatch(c cpv.Controller) color.RGBA {
	v, ok := c.Common().Value(cpv.Color)
	if !ok || !v.IsColor() {
		return color.RGBA{96, 96, 96, 255}
	}
	rgb := v.RGB()
	return color.RGBA{to8(rgb.R), to8(rgb.G), to8(rgb.B), 255}
}

func to8(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(100, v)) * 255 / 100))
}
