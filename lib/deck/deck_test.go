package deck

import (
	"image"
	"image/color"
	"testing"

	"github.com/go-playground/assert/v2"

	"stagecpv/lib/cpv"
)

type painted struct {
	keys map[int]image.Image
}

func (p *painted) SetKeyImage(key int, img image.Image) error {
	if p.keys == nil {
		p.keys = map[int]image.Image{}
	}
	p.keys[key] = img
	return nil
}

// corner reads the background, away from any text.
func (p *painted) corner(key int) color.RGBA {
	r, g, b, a := p.keys[key].At(0, 0).RGBA()
	return color.RGBA{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8), uint8(a >> 8)}
}

func testPalette() (*Palette, *painted, *cpv.Direct) {
	red := &cpv.Direct{Header: cpv.Header{ID: cpv.NewControllerID(), Name: "red"}, Channels: []cpv.Channel{1}}
	red.SetValue(cpv.Color, cpv.Color3(100, 0, 0))
	plain := &cpv.Direct{Header: cpv.Header{ID: cpv.NewControllerID(), Name: "plain"}, Channels: []cpv.Channel{2}}
	keys := &painted{}
	return &Palette{
		Controllers: []cpv.Controller{red, plain},
		Keys:        keys,
		Model:       &ModelPlus,
	}, keys, red
}

func TestRefresh(t *testing.T) {
	p, keys, _ := testPalette()
	if err := p.Refresh(); err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, ModelPlus.Keys, len(keys.keys))
	assert.Equal(t, color.RGBA{255, 0, 0, 255}, keys.corner(0))
	assert.Equal(t, color.RGBA{96, 96, 96, 255}, keys.corner(1))
	assert.Equal(t, color.RGBA{0, 0, 0, 255}, keys.corner(7))
	assert.Equal(t, image.Rect(0, 0, 120, 120), keys.keys[0].Bounds())
}

func TestPress(t *testing.T) {
	p, keys, red := testPalette()
	var changed []string
	p.Changed = func(c cpv.Controller) { changed = append(changed, c.Common().Name) }

	if err := p.Press(KeyEvent{Key: 0, Pressed: true}); err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, true, red.Muted)
	assert.Equal(t, color.RGBA{63, 0, 0, 255}, keys.corner(0))

	if err := p.Press(KeyEvent{Key: 0, Pressed: false}); err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, true, red.Muted)

	if err := p.Press(KeyEvent{Key: 0, Pressed: true}); err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, false, red.Muted)
	assert.Equal(t, color.RGBA{255, 0, 0, 255}, keys.corner(0))

	if err := p.Press(KeyEvent{Key: 5, Pressed: true}); err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, []string{"red", "red"}, changed)
}

func TestKeyStates(t *testing.T) {
	buf := []byte{0x00, 0x01, 0x20, 0, 1, 0, 0, 1, 0, 0, 0, 9, 9}
	assert.Equal(t, []byte{0, 1, 0, 0, 1, 0, 0, 0}, keyStates(buf, 8))
	assert.Equal(t, []byte{0, 1}, keyStates(buf[:5], 8))
	assert.Equal(t, 0, len(keyStates(buf[:3], 8)))
}

func TestInk(t *testing.T) {
	assert.Equal(t, color.Black, Ink(color.RGBA{255, 255, 0, 255}))
	assert.Equal(t, color.White, Ink(color.RGBA{0, 0, 128, 255}))
}
