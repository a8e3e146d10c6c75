package deck

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// KeyImage draws lines of text centered on a square of size sz.
func KeyImage(sz int, bg, fg color.Color, lines ...string) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, sz, sz))
	draw.Draw(img, img.Bounds(), &image.Uniform{bg}, image.Point{}, draw.Src)

	face := basicfont.Face7x13
	metrics := face.Metrics()
	lineHeight := metrics.Height.Ceil()
	y := (sz-lineHeight*len(lines))/2 + metrics.Ascent.Ceil()

	for _, line := range lines {
		d := &font.Drawer{
			Dst:  img,
			Src:  &image.Uniform{fg},
			Face: face,
		}
		d.Dot = fixed.P((sz-d.MeasureString(line).Ceil())/2, y)
		d.DrawString(line)
		y += lineHeight
	}
	return img
}

// Ink picks black or white text for legibility on bg.
func Ink(bg color.RGBA) color.Color {
	if 299*int(bg.R)+587*int(bg.G)+114*int(bg.B) > 128*1000 {
		return color.Black
	}
	return color.White
}
