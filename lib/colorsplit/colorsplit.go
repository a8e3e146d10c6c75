// Package colorsplit turns a 0-100 RGB color into the native emitter values
// of a fixture color profile.
//
// The conversions are perceptual approximations tuned by eye on stage, not
// colorimetric transforms. Keep the arithmetic exactly as written: shows are
// programmed against it.
package colorsplit

import (
	"fmt"
	"math"
)

type Profile string

const (
	RGB   Profile = "rgb"
	CMY   Profile = "cmy"
	RGBW  Profile = "rgbw"
	RGBA  Profile = "rgba"
	RGBL  Profile = "rgbl"
	RGBAW Profile = "rgbaw"
	RGBAM Profile = "rgbam"
)

var Profiles = []Profile{RGB, CMY, RGBW, RGBA, RGBL, RGBAW, RGBAM}

func (p Profile) Valid() bool {
	_, ok := converters[p]
	return ok
}

// Subtractive reports whether the profile mixes by removing light.
func (p Profile) Subtractive() bool {
	return p == CMY
}

// Emitters returns the number of values Split produces for the profile.
func (p Profile) Emitters() int {
	return len(p)
}

func (p Profile) String() string {
	return string(p)
}

func ParseProfile(s string) (Profile, error) {
	p := Profile(s)
	if s == "" {
		return RGB, nil
	}
	if !p.Valid() {
		return "", fmt.Errorf("colorsplit: unknown color profile %q", s)
	}
	return p, nil
}

type converter func(r, g, b float64) []float64

var converters = map[Profile]converter{
	RGB:   toRGB,
	CMY:   toCMY,
	RGBW:  toRGBW,
	RGBA:  toRGBA,
	RGBL:  toRGBL,
	RGBAW: toRGBAW,
	RGBAM: toRGBAM,
}

func toRGB(r, g, b float64) []float64 {
	return []float64{r, g, b}
}

func toCMY(r, g, b float64) []float64 {
	return []float64{100 - r, 100 - g, 100 - b}
}

// White carries the common part of all three primaries.
func toRGBW(r, g, b float64) []float64 {
	w := min(r, g, b)
	return []float64{r, g, b, w}
}

// Amber sits between red and green.
func toRGBA(r, g, b float64) []float64 {
	a := min(r, g)
	return []float64{r, g, b, a}
}

// Lime is a green leaning towards yellow.
func toRGBL(r, g, b float64) []float64 {
	l := min(g, (r+g)/2)
	return []float64{r, g, b, l}
}

func toRGBAW(r, g, b float64) []float64 {
	a := min(r, g)
	w := min(r, g, b)
	return []float64{r, g, b, a, w}
}

// Mint sits between green and blue.
func toRGBAM(r, g, b float64) []float64 {
	a := min(r, g)
	m := min(g, b)
	return []float64{r, g, b, a, m}
}

func clamp(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}

// Split converts a 0-100 RGB color to the profile's emitter values.
func Split(p Profile, r, g, b float64) ([]float64, error) {
	conv, ok := converters[p]
	if !ok {
		return nil, fmt.Errorf("colorsplit: unknown color profile %q", p)
	}
	return conv(clamp(r), clamp(g), clamp(b)), nil
}

type Balance struct {
	R, G, B float64
}

var Neutral = Balance{100, 100, 100}

func (wb Balance) Neutral() bool {
	return wb == Neutral
}

// Apply corrects the first three emitter values of a split color for the
// fixture's white balance. Additive profiles scale each primary; the
// subtractive profile scales the amount of filter removed instead. A neutral
// balance returns values unchanged.
func (wb Balance) Apply(p Profile, values []float64) []float64 {
	if wb.Neutral() || len(values) < 3 {
		return values
	}
	out := make([]float64, len(values))
	copy(out, values)
	factors := [3]float64{wb.R, wb.G, wb.B}
	for i, f := range factors {
		if p.Subtractive() {
			out[i] = 100 - ((100 - out[i]) * f / 100)
		} else {
			out[i] = out[i] * f / 100
		}
	}
	return out
}
