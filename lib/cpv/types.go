package cpv

import (
	"fmt"
	"math"
)

// Tolerance is the smallest change worth a console command.
const Tolerance = 1e-5

type Channel int

type Parameter string

const (
	Intensity Parameter = "intensity"
	Color     Parameter = "color"
	Pan       Parameter = "pan"
	Tilt      Parameter = "tilt"
	Zoom      Parameter = "zoom"
	Iris      Parameter = "iris"
	Strobe    Parameter = "strobe"
	Diffusion Parameter = "diffusion"
	Edge      Parameter = "edge"
	GoboSpeed Parameter = "gobo_speed"
	Prism     Parameter = "prism"
)

var rangeDependent = map[Parameter]bool{
	Pan:       true,
	Tilt:      true,
	Zoom:      true,
	Iris:      true,
	Edge:      true,
	Strobe:    true,
	GoboSpeed: true,
}

// RangeDependent reports whether the parameter's console value depends on
// the fixture's physical range rather than a plain percentage.
func (p Parameter) RangeDependent() bool {
	return rangeDependent[p]
}

func (p Parameter) IsColor() bool {
	return p == Color
}

type RGB struct {
	R, G, B float64
}

// Value is either a scalar or a color, both in 0-100 normalized space
// (-100-100 for bipolar scalars such as pan).
type Value struct {
	color  bool
	scalar float64
	rgb    RGB
}

func Scalar(v float64) Value {
	return Value{scalar: v}
}

func Color3(r, g, b float64) Value {
	return Value{color: true, rgb: RGB{r, g, b}}
}

func ColorOf(c RGB) Value {
	return Value{color: true, rgb: c}
}

func (v Value) IsColor() bool { return v.color }
func (v Value) Float() float64 { return v.scalar }
func (v Value) RGB() RGB { return v.rgb }

func (v Value) Add(o Value) Value {
	if v.color {
		return Color3(v.rgb.R+o.rgb.R, v.rgb.G+o.rgb.G, v.rgb.B+o.rgb.B)
	}
	return Scalar(v.scalar + o.scalar)
}

func (v Value) Sub(o Value) Value {
	return v.Add(o.Scale(-1))
}

func (v Value) Scale(f float64) Value {
	if v.color {
		return Color3(v.rgb.R*f, v.rgb.G*f, v.rgb.B*f)
	}
	return Scalar(v.scalar * f)
}

func (v Value) Lerp(o Value, t float64) Value {
	return v.Add(o.Sub(v).Scale(t))
}

// Magnitude orders values for precedence: the scalar itself, or the sum of
// the color components.
func (v Value) Magnitude() float64 {
	if v.color {
		return v.rgb.R + v.rgb.G + v.rgb.B
	}
	return v.scalar
}

func (v Value) Clamp(lo, hi float64) Value {
	c := func(x float64) float64 { return math.Max(lo, math.Min(hi, x)) }
	if v.color {
		return Color3(c(v.rgb.R), c(v.rgb.G), c(v.rgb.B))
	}
	return Scalar(c(v.scalar))
}

func (v Value) Near(o Value, tol float64) bool {
	if v.color != o.color {
		return false
	}
	if v.color {
		return math.Abs(v.rgb.R-o.rgb.R) <= tol &&
			math.Abs(v.rgb.G-o.rgb.G) <= tol &&
			math.Abs(v.rgb.B-o.rgb.B) <= tol
	}
	return math.Abs(v.scalar-o.scalar) <= tol
}

func (v Value) String() string {
	if v.color {
		return fmt.Sprintf("(%g, %g, %g)", v.rgb.R, v.rgb.G, v.rgb.B)
	}
	return fmt.Sprintf("%g", v.scalar)
}

// Mode says whether a request sets a value or nudges it relative to what
// the console already has.
type Mode int

const (
	Absolute Mode = iota
	Raise
	Lower
)

func (m Mode) Prefix() string {
	switch m {
	case Raise:
		return "raise_"
	case Lower:
		return "lower_"
	}
	return ""
}

func (m Mode) String() string {
	switch m {
	case Absolute:
		return "absolute"
	case Raise:
		return "raise"
	case Lower:
		return "lower"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

type Request struct {
	Source    Controller
	Channel   Channel
	Parameter Parameter
	Mode      Mode
	Value     Value
}

// Key is the argument name the request renders through, e.g. raise_intensity.
func (r Request) Key() string {
	return r.Mode.Prefix() + string(r.Parameter)
}

func (r Request) String() string {
	return fmt.Sprintf("%d %s %s", r.Channel, r.Key(), r.Value)
}

func (r Request) sourceID() ControllerID {
	if r.Source == nil {
		return ""
	}
	return r.Source.Common().ID
}

// relative builds a raise or lower request for a signed delta, or reports
// false when the delta is too small to send.
func relative(src Controller, ch Channel, param Parameter, delta float64) (Request, bool) {
	if math.Abs(delta) <= Tolerance {
		return Request{}, false
	}
	mode := Raise
	if delta < 0 {
		mode = Lower
	}
	return Request{
		Source:    src,
		Channel:   ch,
		Parameter: param,
		Mode:      mode,
		Value:     Scalar(math.Abs(delta)),
	}, true
}

type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

func (v Vec3) Len() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}
