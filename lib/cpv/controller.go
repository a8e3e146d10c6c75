package cpv

import (
	"fmt"

	"github.com/oklog/ulid/v2"
)

type ControllerID string

func NewControllerID() ControllerID {
	return ControllerID(ulid.Make().String())
}

type Kind int

const (
	KindDirect Kind = iota
	KindInfluencer
	KindBrush
	KindKey
	KindMixer
)

func (k Kind) String() string {
	switch k {
	case KindDirect:
		return "direct"
	case KindInfluencer:
		return "influencer"
	case KindBrush:
		return "brush"
	case KindKey:
		return "key"
	case KindMixer:
		return "mixer"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

func (k Kind) Valid() bool {
	return k >= KindDirect && k <= KindMixer
}

// Category is the host class a controller lives in, each of which can be
// switched off as a whole.
type Category int

const (
	CategoryObject Category = iota
	CategoryStrip
	CategoryNode
)

// FreezeMode thins a controller's updates during playback.
type FreezeMode int

const (
	FreezeNone FreezeMode = iota
	// FreezeHalf updates on even frames only.
	FreezeHalf
	// FreezeThird updates on every third frame.
	FreezeThird
)

// Header is the state every controller kind shares.
type Header struct {
	ID       ControllerID
	Name     string
	Category Category
	Muted    bool
	Solo     bool
	Freeze   FreezeMode

	// Influence reads like a vote weight but democracy averaging does not
	// use it; every contributor counts once.
	Influence float64

	Values  map[Parameter]Value
	Toggles map[Parameter]bool
}

func (h *Header) Common() *Header {
	return h
}

func (h *Header) Value(p Parameter) (Value, bool) {
	v, ok := h.Values[p]
	return v, ok
}

func (h *Header) SetValue(p Parameter, v Value) {
	if h.Values == nil {
		h.Values = map[Parameter]Value{}
	}
	h.Values[p] = v
}

// Enabled reports the per-parameter toggle. Parameters without a toggle are on.
func (h *Header) Enabled(p Parameter) bool {
	on, ok := h.Toggles[p]
	return !ok || on
}

// Controller is one of *Direct, *Influencer, *Brush, *Key or *Mixer.
type Controller interface {
	Kind() Kind
	Common() *Header
}

// isNil reports a nil interface or a nil pointer of one of the kinds, which
// has no Header to read.
func isNil(c Controller) bool {
	switch c := c.(type) {
	case nil:
		return true
	case *Direct:
		return c == nil
	case *Influencer:
		return c == nil
	case *Brush:
		return c == nil
	case *Key:
		return c == nil
	case *Mixer:
		return c == nil
	}
	return false
}

// Direct passes values straight through to its channels.
type Direct struct {
	Header
	Channels []Channel
	// Node marks a node-graph group whose downstream groups follow its values.
	Node bool
}

func (*Direct) Kind() Kind { return KindDirect }

// Spatial describes a field that affects fixtures by position. Influencers
// and brushes use the box Position±Extent, keys the sphere of Radius.
type Spatial struct {
	Position    Vec3
	Extent      Vec3
	Radius      float64
	Sensitivity float64
	Erasing     bool
	Group       string
	Restore     RGB
}

func (s *Spatial) Contains(p Vec3) bool {
	d := p.Sub(s.Position)
	return abs(d.X) <= s.Extent.X && abs(d.Y) <= s.Extent.Y && abs(d.Z) <= s.Extent.Z
}

// Strength is the key field strength at p, negative while erasing.
func (s *Spatial) Strength(p Vec3) float64 {
	if s.Radius <= 0 {
		return 0
	}
	st := max(0, (1-p.Sub(s.Position).Len()/s.Radius)*s.Sensitivity)
	if s.Erasing {
		return -st
	}
	return st
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// Influencer adds its values to fixtures while they are inside it and takes
// them back when they leave.
type Influencer struct {
	Header
	Spatial
}

func (*Influencer) Kind() Kind { return KindInfluencer }

// Brush paints fixtures once on entry and leaves the paint behind.
type Brush struct {
	Header
	Spatial
}

func (*Brush) Kind() Kind { return KindBrush }

// Key contributes to a blended field shared by all keys of its group.
type Key struct {
	Header
	Spatial
}

func (*Key) Kind() Kind { return KindKey }

type BlendMode int

const (
	BlendInterpolate BlendMode = iota
	BlendPattern
	BlendPose
)

func (b BlendMode) String() string {
	switch b {
	case BlendInterpolate:
		return "interpolate"
	case BlendPattern:
		return "pattern"
	case BlendPose:
		return "pose"
	}
	return fmt.Sprintf("blend(%d)", int(b))
}

type MixerChoice struct {
	Intensity float64
	Color     RGB
	Pan       float64
	Tilt      float64
	Zoom      float64
	Iris      float64
}

var MixerParameters = []Parameter{Intensity, Color, Pan, Tilt, Zoom, Iris}

func (m MixerChoice) Get(p Parameter) (Value, bool) {
	switch p {
	case Intensity:
		return Scalar(m.Intensity), true
	case Color:
		return ColorOf(m.Color), true
	case Pan:
		return Scalar(m.Pan), true
	case Tilt:
		return Scalar(m.Tilt), true
	case Zoom:
		return Scalar(m.Zoom), true
	case Iris:
		return Scalar(m.Iris), true
	}
	return Value{}, false
}

func (m *MixerChoice) Set(p Parameter, v Value) {
	switch p {
	case Intensity:
		m.Intensity = v.Float()
	case Color:
		m.Color = v.RGB()
	case Pan:
		m.Pan = v.Float()
	case Tilt:
		m.Tilt = v.Float()
	case Zoom:
		m.Zoom = v.Float()
	case Iris:
		m.Iris = v.Float()
	}
}

// Mixer spreads an ordered list of choices across its channels.
type Mixer struct {
	Header
	Channels     []Channel
	Choices      []MixerChoice
	Blend        BlendMode
	Offset       float64
	Subdivisions int
	// MotorScale attenuates pose output, 0 silences and 1 leaves it as is.
	MotorScale float64
	// Progress selects the pose pair, in [0,1).
	Progress float64
}

func (*Mixer) Kind() Kind { return KindMixer }

// Choices are only added or removed at the ends so that pose indices stay
// stable.

func (m *Mixer) Append(c MixerChoice) {
	m.Choices = append(m.Choices, c)
}

func (m *Mixer) Prepend(c MixerChoice) {
	m.Choices = append([]MixerChoice{c}, m.Choices...)
}

func (m *Mixer) RemoveLast() (MixerChoice, bool) {
	if len(m.Choices) == 0 {
		return MixerChoice{}, false
	}
	c := m.Choices[len(m.Choices)-1]
	m.Choices = m.Choices[:len(m.Choices)-1]
	return c, true
}

func (m *Mixer) RemoveFirst() (MixerChoice, bool) {
	if len(m.Choices) == 0 {
		return MixerChoice{}, false
	}
	c := m.Choices[0]
	m.Choices = m.Choices[1:]
	return c, true
}
