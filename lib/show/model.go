package show

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"

	"stagecpv/lib/colorsplit"
	"stagecpv/lib/cpv"
)

type ControllerType string

const (
	Direct     ControllerType = "direct"
	Influencer ControllerType = "influencer"
	Brush      ControllerType = "brush"
	Key        ControllerType = "key"
	Mixer      ControllerType = "mixer"
)

type File struct {
	Console     string            `yaml:"console"`
	Harmony     cpv.HarmonyMode   `yaml:"harmony"`
	Flags       cpv.Flags         `yaml:"flags"`
	Fixtures    []Fixture         `yaml:"fixtures"`
	Controllers []*ControllerSpec `yaml:"controllers"`
	Selections  [][]string        `yaml:"selections"`
}

type Fixture struct {
	Channel  int  `yaml:"channel"`
	Position Vec3 `yaml:"position"`
}

type ControllerSpec struct {
	Name      string         `yaml:"name"`
	Type      ControllerType `yaml:"type"`
	Category  string         `yaml:"category"`
	Muted     bool           `yaml:"muted"`
	Solo      bool           `yaml:"solo"`
	Freeze    string         `yaml:"freeze"`
	Influence float64        `yaml:"influence"`

	Values  map[string]Value `yaml:"values"`
	Toggles map[string]bool  `yaml:"toggles"`

	// direct and mixer
	Channels []int `yaml:"channels"`

	// direct
	Node       bool     `yaml:"node"`
	Downstream []string `yaml:"downstream"`

	// influencer, brush and key
	Position    Vec3    `yaml:"position"`
	Extent      Vec3    `yaml:"extent"`
	Radius      float64 `yaml:"radius"`
	Sensitivity float64 `yaml:"sensitivity"`
	Erasing     bool    `yaml:"erasing"`
	Group       string  `yaml:"group"`
	Restore     *Value  `yaml:"restore"`

	// mixer
	Blend        string    `yaml:"blend"`
	Offset       float64   `yaml:"offset"`
	Subdivisions int       `yaml:"subdivisions"`
	MotorScale   *float64  `yaml:"motor_scale"`
	Progress     float64   `yaml:"progress"`
	Choices      []*Choice `yaml:"choices"`
}

type Choice struct {
	Intensity float64 `yaml:"intensity"`
	Color     *Value  `yaml:"color"`
	Pan       float64 `yaml:"pan"`
	Tilt      float64 `yaml:"tilt"`
	Zoom      float64 `yaml:"zoom"`
	Iris      float64 `yaml:"iris"`
}

type Vec3 cpv.Vec3

func (v *Vec3) UnmarshalYAML(node *yaml.Node) error {
	var xyz []float64
	if err := node.Decode(&xyz); err != nil {
		return err
	}
	if len(xyz) != 3 {
		return fmt.Errorf("line %d: position needs 3 components, got %d", node.Line, len(xyz))
	}
	*v = Vec3{xyz[0], xyz[1], xyz[2]}
	return nil
}

// Value is a number, a color name or an [r, g, b] list.
type Value struct {
	cpv.Value
}

func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		if f, err := strconv.ParseFloat(node.Value, 64); err == nil {
			v.Value = cpv.Scalar(f)
			return nil
		}
	}
	r, g, b, err := colorsplit.DecodeColor(node)
	if err != nil {
		return err
	}
	v.Value = cpv.Color3(r, g, b)
	return nil
}

func (c *ControllerSpec) hasSpatial() bool {
	switch c.Type {
	case Influencer, Brush, Key:
		return true
	}
	return false
}

func (f *File) Validate() error {
	if f == nil {
		return fmt.Errorf("show is nil")
	}

	fixtures := map[int]bool{}
	for _, fx := range f.Fixtures {
		if fx.Channel <= 0 {
			return fmt.Errorf("fixture channel %d must be positive", fx.Channel)
		}
		if fixtures[fx.Channel] {
			return fmt.Errorf("duplicate fixture channel %d", fx.Channel)
		}
		fixtures[fx.Channel] = true
	}

	byName := map[string]*ControllerSpec{}
	for _, c := range f.Controllers {
		if c.Name == "" {
			return fmt.Errorf("controller without name")
		}
		if byName[c.Name] != nil {
			return fmt.Errorf("duplicate controller name %q", c.Name)
		}
		byName[c.Name] = c

		switch c.Type {
		case Direct, Mixer:
			if len(c.Channels) == 0 {
				return fmt.Errorf("%s %q has no channels", c.Type, c.Name)
			}
		case Influencer, Brush:
			if c.Extent.X < 0 || c.Extent.Y < 0 || c.Extent.Z < 0 {
				return fmt.Errorf("%s %q has a negative extent", c.Type, c.Name)
			}
		case Key:
			if c.Radius <= 0 {
				return fmt.Errorf("key %q needs a positive radius", c.Name)
			}
		default:
			return fmt.Errorf("controller %q has unknown type %q", c.Name, c.Type)
		}
		if !c.hasSpatial() && (c.Radius != 0 || c.Erasing || c.Group != "") {
			return fmt.Errorf("%s %q cannot have radius, erasing or group", c.Type, c.Name)
		}
		if c.Type != Mixer && len(c.Choices) > 0 {
			return fmt.Errorf("%s %q cannot have choices", c.Type, c.Name)
		}
		if len(c.Downstream) > 0 && (c.Type != Direct || !c.Node) {
			return fmt.Errorf("controller %q has downstream groups but is not a direct node", c.Name)
		}
		if _, err := parseCategory(c.Category); err != nil {
			return fmt.Errorf("controller %q: %w", c.Name, err)
		}
		if _, err := parseFreeze(c.Freeze); err != nil {
			return fmt.Errorf("controller %q: %w", c.Name, err)
		}
		if _, err := parseBlend(c.Blend); err != nil {
			return fmt.Errorf("controller %q: %w", c.Name, err)
		}
		for param, v := range c.Values {
			if cpv.Parameter(param).IsColor() != v.IsColor() {
				return fmt.Errorf("controller %q: value for %s has the wrong type", c.Name, param)
			}
		}
		if c.Restore != nil && !c.Restore.IsColor() {
			return fmt.Errorf("controller %q: restore must be a color", c.Name)
		}
	}

	for _, c := range f.Controllers {
		for _, name := range c.Downstream {
			d := byName[name]
			if d == nil {
				return fmt.Errorf("controller %q: downstream %q not found", c.Name, name)
			}
			if d.Type != Direct {
				return fmt.Errorf("controller %q: downstream %q is a %s, not a direct group", c.Name, name, d.Type)
			}
			if name == c.Name {
				return fmt.Errorf("controller %q is downstream of itself", c.Name)
			}
		}
	}

	for i, sel := range f.Selections {
		for _, name := range sel {
			if byName[name] == nil {
				return fmt.Errorf("selection %d: controller %q not found", i, name)
			}
		}
	}
	return nil
}

func parseCategory(s string) (cpv.Category, error) {
	switch s {
	case "", "object":
		return cpv.CategoryObject, nil
	case "strip":
		return cpv.CategoryStrip, nil
	case "node":
		return cpv.CategoryNode, nil
	}
	return 0, fmt.Errorf("unknown category %q", s)
}

func parseFreeze(s string) (cpv.FreezeMode, error) {
	switch s {
	case "", "none":
		return cpv.FreezeNone, nil
	case "half":
		return cpv.FreezeHalf, nil
	case "third":
		return cpv.FreezeThird, nil
	}
	return 0, fmt.Errorf("unknown freeze %q", s)
}

func parseBlend(s string) (cpv.BlendMode, error) {
	switch s {
	case "", "interpolate":
		return cpv.BlendInterpolate, nil
	case "pattern":
		return cpv.BlendPattern, nil
	case "pose":
		return cpv.BlendPose, nil
	}
	return 0, fmt.Errorf("unknown blend %q", s)
}
