package colorsplit

import (
	"fmt"
	"strings"

	"golang.org/x/image/colornames"
	"gopkg.in/yaml.v3"
)

// Named resolves an SVG color name to 0-100 RGB.
func Named(name string) (r, g, b float64, ok bool) {
	c, ok := colornames.Map[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, 0, 0, false
	}
	return float64(c.R) * 100 / 255, float64(c.G) * 100 / 255, float64(c.B) * 100 / 255, true
}

// DecodeColor reads either an SVG color name or a [r, g, b] sequence in 0-100.
func DecodeColor(node *yaml.Node) (r, g, b float64, err error) {
	switch node.Kind {
	case yaml.ScalarNode:
		var ok bool
		r, g, b, ok = Named(node.Value)
		if !ok {
			return 0, 0, 0, fmt.Errorf("line %d: unknown color name %q", node.Line, node.Value)
		}
		return r, g, b, nil
	case yaml.SequenceNode:
		var rgb []float64
		if err := node.Decode(&rgb); err != nil {
			return 0, 0, 0, err
		}
		if len(rgb) != 3 {
			return 0, 0, 0, fmt.Errorf("line %d: color needs 3 components, got %d", node.Line, len(rgb))
		}
		for _, v := range rgb {
			if v < 0 || v > 100 {
				return 0, 0, 0, fmt.Errorf("line %d: color component %g outside 0-100", node.Line, v)
			}
		}
		return rgb[0], rgb[1], rgb[2], nil
	}
	return 0, 0, 0, fmt.Errorf("line %d: color must be a name or [r, g, b]", node.Line)
}

func (wb *Balance) UnmarshalYAML(node *yaml.Node) error {
	r, g, b, err := DecodeColor(node)
	if err != nil {
		return fmt.Errorf("white balance: %w", err)
	}
	*wb = Balance{r, g, b}
	return nil
}

func (p *Profile) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := ParseProfile(node.Value)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
