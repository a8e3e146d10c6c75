// Package dialect describes how a console expects parameter commands to be
// spelled: which OSC address takes command-line input, which template
// builds each command, and how numbers are written.
//
// Templates use three placeholders: # is the channel expression, $ is a
// single value, and $1..$n are the components of a multi-emitter color.
package dialect

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var ErrNotFound = errors.New("dialect: not found")

type Table int

const (
	Absolute Table = iota
	Increase
	Decrease
)

func (t Table) String() string {
	switch t {
	case Absolute:
		return "absolute"
	case Increase:
		return "increase"
	case Decrease:
		return "decrease"
	}
	return fmt.Sprintf("table(%d)", int(t))
}

type Format string

const (
	// FormatPlain writes the shortest decimal form.
	FormatPlain Format = "plain"
	// FormatPadded zero-pads values below ten ("05"), for consoles that read
	// a single digit as tens of percent.
	FormatPadded Format = "padded"
)

type Dialect struct {
	Name           string            `yaml:"name"`
	Address        string            `yaml:"address"`
	RoundingPoints int               `yaml:"rounding_points"`
	Format         Format            `yaml:"format"`
	Absolute       map[string]string `yaml:"absolute"`
	Increase       map[string]string `yaml:"increase"`
	Decrease       map[string]string `yaml:"decrease"`
}

func (d *Dialect) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("dialect: missing name")
	}
	if !strings.HasPrefix(d.Address, "/") {
		return fmt.Errorf("dialect %s: address %q must start with /", d.Name, d.Address)
	}
	if d.RoundingPoints < 0 || d.RoundingPoints > 6 {
		return fmt.Errorf("dialect %s: rounding_points %d outside 0-6", d.Name, d.RoundingPoints)
	}
	switch d.Format {
	case "", FormatPlain, FormatPadded:
	default:
		return fmt.Errorf("dialect %s: unknown format %q", d.Name, d.Format)
	}
	for _, tables := range []map[string]string{d.Absolute, d.Increase, d.Decrease} {
		for key, tmpl := range tables {
			if !strings.Contains(tmpl, "#") {
				return fmt.Errorf("dialect %s: template %q has no channel placeholder", d.Name, key)
			}
		}
	}
	return nil
}

func (d *Dialect) Template(t Table, key string) (string, bool) {
	var tables map[string]string
	switch t {
	case Absolute:
		tables = d.Absolute
	case Increase:
		tables = d.Increase
	case Decrease:
		tables = d.Decrease
	}
	tmpl, ok := tables[key]
	return tmpl, ok
}

func (d *Dialect) Round(v float64) float64 {
	p := math.Pow(10, float64(d.RoundingPoints))
	r := math.Round(v*p) / p
	if r == 0 {
		return 0
	}
	return r
}

// FormatValue rounds v to the dialect precision and writes it in the
// dialect's number format.
func (d *Dialect) FormatValue(v float64) string {
	s := strconv.FormatFloat(d.Round(v), 'f', -1, 64)
	if d.Format != FormatPadded {
		return s
	}
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	if whole, _, _ := strings.Cut(s, "."); len(whole) == 1 {
		s = "0" + s
	}
	return sign + s
}

// Fill substitutes the channel expression and values into tmpl.
func Fill(tmpl string, channels string, values []string) string {
	out := tmpl
	for i := len(values); i >= 1; i-- {
		out = strings.ReplaceAll(out, "$"+strconv.Itoa(i), values[i-1])
	}
	if len(values) > 0 {
		out = strings.ReplaceAll(out, "$", values[0])
	}
	return strings.ReplaceAll(out, "#", channels)
}
