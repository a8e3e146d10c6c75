package dialect

import (
	"errors"
	"testing"

	"github.com/go-playground/assert/v2"
)

func TestFormatValue(t *testing.T) {
	plain := &Dialect{RoundingPoints: 1, Format: FormatPlain}
	padded := &Dialect{RoundingPoints: 2, Format: FormatPadded}

	for _, tc := range []struct {
		d    *Dialect
		v    float64
		want string
	}{
		{plain, 42, "42"},
		{plain, 42.26, "42.3"},
		{plain, -0.01, "0"},
		{padded, 5, "05"},
		{padded, 5.125, "05.13"},
		{padded, -3, "-03"},
		{padded, 42, "42"},
		{padded, 100, "100"},
		{padded, 0, "00"},
	} {
		assert.Equal(t, tc.want, tc.d.FormatValue(tc.v))
	}
}

func TestFormatValueIdempotent(t *testing.T) {
	d := &Dialect{RoundingPoints: 2, Format: FormatPadded}
	for _, v := range []float64{0, 3.14159, 57.5, -12.345} {
		assert.Equal(t, d.FormatValue(v), d.FormatValue(v))
	}
}

func TestFill(t *testing.T) {
	assert.Equal(t, "5 at 42 Enter", Fill("# at $ Enter", "5", []string{"42"}))
	assert.Equal(t,
		"Chan 1 Thru 3 Red 10 Green 20 Blue 30 Enter",
		Fill("Chan # Red $1 Green $2 Blue $3 Enter", "1 Thru 3", []string{"10", "20", "30"}))
	assert.Equal(t, "x 1 y", Fill("x # y", "1", nil))
}

func TestFillManyComponents(t *testing.T) {
	vals := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k"}
	assert.Equal(t, "k a", Fill("$11 $1 #", "", vals)[:3])
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, []string{"eos", "ma3"}, r.Names())

	d, err := r.Get("eos")
	if err != nil {
		t.Fatal(err)
	}
	tmpl, ok := d.Template(Absolute, "intensity")
	assert.Equal(t, true, ok)
	assert.Equal(t, "Chan # at $ Enter", tmpl)
	_, ok = d.Template(Increase, "rgb_color")
	assert.Equal(t, false, ok)

	_, err = r.Get("hog4")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestBuiltinValid(t *testing.T) {
	for _, d := range Builtin() {
		if err := d.Validate(); err != nil {
			t.Error(err)
		}
	}
}

func TestParse(t *testing.T) {
	r := NewRegistry()
	err := r.Parse([]byte(`
dialects:
  - name: test
    address: /console/cmd
    rounding_points: 0
    absolute:
      intensity: "# at $ Enter"
    increase:
      intensity: "# at + $ Enter"
`))
	if err != nil {
		t.Fatal(err)
	}
	d, err := r.Get("test")
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, FormatPlain, d.Format)
	assert.Equal(t, "43", d.FormatValue(42.6))
}

func TestParseInvalid(t *testing.T) {
	for _, doc := range []string{
		"dialects:\n  - address: /x\n",
		"dialects:\n  - name: a\n    address: x\n",
		"dialects:\n  - name: a\n    address: /x\n    format: roman\n",
		"dialects:\n  - name: a\n    address: /x\n    absolute:\n      intensity: at $\n",
		"dialects:\n  - name: a\n    address: /x\n    rounding_points: 9\n",
	} {
		if err := NewRegistry().Parse([]byte(doc)); err == nil {
			t.Errorf("expected error for %q", doc)
		}
	}
}
