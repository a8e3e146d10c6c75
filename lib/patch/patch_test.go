package patch

import (
	"errors"
	"testing"

	"github.com/go-playground/assert/v2"

	"stagecpv/lib/colorsplit"
)

const testPatch = `
patch:
  - channel: 1
    color_profile: rgbw
    white_balance: [100, 90, 80]
    ranges:
      pan: {min: -270, max: 270}
      zoom: {min: 5, max: 50}
    special_arguments:
      strobe: {enable: "# Shutter_Strobe Enter", disable: "# Shutter_Open Enter"}
  - channels: [2, 3, 4]
    color_profile: cmy
    parameter_toggles:
      iris: false
  - channel: 10
`

func TestParse(t *testing.T) {
	s, err := Parse([]byte(testPatch))
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, []int{1, 2, 3, 4, 10}, s.Channels())

	rec, err := s.Get(1)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, colorsplit.RGBW, rec.ColorProfile)
	assert.Equal(t, colorsplit.Balance{R: 100, G: 90, B: 80}, rec.Balance())
	pan, ok := rec.Range("pan")
	assert.Equal(t, true, ok)
	assert.Equal(t, true, pan.Bipolar())
	zoom, _ := rec.Range("zoom")
	assert.Equal(t, false, zoom.Bipolar())
	sa, ok := rec.Special("strobe")
	assert.Equal(t, true, ok)
	assert.Equal(t, "# Shutter_Open Enter", sa.Disable)

	rec, err = s.Get(3)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, 3, rec.Channel)
	assert.Equal(t, colorsplit.CMY, rec.ColorProfile)
	assert.Equal(t, false, rec.Enabled("iris"))
	assert.Equal(t, true, rec.Enabled("zoom"))

	rec, _ = s.Get(10)
	assert.Equal(t, colorsplit.RGB, rec.ColorProfile)
	assert.Equal(t, true, rec.Balance().Neutral())
}

func TestGetNotFound(t *testing.T) {
	s, _ := NewStore()
	_, err := s.Get(99)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestParseErrors(t *testing.T) {
	for _, doc := range []string{
		"patch:\n  - channel: 1\n    color_profile: hsv\n",
		"patch:\n  - channel: 1\n  - channel: 1\n",
		"patch:\n  - color_profile: rgb\n",
		"patch:\n  - channel: 1\n    ranges:\n      pan: {min: 10, max: 10}\n",
		"patch:\n  - channel: 1\n    special_arguments:\n      strobe: {}\n",
		"patch:\n  - channels: [0]\n",
	} {
		if _, err := Parse([]byte(doc)); err == nil {
			t.Errorf("expected error for %q", doc)
		}
	}
}

func TestLoadSample(t *testing.T) {
	s, err := LoadFile("../../patch.yaml")
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, []int{1, 2, 3, 4, 11, 12, 21}, s.Channels())
	rec, err := s.Get(12)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, true, rec.Ranges["pan"].Bipolar())
	assert.Equal(t, "Shutter Open", rec.SpecialArguments["strobe"].Disable)
}
