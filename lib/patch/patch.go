// Package patch holds the per-channel physical facts of the rig: ranges,
// color mixing, white balance and the special enable/disable commands some
// parameters need.
package patch

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"

	"stagecpv/lib/colorsplit"
)

var ErrNotFound = errors.New("patch: channel not patched")

type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// Bipolar reports whether the range can go negative, like pan around a center.
func (r Range) Bipolar() bool {
	return r.Min < 0 && r.Max >= 0
}

type SpecialArguments struct {
	Enable  string `yaml:"enable"`
	Disable string `yaml:"disable"`
}

type Record struct {
	Channel          int                         `yaml:"channel"`
	Channels         []int                       `yaml:"channels,omitempty"`
	ColorProfile     colorsplit.Profile          `yaml:"color_profile"`
	WhiteBalance     *colorsplit.Balance         `yaml:"white_balance,omitempty"`
	Ranges           map[string]Range            `yaml:"ranges,omitempty"`
	SpecialArguments map[string]SpecialArguments `yaml:"special_arguments,omitempty"`
	ParameterToggles map[string]bool             `yaml:"parameter_toggles,omitempty"`
}

func (r *Record) Balance() colorsplit.Balance {
	if r.WhiteBalance == nil {
		return colorsplit.Neutral
	}
	return *r.WhiteBalance
}

func (r *Record) Range(param string) (Range, bool) {
	rng, ok := r.Ranges[param]
	return rng, ok
}

func (r *Record) Special(param string) (SpecialArguments, bool) {
	sa, ok := r.SpecialArguments[param]
	return sa, ok
}

// Enabled reports the fixture-level toggle for param; unlisted parameters are on.
func (r *Record) Enabled(param string) bool {
	on, ok := r.ParameterToggles[param]
	return !ok || on
}

type Store struct {
	records map[int]*Record
}

func NewStore(records ...*Record) (*Store, error) {
	s := &Store{records: map[int]*Record{}}
	for _, rec := range records {
		if err := s.Add(rec); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Add patches rec on its channel and on every entry of rec.Channels.
func (s *Store) Add(rec *Record) error {
	channels := rec.Channels
	if rec.Channel != 0 {
		channels = append([]int{rec.Channel}, channels...)
	}
	if len(channels) == 0 {
		return fmt.Errorf("patch: record has no channel")
	}
	if rec.ColorProfile == "" {
		rec.ColorProfile = colorsplit.RGB
	}
	if err := rec.Validate(); err != nil {
		return err
	}
	for _, ch := range channels {
		if ch <= 0 {
			return fmt.Errorf("patch: invalid channel %d", ch)
		}
		if _, ok := s.records[ch]; ok {
			return fmt.Errorf("patch: duplicate channel %d", ch)
		}
		c := *rec
		c.Channel = ch
		c.Channels = nil
		s.records[ch] = &c
	}
	return nil
}

func (s *Store) Get(channel int) (*Record, error) {
	rec, ok := s.records[channel]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrNotFound, channel)
	}
	return rec, nil
}

func (s *Store) Channels() []int {
	chans := maps.Keys(s.records)
	slices.Sort(chans)
	return chans
}

func (r *Record) Validate() error {
	if !r.ColorProfile.Valid() {
		return fmt.Errorf("patch: channel %d: unknown color profile %q", r.Channel, r.ColorProfile)
	}
	for param, rng := range r.Ranges {
		if rng.Min >= rng.Max {
			return fmt.Errorf("patch: channel %d: %s range min %g must be below max %g", r.Channel, param, rng.Min, rng.Max)
		}
	}
	for param, sa := range r.SpecialArguments {
		if sa.Enable == "" && sa.Disable == "" {
			return fmt.Errorf("patch: channel %d: %s special arguments are empty", r.Channel, param)
		}
	}
	return nil
}

type file struct {
	Patch []*Record `yaml:"patch"`
}

func Parse(buf []byte) (*Store, error) {
	var f file
	if err := yaml.Unmarshal(buf, &f); err != nil {
		return nil, fmt.Errorf("patch: %w", err)
	}
	return NewStore(f.Patch...)
}

func LoadFile(path string) (*Store, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(buf)
}
