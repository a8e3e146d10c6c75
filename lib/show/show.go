// Package show loads a show file and keeps the live controllers, fixture
// positions, node graph and selections the pipeline asks about.
package show

import (
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"stagecpv/lib/cpv"
)

type Show struct {
	Console string
	Harmony cpv.HarmonyMode
	Flags   cpv.Flags

	mu          sync.Mutex
	revision    uint64
	targets     []cpv.Target
	controllers []cpv.Controller
	byName      map[string]cpv.Controller
	downstream  map[cpv.ControllerID][]cpv.Controller
	selected    map[cpv.ControllerID][]cpv.Controller
	keys        map[string][]*cpv.Key
}

func Parse(buf []byte) (*Show, error) {
	var f File
	if err := yaml.Unmarshal(buf, &f); err != nil {
		return nil, fmt.Errorf("show: %w", err)
	}
	return New(&f)
}

func LoadFile(path string) (*Show, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(buf)
}

func New(f *File) (*Show, error) {
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("show: %w", err)
	}

	s := &Show{
		Console:    f.Console,
		Harmony:    f.Harmony,
		Flags:      f.Flags,
		revision:   1,
		byName:     map[string]cpv.Controller{},
		downstream: map[cpv.ControllerID][]cpv.Controller{},
		selected:   map[cpv.ControllerID][]cpv.Controller{},
		keys:       map[string][]*cpv.Key{},
	}
	for _, fx := range f.Fixtures {
		s.targets = append(s.targets, cpv.Target{Channel: cpv.Channel(fx.Channel), Position: cpv.Vec3(fx.Position)})
	}
	for _, spec := range f.Controllers {
		c := build(spec)
		s.controllers = append(s.controllers, c)
		s.byName[spec.Name] = c
		if k, ok := c.(*cpv.Key); ok {
			s.keys[k.Group] = append(s.keys[k.Group], k)
		}
	}
	for _, spec := range f.Controllers {
		id := s.byName[spec.Name].Common().ID
		for _, name := range spec.Downstream {
			s.downstream[id] = append(s.downstream[id], s.byName[name])
		}
	}
	for _, sel := range f.Selections {
		for _, name := range sel {
			id := s.byName[name].Common().ID
			for _, other := range sel {
				if other != name {
					s.selected[id] = append(s.selected[id], s.byName[other])
				}
			}
		}
	}
	return s, nil
}

func build(spec *ControllerSpec) cpv.Controller {
	category, _ := parseCategory(spec.Category)
	freeze, _ := parseFreeze(spec.Freeze)
	h := cpv.Header{
		ID:        cpv.NewControllerID(),
		Name:      spec.Name,
		Category:  category,
		Muted:     spec.Muted,
		Solo:      spec.Solo,
		Freeze:    freeze,
		Influence: spec.Influence,
		Values:    map[cpv.Parameter]cpv.Value{},
		Toggles:   map[cpv.Parameter]bool{},
	}
	for param, v := range spec.Values {
		h.Values[cpv.Parameter(param)] = v.Value
	}
	for param, on := range spec.Toggles {
		h.Toggles[cpv.Parameter(param)] = on
	}

	channels := make([]cpv.Channel, len(spec.Channels))
	for i, ch := range spec.Channels {
		channels[i] = cpv.Channel(ch)
	}

	sp := cpv.Spatial{
		Position:    cpv.Vec3(spec.Position),
		Extent:      cpv.Vec3(spec.Extent),
		Radius:      spec.Radius,
		Sensitivity: spec.Sensitivity,
		Erasing:     spec.Erasing,
		Group:       spec.Group,
		Restore:     cpv.RGB{R: 100, G: 100, B: 100},
	}
	if spec.Sensitivity == 0 {
		sp.Sensitivity = 1
	}
	if spec.Restore != nil {
		sp.Restore = spec.Restore.RGB()
	}

	switch spec.Type {
	case Influencer:
		return &cpv.Influencer{Header: h, Spatial: sp}
	case Brush:
		return &cpv.Brush{Header: h, Spatial: sp}
	case Key:
		return &cpv.Key{Header: h, Spatial: sp}
	case Mixer:
		blend, _ := parseBlend(spec.Blend)
		m := &cpv.Mixer{
			Header:       h,
			Channels:     channels,
			Blend:        blend,
			Offset:       spec.Offset,
			Subdivisions: max(1, spec.Subdivisions),
			MotorScale:   1,
			Progress:     spec.Progress,
		}
		if spec.MotorScale != nil {
			m.MotorScale = *spec.MotorScale
		}
		for _, c := range spec.Choices {
			choice := cpv.MixerChoice{
				Intensity: c.Intensity,
				Pan:       c.Pan,
				Tilt:      c.Tilt,
				Zoom:      c.Zoom,
				Iris:      c.Iris,
			}
			if c.Color != nil {
				choice.Color = c.Color.RGB()
			}
			m.Append(choice)
		}
		return m
	}
	return &cpv.Direct{Header: h, Channels: channels, Node: spec.Node}
}

func (s *Show) Controllers() []cpv.Controller {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]cpv.Controller(nil), s.controllers...)
}

func (s *Show) Controller(name string) (cpv.Controller, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.byName[name]
	return c, ok
}

func (s *Show) Revision() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revision
}

func (s *Show) Targets() []cpv.Target {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]cpv.Target(nil), s.targets...)
}

func (s *Show) Keys(group string) []*cpv.Key {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.keys[group]
}

// Move places the fixture on channel ch at pos, adding it if needed.
func (s *Show) Move(ch cpv.Channel, pos cpv.Vec3) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revision++
	for i := range s.targets {
		if s.targets[i].Channel == ch {
			s.targets[i].Position = pos
			return
		}
	}
	s.targets = append(s.targets, cpv.Target{Channel: ch, Position: pos})
}

func (s *Show) Downstream(c cpv.Controller) []cpv.Controller {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.downstream[c.Common().ID]
}

// Upstream lists the node groups c follows.
func (s *Show) Upstream(c cpv.Controller) []cpv.Controller {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []cpv.Controller
	for _, from := range s.controllers {
		for _, d := range s.downstream[from.Common().ID] {
			if d.Common().ID == c.Common().ID {
				out = append(out, from)
				break
			}
		}
	}
	return out
}

func (s *Show) CoSelected(c cpv.Controller) []cpv.Controller {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected[c.Common().ID]
}

// Remove deletes the named controller and reports its id so that its
// influence memory can be dropped.
func (s *Show) Remove(name string) (cpv.ControllerID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.byName[name]
	if !ok {
		return "", false
	}
	id := c.Common().ID
	delete(s.byName, name)
	delete(s.downstream, id)
	delete(s.selected, id)
	s.controllers = without(s.controllers, id)
	for from, cs := range s.downstream {
		s.downstream[from] = without(cs, id)
	}
	for from, cs := range s.selected {
		s.selected[from] = without(cs, id)
	}
	if k, ok := c.(*cpv.Key); ok {
		var keep []*cpv.Key
		for _, o := range s.keys[k.Group] {
			if o != k {
				keep = append(keep, o)
			}
		}
		s.keys[k.Group] = keep
	}
	return id, true
}

func without(cs []cpv.Controller, id cpv.ControllerID) []cpv.Controller {
	var out []cpv.Controller
	for _, c := range cs {
		if c.Common().ID != id {
			out = append(out, c)
		}
	}
	return out
}
