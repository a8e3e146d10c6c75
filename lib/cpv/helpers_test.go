package cpv

import (
	"sync"
	"testing"

	"stagecpv/lib/colorsplit"
	"stagecpv/lib/dialect"
	"stagecpv/lib/patch"
)

type sent struct {
	address  string
	argument string
}

type recorder struct {
	mu   sync.Mutex
	sent []sent
}

func (r *recorder) Send(address string, argument string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, sent{address, argument})
}

func (r *recorder) arguments() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, s := range r.sent {
		out = append(out, s.argument)
	}
	return out
}

func testDialect() *dialect.Dialect {
	return &dialect.Dialect{
		Name:           "test",
		Address:        "/test/cmd",
		RoundingPoints: 2,
		Format:         dialect.FormatPlain,
		Absolute: map[string]string{
			"intensity":  "# at $ Enter",
			"pan":        "# Pan $ Enter",
			"strobe":     "# Strobe $ Enter",
			"color":      "# Red $1 Green $2 Blue $3 Enter",
			"rgbw_color": "# Red $1 Green $2 Blue $3 White $4 Enter",
		},
		Increase: map[string]string{
			"intensity": "# at + $ Enter",
			"pan":       "# Pan + $ Enter",
		},
		Decrease: map[string]string{
			"intensity": "# at - $ Enter",
			"pan":       "# Pan - $ Enter",
		},
	}
}

func testPatch(t *testing.T) *patch.Store {
	t.Helper()
	store, err := patch.NewStore(
		&patch.Record{Channels: []int{1, 2, 3, 4, 5, 6, 10, 11, 15, 16, 17, 18}},
		&patch.Record{
			Channel: 20,
			Ranges: map[string]patch.Range{
				"pan":    {Min: -270, Max: 270},
				"strobe": {Min: 1, Max: 25},
			},
			SpecialArguments: map[string]patch.SpecialArguments{
				"strobe": {Enable: "# Shutter_Strobe Enter", Disable: "# Shutter_Open Enter"},
			},
		},
		&patch.Record{Channel: 21, ColorProfile: colorsplit.RGBW},
		&patch.Record{Channel: 22, ParameterToggles: map[string]bool{"pan": false}},
	)
	if err != nil {
		t.Fatal(err)
	}
	return store
}

type testEnv struct {
	p        *Pipeline
	sink     *recorder
	scene    *testScene
	topology testTopology
	selected testSelection
}

func setupTest(t *testing.T, harmony HarmonyMode) *testEnv {
	t.Helper()
	reg := dialect.NewRegistry()
	if err := reg.Register(testDialect()); err != nil {
		t.Fatal(err)
	}
	env := &testEnv{
		sink:     &recorder{},
		scene:    &testScene{},
		topology: testTopology{},
		selected: testSelection{},
	}
	p, err := New(Config{
		Console:   "test",
		Harmony:   harmony,
		Patches:   testPatch(t),
		Dialects:  reg,
		Sink:      env.sink,
		Scene:     env.scene,
		Topology:  env.topology,
		Selection: env.selected,
	})
	if err != nil {
		t.Fatal(err)
	}
	env.p = p
	return env
}

type testScene struct {
	rev     uint64
	targets []Target
	keys    map[string][]*Key
}

func (s *testScene) Revision() uint64 { return s.rev }
func (s *testScene) Targets() []Target { return s.targets }
func (s *testScene) Keys(group string) []*Key { return s.keys[group] }

func (s *testScene) place(ch Channel, pos Vec3) {
	for i, t := range s.targets {
		if t.Channel == ch {
			s.targets[i].Position = pos
			s.rev++
			return
		}
	}
	s.targets = append(s.targets, Target{Channel: ch, Position: pos})
	s.rev++
}

type testTopology map[ControllerID][]Controller

func (t testTopology) Downstream(c Controller) []Controller {
	return t[c.Common().ID]
}

type testSelection map[ControllerID][]Controller

func (s testSelection) CoSelected(c Controller) []Controller {
	return s[c.Common().ID]
}

func newDirect(name string, channels ...Channel) *Direct {
	return &Direct{
		Header:   Header{ID: NewControllerID(), Name: name},
		Channels: channels,
	}
}
