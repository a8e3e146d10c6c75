package cpv

import (
	"errors"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"
	"golang.org/x/exp/slices"

	"stagecpv/lib/dialect"
	"stagecpv/lib/osc"
)

func TestEndToEndOSC(t *testing.T) {
	mock, err := osc.NewMockServer("tcp")
	if err != nil {
		t.Fatal(err)
	}
	defer mock.Close()

	client, err := osc.Dial("tcp", mock.Addr())
	if err != nil {
		t.Fatal(err)
	}
	defer client.Close()

	reg := dialect.NewRegistry()
	if err := reg.Register(testDialect()); err != nil {
		t.Fatal(err)
	}
	p, err := New(Config{Console: "test", Patches: testPatch(t), Dialects: reg, Sink: client})
	if err != nil {
		t.Fatal(err)
	}

	c := newDirect("front", 5)
	c.SetValue(Intensity, Scalar(42))
	if err := p.Edit(GateContext{}, c, Intensity, EditOptions{}); err != nil {
		t.Fatal(err)
	}

	msgs := mock.WaitFor(1, time.Second)
	if len(msgs) != 1 {
		t.Fatalf("got %d messages, want 1", len(msgs))
	}
	assert.Equal(t, "/test/cmd", msgs[0].Address)
	assert.Equal(t, []any{"5 at 42 Enter"}, msgs[0].Args)
}

func TestNewUnknownDialect(t *testing.T) {
	_, err := New(Config{Console: "hog", Patches: testPatch(t), Dialects: dialect.NewRegistry(), Sink: &recorder{}})
	var notFound *DialectNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("got %v, want DialectNotFoundError", err)
	}
	assert.Equal(t, "hog", notFound.Console)
	assert.Equal(t, true, errors.Is(err, ErrDialectNotFound))
}

func TestEditMuted(t *testing.T) {
	env := setupTest(t, HTP)
	c := newDirect("a", 1)
	c.SetValue(Intensity, Scalar(10))
	c.Muted = true

	if err := env.p.Edit(GateContext{}, c, Intensity, EditOptions{}); err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, 0, len(env.sink.arguments()))
}

func TestEditSiblingsContinue(t *testing.T) {
	env := setupTest(t, HTP)
	c := newDirect("a", 99, 5)
	c.SetValue(Intensity, Scalar(10))

	err := env.p.Edit(GateContext{}, c, Intensity, EditOptions{})
	assert.Equal(t, true, errors.Is(err, ErrPatchNotFound))
	assert.Equal(t, []string{"5 at 10 Enter"}, env.sink.arguments())
}

type rogue struct {
	Header
}

func (*rogue) Kind() Kind { return KindDirect }

func TestEditUnknownController(t *testing.T) {
	env := setupTest(t, HTP)

	err := env.p.Edit(GateContext{}, &rogue{}, Intensity, EditOptions{})
	assert.Equal(t, true, errors.Is(err, ErrUnknownController))

	err = env.p.Edit(GateContext{}, nil, Intensity, EditOptions{})
	assert.Equal(t, true, errors.Is(err, ErrUnknownController))

	for _, c := range []Controller{(*Direct)(nil), (*Influencer)(nil), (*Brush)(nil), (*Key)(nil), (*Mixer)(nil)} {
		err = env.p.Edit(GateContext{}, c, Intensity, EditOptions{})
		assert.Equal(t, true, errors.Is(err, ErrUnknownController))
		assert.Equal(t, "cpv: nil controller", err.Error())
	}

	if err := env.p.Frame(GateContext{}, []Controller{(*Direct)(nil)}); err != nil {
		t.Fatal(err)
	}
}

func TestEditMirrorsSelection(t *testing.T) {
	env := setupTest(t, HTP)
	a := newDirect("a", 1)
	a.SetValue(Intensity, Scalar(60))
	b := newDirect("b", 2)
	env.selected[a.ID] = []Controller{a, b}

	if err := env.p.Edit(GateContext{}, a, Intensity, EditOptions{}); err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, []string{"1 at 60 Enter"}, env.sink.arguments())

	if err := env.p.Edit(GateContext{}, a, Intensity, EditOptions{AllSelected: true}); err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, []string{"1 at 60 Enter", "2 at 60 Enter", "1 at 60 Enter"}, env.sink.arguments())
	v, _ := b.Value(Intensity)
	assert.Equal(t, Scalar(60), v)
}

func TestEditPropagatesOneLevel(t *testing.T) {
	env := setupTest(t, HTP)
	a := newDirect("a", 1)
	a.Node = true
	a.SetValue(Intensity, Scalar(30))
	b := newDirect("b", 2)
	b.Node = true
	c := newDirect("c", 3)
	env.topology[a.ID] = []Controller{b}
	env.topology[b.ID] = []Controller{c, a}

	if err := env.p.Edit(GateContext{}, a, Intensity, EditOptions{}); err != nil {
		t.Fatal(err)
	}
	got := env.sink.arguments()
	slices.Sort(got)
	assert.Equal(t, []string{"1 at 30 Enter", "2 at 30 Enter"}, got)
	_, ok := c.Value(Intensity)
	assert.Equal(t, false, ok)
}

func TestFrame(t *testing.T) {
	env := setupTest(t, HTP)
	a := newDirect("a", 5, 6)
	a.SetValue(Intensity, Scalar(40))
	a.SetValue(Pan, Scalar(10))
	b := newDirect("b", 5)
	b.SetValue(Intensity, Scalar(70))
	frozen := newDirect("frozen", 4)
	frozen.SetValue(Intensity, Scalar(90))
	frozen.Freeze = FreezeHalf

	gctx := GateContext{Transport: Playing, Frame: 1}
	if err := env.p.Frame(gctx, []Controller{a, b, frozen, nil}); err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, []string{"5 at 70 Enter", "6 at 40 Enter", "5 Thru 6 Pan 10 Enter"}, env.sink.arguments())
	assert.Equal(t, 0, env.p.Pending())
}

func TestFlushEmpty(t *testing.T) {
	env := setupTest(t, HTP)
	if err := env.p.Flush(); err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, 0, len(env.sink.arguments()))
}

func TestParameters(t *testing.T) {
	c := newDirect("a", 1)
	c.SetValue(Zoom, Scalar(1))
	c.SetValue(Color, Color3(1, 1, 1))
	assert.Equal(t, []Parameter{Color, Zoom}, Parameters(c))
	assert.Equal(t, MixerParameters, Parameters(&Mixer{}))
}

func TestForget(t *testing.T) {
	env := setupTest(t, HTP)
	env.scene.place(1, Vec3{})
	k := newKey("", Vec3{}, 2, 50)
	edit(t, env, k, Intensity)
	assert.Equal(t, 1, env.p.Memory().Len())

	env.p.Forget(k.ID)
	assert.Equal(t, 0, env.p.Memory().Len())
}
