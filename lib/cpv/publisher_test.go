package cpv

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-playground/assert/v2"

	"stagecpv/lib/dialect"
	"stagecpv/lib/patch"
)

func render(t *testing.T, pub *Publisher, req Request) string {
	t.Helper()
	r, err := pub.Render(req)
	if err != nil {
		t.Fatal(err)
	}
	return r.Command(fmt.Sprint(req.Channel))
}

func TestMapRange(t *testing.T) {
	pan := patch.Range{Min: -270, Max: 270}
	strobe := patch.Range{Min: 1, Max: 25}

	assert.Equal(t, 135.0, MapRange(pan, 50, false))
	assert.Equal(t, -135.0, MapRange(pan, -50, false))
	assert.Equal(t, 0.0, MapRange(pan, 0, false))
	assert.Equal(t, 1.0, MapRange(strobe, 0, false))
	assert.Equal(t, 25.0, MapRange(strobe, 100, false))
	assert.Equal(t, 12.0, MapRange(strobe, 50, true))
}

func TestMapRangeMonotonic(t *testing.T) {
	for _, rng := range []patch.Range{{Min: -270, Max: 270}, {Min: 1, Max: 25}, {Min: 0, Max: 100}} {
		prev := MapRange(rng, -100, false)
		for v := -99.0; v <= 100; v++ {
			cur := MapRange(rng, v, false)
			if cur < prev {
				t.Errorf("%v: MapRange(%g)=%g below MapRange(%g)=%g", rng, v, cur, v-1, prev)
			}
			prev = cur
		}
	}
}

func TestRender(t *testing.T) {
	pub := &Publisher{Patches: testPatch(t), Dialect: testDialect()}

	for _, tc := range []struct {
		req  Request
		want string
	}{
		{Request{Channel: 5, Parameter: Intensity, Value: Scalar(42)}, "5 at 42 Enter"},
		{Request{Channel: 5, Parameter: Intensity, Mode: Raise, Value: Scalar(2.346)}, "5 at + 2.35 Enter"},
		{Request{Channel: 20, Parameter: Pan, Value: Scalar(50)}, "20 Pan 135 Enter"},
		{Request{Channel: 20, Parameter: Pan, Mode: Lower, Value: Scalar(10)}, "20 Pan - 27 Enter"},
		{Request{Channel: 1, Parameter: Color, Value: Color3(100, 50, 0)}, "1 Red 100 Green 50 Blue 0 Enter"},
		{Request{Channel: 21, Parameter: Color, Value: Color3(100, 50, 20)}, "21 Red 100 Green 50 Blue 20 White 20 Enter"},
		{Request{Channel: 20, Parameter: Strobe, Value: Scalar(50)}, "20 Shutter_Strobe Enter 20 Strobe 13 Enter"},
		{Request{Channel: 20, Parameter: Strobe, Value: Scalar(0)}, "20 Shutter_Open Enter"},
	} {
		assert.Equal(t, tc.want, render(t, pub, tc.req))
	}
}

func TestRenderDefaultArguments(t *testing.T) {
	pub := &Publisher{Patches: testPatch(t), Dialect: &dialect.Dialect{Name: "bare", Address: "/x"}}
	assert.Equal(t, "1 at + 10 Enter", render(t, pub, Request{Channel: 1, Parameter: Intensity, Mode: Raise, Value: Scalar(10)}))
}

func TestRenderErrors(t *testing.T) {
	pub := &Publisher{Patches: testPatch(t), Dialect: testDialect()}

	_, err := pub.Render(Request{Channel: 99, Parameter: Intensity, Value: Scalar(1)})
	var notPatched *PatchNotFoundError
	if !errors.As(err, &notPatched) || notPatched.Channel != 99 {
		t.Errorf("got %v, want PatchNotFoundError for 99", err)
	}
	assert.Equal(t, true, errors.Is(err, ErrPatchNotFound))

	_, err = pub.Render(Request{Channel: 1, Parameter: Zoom, Mode: Raise, Value: Scalar(1)})
	var missing *ArgumentNotFoundError
	if !errors.As(err, &missing) {
		t.Fatalf("got %v, want ArgumentNotFoundError", err)
	}
	assert.Equal(t, "raise_zoom", missing.Key)

	_, err = pub.Render(Request{Channel: 22, Parameter: Pan, Value: Scalar(1)})
	assert.Equal(t, errParameterDisabled, err)
}

func panics(fn func()) (msg string) {
	defer func() {
		if r := recover(); r != nil {
			msg = fmt.Sprint(r)
		}
	}()
	fn()
	return ""
}

func TestSelectPublishMode(t *testing.T) {
	assert.Equal(t, SendNow, SelectPublishMode(OriginEdit, false, false))
	assert.Equal(t, Collect, SelectPublishMode(OriginEdit, false, true))
	assert.Equal(t, ReturnCommand, SelectPublishMode(OriginHarmonizer, true, true))
	assert.Equal(t, ReturnCommand, SelectPublishMode(OriginHarmonizer, true, false))

	assert.NotEqual(t, "", panics(func() { SelectPublishMode(OriginEdit, true, false) }))
	assert.NotEqual(t, "", panics(func() { SelectPublishMode(OriginHarmonizer, false, true) }))
}
