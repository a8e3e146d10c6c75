package cpv

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/golang/glog"

	"stagecpv/lib/colorsplit"
	"stagecpv/lib/dialect"
	"stagecpv/lib/patch"
)

// DefaultArguments back a dialect that has no template for a key.
var DefaultArguments = map[string]string{
	"intensity":       "# at $ Enter",
	"raise_intensity": "# at + $ Enter",
	"lower_intensity": "# at - $ Enter",
}

type Origin int

const (
	OriginEdit Origin = iota
	OriginHarmonizer
)

type PublishMode int

const (
	SendNow PublishMode = iota
	Collect
	ReturnCommand
)

func (m PublishMode) String() string {
	switch m {
	case SendNow:
		return "send"
	case Collect:
		return "collect"
	case ReturnCommand:
		return "return"
	}
	return fmt.Sprintf("publish(%d)", int(m))
}

// SelectPublishMode decides what happens to a rendered request. Any
// combination other than the three below is a dispatch bug and panics.
func SelectPublishMode(origin Origin, harmonized bool, transportActive bool) PublishMode {
	switch {
	case origin == OriginEdit && !harmonized && !transportActive:
		return SendNow
	case origin == OriginEdit && !harmonized && transportActive:
		return Collect
	case origin == OriginHarmonizer && harmonized:
		return ReturnCommand
	}
	panic(fmt.Sprintf("cpv: invalid publish combination origin=%d harmonized=%t active=%t", origin, harmonized, transportActive))
}

// Rendered is a request turned into dialect text, still missing its
// channel expression.
type Rendered struct {
	Template string
	Values   []string
}

func (r Rendered) Command(channels string) string {
	return dialect.Fill(r.Template, channels, r.Values)
}

func (r Rendered) key() string {
	s := r.Template
	for _, v := range r.Values {
		s += "\x00" + v
	}
	return s
}

type Publisher struct {
	Patches Patches
	Dialect *dialect.Dialect
}

// Render maps the request into the fixture's native range or color space and
// picks the dialect template for it.
func (pub *Publisher) Render(req Request) (Rendered, error) {
	rec, err := pub.Patches.Get(int(req.Channel))
	if err != nil {
		return Rendered{}, &PatchNotFoundError{Channel: req.Channel}
	}
	if !rec.Enabled(string(req.Parameter)) {
		return Rendered{}, errParameterDisabled
	}

	table := dialect.Absolute
	switch req.Mode {
	case Raise:
		table = dialect.Increase
	case Lower:
		table = dialect.Decrease
	}

	if req.Value.IsColor() {
		c := req.Value.RGB()
		values, err := colorsplit.Split(rec.ColorProfile, c.R, c.G, c.B)
		if err != nil {
			return Rendered{}, err
		}
		values = rec.Balance().Apply(rec.ColorProfile, values)
		tmpl, err := pub.template(table, req.Mode, string(rec.ColorProfile)+"_color", string(req.Parameter))
		if err != nil {
			return Rendered{}, err
		}
		out := Rendered{Template: tmpl, Values: make([]string, len(values))}
		for i, v := range values {
			out.Values[i] = pub.Dialect.FormatValue(v)
		}
		return out, nil
	}

	v := req.Value.Float()
	if req.Parameter.RangeDependent() {
		if rng, ok := rec.Range(string(req.Parameter)); ok {
			v = MapRange(rng, v, req.Mode != Absolute)
		}
	}
	tmpl, err := pub.template(table, req.Mode, string(req.Parameter))
	if err != nil {
		return Rendered{}, err
	}
	value := pub.Dialect.FormatValue(v)

	if sa, ok := rec.Special(string(req.Parameter)); ok && req.Mode == Absolute {
		if pub.Dialect.Round(req.Value.Float()) == 0 {
			if sa.Disable != "" {
				tmpl = sa.Disable
			}
		} else if sa.Enable != "" {
			tmpl = sa.Enable + " " + tmpl
		}
	}
	return Rendered{Template: tmpl, Values: []string{value}}, nil
}

// template looks keys up in order in the dialect table, then in
// DefaultArguments under their mode-prefixed names.
func (pub *Publisher) template(table dialect.Table, mode Mode, keys ...string) (string, error) {
	for _, key := range keys {
		if tmpl, ok := pub.Dialect.Template(table, key); ok {
			return tmpl, nil
		}
	}
	for _, key := range keys {
		if tmpl, ok := DefaultArguments[mode.Prefix()+key]; ok {
			return tmpl, nil
		}
	}
	return "", &ArgumentNotFoundError{Console: pub.Dialect.Name, Key: mode.Prefix() + keys[0]}
}

// MapRange converts a normalized value into the fixture's physical range.
// Bipolar ranges scale each sign by its own end. Relative values are deltas
// and are scaled by the span without the offset.
func MapRange(rng patch.Range, v float64, relative bool) float64 {
	switch {
	case rng.Bipolar() && v < 0:
		return v / 100 * -rng.Min
	case rng.Bipolar():
		return v / 100 * rng.Max
	case relative:
		return v / 100 * (rng.Max - rng.Min)
	}
	return rng.Min + v/100*(rng.Max-rng.Min)
}

func (p *Pipeline) publish(gctx GateContext, req Request) error {
	switch SelectPublishMode(OriginEdit, false, gctx.Transport.Active()) {
	case Collect:
		p.pending = append(p.pending, req)
		return nil
	}
	r, err := p.publisher.Render(req)
	if errors.Is(err, errParameterDisabled) {
		glog.V(2).Infof("[cpv]%s: disabled on fixture\n", req)
		return nil
	}
	if err != nil {
		glog.Warningf("[cpv]%s: %v\n", req, err)
		return err
	}
	p.send(r.Command(strconv.Itoa(int(req.Channel))))
	return nil
}

func (p *Pipeline) send(cmd string) {
	glog.V(1).Infof("[cpv]send %s %q\n", p.publisher.Dialect.Address, cmd)
	p.cfg.Sink.Send(p.publisher.Dialect.Address, cmd)
}
