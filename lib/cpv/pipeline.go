// Package cpv turns controller edits into console commands: it gates each
// edit, dispatches it to the strategy for the controller kind, renders the
// resulting channel/parameter/value requests in the console's dialect and,
// during playback, harmonizes a frame's worth of requests before sending.
package cpv

import (
	"errors"
	"fmt"

	"github.com/golang/glog"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Config struct {
	Console  string
	Harmony  HarmonyMode
	Patches  Patches
	Dialects Dialects
	Sink     Sink

	// Optional.
	Scene     Scene
	Topology  Topology
	Selection Selection
	Memory    *Memory
	CellSize  float64
}

type Pipeline struct {
	cfg        Config
	publisher  *Publisher
	harmonizer *Harmonizer
	memory     *Memory
	grid       *gridIndex
	pending    []Request
}

func New(cfg Config) (*Pipeline, error) {
	if cfg.Patches == nil || cfg.Dialects == nil || cfg.Sink == nil {
		return nil, fmt.Errorf("cpv: patches, dialects and sink are required")
	}
	d, err := cfg.Dialects.Get(cfg.Console)
	if err != nil {
		return nil, &DialectNotFoundError{Console: cfg.Console}
	}
	if cfg.Memory == nil {
		cfg.Memory = NewMemory()
	}

	p := &Pipeline{
		cfg:       cfg,
		publisher: &Publisher{Patches: cfg.Patches, Dialect: d},
		memory:    cfg.Memory,
	}
	p.harmonizer = &Harmonizer{Mode: cfg.Harmony, Render: p.publisher.Render}
	return p, nil
}

func (p *Pipeline) Memory() *Memory {
	return p.memory
}

func (p *Pipeline) Pending() int {
	return len(p.pending)
}

type EditOptions struct {
	// AllSelected repeats the edit on every co-selected controller.
	AllSelected bool
}

// Edit runs one parameter edit of c through the pipeline. With the transport
// idle the resulting commands are sent at once; otherwise they are held
// until Flush.
func (p *Pipeline) Edit(gctx GateContext, c Controller, param Parameter, opts EditOptions) error {
	return p.edit(gctx, c, param, opts.AllSelected, true)
}

func (p *Pipeline) edit(gctx GateContext, c Controller, param Parameter, mirror bool, propagate bool) error {
	if !Admit(gctx, c, param) {
		if !isNil(c) && c.Kind().Valid() {
			glog.V(2).Infof("[cpv]%s %s: gated\n", c.Kind(), c.Common().Name)
			return nil
		}
		return &UnknownControllerError{Controller: c}
	}

	var errs []error
	if mirror && p.cfg.Selection != nil {
		v, ok := c.Common().Value(param)
		for _, o := range p.cfg.Selection.CoSelected(c) {
			if isNil(o) || o.Common().ID == c.Common().ID {
				continue
			}
			if ok {
				o.Common().SetValue(param, v)
			}
			errs = append(errs, p.edit(gctx, o, param, false, propagate))
		}
	}

	reqs, err := p.dispatch(gctx, c, param, propagate)
	errs = append(errs, err)
	for _, r := range reqs {
		errs = append(errs, p.publish(gctx, r))
	}
	return errors.Join(errs...)
}

// dispatch selects the strategy for c. Downstream node groups are edited
// one level deep only.
func (p *Pipeline) dispatch(gctx GateContext, c Controller, param Parameter, propagate bool) ([]Request, error) {
	switch c := c.(type) {
	case *Direct:
		var err error
		if propagate && c.Node {
			err = p.propagate(gctx, c, param)
		}
		return direct(c, param), err
	case *Influencer:
		return p.influence(c, &c.Spatial, param), nil
	case *Brush:
		return p.influence(c, &c.Spatial, param), nil
	case *Key:
		return p.influence(c, &c.Spatial, param), nil
	case *Mixer:
		return p.mix(c, param), nil
	}
	return nil, &UnknownControllerError{Controller: c}
}

func (p *Pipeline) propagate(gctx GateContext, c *Direct, param Parameter) error {
	if p.cfg.Topology == nil {
		return nil
	}
	v, ok := c.Value(param)
	if !ok {
		return nil
	}
	var errs []error
	for _, d := range p.cfg.Topology.Downstream(c) {
		if isNil(d) || d.Common().ID == c.ID {
			continue
		}
		d.Common().SetValue(param, v)
		errs = append(errs, p.edit(gctx, d, param, false, false))
	}
	return errors.Join(errs...)
}

func direct(c *Direct, param Parameter) []Request {
	v, ok := c.Value(param)
	if !ok {
		return nil
	}
	reqs := make([]Request, 0, len(c.Channels))
	for _, ch := range c.Channels {
		reqs = append(reqs, Request{Source: c, Channel: ch, Parameter: param, Mode: Absolute, Value: v})
	}
	return reqs
}

// Parameters lists what a playback frame re-evaluates for c.
func Parameters(c Controller) []Parameter {
	if c.Kind() == KindMixer {
		return MixerParameters
	}
	params := maps.Keys(c.Common().Values)
	slices.Sort(params)
	return params
}

// Frame runs one playback tick: every parameter of every controller is
// edited and the collected requests are flushed.
func (p *Pipeline) Frame(gctx GateContext, controllers []Controller) error {
	var errs []error
	for _, c := range controllers {
		if isNil(c) {
			continue
		}
		for _, param := range Parameters(c) {
			errs = append(errs, p.edit(gctx, c, param, false, true))
		}
	}
	errs = append(errs, p.Flush())
	return errors.Join(errs...)
}

// Flush harmonizes and sends everything collected since the last flush.
func (p *Pipeline) Flush() error {
	if len(p.pending) == 0 {
		return nil
	}
	pending := p.pending
	p.pending = nil

	out, err := p.harmonizer.Harmonize(pending)
	glog.V(1).Infof("[cpv]flush %d requests as %d commands\n", len(pending), len(out))
	for _, h := range out {
		p.send(h.Command())
	}
	return err
}

// Forget drops the influence memory of a deleted controller.
func (p *Pipeline) Forget(id ControllerID) {
	p.memory.Forget(id)
}
