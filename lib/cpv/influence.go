package cpv

import (
	"github.com/golang/glog"
	"golang.org/x/exp/slices"
)

// contribution is what one channel currently receives from a field.
type contribution struct {
	channel Channel
	value   Value
}

func (p *Pipeline) index() *gridIndex {
	if p.cfg.Scene == nil {
		return nil
	}
	rev := p.cfg.Scene.Revision()
	if p.grid == nil || p.grid.revision != rev {
		p.grid = newGridIndex(p.cfg.Scene.Targets(), p.cfg.CellSize, rev)
		glog.V(2).Infof("[cpv]rebuilt spatial index rev=%d targets=%d\n", rev, p.grid.count)
	}
	return p.grid
}

// boxField is the current set of an influencer or brush: every target inside
// the box gets the controller's own value, negated for scalars while erasing.
func (p *Pipeline) boxField(h *Header, sp *Spatial, param Parameter) []contribution {
	v, ok := h.Value(param)
	g := p.index()
	if !ok || g == nil {
		return nil
	}
	if sp.Erasing && !v.IsColor() {
		v = v.Scale(-1)
	}
	var out []contribution
	seen := map[Channel]bool{}
	for _, t := range g.InBox(sp) {
		if seen[t.Channel] {
			continue
		}
		seen[t.Channel] = true
		out = append(out, contribution{t.Channel, v})
	}
	return out
}

// keyField blends every key of k's group: each target receives the sum of
// strength*value over the keys that reach it. A key without a group blends
// alone.
func (p *Pipeline) keyField(k *Key, param Parameter) []contribution {
	g := p.index()
	if g == nil {
		return nil
	}
	keys := []*Key{k}
	if k.Group != "" {
		keys = p.cfg.Scene.Keys(k.Group)
		if !slices.Contains(keys, k) {
			keys = append(keys, k)
		}
	}

	sums := map[Channel]Value{}
	var order []Channel
	for _, key := range keys {
		v, ok := key.Value(param)
		if !ok {
			continue
		}
		for _, t := range g.InSphere(&key.Spatial) {
			s := key.Strength(t.Position)
			if s == 0 {
				continue
			}
			prev, ok := sums[t.Channel]
			if !ok {
				order = append(order, t.Channel)
				prev = v.Scale(0)
			}
			sums[t.Channel] = prev.Add(v.Scale(s))
		}
	}

	out := make([]contribution, 0, len(order))
	for _, ch := range order {
		v := sums[ch]
		if v.IsColor() {
			v = v.Clamp(0, 100)
		}
		out = append(out, contribution{ch, v})
	}
	return out
}

// memoryID is the memory slot c applies through. Keys of a group share one
// slot, so the blend lands once however many of them are edited in a tick.
func memoryID(c Controller) ControllerID {
	if k, ok := c.(*Key); ok && k.Group != "" {
		return ControllerID("group:" + k.Group)
	}
	return c.Common().ID
}

// influence runs the enter/maintain/release lifecycle of a spatial
// controller against its memory.
func (p *Pipeline) influence(c Controller, sp *Spatial, param Parameter) []Request {
	h := c.Common()
	id := memoryID(c)
	var current []contribution
	switch c := c.(type) {
	case *Key:
		current = p.keyField(c, param)
	default:
		current = p.boxField(h, sp, param)
	}

	inField := map[Channel]bool{}
	var reqs []Request
	for _, cur := range current {
		inField[cur.channel] = true
		stored, held := p.memory.Get(id, param, cur.channel)
		switch {
		case !held:
			glog.V(2).Infof("[cpv]%s %s: channel %d entered\n", c.Kind(), h.Name, cur.channel)
			reqs = appendApply(reqs, c, cur.channel, param, cur.value, Scalar(0))
		case c.Kind() == KindBrush:
			continue
		default:
			reqs = appendApply(reqs, c, cur.channel, param, cur.value, stored)
		}
		p.memory.Set(id, param, cur.channel, cur.value)
	}

	for _, ch := range p.memory.Channels(id, param) {
		if inField[ch] {
			continue
		}
		stored, _ := p.memory.Get(id, param, ch)
		p.memory.Delete(id, param, ch)
		glog.V(2).Infof("[cpv]%s %s: channel %d released\n", c.Kind(), h.Name, ch)
		if c.Kind() == KindBrush {
			continue
		}
		if stored.IsColor() {
			reqs = append(reqs, Request{Source: c, Channel: ch, Parameter: param, Mode: Absolute, Value: ColorOf(sp.Restore)})
		} else if r, ok := relative(c, ch, param, -stored.Float()); ok {
			reqs = append(reqs, r)
		}
	}
	return reqs
}

// appendApply emits the change from stored to current: the absolute color
// when it moved, or the scalar delta as a raise or lower.
func appendApply(reqs []Request, c Controller, ch Channel, param Parameter, current, stored Value) []Request {
	if current.IsColor() {
		if stored.IsColor() && stored.Near(current, Tolerance) {
			return reqs
		}
		return append(reqs, Request{Source: c, Channel: ch, Parameter: param, Mode: Absolute, Value: current})
	}
	if r, ok := relative(c, ch, param, current.Float()-stored.Float()); ok {
		reqs = append(reqs, r)
	}
	return reqs
}
