package cpv

// Flags are the global switches a show can set. The zero value lets
// everything through.
type Flags struct {
	Frozen           bool `yaml:"frozen"`
	DisableObjects   bool `yaml:"disable_objects"`
	DisableStrips    bool `yaml:"disable_strips"`
	DisableNodes     bool `yaml:"disable_nodes"`
	SoloActive       bool `yaml:"solo_active"`
	DisableHalfRate  bool `yaml:"disable_half_rate"`
	DisableThirdRate bool `yaml:"disable_third_rate"`
}

// GateContext is the snapshot Admit decides against. Build one per tick and
// do not change it while edits are running.
type GateContext struct {
	Flags
	Transport TransportStatus
	Frame     int64
}

func NewGateContext(f Flags, t Transport) GateContext {
	gctx := GateContext{Flags: f}
	if t != nil {
		gctx.Transport = t.Status()
		gctx.Frame = t.Frame()
	}
	return gctx
}

// Admit reports whether an edit of param on c may proceed. Checks run in
// order and the first failing one rejects.
func Admit(gctx GateContext, c Controller, param Parameter) bool {
	if isNil(c) || !c.Kind().Valid() {
		return false
	}
	h := c.Common()
	if h == nil || h.Muted || gctx.Frozen {
		return false
	}
	switch h.Category {
	case CategoryObject:
		if gctx.DisableObjects {
			return false
		}
	case CategoryStrip:
		if gctx.DisableStrips {
			return false
		}
	case CategoryNode:
		if gctx.DisableNodes {
			return false
		}
	}
	active := gctx.Transport.Active()
	if gctx.SoloActive && active && !h.Solo {
		return false
	}
	if c.Kind() != KindMixer && !h.Enabled(param) {
		return false
	}
	if active {
		switch h.Freeze {
		case FreezeHalf:
			if !gctx.DisableHalfRate && gctx.Frame%2 != 0 {
				return false
			}
		case FreezeThird:
			if !gctx.DisableThirdRate && gctx.Frame%3 != 0 {
				return false
			}
		}
	}
	return true
}
