package cpv

import (
	"stagecpv/lib/dialect"
	"stagecpv/lib/patch"
)

// Patches looks up the patch record for a channel. *patch.Store implements it.
type Patches interface {
	Get(channel int) (*patch.Record, error)
}

// Dialects resolves a console name. *dialect.Registry implements it.
type Dialects interface {
	Get(name string) (*dialect.Dialect, error)
}

// Topology is the node graph: which direct groups follow which.
type Topology interface {
	Downstream(c Controller) []Controller
}

// Selection reports the controllers selected together with c.
type Selection interface {
	CoSelected(c Controller) []Controller
}

// Sink receives rendered console commands. *osc.Client implements it.
type Sink interface {
	Send(address string, argument string)
}

type Target struct {
	Channel  Channel
	Position Vec3
}

// Scene is the spatial view of the rig. Revision must change whenever a
// target moves, is added or is removed.
type Scene interface {
	Revision() uint64
	Targets() []Target
	Keys(group string) []*Key
}

type TransportStatus int

const (
	Idle TransportStatus = iota
	Playing
	Scrubbing
)

func (t TransportStatus) Active() bool {
	return t == Playing || t == Scrubbing
}

func (t TransportStatus) String() string {
	switch t {
	case Playing:
		return "playing"
	case Scrubbing:
		return "scrubbing"
	}
	return "idle"
}

// Transport is the host timeline.
type Transport interface {
	Status() TransportStatus
	Frame() int64
}
