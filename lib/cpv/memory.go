package cpv

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type memoryKey struct {
	controller ControllerID
	parameter  Parameter
}

// Memory remembers what each influence-style controller has applied to each
// channel, so that a fixture leaving the field gets exactly that taken back.
// Scalars are stored signed: negative for erasing contributions.
type Memory struct {
	entries map[memoryKey]map[Channel]Value
}

func NewMemory() *Memory {
	return &Memory{entries: map[memoryKey]map[Channel]Value{}}
}

func (m *Memory) Get(id ControllerID, param Parameter, ch Channel) (Value, bool) {
	v, ok := m.entries[memoryKey{id, param}][ch]
	return v, ok
}

func (m *Memory) Set(id ControllerID, param Parameter, ch Channel, v Value) {
	k := memoryKey{id, param}
	chans := m.entries[k]
	if chans == nil {
		chans = map[Channel]Value{}
		m.entries[k] = chans
	}
	chans[ch] = v
}

func (m *Memory) Delete(id ControllerID, param Parameter, ch Channel) {
	k := memoryKey{id, param}
	delete(m.entries[k], ch)
	if len(m.entries[k]) == 0 {
		delete(m.entries, k)
	}
}

// Channels returns the channels id currently holds for param, ascending.
func (m *Memory) Channels(id ControllerID, param Parameter) []Channel {
	chans := maps.Keys(m.entries[memoryKey{id, param}])
	slices.Sort(chans)
	return chans
}

// Forget drops everything id holds, for a controller that was deleted.
func (m *Memory) Forget(id ControllerID) {
	for k := range m.entries {
		if k.controller == id {
			delete(m.entries, k)
		}
	}
}

func (m *Memory) Len() int {
	n := 0
	for _, chans := range m.entries {
		n += len(chans)
	}
	return n
}
