package surface

import (
	"sync"

	"stagecpv/lib/cpv"
)

// Transport is the playback state the transport buttons drive. It
// implements cpv.Transport.
type Transport struct {
	mu     sync.Mutex
	status cpv.TransportStatus
	frame  int64
}

func (t *Transport) Status() cpv.TransportStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

func (t *Transport) Frame() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.frame
}

func (t *Transport) Play() {
	t.set(cpv.Playing)
}

// Stop returns to idle and rewinds to frame 0 when already idle.
func (t *Transport) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.status == cpv.Idle {
		t.frame = 0
	}
	t.status = cpv.Idle
}

func (t *Transport) ToggleScrub() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.status == cpv.Scrubbing {
		t.status = cpv.Idle
	} else {
		t.status = cpv.Scrubbing
	}
}

// Step moves the playhead by n frames, never before frame 0.
func (t *Transport) Step(n int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.frame = max(0, t.frame+n)
}

// Tick advances one frame while playing and reports whether a playback
// frame should run.
func (t *Transport) Tick() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.status == cpv.Playing {
		t.frame++
	}
	return t.status.Active()
}

func (t *Transport) set(s cpv.TransportStatus) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.status = s
}
