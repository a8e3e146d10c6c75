package cpv

import (
	"math"
)

// mix spreads m's choices across its channels, one request per channel.
func (p *Pipeline) mix(m *Mixer, param Parameter) []Request {
	var values []Value
	switch m.Blend {
	case BlendInterpolate:
		values = Interpolate(m.keys(param), len(m.Channels), m.Offset, m.Subdivisions)
	case BlendPattern:
		values = Pattern(m.keys(param), len(m.Channels), m.Offset)
	case BlendPose:
		if len(m.Choices) == 0 {
			return nil
		}
		v, ok := Pose(m.Choices, m.Progress, m.MotorScale).Get(param)
		if !ok {
			return nil
		}
		values = make([]Value, len(m.Channels))
		for i := range values {
			values[i] = v
		}
	}

	reqs := make([]Request, 0, len(values))
	for i, v := range values {
		reqs = append(reqs, Request{
			Source:    m,
			Channel:   m.Channels[i],
			Parameter: param,
			Mode:      Absolute,
			Value:     v,
		})
	}
	return reqs
}

func (m *Mixer) keys(param Parameter) []Value {
	var out []Value
	for _, c := range m.Choices {
		if v, ok := c.Get(param); ok {
			out = append(out, v)
		}
	}
	return out
}

// Interpolate samples a cyclic gradient through keys at n evenly spaced
// points. The key list is repeated subdivisions times, averaged down to n
// keys when longer than n, and rotated by offset of a full cycle.
func Interpolate(keys []Value, n int, offset float64, subdivisions int) []Value {
	if len(keys) == 0 || n <= 0 {
		return nil
	}
	seq := append([]Value(nil), keys...)
	for i := 1; i < subdivisions; i++ {
		seq = append(seq, keys...)
	}
	if len(seq) > n {
		seq = average(seq, n)
	}

	k := float64(len(seq))
	out := make([]Value, n)
	for i := range out {
		pos := math.Mod(float64(i)*k/float64(n)+offset*k, k)
		if pos < 0 {
			pos += k
		}
		lo := int(pos)
		hi := (lo + 1) % len(seq)
		out[i] = seq[lo].Lerp(seq[hi], pos-float64(lo))
	}
	return out
}

// average collapses seq into n contiguous groups of near-equal size.
func average(seq []Value, n int) []Value {
	out := make([]Value, n)
	for g := range out {
		lo, hi := g*len(seq)/n, (g+1)*len(seq)/n
		sum := seq[lo].Scale(0)
		for _, v := range seq[lo:hi] {
			sum = sum.Add(v)
		}
		out[g] = sum.Scale(1 / float64(hi-lo))
	}
	return out
}

// Pattern repeats keys across n channels without blending, rotated right
// by round(offset*n).
func Pattern(keys []Value, n int, offset float64) []Value {
	if len(keys) == 0 || n <= 0 {
		return nil
	}
	rot := int(math.Round(offset*float64(n))) % n
	if rot < 0 {
		rot += n
	}
	out := make([]Value, n)
	for i := 0; i < n; i++ {
		out[(i+rot)%n] = keys[i%len(keys)]
	}
	return out
}

// Pose crossfades between the two choices progress falls between and
// attenuates the scalar parameters by motorScale.
func Pose(choices []MixerChoice, progress, motorScale float64) MixerChoice {
	if len(choices) == 0 {
		return MixerChoice{}
	}
	a, b, t := choices[0], choices[0], 0.0
	if len(choices) > 1 {
		pos := math.Max(0, progress) * float64(len(choices)-1)
		i := int(pos)
		if i >= len(choices)-1 {
			i, pos = len(choices)-2, float64(len(choices)-1)
		}
		a, b, t = choices[i], choices[i+1], pos-float64(i)
	}

	var out MixerChoice
	for _, param := range MixerParameters {
		va, _ := a.Get(param)
		vb, _ := b.Get(param)
		v := va.Lerp(vb, t)
		if !v.IsColor() {
			v = v.Scale(motorScale)
		}
		out.Set(param, v)
	}
	return out
}
