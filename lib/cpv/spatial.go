package cpv

import (
	"math"
)

const DefaultCellSize = 1.0

// maxCell bounds the cell coordinates a query may convert to int.
const maxCell = 1e15

type cell [3]int

// gridIndex buckets targets into cubic cells so that box and sphere queries
// only look at nearby fixtures.
type gridIndex struct {
	size     float64
	revision uint64
	count    int
	cells    map[cell][]Target
}

func newGridIndex(targets []Target, size float64, revision uint64) *gridIndex {
	if size <= 0 {
		size = DefaultCellSize
	}
	g := &gridIndex{
		size:     size,
		revision: revision,
		count:    len(targets),
		cells:    map[cell][]Target{},
	}
	for _, t := range targets {
		c := g.cellOf(t.Position)
		g.cells[c] = append(g.cells[c], t)
	}
	return g
}

func (g *gridIndex) cellOf(p Vec3) cell {
	return cell{
		int(math.Floor(p.X / g.size)),
		int(math.Floor(p.Y / g.size)),
		int(math.Floor(p.Z / g.size)),
	}
}

func (g *gridIndex) inRange(p Vec3) bool {
	for _, v := range [3]float64{p.X, p.Y, p.Z} {
		c := v / g.size
		if math.IsNaN(c) || math.Abs(c) > maxCell {
			return false
		}
	}
	return true
}

func (g *gridIndex) all(fn func(Target)) {
	for _, ts := range g.cells {
		for _, t := range ts {
			fn(t)
		}
	}
}

// query calls fn for every target in a cell overlapping [lo, hi], falling
// back to a full scan when the box spans more cells than there are targets
// or reaches beyond the cell range.
func (g *gridIndex) query(lo, hi Vec3, fn func(Target)) {
	if !g.inRange(lo) || !g.inRange(hi) {
		g.all(fn)
		return
	}
	a, b := g.cellOf(lo), g.cellOf(hi)
	span := 1.0
	for i := range a {
		span *= float64(b[i] - a[i] + 1)
	}
	if span > float64(g.count) {
		g.all(fn)
		return
	}
	for x := a[0]; x <= b[0]; x++ {
		for y := a[1]; y <= b[1]; y++ {
			for z := a[2]; z <= b[2]; z++ {
				for _, t := range g.cells[cell{x, y, z}] {
					fn(t)
				}
			}
		}
	}
}

// InBox returns the targets inside s's box.
func (g *gridIndex) InBox(s *Spatial) []Target {
	var out []Target
	lo := s.Position.Sub(s.Extent)
	hi := Vec3{s.Position.X + s.Extent.X, s.Position.Y + s.Extent.Y, s.Position.Z + s.Extent.Z}
	g.query(lo, hi, func(t Target) {
		if s.Contains(t.Position) {
			out = append(out, t)
		}
	})
	return out
}

// InSphere returns the targets strictly inside s's radius.
func (g *gridIndex) InSphere(s *Spatial) []Target {
	var out []Target
	r := Vec3{s.Radius, s.Radius, s.Radius}
	lo := s.Position.Sub(r)
	hi := Vec3{s.Position.X + r.X, s.Position.Y + r.Y, s.Position.Z + r.Z}
	g.query(lo, hi, func(t Target) {
		if t.Position.Sub(s.Position).Len() < s.Radius {
			out = append(out, t)
		}
	})
	return out
}
