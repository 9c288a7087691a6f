package geom

import "math"

// AABB is an axis-aligned box given by its minimum and maximum corners.
type AABB struct {
	Min, Max Vec3
}

// Box builds the world bounds of local mins/maxs placed at origin.
func Box(origin, mins, maxs Vec3) AABB {
	return AABB{Min: origin.Add(mins), Max: origin.Add(maxs)}
}

// Overlaps is the inclusive intersection test: boxes that only touch on a face,
// edge, or corner count as overlapping.
func (b AABB) Overlaps(o AABB) bool {
	return b.Min.X <= o.Max.X && b.Max.X >= o.Min.X &&
		b.Min.Y <= o.Max.Y && b.Max.Y >= o.Min.Y &&
		b.Min.Z <= o.Max.Z && b.Max.Z >= o.Min.Z
}

// ContainsStrict reports whether p lies in the open interior of b.
func (b AABB) ContainsStrict(p Vec3) bool {
	return p.X > b.Min.X && p.X < b.Max.X &&
		p.Y > b.Min.Y && p.Y < b.Max.Y &&
		p.Z > b.Min.Z && p.Z < b.Max.Z
}

// Size returns the extent along each axis.
func (b AABB) Size() Vec3 { return b.Max.Sub(b.Min) }

// Empty reports a degenerate box with zero volume.
func (b AABB) Empty() bool {
	s := b.Size()
	return s.X <= 0 || s.Y <= 0 || s.Z <= 0
}

// Epsilon is how far a trace end position stops short of the surface it hit.
const Epsilon = 0.03125

// Contact describes a sweep of one moving box against one static box.
type Contact struct {
	Hit        bool
	Fraction   float64 // 0..1 along start→end where contact begins
	StartSolid bool    // the moving box starts embedded
	AllSolid   bool    // the moving box stays embedded for the whole sweep
}

// Sweep moves a box with local bounds mins/maxs from start to end against the
// static box b. Touching without penetration is not a contact.
func Sweep(start, end, mins, maxs Vec3, b AABB) Contact {
	// Minkowski expansion reduces the box sweep to a ray against a bigger box.
	ex := AABB{Min: b.Min.Sub(maxs), Max: b.Max.Sub(mins)}

	if ex.ContainsStrict(start) {
		return Contact{Hit: true, StartSolid: true, AllSolid: ex.ContainsStrict(end)}
	}

	d := end.Sub(start)
	tmin, tmax := 0.0, 1.0
	for i := 0; i < 3; i++ {
		s, dv := start.Axis(i), d.Axis(i)
		lo, hi := ex.Min.Axis(i), ex.Max.Axis(i)
		if dv == 0 {
			if s <= lo || s >= hi {
				return Contact{}
			}
			continue
		}
		t1, t2 := (lo-s)/dv, (hi-s)/dv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math.Max(tmin, t1)
		tmax = math.Min(tmax, t2)
		if tmin >= tmax {
			return Contact{}
		}
	}
	return Contact{Hit: true, Fraction: tmin}
}

// Trace is the result of sweeping a box through a set of solids.
type Trace struct {
	Fraction   float64
	EndPos     Vec3
	StartSolid bool
	AllSolid   bool
	HitIndex   int // index of the first solid hit, -1 when nothing was hit
}

// Tracer accumulates contacts from several solids into one Trace.
type Tracer struct {
	start, end, mins, maxs Vec3
	tr                     Trace
}

// NewTracer starts a trace of a box with local bounds mins/maxs from start to end.
func NewTracer(start, end, mins, maxs Vec3) *Tracer {
	return &Tracer{
		start: start, end: end, mins: mins, maxs: maxs,
		tr: Trace{Fraction: 1, EndPos: end, HitIndex: -1},
	}
}

// Clip tests one solid identified by index.
func (t *Tracer) Clip(index int, b AABB) {
	c := Sweep(t.start, t.end, t.mins, t.maxs, b)
	if !c.Hit {
		return
	}
	if c.StartSolid {
		t.tr.StartSolid = true
		if c.AllSolid {
			t.tr.AllSolid = true
		}
	}
	if c.Fraction < t.tr.Fraction || (c.StartSolid && t.tr.HitIndex < 0) {
		t.tr.Fraction = c.Fraction
		t.tr.HitIndex = index
	}
}

// Result finalizes the trace, pulling the end position back from the surface.
func (t *Tracer) Result() Trace {
	tr := t.tr
	if tr.Fraction < 1 {
		d := t.end.Sub(t.start)
		if l := d.Len(); l > 0 {
			f := tr.Fraction - Epsilon/l
			if f < 0 {
				f = 0
			}
			tr.EndPos = t.start.MA(f, d)
		} else {
			tr.EndPos = t.start
		}
	}
	return tr
}

// TraceBoxes sweeps against a plain slice of boxes.
func TraceBoxes(start, end, mins, maxs Vec3, solids []AABB) Trace {
	t := NewTracer(start, end, mins, maxs)
	for i, b := range solids {
		t.Clip(i, b)
	}
	return t.Result()
}
