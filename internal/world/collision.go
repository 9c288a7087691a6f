package world

import (
	"math"

	"github.com/quakenite/server/internal/core/ecs"
	"github.com/quakenite/server/internal/geom"
)

// Content flags.
const (
	ContentsSolid     = 1 << 0 // arena brushes
	ContentsStructure = 1 << 1 // placed pieces
	MaskSolid         = ContentsSolid | ContentsStructure
)

// TraceResult is a box trace against the world plus the structure hit, if any.
type TraceResult struct {
	geom.Trace
	Entity ecs.EntityID // zero when nothing or a brush was hit
}

// Trace sweeps a box with local bounds mins/maxs from start to end against the
// contents selected by mask. pass is never hit. Point traces use zero bounds.
func (s *State) Trace(start, mins, maxs, end geom.Vec3, pass ecs.EntityID, mask int) TraceResult {
	t := geom.NewTracer(start, end, mins, maxs)
	if mask&ContentsSolid != 0 {
		for i, b := range s.solids {
			t.Clip(i, b)
		}
	}
	base := len(s.solids)
	s.buf = s.buf[:0]
	if mask&ContentsStructure != 0 {
		s.structures.Query(sweptBounds(start, mins, maxs, end), func(st *Structure) bool {
			if st.ID != pass && st.Solid {
				t.Clip(base+len(s.buf), st.Bounds)
				s.buf = append(s.buf, st)
			}
			return true
		})
	}
	tr := TraceResult{Trace: t.Result()}
	if k := tr.HitIndex - base; tr.HitIndex >= base && k < len(s.buf) {
		tr.Entity = s.buf[k].ID
	}
	return tr
}

// sweptBounds covers every position the box occupies between start and end.
func sweptBounds(start, mins, maxs, end geom.Vec3) geom.AABB {
	return geom.AABB{
		Min: geom.V(
			math.Min(start.X, end.X)+mins.X,
			math.Min(start.Y, end.Y)+mins.Y,
			math.Min(start.Z, end.Z)+mins.Z,
		),
		Max: geom.V(
			math.Max(start.X, end.X)+maxs.X,
			math.Max(start.Y, end.Y)+maxs.Y,
			math.Max(start.Z, end.Z)+maxs.Z,
		),
	}
}
