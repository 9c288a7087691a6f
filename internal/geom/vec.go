// Package geom holds the small amount of 3D math shared by the authoritative
// server and observers: vectors, axis-aligned boxes, grid snapping, and a box
// sweep against sets of boxes.
package geom

import (
	"fmt"
	"math"
)

// Vec3 is a position or direction in world units. Z is up.
type Vec3 struct {
	X, Y, Z float64
}

func V(x, y, z float64) Vec3 { return Vec3{x, y, z} }

func (v Vec3) Add(o Vec3) Vec3           { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3           { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Scale(s float64) Vec3      { return Vec3{v.X * s, v.Y * s, v.Z * s} }
func (v Vec3) Dot(o Vec3) float64        { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }
func (v Vec3) Len() float64              { return math.Sqrt(v.Dot(v)) }
func (v Vec3) MA(s float64, d Vec3) Vec3 { return v.Add(d.Scale(s)) }

func (v Vec3) String() string {
	return fmt.Sprintf("(%g %g %g)", v.X, v.Y, v.Z)
}

// Axis returns component i (0=X, 1=Y, 2=Z).
func (v Vec3) Axis(i int) float64 {
	switch i {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

// Snap rounds each component to the nearest multiple of grid:
// floor(v/grid + 0.5) * grid. A non-positive grid leaves v unchanged.
func Snap(v Vec3, grid float64) Vec3 {
	if grid <= 0 {
		return v
	}
	return Vec3{snap1(v.X, grid), snap1(v.Y, grid), snap1(v.Z, grid)}
}

func snap1(x, grid float64) float64 {
	return math.Floor(x/grid+0.5) * grid
}

// Angles are Euler angles in degrees: pitch (positive looks down), yaw, roll.
type Angles struct {
	Pitch, Yaw, Roll float64
}

// Forward returns the unit view direction for the given angles.
func (a Angles) Forward() Vec3 {
	pitch := a.Pitch * math.Pi / 180
	yaw := a.Yaw * math.Pi / 180
	cp := math.Cos(pitch)
	return Vec3{cp * math.Cos(yaw), cp * math.Sin(yaw), -math.Sin(pitch)}
}
