package engine

import "math"

// Vec3 is a three-component vector in world units. Y is up.
type Vec3 struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
	Z float32 `json:"z"`
}

// Up is the fallback direction for degenerate geometry.
var Up = Vec3{Y: 1}

func (v Vec3) Add(o Vec3) Vec3       { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3       { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Scale(s float32) Vec3  { return Vec3{v.X * s, v.Y * s, v.Z * s} }
func (v Vec3) Dot(o Vec3) float32    { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }
func (v Vec3) Length() float32       { return float32(math.Sqrt(float64(v.Dot(v)))) }
func (v Vec3) Distance(o Vec3) float32 { return v.Sub(o).Length() }

// Normalized returns the unit vector and whether the input had usable length.
func (v Vec3) Normalized() (Vec3, bool) {
	l := v.Length()
	if l < 1e-6 {
		return Vec3{}, false
	}
	return v.Scale(1 / l), true
}

// NormalizedOr normalizes v, falling back when the direction is degenerate.
func (v Vec3) NormalizedOr(fallback Vec3) Vec3 {
	if n, ok := v.Normalized(); ok {
		return n
	}
	return fallback
}

// Yaw returns the heading angle, in radians, of the horizontal components.
func (v Vec3) Yaw() float32 {
	return float32(math.Atan2(float64(v.X), float64(v.Z)))
}

// NodeID identifies a node in the external visual hierarchy. Zero = none.
type NodeID uint64

// BodyID identifies a rigid body or trigger volume in the external physics
// service. Zero = none.
type BodyID uint64

// RayHit is one intersection returned by a ray-cast query.
type RayHit struct {
	Body     BodyID
	Position Vec3
	Normal   Vec3
	Distance float32
}

// Contact is one active collision contact of a rigid body.
type Contact struct {
	Other    BodyID
	Position Vec3
}
