// Package geom provides the small vector/plane/box value types shared by
// the rest of the system, plus the wing coordinate frame.
package geom

import "math"

// Vec3 is a 3D vector or point in model space. Units are cm.
type Vec3 struct {
	X, Y, Z float64
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Scale returns v scaled by s.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Dot returns the dot product of v and o.
func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// Cross returns the cross product v × o.
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

// Length returns the Euclidean length of v.
func (v Vec3) Length() float64 {
	return math.Sqrt(v.Dot(v))
}

// Unit returns v normalized to unit length. The zero vector is returned
// unchanged.
func (v Vec3) Unit() Vec3 {
	l := v.Length()
	if l == 0 {
		return v
	}
	return v.Scale(1 / l)
}

// Box is an axis-aligned bounding box.
type Box struct {
	Min, Max Vec3
}

// Centroid returns the center point of the box: Min + (Max-Min)/2.
func (b Box) Centroid() Vec3 {
	return b.Min.Add(b.Max.Sub(b.Min).Scale(0.5))
}

// Plane is an infinite plane given by a point on it and its unit normal.
type Plane struct {
	Origin Vec3
	Normal Vec3
}

// Coord returns the coordinate of p measured along the plane normal.
// Two points with equal Coord lie in the same plane parallel to this one.
func (pl Plane) Coord(p Vec3) float64 {
	return ProjectCoord(p, pl.Normal)
}

// SignedDistance returns the distance of p from the plane, positive on
// the normal side.
func (pl Plane) SignedDistance(p Vec3) float64 {
	return p.Sub(pl.Origin).Dot(pl.Normal.Unit())
}

// Offset returns a plane parallel to pl, moved dist along its normal.
func (pl Plane) Offset(dist float64) Plane {
	return Plane{
		Origin: pl.Origin.Add(pl.Normal.Unit().Scale(dist)),
		Normal: pl.Normal,
	}
}

// Coplanar reports whether two planes are the same plane: parallel
// normals and coincident origins. The comparison is exact apart from a
// tiny epsilon absorbing float noise from plane construction.
func (pl Plane) Coplanar(o Plane) bool {
	const eps = 1e-9
	n1 := pl.Normal.Unit()
	n2 := o.Normal.Unit()
	cross := n1.Cross(n2)
	if cross.Length() > eps {
		return false
	}
	// Origins must project to the same coordinate along the shared normal.
	return math.Abs(o.Origin.Sub(pl.Origin).Dot(n1)) <= eps
}

// ProjectCoord returns the signed projection of point onto direction,
// i.e. the coordinate of point measured along that axis. The direction
// is normalized by its full magnitude.
//
// An earlier rendition of this formula divided only the Z term by the
// magnitude. All call sites pass canonical unit axes, for which both
// forms agree; the properly normalized form is the documented contract.
func ProjectCoord(point, direction Vec3) float64 {
	return point.Dot(direction) / direction.Length()
}

// RelativeLocation returns the location a given fraction of the way from
// from to to: from + (to-from)*frac.
func RelativeLocation(from, to, frac float64) float64 {
	return from + (to-from)*frac
}
