// Package kernel defines the abstract geometry kernel interface.
// Implementations (sdfx, memkern) provide plane construction, boundary
// partitioning, shelling and sketch/extrude operations behind this
// interface. The kernel abstraction allows swapping backends without
// changing the generative algorithm.
package kernel

import "github.com/andymb/airframe/pkg/geom"

// Body is an opaque handle to a kernel solid. The generator never
// mutates a body's topology except through kernel operations.
type Body interface {
	// Name returns the body's display name.
	Name() string
	// SetName assigns the body's display name.
	SetName(name string)
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() geom.Box
	// Faces returns the body's current faces.
	Faces() []Face
}

// Face is one face of a body. Only planar faces report a plane.
type Face interface {
	// Plane returns the face's plane and true if the face is planar.
	Plane() (geom.Plane, bool)
}

// Plane is a kernel-owned construction plane. Planes accumulate for the
// life of the document; they are hidden once consumed, never deleted.
type Plane interface {
	// Geometry returns the plane's origin and unit normal.
	Geometry() geom.Plane
	// SetHidden toggles display visibility. Cosmetic only.
	SetHidden(hidden bool)
}

// Line is a straight sketch segment in model space.
type Line struct {
	Start, End geom.Vec3
}

// Direction returns the unit direction from Start to End.
func (l Line) Direction() geom.Vec3 {
	return l.End.Sub(l.Start).Unit()
}

// Midpoint returns the point halfway along the line.
func (l Line) Midpoint() geom.Vec3 {
	return l.Start.Add(l.End.Sub(l.Start).Scale(0.5))
}

// Sketch is a 2D sketch on a construction plane. Closed loops of lines
// and circles become profiles available for extrusion.
type Sketch interface {
	Name() string
	// ReferencePlane returns the plane the sketch lies on.
	ReferencePlane() Plane
	// Lines returns the sketch's line segments in model space.
	Lines() []Line
	// AddLine appends a line between two model-space points.
	AddLine(a, b geom.Vec3)
	// AddCircle appends a circle with the given model-space center.
	AddCircle(center geom.Vec3, radius float64)
	// Profiles returns the closed profiles currently in the sketch.
	Profiles() []Profile
}

// Profile is a closed region of a sketch, usable as an extrusion input.
type Profile interface {
	// Plane returns the sketch plane the profile lies on.
	Plane() geom.Plane
}

// Component is a named container that collects generated bodies.
type Component interface {
	Name() string
	Bodies() []Body
	BodyByName(name string) (Body, bool)
}

// Cell is one transient fragment of a partition operation. Cells exist
// only until the partition is committed or cancelled.
type Cell interface {
	// BoundingBox returns the fragment's axis-aligned bounding box.
	BoundingBox() geom.Box
}

// Partition is a pending partition transaction on a single body. It is
// single-writer: exactly one of Commit or Cancel must be called, once.
// A Partition is not safe for concurrent use.
type Partition interface {
	// Cells returns the fragments the tool planes produced. No ordering
	// is guaranteed.
	Cells() []Cell
	// Commit keeps the cell at index i, discards all others, and returns
	// the resulting bodies (normally exactly one).
	Commit(i int) ([]Body, error)
	// Cancel rolls the partition back, discarding every cell.
	Cancel() error
}

// ExtrudeOp selects the effect of an extrusion.
type ExtrudeOp int

const (
	// ExtrudeNewBody creates a new solid body from the profile.
	ExtrudeNewBody ExtrudeOp = iota
	// ExtrudeCut removes the swept profile from participating bodies.
	ExtrudeCut
)

// Kernel is the abstract geometry kernel interface consumed by the
// generator. Every call is synchronous; each either returns a committed
// result or an error.
type Kernel interface {
	// PlaneByOffset creates a plane parallel to ref at a signed distance
	// along its normal.
	PlaneByOffset(ref Plane, dist float64) (Plane, error)
	// PlaneByAngle creates a plane containing line, rotated angleDeg
	// degrees from the reference plane about the line.
	PlaneByAngle(line Line, angleDeg float64, ref Plane) (Plane, error)

	// Partition opens a partition transaction cutting body with the two
	// tool planes. Committed bodies are created inside comp.
	Partition(comp Component, body Body, p1, p2 Plane) (Partition, error)

	// Shell hollows body in place with the given inward wall thickness,
	// leaving the listed faces open.
	Shell(body Body, open []Face, inset float64) error

	// SketchOnPlane creates an empty sketch on the given plane.
	SketchOnPlane(comp Component, p Plane) (Sketch, error)

	// Extrude sweeps a profile by dist producing new bodies inside comp.
	Extrude(comp Component, profile Profile, dist float64, op ExtrudeOp) ([]Body, error)
	// ExtrudeSymmetricCut sweeps all profiles symmetrically about their
	// sketch plane by the full dist, cutting only the participant bodies.
	ExtrudeSymmetricCut(profiles []Profile, dist float64, participants []Body) error

	// CombineIntersect replaces target with its boolean intersection
	// against the tool bodies. Tools are kept when keepTools is set.
	CombineIntersect(target Body, tools []Body, keepTools bool) error

	// ToMesh converts a body to a triangle mesh for preview or export.
	ToMesh(b Body) (*Mesh, error)
}

// Document is the host design document the generator runs against.
type Document interface {
	// BodyByName returns the named solid body in the root component.
	BodyByName(name string) (Body, bool)
	// SketchByName returns the named sketch in the root component.
	SketchByName(name string) (Sketch, bool)
	// NewComponent creates a named container for generated bodies.
	NewComponent(name string) (Component, error)

	// VerticalSpanwisePlane returns the canonical construction plane
	// spanned by the spanwise and vertical axes (chordwise normal).
	VerticalSpanwisePlane() Plane
	// HorizontalPlane returns the canonical construction plane spanned
	// by the chordwise and spanwise axes (vertical normal).
	HorizontalPlane() Plane
}

// FindCoplanarFace returns the face of body that is coplanar with the
// given plane, or false if none is. The match is exact; a shelled or
// otherwise modified body that no longer carries the face reports false.
func FindCoplanarFace(body Body, p Plane) (Face, bool) {
	target := p.Geometry()
	for _, f := range body.Faces() {
		fp, planar := f.Plane()
		if !planar {
			continue
		}
		if fp.Coplanar(target) {
			return f, true
		}
	}
	return nil, false
}
