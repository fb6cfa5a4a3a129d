// Package memkern is an analytic in-memory implementation of the kernel
// interfaces. Bodies are axis-aligned solids and partitions are interval
// splits, which is enough to run the full generator without a real
// geometry backend. It backs the test suite and dry runs.
//
// Limitations: tool planes must be axis-aligned, and angled construction
// planes support only the 90 degree case the generator uses.
package memkern

import (
	"fmt"
	"math"

	"github.com/andymb/airframe/pkg/geom"
	"github.com/andymb/airframe/pkg/kernel"
)

// Compile-time interface checks.
var (
	_ kernel.Kernel   = (*Design)(nil)
	_ kernel.Document = (*Design)(nil)
)

const eps = 1e-9

// Design is an in-memory design document plus the kernel operating on
// it. A single Design value serves as both interfaces.
type Design struct {
	bodies   map[string]*Body
	sketches map[string]*Sketch
	comps    []*Component
}

// NewDesign returns an empty design document.
func NewDesign() *Design {
	return &Design{
		bodies:   make(map[string]*Body),
		sketches: make(map[string]*Sketch),
	}
}

// AddBody seeds a named solid body spanning the given box.
func (d *Design) AddBody(name string, box geom.Box) *Body {
	b := &Body{name: name, box: box}
	d.bodies[name] = b
	return b
}

// AddSketch seeds a named sketch containing the given model-space lines.
func (d *Design) AddSketch(name string, refPlane geom.Plane, lines []kernel.Line) *Sketch {
	s := &Sketch{name: name, ref: &Plane{geo: refPlane}, lines: lines}
	d.sketches[name] = s
	return s
}

// --- kernel.Document ---

func (d *Design) BodyByName(name string) (kernel.Body, bool) {
	b, ok := d.bodies[name]
	if !ok {
		return nil, false
	}
	return b, true
}

func (d *Design) SketchByName(name string) (kernel.Sketch, bool) {
	s, ok := d.sketches[name]
	if !ok {
		return nil, false
	}
	return s, true
}

func (d *Design) NewComponent(name string) (kernel.Component, error) {
	c := &Component{name: name}
	d.comps = append(d.comps, c)
	return c, nil
}

// ComponentByName returns a previously created component, letting tests
// and dry runs inspect what a generation run produced.
func (d *Design) ComponentByName(name string) (*Component, bool) {
	for _, c := range d.comps {
		if c.name == name {
			return c, true
		}
	}
	return nil, false
}

func (d *Design) VerticalSpanwisePlane() kernel.Plane {
	return &Plane{geo: geom.Plane{Normal: geom.DefaultFrame.Chordwise}}
}

func (d *Design) HorizontalPlane() kernel.Plane {
	return &Plane{geo: geom.Plane{Normal: geom.DefaultFrame.VerticalUp}}
}

// --- Body ---

// hole records one perforation cut through a body.
type hole struct {
	center geom.Vec3
	radius float64
	normal geom.Vec3
}

// Body is an axis-aligned solid with shell and perforation state.
type Body struct {
	name      string
	box       geom.Box
	shelled   bool
	inset     float64
	openFaces []kernel.Face
	holes     []hole
}

func (b *Body) Name() string          { return b.name }
func (b *Body) SetName(n string)      { b.name = n }
func (b *Body) BoundingBox() geom.Box { return b.box }

// Faces returns the six planar box faces. Faces left open by a shell
// operation are no longer part of the body.
func (b *Body) Faces() []kernel.Face {
	axes := []geom.Vec3{{X: 1}, {Y: 1}, {Z: 1}}
	var faces []kernel.Face
	for _, axis := range axes {
		lo := geom.ProjectCoord(b.box.Min, axis)
		hi := geom.ProjectCoord(b.box.Max, axis)
		for _, coord := range []float64{lo, hi} {
			f := &Face{
				body:  b,
				plane: geom.Plane{Origin: axis.Scale(coord), Normal: axis},
			}
			if b.isOpen(f) {
				continue
			}
			faces = append(faces, f)
		}
	}
	return faces
}

func (b *Body) isOpen(f *Face) bool {
	for _, open := range b.openFaces {
		of, ok := open.(*Face)
		if !ok {
			continue
		}
		if of.plane.Coplanar(f.plane) {
			return true
		}
	}
	return false
}

// Shelled reports whether the body has been hollowed, and the wall
// thickness used.
func (b *Body) Shelled() (bool, float64) { return b.shelled, b.inset }

// OpenFaceCount returns how many faces were left open by the shell.
func (b *Body) OpenFaceCount() int { return len(b.openFaces) }

// Holes returns the number of perforations cut through the body.
func (b *Body) Holes() int { return len(b.holes) }

// Face is one planar face of a box body.
type Face struct {
	body  *Body
	plane geom.Plane
}

func (f *Face) Plane() (geom.Plane, bool) { return f.plane, true }

// --- Plane ---

// Plane is a construction plane.
type Plane struct {
	geo    geom.Plane
	hidden bool
}

func (p *Plane) Geometry() geom.Plane { return p.geo }
func (p *Plane) SetHidden(h bool)     { p.hidden = h }

// Hidden reports display visibility, for test assertions.
func (p *Plane) Hidden() bool { return p.hidden }

// --- Component ---

// Component is a named body container.
type Component struct {
	name   string
	bodies []kernel.Body
}

func (c *Component) Name() string           { return c.name }
func (c *Component) Bodies() []kernel.Body  { return c.bodies }
func (c *Component) add(b kernel.Body)      { c.bodies = append(c.bodies, b) }

func (c *Component) BodyByName(name string) (kernel.Body, bool) {
	for _, b := range c.bodies {
		if b.Name() == name {
			return b, true
		}
	}
	return nil, false
}

// --- kernel.Kernel: planes ---

func (d *Design) PlaneByOffset(ref kernel.Plane, dist float64) (kernel.Plane, error) {
	g := ref.Geometry()
	if g.Normal.Length() == 0 {
		return nil, fmt.Errorf("reference plane has a zero normal")
	}
	return &Plane{geo: g.Offset(dist)}, nil
}

func (d *Design) PlaneByAngle(line kernel.Line, angleDeg float64, ref kernel.Plane) (kernel.Plane, error) {
	if math.Abs(angleDeg-90) > eps {
		return nil, fmt.Errorf("only 90 degree construction planes are supported, got %v", angleDeg)
	}
	dir := line.Direction()
	if dir.Length() == 0 {
		return nil, fmt.Errorf("degenerate line")
	}
	normal := dir.Cross(ref.Geometry().Normal.Unit()).Unit()
	if normal.Length() == 0 {
		return nil, fmt.Errorf("line is perpendicular to the reference plane")
	}
	return &Plane{geo: geom.Plane{Origin: line.Midpoint(), Normal: normal}}, nil
}

// axisOf returns the canonical axis a unit normal aligns with, or an
// error for a skew normal this backend cannot partition along.
func axisOf(normal geom.Vec3) (geom.Vec3, error) {
	n := normal.Unit()
	for _, axis := range []geom.Vec3{{X: 1}, {Y: 1}, {Z: 1}} {
		d := n.Dot(axis)
		if math.Abs(math.Abs(d)-1) < 1e-6 {
			return axis, nil
		}
	}
	return geom.Vec3{}, fmt.Errorf("partition normal %v is not axis-aligned", normal)
}

// replaceInterval returns box with its extent along axis replaced.
func replaceInterval(box geom.Box, axis geom.Vec3, lo, hi float64) geom.Box {
	min, max := box.Min, box.Max
	switch {
	case axis.X == 1:
		min.X, max.X = lo, hi
	case axis.Y == 1:
		min.Y, max.Y = lo, hi
	default:
		min.Z, max.Z = lo, hi
	}
	return geom.Box{Min: min, Max: max}
}

// --- kernel.Kernel: partition ---

// Cell is one fragment of a pending partition.
type Cell struct {
	box geom.Box
}

func (c *Cell) BoundingBox() geom.Box { return c.box }

// Partition is a pending partition transaction.
type Partition struct {
	design *Design
	comp   *Component
	source *Body
	cells  []*Cell

	committed bool
	cancelled bool
}

func (tx *Partition) Cells() []kernel.Cell {
	out := make([]kernel.Cell, len(tx.cells))
	for i, c := range tx.cells {
		out[i] = c
	}
	return out
}

func (tx *Partition) Commit(i int) ([]kernel.Body, error) {
	if tx.committed || tx.cancelled {
		return nil, fmt.Errorf("partition already resolved")
	}
	if i < 0 || i >= len(tx.cells) {
		return nil, fmt.Errorf("cell index %d out of range (%d cells)", i, len(tx.cells))
	}
	tx.committed = true
	b := &Body{name: tx.source.name + "_cell", box: tx.cells[i].box}
	if tx.comp != nil {
		tx.comp.add(b)
	}
	return []kernel.Body{b}, nil
}

func (tx *Partition) Cancel() error {
	if tx.committed {
		return fmt.Errorf("partition already committed")
	}
	tx.cancelled = true
	return nil
}

func (d *Design) Partition(comp kernel.Component, body kernel.Body, p1, p2 kernel.Plane) (kernel.Partition, error) {
	src, ok := body.(*Body)
	if !ok {
		return nil, fmt.Errorf("foreign body %T", body)
	}
	axis, err := axisOf(p1.Geometry().Normal)
	if err != nil {
		return nil, err
	}

	lo := geom.ProjectCoord(src.box.Min, axis)
	hi := geom.ProjectCoord(src.box.Max, axis)
	c1 := geom.ProjectCoord(p1.Geometry().Origin, axis)
	c2 := geom.ProjectCoord(p2.Geometry().Origin, axis)
	if c1 > c2 {
		c1, c2 = c2, c1
	}

	// Breakpoints inside the body's extent define the fragments.
	breaks := []float64{lo}
	for _, c := range []float64{c1, c2} {
		if c > lo+eps && c < hi-eps {
			breaks = append(breaks, c)
		}
	}
	breaks = append(breaks, hi)

	tx := &Partition{design: d, source: src}
	if comp != nil {
		mc, ok := comp.(*Component)
		if !ok {
			return nil, fmt.Errorf("foreign component %T", comp)
		}
		tx.comp = mc
	}
	for i := 0; i+1 < len(breaks); i++ {
		if breaks[i+1]-breaks[i] <= eps {
			continue
		}
		cell := &Cell{box: replaceInterval(src.box, axis, breaks[i], breaks[i+1])}
		// A shelled body has no material between the planes; its middle
		// fragment disappears, leaving only the wall fragments.
		if src.shelled && breaks[i] >= c1-eps && breaks[i+1] <= c2+eps {
			continue
		}
		// Prepend so callers cannot rely on spatial ordering.
		tx.cells = append([]*Cell{cell}, tx.cells...)
	}
	return tx, nil
}

// --- kernel.Kernel: shell, combine ---

func (d *Design) Shell(body kernel.Body, open []kernel.Face, inset float64) error {
	b, ok := body.(*Body)
	if !ok {
		return fmt.Errorf("foreign body %T", body)
	}
	if inset <= 0 {
		return fmt.Errorf("shell inset must be positive, got %v", inset)
	}
	if b.shelled {
		return fmt.Errorf("body %q is already shelled", b.name)
	}
	b.shelled = true
	b.inset = inset
	b.openFaces = append([]kernel.Face(nil), open...)
	return nil
}

func (d *Design) CombineIntersect(target kernel.Body, tools []kernel.Body, keepTools bool) error {
	t, ok := target.(*Body)
	if !ok {
		return fmt.Errorf("foreign body %T", target)
	}
	box := t.box
	for _, tool := range tools {
		tb := tool.BoundingBox()
		box = geom.Box{
			Min: geom.Vec3{X: math.Max(box.Min.X, tb.Min.X), Y: math.Max(box.Min.Y, tb.Min.Y), Z: math.Max(box.Min.Z, tb.Min.Z)},
			Max: geom.Vec3{X: math.Min(box.Max.X, tb.Max.X), Y: math.Min(box.Max.Y, tb.Max.Y), Z: math.Min(box.Max.Z, tb.Max.Z)},
		}
	}
	if box.Max.X < box.Min.X || box.Max.Y < box.Min.Y || box.Max.Z < box.Min.Z {
		return fmt.Errorf("intersection of %q with tools is empty", t.name)
	}
	t.box = box
	if !keepTools {
		for _, tool := range tools {
			if tb, ok := tool.(*Body); ok {
				delete(d.bodies, tb.name)
			}
		}
	}
	return nil
}

// --- kernel.Kernel: mesh ---

// ToMesh returns an empty mesh; memkern carries no tessellation.
func (d *Design) ToMesh(b kernel.Body) (*kernel.Mesh, error) {
	return &kernel.Mesh{PartName: b.Name()}, nil
}
