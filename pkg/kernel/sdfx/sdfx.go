// Package sdfx implements the kernel interfaces using the
// github.com/deadsy/sdfx SDF-based CAD library. Bodies wrap sdf.SDF3
// values; partition cells are half-space cuts with bounding boxes
// clamped along the cut normal so cell disambiguation sees distinct
// centroids.
package sdfx

import (
	"fmt"
	"math"

	"github.com/andymb/airframe/pkg/geom"
	"github.com/andymb/airframe/pkg/kernel"
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Compile-time interface checks.
var (
	_ kernel.Kernel   = (*Design)(nil)
	_ kernel.Document = (*Design)(nil)
)

// defaultMeshCells controls marching cubes tessellation resolution.
const defaultMeshCells = 200

const eps = 1e-9

func toV3(v geom.Vec3) v3.Vec   { return v3.Vec{X: v.X, Y: v.Y, Z: v.Z} }
func fromV3(v v3.Vec) geom.Vec3 { return geom.Vec3{X: v.X, Y: v.Y, Z: v.Z} }

// Design is an sdfx-backed design document and kernel.
type Design struct {
	bodies   map[string]*Body
	sketches map[string]*Sketch
	comps    []*Component
}

// NewDesign returns an empty sdfx design document.
func NewDesign() *Design {
	return &Design{
		bodies:   make(map[string]*Body),
		sketches: make(map[string]*Sketch),
	}
}

// AddBodySDF seeds a named body from an arbitrary sdf.SDF3.
func (d *Design) AddBodySDF(name string, s sdf.SDF3) (*Body, error) {
	if s == nil {
		return nil, fmt.Errorf("nil SDF for body %q", name)
	}
	b := &Body{name: name, s: s}
	d.bodies[name] = b
	return b, nil
}

// AddBox seeds a named box body spanning min..max, a convenient stand-in
// for an imported wing solid.
func (d *Design) AddBox(name string, box geom.Box) (*Body, error) {
	size := box.Max.Sub(box.Min)
	s, err := sdf.Box3D(toV3(size), 0)
	if err != nil {
		return nil, fmt.Errorf("sdfx box: %w", err)
	}
	// Box3D centers on the origin; move the min corner onto box.Min.
	m := sdf.Translate3d(toV3(box.Min.Add(size.Scale(0.5))))
	return d.AddBodySDF(name, sdf.Transform3D(s, m))
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

// ComponentByName returns a previously created component, letting the
// CLI walk the bodies a generation run produced.
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

// --- Body / Face / Plane / Component ---

// Body wraps an sdf.SDF3. Planar boundary faces are tracked alongside
// the SDF since distance fields carry no face topology. Bodies cut out
// of another solid keep a reference to it; Shell carves its cavity
// from that parent solid.
type Body struct {
	name  string
	s     sdf.SDF3
	src   sdf.SDF3
	faces []*Face
}

func (b *Body) Name() string     { return b.name }
func (b *Body) SetName(n string) { b.name = n }

func (b *Body) BoundingBox() geom.Box {
	bb := b.s.BoundingBox()
	return geom.Box{Min: fromV3(bb.Min), Max: fromV3(bb.Max)}
}

func (b *Body) Faces() []kernel.Face {
	out := make([]kernel.Face, len(b.faces))
	for i, f := range b.faces {
		out[i] = f
	}
	return out
}

// SDF exposes the wrapped distance field.
func (b *Body) SDF() sdf.SDF3 { return b.s }

// Face is a tracked planar boundary face.
type Face struct {
	body  *Body
	plane geom.Plane
}

func (f *Face) Plane() (geom.Plane, bool) { return f.plane, true }

// Plane is a construction plane.
type Plane struct {
	geo    geom.Plane
	hidden bool
}

func (p *Plane) Geometry() geom.Plane { return p.geo }
func (p *Plane) SetHidden(h bool)     { p.hidden = h }

// Component is a named body container.
type Component struct {
	name   string
	bodies []kernel.Body
}

func (c *Component) Name() string          { return c.name }
func (c *Component) Bodies() []kernel.Body { return c.bodies }
func (c *Component) add(b kernel.Body)     { c.bodies = append(c.bodies, b) }

func (c *Component) BodyByName(name string) (kernel.Body, bool) {
	for _, b := range c.bodies {
		if b.Name() == name {
			return b, true
		}
	}
	return nil, false
}

// --- planes ---

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
	normal := dir.Cross(ref.Geometry().Normal.Unit()).Unit()
	if normal.Length() == 0 {
		return nil, fmt.Errorf("line is perpendicular to the reference plane")
	}
	return &Plane{geo: geom.Plane{Origin: line.Midpoint(), Normal: normal}}, nil
}

// --- partition ---

// Cell is one half-space fragment of a pending partition.
type Cell struct {
	s      sdf.SDF3
	box    geom.Box
	planes []geom.Plane // bounding cut planes, become faces on commit
}

func (c *Cell) BoundingBox() geom.Box { return c.box }

// Partition is a pending partition transaction.
type Partition struct {
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
	cell := tx.cells[i]
	b := &Body{name: tx.source.name + "_cell", s: cell.s, src: tx.source.s}
	for _, pl := range cell.planes {
		b.faces = append(b.faces, &Face{body: b, plane: pl})
	}
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

// clampBox narrows a bounding box so its extent along the unit normal n
// becomes [a, b]. Exact for axis-aligned normals, conservative otherwise.
func clampBox(box geom.Box, n geom.Vec3, a, b float64) geom.Box {
	lo := geom.ProjectCoord(box.Min, n)
	hi := geom.ProjectCoord(box.Max, n)
	if lo > hi {
		lo, hi = hi, lo
	}
	a = math.Max(a, lo)
	b = math.Min(b, hi)
	box.Min = box.Min.Add(n.Scale(a - lo))
	box.Max = box.Max.Sub(n.Scale(hi - b))
	return box
}

func (d *Design) Partition(comp kernel.Component, body kernel.Body, p1, p2 kernel.Plane) (kernel.Partition, error) {
	src, ok := body.(*Body)
	if !ok {
		return nil, fmt.Errorf("foreign body %T", body)
	}
	g1 := p1.Geometry()
	g2 := p2.Geometry()
	n := g1.Normal.Unit()
	if n.Cross(g2.Normal.Unit()).Length() > 1e-6 {
		return nil, fmt.Errorf("partition planes are not parallel")
	}

	c1 := geom.ProjectCoord(g1.Origin, n)
	c2 := geom.ProjectCoord(g2.Origin, n)
	if c1 > c2 {
		c1, c2 = c2, c1
	}

	box := src.BoundingBox()
	lo := geom.ProjectCoord(box.Min, n)
	hi := geom.ProjectCoord(box.Max, n)
	if lo > hi {
		lo, hi = hi, lo
	}

	at := func(coord float64) v3.Vec { return toV3(n.Scale(coord)) }
	planeAt := func(coord float64) geom.Plane {
		return geom.Plane{Origin: n.Scale(coord), Normal: n}
	}

	tx := &Partition{source: src}
	if comp != nil {
		sc, ok := comp.(*Component)
		if !ok {
			return nil, fmt.Errorf("foreign component %T", comp)
		}
		tx.comp = sc
	}

	// Up to three fragments: below p1, between, above p2. Fragments with
	// no extent inside the body are dropped, which is how 2-cell
	// partitions arise when a plane coincides with a boundary face.
	if c1-lo > eps {
		tx.cells = append(tx.cells, &Cell{
			s:      sdf.Cut3D(src.s, at(c1), toV3(n.Scale(-1))),
			box:    clampBox(box, n, lo, c1),
			planes: []geom.Plane{planeAt(c1)},
		})
	}
	if c2-c1 > eps && c2 > lo-eps && c1 < hi+eps {
		a := math.Max(c1, lo)
		b := math.Min(c2, hi)
		if b-a > eps {
			middle := sdf.Cut3D(sdf.Cut3D(src.s, at(c1), toV3(n)), at(c2), toV3(n.Scale(-1)))
			tx.cells = append(tx.cells, &Cell{
				s:      middle,
				box:    clampBox(box, n, a, b),
				planes: []geom.Plane{planeAt(c1), planeAt(c2)},
			})
		}
	}
	if hi-c2 > eps {
		tx.cells = append(tx.cells, &Cell{
			s:      sdf.Cut3D(src.s, at(c2), toV3(n)),
			box:    clampBox(box, n, c2, hi),
			planes: []geom.Plane{planeAt(c2)},
		})
	}
	return tx, nil
}

// --- shell, combine, mesh ---

// Shell hollows the body by carving out an inward offset of the solid
// it was partitioned from. Offsetting the parent solid instead of the
// body keeps the cavity from pinching shut when the body is thinner
// than twice the inset, which is the normal case for a rib slab. Cut
// faces kept closed clip the cavity so they retain an inset-thick cap;
// open faces lose theirs entirely.
func (d *Design) Shell(body kernel.Body, open []kernel.Face, inset float64) error {
	b, ok := body.(*Body)
	if !ok {
		return fmt.Errorf("foreign body %T", body)
	}
	if inset <= 0 {
		return fmt.Errorf("shell inset must be positive, got %v", inset)
	}
	for _, f := range open {
		if _, planar := f.Plane(); !planar {
			return fmt.Errorf("open face is not planar")
		}
	}

	src := b.src
	if src == nil {
		src = b.s
	}
	cavity := sdf.Offset3D(src, -inset)

	centroid := b.BoundingBox().Centroid()
	for _, f := range b.faces {
		if containsFace(open, f) {
			continue
		}
		out := f.plane.Normal.Unit()
		c := geom.ProjectCoord(f.plane.Origin, out)
		if geom.ProjectCoord(centroid, out) > c {
			out = out.Scale(-1)
			c = -c
		}
		cavity = sdf.Cut3D(cavity, toV3(out.Scale(c-inset)), toV3(out.Scale(-1)))
	}
	b.s = sdf.Difference3D(b.s, cavity)

	// The opened faces are gone from the body.
	remaining := b.faces[:0]
	for _, f := range b.faces {
		if !containsFace(open, f) {
			remaining = append(remaining, f)
		}
	}
	b.faces = remaining
	return nil
}

func containsFace(faces []kernel.Face, f *Face) bool {
	for _, o := range faces {
		if o == kernel.Face(f) {
			return true
		}
	}
	return false
}

func (d *Design) CombineIntersect(target kernel.Body, tools []kernel.Body, keepTools bool) error {
	t, ok := target.(*Body)
	if !ok {
		return fmt.Errorf("foreign body %T", target)
	}
	for _, tool := range tools {
		tb, ok := tool.(*Body)
		if !ok {
			return fmt.Errorf("foreign tool body %T", tool)
		}
		t.s = sdf.Intersect3D(t.s, tb.s)
	}
	if !keepTools {
		for _, tool := range tools {
			if tb, ok := tool.(*Body); ok {
				delete(d.bodies, tb.name)
			}
		}
	}
	return nil
}

// ToMesh converts a body to a triangle mesh using marching cubes.
func (d *Design) ToMesh(b kernel.Body) (*kernel.Mesh, error) {
	sb, ok := b.(*Body)
	if !ok {
		return nil, fmt.Errorf("foreign body %T", b)
	}

	renderer := render.NewMarchingCubesUniform(defaultMeshCells)
	triangles := render.ToTriangles(sb.s, renderer)

	numVerts := len(triangles) * 3
	vertices := make([]float32, 0, numVerts*3)
	normals := make([]float32, 0, numVerts*3)
	indices := make([]uint32, 0, numVerts)

	for i, tri := range triangles {
		n := tri.Normal()
		nx := float32(n.X)
		ny := float32(n.Y)
		nz := float32(n.Z)
		for j := 0; j < 3; j++ {
			v := tri[j]
			vertices = append(vertices, float32(v.X), float32(v.Y), float32(v.Z))
			normals = append(normals, nx, ny, nz)
			indices = append(indices, uint32(i*3+j))
		}
	}

	return &kernel.Mesh{
		Vertices: vertices,
		Normals:  normals,
		Indices:  indices,
		PartName: sb.name,
	}, nil
}

// --- sketches and extrusion ---

// circle is a sketched circle in model space.
type circle struct {
	center geom.Vec3
	radius float64
}

// Sketch is a sketch on a construction plane.
type Sketch struct {
	name    string
	ref     *Plane
	lines   []kernel.Line
	circles []circle
}

func (s *Sketch) Name() string                 { return s.name }
func (s *Sketch) ReferencePlane() kernel.Plane { return s.ref }
func (s *Sketch) Lines() []kernel.Line         { return s.lines }

func (s *Sketch) AddLine(a, b geom.Vec3) {
	s.lines = append(s.lines, kernel.Line{Start: a, End: b})
}

func (s *Sketch) AddCircle(center geom.Vec3, radius float64) {
	s.circles = append(s.circles, circle{center: center, radius: radius})
}

func (s *Sketch) Profiles() []kernel.Profile {
	var out []kernel.Profile

	var loop []geom.Vec3
	for _, l := range s.lines {
		if len(loop) == 0 {
			loop = append(loop, l.Start, l.End)
			continue
		}
		loop = append(loop, l.End)
		if l.End.Sub(loop[0]).Length() < eps {
			pts := append([]geom.Vec3(nil), loop[:len(loop)-1]...)
			out = append(out, &loopProfile{plane: s.ref.geo, points: pts})
			loop = nil
		}
	}
	for _, c := range s.circles {
		out = append(out, &circleProfile{plane: s.ref.geo, circ: c})
	}
	return out
}

// loopProfile is a closed polygon profile.
type loopProfile struct {
	plane  geom.Plane
	points []geom.Vec3
}

func (p *loopProfile) Plane() geom.Plane { return p.plane }

// circleProfile is a single sketched circle.
type circleProfile struct {
	plane geom.Plane
	circ  circle
}

func (p *circleProfile) Plane() geom.Plane { return p.plane }

func (d *Design) SketchOnPlane(comp kernel.Component, p kernel.Plane) (kernel.Sketch, error) {
	sp, ok := p.(*Plane)
	if !ok {
		return nil, fmt.Errorf("foreign plane %T", p)
	}
	return &Sketch{ref: sp}, nil
}

// frameTo returns the rotation taking the z axis onto the unit normal
// n, along with the images u and v of the x and y axes under that same
// rotation. Sketch geometry flattened against u and v round-trips
// exactly through the returned matrix.
func frameTo(n geom.Vec3) (m sdf.M44, u, v geom.Vec3) {
	z := geom.Vec3{Z: 1}
	d := z.Dot(n)
	switch {
	case d > 1-eps:
		return sdf.Identity3d(), geom.Vec3{X: 1}, geom.Vec3{Y: 1}
	case d < -1+eps:
		return sdf.RotateX(math.Pi), geom.Vec3{X: 1}, geom.Vec3{Y: -1}
	}
	axis := z.Cross(n).Unit()
	angle := math.Acos(d)
	u = rodrigues(geom.Vec3{X: 1}, axis, angle)
	v = rodrigues(geom.Vec3{Y: 1}, axis, angle)
	return sdf.Rotate3d(toV3(axis), angle), u, v
}

// rodrigues rotates p about the unit axis by the given angle.
func rodrigues(p, axis geom.Vec3, angle float64) geom.Vec3 {
	c := math.Cos(angle)
	s := math.Sin(angle)
	return p.Scale(c).
		Add(axis.Cross(p).Scale(s)).
		Add(axis.Scale(axis.Dot(p) * (1 - c)))
}

// Extrude sweeps a closed polygon profile along its plane normal.
func (d *Design) Extrude(comp kernel.Component, profile kernel.Profile, dist float64, op kernel.ExtrudeOp) ([]kernel.Body, error) {
	if op != kernel.ExtrudeNewBody {
		return nil, fmt.Errorf("sdfx extrude supports new-body operations only")
	}
	lp, ok := profile.(*loopProfile)
	if !ok {
		return nil, fmt.Errorf("extrude of %T profiles is not supported", profile)
	}

	n := lp.plane.Normal.Unit()
	rot, u, v := frameTo(n)

	// Flatten the loop into plane coordinates around its own centroid.
	var center geom.Vec3
	for _, p := range lp.points {
		center = center.Add(p)
	}
	center = center.Scale(1 / float64(len(lp.points)))

	pts := make([]v2.Vec, len(lp.points))
	for i, p := range lp.points {
		rel := p.Sub(center)
		pts[i] = v2.Vec{X: rel.Dot(u), Y: rel.Dot(v)}
	}
	poly, err := sdf.Polygon2D(pts)
	if err != nil {
		return nil, fmt.Errorf("sdfx polygon: %w", err)
	}

	solid := sdf.Extrude3D(poly, math.Abs(dist))
	// Extrude3D is symmetric about the sketch plane. Orient it, then
	// push it so it grows from the plane along the signed distance.
	offset := center.Add(n.Scale(dist / 2))
	solid = sdf.Transform3D(solid, sdf.Translate3d(toV3(offset)).Mul(rot))

	b := &Body{s: solid}
	if comp != nil {
		if sc, ok := comp.(*Component); ok {
			sc.add(b)
		}
	}
	return []kernel.Body{b}, nil
}

// ExtrudeSymmetricCut subtracts one cylinder per circle profile from
// each participant body, cutting symmetrically through dist.
func (d *Design) ExtrudeSymmetricCut(profiles []kernel.Profile, dist float64, participants []kernel.Body) error {
	if dist <= 0 {
		return fmt.Errorf("symmetric cut distance must be positive, got %v", dist)
	}
	for _, prof := range profiles {
		cp, ok := prof.(*circleProfile)
		if !ok {
			return fmt.Errorf("symmetric cut of %T profiles is not supported", prof)
		}
		n := cp.plane.Normal.Unit()
		cyl, err := sdf.Cylinder3D(dist, cp.circ.radius, 0)
		if err != nil {
			return fmt.Errorf("sdfx cylinder: %w", err)
		}
		rot, _, _ := frameTo(n)
		m := sdf.Translate3d(toV3(cp.circ.center)).Mul(rot)
		tool := sdf.Transform3D(cyl, m)
		for _, part := range participants {
			b, ok := part.(*Body)
			if !ok {
				return fmt.Errorf("foreign participant body %T", part)
			}
			b.s = sdf.Difference3D(b.s, tool)
		}
	}
	return nil
}
