package memkern

import (
	"math"
	"testing"

	"github.com/andymb/airframe/pkg/geom"
	"github.com/andymb/airframe/pkg/kernel"
)

func wingBox() geom.Box {
	// 10 chordwise x 6 spanwise x 2 vertical.
	return geom.Box{Min: geom.Vec3{}, Max: geom.Vec3{X: 10, Y: 6, Z: 2}}
}

func spanPlane(d *Design, t *testing.T, y float64) kernel.Plane {
	t.Helper()
	ref := &Plane{geo: geom.Plane{Normal: geom.Vec3{Y: 1}}}
	p, err := d.PlaneByOffset(ref, y)
	if err != nil {
		t.Fatalf("PlaneByOffset(%v): %v", y, err)
	}
	return p
}

func TestPartitionThreeCells(t *testing.T) {
	d := NewDesign()
	wing := d.AddBody("skin", wingBox())

	tx, err := d.Partition(nil, wing, spanPlane(d, t, 2), spanPlane(d, t, 3))
	if err != nil {
		t.Fatalf("Partition() error = %v", err)
	}
	cells := tx.Cells()
	if len(cells) != 3 {
		t.Fatalf("got %d cells, want 3", len(cells))
	}
	// Exactly one centroid between the planes, regardless of cell order.
	between := 0
	for _, c := range cells {
		y := c.BoundingBox().Centroid().Y
		if y >= 2 && y <= 3 {
			between++
		}
	}
	if between != 1 {
		t.Errorf("%d cells between planes, want 1", between)
	}
}

func TestPartitionTwoCellsAtBodyEdge(t *testing.T) {
	d := NewDesign()
	wing := d.AddBody("skin", wingBox())

	// First plane coincides with the root face: only 2 fragments.
	tx, err := d.Partition(nil, wing, spanPlane(d, t, 0), spanPlane(d, t, 0.12))
	if err != nil {
		t.Fatalf("Partition() error = %v", err)
	}
	if got := len(tx.Cells()); got != 2 {
		t.Errorf("got %d cells, want 2", got)
	}
}

func TestPartitionPlanesOutsideBody(t *testing.T) {
	d := NewDesign()
	wing := d.AddBody("skin", wingBox())

	// Both planes beyond the tip: the body is not split at all.
	tx, err := d.Partition(nil, wing, spanPlane(d, t, 7), spanPlane(d, t, 8))
	if err != nil {
		t.Fatalf("Partition() error = %v", err)
	}
	if got := len(tx.Cells()); got != 1 {
		t.Errorf("got %d cells, want 1", got)
	}
}

func TestPartitionShelledBodyLosesMiddleCell(t *testing.T) {
	d := NewDesign()
	wing := d.AddBody("skin", wingBox())
	if err := d.Shell(wing, nil, 0.1); err != nil {
		t.Fatalf("Shell() error = %v", err)
	}

	tx, err := d.Partition(nil, wing, spanPlane(d, t, 2), spanPlane(d, t, 3))
	if err != nil {
		t.Fatalf("Partition() error = %v", err)
	}
	cells := tx.Cells()
	if len(cells) != 2 {
		t.Fatalf("got %d cells, want 2 wall fragments", len(cells))
	}
	for _, c := range cells {
		y := c.BoundingBox().Centroid().Y
		if y > 2 && y < 3 {
			t.Errorf("shelled body still produced a cell between the planes (centroid y=%v)", y)
		}
	}
}

func TestPartitionCommitCreatesBodyInComponent(t *testing.T) {
	d := NewDesign()
	wing := d.AddBody("skin", wingBox())
	compIfc, err := d.NewComponent("ribs")
	if err != nil {
		t.Fatalf("NewComponent() error = %v", err)
	}

	tx, err := d.Partition(compIfc, wing, spanPlane(d, t, 2), spanPlane(d, t, 3))
	if err != nil {
		t.Fatalf("Partition() error = %v", err)
	}
	// Find the between cell and commit it.
	idx := -1
	for i, c := range tx.Cells() {
		y := c.BoundingBox().Centroid().Y
		if y >= 2 && y <= 3 {
			idx = i
		}
	}
	bodies, err := tx.Commit(idx)
	if err != nil {
		t.Fatalf("Commit() error = %v", err)
	}
	if len(bodies) != 1 {
		t.Fatalf("Commit() produced %d bodies, want 1", len(bodies))
	}
	if len(compIfc.Bodies()) != 1 {
		t.Errorf("component holds %d bodies, want 1", len(compIfc.Bodies()))
	}

	// The transaction is resolved: no second commit, no cancel.
	if _, err := tx.Commit(idx); err == nil {
		t.Error("second Commit must fail")
	}
	if err := tx.Cancel(); err == nil {
		t.Error("Cancel after Commit must fail")
	}
}

func TestPartitionCancel(t *testing.T) {
	d := NewDesign()
	wing := d.AddBody("skin", wingBox())

	tx, err := d.Partition(nil, wing, spanPlane(d, t, 2), spanPlane(d, t, 3))
	if err != nil {
		t.Fatalf("Partition() error = %v", err)
	}
	if err := tx.Cancel(); err != nil {
		t.Fatalf("Cancel() error = %v", err)
	}
	if _, err := tx.Commit(0); err == nil {
		t.Error("Commit after Cancel must fail")
	}
}

func TestPartitionSkewNormal(t *testing.T) {
	d := NewDesign()
	wing := d.AddBody("skin", wingBox())
	skew := &Plane{geo: geom.Plane{Normal: geom.Vec3{X: 1, Y: 1}.Unit()}}
	if _, err := d.Partition(nil, wing, skew, skew); err == nil {
		t.Error("expected an error for a skew partition normal")
	}
}

func TestPlaneByAngle(t *testing.T) {
	d := NewDesign()
	// A spanwise line at chordwise x=4.
	line := kernel.Line{Start: geom.Vec3{X: 4, Y: 0}, End: geom.Vec3{X: 4, Y: 6}}
	p, err := d.PlaneByAngle(line, 90, d.HorizontalPlane())
	if err != nil {
		t.Fatalf("PlaneByAngle() error = %v", err)
	}
	g := p.Geometry()
	if math.Abs(math.Abs(g.Normal.X)-1) > 1e-9 || math.Abs(g.Normal.Y) > 1e-9 || math.Abs(g.Normal.Z) > 1e-9 {
		t.Errorf("normal = %v, want chordwise", g.Normal)
	}
	if g.Origin.X != 4 {
		t.Errorf("origin = %v, want x=4", g.Origin)
	}

	if _, err := d.PlaneByAngle(line, 45, d.HorizontalPlane()); err == nil {
		t.Error("expected an error for a non-90-degree angle")
	}
}

func TestShellOpensFaces(t *testing.T) {
	d := NewDesign()
	rib := d.AddBody("rib_1", geom.Box{Min: geom.Vec3{}, Max: geom.Vec3{X: 10, Y: 0.12, Z: 2}})

	before := len(rib.Faces())
	if before != 6 {
		t.Fatalf("box body has %d faces, want 6", before)
	}

	// Open the two spanwise faces.
	var open []kernel.Face
	for _, f := range rib.Faces() {
		pl, _ := f.Plane()
		if pl.Normal.Y == 1 {
			open = append(open, f)
		}
	}
	if len(open) != 2 {
		t.Fatalf("found %d spanwise faces, want 2", len(open))
	}

	if err := d.Shell(rib, open, 0.08); err != nil {
		t.Fatalf("Shell() error = %v", err)
	}
	shelled, inset := rib.Shelled()
	if !shelled || inset != 0.08 {
		t.Errorf("Shelled() = (%v, %v), want (true, 0.08)", shelled, inset)
	}
	if got := len(rib.Faces()); got != 4 {
		t.Errorf("after shell %d faces remain, want 4", got)
	}
	if err := d.Shell(rib, nil, 0.08); err == nil {
		t.Error("second Shell must fail")
	}
}

func TestExtrudeTriangleLoop(t *testing.T) {
	d := NewDesign()
	comp, _ := d.NewComponent("ribs")
	plane := &Plane{geo: geom.Plane{Origin: geom.Vec3{X: 3}, Normal: geom.Vec3{X: 1}}}

	sk, err := d.SketchOnPlane(comp, plane)
	if err != nil {
		t.Fatalf("SketchOnPlane() error = %v", err)
	}
	a := geom.Vec3{X: 3, Y: 2, Z: 1.8}
	b := geom.Vec3{X: 3, Y: 2.2, Z: 2}
	c := geom.Vec3{X: 3, Y: 1.8, Z: 2}
	sk.AddLine(a, b)
	sk.AddLine(b, c)
	sk.AddLine(c, a)

	profs := sk.Profiles()
	if len(profs) != 1 {
		t.Fatalf("got %d profiles, want 1", len(profs))
	}

	bodies, err := d.Extrude(comp, profs[0], 0.1, kernel.ExtrudeNewBody)
	if err != nil {
		t.Fatalf("Extrude() error = %v", err)
	}
	if len(bodies) != 1 {
		t.Fatalf("Extrude() produced %d bodies, want 1", len(bodies))
	}
	box := bodies[0].BoundingBox()
	if box.Min.X != 3 || math.Abs(box.Max.X-3.1) > 1e-12 {
		t.Errorf("extruded box x extent = [%v, %v], want [3, 3.1]", box.Min.X, box.Max.X)
	}
}

func TestExtrudeSymmetricCutRecordsHoles(t *testing.T) {
	d := NewDesign()
	comp, _ := d.NewComponent("spars")
	spar := d.AddBody("spar_1", geom.Box{Min: geom.Vec3{X: 3.9}, Max: geom.Vec3{X: 4.1, Y: 6, Z: 2}})

	plane := &Plane{geo: geom.Plane{Origin: geom.Vec3{X: 4}, Normal: geom.Vec3{X: 1}}}
	sk, _ := d.SketchOnPlane(comp, plane)
	sk.AddCircle(geom.Vec3{X: 4, Y: 1, Z: 1}, 0.25)
	sk.AddCircle(geom.Vec3{X: 4, Y: 2, Z: 1}, 0.25)

	profs := sk.Profiles()
	if len(profs) != 2 {
		t.Fatalf("got %d profiles, want 2", len(profs))
	}
	if err := d.ExtrudeSymmetricCut(profs, 0.2, []kernel.Body{spar}); err != nil {
		t.Fatalf("ExtrudeSymmetricCut() error = %v", err)
	}
	if spar.Holes() != 2 {
		t.Errorf("spar has %d holes, want 2", spar.Holes())
	}
}

func TestCombineIntersect(t *testing.T) {
	d := NewDesign()
	tri := d.AddBody("top_triangle", geom.Box{Min: geom.Vec3{X: 3, Y: 1.8, Z: 1.5}, Max: geom.Vec3{X: 3.1, Y: 2.2, Z: 2.5}})
	wing := d.AddBody("skin", wingBox())

	if err := d.CombineIntersect(tri, []kernel.Body{wing}, true); err != nil {
		t.Fatalf("CombineIntersect() error = %v", err)
	}
	if tri.BoundingBox().Max.Z != 2 {
		t.Errorf("triangle not trimmed to the wing: %+v", tri.BoundingBox())
	}
	if _, ok := d.BodyByName("skin"); !ok {
		t.Error("tool body must be kept")
	}

	// Disjoint bodies cannot intersect.
	far := d.AddBody("far", geom.Box{Min: geom.Vec3{X: 100}, Max: geom.Vec3{X: 101, Y: 1, Z: 1}})
	if err := d.CombineIntersect(far, []kernel.Body{wing}, true); err == nil {
		t.Error("expected an error for an empty intersection")
	}
}
