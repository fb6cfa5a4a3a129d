package partition

import (
	"fmt"

	"github.com/andymb/airframe/pkg/geom"
	"github.com/andymb/airframe/pkg/kernel"
)

// MiddleIndex determines which of 3 approximately colinear points sits
// between the other two. For each point in turn it looks at the
// directions of the unit vectors to the other 2 points; only for the
// middle point do these point in approximately opposite directions,
// which shows up as a negative dot product. Zero or several negative
// dot products means the points are not colinear.
//
// Boundary fills select with BetweenIndex instead; this strategy is
// for callers that no longer hold the cutting planes and only have
// the three fragments.
func MiddleIndex(points [3]geom.Vec3) (int, error) {
	middle := -1
	matched := 0
	for i := 0; i < 3; i++ {
		a := points[i]
		ab := points[(i+1)%3].Sub(a).Unit()
		ac := points[(i+2)%3].Sub(a).Unit()
		if ab.Dot(ac) < 0 {
			middle = i
			matched++
		}
	}
	if matched != 1 {
		return 0, &SelectionError{Matched: matched, Hint: "cell centroids are not colinear"}
	}
	return middle, nil
}

// MiddleCell applies MiddleIndex to the bounding-box centroids of
// exactly 3 cells and returns the index of the middle one.
func MiddleCell(cells []kernel.Cell) (int, error) {
	if len(cells) != 3 {
		return 0, &CellCountError{Got: len(cells)}
	}
	var centroids [3]geom.Vec3
	for i, c := range cells {
		centroids[i] = c.BoundingBox().Centroid()
	}
	return MiddleIndex(centroids)
}

// BetweenIndex returns the index of the single cell whose bounding-box
// centroid lies between the two bounding planes, measured along their
// shared normal. The interval is closed and order-independent. Exactly
// one cell must qualify; a shelled (non-solid) target body typically
// produces zero or several matches.
func BetweenIndex(cells []kernel.Cell, p1, p2 kernel.Plane) (int, error) {
	g1 := p1.Geometry()
	g2 := p2.Geometry()

	n1 := g1.Normal.Unit()
	n2 := g2.Normal.Unit()
	if n1.Cross(n2).Length() > 1e-9 {
		return 0, fmt.Errorf("bounding planes are not parallel: normals %v and %v", g1.Normal, g2.Normal)
	}

	c1 := geom.ProjectCoord(g1.Origin, n1)
	c2 := geom.ProjectCoord(g2.Origin, n1)
	lo, hi := c1, c2
	if lo > hi {
		lo, hi = hi, lo
	}

	between := -1
	matched := 0
	for i, cell := range cells {
		c := geom.ProjectCoord(cell.BoundingBox().Centroid(), n1)
		if lo <= c && c <= hi {
			between = i
			matched++
		}
	}
	if matched != 1 {
		return 0, &SelectionError{
			Matched: matched,
			Hint:    "are you sure the target body is a single solid and not already shelled?",
		}
	}
	return between, nil
}
