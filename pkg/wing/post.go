package wing

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/andymb/airframe/pkg/geom"
	"github.com/andymb/airframe/pkg/kernel"
	"github.com/andymb/airframe/pkg/partition"
)

// BuildPost carves a vertical post out of the rib between two planes a
// post width apart, centered on the chordwise location. Posts tall
// enough to take them get a pair of triangular gussets at their top and
// bottom ends, trimmed back to the wing surface.
//
// The post is cut from the rib, not the wing, so it inherits the rib's
// spanwise thickness. A post too short for gussets is not an error.
func BuildPost(k kernel.Kernel, doc kernel.Document, comp kernel.Component, wingBody, rib kernel.Body,
	loc, width, gussetSide float64, log *zap.Logger) (kernel.Body, error) {

	p1, p2, err := partition.BoundedPair(k, doc.VerticalSpanwisePlane(), loc, width/2)
	if err != nil {
		return nil, err
	}

	post, err := partition.FillBetween(k, comp, rib, p1, p2)
	if err != nil {
		return nil, err
	}

	f := geom.DefaultFrame
	box := post.BoundingBox()
	bottom, top := f.VerticalRange(box)
	spanMid := f.SpanwiseCoord(box.Centroid())

	if top-bottom <= 2*gussetSide {
		log.Debug("post too short for gussets",
			zap.Float64("location", loc),
			zap.Float64("height", top-bottom))
		return post, nil
	}

	sk, err := k.SketchOnPlane(comp, p2)
	if err != nil {
		return nil, fmt.Errorf("gusset sketch: %w", err)
	}

	// Two triangles, apexes pointing into the post, bases flush with the
	// vertical extremities. Authored on the near cut plane and extruded
	// the post width across to the far one.
	near := loc - width/2
	addTriangle := func(apexV, baseV float64) {
		a := f.Point(near, spanMid, apexV)
		b := f.Point(near, spanMid+gussetSide, baseV)
		c := f.Point(near, spanMid-gussetSide, baseV)
		sk.AddLine(a, b)
		sk.AddLine(b, c)
		sk.AddLine(c, a)
	}
	addTriangle(top-gussetSide, top)
	addTriangle(bottom+gussetSide, bottom)

	profs := sk.Profiles()
	if len(profs) != 2 {
		return nil, fmt.Errorf("gusset sketch produced %d profiles, want 2", len(profs))
	}

	names := [2]string{"top_triangle", "bottom_triangle"}
	for i, prof := range profs {
		bodies, err := k.Extrude(comp, prof, width, kernel.ExtrudeNewBody)
		if err != nil {
			return nil, fmt.Errorf("extrude %s: %w", names[i], err)
		}
		if len(bodies) != 1 {
			return nil, &partition.BodyCountError{Op: "gusset extrude", Got: len(bodies)}
		}
		tri := bodies[0]
		tri.SetName(names[i])

		if err := k.CombineIntersect(tri, []kernel.Body{wingBody}, true); err != nil {
			return nil, fmt.Errorf("trim %s to wing: %w", names[i], err)
		}
	}
	return post, nil
}
