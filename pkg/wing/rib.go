// Package wing builds ribs, posts, gussets and spars by slicing members
// out of a solid wing body with pairs of construction planes. All
// geometry goes through the abstract kernel; the package holds only the
// generative algorithm.
package wing

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/andymb/airframe/pkg/geom"
	"github.com/andymb/airframe/pkg/kernel"
	"github.com/andymb/airframe/pkg/partition"
	"github.com/andymb/airframe/pkg/pattern"
)

// RibParams describes one family of ribs. Locations and dimensions are
// in model units.
type RibParams struct {
	// Thickness is the spanwise thickness of each rib slab.
	Thickness float64
	// Inset is the wall thickness left by the shell.
	Inset float64
	// PostValues are the declared chordwise post positions, interpreted
	// per PostMode against each rib's local chord.
	PostValues []float64
	PostMode   pattern.LocationMode
	// PostWidth is the chordwise width of each vertical post.
	PostWidth float64
	// GussetSide is the triangle side length for post gussets.
	GussetSide float64
}

// BuildRib cuts a rib slab out of the wing body at a spanwise station
// measured from the root plane, adds its vertical posts, then shells
// the slab into a frame with both cut faces open.
//
// Posts are built before shelling: the boundary fill that carves a post
// needs solid material between its planes.
func BuildRib(k kernel.Kernel, doc kernel.Document, comp kernel.Component, wingBody kernel.Body,
	rootPlane kernel.Plane, station float64, name string, p RibParams, log *zap.Logger) (kernel.Body, error) {

	p1, p2, err := partition.SequentialPair(k, rootPlane, station, p.Thickness)
	if err != nil {
		return nil, err
	}

	rib, err := partition.FillBetween(k, comp, wingBody, p1, p2)
	if err != nil {
		return nil, err
	}
	rib.SetName(name)

	box := rib.BoundingBox()
	log.Info("rib slab cut",
		zap.String("name", name),
		zap.Float64("station", station),
		zap.Float64("chord", geom.DefaultFrame.ChordLength(box)))

	locs := pattern.PostLocations(box, geom.DefaultFrame, p.PostValues, p.PostMode)
	for i, loc := range locs {
		post, err := BuildPost(k, doc, comp, wingBody, rib, loc, p.PostWidth, p.GussetSide, log)
		if err != nil {
			return nil, fmt.Errorf("post %d of %s: %w", i+1, name, err)
		}
		post.SetName(fmt.Sprintf("%s_post_%d", name, i+1))
	}

	f1, ok := kernel.FindCoplanarFace(rib, p1)
	if !ok {
		return nil, &CoplanarFaceError{Body: name, Side: "root-side"}
	}
	f2, ok := kernel.FindCoplanarFace(rib, p2)
	if !ok {
		return nil, &CoplanarFaceError{Body: name, Side: "tip-side"}
	}

	if err := k.Shell(rib, []kernel.Face{f1, f2}, p.Inset); err != nil {
		return nil, fmt.Errorf("shell %s: %w", name, err)
	}
	return rib, nil
}
