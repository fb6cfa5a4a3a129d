package wing

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/andymb/airframe/pkg/geom"
	"github.com/andymb/airframe/pkg/kernel"
	"github.com/andymb/airframe/pkg/partition"
	"github.com/andymb/airframe/pkg/pattern"
)

// SparParams describes one family of spars.
type SparParams struct {
	// Thickness is the spar's thickness perpendicular to its line.
	Thickness float64
	// PerforationDiameter and PerforationSpacing place the spanwise row
	// of lightening holes. A spacing of zero disables the row.
	PerforationDiameter float64
	PerforationSpacing  float64
}

// BuildSpar fills a spar between two planes straddling a sketch line at
// 90 degrees to the horizontal, then drills a spanwise row of
// lightening holes through it. Only the spar participates in the cut;
// the wing body is untouched.
func BuildSpar(k kernel.Kernel, doc kernel.Document, comp kernel.Component, wingBody kernel.Body,
	line kernel.Line, p SparParams, log *zap.Logger) (kernel.Body, error) {

	center, p1, p2, err := partition.AngledBoundedPair(k, line, doc.HorizontalPlane(), p.Thickness)
	if err != nil {
		return nil, err
	}

	spar, err := partition.FillBetween(k, comp, wingBody, p1, p2)
	if err != nil {
		return nil, err
	}

	f := geom.DefaultFrame
	box := spar.BoundingBox()
	minSpan, maxSpan := f.SpanwiseRange(box)
	minVert, maxVert := f.VerticalRange(box)
	log.Info("spar cut",
		zap.Float64("spanwiseMin", minSpan),
		zap.Float64("spanwiseMax", maxSpan),
		zap.Float64("verticalMin", minVert),
		zap.Float64("verticalMax", maxVert))

	if p.PerforationSpacing <= 0 {
		return spar, nil
	}
	centers := pattern.PerforationCenters(minSpan, maxSpan, p.PerforationSpacing, p.PerforationDiameter)
	if len(centers) == 0 {
		return spar, nil
	}

	sk, err := k.SketchOnPlane(comp, center)
	if err != nil {
		return nil, fmt.Errorf("perforation sketch: %w", err)
	}
	g := center.Geometry()
	n := g.Normal.Unit()
	nChord := n.Dot(f.Chordwise)
	if math.Abs(nChord) < 1e-9 {
		return nil, fmt.Errorf("spar plane normal %v has no chordwise component; cannot place a spanwise hole row", g.Normal)
	}
	vertMid := (minVert + maxVert) / 2
	for _, loc := range centers {
		// Each center must sit on the center plane, so solve its plane
		// equation for the chordwise coordinate at this spanwise station.
		// For an axis-aligned line this reduces to the plane's own
		// chordwise position; for a swept line the row follows the line.
		chord := (n.Dot(g.Origin) - loc*n.Dot(f.Spanwise) - vertMid*n.Dot(f.VerticalUp)) / nChord
		sk.AddCircle(f.Point(chord, loc, vertMid), p.PerforationDiameter/2)
	}

	// Cut deeper than the spar is thick so the holes always go through.
	if err := k.ExtrudeSymmetricCut(sk.Profiles(), 2*p.Thickness, []kernel.Body{spar}); err != nil {
		return nil, fmt.Errorf("perforate spar: %w", err)
	}
	log.Info("spar perforated", zap.Int("holes", len(centers)))
	return spar, nil
}
