// Package pattern converts declarative station and position
// specifications into concrete numeric locations along an axis, using a
// body's measured extent.
package pattern

import (
	"fmt"

	"github.com/andymb/airframe/pkg/geom"
)

// LocationMode selects how declared post locations are interpreted.
type LocationMode string

const (
	// ModeProportional treats declared locations as positions on the
	// root chord; they are rescaled to each station's local chord.
	ModeProportional LocationMode = "proportional"
	// ModeAbsolute treats declared locations as fixed chordwise
	// coordinates used unchanged at every station.
	ModeAbsolute LocationMode = "absolute"
)

// PostFractions converts declared chordwise post locations at the root
// into fractions of the root chord. In absolute mode the locations are
// not fractions at all and are returned unchanged; PostLocations then
// applies them directly.
func PostFractions(rootLocs []float64, mode LocationMode, rootChord float64) ([]float64, error) {
	switch mode {
	case ModeAbsolute:
		out := make([]float64, len(rootLocs))
		copy(out, rootLocs)
		return out, nil
	case ModeProportional:
		if rootChord <= 0 {
			return nil, fmt.Errorf("proportional post locations need a positive root chord, got %v", rootChord)
		}
		fracs := make([]float64, len(rootLocs))
		for i, loc := range rootLocs {
			fracs[i] = loc / rootChord
		}
		return fracs, nil
	}
	return nil, fmt.Errorf("unknown post location mode %q", mode)
}

// PostLocations resolves post fractions (or absolute locations, per
// mode) against a station body's bounding box, producing absolute
// chordwise coordinates. Proportional fractions are applied across the
// local chord extent, so a tapered wing gets proportionally spaced
// posts on every rib.
func PostLocations(box geom.Box, frame geom.Frame, values []float64, mode LocationMode) []float64 {
	if mode == ModeAbsolute {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	start := frame.ChordwiseCoord(box.Min)
	end := frame.ChordwiseCoord(box.Max)
	locs := make([]float64, len(values))
	for i, frac := range values {
		locs[i] = geom.RelativeLocation(start, end, frac)
	}
	return locs
}

// PerforationCenters places circle centers along a spar's spanwise
// extent. The first center sits one spacing in from the minimum extent;
// centers then follow at fixed spacing intervals for as long as the
// next circle's far edge stays inside the maximum extent.
func PerforationCenters(minSpan, maxSpan, spacing, diameter float64) []float64 {
	var centers []float64
	loc := minSpan + spacing
	for loc+diameter/2 < maxSpan {
		centers = append(centers, loc)
		loc += spacing
	}
	return centers
}
