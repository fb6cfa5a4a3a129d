// Package partition cuts solids with pairs of parallel construction
// planes and picks the structurally meaningful fragment out of the
// resulting cells. The underlying kernel gives no ordering guarantee on
// cells, so selection is always geometric.
package partition

import (
	"fmt"

	"github.com/andymb/airframe/pkg/kernel"
)

// SequentialPair creates plane1 at offset1 from ref and plane2 at
// offset2 further along from plane1. Used for rib cuts, where the
// second plane is the rib thickness away from the first. Both planes
// are hidden after creation.
func SequentialPair(k kernel.Kernel, ref kernel.Plane, offset1, offset2 float64) (p1, p2 kernel.Plane, err error) {
	p1, err = k.PlaneByOffset(ref, offset1)
	if err != nil {
		return nil, nil, fmt.Errorf("sequential pair: first plane: %w", err)
	}
	p2, err = k.PlaneByOffset(p1, offset2)
	if err != nil {
		return nil, nil, fmt.Errorf("sequential pair: second plane: %w", err)
	}
	p1.SetHidden(true)
	p2.SetHidden(true)
	return p1, p2, nil
}

// BoundedPair creates two planes at center-halfWidth and
// center+halfWidth from the same reference. Used for post cuts, which
// are symmetric about the post location. Both planes are hidden after
// creation.
func BoundedPair(k kernel.Kernel, ref kernel.Plane, center, halfWidth float64) (p1, p2 kernel.Plane, err error) {
	p1, err = k.PlaneByOffset(ref, center-halfWidth)
	if err != nil {
		return nil, nil, fmt.Errorf("bounded pair: first plane: %w", err)
	}
	p2, err = k.PlaneByOffset(ref, center+halfWidth)
	if err != nil {
		return nil, nil, fmt.Errorf("bounded pair: second plane: %w", err)
	}
	p1.SetHidden(true)
	p2.SetHidden(true)
	return p1, p2, nil
}

// AngledBoundedPair creates a center plane through the given line at 90
// degrees to the reference plane, then one plane thickness/2 to either
// side of it. Used for spar cuts, where the line is not necessarily
// axis-aligned. The center plane is returned as well so the caller can
// sketch on it. All three planes are hidden after creation.
func AngledBoundedPair(k kernel.Kernel, line kernel.Line, ref kernel.Plane, thickness float64) (center, p1, p2 kernel.Plane, err error) {
	center, err = k.PlaneByAngle(line, 90, ref)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("angled pair: center plane: %w", err)
	}
	p1, err = k.PlaneByOffset(center, thickness/2)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("angled pair: first plane: %w", err)
	}
	p2, err = k.PlaneByOffset(center, -thickness/2)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("angled pair: second plane: %w", err)
	}
	center.SetHidden(true)
	p1.SetHidden(true)
	p2.SetHidden(true)
	return center, p1, p2, nil
}

// FillBetween partitions body with the two bounding planes, selects the
// single cell between them and commits it, producing one new body
// inside comp. On any failure before the commit lands, the pending
// partition transaction is cancelled; a cancellation failure is
// swallowed so it cannot mask the original error.
func FillBetween(k kernel.Kernel, comp kernel.Component, body kernel.Body, p1, p2 kernel.Plane) (kernel.Body, error) {
	tx, err := k.Partition(comp, body, p1, p2)
	if err != nil {
		return nil, fmt.Errorf("partition %q: %w", body.Name(), err)
	}

	committed := false
	defer func() {
		if !committed {
			_ = tx.Cancel()
		}
	}()

	cells := tx.Cells()
	if len(cells) != 2 && len(cells) != 3 {
		return nil, &CellCountError{Got: len(cells)}
	}

	idx, err := BetweenIndex(cells, p1, p2)
	if err != nil {
		return nil, err
	}

	bodies, err := tx.Commit(idx)
	if err != nil {
		return nil, fmt.Errorf("commit cell %d of %q: %w", idx, body.Name(), err)
	}
	committed = true

	if len(bodies) != 1 {
		return nil, &BodyCountError{Op: "partition commit", Got: len(bodies)}
	}
	return bodies[0], nil
}
