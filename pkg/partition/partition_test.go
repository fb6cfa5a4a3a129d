package partition

import (
	"errors"
	"testing"

	"github.com/andymb/airframe/pkg/geom"
	"github.com/andymb/airframe/pkg/kernel"
)

// --- scripted fakes for exercising the FillBetween transaction ---

type fakeBody struct {
	name string
	box  geom.Box
}

func (b *fakeBody) Name() string          { return b.name }
func (b *fakeBody) SetName(n string)      { b.name = n }
func (b *fakeBody) BoundingBox() geom.Box { return b.box }
func (b *fakeBody) Faces() []kernel.Face  { return nil }

type fakeTx struct {
	cells     []kernel.Cell
	commitOut []kernel.Body
	commitErr error

	committedIdx int
	committed    bool
	cancelled    bool
	cancelErr    error
}

func (tx *fakeTx) Cells() []kernel.Cell { return tx.cells }

func (tx *fakeTx) Commit(i int) ([]kernel.Body, error) {
	if tx.commitErr != nil {
		return nil, tx.commitErr
	}
	tx.committed = true
	tx.committedIdx = i
	return tx.commitOut, nil
}

func (tx *fakeTx) Cancel() error {
	tx.cancelled = true
	return tx.cancelErr
}

type fakeKernel struct {
	kernel.Kernel // unimplemented methods panic if reached
	tx            *fakeTx
	partitionErr  error
}

func (k *fakeKernel) Partition(_ kernel.Component, _ kernel.Body, _, _ kernel.Plane) (kernel.Partition, error) {
	if k.partitionErr != nil {
		return nil, k.partitionErr
	}
	return k.tx, nil
}

func spanPlanes(lo, hi float64) (kernel.Plane, kernel.Plane) {
	n := geom.Vec3{Y: 1}
	return planeAt(geom.Vec3{Y: lo}, n), planeAt(geom.Vec3{Y: hi}, n)
}

func TestFillBetweenCommitsTheBetweenCell(t *testing.T) {
	p1, p2 := spanPlanes(0, 2)
	out := &fakeBody{name: "cell"}
	tx := &fakeTx{
		cells: []kernel.Cell{
			cellAt(geom.Vec3{Y: 5}, 0.5),
			cellAt(geom.Vec3{Y: 1}, 0.5),
			cellAt(geom.Vec3{Y: -5}, 0.5),
		},
		commitOut: []kernel.Body{out},
	}
	k := &fakeKernel{tx: tx}

	body, err := FillBetween(k, nil, &fakeBody{name: "wing"}, p1, p2)
	if err != nil {
		t.Fatalf("FillBetween() error = %v", err)
	}
	if body != out {
		t.Errorf("FillBetween() returned %v, want the committed body", body)
	}
	if !tx.committed || tx.committedIdx != 1 {
		t.Errorf("committed=%v idx=%d, want commit of index 1", tx.committed, tx.committedIdx)
	}
	if tx.cancelled {
		t.Error("transaction was cancelled after a successful commit")
	}
}

func TestFillBetweenCellCount(t *testing.T) {
	p1, p2 := spanPlanes(0, 2)
	for _, count := range []int{0, 1, 4} {
		cells := make([]kernel.Cell, count)
		for i := range cells {
			cells[i] = cellAt(geom.Vec3{Y: float64(i)}, 0.4)
		}
		tx := &fakeTx{cells: cells}
		k := &fakeKernel{tx: tx}

		_, err := FillBetween(k, nil, &fakeBody{name: "wing"}, p1, p2)
		var ccErr *CellCountError
		if !errors.As(err, &ccErr) {
			t.Fatalf("%d cells: expected *CellCountError, got %v", count, err)
		}
		if ccErr.Got != count {
			t.Errorf("CellCountError.Got = %d, want %d", ccErr.Got, count)
		}
		if tx.committed {
			t.Errorf("%d cells: no cell may be committed", count)
		}
		if !tx.cancelled {
			t.Errorf("%d cells: transaction must be cancelled", count)
		}
	}
}

func TestFillBetweenSelectionFailureCancels(t *testing.T) {
	p1, p2 := spanPlanes(0, 2)
	// Both centroids outside the interval: zero matches.
	tx := &fakeTx{cells: []kernel.Cell{
		cellAt(geom.Vec3{Y: -3}, 0.5),
		cellAt(geom.Vec3{Y: 8}, 0.5),
	}}
	k := &fakeKernel{tx: tx}

	_, err := FillBetween(k, nil, &fakeBody{name: "wing"}, p1, p2)
	var selErr *SelectionError
	if !errors.As(err, &selErr) {
		t.Fatalf("expected *SelectionError, got %v", err)
	}
	if !tx.cancelled {
		t.Error("transaction must be cancelled on selection failure")
	}
}

func TestFillBetweenCancelFailureIsSwallowed(t *testing.T) {
	p1, p2 := spanPlanes(0, 2)
	tx := &fakeTx{
		cells:     []kernel.Cell{cellAt(geom.Vec3{Y: 1}, 0.5)},
		cancelErr: errors.New("cancel exploded"),
	}
	k := &fakeKernel{tx: tx}

	_, err := FillBetween(k, nil, &fakeBody{name: "wing"}, p1, p2)
	var ccErr *CellCountError
	if !errors.As(err, &ccErr) {
		t.Fatalf("cancel failure must not mask the original error, got %v", err)
	}
	if !tx.cancelled {
		t.Error("cancel must still be attempted")
	}
}

func TestFillBetweenUnexpectedBodyCount(t *testing.T) {
	p1, p2 := spanPlanes(0, 2)
	tx := &fakeTx{
		cells: []kernel.Cell{
			cellAt(geom.Vec3{Y: 1}, 0.5),
			cellAt(geom.Vec3{Y: 9}, 0.5),
		},
		commitOut: []kernel.Body{&fakeBody{name: "a"}, &fakeBody{name: "b"}},
	}
	k := &fakeKernel{tx: tx}

	_, err := FillBetween(k, nil, &fakeBody{name: "wing"}, p1, p2)
	var bcErr *BodyCountError
	if !errors.As(err, &bcErr) {
		t.Fatalf("expected *BodyCountError, got %v", err)
	}
	if bcErr.Got != 2 {
		t.Errorf("BodyCountError.Got = %d, want 2", bcErr.Got)
	}
}

func TestFillBetweenCommitError(t *testing.T) {
	p1, p2 := spanPlanes(0, 2)
	tx := &fakeTx{
		cells: []kernel.Cell{
			cellAt(geom.Vec3{Y: 1}, 0.5),
			cellAt(geom.Vec3{Y: 9}, 0.5),
		},
		commitErr: errors.New("kernel rejected commit"),
	}
	k := &fakeKernel{tx: tx}

	_, err := FillBetween(k, nil, &fakeBody{name: "wing"}, p1, p2)
	if err == nil {
		t.Fatal("expected commit error to propagate")
	}
	if !tx.cancelled {
		t.Error("transaction must be cancelled when commit fails")
	}
}
