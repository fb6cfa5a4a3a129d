package partition

import "fmt"

// CellCountError reports a partition that produced a cell count other
// than the 2 or 3 a two-plane cut of a single solid can yield.
type CellCountError struct {
	Got int
}

func (e *CellCountError) Error() string {
	return fmt.Sprintf("expected exactly 2 or 3 cells from partition, got %d", e.Got)
}

// SelectionError reports that cell disambiguation matched zero or
// several candidate cells where exactly one was required.
type SelectionError struct {
	Matched int
	Hint    string
}

func (e *SelectionError) Error() string {
	msg := fmt.Sprintf("expected exactly 1 candidate cell, matched %d", e.Matched)
	if e.Hint != "" {
		msg += ": " + e.Hint
	}
	return msg
}

// BodyCountError reports a commit or extrude that yielded other than
// exactly one resulting body.
type BodyCountError struct {
	Op  string
	Got int
}

func (e *BodyCountError) Error() string {
	return fmt.Sprintf("%s: expected a single resulting body, got %d", e.Op, e.Got)
}
