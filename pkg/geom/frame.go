package geom

// Frame defines the orientation of the wing model: the three canonical
// axis directions. Chordwise runs front to back, spanwise root to tip,
// vertical bottom to top.
type Frame struct {
	Chordwise  Vec3
	Spanwise   Vec3
	VerticalUp Vec3
}

// DefaultFrame matches the standard model orientation: chordwise along
// +X, spanwise along +Y, vertical along +Z.
var DefaultFrame = Frame{
	Chordwise:  Vec3{X: 1},
	Spanwise:   Vec3{Y: 1},
	VerticalUp: Vec3{Z: 1},
}

// ChordwiseCoord returns the chordwise coordinate of p.
func (f Frame) ChordwiseCoord(p Vec3) float64 {
	return ProjectCoord(p, f.Chordwise)
}

// SpanwiseCoord returns the spanwise coordinate of p.
func (f Frame) SpanwiseCoord(p Vec3) float64 {
	return ProjectCoord(p, f.Spanwise)
}

// VerticalCoord returns the vertical coordinate of p.
func (f Frame) VerticalCoord(p Vec3) float64 {
	return ProjectCoord(p, f.VerticalUp)
}

// Point assembles a model-space point from its chordwise, spanwise and
// vertical components.
func (f Frame) Point(chordwise, spanwise, vertical float64) Vec3 {
	return f.Chordwise.Scale(chordwise).
		Add(f.Spanwise.Scale(spanwise)).
		Add(f.VerticalUp.Scale(vertical))
}

// ChordLength returns the chordwise extent of a bounding box.
func (f Frame) ChordLength(b Box) float64 {
	return f.ChordwiseCoord(b.Max) - f.ChordwiseCoord(b.Min)
}

// SpanwiseRange returns the min and max spanwise coordinates of a
// bounding box, ordered.
func (f Frame) SpanwiseRange(b Box) (min, max float64) {
	return orderedRange(f.SpanwiseCoord(b.Min), f.SpanwiseCoord(b.Max))
}

// VerticalRange returns the min and max vertical coordinates of a
// bounding box, ordered.
func (f Frame) VerticalRange(b Box) (min, max float64) {
	return orderedRange(f.VerticalCoord(b.Min), f.VerticalCoord(b.Max))
}

func orderedRange(a, b float64) (min, max float64) {
	if a <= b {
		return a, b
	}
	return b, a
}
