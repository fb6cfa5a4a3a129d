package memkern

import (
	"fmt"

	"github.com/andymb/airframe/pkg/geom"
	"github.com/andymb/airframe/pkg/kernel"
)

// circle is a sketched circle, in model space.
type circle struct {
	center geom.Vec3
	radius float64
}

// Sketch is a sketch on a construction plane. Lines and circles are
// held in model space.
type Sketch struct {
	name    string
	ref     *Plane
	lines   []kernel.Line
	circles []circle
}

func (s *Sketch) Name() string                 { return s.name }
func (s *Sketch) ReferencePlane() kernel.Plane { return s.ref }
func (s *Sketch) Lines() []kernel.Line         { return s.lines }

func (s *Sketch) AddLine(a, b geom.Vec3) {
	s.lines = append(s.lines, kernel.Line{Start: a, End: b})
}

func (s *Sketch) AddCircle(center geom.Vec3, radius float64) {
	s.circles = append(s.circles, circle{center: center, radius: radius})
}

// Profiles returns one profile per closed line loop plus one per circle.
// Loops are detected by chaining consecutive lines back to their start.
func (s *Sketch) Profiles() []kernel.Profile {
	var out []kernel.Profile

	var loop []geom.Vec3
	for _, l := range s.lines {
		if len(loop) == 0 {
			loop = append(loop, l.Start, l.End)
			continue
		}
		loop = append(loop, l.End)
		if l.End.Sub(loop[0]).Length() < eps {
			// Closed: drop the duplicated closing point.
			pts := append([]geom.Vec3(nil), loop[:len(loop)-1]...)
			out = append(out, &loopProfile{plane: s.ref.geo, points: pts})
			loop = nil
		}
	}

	for _, c := range s.circles {
		out = append(out, &circleProfile{plane: s.ref.geo, circ: c})
	}
	return out
}

// loopProfile is a closed polygon profile.
type loopProfile struct {
	plane  geom.Plane
	points []geom.Vec3
}

func (p *loopProfile) Plane() geom.Plane { return p.plane }

func (p *loopProfile) boundingBox() geom.Box {
	box := geom.Box{Min: p.points[0], Max: p.points[0]}
	for _, pt := range p.points[1:] {
		box.Min = vecMin(box.Min, pt)
		box.Max = vecMax(box.Max, pt)
	}
	return box
}

// circleProfile is a single sketched circle.
type circleProfile struct {
	plane geom.Plane
	circ  circle
}

func (p *circleProfile) Plane() geom.Plane { return p.plane }

func vecMin(a, b geom.Vec3) geom.Vec3 {
	if b.X < a.X {
		a.X = b.X
	}
	if b.Y < a.Y {
		a.Y = b.Y
	}
	if b.Z < a.Z {
		a.Z = b.Z
	}
	return a
}

func vecMax(a, b geom.Vec3) geom.Vec3 {
	if b.X > a.X {
		a.X = b.X
	}
	if b.Y > a.Y {
		a.Y = b.Y
	}
	if b.Z > a.Z {
		a.Z = b.Z
	}
	return a
}

// --- kernel.Kernel: sketch and extrude ---

func (d *Design) SketchOnPlane(comp kernel.Component, p kernel.Plane) (kernel.Sketch, error) {
	mp, ok := p.(*Plane)
	if !ok {
		return nil, fmt.Errorf("foreign plane %T", p)
	}
	return &Sketch{ref: mp}, nil
}

// Extrude sweeps a closed profile along its plane normal, producing a
// new body. Only the new-body operation is supported here; cuts go
// through ExtrudeSymmetricCut.
func (d *Design) Extrude(comp kernel.Component, profile kernel.Profile, dist float64, op kernel.ExtrudeOp) ([]kernel.Body, error) {
	if op != kernel.ExtrudeNewBody {
		return nil, fmt.Errorf("memkern extrude supports new-body operations only")
	}
	lp, ok := profile.(*loopProfile)
	if !ok {
		return nil, fmt.Errorf("extrude of %T profiles is not supported", profile)
	}

	axis, err := axisOf(lp.plane.Normal)
	if err != nil {
		return nil, err
	}
	box := lp.boundingBox()
	sweep := axis.Scale(dist)
	if dist >= 0 {
		box.Max = box.Max.Add(sweep)
	} else {
		box.Min = box.Min.Add(sweep)
	}

	b := &Body{box: box}
	if comp != nil {
		if mc, ok := comp.(*Component); ok {
			mc.add(b)
		}
	}
	return []kernel.Body{b}, nil
}

// ExtrudeSymmetricCut cuts all circle profiles through the participant
// bodies, recorded as holes.
func (d *Design) ExtrudeSymmetricCut(profiles []kernel.Profile, dist float64, participants []kernel.Body) error {
	if dist <= 0 {
		return fmt.Errorf("symmetric cut distance must be positive, got %v", dist)
	}
	for _, prof := range profiles {
		cp, ok := prof.(*circleProfile)
		if !ok {
			return fmt.Errorf("symmetric cut of %T profiles is not supported", prof)
		}
		for _, part := range participants {
			b, ok := part.(*Body)
			if !ok {
				return fmt.Errorf("foreign participant body %T", part)
			}
			b.holes = append(b.holes, hole{
				center: cp.circ.center,
				radius: cp.circ.radius,
				normal: cp.plane.Normal,
			})
		}
	}
	return nil
}
