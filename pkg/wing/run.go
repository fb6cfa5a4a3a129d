package wing

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/andymb/airframe/pkg/geom"
	"github.com/andymb/airframe/pkg/kernel"
	"github.com/andymb/airframe/pkg/pattern"
)

// RibRun is one rib generation request against a document.
type RibRun struct {
	WingBody   string
	RootSketch string
	Component  string
	// Stations are spanwise distances from the root plane, one rib each,
	// built in declared order.
	Stations []float64
	Params   RibParams
}

// SparRun is one spar generation request against a document.
type SparRun struct {
	WingBody   string
	SparSketch string
	Component  string
	Params     SparParams
}

// GenerateRibs builds one rib per station. Inputs are resolved before
// any geometry is created; after that the run aborts on the first
// failure and already committed members are left in place.
func GenerateRibs(k kernel.Kernel, doc kernel.Document, run RibRun, log *zap.Logger) error {
	wingBody, ok := doc.BodyByName(run.WingBody)
	if !ok {
		return &NamedEntityNotFoundError{Kind: "body", Name: run.WingBody}
	}
	rootSketch, ok := doc.SketchByName(run.RootSketch)
	if !ok {
		return &NamedEntityNotFoundError{Kind: "sketch", Name: run.RootSketch}
	}

	comp, err := doc.NewComponent(run.Component)
	if err != nil {
		return fmt.Errorf("create component %q: %w", run.Component, err)
	}

	// Proportional post positions are declared against the root chord,
	// measured off the whole wing body.
	rootChord := geom.DefaultFrame.ChordLength(wingBody.BoundingBox())
	postValues, err := pattern.PostFractions(run.Params.PostValues, run.Params.PostMode, rootChord)
	if err != nil {
		return err
	}
	params := run.Params
	params.PostValues = postValues

	log.Info("generating ribs",
		zap.String("wingBody", run.WingBody),
		zap.Float64("rootChord", rootChord),
		zap.Int("stations", len(run.Stations)))

	rootPlane := rootSketch.ReferencePlane()
	for i, station := range run.Stations {
		name := fmt.Sprintf("rib_%d", i+1)
		if _, err := BuildRib(k, doc, comp, wingBody, rootPlane, station, name, params, log); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		log.Info("rib complete", zap.String("name", name))
	}
	return nil
}

// GenerateSpars builds one spar per line of the spar sketch, in sketch
// order. Same failure contract as GenerateRibs.
func GenerateSpars(k kernel.Kernel, doc kernel.Document, run SparRun, log *zap.Logger) error {
	sparSketch, ok := doc.SketchByName(run.SparSketch)
	if !ok {
		return &NamedEntityNotFoundError{Kind: "sketch", Name: run.SparSketch}
	}
	wingBody, ok := doc.BodyByName(run.WingBody)
	if !ok {
		return &NamedEntityNotFoundError{Kind: "body", Name: run.WingBody}
	}

	comp, err := doc.NewComponent(run.Component)
	if err != nil {
		return fmt.Errorf("create component %q: %w", run.Component, err)
	}

	lines := sparSketch.Lines()
	log.Info("generating spars",
		zap.String("sketch", run.SparSketch),
		zap.Int("lines", len(lines)))

	for i, line := range lines {
		name := fmt.Sprintf("spar_%d", i+1)
		spar, err := BuildSpar(k, doc, comp, wingBody, line, run.Params, log)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		spar.SetName(name)
		log.Info("spar complete", zap.String("name", name))
	}
	return nil
}
