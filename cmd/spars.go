package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/andymb/airframe/pkg/geom"
	"github.com/andymb/airframe/pkg/kernel"
	"github.com/andymb/airframe/pkg/wing"
)

// sparLocs are chordwise positions of the demo spar lines, since a
// standalone run has no host sketch to read them from.
var sparLocs []float64

var sparsCmd = &cobra.Command{
	Use:   "spars",
	Short: "Generate spars with rows of lightening holes",
	Long: `Generate one spar per line of the spar sketch: a thin slice of the wing
perpendicular to the horizontal plane along each line, perforated with a
spanwise row of circular lightening holes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSettings()
		if err != nil {
			return err
		}
		if err := s.ValidateSpars(); err != nil {
			return err
		}
		if len(sparLocs) == 0 {
			return fmt.Errorf("--spar-at is required at least once")
		}

		log, err := newLogger(s.Logfile)
		if err != nil {
			return err
		}
		defer log.Sync()

		doc, err := newWingDocument(s)
		if err != nil {
			return err
		}
		f := geom.DefaultFrame
		lines := make([]kernel.Line, len(sparLocs))
		for i, at := range sparLocs {
			lines[i] = kernel.Line{
				Start: f.Point(at, 0, 0),
				End:   f.Point(at, flagSpan, 0),
			}
		}
		doc.AddSketch(s.SparsSketch, geom.Plane{Normal: f.VerticalUp}, lines)

		run := wing.SparRun{
			WingBody:   s.WingBody,
			SparSketch: s.SparsSketch,
			Component:  s.SparComponent,
			Params: wing.SparParams{
				Thickness:           s.SparThickness,
				PerforationDiameter: s.PerforationDiameter,
				PerforationSpacing:  s.PerforationSpacing,
			},
		}
		if err := wing.GenerateSpars(doc, doc, run, log); err != nil {
			log.Error("spar generation failed", zap.Error(err))
			return err
		}
		return exportComponent(doc, s.SparComponent, log)
	},
}

func init() {
	sparsCmd.Flags().Float64SliceVar(&sparLocs, "spar-at", nil, "chordwise position of a spar line (repeatable)")
	rootCmd.AddCommand(sparsCmd)
}
