package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/andymb/airframe/pkg/wing"
)

var ribsCmd = &cobra.Command{
	Use:   "ribs",
	Short: "Generate shelled ribs with vertical posts and gussets",
	Long: `Generate one rib per configured station: a thin spanwise slice of the
wing, shelled into a frame, with vertical posts at the configured
chordwise locations and triangular gussets bracing posts that are tall
enough to take them.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSettings()
		if err != nil {
			return err
		}
		if err := s.ValidateRibs(); err != nil {
			return err
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

		run := wing.RibRun{
			WingBody:   s.WingBody,
			RootSketch: s.RootSketch,
			Component:  s.RibComponent,
			Stations:   s.Stations,
			Params: wing.RibParams{
				Thickness:  s.RibThickness,
				Inset:      s.RibInset,
				PostValues: s.PostLocations,
				PostMode:   s.PostLocationMode,
				PostWidth:  s.PostWidth,
				GussetSide: s.GussetSide,
			},
		}
		if err := wing.GenerateRibs(doc, doc, run, log); err != nil {
			log.Error("rib generation failed", zap.Error(err))
			return err
		}
		return exportComponent(doc, s.RibComponent, log)
	},
}

func init() {
	rootCmd.AddCommand(ribsCmd)
}
