// Package cmd implements the airframe command line interface.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/andymb/airframe/pkg/geom"
	"github.com/andymb/airframe/pkg/kernel"
	sdfxkern "github.com/andymb/airframe/pkg/kernel/sdfx"
	"github.com/andymb/airframe/pkg/settings"
)

var settingsPath string

// Demo wing dimensions. The library is written to run against a host
// design document; the CLI synthesizes a rectangular wing solid so the
// full pipeline can be exercised and exported standalone.
var (
	flagChord  float64
	flagSpan   float64
	flagHeight float64
	stlDir     string
)

var rootCmd = &cobra.Command{
	Use:   "airframe",
	Short: "Parametric wing rib and spar generator",
	Long: `airframe slices lightweight internal structure out of a solid wing:
shelled ribs with vertical posts and gussets, and spars with rows of
lightening holes. Members are cut with pairs of construction planes and
boolean operations on an SDF geometry kernel.

Settings live in a small Lisp file; see examples/tailplane.lisp.`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.PersistentFlags().StringVarP(&settingsPath, "settings", "s", "", "settings file (Lisp)")
	rootCmd.PersistentFlags().Float64Var(&flagChord, "chord", 10, "demo wing chord")
	rootCmd.PersistentFlags().Float64Var(&flagSpan, "span", 6, "demo wing span")
	rootCmd.PersistentFlags().Float64Var(&flagHeight, "height", 2, "demo wing height")
	rootCmd.PersistentFlags().StringVar(&stlDir, "stl", "", "directory for STL export of generated members")
}

// loadSettings reads and evaluates the settings file named by --settings.
func loadSettings() (*settings.Settings, error) {
	if settingsPath == "" {
		return nil, fmt.Errorf("--settings is required")
	}
	s, evalErrs, err := settings.LoadFile(settingsPath)
	if err != nil {
		return nil, err
	}
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			fmt.Fprintf(os.Stderr, "%s: %s\n", settingsPath, e.Error())
		}
		return nil, fmt.Errorf("settings file %s failed to evaluate", settingsPath)
	}
	return s, nil
}

// newLogger builds a console logger, teeing into the settings logfile
// when one is configured.
func newLogger(logfile string) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	if logfile != "" {
		cfg.OutputPaths = append(cfg.OutputPaths, logfile)
	}
	return cfg.Build()
}

// newWingDocument seeds an sdfx design with the demo wing solid and the
// root sketch the generators resolve by name.
func newWingDocument(s *settings.Settings) (*sdfxkern.Design, error) {
	d := sdfxkern.NewDesign()
	box := geom.Box{Max: geom.DefaultFrame.Point(flagChord, flagSpan, flagHeight)}
	if _, err := d.AddBox(s.WingBody, box); err != nil {
		return nil, fmt.Errorf("seed wing body: %w", err)
	}
	d.AddSketch(s.RootSketch, geom.Plane{Normal: geom.DefaultFrame.Spanwise}, nil)
	return d, nil
}

// exportComponent writes one STL per generated body into --stl.
func exportComponent(d *sdfxkern.Design, compName string, log *zap.Logger) error {
	comp, ok := d.ComponentByName(compName)
	if !ok {
		return fmt.Errorf("component %q was not created", compName)
	}
	if stlDir == "" {
		for _, b := range comp.Bodies() {
			log.Info("generated", zap.String("body", b.Name()))
		}
		return nil
	}
	if err := os.MkdirAll(stlDir, 0o755); err != nil {
		return err
	}
	for i, b := range comp.Bodies() {
		mesh, err := d.ToMesh(b)
		if err != nil {
			return fmt.Errorf("mesh %q: %w", b.Name(), err)
		}
		if err := mesh.Validate(); err != nil {
			return err
		}
		path := fmt.Sprintf("%s/%02d_%s.stl", stlDir, i+1, b.Name())
		if err := writeSTL(path, mesh); err != nil {
			return err
		}
		log.Info("exported",
			zap.String("body", b.Name()),
			zap.String("path", path),
			zap.Int("triangles", mesh.TriangleCount()))
	}
	return nil
}

func writeSTL(path string, mesh *kernel.Mesh) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := mesh.EncodeSTL(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
