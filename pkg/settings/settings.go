// Package settings loads generator settings from a small Lisp file
// evaluated in a sandboxed zygomys environment. A settings file is a
// single (settings ...) form with keyword arguments:
//
//	(settings
//	  :wing-body "skin"
//	  :root-sketch "root"
//	  :stations (list 0 3.0 5.88)
//	  :rib-thickness 0.12
//	  ...)
package settings

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/andymb/airframe/pkg/pattern"
)

// Settings holds every parameter the generators read. Distances are in
// model units (the original drawings used centimeters).
type Settings struct {
	WingBody   string
	RootSketch string

	RibComponent string
	Stations     []float64
	RibThickness float64
	RibInset     float64

	PostLocations    []float64
	PostLocationMode pattern.LocationMode
	PostWidth        float64
	GussetSide       float64

	SparsSketch         string
	SparComponent       string
	SparThickness       float64
	PerforationDiameter float64
	PerforationSpacing  float64

	// Logfile, when set, receives a copy of the structured log.
	Logfile string
}

// Defaults returns the settings a file does not have to spell out.
func Defaults() Settings {
	return Settings{
		RibComponent:     "ribs",
		SparComponent:    "spars",
		PostLocationMode: pattern.ModeProportional,
	}
}

// EvalError is a parse or evaluation error in a settings file, with a
// source line number when one could be extracted.
type EvalError struct {
	Line    int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// LoadFile reads and evaluates a settings file.
func LoadFile(path string) (*Settings, []EvalError, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read settings: %w", err)
	}
	return Load(string(src))
}

// Load evaluates settings source in a fresh zygomys sandbox.
//
// Return semantics:
//   - On success: settings + nil errors + nil error
//   - On parse/eval failure: nil + eval errors + nil error
//   - On fatal failure (panic in the interpreter): nil + nil + error
func Load(source string) (s *Settings, evalErrs []EvalError, err error) {
	defer func() {
		if r := recover(); r != nil {
			s, evalErrs = nil, nil
			err = fmt.Errorf("panic during settings evaluation: %v", r)
		}
	}()

	// Sandbox mode keeps settings files from touching the filesystem or
	// syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()

	out := Defaults()
	seen := false
	registerSettingsBuiltin(env, &out, &seen)

	if loadErr := env.LoadString(preprocessSource(source)); loadErr != nil {
		return nil, parseZygomysError(loadErr), nil
	}
	if _, runErr := env.Run(); runErr != nil {
		return nil, parseZygomysError(runErr), nil
	}
	if !seen {
		return nil, []EvalError{{Message: "no (settings ...) form in file"}}, nil
	}
	return &out, nil, nil
}

// ValidateRibs checks the fields the rib generator needs.
func (s *Settings) ValidateRibs() error {
	switch {
	case s.WingBody == "":
		return fmt.Errorf("wing-body is required")
	case s.RootSketch == "":
		return fmt.Errorf("root-sketch is required")
	case len(s.Stations) == 0:
		return fmt.Errorf("stations must list at least one spanwise station")
	case s.RibThickness <= 0:
		return fmt.Errorf("rib-thickness must be positive, got %v", s.RibThickness)
	case s.RibInset <= 0:
		return fmt.Errorf("rib-inset must be positive, got %v", s.RibInset)
	case s.RibInset >= s.RibThickness:
		return fmt.Errorf("rib-inset %v must be smaller than rib-thickness %v", s.RibInset, s.RibThickness)
	}
	if len(s.PostLocations) > 0 {
		if s.PostWidth <= 0 {
			return fmt.Errorf("post-width must be positive, got %v", s.PostWidth)
		}
		if s.GussetSide < 0 {
			return fmt.Errorf("gusset-side must not be negative, got %v", s.GussetSide)
		}
	}
	return nil
}

// ValidateSpars checks the fields the spar generator needs.
func (s *Settings) ValidateSpars() error {
	switch {
	case s.WingBody == "":
		return fmt.Errorf("wing-body is required")
	case s.SparsSketch == "":
		return fmt.Errorf("spars-sketch is required")
	case s.SparThickness <= 0:
		return fmt.Errorf("spar-thickness must be positive, got %v", s.SparThickness)
	}
	if s.PerforationSpacing > 0 && s.PerforationDiameter <= 0 {
		return fmt.Errorf("perforation-diameter must be positive when spacing is set, got %v", s.PerforationDiameter)
	}
	return nil
}

// registerSettingsBuiltin installs the single settings builtin. Keys
// arrive as preprocessed keyword strings with their hyphens intact.
func registerSettingsBuiltin(env *zygo.Zlisp, out *Settings, seen *bool) {
	env.AddFunction("settings", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		*seen = true

		for key, v := range pa.kw {
			var err error
			switch key {
			case "wing-body":
				out.WingBody, err = toString(v)
			case "root-sketch":
				out.RootSketch, err = toString(v)
			case "rib-component":
				out.RibComponent, err = toString(v)
			case "stations":
				out.Stations, err = toFloatSlice(v)
			case "rib-thickness":
				out.RibThickness, err = toFloat64(v)
			case "rib-inset":
				out.RibInset, err = toFloat64(v)
			case "post-locations":
				out.PostLocations, err = toFloatSlice(v)
			case "post-location-mode":
				out.PostLocationMode, err = toLocationMode(v)
			case "post-width":
				out.PostWidth, err = toFloat64(v)
			case "gusset-side":
				out.GussetSide, err = toFloat64(v)
			case "spars-sketch":
				out.SparsSketch, err = toString(v)
			case "spar-component":
				out.SparComponent, err = toString(v)
			case "spar-thickness":
				out.SparThickness, err = toFloat64(v)
			case "perforation-diameter":
				out.PerforationDiameter, err = toFloat64(v)
			case "perforation-spacing":
				out.PerforationSpacing, err = toFloat64(v)
			case "logfile":
				out.Logfile, err = toString(v)
			default:
				return zygo.SexpNull, fmt.Errorf("settings: unknown key :%s", key)
			}
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("settings: %s: %w", key, err)
			}
		}
		if len(pa.positional) > 0 {
			return zygo.SexpNull, fmt.Errorf("settings: takes keyword arguments only")
		}
		return zygo.SexpNull, nil
	})
}

func toLocationMode(s zygo.Sexp) (pattern.LocationMode, error) {
	name, err := toKeywordString(s)
	if err != nil {
		return "", err
	}
	switch mode := pattern.LocationMode(name); mode {
	case pattern.ModeProportional, pattern.ModeAbsolute:
		return mode, nil
	}
	return "", fmt.Errorf("invalid mode %q, expected proportional or absolute", name)
}

func toFloatSlice(s zygo.Sexp) ([]float64, error) {
	items, err := sexpListToSlice(s)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(items))
	for i, item := range items {
		f, err := toFloat64(item)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out[i] = f
	}
	return out, nil
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into EvalError values,
// extracting a line number from the message when it carries one.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()
	if m := linePattern.FindStringSubmatch(msg); m != nil {
		line, _ := strconv.Atoi(m[1])
		return []EvalError{{Line: line, Message: strings.TrimSpace(m[2])}}
	}
	if m := linePatternShort.FindStringSubmatch(msg); m != nil {
		line, _ := strconv.Atoi(m[1])
		return []EvalError{{Line: line, Message: strings.TrimSpace(m[2])}}
	}
	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
