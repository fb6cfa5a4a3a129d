package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andymb/airframe/pkg/pattern"
)

const fullSource = `
; tailplane prototype
(settings
  :wing-body "skin"
  :root-sketch "root"
  :rib-component "tail-ribs"
  :stations (list 0 3.0 5.88)
  :rib-thickness 0.12
  :rib-inset 0.05
  :post-locations (list 2.5 5.0)
  :post-location-mode :proportional
  :post-width 0.1
  :gusset-side 0.4
  :spars-sketch "sparlines"
  :spar-thickness 0.2
  :perforation-diameter 0.5
  :perforation-spacing 1.0
  :logfile "/tmp/airframe.log")
`

func TestLoadFullSettings(t *testing.T) {
	s, evalErrs, err := Load(fullSource)
	require.NoError(t, err)
	require.Empty(t, evalErrs)
	require.NotNil(t, s)

	assert.Equal(t, "skin", s.WingBody)
	assert.Equal(t, "root", s.RootSketch)
	assert.Equal(t, "tail-ribs", s.RibComponent)
	assert.Equal(t, []float64{0, 3.0, 5.88}, s.Stations)
	assert.Equal(t, 0.12, s.RibThickness)
	assert.Equal(t, 0.05, s.RibInset)
	assert.Equal(t, []float64{2.5, 5.0}, s.PostLocations)
	assert.Equal(t, pattern.ModeProportional, s.PostLocationMode)
	assert.Equal(t, 0.1, s.PostWidth)
	assert.Equal(t, 0.4, s.GussetSide)
	assert.Equal(t, "sparlines", s.SparsSketch)
	assert.Equal(t, "spars", s.SparComponent, "unset keys keep their defaults")
	assert.Equal(t, 0.2, s.SparThickness)
	assert.Equal(t, 0.5, s.PerforationDiameter)
	assert.Equal(t, 1.0, s.PerforationSpacing)
	assert.Equal(t, "/tmp/airframe.log", s.Logfile)

	require.NoError(t, s.ValidateRibs())
	require.NoError(t, s.ValidateSpars())
}

func TestLoadDefaults(t *testing.T) {
	s, evalErrs, err := Load(`(settings :wing-body "skin")`)
	require.NoError(t, err)
	require.Empty(t, evalErrs)

	assert.Equal(t, "ribs", s.RibComponent)
	assert.Equal(t, "spars", s.SparComponent)
	assert.Equal(t, pattern.ModeProportional, s.PostLocationMode)
	assert.Empty(t, s.Logfile)
}

func TestLoadAbsoluteMode(t *testing.T) {
	s, evalErrs, err := Load(`(settings :post-location-mode :absolute)`)
	require.NoError(t, err)
	require.Empty(t, evalErrs)
	assert.Equal(t, pattern.ModeAbsolute, s.PostLocationMode)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"unknown key", `(settings :wing-span 12)`, "unknown key"},
		{"bad mode", `(settings :post-location-mode :diagonal)`, "invalid mode"},
		{"wrong type", `(settings :rib-thickness "thick")`, "expected number"},
		{"positional junk", `(settings "skin")`, "keyword arguments only"},
		{"no settings form", `(+ 1 2)`, "no (settings ...) form"},
		{"unbalanced parens", `(settings :wing-body "skin"`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, evalErrs, err := Load(tt.source)
			require.NoError(t, err)
			require.Nil(t, s)
			require.NotEmpty(t, evalErrs)
			if tt.want != "" {
				assert.Contains(t, evalErrs[0].Message, tt.want)
			}
		})
	}
}

func TestValidateRibs(t *testing.T) {
	base := func() Settings {
		s := Defaults()
		s.WingBody = "skin"
		s.RootSketch = "root"
		s.Stations = []float64{0, 3}
		s.RibThickness = 0.12
		s.RibInset = 0.05
		s.PostLocations = []float64{2.5}
		s.PostWidth = 0.1
		return s
	}

	valid := base()
	require.NoError(t, valid.ValidateRibs())

	tests := []struct {
		name   string
		mutate func(*Settings)
		want   string
	}{
		{"missing body", func(s *Settings) { s.WingBody = "" }, "wing-body"},
		{"missing sketch", func(s *Settings) { s.RootSketch = "" }, "root-sketch"},
		{"no stations", func(s *Settings) { s.Stations = nil }, "stations"},
		{"zero thickness", func(s *Settings) { s.RibThickness = 0 }, "rib-thickness"},
		{"inset too large", func(s *Settings) { s.RibInset = 0.2 }, "smaller than"},
		{"posts without width", func(s *Settings) { s.PostWidth = 0 }, "post-width"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := base()
			tt.mutate(&s)
			err := s.ValidateRibs()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidateSpars(t *testing.T) {
	s := Defaults()
	s.WingBody = "skin"
	s.SparsSketch = "sparlines"
	s.SparThickness = 0.2
	require.NoError(t, s.ValidateSpars())

	s.PerforationSpacing = 1
	err := s.ValidateSpars()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "perforation-diameter")

	s.PerforationDiameter = 0.5
	require.NoError(t, s.ValidateSpars())
}

func TestPreprocessSource(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"keyword", `(settings :wing-body "x")`, `(settings "__kw_wing-body" "x")`},
		{"kebab identifier", `(my-func 1)`, `(my_func 1)`},
		{"minus untouched", `(- 5 3)`, `(- 5 3)`},
		{"comment", "; note\n(settings)", "// note\n(settings)"},
		{"string untouched", `"keep-this :and-this"`, `"keep-this :and-this"`},
		{"assignment untouched", `(x := 3)`, `(x := 3)`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, preprocessSource(tt.in))
		})
	}
}

func TestEvalErrorFormatsLine(t *testing.T) {
	e := EvalError{Line: 7, Message: "boom"}
	assert.Equal(t, "line 7: boom", e.Error())
	e = EvalError{Message: "boom"}
	assert.Equal(t, "boom", e.Error())
}
