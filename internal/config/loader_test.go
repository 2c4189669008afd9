package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"loran-sim/internal/common"
	"loran-sim/internal/hyperbola"
	"loran-sim/internal/multilateration"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, Validate(cfg))

	assert.Equal(t, common.NewVector(50, 250), cfg.Stations.Master.Vector())
	assert.Equal(t, common.NewVector(100, 200), cfg.Stations.SlaveA.Vector())
	assert.Equal(t, common.NewVector(300, 100), cfg.Stations.SlaveB.Vector())
	assert.Equal(t, Point{X: 50, Y: 75}, cfg.TimeDifferenceMicroseconds)

	sc, err := cfg.SolverSettings()
	require.NoError(t, err)
	assert.Equal(t, multilateration.DefaultGrid(), sc.Grid)
	assert.Equal(t, multilateration.RefineNone, sc.Refinement)
	assert.Equal(t, hyperbola.DefaultConfig(), cfg.CurveSettings())
}

func TestParse_EmptyKeepsDefaults(t *testing.T) {
	cfg, err := Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParse_PartialOverride(t *testing.T) {
	doc := `
stations:
  slave_b: {x: 400, y: 50}
time_difference_us: {x: -20, y: 10.5}
solver:
  workers: 8
  refinement: newton
  grid: {min_x: -100, max_x: 100, min_y: 0, max_y: 200, step: 0.5}
hyperbola:
  points: 250
`
	cfg, err := Parse(strings.NewReader(doc))
	require.NoError(t, err)

	assert.Equal(t, Point{X: 50, Y: 250}, cfg.Stations.Master)
	assert.Equal(t, Point{X: 400, Y: 50}, cfg.Stations.SlaveB)
	assert.Equal(t, Point{X: -20, Y: 10.5}, cfg.TimeDifferenceMicroseconds)
	assert.Equal(t, 250, cfg.Hyperbola.Points)
	assert.Equal(t, -500.0, cfg.Hyperbola.MinX)

	sc, err := cfg.SolverSettings()
	require.NoError(t, err)
	assert.Equal(t, 8, sc.Workers)
	assert.Equal(t, multilateration.RefineNewton, sc.Refinement)
	assert.Equal(t, multilateration.Grid{MinX: -100, MaxX: 100, MinY: 0, MaxY: 200, Step: 0.5}, sc.Grid)
}

func TestParse_Rejects(t *testing.T) {
	tests := map[string]string{
		"unknown key":      "stations:\n  slave_c: {x: 1, y: 2}\n",
		"bad refinement":   "solver:\n  refinement: simplex\n",
		"zero step":        "solver:\n  grid: {min_x: 0, max_x: 10, min_y: 0, max_y: 10, step: 0}\n",
		"inverted grid":    "solver:\n  grid: {min_x: 10, max_x: 0, min_y: 0, max_y: 10, step: 1}\n",
		"too few points":   "hyperbola:\n  points: 1\n",
		"empty curve span": "hyperbola:\n  min_x: 5\n  max_x: 5\n",
		"bad zoom range":   "window:\n  zoom_min: 3\n  zoom_max: 2\n",
		"negative workers": "solver:\n  workers: -1\n",
		"not yaml":         "stations: [1, 2",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(doc))
			assert.Error(t, err)
		})
	}
}

func TestParse_ValidationErrorsAreInspectable(t *testing.T) {
	_, err := Parse(strings.NewReader("window:\n  width: 0\n"))
	require.Error(t, err)

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	require.NotEmpty(t, verrs)
	assert.Equal(t, "Width", verrs[0].Field())
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte("time_difference_us: {x: 1, y: 2}\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Point{X: 1, Y: 2}, cfg.TimeDifferenceMicroseconds)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad_DemoScenarioFile(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "configs", "demo.yaml"))
	require.NoError(t, err)

	want := Default()
	want.Solver.Workers = 8
	want.Solver.Refinement = "newton"
	want.Solver.MaxIterations = 50
	assert.Equal(t, want, cfg)
}
