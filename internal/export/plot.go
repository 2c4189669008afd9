package export

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"loran-sim/internal/common"
	"loran-sim/internal/hyperbola"
	"loran-sim/internal/simulation"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

var (
	masterColor   = color.RGBA{255, 0, 0, 255}
	slaveAColor   = color.RGBA{0, 160, 0, 255}
	slaveBColor   = color.RGBA{0, 0, 255, 255}
	receiverColor = color.RGBA{0, 0, 0, 255}
	curveAColor   = color.RGBA{255, 0, 0, 100}
	curveBColor   = color.RGBA{0, 160, 0, 100}
)

// Options controls the exported image.
type Options struct {
	Width, Height vg.Length
	// View is the visible world rectangle. A zero View fits the stations and
	// the receiver estimate with Padding on every side.
	View    View
	Padding float64
	Title   string
}

// View is an axis-aligned world rectangle.
type View struct {
	MinX, MaxX, MinY, MaxY float64
}

// DefaultOptions returns a 20cm square image with 150 units of padding.
func DefaultOptions() Options {
	return Options{Width: 20 * vg.Centimeter, Height: 20 * vg.Centimeter, Padding: 150}
}

// Render builds a plot of one frame: both curves, the stations and the
// receiver estimate.
func Render(f simulation.Frame, opts Options) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = opts.Title
	if p.Title.Text == "" {
		p.Title.Text = fmt.Sprintf("Receiver %s (residual %.3f)", f.Receiver.Position, f.Receiver.ResidualError)
	}
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"
	p.Add(plotter.NewGrid())

	for _, c := range []struct {
		name  string
		curve *hyperbola.Curve
		err   error
		color color.Color
	}{
		{"master/slave A", f.CurveA, f.ErrA, curveAColor},
		{"master/slave B", f.CurveB, f.ErrB, curveBColor},
	} {
		if c.err != nil {
			// Drawn without the curve; the legend says why.
			p.Legend.Add(fmt.Sprintf("%s: %v", c.name, c.err))
			continue
		}
		for i, line := range Polylines(c.curve) {
			l, err := plotter.NewLine(line)
			if err != nil {
				return nil, fmt.Errorf("failed to build %s line: %w", c.name, err)
			}
			l.Color = c.color
			l.Width = vg.Points(1.5)
			p.Add(l)
			if i == 0 {
				p.Legend.Add(c.name, l)
			}
		}
	}

	in := f.Input
	points := []struct {
		name   string
		pos    common.Vector
		color  color.Color
		radius vg.Length
	}{
		{"master", in.Master, masterColor, vg.Points(5)},
		{"slave A", in.SlaveA, slaveAColor, vg.Points(5)},
		{"slave B", in.SlaveB, slaveBColor, vg.Points(5)},
		{"receiver", f.Receiver.Position, receiverColor, vg.Points(3)},
	}
	for _, pt := range points {
		s, err := plotter.NewScatter(plotter.XYs{{X: pt.pos.X, Y: pt.pos.Y}})
		if err != nil {
			return nil, fmt.Errorf("failed to build %s marker: %w", pt.name, err)
		}
		s.GlyphStyle.Color = pt.color
		s.GlyphStyle.Radius = pt.radius
		s.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(s)
		p.Legend.Add(pt.name, s)
	}

	view := opts.View
	if view == (View{}) {
		view = fitView(opts.Padding, in.Master, in.SlaveA, in.SlaveB, f.Receiver.Position)
	}
	p.X.Min, p.X.Max = view.MinX, view.MaxX
	p.Y.Min, p.Y.Max = view.MinY, view.MaxY
	p.Legend.Top = true

	return p, nil
}

// Save renders f to path; the format follows the file extension
// (png, svg, pdf, ...).
func Save(f simulation.Frame, path string, opts Options) error {
	p, err := Render(f, opts)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := p.Save(opts.Width, opts.Height, path); err != nil {
		return fmt.Errorf("failed to save plot %s: %w", path, err)
	}
	return nil
}

// Write renders f in the given format to w.
func Write(f simulation.Frame, w io.Writer, format string, opts Options) error {
	p, err := Render(f, opts)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(opts.Width, opts.Height, strings.TrimPrefix(format, "."))
	if err != nil {
		return fmt.Errorf("failed to create %s writer: %w", format, err)
	}
	_, err = wt.WriteTo(w)
	return err
}

// Polylines joins a curve's segments into continuous runs, one per arm and
// branch.
func Polylines(c *hyperbola.Curve) []plotter.XYs {
	if c == nil {
		return nil
	}
	var out []plotter.XYs
	var cur plotter.XYs
	var last common.Vector
	for i, seg := range c.Segments {
		if i == 0 || seg.From != last || seg.Branch != c.Segments[i-1].Branch {
			if len(cur) > 0 {
				out = append(out, cur)
			}
			cur = plotter.XYs{{X: seg.From.X, Y: seg.From.Y}}
		}
		cur = append(cur, plotter.XY{X: seg.To.X, Y: seg.To.Y})
		last = seg.To
	}
	if len(cur) > 0 {
		out = append(out, cur)
	}
	return out
}

func fitView(padding float64, pts ...common.Vector) View {
	v := View{MinX: math.Inf(1), MaxX: math.Inf(-1), MinY: math.Inf(1), MaxY: math.Inf(-1)}
	for _, p := range pts {
		if !p.IsFinite() {
			continue
		}
		v.MinX = math.Min(v.MinX, p.X)
		v.MaxX = math.Max(v.MaxX, p.X)
		v.MinY = math.Min(v.MinY, p.Y)
		v.MaxY = math.Max(v.MaxY, p.Y)
	}
	if math.IsInf(v.MinX, 1) {
		return View{MinX: -padding, MaxX: padding, MinY: -padding, MaxY: padding}
	}
	// Keep the aspect ratio square so hyperbolas are not distorted.
	w, h := v.MaxX-v.MinX, v.MaxY-v.MinY
	if w > h {
		d := (w - h) / 2
		v.MinY, v.MaxY = v.MinY-d, v.MaxY+d
	} else {
		d := (h - w) / 2
		v.MinX, v.MaxX = v.MinX-d, v.MaxX+d
	}
	v.MinX -= padding
	v.MaxX += padding
	v.MinY -= padding
	v.MaxY += padding
	return v
}
