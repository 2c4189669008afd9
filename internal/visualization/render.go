package visualization

import (
	"errors"
	"fmt"
	"image/color"
	"log"
	"strings"

	"loran-sim/internal/common"
	"loran-sim/internal/hyperbola"
	"loran-sim/internal/simulation"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	stationRadiusOnScreen  = 8.0
	receiverRadiusOnScreen = 5.0
	curveStrokeWidth       = 1.0
	fitPadding             = 50.0
)

var (
	backgroundColor = color.RGBA{0, 0, 0, 255}
	axisColor       = color.RGBA{255, 255, 255, 255}
	masterColor     = color.RGBA{255, 0, 0, 255}
	slaveAColor     = color.RGBA{0, 255, 0, 255}
	slaveBColor     = color.RGBA{0, 0, 255, 255}
	receiverColor   = color.RGBA{255, 255, 255, 255}
	curveAColor     = color.RGBA{255, 0, 0, 100}
	curveBColor     = color.RGBA{0, 255, 0, 100}
)

// Options configures the window and camera controls.
type Options struct {
	Width, Height int
	Title         string
	TPS           int
	PanSpeed      float64 // World units per tick at zoom 1.
	ZoomStep      float64
	ZoomMin       float64
	ZoomMax       float64
}

// Renderer implements ebiten.Game for the interactive view.
// Controls: WASD pan, mouse wheel zoom, 1/2/3 pick what the pointer moves
// (slave A, slave B, time difference in microseconds), F fits the view to
// the stations, Escape quits.
type Renderer struct {
	sim  *simulation.Simulation
	opts Options

	screenWidth  int
	screenHeight int

	camera Camera
	frame  simulation.Frame
}

// NewRenderer creates a new Ebiten renderer.
func NewRenderer(sim *simulation.Simulation, opts Options) *Renderer {
	return &Renderer{
		sim:          sim,
		opts:         opts,
		screenWidth:  opts.Width,
		screenHeight: opts.Height,
		camera: Camera{
			Offset: common.NewVector(float64(opts.Width)/2, float64(opts.Height)/2),
			Zoom:   1,
		},
	}
}

// Run opens the window and blocks until it is closed.
func Run(sim *simulation.Simulation, opts Options) error {
	ebiten.SetWindowTitle(opts.Title)
	ebiten.SetWindowSize(opts.Width, opts.Height)
	if opts.TPS > 0 {
		ebiten.SetTPS(opts.TPS)
	}
	err := ebiten.RunGame(NewRenderer(sim, opts))
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

// Update is called every tick: apply input, then evaluate one frame.
func (r *Renderer) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	_, wheel := ebiten.Wheel()
	if wheel > 0 {
		r.camera.Zoom += r.opts.ZoomStep
	}
	if wheel < 0 {
		r.camera.Zoom -= r.opts.ZoomStep
	}
	r.camera.ClampZoom(r.opts.ZoomMin, r.opts.ZoomMax)

	pan := r.opts.PanSpeed / r.camera.Zoom
	if ebiten.IsKeyPressed(ebiten.KeyW) {
		r.camera.Target.Y -= pan
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) {
		r.camera.Target.Y += pan
	}
	if ebiten.IsKeyPressed(ebiten.KeyA) {
		r.camera.Target.X -= pan
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) {
		r.camera.Target.X += pan
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF) {
		in := r.sim.Snapshot()
		r.camera.Fit([]common.Vector{in.Master, in.SlaveA, in.SlaveB}, r.screenWidth, r.screenHeight, fitPadding, r.opts.ZoomMax)
	}

	for key, mode := range map[ebiten.Key]simulation.Control{
		ebiten.KeyDigit1: simulation.ControlSlaveA,
		ebiten.KeyDigit2: simulation.ControlSlaveB,
		ebiten.KeyDigit3: simulation.ControlTimeDifference,
	} {
		if inpututil.IsKeyJustPressed(key) {
			if err := r.sim.SetControl(mode); err != nil {
				return err
			}
		}
	}

	cx, cy := ebiten.CursorPosition()
	if err := r.sim.ApplyPointer(r.camera.ScreenToWorld(float64(cx), float64(cy))); err != nil {
		log.Printf("[%s] ignoring pointer input: %v", r.sim.ID(), err)
	}

	r.frame = r.sim.Step()
	return nil
}

// Draw is called every frame to render the simulation.
func (r *Renderer) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)

	r.drawAxes(screen)
	r.drawCurve(screen, r.frame.CurveA, curveAColor)
	r.drawCurve(screen, r.frame.CurveB, curveBColor)

	in := r.frame.Input
	r.drawPoint(screen, in.Master, stationRadiusOnScreen, masterColor)
	r.drawPoint(screen, in.SlaveA, stationRadiusOnScreen, slaveAColor)
	r.drawPoint(screen, in.SlaveB, stationRadiusOnScreen, slaveBColor)
	r.drawPoint(screen, r.frame.Receiver.Position, receiverRadiusOnScreen, receiverColor)

	r.drawDebugInfo(screen)
}

func (r *Renderer) drawAxes(screen *ebiten.Image) {
	ox, oy := r.camera.WorldToScreen(common.Vector{})
	w, h := float32(r.screenWidth), float32(r.screenHeight)
	vector.StrokeLine(screen, 0, oy, w, oy, 1, axisColor, false)
	vector.StrokeLine(screen, ox, 0, ox, h, 1, axisColor, false)
}

func (r *Renderer) drawCurve(screen *ebiten.Image, c *hyperbola.Curve, clr color.Color) {
	if c == nil {
		return
	}
	for _, seg := range c.Segments {
		x0, y0 := r.camera.WorldToScreen(seg.From)
		x1, y1 := r.camera.WorldToScreen(seg.To)
		vector.StrokeLine(screen, x0, y0, x1, y1, curveStrokeWidth, clr, true)
	}
}

func (r *Renderer) drawPoint(screen *ebiten.Image, p common.Vector, radius float32, clr color.Color) {
	x, y := r.camera.WorldToScreen(p)
	vector.DrawFilledCircle(screen, x, y, radius, clr, true)
}

func (r *Renderer) drawDebugInfo(screen *ebiten.Image) {
	f := r.frame
	lines := []string{
		fmt.Sprintf("Receiver: %s (residual %.3f)", f.Receiver.Position, f.Receiver.ResidualError),
		fmt.Sprintf("Time difference: %.2f, %.2f us",
			common.SecondsToMicroseconds(f.Input.TimeDifference.X),
			common.SecondsToMicroseconds(f.Input.TimeDifference.Y)),
		fmt.Sprintf("Control: %s [1/2/3]  Zoom: %.1f  FPS: %.1f", r.sim.Control(), r.camera.Zoom, ebiten.ActualFPS()),
	}
	if f.ErrA != nil {
		lines = append(lines, fmt.Sprintf("Slave A: %v", f.ErrA))
	}
	if f.ErrB != nil {
		lines = append(lines, fmt.Sprintf("Slave B: %v", f.ErrB))
	}
	ebitenutil.DebugPrintAt(screen, strings.Join(lines, "\n"), 10, 10)
}

// Layout is called when the window size changes.
func (r *Renderer) Layout(outsideWidth, outsideHeight int) (int, int) {
	r.screenWidth = outsideWidth
	r.screenHeight = outsideHeight
	r.camera.Offset = common.NewVector(float64(outsideWidth)/2, float64(outsideHeight)/2)
	return r.screenWidth, r.screenHeight
}
