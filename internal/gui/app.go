package gui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/ballsim/internal/dynamo"
	"github.com/san-kum/ballsim/internal/sim"
)

const (
	screenW    = 1280
	screenH    = 720
	maxHistory = 400
	fontPath   = "/usr/share/fonts/liberation/LiberationMono-Regular.ttf"
)

var (
	ColBg      = rl.NewColor(10, 10, 10, 255)
	ColAccent  = rl.NewColor(180, 180, 180, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
	ColBox     = rl.NewColor(90, 90, 110, 255)
	ColArmed   = rl.NewColor(255, 85, 85, 255)
)

type Options struct {
	Title string
	FPS   int32
}

// App is the raylib window around one simulation. It is the platform, the
// clock and the renderer handed to sim.Run.
type App[V dynamo.Vector[V]] struct {
	opts   Options
	sim    *sim.Simulation[V]
	rig    *CameraRig
	meshes *MeshCache
	font   rl.Font
	flat   bool

	energy []float64
}

// NewApp prepares the app; the window must already be open.
func NewApp[V dynamo.Vector[V]](s *sim.Simulation[V], opts Options) *App[V] {
	half := dynamo.Axes(s.Boundary().HalfExtents())
	flat := len(half) == 2

	var rig *CameraRig
	if flat {
		rig = NewTopDownRig(float32(2*half[0]), float32(2*half[1]))
	} else {
		rig = NewOrbitRig(float32(max(half[0], half[1], half[2])))
	}

	return &App[V]{
		opts:   opts,
		sim:    s,
		rig:    rig,
		meshes: NewMeshCache(flat),
		font:   loadFont(),
		flat:   flat,
		energy: make([]float64, 0, maxHistory),
	}
}

func loadFont() rl.Font {
	if !rl.FileExists(fontPath) {
		return rl.GetFontDefault()
	}
	font := rl.LoadFontEx(fontPath, 32, nil, 0)
	rl.SetTextureFilter(font.Texture, rl.FilterBilinear)
	return font
}

// Run opens the window and drives s until the window is closed or escape is
// pressed.
func Run[V dynamo.Vector[V]](ctx context.Context, s *sim.Simulation[V], opts Options) error {
	if opts.Title == "" {
		opts.Title = "ballsim"
	}
	if opts.FPS <= 0 {
		opts.FPS = 60
	}

	rl.InitWindow(screenW, screenH, opts.Title)
	defer rl.CloseWindow()
	rl.SetTargetFPS(opts.FPS)
	rl.SetExitKey(0)

	app := NewApp(s, opts)
	defer app.Close()

	log.Debug("window open", "title", opts.Title, "bodies", len(s.Bodies()))
	return s.Run(ctx, app, app, app)
}

// Close releases GPU resources owned by the app.
func (a *App[V]) Close() {
	a.meshes.Unload()
	if a.font.Texture.ID != rl.GetFontDefault().Texture.ID {
		rl.UnloadFont(a.font)
	}
}

// Poll maps window close and escape to Close and Y to ArmCollisions. Camera
// keys are consumed here too.
func (a *App[V]) Poll() sim.Input {
	a.rig.Update(pollRig(), rl.GetFrameTime())
	return sim.Input{
		Close:         rl.WindowShouldClose() || rl.IsKeyPressed(rl.KeyEscape),
		ArmCollisions: rl.IsKeyPressed(rl.KeyY),
	}
}

func (a *App[V]) Elapsed() float64 {
	return float64(rl.GetFrameTime())
}

// Render draws one frame of view.
func (a *App[V]) Render(view sim.View[V]) {
	a.energy = append(a.energy, view.KineticEnergy())
	if len(a.energy) > maxHistory {
		a.energy = a.energy[1:]
	}

	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	rl.BeginMode3D(a.rig.Camera)
	a.drawBox(dynamo.Axes(view.Boundary.HalfExtents()))
	for i := range view.Bodies {
		b := &view.Bodies[i]
		model := a.meshes.Get(b.ID, float32(b.Radius))
		rl.DrawModel(model, a.world(dynamo.Axes(b.Position)), 1, toRL(b.Color))
	}
	rl.EndMode3D()

	a.drawHUD(view)
	rl.EndDrawing()
}

// world maps simulation coordinates to raylib space. 2D runs lie on the XZ
// plane, seen from above.
func (a *App[V]) world(p []float64) rl.Vector3 {
	if a.flat {
		return rl.NewVector3(float32(p[0]), 0, float32(-p[1]))
	}
	return rl.NewVector3(float32(p[0]), float32(p[1]), float32(p[2]))
}

func (a *App[V]) drawBox(half []float64) {
	if a.flat {
		w, d := float32(2*half[0]), float32(2*half[1])
		rl.DrawCubeWires(rl.NewVector3(0, 0, 0), w, 0, d, ColBox)
		return
	}
	rl.DrawCubeWires(rl.NewVector3(0, 0, 0), float32(2*half[0]), float32(2*half[1]), float32(2*half[2]), ColBox)
}

func toRL(c dynamo.Color) rl.Color {
	r, g, b, al := c.RGBA8()
	return rl.NewColor(r, g, b, al)
}

func (a *App[V]) drawHUD(view sim.View[V]) {
	a.drawText(a.opts.Title, 30, 30, 24, ColSelect)
	a.drawText(fmt.Sprintf(":: %d bodies", len(view.Bodies)), 30, 60, 16, ColText)

	if view.Armed {
		a.drawText("COLLISIONS ON", 1100, 30, 16, ColArmed)
	} else {
		a.drawText("[Y] ARM COLLISIONS", 1070, 30, 16, ColTextDim)
	}

	a.drawText(fmt.Sprintf("t %.2fs  frame %d  collisions %d", view.Stats.Time, view.Stats.Index, a.sim.Collisions()), 30, 560, 14, ColText)
	a.drawTelemetry()

	a.drawText("[WASD] CAMERA  [SPACE/DOWN] LIFT  [RMB] ORBIT  [ESC] QUIT", 700, 680, 14, ColTextDim)
	a.drawText(fmt.Sprintf("%d FPS", rl.GetFPS()), 30, 680, 14, ColTextDim)
}

func (a *App[V]) drawText(text string, x, y int, size int, color rl.Color) {
	rl.DrawTextEx(a.font, text, rl.NewVector2(float32(x), float32(y)), float32(size), 1, color)
}

func (a *App[V]) drawTelemetry() {
	if len(a.energy) < 2 {
		return
	}

	rectX, rectY := 30, 600
	width, height := 400, 60

	minVal, maxVal := a.energy[0], a.energy[0]
	for _, v := range a.energy {
		minVal, maxVal = min(minVal, v), max(maxVal, v)
	}
	if maxVal == minVal {
		maxVal = minVal + 1
	}

	points := make([]rl.Vector2, len(a.energy))
	for i, val := range a.energy {
		px := float32(rectX) + (float32(i)/float32(len(a.energy)))*float32(width)
		norm := (val - minVal) / (maxVal - minVal)
		py := float32(rectY+height) - float32(norm)*float32(height)
		points[i] = rl.NewVector2(px, py)
	}

	rl.DrawLineStrip(points, ColAccent)
	a.drawText(fmt.Sprintf("KE: %.2e", a.energy[len(a.energy)-1]), rectX+width+10, rectY+height-10, 14, ColText)
}
