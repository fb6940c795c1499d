package viz

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/ballsim/internal/dynamo"
	"github.com/san-kum/ballsim/internal/sim"
)

// Scene draws simulation views onto a canvas. 2D views are drawn top-down
// with the box filling the canvas; 3D views go through the camera.
type Scene struct {
	Canvas *Canvas
	Camera *Camera
}

func NewScene(w, h int) *Scene {
	return &Scene{Canvas: NewCanvas(w, h), Camera: NewCamera()}
}

// Draw clears the canvas and renders the box and every body of view.
func Draw[V dynamo.Vector[V]](s *Scene, view sim.View[V]) {
	s.Canvas.Clear()
	half := dynamo.Axes(view.Boundary.HalfExtents())
	balls := make([]ball, len(view.Bodies))
	for i := range view.Bodies {
		balls[i] = ball{pos: dynamo.Axes(view.Bodies[i].Position), r: view.Bodies[i].Radius}
	}
	switch len(half) {
	case 2:
		s.draw2D(half, balls)
	case 3:
		s.draw3D(half, balls)
	}
}

type ball struct {
	pos []float64
	r   float64
}

type disc struct {
	x, y  int
	r     float64
	depth float64
}

func (s *Scene) draw2D(half []float64, balls []ball) {
	cw, ch := s.Canvas.Dots()
	scale := math.Min(float64(cw-1)/(2*half[0]), float64(ch-1)/(2*half[1]))
	toScreen := func(x, y float64) (int, int) {
		return int(math.Round((x + half[0]) * scale)), int(math.Round((half[1] - y) * scale))
	}

	x0, y0 := toScreen(-half[0], half[1])
	x1, y1 := toScreen(half[0], -half[1])
	s.Canvas.DrawRect(x0, y0, x1, y1)

	for _, b := range balls {
		x, y := toScreen(b.pos[0], b.pos[1])
		s.Canvas.DrawCircle(x, y, b.r*scale)
	}
}

func (s *Scene) draw3D(half []float64, balls []ball) {
	extent := math.Max(half[0], math.Max(half[1], half[2]))
	h := mgl64.Vec3{half[0], half[1], half[2]}.Mul(1 / extent)
	Render3D(s.Canvas, BoxWireframe(h), s.Camera)

	cw, ch := s.Canvas.Dots()
	discs := make([]disc, 0, len(balls))
	for _, b := range balls {
		p := mgl64.Vec3{b.pos[0], b.pos[1], b.pos[2]}.Mul(1 / extent)
		x, y, scale, depth, ok := s.Camera.Project(p, cw, ch)
		if ok {
			discs = append(discs, disc{x, y, b.r / extent * scale, depth})
		}
	}
	sort.Slice(discs, func(i, j int) bool { return discs[i].depth < discs[j].depth })
	for _, d := range discs {
		s.Canvas.DrawCircle(d.x, d.y, d.r)
	}
}
