package viz

import (
	"fmt"
	"io"

	"github.com/san-kum/ballsim/internal/dynamo"
	"github.com/san-kum/ballsim/internal/sim"
)

// TextRenderer is a sim.Renderer that redraws the scene to a plain writer,
// for terminals where the full-screen view is unavailable.
type TextRenderer[V dynamo.Vector[V]] struct {
	Scene *Scene
	Out   io.Writer
	// Every skips frames; 0 or 1 draws all of them.
	Every int

	frames int
}

func NewTextRenderer[V dynamo.Vector[V]](out io.Writer, every int) *TextRenderer[V] {
	return &TextRenderer[V]{Scene: NewScene(width, height), Out: out, Every: every}
}

func (r *TextRenderer[V]) Render(view sim.View[V]) {
	r.frames++
	if r.Every > 1 && r.frames%r.Every != 0 {
		return
	}
	Draw(r.Scene, view)
	fmt.Fprintf(r.Out, "\033[H\033[2J%st=%.2fs  E=%.1f  collisions armed=%v\n",
		r.Scene.Canvas.String(), view.Stats.Time, view.KineticEnergy(), view.Armed)
}
