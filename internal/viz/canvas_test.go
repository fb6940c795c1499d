package viz

import (
	"image/color"
	"math"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestCanvasSetBounds(t *testing.T) {
	c := NewCanvas(4, 2)
	w, h := c.Dots()
	if w != 8 || h != 8 {
		t.Fatalf("dots = %dx%d, want 8x8", w, h)
	}

	c.Set(0, 0)
	c.Set(7, 7)
	c.Set(-1, 3)
	c.Set(8, 0)
	c.Set(0, 8)

	if !c.IsSet(0, 0) || !c.IsSet(7, 7) {
		t.Error("corner dots not set")
	}
	if c.IsSet(1, 0) || c.IsSet(-1, 3) {
		t.Error("unexpected dot set")
	}
	if c.Grid[0][0] != 0x2801 {
		t.Errorf("cell = %U, want U+2801", c.Grid[0][0])
	}

	c.Unset(0, 0)
	if c.IsSet(0, 0) || c.Grid[0][0] != blank {
		t.Error("unset left the dot lit")
	}
}

func TestCanvasClearAndString(t *testing.T) {
	c := NewCanvas(3, 2)
	c.DrawLine(0, 0, 5, 7)
	c.Clear()

	lines := strings.Split(strings.TrimSuffix(c.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("rows = %d", len(lines))
	}
	for _, l := range lines {
		if l != strings.Repeat(string(rune(blank)), 3) {
			t.Errorf("row %q not blank", l)
		}
	}
}

func TestDrawLine(t *testing.T) {
	tests := []struct {
		name           string
		x0, y0, x1, y1 int
	}{
		{"horizontal", 0, 3, 9, 3},
		{"vertical", 4, 0, 4, 11},
		{"diagonal", 0, 0, 9, 9},
		{"reversed", 9, 11, 1, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCanvas(5, 3)
			c.DrawLine(tt.x0, tt.y0, tt.x1, tt.y1)
			if !c.IsSet(tt.x0, tt.y0) || !c.IsSet(tt.x1, tt.y1) {
				t.Error("endpoints not drawn")
			}
		})
	}
}

func TestDrawCircle(t *testing.T) {
	c := NewCanvas(20, 10)
	cx, cy, r := 20, 20, 10.0
	c.DrawCircle(cx, cy, r)

	if c.IsSet(cx, cy) {
		t.Error("outline filled the centre")
	}
	for _, p := range [][2]int{{cx + 10, cy}, {cx - 10, cy}, {cx, cy + 10}, {cx, cy - 10}} {
		if !c.IsSet(p[0], p[1]) {
			t.Errorf("point %v on the ring not drawn", p)
		}
	}

	w, h := c.Dots()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !c.IsSet(x, y) {
				continue
			}
			d := math.Hypot(float64(x-cx), float64(y-cy))
			if math.Abs(d-r) > 1.5 {
				t.Fatalf("dot (%d,%d) is %.2f from centre", x, y, d)
			}
		}
	}

	small := NewCanvas(4, 2)
	small.DrawCircle(3, 3, 0.5)
	if !small.IsSet(3, 3) {
		t.Error("tiny disc should plot its centre")
	}
}

func TestPaletted(t *testing.T) {
	c := NewCanvas(2, 1)
	c.Set(1, 2)
	img := c.Paletted(8, 16, color.White)

	if b := img.Bounds(); b.Dx() != 16 || b.Dy() != 16 {
		t.Fatalf("bounds = %v", b)
	}
	if img.ColorIndexAt(4, 8) != 1 {
		t.Error("dot (1,2) should cover pixel (4,8)")
	}
	if img.ColorIndexAt(0, 0) != 0 {
		t.Error("background should stay black")
	}
}

func TestCameraProject(t *testing.T) {
	cam := &Camera{Distance: 5, Near: 0.1, Zoom: 1}
	x, y, _, _, ok := cam.Project(mgl64.Vec3{}, 100, 80)
	if !ok || x != 50 || y != 40 {
		t.Errorf("origin projected to (%d,%d) ok=%v", x, y, ok)
	}

	x, y, _, _, _ = cam.Project(mgl64.Vec3{0.5, 0.5, 0}, 100, 80)
	if x <= 50 || y >= 40 {
		t.Errorf("+x+y projected to (%d,%d), want right and up", x, y)
	}

	if _, _, _, _, ok := cam.Project(mgl64.Vec3{0, 0, 5}, 100, 80); ok {
		t.Error("point behind the camera should be clipped")
	}

	cam.RotateY(math.Pi / 2)
	p := cam.RotatePoint(mgl64.Vec3{1, 0, 0})
	if math.Abs(p.Z()+1) > 1e-9 {
		t.Errorf("rotated = %v, want z=-1", p)
	}
}

func TestBoxWireframe(t *testing.T) {
	w := BoxWireframe(mgl64.Vec3{1, 2, 3})
	if len(w.Edges) != 12 {
		t.Fatalf("edges = %d", len(w.Edges))
	}
	for _, e := range w.Edges {
		if e.Start.Sub(e.End).Len() == 0 {
			t.Error("degenerate edge")
		}
	}
}
