package viz

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

// Camera orbits the origin. Points are expected in scene units, roughly
// [-1, 1] on every axis.
type Camera struct {
	Distance         float64
	Near             float64
	RotX, RotY, RotZ float64
	Zoom             float64
}

func NewCamera() *Camera {
	return &Camera{Distance: 5, Near: 0.1, RotX: 0.35, RotY: -0.5, Zoom: 1.0}
}

func (c *Camera) RotateX(a float64) { c.RotX += a }
func (c *Camera) RotateY(a float64) { c.RotY += a }
func (c *Camera) RotateZ(a float64) { c.RotZ += a }
func (c *Camera) ZoomIn()           { c.Zoom = math.Min(10, c.Zoom*1.2) }
func (c *Camera) ZoomOut()          { c.Zoom = math.Max(0.1, c.Zoom/1.2) }

func (c *Camera) rotation() mgl64.Mat3 {
	return mgl64.Rotate3DZ(c.RotZ).Mul3(mgl64.Rotate3DY(c.RotY)).Mul3(mgl64.Rotate3DX(c.RotX))
}

// RotatePoint applies the camera orientation, X first then Y then Z.
func (c *Camera) RotatePoint(p mgl64.Vec3) mgl64.Vec3 {
	return c.rotation().Mul3x1(p)
}

// Project converts scene coordinates to canvas sub-pixels. It returns x, y,
// the perspective factor, depth and whether the point lands on screen.
func (c *Camera) Project(p mgl64.Vec3, sw, sh int) (int, int, float64, float64, bool) {
	rot := c.RotatePoint(p).Mul(c.Zoom)
	if rot.Z() >= c.Distance-c.Near {
		return 0, 0, 0, 0, false
	}
	persp := c.Distance / (c.Distance - rot.Z())
	pScale := float64(min(sw, sh)) / 5.0
	sx := int(rot.X()*persp*pScale) + sw/2
	sy := int(-rot.Y()*persp*pScale) + sh/2
	return sx, sy, persp * pScale * c.Zoom, rot.Z(), sx >= 0 && sx < sw && sy >= 0 && sy < sh
}

type Edge struct {
	Start, End mgl64.Vec3
}

type Wireframe struct{ Edges []Edge }

func NewWireframe() *Wireframe               { return &Wireframe{Edges: make([]Edge, 0)} }
func (w *Wireframe) AddEdge(s, e mgl64.Vec3) { w.Edges = append(w.Edges, Edge{s, e}) }
func (w *Wireframe) AddPoint(p mgl64.Vec3)   { w.Edges = append(w.Edges, Edge{p, p}) }
func (w *Wireframe) Clear()                  { w.Edges = w.Edges[:0] }

type projectedEdge struct {
	x1, y1, x2, y2 int
	depth          float64
}

// Render3D draws the wireframe back to front.
func Render3D(c *Canvas, w *Wireframe, cam *Camera) {
	if c == nil || w == nil || cam == nil {
		return
	}
	cw, ch := c.Dots()
	proj := make([]projectedEdge, 0, len(w.Edges))
	for _, e := range w.Edges {
		x1, y1, _, d1, v1 := cam.Project(e.Start, cw, ch)
		x2, y2, _, d2, v2 := cam.Project(e.End, cw, ch)
		if v1 || v2 {
			proj = append(proj, projectedEdge{x1, y1, x2, y2, (d1 + d2) / 2})
		}
	}
	sort.Slice(proj, func(i, j int) bool { return proj[i].depth < proj[j].depth })
	for _, e := range proj {
		if e.x1 == e.x2 && e.y1 == e.y2 {
			c.Set(e.x1, e.y1)
		} else {
			c.DrawLine(e.x1, e.y1, e.x2, e.y2)
		}
	}
}

// BoxWireframe returns the twelve edges of the box with the given half-extents.
func BoxWireframe(half mgl64.Vec3) *Wireframe {
	w := NewWireframe()
	x, y, z := half.X(), half.Y(), half.Z()
	v := []mgl64.Vec3{
		{-x, -y, -z}, {x, -y, -z}, {x, y, -z}, {-x, y, -z},
		{-x, -y, z}, {x, -y, z}, {x, y, z}, {-x, y, z},
	}
	ei := [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 0}, {4, 5}, {5, 6}, {6, 7}, {7, 4}, {0, 4}, {1, 5}, {2, 6}, {3, 7}}
	for _, e := range ei {
		w.AddEdge(v[e[0]], v[e[1]])
	}
	return w
}
