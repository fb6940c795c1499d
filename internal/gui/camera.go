package gui

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// RigInput is one frame of camera controls.
type RigInput struct {
	Orbit float32 // A/D
	Zoom  float32 // W/S, positive moves closer
	Lift  float32 // space/down
	DragX float32 // right mouse drag
	DragY float32
	Wheel float32
}

// CameraRig orbits the box centre. Input moves the goal; the raylib camera
// eases towards it every frame.
type CameraRig struct {
	Camera rl.Camera3D

	Yaw, Pitch float32
	Distance   float32
	Height     float32

	minDistance, maxDistance float32
	topDown                  bool
}

// NewOrbitRig frames a box whose largest half-extent is extent.
func NewOrbitRig(extent float32) *CameraRig {
	r := &CameraRig{
		Yaw:         0.6,
		Pitch:       0.35,
		Distance:    extent * 3.2,
		minDistance: extent * 0.5,
		maxDistance: extent * 10,
	}
	r.Camera = rl.NewCamera3D(r.goal(), rl.NewVector3(0, 0, 0), rl.NewVector3(0, 1, 0), 45, rl.CameraPerspective)
	return r
}

// NewTopDownRig looks straight down on the XZ plane with an orthographic
// camera sized to show a w x h rectangle.
func NewTopDownRig(w, h float32) *CameraRig {
	r := &CameraRig{
		Distance:    max(w, h) * 1.15,
		minDistance: max(w, h) * 0.1,
		maxDistance: max(w, h) * 10,
		topDown:     true,
	}
	r.Camera = rl.NewCamera3D(rl.NewVector3(0, 10*max(w, h), 0), rl.NewVector3(0, 0, 0), rl.NewVector3(0, 0, -1), r.Distance, rl.CameraOrthographic)
	return r
}

func (r *CameraRig) goal() rl.Vector3 {
	cp := float32(math.Cos(float64(r.Pitch)))
	return rl.NewVector3(
		r.Distance*cp*float32(math.Sin(float64(r.Yaw))),
		r.Distance*float32(math.Sin(float64(r.Pitch)))+r.Height,
		r.Distance*cp*float32(math.Cos(float64(r.Yaw))),
	)
}

// Update applies one frame of input over dt seconds.
func (r *CameraRig) Update(in RigInput, dt float32) {
	zoom := in.Zoom*dt*r.Distance + in.Wheel*r.Distance*0.1
	r.Distance = clamp(r.Distance-zoom, r.minDistance, r.maxDistance)

	if r.topDown {
		r.Camera.Fovy = r.Distance
		return
	}

	r.Yaw += in.Orbit*dt*1.5 - in.DragX*0.005
	r.Pitch = clamp(r.Pitch+in.DragY*0.005, -1.45, 1.45)
	r.Height += in.Lift * dt * r.Distance * 0.5

	lerp := min(5.0*dt, 1)
	r.Camera.Position = rl.Vector3Lerp(r.Camera.Position, r.goal(), lerp)
	r.Camera.Target = rl.Vector3Lerp(r.Camera.Target, rl.NewVector3(0, r.Height, 0), lerp)
}

func clamp(v, lo, hi float32) float32 {
	return max(lo, min(hi, v))
}

// pollRig reads WASD, space/down and the mouse.
func pollRig() RigInput {
	var in RigInput
	if rl.IsKeyDown(rl.KeyW) {
		in.Zoom++
	}
	if rl.IsKeyDown(rl.KeyS) {
		in.Zoom--
	}
	if rl.IsKeyDown(rl.KeyA) {
		in.Orbit--
	}
	if rl.IsKeyDown(rl.KeyD) {
		in.Orbit++
	}
	if rl.IsKeyDown(rl.KeySpace) {
		in.Lift++
	}
	if rl.IsKeyDown(rl.KeyDown) {
		in.Lift--
	}
	if rl.IsMouseButtonDown(rl.MouseRightButton) {
		delta := rl.GetMouseDelta()
		in.DragX, in.DragY = delta.X, delta.Y
	}
	in.Wheel = rl.GetMouseWheelMove()
	return in
}
