// Package dynamo provides the primitives shared by every simulation variant.
//
// The package defines the small vocabulary the physics core is written
// against:
//
//   - [Vector]: type constraint over mgl64.Vec2 and mgl64.Vec3, so the body
//     and boundary algorithms are written once for 2D and 3D
//   - [Axes] / [FromAxes]: per-axis access for code that reflects or clamps
//     one component at a time
//   - [Color]: display color carried by bodies for renderers
//   - domain errors ([ErrInvalidMass], [ErrInvalidBoundary], ...) and
//     [SimulationError]
//
// # Example
//
//	v := mgl64.Vec2{3, 4}
//	dynamo.Axes(v)             // []float64{3, 4}
//	dynamo.Dim[mgl64.Vec3]()   // 3
//	dynamo.FromAxes[mgl64.Vec2]([]float64{1, 2})
package dynamo
