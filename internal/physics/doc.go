// Package physics implements rigid sphere/disc bodies bouncing inside an
// axis-aligned box.
//
// Everything is generic over [dynamo.Vector], so the same code runs the 2D
// elastic variant (mgl64.Vec2) and the 3D damped variants (mgl64.Vec3):
//
//   - [Body]: position, velocity, mass, radius plus per-body restitution,
//     wall damping and gravity
//   - [Boundary]: immutable half-extents with [Boundary.Clamp]
//   - [Body.ResolvePairCollision]: positional correction + impulse along the
//     contact normal
//   - [Spawner]: seeded random initial conditions
//
// # Known simplifications
//
// Wall collisions reflect each axis independently, so a corner hit is two
// single-axis bounces in one step rather than a reflection about the corner
// normal. Pairs are resolved once each in list order; simultaneous contacts
// between three or more bodies are not iterated to a fixed point.
//
// Integration accepts any dt. Negative, NaN or very large values are
// mechanically valid but physically meaningless, and NaN propagates into the
// body state.
package physics
