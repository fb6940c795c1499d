// Package viz draws running simulations in the terminal.
//
// Bodies are plotted on a braille [Canvas] (2x4 dots per cell): 2D variants
// top-down with the box filling the canvas, 3D variants through an orbiting
// [Camera]. [Model] wraps a simulation in a Bubble Tea program with an
// energy chart and stats panel; [TextRenderer] is the plain sim.Renderer.
//
// # Key Bindings
//
//	Y       - Arm body-body collisions
//	Space   - Pause/Resume
//	Q/Esc   - Close the simulation and quit
//	X/Z ←→  - Rotate the camera (3D)
//	+/-     - Zoom
//	T       - Cycle color themes
//	G       - Toggle GIF recording
//	?       - Show help overlay
package viz
