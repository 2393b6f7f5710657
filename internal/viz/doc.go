// Package viz renders collision simulations in the terminal.
//
// The package implements an interactive TUI using the Bubble Tea framework:
//
//   - [Model]: live session driving a simulator from a ticker
//   - [Picker]: preset list that opens a live session
//   - [Canvas]: Braille-based pixel canvas with per-cell tones
//   - [Projector]: maps box coordinates to canvas sub-pixels, orbiting a
//     [Camera] for 3D boxes
//   - Theme selection with 5 built-in color schemes
//
// Bodies taking part in the latest event are drawn with the theme's
// highlight color. Coordinates that fall outside the canvas are clamped and
// logged once per frame.
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	S     - Step one event while paused
//	R     - Reset to initial state
//	T     - Cycle color themes
//	+/-   - Events processed per frame
//	?     - Show help overlay
//	[]    - Time travel (rewind/forward)
package viz
