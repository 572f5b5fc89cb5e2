// Package viz renders a running ensemble in the terminal.
//
// [Model] is a Bubble Tea program that takes one integrator step per frame
// and draws each body at its display transform on a braille [Canvas],
// scaled from the simulation canvas to the terminal size. Bodies keep
// their own colours; [Theme] only styles the side panel.
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	.     - Single step while paused
//	R     - Reset to the initial bodies
//	T     - Cycle color themes
//	?     - Show help overlay
//
// Frame durations are averaged by [FrameStats] and logged at debug level
// once per averaging window.
package viz
