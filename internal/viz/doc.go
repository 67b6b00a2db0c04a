// Package viz provides terminal visualization for drive-control runs.
//
// Two modes are supported:
//
//   - [Model]: a live Bubble Tea view that steps the closed loop in real
//     time and renders the mount pointing on a Braille [Canvas] alongside
//     tracking-error and command charts
//   - [PlotResult]: a static asciigraph rendering of a recorded run for
//     terminal output
//
// # Key Bindings
//
//	Space   - Pause/Resume the loop
//	R       - Reset controller and drive state
//	Left/H  - Move target -5 degrees
//	Right/L - Move target +5 degrees
//	Q       - Quit
package viz
