// Package viz renders membrane evolution in the terminal.
//
// The live monitor is a bubbletea program that steps the evolution engine
// on a timer, drawing the hierarchy tree next to a stats pane and a
// sparkline of rule applications per cycle. Static helpers render the
// hierarchy tree and convergence plots for the non-interactive commands.
package viz
