// Package viz renders trajectories: asciigraph terminal plots, a
// bubbletea live view, and PNG chart export via gonum/plot.
package viz
