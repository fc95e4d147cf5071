// Package score holds the pure rules that turn raw user input into derived
// values: the daily lifestyle score, goal progress and status, the points
// awarded for a completed goal, badges, and the level implied by a points
// total. Nothing here performs I/O.
package score
