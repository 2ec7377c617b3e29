// Package grid lays out eight clips in a fixed two-row, four-column grid and
// stitches one composite frame per time step.
//
// Sources 0..3 fill the top row and 4..7 the bottom row, left to right. A row
// is as tall as its tallest source and as wide as the sum of its sources; the
// grid is as wide as its widest row. Short sources are padded with black rows
// at the bottom of their cell and narrow rows with black columns on the right.
// Nothing is ever scaled.
package grid
