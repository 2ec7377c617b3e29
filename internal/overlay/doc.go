// Package overlay burns a clip label into raw frames.
//
// The label is rasterized once per (label, geometry) pair with the embedded Go
// Bold face, dilated into a wide black outline and a narrower white fill, and
// then painted onto every frame of the clip. Placement is horizontally centered
// on the measured text width with the baseline a fixed margin above the bottom
// edge.
package overlay
