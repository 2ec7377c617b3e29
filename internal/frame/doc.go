// Package frame defines the raw rgb24 frame buffer shared by the decoder, the
// label overlay, the loop padder and the grid compositor.
//
// Frames are row-major with three 8-bit channels per pixel. Every copy between
// frames goes through BlitInto, which checks the destination rectangle before
// touching memory so mismatched geometries surface as errors instead of
// corrupted output.
package frame
