package testsupport

import (
	"testing"

	"videogrid/internal/frame"
)

// SolidFrame returns a width x height frame filled with one colour.
func SolidFrame(t testing.TB, width, height int, r, g, b byte) *frame.RawFrame {
	t.Helper()

	f, err := frame.New(width, height)
	if err != nil {
		t.Fatalf("frame.New(%d, %d): %v", width, height, err)
	}
	for i := 0; i < len(f.Pix); i += frame.Channels {
		f.Pix[i], f.Pix[i+1], f.Pix[i+2] = r, g, b
	}
	return f
}

// NumberedSequence returns n frames whose pixels all carry their index in the
// red channel (offset by base), so tests can tell frames apart after looping.
func NumberedSequence(t testing.TB, n, width, height int, base byte) frame.Sequence {
	t.Helper()

	seq := make(frame.Sequence, n)
	for i := range seq {
		seq[i] = SolidFrame(t, width, height, base+byte(i), 0, 0)
	}
	return seq
}

// Marker returns the red channel of the top-left pixel.
func Marker(f *frame.RawFrame) byte {
	r, _, _ := f.At(0, 0)
	return r
}
