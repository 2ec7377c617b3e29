package frame

import (
	"errors"
	"fmt"
)

// Channels is the number of 8-bit samples per pixel (rgb24).
const Channels = 3

// RawFrame is a Width×Height×3 buffer of 8-bit color samples.
type RawFrame struct {
	Width  int
	Height int
	Pix    []byte
}

// Sequence is the ordered list of frames decoded for one clip.
type Sequence []*RawFrame

// New allocates a zeroed (black) frame.
func New(width, height int) (*RawFrame, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("frame geometry %dx%d must be positive", width, height)
	}
	return &RawFrame{Width: width, Height: height, Pix: make([]byte, Size(width, height))}, nil
}

// FromBytes wraps an existing rgb24 buffer after checking its length.
func FromBytes(width, height int, pix []byte) (*RawFrame, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("frame geometry %dx%d must be positive", width, height)
	}
	if want := Size(width, height); len(pix) != want {
		return nil, fmt.Errorf("frame buffer is %d bytes, want %d for %dx%d", len(pix), want, width, height)
	}
	return &RawFrame{Width: width, Height: height, Pix: pix}, nil
}

// Size returns the byte length of a width×height rgb24 frame.
func Size(width, height int) int {
	return width * height * Channels
}

// Stride returns the byte length of one row.
func (f *RawFrame) Stride() int {
	return f.Width * Channels
}

// Offset returns the index of pixel (x, y) in Pix.
func (f *RawFrame) Offset(x, y int) int {
	return y*f.Stride() + x*Channels
}

// Set writes an rgb triple; coordinates outside the frame are ignored.
func (f *RawFrame) Set(x, y int, r, g, b byte) {
	if x < 0 || y < 0 || x >= f.Width || y >= f.Height {
		return
	}
	i := f.Offset(x, y)
	f.Pix[i], f.Pix[i+1], f.Pix[i+2] = r, g, b
}

// At returns the rgb triple at (x, y).
func (f *RawFrame) At(x, y int) (byte, byte, byte) {
	i := f.Offset(x, y)
	return f.Pix[i], f.Pix[i+1], f.Pix[i+2]
}

// Clone returns a deep copy of f.
func (f *RawFrame) Clone() *RawFrame {
	pix := make([]byte, len(f.Pix))
	copy(pix, f.Pix)
	return &RawFrame{Width: f.Width, Height: f.Height, Pix: pix}
}

// Validate reports whether the buffer length matches the declared geometry.
func (f *RawFrame) Validate() error {
	if f == nil {
		return errors.New("nil frame")
	}
	if f.Width <= 0 || f.Height <= 0 {
		return fmt.Errorf("frame geometry %dx%d must be positive", f.Width, f.Height)
	}
	if want := Size(f.Width, f.Height); len(f.Pix) != want {
		return fmt.Errorf("frame buffer is %d bytes, want %d for %dx%d", len(f.Pix), want, f.Width, f.Height)
	}
	return nil
}

// BlitInto copies all of src into dst with its top-left corner at (x, y).
// The whole source rectangle must fit inside dst.
func BlitInto(dst *RawFrame, x, y int, src *RawFrame) error {
	if err := dst.Validate(); err != nil {
		return fmt.Errorf("blit destination: %w", err)
	}
	if err := src.Validate(); err != nil {
		return fmt.Errorf("blit source: %w", err)
	}
	if x < 0 || y < 0 || x+src.Width > dst.Width || y+src.Height > dst.Height {
		return fmt.Errorf("blit %dx%d at (%d,%d) exceeds %dx%d destination", src.Width, src.Height, x, y, dst.Width, dst.Height)
	}
	rowBytes := src.Stride()
	for row := 0; row < src.Height; row++ {
		from := row * rowBytes
		to := dst.Offset(x, y+row)
		copy(dst.Pix[to:to+rowBytes], src.Pix[from:from+rowBytes])
	}
	return nil
}
