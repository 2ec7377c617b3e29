package frame

// Metadata describes one decoded clip. Width and Height are constant for the
// whole clip. FrameRate <= 0 means the container did not report a usable rate.
type Metadata struct {
	FrameRate  float64
	FrameCount int
	Width      int
	Height     int
}

// DurationSeconds returns FrameCount/FrameRate, or 0 when the rate is unknown.
func (m Metadata) DurationSeconds() float64 {
	if m.FrameRate <= 0 {
		return 0
	}
	return float64(m.FrameCount) / m.FrameRate
}
