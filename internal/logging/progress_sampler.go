package logging

// ProgressSampler decides which frames of a long loop get a progress line.
// It emits on the first frame, every stride frames after it, and on the
// final frame.
type ProgressSampler struct {
	stride int
	total  int
}

// NewProgressSampler constructs a sampler for total frames. A non-positive
// stride falls back to 100.
func NewProgressSampler(stride, total int) *ProgressSampler {
	if stride <= 0 {
		stride = 100
	}
	return &ProgressSampler{stride: stride, total: total}
}

// ShouldLog reports whether frame index should produce a progress line.
func (s *ProgressSampler) ShouldLog(index int) bool {
	if s == nil {
		return true
	}
	if index < 0 {
		return false
	}
	return index%s.stride == 0 || index == s.total-1
}

// Percent returns completion after index frames have been processed.
func (s *ProgressSampler) Percent(index int) float64 {
	if s == nil || s.total <= 0 {
		return 0
	}
	return float64(index) / float64(s.total) * 100
}
