package timeline

import (
	"fmt"

	"videogrid/internal/frame"
	"videogrid/internal/services"
)

const (
	// DefaultLoopFactor is how many times a decoded clip is repeated.
	DefaultLoopFactor = 5
	// DefaultMaxSeconds bounds how much of each clip is decoded.
	DefaultMaxSeconds = 15
)

// ReadCap returns min(int(fps*seconds), frameCount). An unknown frame rate
// (fps <= 0) or a non-positive product falls back to frameCount.
func ReadCap(fps float64, frameCount int, seconds float64) int {
	if frameCount < 0 {
		frameCount = 0
	}
	if fps <= 0 || seconds <= 0 {
		return frameCount
	}
	limit := int(fps * seconds)
	if limit <= 0 {
		return frameCount
	}
	return min(limit, frameCount)
}

// LoopedLength is the length Loop produces for n decoded frames.
func LoopedLength(n, factor int) int {
	if factor < 1 {
		factor = 1
	}
	return n * factor
}

// Target returns the longest looped length across the decoded lengths.
func Target(decoded []int, factor int) int {
	target := 0
	for _, n := range decoded {
		target = max(target, LoopedLength(n, factor))
	}
	return target
}

// Loop repeats seq factor times. Frames are shared, not copied.
func Loop(seq frame.Sequence, factor int) (frame.Sequence, error) {
	if len(seq) == 0 {
		return nil, services.Wrap(services.ErrEmptySequence, "timeline", "loop", "no decoded frames", nil)
	}
	if factor < 1 {
		factor = 1
	}
	out := make(frame.Sequence, 0, len(seq)*factor)
	for i := 0; i < factor; i++ {
		out = append(out, seq...)
	}
	return out, nil
}

// Pad appends the final frame of seq until its length equals target.
func Pad(seq frame.Sequence, target int) (frame.Sequence, error) {
	if len(seq) == 0 {
		return nil, services.Wrap(services.ErrEmptySequence, "timeline", "pad", "no frame to hold", nil)
	}
	if target < len(seq) {
		return nil, services.Wrap(services.ErrValidation, "timeline", "pad",
			fmt.Sprintf("target %d shorter than sequence %d", target, len(seq)), nil)
	}
	out := make(frame.Sequence, len(seq), target)
	copy(out, seq)
	last := seq[len(seq)-1]
	for len(out) < target {
		out = append(out, last)
	}
	return out, nil
}

// LoopAndPad loops the decoded sequence then holds its last frame up to target.
func LoopAndPad(decoded frame.Sequence, factor, target int) (frame.Sequence, error) {
	looped, err := Loop(decoded, factor)
	if err != nil {
		return nil, err
	}
	return Pad(looped, target)
}
