package timeline

import (
	"errors"
	"testing"

	"videogrid/internal/frame"
	"videogrid/internal/services"
	"videogrid/internal/testsupport"
)

func makeSequence(t *testing.T, n int) frame.Sequence {
	return testsupport.NumberedSequence(t, n, 2, 2, 0)
}

func TestReadCap(t *testing.T) {
	tests := []struct {
		name   string
		fps    float64
		count  int
		secs   float64
		expect int
	}{
		{"long clip capped at fifteen seconds", 30, 900, 15, 450},
		{"short clip reads everything", 30, 90, 15, 90},
		{"fractional rate truncates", 29.97, 1000, 15, 449},
		{"zero fps falls back to frame count", 0, 120, 15, 120},
		{"negative fps falls back to frame count", -1, 42, 15, 42},
		{"tiny product falls back to frame count", 0.01, 7, 15, 7},
		{"empty clip", 25, 0, 15, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ReadCap(tt.fps, tt.count, tt.secs); got != tt.expect {
				t.Fatalf("ReadCap(%v, %d, %v) = %d, want %d", tt.fps, tt.count, tt.secs, got, tt.expect)
			}
		})
	}
}

func TestTwoClipScenario(t *testing.T) {
	a := makeSequence(t, 10)
	b := makeSequence(t, 3)

	target := Target([]int{len(a), len(b)}, DefaultLoopFactor)
	if target != 50 {
		t.Fatalf("expected target 50, got %d", target)
	}

	loopedB, err := Loop(b, DefaultLoopFactor)
	if err != nil {
		t.Fatalf("Loop: %v", err)
	}
	if len(loopedB) != 15 {
		t.Fatalf("expected looped B length 15, got %d", len(loopedB))
	}

	finalA, err := LoopAndPad(a, DefaultLoopFactor, target)
	if err != nil {
		t.Fatalf("LoopAndPad A: %v", err)
	}
	finalB, err := LoopAndPad(b, DefaultLoopFactor, target)
	if err != nil {
		t.Fatalf("LoopAndPad B: %v", err)
	}
	if len(finalA) != target || len(finalB) != target {
		t.Fatalf("expected both lengths %d, got %d and %d", target, len(finalA), len(finalB))
	}

	for i := 0; i < 15; i++ {
		if finalB[i] != b[i%3] {
			t.Fatalf("frame %d of B should loop original frame %d", i, i%3)
		}
	}
	holds := 0
	for i := 15; i < target; i++ {
		if finalB[i] != b[2] {
			t.Fatalf("frame %d of B should hold the last frame", i)
		}
		holds++
	}
	if got := testsupport.Marker(finalB[target-1]); got != 2 {
		t.Fatalf("last frame of B carries marker %d, want 2", got)
	}
	if holds != 35 {
		t.Fatalf("expected 35 held frames, got %d", holds)
	}
}

func TestPadNeverExceedsTarget(t *testing.T) {
	seq := makeSequence(t, 4)
	for target := 4; target < 12; target++ {
		out, err := Pad(seq, target)
		if err != nil {
			t.Fatalf("Pad(%d): %v", target, err)
		}
		if len(out) != target {
			t.Fatalf("Pad(%d) length = %d", target, len(out))
		}
	}
	if _, err := Pad(seq, 3); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for short target, got %v", err)
	}
}

func TestEmptySequenceIsFatal(t *testing.T) {
	if _, err := Loop(nil, DefaultLoopFactor); !errors.Is(err, services.ErrEmptySequence) {
		t.Fatalf("expected empty sequence error from Loop, got %v", err)
	}
	if _, err := Pad(frame.Sequence{}, 10); !errors.Is(err, services.ErrEmptySequence) {
		t.Fatalf("expected empty sequence error from Pad, got %v", err)
	}
}

func TestPadDoesNotAliasInput(t *testing.T) {
	seq := makeSequence(t, 2)
	backing := make(frame.Sequence, 2, 10)
	copy(backing, seq)
	out, err := Pad(backing, 5)
	if err != nil {
		t.Fatalf("Pad: %v", err)
	}
	out[0] = nil
	if backing[0] == nil {
		t.Fatal("Pad output shares backing array with input")
	}
}
