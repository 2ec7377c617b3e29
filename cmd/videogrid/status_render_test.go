package main

import (
	"fmt"
	"strings"
	"testing"

	"videogrid/internal/frame"
	"videogrid/internal/pipeline"
	"videogrid/internal/preflight"
)

func TestRenderStatusLineNoColor(t *testing.T) {
	got := renderStatusLine("Output", statusError, "missing", false)
	want := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, "Output:", "[ERROR] missing")
	if got != want {
		t.Fatalf("renderStatusLine mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestRenderStatusLineWithColor(t *testing.T) {
	got := renderStatusLine("Output", statusOK, "done", true)
	if !strings.HasPrefix(got, ansiGreen) || !strings.HasSuffix(got, ansiReset) {
		t.Fatalf("expected green line, got %q", got)
	}
}

func TestRenderPreflight(t *testing.T) {
	out := renderPreflight([]preflight.Result{
		{Name: "FFmpeg", Passed: true, Detail: "/usr/bin/ffmpeg"},
		{Name: "Clip 3 (C)", Detail: "missing"},
	}, false)
	requireContains(t, out, "== Preflight ==")
	requireContains(t, out, "[OK] /usr/bin/ffmpeg")
	requireContains(t, out, "[ERROR] missing")
}

func TestRenderClipTable(t *testing.T) {
	out := renderClipTable([]pipeline.ClipReport{
		{Index: 0, Label: "ONE", Metadata: frame.Metadata{Width: 640, Height: 360, FrameRate: 29.97}, Decoded: 10, Looped: 50},
		{Index: 5, Label: "SIX", Metadata: frame.Metadata{Width: 320, Height: 240, FrameRate: 25}, Decoded: 3, Looped: 15, Held: 35},
	})
	for _, want := range []string{"ONE", "640x360", "29.97", "r2 c2", "SIX", "35"} {
		requireContains(t, out, want)
	}
}

func TestFormatHelpers(t *testing.T) {
	if formatRate(0) != "?" || formatRate(30) != "30" {
		t.Fatalf("unexpected formatRate output")
	}
	if formatSeconds(0) != "-" || formatSeconds(1.5) != "1.50s" {
		t.Fatalf("unexpected formatSeconds output")
	}
	if yesNo(true) != "yes" || yesNo(false) != "no" {
		t.Fatal("unexpected yesNo output")
	}
}
