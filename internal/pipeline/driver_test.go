package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"videogrid/internal/frame"
	"videogrid/internal/services"
	"videogrid/internal/testsupport"
)

type fakeClip struct {
	meta    frame.Metadata
	frames  frame.Sequence
	openErr error
	readErr error
}

type fakeSource struct {
	clip      *fakeClip
	requested int
	closed    bool
}

func (s *fakeSource) Metadata() frame.Metadata { return s.clip.meta }

func (s *fakeSource) ReadFrames(_ context.Context, maxFrames int) (frame.Sequence, error) {
	s.requested = maxFrames
	if s.clip.readErr != nil {
		return nil, s.clip.readErr
	}
	n := min(maxFrames, len(s.clip.frames))
	out := make(frame.Sequence, n)
	for i := range out {
		out[i] = s.clip.frames[i].Clone()
	}
	return out, nil
}

func (s *fakeSource) Close() error {
	s.closed = true
	return nil
}

type fakeOpener struct {
	clips  map[string]*fakeClip
	opened []*fakeSource
}

func (o *fakeOpener) Open(_ context.Context, path string) (Source, error) {
	clip, ok := o.clips[path]
	if !ok {
		return nil, fmt.Errorf("no such file %s", path)
	}
	if clip.openErr != nil {
		return nil, clip.openErr
	}
	src := &fakeSource{clip: clip}
	o.opened = append(o.opened, src)
	return src, nil
}

type fakeSink struct {
	width, height int
	fps           float64
	frames        []*frame.RawFrame
	closed        bool
	aborted       bool
	writeErr      error
	failAt        int
	onWrite       func(n int)
}

func (s *fakeSink) WriteFrame(f *frame.RawFrame) error {
	if s.writeErr != nil && len(s.frames) == s.failAt {
		return s.writeErr
	}
	s.frames = append(s.frames, f)
	if s.onWrite != nil {
		s.onWrite(len(s.frames))
	}
	return nil
}

func (s *fakeSink) Close() error {
	s.closed = true
	return nil
}

func (s *fakeSink) Abort() { s.aborted = true }

type fakeSinkOpener struct {
	sink      *fakeSink
	createErr error
	created   int
}

func (o *fakeSinkOpener) Create(_ context.Context, _ string, width, height int, fps float64) (Sink, error) {
	o.created++
	if o.createErr != nil {
		return nil, o.createErr
	}
	if o.sink == nil {
		o.sink = &fakeSink{}
	}
	o.sink.width, o.sink.height, o.sink.fps = width, height, fps
	return o.sink, nil
}

type markStamper struct {
	labels map[string]int
}

// Stamp paints the bottom-right pixel white so stamped frames are detectable.
func (m *markStamper) Stamp(f *frame.RawFrame, label string) {
	if m.labels == nil {
		m.labels = map[string]int{}
	}
	m.labels[label]++
	f.Set(f.Width-1, f.Height-1, 255, 255, 255)
}

// fixture builds eight 4x2 clips at 30 fps. Clip 0 has ten frames, the rest three.
func fixture(t *testing.T) ([]ClipSpec, *fakeOpener) {
	t.Helper()
	opener := &fakeOpener{clips: map[string]*fakeClip{}}
	specs := make([]ClipSpec, 8)
	for i := range specs {
		n := 3
		if i == 0 {
			n = 10
		}
		path := fmt.Sprintf("/clips/%d.mp4", i)
		opener.clips[path] = &fakeClip{
			meta:   frame.Metadata{FrameRate: 30, FrameCount: n, Width: 4, Height: 2},
			frames: testsupport.NumberedSequence(t, n, 4, 2, byte(i*20)),
		}
		specs[i] = ClipSpec{Source: path, Label: fmt.Sprintf("L%d", i)}
	}
	return specs, opener
}

func newDriver(opener SourceOpener, sinks SinkOpener, stamper Stamper, logger *slog.Logger) *Driver {
	return New(Options{OutputPath: "/out/grid.mp4", MaxSeconds: 15, LoopFactor: 5, ProgressStride: 100}, opener, sinks, stamper, logger)
}

func cellMarker(f *frame.RawFrame, cell int) byte {
	x := (cell % 4) * 4
	y := (cell / 4) * 2
	r, _, _ := f.At(x, y)
	return r
}

func TestRunComposesLoopedAndHeldGrid(t *testing.T) {
	specs, opener := fixture(t)
	sinks := &fakeSinkOpener{}
	stamper := &markStamper{}

	report, err := newDriver(opener, sinks, stamper, nil).Run(context.Background(), specs)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if report.Target != 50 {
		t.Fatalf("expected target 50, got %d", report.Target)
	}
	sink := sinks.sink
	if len(sink.frames) != 50 || report.FramesWritten != 50 {
		t.Fatalf("expected 50 frames written, got %d (report %d)", len(sink.frames), report.FramesWritten)
	}
	if sink.width != 16 || sink.height != 4 || sink.fps != 30 {
		t.Fatalf("unexpected sink geometry %dx%d@%v", sink.width, sink.height, sink.fps)
	}
	if !sink.closed || sink.aborted {
		t.Fatalf("expected clean close, closed=%v aborted=%v", sink.closed, sink.aborted)
	}
	for i, f := range sink.frames {
		if f.Width != 16 || f.Height != 4 {
			t.Fatalf("frame %d has shape %dx%d", i, f.Width, f.Height)
		}
	}

	// Clip 0 loops its ten frames five times.
	if got := cellMarker(sink.frames[12], 0); got != 2 {
		t.Fatalf("clip 0 at t=12: marker %d, want 2", got)
	}
	// Clip 1 loops three frames to t=14, then holds frame 2.
	if got := cellMarker(sink.frames[13], 1); got != 20+1 {
		t.Fatalf("clip 1 at t=13: marker %d, want 21", got)
	}
	for _, tt := range []int{15, 30, 49} {
		if got := cellMarker(sink.frames[tt], 1); got != 20+2 {
			t.Fatalf("clip 1 at t=%d: marker %d, want held 22", tt, got)
		}
	}
	// Bottom row clip 7 uses the same policy.
	if got := cellMarker(sink.frames[49], 7); got != 140+2 {
		t.Fatalf("clip 7 at t=49: marker %d, want 142", got)
	}

	if report.Clips[1].Looped != 15 || report.Clips[1].Held != 35 {
		t.Fatalf("unexpected clip 1 report %+v", report.Clips[1])
	}
	if report.Clips[0].Held != 0 || report.Clips[0].Decoded != 10 || report.Clips[0].ReadCap != 10 {
		t.Fatalf("unexpected clip 0 report %+v", report.Clips[0])
	}
	if stamper.labels["L0"] != 10 || stamper.labels["L5"] != 3 {
		t.Fatalf("expected each decoded frame stamped once, got %v", stamper.labels)
	}
	r, g, b := sink.frames[0].At(3, 1)
	if r != 255 || g != 255 || b != 255 {
		t.Fatal("expected stamped pixel to survive composition")
	}
	for _, src := range opener.opened {
		if !src.closed {
			t.Fatal("expected every source to be closed")
		}
	}
}

func TestRunIsDeterministic(t *testing.T) {
	run := func() []*frame.RawFrame {
		specs, opener := fixture(t)
		sinks := &fakeSinkOpener{}
		if _, err := newDriver(opener, sinks, &markStamper{}, nil).Run(context.Background(), specs); err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
		return sinks.sink.frames
	}
	first, second := run(), run()
	if len(first) != len(second) {
		t.Fatalf("frame counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if !bytes.Equal(first[i].Pix, second[i].Pix) {
			t.Fatalf("frame %d differs between runs", i)
		}
	}
}

func TestRunUsesFirstClipFrameRateAndWarnsOnMismatch(t *testing.T) {
	specs, opener := fixture(t)
	opener.clips[specs[0].Source].meta.FrameRate = 24
	opener.clips[specs[3].Source].meta.FrameRate = 60

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	sinks := &fakeSinkOpener{}
	report, err := newDriver(opener, sinks, nil, logger).Run(context.Background(), specs)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if sinks.sink.fps != 24 || report.FrameRate != 24 {
		t.Fatalf("expected output at 24 fps, got sink %v report %v", sinks.sink.fps, report.FrameRate)
	}
	if !strings.Contains(buf.String(), "alert=frame_rate_mismatch") {
		t.Fatalf("expected frame rate mismatch warning, got %q", buf.String())
	}
}

func TestRunRejectsUnknownFirstFrameRate(t *testing.T) {
	specs, opener := fixture(t)
	opener.clips[specs[0].Source].meta.FrameRate = 0
	sinks := &fakeSinkOpener{}

	_, err := newDriver(opener, sinks, nil, nil).Run(context.Background(), specs)
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if sinks.created != 0 {
		t.Fatal("sink must not be created without a frame rate")
	}
}

func TestRunRequiresEightClips(t *testing.T) {
	specs, opener := fixture(t)
	_, err := newDriver(opener, &fakeSinkOpener{}, nil, nil).Run(context.Background(), specs[:7])
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if len(opener.opened) != 0 {
		t.Fatal("no source should be opened for a bad clip list")
	}
}

func TestRunFailsOnEmptyClip(t *testing.T) {
	specs, opener := fixture(t)
	opener.clips[specs[2].Source].frames = nil
	sinks := &fakeSinkOpener{}

	report, err := newDriver(opener, sinks, nil, nil).Run(context.Background(), specs)
	if !errors.Is(err, services.ErrEmptySequence) {
		t.Fatalf("expected empty sequence error, got %v", err)
	}
	if len(opener.opened) != 3 {
		t.Fatalf("expected decoding to stop at clip 2, opened %d", len(opener.opened))
	}
	for _, src := range opener.opened {
		if !src.closed {
			t.Fatal("expected opened sources to be closed")
		}
	}
	if sinks.created != 0 {
		t.Fatal("sink must not be created after a decode failure")
	}
	if len(report.Clips) != 2 {
		t.Fatalf("expected reports for the two decoded clips, got %d", len(report.Clips))
	}
}

func TestRunClassifiesSourceFailures(t *testing.T) {
	specs, opener := fixture(t)
	delete(opener.clips, specs[4].Source)

	_, err := newDriver(opener, &fakeSinkOpener{}, nil, nil).Run(context.Background(), specs)
	if !errors.Is(err, services.ErrSourceUnavailable) {
		t.Fatalf("expected source unavailable, got %v", err)
	}

	specs, opener = fixture(t)
	opener.clips[specs[1].Source].readErr = errors.New("corrupt stream")
	_, err = newDriver(opener, &fakeSinkOpener{}, nil, nil).Run(context.Background(), specs)
	if !errors.Is(err, services.ErrSourceUnavailable) || !strings.Contains(err.Error(), "corrupt stream") {
		t.Fatalf("expected wrapped read failure, got %v", err)
	}
	if !opener.opened[1].closed {
		t.Fatal("failing source must be closed")
	}
}

func TestRunKeepsClassifiedSourceErrors(t *testing.T) {
	specs, opener := fixture(t)
	opener.clips[specs[0].Source].openErr = services.Wrap(services.ErrValidation, "decode", "open", "bad", nil)

	_, err := newDriver(opener, &fakeSinkOpener{}, nil, nil).Run(context.Background(), specs)
	if !errors.Is(err, services.ErrValidation) || errors.Is(err, services.ErrSourceUnavailable) {
		t.Fatalf("expected the original classification, got %v", err)
	}
}

func TestRunSinkFailures(t *testing.T) {
	specs, opener := fixture(t)
	_, err := newDriver(opener, &fakeSinkOpener{createErr: errors.New("read-only filesystem")}, nil, nil).Run(context.Background(), specs)
	if !errors.Is(err, services.ErrSinkUnavailable) {
		t.Fatalf("expected sink unavailable on create, got %v", err)
	}

	specs, opener = fixture(t)
	sink := &fakeSink{writeErr: errors.New("broken pipe"), failAt: 7}
	report, err := newDriver(opener, &fakeSinkOpener{sink: sink}, nil, nil).Run(context.Background(), specs)
	if !errors.Is(err, services.ErrSinkUnavailable) {
		t.Fatalf("expected sink unavailable on write, got %v", err)
	}
	if !sink.aborted || sink.closed {
		t.Fatalf("expected abort without close, aborted=%v closed=%v", sink.aborted, sink.closed)
	}
	if report.FramesWritten != 7 {
		t.Fatalf("expected 7 frames before failure, got %d", report.FramesWritten)
	}
}

func TestRunStopsOnCancellation(t *testing.T) {
	specs, opener := fixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sink := &fakeSink{onWrite: func(n int) {
		if n == 5 {
			cancel()
		}
	}}

	report, err := newDriver(opener, &fakeSinkOpener{sink: sink}, nil, nil).Run(ctx, specs)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if !sink.aborted {
		t.Fatal("expected sink abort on cancellation")
	}
	if report.FramesWritten != 5 {
		t.Fatalf("expected 5 frames before cancellation, got %d", report.FramesWritten)
	}
}

func TestRunLogsProgressAtStride(t *testing.T) {
	specs, opener := fixture(t)
	first := opener.clips[specs[0].Source]
	first.frames = testsupport.NumberedSequence(t, 50, 4, 2, 0)
	first.meta.FrameCount = 50

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	report, err := newDriver(opener, &fakeSinkOpener{}, nil, logger).Run(context.Background(), specs)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if report.Target != 250 {
		t.Fatalf("expected target 250, got %d", report.Target)
	}
	if got := strings.Count(buf.String(), "composition progress"); got != 4 {
		t.Fatalf("expected 4 progress lines (0, 100, 200, 249), got %d", got)
	}
	if !strings.Contains(buf.String(), "duration_seconds=8.33") {
		t.Fatalf("expected final duration line, got %q", buf.String())
	}
}

func TestReadCapUnknownFrameCount(t *testing.T) {
	tests := []struct {
		name string
		meta frame.Metadata
		want int
	}{
		{"known count under window", frame.Metadata{FrameRate: 30, FrameCount: 90}, 90},
		{"known count over window", frame.Metadata{FrameRate: 30, FrameCount: 900}, 450},
		{"unknown count uses window", frame.Metadata{FrameRate: 25, FrameCount: 0}, 375},
		{"unknown rate uses count", frame.Metadata{FrameRate: 0, FrameCount: 12}, 12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ReadCap(tt.meta, 15); got != tt.want {
				t.Fatalf("ReadCap = %d, want %d", got, tt.want)
			}
		})
	}
}
