package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"

	"videogrid/internal/frame"
	"videogrid/internal/services"
)

// Source is one opened clip. Frames are read once through ReadFrames.
type Source struct {
	runner *Runner
	path   string
	meta   frame.Metadata

	mu     sync.Mutex
	read   bool
	closed bool
	cmd    *exec.Cmd
}

// Open probes path and returns its metadata-backed Source. Missing,
// unreadable and video-less files fail with services.ErrSourceUnavailable.
func (r *Runner) Open(ctx context.Context, path string) (*Source, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, services.Wrap(services.ErrSourceUnavailable, "decode", "open", "empty path", nil)
	}
	if _, err := os.Stat(path); err != nil {
		return nil, services.Wrap(services.ErrSourceUnavailable, "decode", "open", path, err)
	}
	result, err := probe(ctx, r.ffprobe, path)
	if err != nil {
		return nil, services.Wrap(services.ErrSourceUnavailable, "decode", "probe", path, err)
	}
	meta, err := MetadataFromProbe(result)
	if err != nil {
		return nil, services.Wrap(services.ErrSourceUnavailable, "decode", "probe", path, err)
	}
	return &Source{runner: r, path: path, meta: meta}, nil
}

// Path returns the clip location.
func (s *Source) Path() string { return s.path }

// Metadata returns the probed clip metadata.
func (s *Source) Metadata() frame.Metadata { return s.meta }

// ReadFrames decodes up to maxFrames frames. Fewer frames are returned when
// the stream ends first; that is not an error. A Source can be read once.
func (s *Source) ReadFrames(ctx context.Context, maxFrames int) (frame.Sequence, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, services.Wrap(services.ErrValidation, "decode", "read", "source closed", nil)
	}
	if s.read {
		s.mu.Unlock()
		return nil, services.Wrap(services.ErrValidation, "decode", "read", "source already consumed", nil)
	}
	s.read = true
	s.mu.Unlock()

	if maxFrames <= 0 {
		return frame.Sequence{}, nil
	}

	cmd := s.runner.command(ctx, s.runner.DecodeArgs(s.path, maxFrames))
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "decode", "stdout pipe", s.path, err)
	}
	if err := cmd.Start(); err != nil {
		return nil, services.Wrap(services.ErrSourceUnavailable, "decode", "start ffmpeg", s.path, err)
	}
	s.mu.Lock()
	s.cmd = cmd
	s.mu.Unlock()

	frames, readErr := ReadRawFrames(stdout, s.meta.Width, s.meta.Height, maxFrames)
	if readErr != nil {
		_ = cmd.Process.Kill()
	} else {
		// Drain anything ffmpeg still emits so it can exit cleanly.
		_, _ = io.Copy(io.Discard, stdout)
	}
	waitErr := cmd.Wait()

	s.mu.Lock()
	s.cmd = nil
	s.mu.Unlock()

	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if readErr != nil {
		return nil, services.Wrap(services.ErrExternalTool, "decode", "read frames", s.path, readErr)
	}
	if waitErr != nil && len(frames) == 0 {
		detail := strings.TrimSpace(stderr.String())
		return nil, services.Wrap(services.ErrSourceUnavailable, "decode", "ffmpeg", detail, waitErr)
	}
	return frames, nil
}

// Close stops a running decoder. It is safe to call more than once.
func (s *Source) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if s.cmd != nil && s.cmd.Process != nil {
		if err := s.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
			return fmt.Errorf("stop decoder: %w", err)
		}
	}
	return nil
}
