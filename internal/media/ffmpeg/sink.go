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

	"videogrid/internal/frame"
	"videogrid/internal/services"
)

// Sink feeds rgb24 frames to an ffmpeg encoder writing one output file.
type Sink struct {
	path   string
	width  int
	height int
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stderr *bytes.Buffer
	frames int
	done   bool
}

// Create starts an encoder for a width×height stream at fps.
func (r *Runner) Create(ctx context.Context, path string, width, height int, fps float64) (*Sink, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, services.Wrap(services.ErrSinkUnavailable, "encode", "open", "empty output path", nil)
	}
	if width <= 0 || height <= 0 {
		return nil, services.Wrap(services.ErrSinkUnavailable, "encode", "open",
			fmt.Sprintf("invalid geometry %dx%d", width, height), nil)
	}
	if fps <= 0 {
		return nil, services.Wrap(services.ErrSinkUnavailable, "encode", "open",
			fmt.Sprintf("invalid frame rate %v", fps), nil)
	}
	// Unwritable destinations fail here, before ffmpeg starts.
	probeFile, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, services.Wrap(services.ErrSinkUnavailable, "encode", "open", path, err)
	}
	_ = probeFile.Close()

	cmd := r.command(ctx, r.EncodeArgs(path, width, height, fps))
	stderr := &bytes.Buffer{}
	cmd.Stderr = stderr
	stdin, err := cmd.StdinPipe()
	if err != nil {
		_ = os.Remove(path)
		return nil, services.Wrap(services.ErrSinkUnavailable, "encode", "stdin pipe", path, err)
	}
	if err := cmd.Start(); err != nil {
		_ = os.Remove(path)
		return nil, services.Wrap(services.ErrSinkUnavailable, "encode", "start ffmpeg", path, err)
	}
	return &Sink{path: path, width: width, height: height, cmd: cmd, stdin: stdin, stderr: stderr}, nil
}

// Path returns the output location.
func (s *Sink) Path() string { return s.path }

// Frames returns how many frames were written.
func (s *Sink) Frames() int { return s.frames }

// WriteFrame appends one frame to the stream.
func (s *Sink) WriteFrame(f *frame.RawFrame) error {
	if s.done {
		return services.Wrap(services.ErrSinkUnavailable, "encode", "write", "sink closed", nil)
	}
	if f == nil || f.Width != s.width || f.Height != s.height {
		return services.Wrap(services.ErrValidation, "encode", "write",
			fmt.Sprintf("frame does not match %dx%d output", s.width, s.height), nil)
	}
	if err := f.Validate(); err != nil {
		return services.Wrap(services.ErrValidation, "encode", "write", "", err)
	}
	if _, err := s.stdin.Write(f.Pix); err != nil {
		return services.Wrap(services.ErrSinkUnavailable, "encode", "write", s.stderrDetail(), err)
	}
	s.frames++
	return nil
}

// Close flushes the encoder and waits for the file to be finalized.
func (s *Sink) Close() error {
	if s.done {
		return nil
	}
	s.done = true
	closeErr := s.stdin.Close()
	waitErr := s.cmd.Wait()
	if waitErr != nil {
		return services.Wrap(services.ErrSinkUnavailable, "encode", "finalize", s.stderrDetail(), waitErr)
	}
	if closeErr != nil && !errors.Is(closeErr, os.ErrClosed) {
		return services.Wrap(services.ErrSinkUnavailable, "encode", "close stdin", s.path, closeErr)
	}
	return nil
}

// Abort kills the encoder and removes the partial output.
func (s *Sink) Abort() {
	if !s.done {
		s.done = true
		_ = s.stdin.Close()
		if s.cmd.Process != nil {
			_ = s.cmd.Process.Kill()
		}
		_ = s.cmd.Wait()
	}
	_ = os.Remove(s.path)
}

func (s *Sink) stderrDetail() string {
	return strings.TrimSpace(s.stderr.String())
}
