package preflight

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"golang.org/x/sys/unix"

	"videogrid/internal/config"
)

var lookPath = exec.LookPath

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckFileReadable verifies that path is a regular file the process can read.
func CheckFileReadable(name, path string) Result {
	if strings.TrimSpace(path) == "" {
		return Result{Name: name, Detail: "path not configured"}
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: not readable: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%d bytes)", path, info.Size())}
}

// CheckBinary resolves command on PATH (or as a path) and reports where it lives.
func CheckBinary(name, command string) Result {
	cmd := strings.TrimSpace(command)
	if cmd == "" {
		return Result{Name: name, Detail: "command not configured"}
	}
	resolved, err := lookPath(cmd)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("binary %q not found", cmd)}
	}
	return Result{Name: name, Passed: true, Detail: resolved}
}

// CheckSystemDeps evaluates the external binaries the pipeline executes.
func CheckSystemDeps(_ context.Context, cfg *config.Config) []Result {
	return []Result{
		CheckBinary("FFmpeg", cfg.FFmpeg.FFmpegBinary),
		CheckBinary("FFprobe", cfg.FFmpeg.FFprobeBinary),
	}
}
