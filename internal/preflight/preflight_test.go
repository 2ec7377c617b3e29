package preflight

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"videogrid/internal/config"
	"videogrid/internal/testsupport"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	result := CheckDirectoryAccess("test", t.TempDir())
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if !strings.Contains(result.Detail, "does not exist") {
		t.Fatalf("unexpected detail %q", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if result := CheckDirectoryAccess("test", f); result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckFileReadable(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, "clip.mp4")
	if err := os.WriteFile(f, []byte("data"), 0o644); err != nil {
		t.Fatal(err)
	}

	if result := CheckFileReadable("clip", f); !result.Passed || !strings.Contains(result.Detail, "4 bytes") {
		t.Fatalf("expected pass, got %+v", result)
	}
	if result := CheckFileReadable("clip", dir); result.Passed {
		t.Fatal("expected failure for directory")
	}
	if result := CheckFileReadable("clip", filepath.Join(dir, "missing.mp4")); result.Passed {
		t.Fatal("expected failure for missing file")
	}
	if result := CheckFileReadable("clip", " "); result.Passed || result.Detail != "path not configured" {
		t.Fatalf("unexpected result for blank path: %+v", result)
	}
}

func TestCheckBinary(t *testing.T) {
	orig := lookPath
	t.Cleanup(func() { lookPath = orig })
	lookPath = func(file string) (string, error) {
		if file == "ffmpeg" {
			return "/usr/bin/ffmpeg", nil
		}
		return "", errors.New("not found")
	}

	if result := CheckBinary("FFmpeg", "ffmpeg"); !result.Passed || result.Detail != "/usr/bin/ffmpeg" {
		t.Fatalf("expected resolved ffmpeg, got %+v", result)
	}
	if result := CheckBinary("FFprobe", "ffprobe"); result.Passed {
		t.Fatal("expected missing ffprobe to fail")
	}
	if result := CheckBinary("Empty", ""); result.Passed || result.Detail != "command not configured" {
		t.Fatalf("unexpected result for empty command: %+v", result)
	}
}

func TestRunAllCoversBinariesOutputAndClips(t *testing.T) {
	orig := lookPath
	t.Cleanup(func() { lookPath = orig })
	lookPath = func(file string) (string, error) { return "/bin/" + file, nil }

	dir := t.TempDir()
	cfg := config.Default()
	cfg.Output.Path = filepath.Join(dir, "grid.mp4")
	present := filepath.Join(dir, "a.mp4")
	if err := os.WriteFile(present, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg.Clips = []config.Clip{
		{Source: present, Label: "A"},
		{Source: filepath.Join(dir, "b.mp4"), Label: "B"},
	}

	results := RunAll(context.Background(), &cfg)
	if len(results) != 5 {
		t.Fatalf("expected 5 results, got %d: %+v", len(results), results)
	}
	failed := Failed(results)
	if len(failed) != 1 || failed[0].Name != "Clip 2 (B)" {
		t.Fatalf("expected only clip 2 to fail, got %+v", failed)
	}
	if RunAll(context.Background(), nil) != nil {
		t.Fatal("expected nil results for nil config")
	}
}

func TestRunAllPassesWithStubbedToolsAndClips(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithClips(), testsupport.WithStubbedBinaries())

	results := RunAll(context.Background(), cfg)
	if len(results) != 11 {
		t.Fatalf("expected 11 results, got %d: %+v", len(results), results)
	}
	if failed := Failed(results); len(failed) != 0 {
		t.Fatalf("expected all checks to pass, got %+v", failed)
	}
	if results[3].Name != "Clip 1 (CLIP1)" || !strings.Contains(results[3].Detail, "16 bytes") {
		t.Fatalf("unexpected clip result %+v", results[3])
	}
}
