package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Stub ffprobe: every clip is a 4x2, 10 fps, three-frame video.
const stubFFprobe = `#!/bin/sh
cat <<'JSON'
{"streams":[{"index":0,"codec_type":"video","codec_name":"h264","width":4,"height":2,"r_frame_rate":"10/1","avg_frame_rate":"10/1","nb_frames":"3"}],"format":{"duration":"0.3"}}
JSON
`

// Stub ffmpeg: decoding emits three black 4x2 rgb24 frames; encoding copies
// stdin into the .mp4 output argument and, like ffmpeg, refuses to replace an
// existing file unless -y is given.
const stubFFmpeg = `#!/bin/sh
prev=""
mode=decode
out=""
overwrite=0
for a in "$@"; do
  if [ "$prev" = "-i" ] && [ "$a" = "pipe:" ]; then mode=encode; fi
  case "$a" in *.mp4) out="$a";; -y) overwrite=1;; esac
  prev="$a"
done
if [ "$mode" = decode ]; then
  head -c 72 /dev/zero
  exit 0
fi
if [ -e "$out" ] && [ "$overwrite" = 0 ]; then
  echo "File '$out' already exists. Exiting." >&2
  exit 1
fi
cat > "$out"
`

type cliTestEnv struct {
	baseDir    string
	binDir     string
	configPath string
	clipsDir   string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	chdir(t, base)

	binDir := filepath.Join(base, "bin")
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		t.Fatalf("mkdir bin: %v", err)
	}
	writeExecutable(t, filepath.Join(binDir, "ffprobe"), stubFFprobe)
	writeExecutable(t, filepath.Join(binDir, "ffmpeg"), stubFFmpeg)
	t.Setenv("PATH", binDir+string(os.PathListSeparator)+os.Getenv("PATH"))

	clipsDir := filepath.Join(base, "clips")
	if err := os.MkdirAll(clipsDir, 0o755); err != nil {
		t.Fatalf("mkdir clips: %v", err)
	}
	for i := 1; i <= 8; i++ {
		path := filepath.Join(clipsDir, "clip"+string(rune('0'+i))+".mp4")
		if err := os.WriteFile(path, []byte("not really a video"), 0o644); err != nil {
			t.Fatalf("write clip: %v", err)
		}
	}

	return &cliTestEnv{
		baseDir:    base,
		binDir:     binDir,
		configPath: filepath.Join(base, "videogrid.toml"),
		clipsDir:   clipsDir,
	}
}

func (e *cliTestEnv) clipArgs() []string {
	args := make([]string, 0, 8)
	for i := 1; i <= 8; i++ {
		args = append(args, filepath.Join(e.clipsDir, "clip"+string(rune('0'+i))+".mp4"))
	}
	return args
}

func writeExecutable(t *testing.T, path, script string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	if abs, err := filepath.Abs(dir); err == nil {
		t.Setenv("PWD", abs)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatal(err)
		}
	})
}
