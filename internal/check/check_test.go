package check

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/backmassage/treeconv/internal/config"
)

type recordLogger struct {
	lines []string
}

func (r *recordLogger) add(level, format string, args ...interface{}) {
	r.lines = append(r.lines, level+" "+fmt.Sprintf(format, args...))
}
func (r *recordLogger) Info(f string, a ...interface{})    { r.add("INFO", f, a...) }
func (r *recordLogger) Success(f string, a ...interface{}) { r.add("SUCCESS", f, a...) }
func (r *recordLogger) Warn(f string, a ...interface{})    { r.add("WARN", f, a...) }
func (r *recordLogger) Error(f string, a ...interface{})   { r.add("ERROR", f, a...) }

func (r *recordLogger) has(prefix string) bool {
	for _, l := range r.lines {
		if strings.HasPrefix(l, prefix) {
			return true
		}
	}
	return false
}

// stubTool writes an executable that answers -version and -encoders the
// way ffmpeg does.
func stubTool(t *testing.T, dir, name string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script stubs need a POSIX shell")
	}
	script := `#!/bin/sh
case "$1" in
-version) echo "` + name + ` version 7.1 Copyright (c) 2000-2024"; echo "built with gcc" ;;
-hide_banner)
  echo "Encoders:"
  echo " V..... = Video"
  echo " A..... = Audio"
  echo " ------"
  echo " V....D libx264              libx264 H.264 / AVC"
  echo " A....D aac                  AAC (Advanced Audio Coding)"
  ;;
esac
`
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func stubCfg(t *testing.T) *config.Config {
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.FFmpegBin = stubTool(t, dir, "ffmpeg")
	cfg.FFprobeBin = stubTool(t, dir, "ffprobe")
	return &cfg
}

func TestCheckDeps(t *testing.T) {
	cfg := stubCfg(t)
	if err := CheckDeps(cfg); err != nil {
		t.Fatalf("CheckDeps: %v", err)
	}

	missing := filepath.Join(t.TempDir(), "missing")

	c := *cfg
	c.FFmpegBin = missing
	if err := CheckDeps(&c); !errors.Is(err, ErrFfmpegNotFound) {
		t.Errorf("got %v, want ErrFfmpegNotFound", err)
	}

	c = *cfg
	c.FFprobeBin = missing
	if err := CheckDeps(&c); !errors.Is(err, ErrFfprobeNotFound) {
		t.Errorf("got %v, want ErrFfprobeNotFound", err)
	}
}

func TestCheckOutputDir(t *testing.T) {
	dir := t.TempDir()
	if err := CheckOutputDir(dir); err != nil {
		t.Errorf("writable dir: %v", err)
	}

	if err := CheckOutputDir(filepath.Join(dir, "nope")); !errors.Is(err, ErrOutputMissing) {
		t.Errorf("missing dir: got %v, want ErrOutputMissing", err)
	}

	file := filepath.Join(dir, "file")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := CheckOutputDir(file); !errors.Is(err, ErrOutputNotDir) {
		t.Errorf("file: got %v, want ErrOutputNotDir", err)
	}
}

func TestCheckOutputDir_ReadOnly(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root bypasses permission bits")
	}
	dir := filepath.Join(t.TempDir(), "ro")
	if err := os.Mkdir(dir, 0o555); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chmod(dir, 0o755) })

	if err := CheckOutputDir(dir); !errors.Is(err, ErrOutputNotWritable) {
		t.Errorf("got %v, want ErrOutputNotWritable", err)
	}
}

func TestListEncoders(t *testing.T) {
	cfg := stubCfg(t)
	enc, err := listEncoders(cfg.FFmpegBin)
	if err != nil {
		t.Fatal(err)
	}
	if !enc["libx264"] || !enc["aac"] {
		t.Errorf("encoders = %v, want libx264 and aac", enc)
	}
	if enc["="] {
		t.Error("legend lines must not be parsed as encoders")
	}
}

func TestRunCheck(t *testing.T) {
	cfg := stubCfg(t)
	cfg.OutputDir = t.TempDir()
	log := &recordLogger{}

	if !RunCheck(cfg, log) {
		t.Fatalf("RunCheck failed: %v", log.lines)
	}
	if !log.has("SUCCESS ffmpeg: ffmpeg version 7.1") {
		t.Errorf("missing ffmpeg version line: %v", log.lines)
	}
	if !log.has("SUCCESS Encoder libx264 available") {
		t.Errorf("missing encoder line: %v", log.lines)
	}
}

func TestRunCheck_MissingEncoder(t *testing.T) {
	cfg := stubCfg(t)
	cfg.TargetVideoCodec = "libsvtav1"
	log := &recordLogger{}

	if RunCheck(cfg, log) {
		t.Error("RunCheck should fail when the target encoder is missing")
	}
	if !log.has("ERROR Encoder libsvtav1 not available") {
		t.Errorf("missing error line: %v", log.lines)
	}
}
