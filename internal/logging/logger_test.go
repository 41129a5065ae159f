package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/backmassage/treeconv/internal/config"
	"github.com/backmassage/treeconv/internal/term"
)

func TestNewLogger_NoFile(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.ColorMode = config.ColorNever
	l, err := NewLogger(&cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()
	l.Info("test message")
}

func TestNewLogger_WithFile(t *testing.T) {
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.ColorMode = config.ColorNever
	cfg.LogFile = filepath.Join(dir, "logs", "treeconv.log")
	l, err := NewLogger(&cfg)
	if err != nil {
		t.Fatal(err)
	}
	l.Info("to file")
	l.Command("ffmpeg -i a.mkv")
	if err := l.Close(); err != nil {
		t.Fatal(err)
	}
	b, _ := os.ReadFile(cfg.LogFile)
	if !bytes.Contains(b, []byte("[INFO] to file")) {
		t.Errorf("log file missing INFO line: %s", string(b))
	}
	if !bytes.Contains(b, []byte("[CMD] ffmpeg -i a.mkv")) {
		t.Errorf("log file missing CMD line: %s", string(b))
	}
}

func TestLogger_LevelsAndRouting(t *testing.T) {
	var out, errOut bytes.Buffer
	l := &Logger{out: &out, errOut: &errOut}

	l.Info("hello %d", 1)
	l.Warn("careful")
	l.Error("broken")
	l.Debug("hidden")

	if !strings.Contains(out.String(), "[INFO] hello 1") {
		t.Errorf("stdout missing info line: %q", out.String())
	}
	if !strings.Contains(out.String(), "[WARN] careful") {
		t.Errorf("stdout missing warn line: %q", out.String())
	}
	if strings.Contains(out.String(), "broken") {
		t.Error("error line should go to stderr only")
	}
	if !strings.Contains(errOut.String(), "[ERROR] broken") {
		t.Errorf("stderr missing error line: %q", errOut.String())
	}
	if strings.Contains(out.String(), "hidden") {
		t.Error("debug line written while not verbose")
	}

	l.verbose = true
	l.Debug("shown")
	if !strings.Contains(out.String(), "[DEBUG] shown") {
		t.Errorf("verbose debug line missing: %q", out.String())
	}
}

func TestLogger_ColoredConsolePlainFile(t *testing.T) {
	var out bytes.Buffer
	file, err := os.Create(filepath.Join(t.TempDir(), "run.log"))
	if err != nil {
		t.Fatal(err)
	}
	l := &Logger{out: &out, errOut: &out, file: file, pal: term.NewPalette(config.ColorAlways)}
	l.Warn("careful")
	if err := l.Close(); err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(out.String(), "\033[") {
		t.Errorf("console line not colored: %q", out.String())
	}
	b, _ := os.ReadFile(file.Name())
	if strings.Contains(string(b), "\033[") || !strings.Contains(string(b), "[WARN] careful") {
		t.Errorf("file line should be plain: %q", string(b))
	}
}
