// Package config holds runtime configuration: defaults, the optional TOML
// policy file, CLI flag binding, and validation. The defaults convert .mkv
// and .avi files, drop png/mjpeg streams and copy h264 video.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// Config holds all runtime settings. It is populated by [DefaultConfig],
// then by [LoadFile] and the CLI flags, and is read-only once the run starts.
type Config struct {
	// Paths.
	InputDir     string
	OutputDir    string
	AppendToName string // Inserted between the stem and the extension.
	MaxDepth     int    // Default: 0 (input folder's own files only).
	Mirror       bool   // Replicate input subdirectories under OutputDir.

	// Stream policy.
	AllowedSuffixes    []string // Container extensions without dot. Default: mkv, avi.
	ExcludedCodecs     []string // Never mapped. Default: png, mjpeg.
	AllowedVideoCodecs []string // Stream 0 is copied when its codec is listed. Default: h264.
	TargetVideoCodec   string   // Default: "libx264".
	TargetAudioCodec   string   // Default: "aac".

	// External tools.
	FFmpegBin  string
	FFprobeBin string

	// Behavior flags.
	DryRun    bool
	Overwrite bool // Pass -y instead of -n to ffmpeg.
	Jobs      int  // Default: 1 (sequential).

	// Display and logging.
	Verbose     bool
	ColorMode   ColorMode
	LogFile     string
	MetricsFile string // Prometheus textfile written at the end of the run.
	ConfigFile  string
	CheckOnly   bool
}

// DefaultConfig returns a Config with the stock policy lists and the
// sequential, never-overwrite behavior.
func DefaultConfig() Config {
	return Config{
		MaxDepth:           0,
		AllowedSuffixes:    []string{"mkv", "avi"},
		ExcludedCodecs:     []string{"png", "mjpeg"},
		AllowedVideoCodecs: []string{"h264"},
		TargetVideoCodec:   "libx264",
		TargetAudioCodec:   "aac",
		FFmpegBin:          "ffmpeg",
		FFprobeBin:         "ffprobe",
		Jobs:               1,
		ColorMode:          ColorAuto,
	}
}

// NormalizeDirArg strips trailing separators from a directory path.
// The filesystem root is returned unchanged so we don't produce an empty string.
func NormalizeDirArg(path string) string {
	sep := string(filepath.Separator)
	if path == sep || path == "/" {
		return path
	}
	trimmed := strings.TrimRight(path, "/"+sep)
	if trimmed == "" && path != "" {
		return path[:1]
	}
	return trimmed
}

// Validate checks numeric bounds and required values. When not in CheckOnly
// mode, it also requires that both folder paths are set.
func (c *Config) Validate() error {
	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return fmt.Errorf("invalid color mode %q (use 'auto', 'always' or 'never')", c.ColorMode)
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("depth must not be negative (got %d)", c.MaxDepth)
	}
	if c.Jobs < 1 {
		return fmt.Errorf("jobs must be at least 1 (got %d)", c.Jobs)
	}
	if len(c.AllowedSuffixes) == 0 {
		return errors.New("at least one allowed suffix is required")
	}
	for _, s := range c.AllowedSuffixes {
		if s == "" || strings.HasPrefix(s, ".") {
			return fmt.Errorf("invalid suffix %q (use the bare extension, e.g. mkv)", s)
		}
	}
	if strings.TrimSpace(c.TargetVideoCodec) == "" || strings.TrimSpace(c.TargetAudioCodec) == "" {
		return errors.New("target video and audio codecs must not be empty")
	}
	if strings.TrimSpace(c.FFmpegBin) == "" || strings.TrimSpace(c.FFprobeBin) == "" {
		return errors.New("ffmpeg and ffprobe binaries must not be empty")
	}

	if c.CheckOnly {
		return nil
	}
	if c.InputDir == "" {
		return errors.New("input folder is required (-i/--input-folder)")
	}
	if c.OutputDir == "" {
		return errors.New("output folder is required (-o/--output-folder)")
	}
	return nil
}

// ValidatePaths ensures the resolved output directory is not inside (or equal
// to) the resolved input directory, so the walk never discovers its own
// output files. With Mirror, the input must not be inside the output either:
// a mirrored path such as <out>/in/x.mkv for <in>/in/x.mkv could then be a
// source file. Both arguments must be absolute, symlink-resolved paths.
func (c *Config) ValidatePaths(inputAbs, outputAbs string) error {
	if within(outputAbs, inputAbs) {
		return errors.New("output folder must not be inside input folder")
	}
	if c.Mirror && within(inputAbs, outputAbs) {
		return errors.New("input folder must not be inside output folder when mirroring")
	}
	return nil
}

// within reports whether path equals dir or lies below it.
func within(path, dir string) bool {
	prefix := dir
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	return path == dir || strings.HasPrefix(path, prefix)
}
