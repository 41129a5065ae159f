// Package check provides system diagnostics (--check mode) and pre-pipeline
// validation of the external tools and the output folder.
package check

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/backmassage/treeconv/internal/config"
)

// Sentinel errors returned by CheckDeps and CheckOutputDir.
var (
	ErrFfmpegNotFound    = errors.New("ffmpeg not found")
	ErrFfprobeNotFound   = errors.New("ffprobe not found")
	ErrOutputMissing     = errors.New("output folder does not exist")
	ErrOutputNotDir      = errors.New("output path is not a directory")
	ErrOutputNotWritable = errors.New("output folder is not writable")
)

// Logger is the minimal logging interface needed by RunCheck.
// Defined here (rather than importing the logging package) so that check
// remains dependency-light and testable with a mock logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
}

// RunCheck runs the interactive --check flow: it reports the ffmpeg and
// ffprobe versions, whether the configured target encoders are available,
// and, when an output folder was given, whether it is writable. Returns
// false if anything required is missing.
func RunCheck(cfg *config.Config, log Logger) bool {
	log.Info("=== System Check ===")

	ok := true
	if !reportVersion(log, "ffmpeg", cfg.FFmpegBin) {
		ok = false
	}
	if !reportVersion(log, "ffprobe", cfg.FFprobeBin) {
		ok = false
	}
	if ok {
		encoders, err := listEncoders(cfg.FFmpegBin)
		if err != nil {
			log.Warn("Could not list encoders: %v", err)
			ok = false
		} else {
			for _, codec := range []string{cfg.TargetVideoCodec, cfg.TargetAudioCodec} {
				if encoders[codec] {
					log.Success("Encoder %s available", codec)
				} else {
					log.Error("Encoder %s not available in %s", codec, cfg.FFmpegBin)
					ok = false
				}
			}
		}
	}

	if cfg.OutputDir != "" {
		if err := CheckOutputDir(cfg.OutputDir); err != nil {
			log.Error("%v", err)
			ok = false
		} else {
			log.Success("Output folder writable: %s", cfg.OutputDir)
		}
	}
	return ok
}

// reportVersion checks that bin resolves and logs the first line of its
// -version output.
func reportVersion(log Logger, name, bin string) bool {
	if _, err := exec.LookPath(bin); err != nil {
		log.Error("%s not found (%s)", name, bin)
		return false
	}
	out, err := exec.Command(bin, "-version").Output()
	if err != nil {
		log.Warn("%s found but -version failed: %v", name, err)
		return false
	}
	firstLine, _, _ := strings.Cut(strings.TrimSpace(string(out)), "\n")
	log.Success("%s: %s", name, firstLine)
	return true
}

// listEncoders parses `ffmpeg -hide_banner -encoders`. Encoder lines look
// like " V....D libx264   libx264 H.264 ..."; the name is the second field.
func listEncoders(bin string) (map[string]bool, error) {
	out, err := exec.Command(bin, "-hide_banner", "-encoders").Output()
	if err != nil {
		return nil, err
	}
	encoders := make(map[string]bool)
	pastHeader := false
	for _, line := range strings.Split(string(out), "\n") {
		fields := strings.Fields(line)
		// The capability legend ends with a " ------" separator.
		if len(fields) == 1 && strings.HasPrefix(fields[0], "---") {
			pastHeader = true
			continue
		}
		if pastHeader && len(fields) >= 2 {
			encoders[fields[1]] = true
		}
	}
	return encoders, nil
}

// CheckDeps is the pre-pipeline validation: it verifies that the configured
// ffmpeg and ffprobe binaries resolve. Returns a sentinel error on failure.
func CheckDeps(cfg *config.Config) error {
	if _, err := exec.LookPath(cfg.FFmpegBin); err != nil {
		return fmt.Errorf("%w: %s", ErrFfmpegNotFound, cfg.FFmpegBin)
	}
	if _, err := exec.LookPath(cfg.FFprobeBin); err != nil {
		return fmt.Errorf("%w: %s", ErrFfprobeNotFound, cfg.FFprobeBin)
	}
	return nil
}

// CheckOutputDir verifies that dir exists, is a directory, and is writable
// by the current user. It never creates the folder.
func CheckOutputDir(dir string) error {
	fi, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrOutputMissing, dir)
		}
		return fmt.Errorf("stat output folder: %w", err)
	}
	if !fi.IsDir() {
		return fmt.Errorf("%w: %s", ErrOutputNotDir, dir)
	}
	if err := unix.Access(dir, unix.W_OK|unix.X_OK); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrOutputNotWritable, dir, err)
	}
	return nil
}
