// Command treeconv converts every recognized video file in a folder tree
// with ffmpeg, dropping image streams and re-encoding the primary video only
// when its codec is not already acceptable.
//
// It parses flags, validates configuration and paths, and either runs
// system diagnostics (--check) or the conversion pipeline.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/backmassage/treeconv/internal/check"
	"github.com/backmassage/treeconv/internal/config"
	"github.com/backmassage/treeconv/internal/logging"
	"github.com/backmassage/treeconv/internal/pipeline"
)

// version and commit are injected at build time via -ldflags.
var (
	version = "1.0.0"
	commit  = "unknown"
)

// errReported marks a failure that has already been logged.
var errReported = errors.New("failed")

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the root command with args and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	cmd := newRootCommand(stdout)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(stderr, "treeconv: %v\n", err)
		}
		return 1
	}
	return 0
}

func newRootCommand(stdout io.Writer) *cobra.Command {
	cfg := config.DefaultConfig()
	var flags *config.Flags

	cmd := &cobra.Command{
		Use:   "treeconv -i <input-folder> -o <output-folder> [flags]",
		Short: "Convert a tree of video files with ffmpeg",
		Long: `treeconv walks the input folder, probes every .mkv/.avi file with ffprobe
and converts it into the output folder with ffmpeg. Image streams (png,
mjpeg) are dropped, h264 video is copied, other video is re-encoded with
libx264, audio is converted to aac and subtitles are copied.

By default only the input folder's own files are processed; use --depth to
descend into subfolders.`,
		Version:       version + " (" + commit + ")",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(*cobra.Command, []string) error {
			if err := flags.Apply(&cfg); err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return execute(&cfg, stdout)
		},
	}
	flags = config.BindFlags(cmd.Flags(), &cfg)
	return cmd
}

// execute runs once flags are parsed and validated.
func execute(cfg *config.Config, stdout io.Writer) error {
	log, err := logging.NewLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Close()

	// From here on all output goes through log.
	if cfg.CheckOnly {
		if !check.RunCheck(cfg, log) {
			return errReported
		}
		return nil
	}

	// The output folder must already exist and be writable, and must not
	// be inside the input folder (its files would be rediscovered).
	inputAbs, err := absPath(cfg.InputDir)
	if err != nil {
		log.Error("Input folder not found: %s", cfg.InputDir)
		return errReported
	}
	if err := check.CheckOutputDir(cfg.OutputDir); err != nil {
		log.Error("%v", err)
		return errReported
	}
	outputAbs, err := absPath(cfg.OutputDir)
	if err != nil {
		log.Error("Cannot resolve output path: %s", cfg.OutputDir)
		return errReported
	}
	if err := cfg.ValidatePaths(inputAbs, outputAbs); err != nil {
		log.Error("%v", err)
		log.Error("Choose an output path outside: %s", cfg.InputDir)
		return errReported
	}

	log.Info("=== treeconv v%s (%s) ===", version, commit)
	log.Info("In:  %s", cfg.InputDir)
	log.Info("Out: %s", cfg.OutputDir)
	if cfg.DryRun {
		log.Warn("DRY RUN, no files will be written")
	}

	// Fail fast if ffmpeg or ffprobe are unavailable.
	if err := check.CheckDeps(cfg); err != nil {
		log.Error("%v", err)
		return errReported
	}

	// Cancel on SIGINT/SIGTERM: running ffmpeg processes are killed and no
	// new files are started.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			log.Warn("Received interrupt, stopping…")
			cancel()
		case <-ctx.Done():
		}
	}()

	stats := pipeline.Run(ctx, cfg, log)
	if stats.Err != nil {
		return errReported
	}
	stats.WriteSummary(stdout, cfg.DryRun)

	if stats.Failed > 0 || stats.Interrupted {
		return errReported
	}
	return nil
}

// absPath returns the absolute, symlink-resolved path for safe comparison
// of input vs output directory hierarchies.
func absPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}
