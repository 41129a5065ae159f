package config

// This file binds CLI flags onto a Config. Flags are grouped into paths,
// behavior, tools, and display. Flags that overlap with the TOML file
// (--ffmpeg, --ffprobe) and the color switches are applied after the file is
// loaded so the command line always wins.

import (
	"fmt"

	"github.com/spf13/pflag"
)

// Flags holds flag values that are applied after parsing rather than bound
// straight into Config.
type Flags struct {
	fs *pflag.FlagSet

	ffmpeg     string
	ffprobe    string
	forceColor bool
	noColor    bool
}

// BindFlags registers every treeconv flag on fs, writing directly into cfg
// where no precedence handling is needed.
func BindFlags(fs *pflag.FlagSet, cfg *Config) *Flags {
	f := &Flags{fs: fs}

	definePathFlags(fs, cfg)
	defineBehaviorFlags(fs, cfg)
	defineToolFlags(fs, cfg, f)
	defineDisplayFlags(fs, cfg, f)

	return f
}

// definePathFlags registers -i, -o, -a, -d and --mirror.
func definePathFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.StringVarP(&cfg.InputDir, "input-folder", "i", "", "Folder to scan for video files (required)")
	fs.StringVarP(&cfg.OutputDir, "output-folder", "o", "", "Existing folder that receives converted files (required)")
	fs.StringVarP(&cfg.AppendToName, "append-to-name", "a", "", "Text inserted before the output file extension")
	fs.IntVarP(&cfg.MaxDepth, "depth", "d", cfg.MaxDepth, "Deepest subfolder level processed (0 = input folder only)")
	fs.BoolVar(&cfg.Mirror, "mirror", false, "Mirror input subfolders under the output folder instead of flattening")
}

// defineBehaviorFlags registers --config, --jobs, --dry-run, --force and --check.
func defineBehaviorFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.StringVarP(&cfg.ConfigFile, "config", "c", "", "TOML file with stream policy and tool paths")
	fs.IntVarP(&cfg.Jobs, "jobs", "j", cfg.Jobs, "Number of files converted in parallel")
	fs.BoolVarP(&cfg.DryRun, "dry-run", "n", false, "Print ffmpeg commands without running them")
	fs.BoolVarP(&cfg.Overwrite, "force", "f", false, "Overwrite existing output files")
	fs.BoolVar(&cfg.CheckOnly, "check", false, "Check ffmpeg/ffprobe availability and exit")
}

// defineToolFlags registers --ffmpeg and --ffprobe.
func defineToolFlags(fs *pflag.FlagSet, cfg *Config, f *Flags) {
	fs.StringVar(&f.ffmpeg, "ffmpeg", cfg.FFmpegBin, "ffmpeg binary")
	fs.StringVar(&f.ffprobe, "ffprobe", cfg.FFprobeBin, "ffprobe binary")
}

// defineDisplayFlags registers --verbose, --color, --no-color, --log and --metrics-file.
func defineDisplayFlags(fs *pflag.FlagSet, cfg *Config, f *Flags) {
	fs.BoolVarP(&cfg.Verbose, "verbose", "v", false, "Verbose output (ffmpeg stderr is shown live)")
	fs.BoolVar(&f.forceColor, "color", false, "Force colored logs")
	fs.BoolVar(&f.noColor, "no-color", false, "Disable colored logs")
	fs.StringVarP(&cfg.LogFile, "log", "l", "", "Append logs to file")
	fs.StringVar(&cfg.MetricsFile, "metrics-file", "", "Write Prometheus metrics to this file after the run")
}

// Apply finishes flag handling once fs has been parsed: it loads the config
// file named by --config, lets explicitly set tool flags override it,
// resolves the color switches and normalizes the folder arguments.
func (f *Flags) Apply(cfg *Config) error {
	if args := f.fs.Args(); len(args) > 0 {
		return fmt.Errorf("unexpected argument %q", args[0])
	}

	if cfg.ConfigFile != "" {
		if err := LoadFile(cfg.ConfigFile, cfg); err != nil {
			return err
		}
	}
	if f.fs.Changed("ffmpeg") {
		cfg.FFmpegBin = f.ffmpeg
	}
	if f.fs.Changed("ffprobe") {
		cfg.FFprobeBin = f.ffprobe
	}

	if f.noColor {
		cfg.ColorMode = ColorNever
	} else if f.forceColor {
		cfg.ColorMode = ColorAlways
	}

	cfg.InputDir = NormalizeDirArg(cfg.InputDir)
	cfg.OutputDir = NormalizeDirArg(cfg.OutputDir)
	return nil
}
