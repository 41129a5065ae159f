package ffmpeg

import (
	"strings"

	"github.com/backmassage/treeconv/internal/config"
	"github.com/backmassage/treeconv/internal/planner"
)

// MapArgs returns one "-map <input:index>" pair per reference, in order.
// An empty slice yields no arguments; callers reject empty selections
// before getting here (see [planner.ErrNoStreams]).
func MapArgs(refs []planner.StreamRef) []string {
	args := make([]string, 0, 2*len(refs))
	for _, r := range refs {
		args = append(args, "-map", r.String())
	}
	return args
}

// Build constructs the complete ffmpeg argument slice for a job, binary
// first:
//
//	ffmpeg -hide_banner -nostdin -loglevel error -n -i <in> -map 0:0 ...
//	       -c:v copy|<target> -c:a <audio> -strict experimental -c:s copy <out>
func Build(cfg *config.Config, job *planner.Job) []string {
	args := make([]string, 0, 24+2*len(job.Streams))

	// --- Preamble ---
	args = append(args, cfg.FFmpegBin, "-hide_banner", "-nostdin")

	// Loglevel: info when verbose, otherwise error.
	if cfg.Verbose {
		args = append(args, "-loglevel", "info")
	} else {
		args = append(args, "-loglevel", "error")
	}

	// Existing outputs are never clobbered unless --force.
	if cfg.Overwrite {
		args = append(args, "-y")
	} else {
		args = append(args, "-n")
	}

	// --- Input ---
	args = append(args, "-i", job.InputPath)

	// --- Stream maps ---
	args = append(args, MapArgs(job.Streams)...)

	// --- Codecs ---
	args = append(args, "-c:v", planner.VideoCodec(cfg, job))
	args = append(args, "-c:a", cfg.TargetAudioCodec, "-strict", "experimental")
	args = append(args, "-c:s", "copy")

	// --- Output ---
	args = append(args, job.OutputPath)

	return args
}

// FormatCommand renders args as a single shell-style line, quoting any
// argument that a POSIX shell would split or expand.
func FormatCommand(args []string) string {
	quoted := make([]string, len(args))
	for i, a := range args {
		quoted[i] = shellQuote(a)
	}
	return strings.Join(quoted, " ")
}

func shellQuote(s string) string {
	if s == "" {
		return "''"
	}
	if !strings.ContainsAny(s, " \t\n'\"\\$`!*?[]{}()<>|&;#~=%") {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
