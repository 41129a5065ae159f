package planner

import (
	"errors"

	"github.com/backmassage/treeconv/internal/config"
	"github.com/backmassage/treeconv/internal/probe"
)

// ErrNoStreams is returned when every stream of a file is excluded. An
// ffmpeg command without -map clauses would either fail or silently fall
// back to ffmpeg's default selection, so the file is reported instead.
var ErrNoStreams = errors.New("no convertible streams")

// PolicyFromConfig extracts the stream policy from cfg.
func PolicyFromConfig(cfg *config.Config) Policy {
	return Policy{
		ExcludedCodecs:     cfg.ExcludedCodecs,
		AllowedVideoCodecs: cfg.AllowedVideoCodecs,
	}
}

// BuildJob classifies streams under cfg's policy and returns the conversion
// job for inputPath. The caller supplies the already-resolved outputPath.
func BuildJob(cfg *config.Config, streams []probe.Stream, inputPath, outputPath string) (*Job, error) {
	sel := Classify(streams, PolicyFromConfig(cfg))
	if len(sel.Streams) == 0 {
		return nil, ErrNoStreams
	}
	return &Job{
		InputPath:     inputPath,
		OutputPath:    outputPath,
		Streams:       sel.Streams,
		ReencodeVideo: sel.ReencodeVideo,
	}, nil
}

// VideoCodec returns the -c:v value for job: "copy" or cfg's target codec.
func VideoCodec(cfg *config.Config, job *Job) string {
	if job.ReencodeVideo {
		return cfg.TargetVideoCodec
	}
	return "copy"
}
