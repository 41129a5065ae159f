package probe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Sentinel errors distinguishing why a file could not be probed.
var (
	ErrProbeFailed     = errors.New("probe failed")
	ErrMalformedOutput = errors.New("malformed probe output")
)

// Stream is one stream descriptor as reported by ffprobe.
type Stream struct {
	Index     int
	CodecName string
	CodecType string // "video", "audio", "subtitle", "attachment", "data".
}

// Probe runs a single ffprobe JSON call against path and returns its
// streams in the order ffprobe reported them. binary is the ffprobe
// executable; "ffprobe" is used when it is empty.
func Probe(ctx context.Context, binary, path string) ([]Stream, error) {
	if strings.TrimSpace(binary) == "" {
		binary = "ffprobe"
	}
	cmd := exec.CommandContext(ctx, binary,
		"-loglevel", "quiet",
		"-print_format", "json",
		"-show_entries", "stream=index,codec_name,codec_type",
		path,
	)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%w: %s %q: %v: %s", ErrProbeFailed, binary, path, err, msg)
		}
		return nil, fmt.Errorf("%w: %s %q: %v", ErrProbeFailed, binary, path, err)
	}

	streams, err := ParseJSON(out)
	if err != nil {
		return nil, fmt.Errorf("%s %q: %w", binary, path, err)
	}
	return streams, nil
}

// ParseJSON converts raw ffprobe JSON output into stream descriptors.
// Exported for testing without a real ffprobe binary.
//
// The document must contain a "streams" array and every element must carry
// an integer "index". A missing "codec_name" (ffprobe omits it for some data
// streams) is kept as an empty codec name.
func ParseJSON(data []byte) ([]Stream, error) {
	var raw ffprobeOutput
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}
	if raw.Streams == nil {
		return nil, fmt.Errorf("%w: no streams array", ErrMalformedOutput)
	}

	streams := make([]Stream, 0, len(*raw.Streams))
	for i, s := range *raw.Streams {
		if s.Index == nil {
			return nil, fmt.Errorf("%w: stream %d has no index", ErrMalformedOutput, i)
		}
		if *s.Index < 0 {
			return nil, fmt.Errorf("%w: stream %d has negative index %d", ErrMalformedOutput, i, *s.Index)
		}
		streams = append(streams, Stream{
			Index:     *s.Index,
			CodecName: s.CodecName,
			CodecType: s.CodecType,
		})
	}
	return streams, nil
}

// --- ffprobe JSON wire types ---

type ffprobeOutput struct {
	Streams *[]ffprobeStream `json:"streams"`
}

type ffprobeStream struct {
	Index     *int   `json:"index"`
	CodecName string `json:"codec_name"`
	CodecType string `json:"codec_type"`
}
