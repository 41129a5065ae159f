package ffmpeg

import (
	"errors"
	"strings"
)

// ErrConvertFailed wraps every failed ffmpeg invocation: a missing binary,
// a nonzero exit, or a kill on cancellation.
var ErrConvertFailed = errors.New("conversion failed")

const stderrTailLines = 5

// StderrTail returns the last few non-empty lines of ffmpeg's stderr, which
// is where ffmpeg reports the reason it gave up.
func StderrTail(stderr string) string {
	lines := strings.Split(strings.TrimSpace(stderr), "\n")
	var kept []string
	for i := len(lines) - 1; i >= 0 && len(kept) < stderrTailLines; i-- {
		if l := strings.TrimSpace(lines[i]); l != "" {
			kept = append(kept, l)
		}
	}
	for i, j := 0, len(kept)-1; i < j; i, j = i+1, j-1 {
		kept[i], kept[j] = kept[j], kept[i]
	}
	return strings.Join(kept, "\n")
}
