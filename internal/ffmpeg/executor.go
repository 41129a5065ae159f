package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
)

// ExecResult holds the outcome of a single ffmpeg invocation.
type ExecResult struct {
	Args   []string
	Stderr string
	Err    error // nil, or wraps ErrConvertFailed.
}

// Execute runs args (as returned by [Build], binary first) and blocks until
// the process exits. When verbose, stderr is tee'd to os.Stderr in real
// time; otherwise it is captured silently so the failure reason can be
// logged.
func Execute(ctx context.Context, args []string, verbose bool) ExecResult {
	if len(args) == 0 {
		return ExecResult{Err: fmt.Errorf("%w: empty command", ErrConvertFailed)}
	}
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)

	var stderrBuf bytes.Buffer
	if verbose {
		cmd.Stderr = io.MultiWriter(&stderrBuf, os.Stderr)
	} else {
		cmd.Stderr = &stderrBuf
	}

	res := ExecResult{Args: args}
	err := cmd.Run()
	res.Stderr = stderrBuf.String()
	if err != nil {
		if tail := StderrTail(res.Stderr); tail != "" {
			res.Err = fmt.Errorf("%w: %v: %s", ErrConvertFailed, err, tail)
		} else {
			res.Err = fmt.Errorf("%w: %v", ErrConvertFailed, err)
		}
	}
	return res
}
