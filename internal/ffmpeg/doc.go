// Package ffmpeg builds and executes the conversion command for one job.
//
// The command is assembled as an argument slice and passed straight to
// exec, so paths with spaces or shell metacharacters need no quoting.
// [FormatCommand] renders the same slice as a copy-pasteable shell line for
// logging only.
//
// Files: builder.go (MapArgs, Build, FormatCommand), executor.go (Execute),
// errors.go (ErrConvertFailed, stderr tail extraction).
package ffmpeg
