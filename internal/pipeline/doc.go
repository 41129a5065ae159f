// Package pipeline orchestrates file discovery, per-file processing, and
// batch summary reporting.
//
// Run discovers candidate files, resolves every output path up front, then
// feeds the files to a bounded worker pool. Each worker runs
// probe → classify → build → execute for one file at a time while holding
// an advisory lock on the output path. A failed file is counted and logged;
// it never stops the run.
//
// Files: discover.go (Discover), runner.go (Run), stats.go (RunStats,
// FailureKind, WriteSummary).
package pipeline
