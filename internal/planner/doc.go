// Package planner decides, per file, which streams are carried into the
// output and whether the primary video stream must be re-encoded, and
// packages that decision as a Job that the ffmpeg package consumes.
//
// Files:
//   - extension.go: ExtensionAllowed, the container suffix filter
//   - classify.go: Classify, the stream selection policy
//   - planner.go: BuildJob, combining a selection with input/output paths
//   - types.go: StreamRef, Policy, Selection and Job
package planner
