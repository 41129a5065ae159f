// Package naming derives output paths from input paths and keeps two
// inputs from claiming the same output within a run.
//
// Files: outputpath.go (OutputPath), collision.go (CollisionResolver).
package naming
