// Package probe runs ffprobe against a media file and returns its stream
// descriptors. Only the index, codec name and codec type of each stream are
// requested; a failed invocation and unusable output are reported as
// distinct sentinel errors so callers can skip the file with a precise
// reason.
package probe
