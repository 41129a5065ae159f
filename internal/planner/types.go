package planner

import "strconv"

// StreamRef addresses one stream of one ffmpeg input, rendered "input:index"
// as ffmpeg's -map option expects.
type StreamRef struct {
	Input int
	Index int
}

// String returns the "input:index" form, e.g. "0:3".
func (r StreamRef) String() string {
	return strconv.Itoa(r.Input) + ":" + strconv.Itoa(r.Index)
}

// Policy holds the codec lists that drive stream selection.
type Policy struct {
	ExcludedCodecs     []string // Streams with these codecs are never mapped.
	AllowedVideoCodecs []string // Stream 0 is copied when its codec is listed.
}

// Selection is the per-file outcome of [Classify].
type Selection struct {
	Streams       []StreamRef
	ReencodeVideo bool
}

// Job holds everything the ffmpeg package needs to convert one file. It is
// produced by [BuildJob] and discarded after dispatch.
type Job struct {
	InputPath     string
	OutputPath    string
	Streams       []StreamRef // Probe order.
	ReencodeVideo bool        // false: -c:v copy.
}
