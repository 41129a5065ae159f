package planner

import (
	"slices"

	"github.com/backmassage/treeconv/internal/probe"
)

// Classify applies the stream policy to one file's probed streams.
//
// Every stream whose codec is not excluded is referenced, in probe order.
// Excluded codecs (cover images and the like) make ffmpeg abort when it is
// asked to carry them into the output container.
//
// ReencodeVideo is set only when a stream with index 0 exists and its codec
// is outside the allowed video set. The decision is made independently for
// each call; nothing carries over between files.
func Classify(streams []probe.Stream, p Policy) Selection {
	var sel Selection
	for _, s := range streams {
		if !slices.Contains(p.ExcludedCodecs, s.CodecName) {
			sel.Streams = append(sel.Streams, StreamRef{Input: 0, Index: s.Index})
		}
		if s.Index == 0 && !slices.Contains(p.AllowedVideoCodecs, s.CodecName) {
			sel.ReencodeVideo = true
		}
	}
	return sel
}
