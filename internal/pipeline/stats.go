package pipeline

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/backmassage/treeconv/internal/display"
	"github.com/backmassage/treeconv/internal/ffmpeg"
	"github.com/backmassage/treeconv/internal/planner"
	"github.com/backmassage/treeconv/internal/probe"
)

// FailureKind classifies why a file failed.
type FailureKind string

const (
	FailProbe     FailureKind = "probe-failed"
	FailMalformed FailureKind = "malformed-output"
	FailNoStreams FailureKind = "no-streams"
	FailConvert   FailureKind = "convert-failed"
	FailIO        FailureKind = "io"
)

// failureKinds lists every kind in summary order.
var failureKinds = []FailureKind{FailProbe, FailMalformed, FailNoStreams, FailConvert, FailIO}

// classifyFailure maps a per-file error onto its FailureKind. Errors that
// match no sentinel are filesystem problems.
func classifyFailure(err error) FailureKind {
	switch {
	case errors.Is(err, probe.ErrMalformedOutput):
		return FailMalformed
	case errors.Is(err, probe.ErrProbeFailed):
		return FailProbe
	case errors.Is(err, planner.ErrNoStreams):
		return FailNoStreams
	case errors.Is(err, ffmpeg.ErrConvertFailed):
		return FailConvert
	default:
		return FailIO
	}
}

// RunStats tracks aggregate counters across a batch run.
type RunStats struct {
	RunID        string
	Found        int
	Converted    int // Successful conversions, dry-run included.
	Reencoded    int // Converted files whose primary video was re-encoded.
	Skipped      int // Output already existed.
	Failed       int
	FailedByKind map[FailureKind]int
	OutputBytes  int64
	Elapsed      time.Duration
	Interrupted  bool
	Err          error // Discovery error; nothing was processed.
}

// record folds one file result into s.
func (s *RunStats) record(r fileResult) {
	switch r.outcome {
	case outcomeConverted:
		s.Converted++
		s.OutputBytes += r.outputBytes
		if r.reencoded {
			s.Reencoded++
		}
	case outcomeSkipped:
		s.Skipped++
	case outcomeFailed:
		s.Failed++
		if s.FailedByKind == nil {
			s.FailedByKind = make(map[FailureKind]int)
		}
		s.FailedByKind[r.kind]++
	}
}

// WriteSummary renders the end-of-run table followed by the converted-files
// count line.
func (s *RunStats) WriteSummary(w io.Writer, dryRun bool) {
	rows := [][]string{
		{"Found", strconv.Itoa(s.Found)},
		{"Converted", strconv.Itoa(s.Converted)},
		{"  video re-encoded", strconv.Itoa(s.Reencoded)},
		{"Skipped (exists)", strconv.Itoa(s.Skipped)},
		{"Failed", strconv.Itoa(s.Failed)},
	}
	for _, k := range failureKinds {
		if n := s.FailedByKind[k]; n > 0 {
			rows = append(rows, []string{"  " + string(k), strconv.Itoa(n)})
		}
	}
	if dryRun {
		rows = append(rows, []string{"Output size", "n/a (dry run)"})
	} else {
		rows = append(rows, []string{"Output size", display.FormatBytes(s.OutputBytes)})
	}
	rows = append(rows, []string{"Elapsed", display.FormatDuration(s.Elapsed)})

	fmt.Fprintln(w, display.RenderTable(
		[]string{"Run " + s.RunID, "Files"},
		rows,
		[]display.Alignment{display.AlignLeft, display.AlignRight},
	))
	fmt.Fprintf(w, "The number of files converted: %d\n", s.Converted)
}

type outcome int

const (
	outcomeConverted outcome = iota
	outcomeSkipped
	outcomeFailed
)

// fileResult is the outcome of processing one file.
type fileResult struct {
	outcome     outcome
	kind        FailureKind // Set when outcome is outcomeFailed.
	reencoded   bool
	outputBytes int64
}
