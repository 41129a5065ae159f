package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Failure reasons, kept in sync with pipeline.FailureKind.
var failureReasons = []string{"probe-failed", "malformed-output", "no-streams", "convert-failed", "io"}

// Recorder holds the metrics of one run.
type Recorder struct {
	reg *prometheus.Registry

	FilesFound       prometheus.Gauge
	FilesConverted   prometheus.Counter
	FilesSkipped     prometheus.Counter
	FilesFailed      *prometheus.CounterVec
	ReencodedVideo   prometheus.Counter
	ConvertDuration  prometheus.Histogram
	RunDuration      prometheus.Gauge
	LastRunTimestamp prometheus.Gauge
}

// New creates a Recorder backed by a fresh registry, so repeated runs in
// one process (tests) never collide on registration.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	r := &Recorder{
		reg: reg,
		FilesFound: f.NewGauge(prometheus.GaugeOpts{
			Name: "treeconv_files_found",
			Help: "Number of candidate files discovered in the input tree",
		}),
		FilesConverted: f.NewCounter(prometheus.CounterOpts{
			Name: "treeconv_files_converted_total",
			Help: "Total number of files converted successfully",
		}),
		FilesSkipped: f.NewCounter(prometheus.CounterOpts{
			Name: "treeconv_files_skipped_total",
			Help: "Total number of files skipped because the output already existed",
		}),
		FilesFailed: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "treeconv_files_failed_total",
				Help: "Total number of files that failed, by reason",
			},
			[]string{"reason"},
		),
		ReencodedVideo: f.NewCounter(prometheus.CounterOpts{
			Name: "treeconv_video_reencoded_total",
			Help: "Total number of files whose primary video stream was re-encoded",
		}),
		ConvertDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "treeconv_convert_duration_seconds",
			Help:    "Duration of a single ffmpeg conversion in seconds",
			Buckets: []float64{0.5, 1, 5, 15, 30, 60, 120, 300, 600, 1800, 3600},
		}),
		RunDuration: f.NewGauge(prometheus.GaugeOpts{
			Name: "treeconv_run_duration_seconds",
			Help: "Wall-clock duration of the last run in seconds",
		}),
		LastRunTimestamp: f.NewGauge(prometheus.GaugeOpts{
			Name: "treeconv_last_run_timestamp_seconds",
			Help: "Unix timestamp of the end of the last run",
		}),
	}

	// Export every reason, even at zero, so alerts can use rate() from the
	// first run on.
	for _, reason := range failureReasons {
		r.FilesFailed.WithLabelValues(reason)
	}
	return r
}

// ObserveConvert records the duration of one successful conversion.
func (r *Recorder) ObserveConvert(d time.Duration) {
	r.ConvertDuration.Observe(d.Seconds())
}

// Finish stamps the run duration and end time.
func (r *Recorder) Finish(start, end time.Time) {
	r.RunDuration.Set(end.Sub(start).Seconds())
	r.LastRunTimestamp.Set(float64(end.Unix()))
}

// WriteTextfile atomically writes all metrics to path in the Prometheus
// text exposition format.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.reg)
}
