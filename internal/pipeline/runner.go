package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"github.com/backmassage/treeconv/internal/config"
	"github.com/backmassage/treeconv/internal/display"
	"github.com/backmassage/treeconv/internal/ffmpeg"
	"github.com/backmassage/treeconv/internal/logging"
	"github.com/backmassage/treeconv/internal/metrics"
	"github.com/backmassage/treeconv/internal/naming"
	"github.com/backmassage/treeconv/internal/planner"
	"github.com/backmassage/treeconv/internal/probe"
)

// errLocked is returned when another process holds an output's lock.
var errLocked = errors.New("output is locked by another process")

// task is one discovered file with its resolved output path.
type task struct {
	n      int // 1-based position in discovery order.
	input  string
	output string
}

// Run is the top-level batch entry point. It discovers files, resolves
// their output paths, converts them with cfg.Jobs workers, and returns
// aggregate stats. Per-file failures are counted, never returned.
func Run(ctx context.Context, cfg *config.Config, log *logging.Logger) RunStats {
	start := time.Now()
	stats := RunStats{RunID: uuid.NewString()}
	rec := metrics.New()

	files, skipped, err := Discover(cfg.InputDir, cfg.MaxDepth, cfg.AllowedSuffixes)
	if err != nil {
		log.Error("File discovery failed: %v", err)
		stats.Err = err
		return stats
	}
	for _, err := range skipped {
		log.Warn("Skipping unreadable entry: %v", err)
	}
	stats.Found = len(files)
	rec.FilesFound.Set(float64(len(files)))

	logBatchHeader(cfg, log, &stats)

	tasks := resolveOutputs(cfg, log, files)

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	queue := make(chan task)
	for range max(cfg.Jobs, 1) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range queue {
				res := processFile(ctx, cfg, log, t, len(tasks), rec)
				mu.Lock()
				stats.record(res)
				mu.Unlock()
			}
		}()
	}

	for _, t := range tasks {
		if ctx.Err() == nil {
			select {
			case queue <- t:
				continue
			case <-ctx.Done():
			}
		}
		log.Warn("Interrupted, %d file(s) not started", len(tasks)-t.n+1)
		stats.Interrupted = true
		break
	}
	close(queue)
	wg.Wait()

	end := time.Now()
	stats.Elapsed = end.Sub(start)
	rec.Finish(start, end)
	if cfg.MetricsFile != "" {
		if err := rec.WriteTextfile(cfg.MetricsFile); err != nil {
			log.Warn("Cannot write metrics file: %v", err)
		} else {
			log.Debug("Metrics written to %s", cfg.MetricsFile)
		}
	}

	logSummary(cfg, log, &stats)
	return stats
}

// resolveOutputs assigns every file its output path before any work starts,
// so no two jobs ever target the same file.
func resolveOutputs(cfg *config.Config, log *logging.Logger, files []string) []task {
	resolver := naming.NewCollisionResolver()
	tasks := make([]task, 0, len(files))
	for i, path := range files {
		out, renamed := resolver.Resolve(path, naming.OutputPath(cfg, path))
		if renamed {
			log.Warn("Output name collision for %s, writing %s", path, filepath.Base(out))
		}
		tasks = append(tasks, task{n: i + 1, input: path, output: out})
	}
	return tasks
}

// processFile handles one file: skip-existing → probe → plan → lock →
// execute. Nothing is created on disk until the job is planned.
func processFile(
	ctx context.Context,
	cfg *config.Config,
	log *logging.Logger,
	t task,
	total int,
	rec *metrics.Recorder,
) fileResult {
	log.Info("[%d/%d] %s", t.n, total, displayPath(cfg, t.input))

	fail := func(err error) fileResult {
		kind := classifyFailure(err)
		log.Error("%s: %v", filepath.Base(t.input), err)
		rec.FilesFailed.WithLabelValues(string(kind)).Inc()
		return fileResult{outcome: outcomeFailed, kind: kind}
	}

	// --- Skip-existing pre-check (repeated under the lock) ---
	if !cfg.Overwrite && exists(t.output) {
		return skip(log, rec, t.output)
	}

	// --- Probe and plan ---
	streams, err := probe.Probe(ctx, cfg.FFprobeBin, t.input)
	if err != nil {
		return fail(err)
	}
	if log.Verbose() {
		for _, s := range streams {
			log.Debug("  Stream 0:%d %s (%s)", s.Index, s.CodecName, s.CodecType)
		}
	}

	job, err := planner.BuildJob(cfg, streams, t.input, t.output)
	if err != nil {
		return fail(err)
	}
	args := ffmpeg.Build(cfg, job)
	log.Command("%s", ffmpeg.FormatCommand(args))

	// --- Output directory and lock (nothing is written in dry-run) ---
	if !cfg.DryRun {
		if cfg.Mirror {
			if err := os.MkdirAll(filepath.Dir(t.output), 0o755); err != nil {
				return fail(fmt.Errorf("create output directory: %w", err))
			}
		}
		unlock, err := lockOutput(t.output)
		if err != nil {
			return fail(err)
		}
		defer unlock()

		if !cfg.Overwrite && exists(t.output) {
			return skip(log, rec, t.output)
		}
	}

	// --- Dry-run ---
	if cfg.DryRun {
		log.Success("[DRY] Would convert -> %s", t.output)
		rec.FilesConverted.Inc()
		if job.ReencodeVideo {
			rec.ReencodedVideo.Inc()
		}
		return fileResult{outcome: outcomeConverted, reencoded: job.ReencodeVideo}
	}

	// --- Execute ---
	started := time.Now()
	res := ffmpeg.Execute(ctx, args, cfg.Verbose)
	if res.Err != nil {
		if rmErr := os.Remove(t.output); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			log.Warn("Cannot remove partial output %s: %v", t.output, rmErr)
		}
		if ctx.Err() != nil {
			log.Warn("Interrupted during conversion")
		}
		return fail(res.Err)
	}
	elapsed := time.Since(started)

	var size int64
	if fi, err := os.Stat(t.output); err == nil {
		size = fi.Size()
	}
	rec.FilesConverted.Inc()
	rec.ObserveConvert(elapsed)
	if job.ReencodeVideo {
		rec.ReencodedVideo.Inc()
	}

	action := "Remuxed"
	if job.ReencodeVideo {
		action = "Converted"
	}
	log.Success("%s in %s (%s)", action, display.FormatDuration(elapsed), display.FormatBytes(size))
	return fileResult{outcome: outcomeConverted, reencoded: job.ReencodeVideo, outputBytes: size}
}

// lockOutput takes a non-blocking advisory lock on "<output>.lock". The
// returned func removes the lock file and then releases the lock.
//
// Because the file is unlinked while still locked, a lock won on an inode
// that is no longer at path protects nothing; that case is retried against
// the fresh file.
func lockOutput(output string) (func(), error) {
	path := output + ".lock"
	for range 3 {
		lk := flock.New(path)
		ok, err := lk.TryLock()
		if err != nil {
			return nil, fmt.Errorf("lock %s: %w", path, err)
		}
		if !ok {
			return nil, fmt.Errorf("%w: %s", errLocked, output)
		}
		if !lockIsCurrent(lk) {
			_ = lk.Unlock()
			continue
		}
		return func() {
			_ = os.Remove(path)
			_ = lk.Unlock()
		}, nil
	}
	return nil, fmt.Errorf("%w: %s", errLocked, output)
}

// lockIsCurrent reports whether the file lk holds is still the one at its
// path.
func lockIsCurrent(lk *flock.Flock) bool {
	held, err := lk.Stat()
	if err != nil {
		return false
	}
	onDisk, err := os.Stat(lk.Path())
	if err != nil {
		return false
	}
	return os.SameFile(held, onDisk)
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func skip(log *logging.Logger, rec *metrics.Recorder, output string) fileResult {
	log.Warn("Skip (exists): %s", output)
	rec.FilesSkipped.Inc()
	return fileResult{outcome: outcomeSkipped}
}

// displayPath shows path relative to the input folder when possible.
func displayPath(cfg *config.Config, path string) string {
	rel, err := filepath.Rel(cfg.InputDir, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}

// --- Logging helpers ---

func logBatchHeader(cfg *config.Config, log *logging.Logger, stats *RunStats) {
	log.Info("Run %s", stats.RunID)
	log.Info("Found %d files (depth <= %d, suffixes: %s)",
		stats.Found, cfg.MaxDepth, strings.Join(cfg.AllowedSuffixes, ", "))
	log.Info("Video: copy %s, otherwise encode with %s",
		strings.Join(cfg.AllowedVideoCodecs, "/"), cfg.TargetVideoCodec)
	log.Info("Audio: %s, subtitles: copy", cfg.TargetAudioCodec)
	if len(cfg.ExcludedCodecs) > 0 {
		log.Info("Excluded codecs: %s", strings.Join(cfg.ExcludedCodecs, ", "))
	}
	if cfg.Mirror {
		log.Info("Layout: mirror input folders")
	} else {
		log.Info("Layout: flat")
	}
	if cfg.Jobs > 1 {
		log.Info("Workers: %d", cfg.Jobs)
	}
	if cfg.Overwrite {
		log.Warn("Existing outputs will be overwritten")
	}
}

func logSummary(cfg *config.Config, log *logging.Logger, stats *RunStats) {
	log.Info("==============================")
	log.Info("Done: %d converted, %d skipped, %d failed", stats.Converted, stats.Skipped, stats.Failed)
	if cfg.DryRun {
		log.Info("Dry run: no files were written")
	}
	if stats.Failed > 0 {
		for _, k := range failureKinds {
			if n := stats.FailedByKind[k]; n > 0 {
				log.Warn("  %s: %d", k, n)
			}
		}
	}
}
