package batch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"srtforge/internal/discover"
	"srtforge/internal/estimate"
	"srtforge/internal/history"
	"srtforge/internal/logging"
	"srtforge/internal/profile"
	"srtforge/internal/services/whisper"
	"srtforge/internal/srt"
)

var (
	// ErrInvalidFolder reports a missing or non-directory batch folder.
	ErrInvalidFolder = errors.New("invalid folder")
	// ErrNoFiles reports a folder with no video files under it.
	ErrNoFiles = errors.New("no video files found")
	// ErrAlreadyRunning reports a second Run while one is in flight.
	ErrAlreadyRunning = errors.New("batch already running")
)

// Transcriber produces a subtitle file next to the input. The cancelled
// callback is polled during the work; returning true must abort it promptly.
type Transcriber interface {
	Transcribe(ctx context.Context, req whisper.Request, cancelled func() bool) error
}

// Request carries everything one batch run needs.
type Request struct {
	Folder            string
	Profile           profile.Profile
	Language          string
	Translate         bool
	OffsetSeconds     float64
	OverwriteExisting bool
}

// ScanResult is a dry-run preview of a batch.
type ScanResult struct {
	Files            []discover.File
	TotalBytes       int64
	EstimatedMinutes float64
}

// Runner executes batches one file at a time. A Runner is reusable but runs
// at most one batch at once.
type Runner struct {
	transcriber Transcriber
	store       *history.Store
	logger      *slog.Logger
	sink        EventSink

	active atomic.Bool
	busy   atomic.Bool

	mu    sync.Mutex
	state RunState
}

// NewRunner wires a runner. store may be nil to disable history recording,
// and sink may be nil when nobody displays progress.
func NewRunner(transcriber Transcriber, store *history.Store, logger *slog.Logger, sink EventSink) *Runner {
	return &Runner{
		transcriber: transcriber,
		store:       store,
		logger:      logging.WithComponent(logger, "batch"),
		sink:        sink,
		state:       RunState{Status: StatusIdle},
	}
}

// Scan validates the folder and previews what Run would process, without
// touching any file.
func (r *Runner) Scan(folder string, preset profile.Profile) (ScanResult, error) {
	if err := checkFolder(folder); err != nil {
		return ScanResult{}, err
	}
	files, err := discover.Find(folder)
	if err != nil {
		return ScanResult{}, fmt.Errorf("scan %s: %w", folder, err)
	}
	return ScanResult{
		Files:            files,
		TotalBytes:       discover.TotalSize(files),
		EstimatedMinutes: estimate.TotalMinutes(files, preset),
	}, nil
}

// Snapshot returns a copy of the current run state, safe to call from any
// goroutine.
func (r *Runner) Snapshot() RunState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.clone()
}

// Stop requests cooperative cancellation of the in-flight run. The file being
// transcribed is killed within the poll interval; already-finished files keep
// their recorded outcomes.
func (r *Runner) Stop() {
	if r.active.CompareAndSwap(true, false) {
		r.logger.Info("stop requested")
	}
}

// ETA returns the running estimate for the current batch. ok is false until
// the first file completes.
func (r *Runner) ETA() (estimate.ETA, bool) {
	snap := r.Snapshot()
	if snap.Status != StatusRunning || snap.StartTime.IsZero() {
		return estimate.ETA{}, false
	}
	return estimate.Running(time.Since(snap.StartTime), snap.FilesProcessed, snap.FilesTotal)
}

// Run processes every video file under req.Folder sequentially and blocks
// until the batch finishes, is stopped, or fails. Validation errors leave the
// previous run state untouched.
func (r *Runner) Run(ctx context.Context, req Request) (summary Summary, err error) {
	if !r.busy.CompareAndSwap(false, true) {
		return Summary{}, ErrAlreadyRunning
	}
	defer r.busy.Store(false)

	if folderErr := checkFolder(req.Folder); folderErr != nil {
		return Summary{}, folderErr
	}
	files, findErr := discover.Find(req.Folder)
	if findErr != nil {
		return Summary{}, fmt.Errorf("discover %s: %w", req.Folder, findErr)
	}
	if len(files) == 0 {
		return Summary{}, fmt.Errorf("%w in %s", ErrNoFiles, req.Folder)
	}

	runID := uuid.NewString()
	start := time.Now()
	r.setState(RunState{
		RunID:      runID,
		Status:     StatusRunning,
		Folder:     req.Folder,
		StartTime:  start,
		FilesTotal: len(files),
	})
	r.active.Store(true)

	if r.store != nil {
		if beginErr := r.store.BeginRun(ctx, runID, req.Folder, req.Profile.Name, len(files), start); beginErr != nil {
			r.logger.Warn("history unavailable for this run", logging.Error(beginErr))
		}
	}

	defer func() {
		if panicked := recover(); panicked != nil {
			r.logger.Error("batch panicked", slog.Any("panic", panicked))
			r.updateState(func(s *RunState) { s.Status = StatusFailed; s.CurrentFile = "" })
			summary, err = r.finalize(ctx, StatusFailed, start)
			if err == nil {
				err = fmt.Errorf("batch panicked: %v", panicked)
			}
		}
	}()

	r.logger.Info("batch started",
		logging.String("run_id", runID),
		logging.String("folder", req.Folder),
		logging.String("profile", req.Profile.Name),
		logging.Int("files", len(files)),
	)
	r.emit(SeverityInfo, fmt.Sprintf("Starting batch processing: %d files", len(files)))
	r.emit(SeverityInfo, fmt.Sprintf("Estimated total time: %.1f minutes", estimate.TotalMinutes(files, req.Profile)))

	stopped := false
	for index, file := range files {
		if !r.active.Load() || ctx.Err() != nil {
			stopped = true
			break
		}

		r.updateState(func(s *RunState) { s.CurrentFile = file.Path })
		r.emit(SeverityInfo, fmt.Sprintf("[%d/%d] Processing: %s", index+1, len(files), filepath.Base(file.Path)))

		outcome, detail, elapsed, cancelled := r.processFile(ctx, req, file)
		if cancelled {
			stopped = true
			break
		}

		r.updateState(func(s *RunState) {
			s.FilesProcessed++
			switch outcome {
			case OutcomeSuccess:
				s.Succeeded++
				s.PerFileSeconds = append(s.PerFileSeconds, elapsed.Seconds())
			case OutcomeSkipped:
				s.Skipped++
			case OutcomeFailed:
				s.Failed++
			}
			s.CurrentFile = ""
		})
		if r.store != nil {
			record := history.FileRecord{
				Path:    file.Path,
				Outcome: string(outcome),
				Seconds: elapsed.Seconds(),
				Detail:  detail,
			}
			if recordErr := r.store.RecordFile(ctx, runID, record); recordErr != nil {
				r.logger.Warn("failed to record file outcome", logging.Error(recordErr))
			}
		}
	}

	status := StatusCompleted
	if stopped {
		status = StatusStopped
		r.logger.Info("batch stopped by user", logging.String("run_id", runID))
		r.emit(SeverityWarning, "Processing stopped by user")
	}
	return r.finalize(ctx, status, start)
}

// processFile runs the per-file pipeline: skip check, transcription, offset.
// cancelled is true only when the stop request interrupted this file, in
// which case it must not be counted.
func (r *Runner) processFile(ctx context.Context, req Request, file discover.File) (outcome Outcome, detail string, elapsed time.Duration, cancelled bool) {
	start := time.Now()
	srtPath := discover.SubtitlePath(file.Path)

	if _, statErr := os.Stat(srtPath); statErr == nil {
		if !req.OverwriteExisting {
			r.logger.Info("subtitle exists, skipping", logging.String("file", file.Path))
			r.emit(SeverityInfo, fmt.Sprintf("Skipping (subtitle exists): %s", filepath.Base(file.Path)))
			return OutcomeSkipped, "subtitle already exists", time.Since(start), false
		}
		if removeErr := os.Remove(srtPath); removeErr != nil {
			r.logger.Error("cannot replace existing subtitle", logging.Error(removeErr))
			r.emit(SeverityError, fmt.Sprintf("Failed: %s (cannot replace existing subtitle)", filepath.Base(file.Path)))
			return OutcomeFailed, removeErr.Error(), time.Since(start), false
		}
	}

	transcribeErr := r.transcriber.Transcribe(ctx, whisper.Request{
		Input:     file.Path,
		OutputDir: filepath.Dir(file.Path),
		Profile:   req.Profile,
		Language:  req.Language,
		Translate: req.Translate,
	}, func() bool { return !r.active.Load() })
	elapsed = time.Since(start)

	if errors.Is(transcribeErr, whisper.ErrCancelled) || errors.Is(transcribeErr, context.Canceled) {
		return "", "", elapsed, true
	}
	if transcribeErr != nil {
		r.logger.Error("transcription failed",
			logging.String("file", file.Path),
			logging.Error(transcribeErr),
		)
		r.emit(SeverityError, fmt.Sprintf("Failed: %s", filepath.Base(file.Path)))
		return OutcomeFailed, transcribeErr.Error(), elapsed, false
	}

	if req.OffsetSeconds != 0 {
		if shiftErr := srt.ShiftFile(srtPath, req.OffsetSeconds); shiftErr != nil {
			if subtitleWriteFailed(shiftErr, srtPath) {
				r.logger.Error("subtitle offset failed",
					logging.String("file", srtPath),
					logging.Error(shiftErr),
				)
				r.emit(SeverityError, fmt.Sprintf("Failed: %s (offset)", filepath.Base(file.Path)))
				return OutcomeFailed, shiftErr.Error(), elapsed, false
			}
			// Transcript exists and is usable, just unshifted. Not worth
			// failing the file over.
			r.logger.Warn("subtitle offset not applied",
				logging.String("file", srtPath),
				logging.Error(shiftErr),
			)
			r.emit(SeverityWarning, fmt.Sprintf("Offset not applied: %s", filepath.Base(file.Path)))
		}
	}

	rate := ""
	if elapsed > 0 {
		mbPerSecond := float64(file.Size) / (1024 * 1024) / elapsed.Seconds()
		rate = fmt.Sprintf(", %.2f MB/s", mbPerSecond)
	}
	r.logger.Info("file completed",
		logging.String("file", file.Path),
		logging.String("size", humanize.IBytes(uint64(file.Size))),
		logging.Duration("elapsed", elapsed),
	)
	r.emit(SeveritySuccess, fmt.Sprintf("Completed: %s (%s%s)",
		filepath.Base(file.Path), elapsed.Round(time.Second), rate))
	return OutcomeSuccess, "", elapsed, false
}

func (r *Runner) finalize(ctx context.Context, status Status, start time.Time) (Summary, error) {
	r.active.Store(false)

	var snap RunState
	r.mu.Lock()
	r.state.Status = status
	r.state.CurrentFile = ""
	snap = r.state.clone()
	r.mu.Unlock()

	elapsed := time.Since(start)
	summary := Summary{
		RunID:      snap.RunID,
		Status:     status,
		FilesTotal: snap.FilesTotal,
		Processed:  snap.FilesProcessed,
		Succeeded:  snap.Succeeded,
		Skipped:    snap.Skipped,
		Failed:     snap.Failed,
		Elapsed:    elapsed,
	}
	if snap.FilesProcessed > 0 {
		summary.AvgPerFile = elapsed / time.Duration(snap.FilesProcessed)
	}

	if r.store != nil {
		// The run context is often already cancelled by the time a stopped
		// batch gets here; the terminal history write must still land or the
		// row stays at "running" forever.
		finishErr := r.store.FinishRun(context.WithoutCancel(ctx), snap.RunID, string(status),
			snap.FilesProcessed, snap.Succeeded, snap.Skipped, snap.Failed, time.Now())
		if finishErr != nil {
			r.logger.Warn("failed to finalize run history", logging.Error(finishErr))
		}
	}

	r.logger.Info("batch finished",
		logging.String("run_id", snap.RunID),
		logging.String("status", string(status)),
		logging.Int("processed", snap.FilesProcessed),
		logging.Int("succeeded", snap.Succeeded),
		logging.Int("skipped", snap.Skipped),
		logging.Int("failed", snap.Failed),
		logging.Duration("elapsed", elapsed),
	)
	if status == StatusCompleted {
		r.emit(SeveritySuccess, fmt.Sprintf("Processing complete! %d/%d files in %.1f minutes",
			snap.Succeeded, snap.FilesTotal, elapsed.Minutes()))
	}
	return summary, nil
}

func (r *Runner) setState(state RunState) {
	r.mu.Lock()
	r.state = state
	r.mu.Unlock()
}

func (r *Runner) updateState(mutate func(*RunState)) {
	r.mu.Lock()
	mutate(&r.state)
	r.mu.Unlock()
}

func (r *Runner) emit(severity Severity, message string) {
	if r.sink == nil {
		return
	}
	r.sink(Event{Time: time.Now(), Severity: severity, Message: message})
}

func checkFolder(folder string) error {
	info, err := os.Stat(folder)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidFolder, folder, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrInvalidFolder, folder)
	}
	return nil
}

// subtitleWriteFailed reports whether an offset error means the subtitle file
// itself could not be read or replaced, as opposed to a temp-file hiccup.
func subtitleWriteFailed(err error, srtPath string) bool {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return pathErr.Path == srtPath
	}
	var linkErr *os.LinkError
	if errors.As(err, &linkErr) {
		return linkErr.New == srtPath
	}
	return false
}
