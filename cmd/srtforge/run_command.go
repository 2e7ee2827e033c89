package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"srtforge/internal/batch"
	"srtforge/internal/deps"
	"srtforge/internal/history"
	"srtforge/internal/language"
	"srtforge/internal/services/whisper"
)

type runFlags struct {
	profile    string
	language   string
	offset     float64
	overwrite  bool
	translate  bool
	noProgress bool
}

func newRunCommand(ctx *commandContext) *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "run <folder>",
		Short: "Generate subtitles for every video file under a folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd, ctx, args[0], flags)
		},
	}

	cmd.Flags().StringVarP(&flags.profile, "profile", "p", "", "Speed profile (ultra_fast, fast, balanced)")
	cmd.Flags().StringVarP(&flags.language, "language", "l", "", "Spoken language, or auto to detect")
	cmd.Flags().Float64Var(&flags.offset, "offset", 0, "Seconds to shift subtitle timestamps by")
	cmd.Flags().BoolVar(&flags.overwrite, "overwrite", false, "Replace existing .srt files")
	cmd.Flags().BoolVar(&flags.translate, "translate", false, "Translate speech to English")
	cmd.Flags().BoolVar(&flags.noProgress, "no-progress", false, "Disable the progress bar")

	return cmd
}

func runBatch(cmd *cobra.Command, ctx *commandContext, folder string, flags runFlags) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	request, err := buildRequest(cmd, ctx, folder, flags)
	if err != nil {
		return err
	}

	statuses := deps.Check(deps.Defaults(cfg.Transcriber.Binary, cfg.Transcriber.FFmpegBinary))
	if !deps.AllAvailable(statuses) {
		return errors.New("missing external dependencies; run `srtforge doctor` for details")
	}

	lock := flock.New(cfg.LockFile())
	acquired, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire batch lock: %w", err)
	}
	if !acquired {
		return errors.New("another srtforge batch is already running")
	}
	defer func() { _ = lock.Unlock() }()

	logger, err := ctx.buildLogger()
	if err != nil {
		return err
	}

	store, err := history.Open(cfg.Paths.StateDir)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer store.Close()

	out := cmd.OutOrStdout()
	printer := newProgressPrinter(out, shouldColorize(os.Stdout))
	transcriber := whisper.NewService(cfg.Transcriber.Binary, logger)
	runner := batch.NewRunner(transcriber, store, logger, printer.handle)

	preview, err := runner.Scan(request.Folder, request.Profile)
	if err != nil {
		return err
	}
	if len(preview.Files) == 0 {
		return fmt.Errorf("no video files found in %s", request.Folder)
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	go func() {
		if _, open := <-signals; open {
			runner.Stop()
		}
	}()

	showBar := !flags.noProgress && shouldColorize(os.Stdout)
	barDone := make(chan struct{})
	if showBar {
		printer.attachBar(len(preview.Files))
		go trackProgress(runner, printer, barDone)
	} else {
		close(barDone)
	}

	summary, err := runner.Run(cmd.Context(), request)
	if showBar {
		close(barDone)
		printer.detachBar()
	}
	signal.Stop(signals)
	close(signals)
	if err != nil {
		return err
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, renderSummary(summary))
	if summary.Status == batch.StatusFailed {
		return errors.New("batch failed")
	}
	return nil
}

func buildRequest(cmd *cobra.Command, ctx *commandContext, folder string, flags runFlags) (batch.Request, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return batch.Request{}, err
	}
	preset, err := ctx.selectProfile(flags.profile)
	if err != nil {
		return batch.Request{}, err
	}

	languageValue := cfg.Transcriber.Language
	if cmd.Flags().Changed("language") {
		languageValue = flags.language
	}
	code, err := language.Resolve(languageValue)
	if err != nil {
		return batch.Request{}, err
	}

	offset := cfg.Subtitles.OffsetSeconds
	if cmd.Flags().Changed("offset") {
		offset = flags.offset
	}
	overwrite := cfg.Subtitles.OverwriteExisting
	if cmd.Flags().Changed("overwrite") {
		overwrite = flags.overwrite
	}
	translate := cfg.Transcriber.Translate
	if cmd.Flags().Changed("translate") {
		translate = flags.translate
	}

	absFolder, err := filepath.Abs(folder)
	if err != nil {
		return batch.Request{}, fmt.Errorf("resolve folder: %w", err)
	}

	return batch.Request{
		Folder:            absFolder,
		Profile:           preset,
		Language:          code,
		Translate:         translate,
		OffsetSeconds:     offset,
		OverwriteExisting: overwrite,
	}, nil
}

func trackProgress(runner *batch.Runner, printer *progressPrinter, done <-chan struct{}) {
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			snap := runner.Snapshot()
			description := "waiting"
			if snap.CurrentFile != "" {
				description = filepath.Base(snap.CurrentFile)
			}
			if eta, ok := runner.ETA(); ok {
				description = fmt.Sprintf("%s (~%s left)", description, formatDuration(eta.Remaining))
			}
			printer.updateBar(snap.FilesProcessed, description)
		}
	}
}

func renderSummary(summary batch.Summary) string {
	rows := [][]string{
		{"Status", string(summary.Status)},
		{"Files", fmt.Sprintf("%d", summary.FilesTotal)},
		{"Processed", fmt.Sprintf("%d", summary.Processed)},
		{"Succeeded", fmt.Sprintf("%d", summary.Succeeded)},
		{"Skipped", fmt.Sprintf("%d", summary.Skipped)},
		{"Failed", fmt.Sprintf("%d", summary.Failed)},
		{"Elapsed", formatDuration(summary.Elapsed)},
	}
	if summary.AvgPerFile > 0 {
		rows = append(rows, []string{"Avg per file", formatDuration(summary.AvgPerFile)})
	}
	return renderTable([]string{"Field", "Value"}, rows, nil, 2)
}

func formatDuration(value time.Duration) string {
	if value <= 0 {
		return "-"
	}
	return value.Round(time.Second).String()
}

func formatMinutes(minutes float64) string {
	return (time.Duration(minutes * float64(time.Minute))).Round(time.Second).String()
}
