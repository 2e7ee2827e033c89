package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"srtforge/internal/batch"
	"srtforge/internal/discover"
	"srtforge/internal/history"
	"srtforge/internal/logging"
	"srtforge/internal/services/whisper"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "watch <folder>",
		Short: "Watch a folder and run a batch whenever new video files settle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return watchFolder(cmd, ctx, args[0], flags)
		},
	}

	cmd.Flags().StringVarP(&flags.profile, "profile", "p", "", "Speed profile (ultra_fast, fast, balanced)")
	cmd.Flags().StringVarP(&flags.language, "language", "l", "", "Spoken language, or auto to detect")
	cmd.Flags().Float64Var(&flags.offset, "offset", 0, "Seconds to shift subtitle timestamps by")
	cmd.Flags().BoolVar(&flags.overwrite, "overwrite", false, "Replace existing .srt files")
	cmd.Flags().BoolVar(&flags.translate, "translate", false, "Translate speech to English")

	return cmd
}

func watchFolder(cmd *cobra.Command, ctx *commandContext, folder string, flags runFlags) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	request, err := buildRequest(cmd, ctx, folder, flags)
	if err != nil {
		return err
	}
	if info, statErr := os.Stat(request.Folder); statErr != nil || !info.IsDir() {
		return fmt.Errorf("watch folder %s is not a directory", request.Folder)
	}

	logger, err := ctx.buildLogger()
	if err != nil {
		return err
	}
	logger = logging.WithComponent(logger, "watch")

	store, err := history.Open(cfg.Paths.StateDir)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer store.Close()

	out := cmd.OutOrStdout()
	printer := newProgressPrinter(out, shouldColorize(os.Stdout))
	transcriber := whisper.NewService(cfg.Transcriber.Binary, logger)
	runner := batch.NewRunner(transcriber, store, logger, printer.handle)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()
	// Discovery is recursive, so the watch has to be too.
	if err := watchTree(watcher, request.Folder); err != nil {
		return fmt.Errorf("watch %s: %w", request.Folder, err)
	}

	watchCtx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	settle := time.Duration(cfg.Watch.SettleSeconds) * time.Second
	fmt.Fprintf(out, "Watching %s (settle %s, profile %s). Ctrl-C to stop.\n",
		request.Folder, settle, request.Profile.Name)
	logger.Info("watch started",
		logging.String("folder", request.Folder),
		logging.Duration("settle", settle),
	)

	// The timer stays stopped until a relevant event arrives, then every
	// further event pushes the deadline out again. A batch only starts once
	// the folder has been quiet for the full settle window.
	settleTimer := time.NewTimer(settle)
	if !settleTimer.Stop() {
		<-settleTimer.C
	}
	pending := false

	for {
		select {
		case <-watchCtx.Done():
			runner.Stop()
			logger.Info("watch stopped")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Rename) {
				continue
			}
			if event.Op.Has(fsnotify.Create) {
				if info, statErr := os.Stat(event.Name); statErr == nil && info.IsDir() {
					if addErr := watchTree(watcher, event.Name); addErr != nil {
						logger.Warn("cannot watch new directory",
							logging.String("dir", event.Name),
							logging.Error(addErr),
						)
					}
					continue
				}
			}
			if !discover.IsVideo(event.Name) {
				continue
			}
			logger.Debug("video activity detected", logging.String("file", filepath.Base(event.Name)))
			if !pending {
				fmt.Fprintf(out, "Detected %s, waiting for the folder to settle...\n", filepath.Base(event.Name))
			}
			pending = true
			if !settleTimer.Stop() {
				select {
				case <-settleTimer.C:
				default:
				}
			}
			settleTimer.Reset(settle)

		case <-settleTimer.C:
			if !pending {
				continue
			}
			pending = false
			summary, runErr := runner.Run(watchCtx, request)
			switch {
			case runErr != nil && errors.Is(runErr, batch.ErrNoFiles):
				logger.Info("settled folder had nothing to process")
			case runErr != nil:
				logger.Error("watch batch failed", logging.Error(runErr))
				fmt.Fprintf(out, "Batch failed: %v\n", runErr)
			default:
				fmt.Fprintln(out, renderSummary(summary))
			}

		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			logger.Warn("watcher error", logging.Error(watchErr))
		}
	}
}

// watchTree registers root and every directory beneath it with the watcher.
func watchTree(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !entry.IsDir() {
			return nil
		}
		return watcher.Add(path)
	})
}
