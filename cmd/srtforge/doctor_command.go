package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"srtforge/internal/deps"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	var install bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check that the external tools srtforge depends on are installed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			requirements := deps.Defaults(cfg.Transcriber.Binary, cfg.Transcriber.FFmpegBinary)
			statuses := deps.Check(requirements)

			out := cmd.OutOrStdout()
			colorize := shouldColorize(os.Stdout)

			if install && !transcriberAvailable(statuses) {
				fmt.Fprintln(out, "Transcriber not found, attempting `pip install openai-whisper`...")
				if installErr := deps.InstallTranscriber(cmd.Context()); installErr != nil {
					fmt.Fprintf(out, "Install failed: %v\n", installErr)
				} else {
					statuses = deps.Check(requirements)
				}
			}

			for _, status := range statuses {
				detail := status.Description
				if !status.Available && status.Detail != "" {
					detail = status.Detail
				}
				fmt.Fprintln(out, renderStatusLine(status.Name, status.Available, detail, colorize))
			}

			registry, err := ctx.registry()
			if err != nil {
				return err
			}
			fmt.Fprintln(out, "Model cache:")
			for _, preset := range registry.All() {
				detail := "cached"
				if !deps.ModelCached(preset.Model) {
					detail = "will download on first use"
				}
				fmt.Fprintf(out, "  %-14s %s (%s)\n", preset.Name+":", preset.Model, detail)
			}

			if !deps.AllAvailable(statuses) {
				if install {
					return errors.New("required dependencies still missing")
				}
				return errors.New("required dependencies missing; retry with --install to attempt a pip install")
			}
			fmt.Fprintln(out, "All dependencies available")
			return nil
		},
	}

	cmd.Flags().BoolVar(&install, "install", false, "Attempt to install the transcriber via pip when missing")
	return cmd
}

func transcriberAvailable(statuses []deps.Status) bool {
	for _, status := range statuses {
		if status.Name == "transcriber" {
			return status.Available
		}
	}
	return false
}
