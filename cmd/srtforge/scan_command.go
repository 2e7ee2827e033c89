package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"srtforge/internal/discover"
	"srtforge/internal/estimate"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	var profileFlag string

	cmd := &cobra.Command{
		Use:   "scan <folder>",
		Short: "Preview which files a run would process and how long it might take",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			folder, err := filepath.Abs(args[0])
			if err != nil {
				return fmt.Errorf("resolve folder: %w", err)
			}
			info, err := os.Stat(folder)
			if err != nil {
				return fmt.Errorf("folder %s: %w", folder, err)
			}
			if !info.IsDir() {
				return fmt.Errorf("%s is not a directory", folder)
			}
			preset, err := ctx.selectProfile(profileFlag)
			if err != nil {
				return err
			}
			registry, err := ctx.registry()
			if err != nil {
				return err
			}

			files, err := discover.Find(folder)
			if err != nil {
				return fmt.Errorf("scan %s: %w", folder, err)
			}

			out := cmd.OutOrStdout()
			if len(files) == 0 {
				fmt.Fprintf(out, "No video files found in %s\n", folder)
				return nil
			}

			rows := make([][]string, 0, len(files))
			for _, file := range files {
				relative, relErr := filepath.Rel(folder, file.Path)
				if relErr != nil {
					relative = file.Path
				}
				existing := ""
				if _, statErr := os.Stat(discover.SubtitlePath(file.Path)); statErr == nil {
					existing = "yes"
				}
				rows = append(rows, []string{
					relative,
					humanize.IBytes(uint64(file.Size)),
					existing,
				})
			}
			footer := []string{
				fmt.Sprintf("%d files", len(files)),
				humanize.IBytes(uint64(discover.TotalSize(files))),
				"",
			}
			fmt.Fprintln(out, renderTable([]string{"File", "Size", "Has subtitle"}, rows, footer, 2))

			average := discover.TotalSize(files) / int64(len(files))
			fmt.Fprintf(out, "Average file size: %s\n", humanize.IBytes(uint64(average)))

			fmt.Fprintln(out)
			fmt.Fprintln(out, "Estimated processing time (size-based, approximate):")
			for _, candidate := range registry.All() {
				marker := " "
				if candidate.Name == preset.Name {
					marker = "*"
				}
				minutes := estimate.TotalMinutes(files, candidate)
				fmt.Fprintf(out, "%s %-10s %s\n", marker, candidate.Name, formatMinutes(minutes))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&profileFlag, "profile", "p", "", "Speed profile used for the estimate")
	return cmd
}
