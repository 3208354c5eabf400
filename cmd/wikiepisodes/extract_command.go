package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"wikiepisodes/internal/export"
	"wikiepisodes/internal/pipeline"
	"wikiepisodes/internal/resolver"
)

func newExtractCommand(ctx *commandContext) *cobra.Command {
	var formatFlag string
	var outputDir string
	var toStdout bool
	var seasonLimit int

	cmd := &cobra.Command{
		Use:   "extract <series title>",
		Short: "Extract every episode of a series and export it",
		Long: `Extract resolves the season pages of a series article, pulls the title and
short summary of every episode, and writes them as <series>.<ext> into the
output directory (or to stdout with --stdout).

Problems limited to one season page are reported as warnings; the command only
fails when the series article itself cannot be read.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			if strings.TrimSpace(formatFlag) == "" {
				formatFlag = cfg.Export.Format
			}
			format, err := export.ParseFormat(formatFlag)
			if err != nil {
				return err
			}
			if strings.TrimSpace(outputDir) == "" {
				outputDir = cfg.Paths.OutputDir
			}

			fetcher, closeFetcher, err := ctx.openFetcher()
			if err != nil {
				return err
			}
			defer closeFetcher()

			title := strings.Join(args, " ")
			p := pipeline.New(fetcher, pipeline.WithLogger(logger), pipeline.WithSeasonLimit(seasonLimit))
			result, err := p.Run(cmd.Context(), title)
			if err != nil {
				return fmt.Errorf("extract %q: %w", title, err)
			}

			data := result.Dataset()
			summaryOut := cmd.OutOrStdout()
			destination := ""
			if toStdout {
				if err := export.Write(cmd.OutOrStdout(), format, data); err != nil {
					return err
				}
				summaryOut = cmd.ErrOrStderr()
				destination = "stdout"
			} else {
				path, err := export.WriteFile(outputDir, data, format)
				if err != nil {
					return err
				}
				destination = path
			}

			printRunSummary(summaryOut, result, destination)
			return nil
		},
	}

	cmd.Flags().StringVarP(&formatFlag, "format", "f", "", "Export format: csv, json, markdown, table, xlsx (default from config)")
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "Directory for the export file (default paths.output_dir)")
	cmd.Flags().BoolVar(&toStdout, "stdout", false, "Write the export to stdout instead of a file")
	cmd.Flags().IntVar(&seasonLimit, "seasons", 0, "Process only the first N season pages (0 = all)")
	return cmd
}

func printRunSummary(out io.Writer, result *pipeline.Result, destination string) {
	colorize := shouldColorize(out)
	genres := make([]string, 0, len(result.Genres))
	for _, g := range result.Genres {
		genres = append(genres, string(g))
	}

	counts := formatCounts(result.Metadata, result.MetadataErr)

	fmt.Fprintln(out, renderStatusLine("Series", statusInfo, result.Series, colorize))
	fmt.Fprintln(out, renderStatusLine("Run", statusInfo, result.RunID, colorize))
	fmt.Fprintln(out, renderStatusLine("Infobox", statusInfo, counts, colorize))
	fmt.Fprintln(out, renderStatusLine("Genres", statusInfo, strings.Join(genres, ", "), colorize))
	fmt.Fprintln(out, renderStatusLine("Season pages", statusInfo, strconv.Itoa(len(result.Seasons)), colorize))
	fmt.Fprintln(out, renderStatusLine("Episodes", statusInfo, strconv.Itoa(len(result.Episodes())), colorize))
	fmt.Fprintln(out, renderStatusLine("Output", statusInfo, destination, colorize))

	if result.Complete() {
		fmt.Fprintln(out, renderStatusLine("Status", statusOK, "complete", colorize))
		return
	}
	fmt.Fprintln(out, renderStatusLine("Status", statusWarn, fmt.Sprintf("partial (%d issues)", len(result.Issues)), colorize))

	rows := make([][]string, 0, len(result.Issues))
	for _, issue := range result.Issues {
		season := ""
		if issue.Season > 0 {
			season = strconv.Itoa(issue.Season)
		}
		rows = append(rows, []string{season, string(issue.Page), string(issue.Stage), string(issue.Kind), issue.Err.Error()})
	}
	fmt.Fprintln(out, renderTable("Issues",
		[]string{"Season", "Page", "Stage", "Kind", "Error"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft},
	))
}

// formatCounts renders the infobox counts, marking each unreadable one.
func formatCounts(meta resolver.SeriesMetadata, err error) string {
	seasons, episodes := "?", "?"
	if !resolver.FieldFailed(err, resolver.FieldSeasons) {
		seasons = strconv.Itoa(meta.SeasonCount)
	}
	if !resolver.FieldFailed(err, resolver.FieldEpisodes) {
		episodes = strconv.Itoa(meta.EpisodeCount)
	}
	return seasons + " seasons, " + episodes + " episodes"
}
