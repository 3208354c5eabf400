package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"wikiepisodes/internal/mediawiki"
	"wikiepisodes/internal/resolver"
)

type seriesInfo struct {
	Series      string                   `json:"series"`
	Metadata    *resolver.SeriesMetadata `json:"metadata,omitempty"`
	MetadataErr string                   `json:"metadata_error,omitempty"`
	Genres      []resolver.Genre         `json:"genres"`
	SeasonPages []resolver.PageRef       `json:"season_pages"`

	metadataErr error
}

func newInfoCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "info <series title>",
		Short: "Show infobox metadata and season pages without extracting episodes",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			fetcher, closeFetcher, err := ctx.openFetcher()
			if err != nil {
				return err
			}
			defer closeFetcher()

			series := mediawiki.NormalizePage(strings.Join(args, " "))
			markup, err := fetcher.Wikitext(cmd.Context(), series, mediawiki.WholePage)
			if err != nil {
				return fmt.Errorf("fetch series article: %w", err)
			}
			refs, err := resolver.NewSeasonPageResolver(fetcher, logger).Resolve(cmd.Context(), series)
			if err != nil {
				return fmt.Errorf("resolve season pages: %w", err)
			}

			info := seriesInfo{
				Series:      series,
				Genres:      resolver.ResolveGenres(markup),
				SeasonPages: refs,
			}
			meta, metaErr := resolver.ResolveNumbers(markup)
			info.Metadata = &meta
			if metaErr != nil {
				info.MetadataErr = metaErr.Error()
				info.metadataErr = metaErr
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(info)
			}
			renderSeriesInfo(cmd, info)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func renderSeriesInfo(cmd *cobra.Command, info seriesInfo) {
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)

	fmt.Fprintln(out, renderStatusLine("Infobox", statusInfo, formatCounts(*info.Metadata, info.metadataErr), colorize))
	if info.MetadataErr != "" {
		fmt.Fprintln(out, renderStatusLine("Infobox issue", statusWarn, info.MetadataErr, colorize))
	}
	genres := make([]string, 0, len(info.Genres))
	for _, g := range info.Genres {
		genres = append(genres, string(g))
	}
	fmt.Fprintln(out, renderStatusLine("Genres", statusInfo, strings.Join(genres, ", "), colorize))

	if len(info.SeasonPages) == 0 {
		fmt.Fprintln(out, renderStatusLine("Season pages", statusWarn, "none found", colorize))
		return
	}
	rows := make([][]string, 0, len(info.SeasonPages))
	for i, ref := range info.SeasonPages {
		rows = append(rows, []string{strconv.Itoa(i + 1), string(ref)})
	}
	fmt.Fprintln(out, renderTable(strings.ReplaceAll(info.Series, "_", " "),
		[]string{"Season", "Page"}, rows, []columnAlignment{alignRight, alignLeft}))
}
