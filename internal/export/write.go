package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"wikiepisodes/internal/resolver"
)

// Write encodes data to w in the requested format.
func Write(w io.Writer, format Format, data Dataset) error {
	switch format {
	case FormatCSV:
		return writeCSV(w, data)
	case FormatJSON:
		return writeJSON(w, data)
	case FormatMarkdown:
		_, err := io.WriteString(w, newTable(data).RenderMarkdown()+"\n")
		return err
	case FormatTable:
		_, err := io.WriteString(w, newTable(data).Render()+"\n")
		return err
	case FormatXLSX:
		return writeXLSX(w, data)
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}

func writeCSV(w io.Writer, data Dataset) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, ep := range data.Episodes {
		if err := cw.Write([]string{seasonCell(ep.Season), ep.Title, ep.Plot}); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

func writeJSON(w io.Writer, data Dataset) error {
	if data.Genres == nil {
		data.Genres = []resolver.Genre{}
	}
	if data.Episodes == nil {
		data.Episodes = []resolver.EpisodeRecord{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

func newTable(data Dataset) table.Writer {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	if data.Series != "" {
		tw.SetTitle(data.Series)
	}
	tw.AppendHeader(table.Row{Columns[0], Columns[1], Columns[2]})
	for _, ep := range data.Episodes {
		tw.AppendRow(table.Row{seasonCell(ep.Season), ep.Title, ep.Plot})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 2, WidthMax: 40},
		{Number: 3, WidthMax: 80},
	})
	return tw
}
