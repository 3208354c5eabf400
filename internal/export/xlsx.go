package export

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
)

const (
	maxSheetName     = 31
	defaultSheetName = "Episodes"
)

var sheetNameReplacer = strings.NewReplacer(
	"_", " ",
	":", "-",
	"\\", "-",
	"/", "-",
	"?", "",
	"*", "",
	"[", "(",
	"]", ")",
)

// SheetName returns the worksheet name used for series in an xlsx export.
func SheetName(series string) string {
	name := strings.Trim(strings.TrimSpace(sheetNameReplacer.Replace(series)), "'")
	if utf8.RuneCountInString(name) > maxSheetName {
		name = strings.TrimSpace(string([]rune(name)[:maxSheetName]))
	}
	if name == "" {
		return defaultSheetName
	}
	return name
}

// writeXLSX writes one worksheet named after the series: a header row, then
// one row per episode.
func writeXLSX(w io.Writer, data Dataset) error {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	sheet := SheetName(data.Series)
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("name xlsx sheet: %w", err)
	}

	header := make([]any, 0, len(Columns))
	for _, c := range Columns {
		header = append(header, c)
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write xlsx header: %w", err)
	}

	for i, ep := range data.Episodes {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("xlsx row %d: %w", i+2, err)
		}
		var season any = ""
		if ep.Season > 0 {
			season = ep.Season
		}
		row := []any{season, ep.Title, ep.Plot}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write xlsx row %d: %w", i+2, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("encode xlsx: %w", err)
	}
	return nil
}
