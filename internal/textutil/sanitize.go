package textutil

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// fileNameReplacer replaces filesystem-unsafe characters with safe alternatives.
var fileNameReplacer = strings.NewReplacer(
	"/", "-",
	"\\", "-",
	":", "-",
	"*", "-",
	"?", "",
	"\"", "",
	"<", "",
	">", "",
	"|", "",
	"\x00", "",
)

// SanitizeFileName replaces filesystem-unsafe characters in a filename.
// Slashes, backslashes, colons, and asterisks become dashes; other unsafe
// characters are removed. The result is trimmed of leading/trailing whitespace.
func SanitizeFileName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	return strings.TrimSpace(fileNameReplacer.Replace(name))
}

// ExportStem returns the lowercased, sanitized base name used for an export
// file. Leading dots are dropped so the result is never hidden or relative.
// Returns "series" when nothing usable remains.
func ExportStem(series string) string {
	stem := SanitizeFileName(cases.Lower(language.Und).String(series))
	stem = strings.TrimLeft(stem, ". ")
	if stem == "" {
		return "series"
	}
	return stem
}
