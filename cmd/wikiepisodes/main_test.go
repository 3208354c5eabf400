package main

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"wikiepisodes/internal/mediawiki"
)

func TestExtractWritesCSV(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"extract", "Test", "Show"}, env.configPath)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	requireContains(t, out, "Test_Show")
	requireContains(t, out, "complete")

	target := filepath.Join(env.cfg.Paths.OutputDir, "test_show.csv")
	requireContains(t, out, target)
	file, err := os.Open(target)
	if err != nil {
		t.Fatalf("open export: %v", err)
	}
	defer file.Close()
	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	want := [][]string{
		{"season", "title", "plot"},
		{"1", "Pilot", `It "begins".`},
		{"1", "Second", "More, with a comma."},
		{"2", "Finale", "It ends."},
	}
	if len(rows) != len(want) {
		t.Fatalf("expected %d rows, got %d: %v", len(want), len(rows), rows)
	}
	for i := range want {
		if strings.Join(rows[i], "|") != strings.Join(want[i], "|") {
			t.Errorf("row %d = %v, want %v", i, rows[i], want[i])
		}
	}
}

func TestExtractUsesCacheOnSecondRun(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, _, err := runCLI(t, []string{"extract", "Test Show"}, env.configPath); err != nil {
		t.Fatalf("first extract: %v", err)
	}
	first := env.server.Requests()
	if first == 0 {
		t.Fatal("expected requests on first run")
	}
	if _, _, err := runCLI(t, []string{"extract", "Test Show"}, env.configPath); err != nil {
		t.Fatalf("second extract: %v", err)
	}
	if env.server.Requests() != first {
		t.Fatalf("expected cached second run, requests went from %d to %d", first, env.server.Requests())
	}

	if _, _, err := runCLI(t, []string{"--no-cache", "extract", "Test Show"}, env.configPath); err != nil {
		t.Fatalf("uncached extract: %v", err)
	}
	if env.server.Requests() != 2*first {
		t.Fatalf("expected --no-cache to refetch everything, got %d requests", env.server.Requests())
	}
}

func TestExtractJSONToStdout(t *testing.T) {
	env := setupCLITestEnv(t)

	out, errOut, err := runCLI(t, []string{"extract", "--stdout", "--format", "json", "Test Show"}, env.configPath)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	var payload struct {
		Series   string `json:"series"`
		Metadata struct {
			SeasonCount int `json:"season_count"`
		} `json:"metadata"`
		Genres   []string `json:"genres"`
		Episodes []struct {
			Season int    `json:"season"`
			Title  string `json:"title"`
		} `json:"episodes"`
	}
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("decode stdout: %v\n%s", err, out)
	}
	if payload.Series != "Test_Show" || payload.Metadata.SeasonCount != 2 || len(payload.Episodes) != 3 {
		t.Fatalf("unexpected payload %+v", payload)
	}
	if strings.Join(payload.Genres, ",") != "Drama,Funny" {
		t.Fatalf("unexpected genres %v", payload.Genres)
	}
	requireContains(t, errOut, "stdout")
}

func TestExtractReportsPartialResult(t *testing.T) {
	env := setupCLITestEnv(t)
	env.wiki.AddPage("Test Show (season 2)", "Cast")
	env.wiki.AddPage("Test Show (season 1)", "Episodes").
		WithWikitext("1", "| Title = Pilot\n| ShortSummary = One.\n| Title = Orphan\n")

	out, _, err := runCLI(t, []string{"extract", "--seasons", "1", "Test Show"}, env.configPath)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	requireContains(t, out, "partial")
	requireContains(t, out, "Issues")
	requireContains(t, out, "malformed_field")
}

func TestExtractMissingSeriesFails(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"extract", "Nonexistent Show"}, env.configPath)
	if err == nil {
		t.Fatal("expected error for missing series")
	}
	requireContains(t, err.Error(), "missingtitle")
}

func TestExtractWritesXLSX(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"extract", "--format", "xlsx", "Test Show"}, env.configPath)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	target := filepath.Join(env.cfg.Paths.OutputDir, "test_show.xlsx")
	info, err := os.Stat(target)
	if err != nil {
		t.Fatalf("expected xlsx export: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("xlsx export is empty")
	}
	requireContains(t, out, "complete")
}

func TestExtractRejectsUnknownFormat(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"extract", "--format", "pdf", "Test Show"}, env.configPath)
	if err == nil {
		t.Fatal("expected error for unsupported format")
	}
	if env.server.Requests() != 0 {
		t.Fatal("format should be validated before fetching")
	}
}

func TestInfoJSON(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"info", "--json", "Test Show"}, env.configPath)
	if err != nil {
		t.Fatalf("info: %v", err)
	}
	var info struct {
		Metadata struct {
			EpisodeCount int `json:"episode_count"`
		} `json:"metadata"`
		SeasonPages []string `json:"season_pages"`
	}
	if err := json.Unmarshal([]byte(out), &info); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if info.Metadata.EpisodeCount != 3 {
		t.Fatalf("unexpected episode count %d", info.Metadata.EpisodeCount)
	}
	if strings.Join(info.SeasonPages, ",") != "Test_Show_(season_1),Test_Show_(season_2)" {
		t.Fatalf("unexpected season pages %v", info.SeasonPages)
	}
}

func TestInfoTable(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"info", "Test Show"}, env.configPath)
	if err != nil {
		t.Fatalf("info: %v", err)
	}
	requireContains(t, out, "Drama, Funny")
	requireContains(t, out, "Test_Show_(season_2)")
}

func TestInfoKeepsReadableCount(t *testing.T) {
	env := setupCLITestEnv(t)
	env.wiki.AddPage("Test Show", "Premise", "Episodes").
		WithWikitext(mediawiki.WholePage, "| genre = Drama\n| num_seasons = 2\n").
		WithLinks("2", "Test Show (season 1)")

	out, _, err := runCLI(t, []string{"info", "Test Show"}, env.configPath)
	if err != nil {
		t.Fatalf("info: %v", err)
	}
	requireContains(t, out, "2 seasons, ? episodes")
	requireContains(t, out, "num_episodes")
}

func TestConfigInitAndShow(t *testing.T) {
	env := setupCLITestEnv(t)

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err := runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected refusal to overwrite existing config")
	}

	out, _, err = runCLI(t, []string{"config", "show"}, env.configPath)
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	requireContains(t, out, env.configPath)
	requireContains(t, out, env.server.APIURL())
}

func TestCacheStatsAndClear(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, _, err := runCLI(t, []string{"extract", "Test Show"}, env.configPath); err != nil {
		t.Fatalf("extract: %v", err)
	}
	out, _, err := runCLI(t, []string{"cache", "stats"}, env.configPath)
	if err != nil {
		t.Fatalf("cache stats: %v", err)
	}
	requireContains(t, out, "Entries")
	requireContains(t, out, "responses.db")

	out, _, err = runCLI(t, []string{"cache", "clear"}, env.configPath)
	if err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	requireContains(t, out, "Removed")
	if strings.Contains(out, "Removed 0 ") {
		t.Fatalf("expected cached entries to be removed, got %q", out)
	}

	out, _, err = runCLI(t, []string{"cache", "prune"}, env.configPath)
	if err != nil {
		t.Fatalf("cache prune: %v", err)
	}
	requireContains(t, out, "Pruned 0")
}

func TestStatusReportsChecks(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"status"}, env.configPath)
	if err != nil {
		t.Fatalf("status: %v\n%s", err, out)
	}
	requireContains(t, out, "Output directory")
	requireContains(t, out, "read/write ok")
	requireContains(t, out, "Fake wiki")
}
