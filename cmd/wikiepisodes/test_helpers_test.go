package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"wikiepisodes/internal/config"
	"wikiepisodes/internal/mediawiki"
	"wikiepisodes/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	wiki       *testsupport.FakeWiki
	server     *testsupport.WikiServer
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	t.Setenv("HOME", t.TempDir())
	t.Setenv("WIKIEPISODES_API_URL", "")
	t.Setenv("WIKIEPISODES_USER_AGENT", "")

	wiki := testsupport.NewFakeWiki()
	wiki.AddPage("Test Show", "Premise", "Episodes").
		WithWikitext(mediawiki.WholePage, "| genre = [[Drama]], [[Comedy|Funny]]\n| num_seasons = 2\n| num_episodes = 3\n").
		WithLinks("2", "Test Show (season 1)", "Test Show (season 2)")
	wiki.AddPage("Test Show (season 1)", "Episodes").
		WithWikitext("1", "| Title = Pilot\n| ShortSummary = It ''begins''.\n| Title = Second\n| ShortSummary = More, with a comma.\n")
	wiki.AddPage("Test Show (season 2)", "Episodes").
		WithWikitext("1", "| Title = [[Finale (Test Show)|Finale]]\n| ShortSummary = It ends.<ref>x</ref>\n")

	server := testsupport.ServeFakeWiki(t, wiki)
	cfg := testsupport.NewConfig(t, testsupport.WithAPIURL(server.APIURL()))
	cfg.Logging.Level = "error"

	configPath := filepath.Join(testsupport.BaseDir(cfg), "config.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{
		cfg:        cfg,
		wiki:       wiki,
		server:     server,
		configPath: configPath,
		baseDir:    testsupport.BaseDir(cfg),
	}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	fullArgs := args
	if configPath != "" {
		fullArgs = append([]string{"--config", configPath}, args...)
	}
	cmd.SetArgs(fullArgs)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected output to contain %q, got:\n%s", needle, haystack)
	}
}
