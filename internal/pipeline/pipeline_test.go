package pipeline_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"wikiepisodes/internal/logging"
	"wikiepisodes/internal/pipeline"
	"wikiepisodes/internal/resolver"
	"wikiepisodes/internal/services"
	"wikiepisodes/internal/testsupport"
)

const mainArticle = `{{Infobox television
| genre = [[Drama]], [[Comedy|Funny]]
| num_seasons = 3
| num_episodes = 6
}}`

func seasonMarkup(titles ...string) string {
	out := ""
	for _, title := range titles {
		out += "{{Episode list\n | Title = " + title + "\n | ShortSummary = About " + title + ".\n}}\n"
	}
	return out
}

func newWiki(t *testing.T) *testsupport.FakeWiki {
	t.Helper()
	wiki := testsupport.NewFakeWiki()
	wiki.AddPage("Show", "Premise", "Episodes", "Reception").
		WithWikitext("", mainArticle).
		WithLinks("2", "Show (season 1)", "Show (season 2)", "Show (season 3)", "Creator")
	wiki.AddPage("Show (season 1)", "Cast", "Episodes").
		WithWikitext("2", seasonMarkup("One", "Two"))
	wiki.AddPage("Show (season 2)", "Episodes").
		WithWikitext("1", seasonMarkup("Three", "Four"))
	wiki.AddPage("Show (season 3)", "Episodes").
		WithWikitext("1", seasonMarkup("Five", "Six"))
	return wiki
}

func TestRunExtractsAllSeasons(t *testing.T) {
	wiki := newWiki(t)

	result, err := pipeline.New(wiki, pipeline.WithLogger(logging.NewNop())).Run(context.Background(), "Show")
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if _, err := uuid.Parse(result.RunID); err != nil {
		t.Fatalf("expected uuid run id, got %q", result.RunID)
	}
	if result.Series != "Show" {
		t.Fatalf("unexpected series %q", result.Series)
	}
	if result.Metadata != (resolver.SeriesMetadata{SeasonCount: 3, EpisodeCount: 6}) {
		t.Fatalf("unexpected metadata %+v", result.Metadata)
	}
	if len(result.Genres) != 2 || result.Genres[0] != "Drama" || result.Genres[1] != "Funny" {
		t.Fatalf("unexpected genres %v", result.Genres)
	}
	if !result.Complete() {
		t.Fatalf("expected complete result, issues: %v", result.Issues)
	}

	episodes := result.Episodes()
	wantTitles := []string{"One", "Two", "Three", "Four", "Five", "Six"}
	wantSeasons := []int{1, 1, 2, 2, 3, 3}
	if len(episodes) != len(wantTitles) {
		t.Fatalf("expected %d episodes, got %d", len(wantTitles), len(episodes))
	}
	for i, ep := range episodes {
		if ep.Title != wantTitles[i] || ep.Season != wantSeasons[i] {
			t.Errorf("episode %d = %+v", i, ep)
		}
		if ep.Plot != "About "+wantTitles[i]+"." {
			t.Errorf("episode %d plot = %q", i, ep.Plot)
		}
	}
	if result.Duration() < 0 {
		t.Fatalf("negative duration %v", result.Duration())
	}
}

func TestRunIsolatesSeasonFailure(t *testing.T) {
	wiki := newWiki(t)
	wiki.Fail("Show (season 2)", services.Wrap(services.ErrTransient, "mediawiki", "request", "status 503", nil))

	result, err := pipeline.New(wiki).Run(context.Background(), "Show")
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if result.Complete() {
		t.Fatal("expected partial result")
	}
	if len(result.Issues) != 1 {
		t.Fatalf("expected one issue, got %v", result.Issues)
	}
	issue := result.Issues[0]
	if issue.Season != 2 || issue.Page != "Show_(season_2)" || issue.Kind != services.KindTransportFailure {
		t.Fatalf("unexpected issue %+v", issue)
	}
	if issue.Stage != pipeline.StageSections {
		t.Fatalf("unexpected stage %q", issue.Stage)
	}

	episodes := result.Episodes()
	if len(episodes) != 4 {
		t.Fatalf("expected 4 episodes, got %d", len(episodes))
	}
	if episodes[2].Title != "Five" || episodes[2].Season != 3 {
		t.Fatalf("season numbering should stay positional, got %+v", episodes[2])
	}
	if len(result.Seasons) != 3 || result.Seasons[1].Err == nil {
		t.Fatalf("expected failed season to be listed, got %+v", result.Seasons)
	}
}

func TestRunMissingSeriesIsFatal(t *testing.T) {
	wiki := testsupport.NewFakeWiki()

	result, err := pipeline.New(wiki).Run(context.Background(), "Unknown Show")
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if result != nil {
		t.Fatalf("expected nil result, got %+v", result)
	}
}

func TestRunRejectsEmptyTitle(t *testing.T) {
	if _, err := pipeline.New(testsupport.NewFakeWiki()).Run(context.Background(), "  "); err == nil {
		t.Fatal("expected error for empty title")
	}
}

func TestRunRecordsMalformedMetadata(t *testing.T) {
	wiki := newWiki(t)
	wiki.AddPage("Show", "Episodes").
		WithWikitext("", "| genre = Drama\n| num_seasons = TBA\n").
		WithLinks("1", "Show (season 1)")

	result, err := pipeline.New(wiki).Run(context.Background(), "Show")
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if !errors.Is(result.MetadataErr, services.ErrMalformed) {
		t.Fatalf("expected malformed metadata, got %v", result.MetadataErr)
	}
	if len(result.Issues) != 1 || result.Issues[0].Kind != services.KindMalformedField {
		t.Fatalf("unexpected issues %v", result.Issues)
	}
	if len(result.Episodes()) != 2 {
		t.Fatalf("expected episodes despite malformed metadata, got %d", len(result.Episodes()))
	}
	if result.Dataset().Metadata != nil {
		t.Fatal("dataset should omit unreadable metadata")
	}
}

func TestRunKeepsReadableCount(t *testing.T) {
	wiki := newWiki(t)
	wiki.AddPage("Show", "Episodes").
		WithWikitext("", "| num_seasons = 3\n").
		WithLinks("1", "Show (season 1)")

	result, err := pipeline.New(wiki).Run(context.Background(), "Show")
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if result.Metadata.SeasonCount != 3 {
		t.Fatalf("expected season count 3, got %+v", result.Metadata)
	}
	if !resolver.FieldFailed(result.MetadataErr, resolver.FieldEpisodes) {
		t.Fatalf("expected num_episodes failure, got %v", result.MetadataErr)
	}
}

func TestRunKeepsPairedRecordsOnMismatch(t *testing.T) {
	wiki := newWiki(t)
	wiki.AddPage("Show (season 1)", "Episodes").
		WithWikitext("1", seasonMarkup("One")+"| Title = Dangling\n")

	result, err := pipeline.New(wiki).Run(context.Background(), "Show")
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(result.Issues) != 1 || result.Issues[0].Stage != pipeline.StageRecords {
		t.Fatalf("unexpected issues %v", result.Issues)
	}
	var pairing *resolver.PairingError
	if !errors.As(result.Issues[0].Err, &pairing) {
		t.Fatalf("expected pairing error, got %v", result.Issues[0].Err)
	}
	if got := result.Seasons[0].Episodes; len(got) != 1 || got[0].Title != "One" {
		t.Fatalf("expected paired record kept, got %+v", got)
	}
}

func TestRunSeasonLimit(t *testing.T) {
	wiki := newWiki(t)

	result, err := pipeline.New(wiki, pipeline.WithSeasonLimit(1)).Run(context.Background(), "Show")
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(result.Seasons) != 1 || len(result.Episodes()) != 2 {
		t.Fatalf("expected only first season, got %+v", result.Seasons)
	}
	if wiki.PageCalls("Show (season 2)") != 0 {
		t.Fatal("season 2 should not be fetched")
	}
}

func TestRunStopsOnCancellation(t *testing.T) {
	wiki := newWiki(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := pipeline.New(wiki).Run(ctx, "Show")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if result == nil || len(result.Seasons) != 1 {
		t.Fatalf("expected partial result with one season, got %+v", result)
	}
}

func TestDatasetIncludesMetadata(t *testing.T) {
	result, err := pipeline.New(newWiki(t)).Run(context.Background(), "Show")
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	data := result.Dataset()
	if data.Series != "Show" || data.Metadata == nil || data.Metadata.SeasonCount != 3 {
		t.Fatalf("unexpected dataset %+v", data)
	}
	if len(data.Episodes) != 6 {
		t.Fatalf("expected 6 episodes, got %d", len(data.Episodes))
	}
}
