package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"wikiepisodes/internal/logging"
	"wikiepisodes/internal/mediawiki"
	"wikiepisodes/internal/resolver"
	"wikiepisodes/internal/services"
)

// Pipeline extracts episode data for a series through a mediawiki.Fetcher.
type Pipeline struct {
	fetcher     mediawiki.Fetcher
	logger      *slog.Logger
	seasonLimit int
	newRunID    func() string
	now         func() time.Time
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithSeasonLimit processes only the first n season pages. Zero means all.
func WithSeasonLimit(n int) Option {
	return func(p *Pipeline) {
		if n >= 0 {
			p.seasonLimit = n
		}
	}
}

// New constructs a pipeline around fetcher.
func New(fetcher mediawiki.Fetcher, opts ...Option) *Pipeline {
	p := &Pipeline{
		fetcher:  fetcher,
		logger:   logging.NewNop(),
		newRunID: uuid.NewString,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = logging.NewComponentLogger(p.logger, "pipeline")
	return p
}

// Run extracts metadata, genres and episodes for the series article title.
// The returned error is non-nil only when the main article cannot be read or
// the context ends; in the latter case the partial result is returned too.
func (p *Pipeline) Run(ctx context.Context, title string) (*Result, error) {
	if p.fetcher == nil {
		return nil, services.Wrap(services.ErrConfiguration, "pipeline", "run", "fetcher not configured", nil)
	}
	series := mediawiki.NormalizePage(title)
	if series == "" {
		return nil, errors.New("series title must not be empty")
	}

	result := &Result{
		RunID:     p.newRunID(),
		Series:    series,
		StartedAt: p.now(),
	}
	ctx = services.WithRunID(ctx, result.RunID)
	ctx = services.WithSeries(ctx, series)
	logger := logging.WithContext(ctx, p.logger)
	logger.Info("extraction started")

	markup, err := p.fetcher.Wikitext(ctx, series, mediawiki.WholePage)
	if err != nil {
		return nil, fmt.Errorf("fetch series article: %w", err)
	}
	p.resolveMetadata(ctx, result, markup)

	refs, err := resolver.NewSeasonPageResolver(p.fetcher, p.logger).Resolve(ctx, series)
	if err != nil {
		return nil, fmt.Errorf("resolve season pages: %w", err)
	}
	if len(refs) == 0 {
		logging.WarnWithContext(logger, "no season pages found", "no_season_pages",
			logging.String(logging.FieldImpact, "no episodes extracted"),
			logging.String(logging.FieldErrorHint, "check that the article has an Episodes or Series overview section"),
		)
	}
	if p.seasonLimit > 0 && len(refs) > p.seasonLimit {
		refs = refs[:p.seasonLimit]
	}

	extractor := resolver.NewEpisodeSectionExtractor(p.fetcher, p.logger)
	for i, ref := range refs {
		season := p.runSeason(ctx, extractor, result, ref, i+1)
		result.Seasons = append(result.Seasons, season)
		if err := ctx.Err(); err != nil {
			result.FinishedAt = p.now()
			return result, err
		}
	}

	result.FinishedAt = p.now()
	logger.Info("extraction finished",
		logging.Int("season_pages", len(result.Seasons)),
		logging.Int("episodes", len(result.Episodes())),
		logging.Int("issues", len(result.Issues)),
		logging.Duration("duration", result.Duration()),
	)
	return result, nil
}

func (p *Pipeline) resolveMetadata(ctx context.Context, result *Result, markup string) {
	meta, err := resolver.ResolveNumbers(markup)
	result.Metadata = meta
	if err != nil {
		result.MetadataErr = err
		result.addIssue(StageMetadata, "", 0, err)
		logging.WarnWithContext(logging.WithContext(ctx, p.logger), "series counts unavailable", "metadata_malformed",
			logging.Error(err),
			logging.Bool("seasons_ok", !resolver.FieldFailed(err, resolver.FieldSeasons)),
			logging.Bool("episodes_ok", !resolver.FieldFailed(err, resolver.FieldEpisodes)),
			logging.String(logging.FieldImpact, "unreadable counts omitted from the export"),
			logging.String(logging.FieldErrorHint, "inspect the infobox num_seasons and num_episodes fields"),
		)
	}
	result.Genres = resolver.ResolveGenres(markup)
}

func (p *Pipeline) runSeason(ctx context.Context, extractor *resolver.EpisodeSectionExtractor, result *Result, ref resolver.PageRef, season int) SeasonResult {
	ctx = services.WithSeason(services.WithPage(ctx, string(ref)), season)
	logger := logging.WithContext(ctx, p.logger)
	out := SeasonResult{Season: season, Page: ref}

	markup, err := extractor.Extract(ctx, ref)
	if err != nil {
		out.Err = err
		if ctx.Err() == nil {
			result.addIssue(StageSections, ref, season, err)
			logging.WarnWithContext(logger, "season page skipped", "season_skipped",
				logging.Error(err),
				logging.String("error_kind", string(services.Classify(err))),
				logging.String(logging.FieldImpact, "episodes of this season are missing from the result"),
				logging.String(logging.FieldErrorHint, "verify the season page exists and is reachable"),
			)
		}
		return out
	}

	records, err := resolver.BuildRecords(markup, season)
	out.Episodes = records
	if err != nil {
		out.Err = err
		result.addIssue(StageRecords, ref, season, err)
		logging.WarnWithContext(logger, "episode fields out of step", "episode_pairing_mismatch",
			logging.Error(err),
			logging.Int("episodes", len(records)),
			logging.String(logging.FieldImpact, "unpaired episodes dropped"),
			logging.String(logging.FieldErrorHint, "inspect Title and ShortSummary fields on the season page"),
		)
	}
	logger.Debug("season extracted", logging.Int("episodes", len(records)))
	return out
}
