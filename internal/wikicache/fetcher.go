package wikicache

import (
	"context"
	"encoding/json"

	"wikiepisodes/internal/logging"
	"wikiepisodes/internal/mediawiki"
)

// Wrap returns a fetcher that serves fresh entries from the cache and stores
// successful responses from next. Cache read or write failures are logged
// and the request goes to next.
func (s *Store) Wrap(next mediawiki.Fetcher) mediawiki.Fetcher {
	return &cachedFetcher{store: s, next: next}
}

type cachedFetcher struct {
	store *Store
	next  mediawiki.Fetcher
}

func (f *cachedFetcher) Sections(ctx context.Context, page string) ([]mediawiki.Section, error) {
	key := entryKey{page: mediawiki.NormalizePage(page), prop: "sections"}
	var sections []mediawiki.Section
	if f.lookupJSON(ctx, key, &sections) {
		return sections, nil
	}
	sections, err := f.next.Sections(ctx, page)
	if err != nil {
		return nil, err
	}
	f.storeJSON(ctx, key, sections)
	return sections, nil
}

func (f *cachedFetcher) Links(ctx context.Context, page string, section mediawiki.SectionIndex) ([]mediawiki.Link, error) {
	key := entryKey{page: mediawiki.NormalizePage(page), prop: "links", section: string(section)}
	var links []mediawiki.Link
	if f.lookupJSON(ctx, key, &links) {
		return links, nil
	}
	links, err := f.next.Links(ctx, page, section)
	if err != nil {
		return nil, err
	}
	f.storeJSON(ctx, key, links)
	return links, nil
}

func (f *cachedFetcher) Wikitext(ctx context.Context, page string, section mediawiki.SectionIndex) (string, error) {
	key := entryKey{page: mediawiki.NormalizePage(page), prop: "wikitext", section: string(section)}
	if payload, ok := f.lookup(ctx, key); ok {
		return payload, nil
	}
	markup, err := f.next.Wikitext(ctx, page, section)
	if err != nil {
		return "", err
	}
	f.store.save(ctx, key, markup)
	return markup, nil
}

func (f *cachedFetcher) lookup(ctx context.Context, key entryKey) (string, bool) {
	payload, ok, err := f.store.get(ctx, key)
	if err != nil {
		f.store.warn(ctx, "cache read failed", key, err)
		return "", false
	}
	if ok {
		logging.WithContext(ctx, f.store.logger).Debug("cache hit",
			logging.String(logging.FieldPage, key.page),
			logging.String("prop", key.prop),
		)
	}
	return payload, ok
}

func (f *cachedFetcher) lookupJSON(ctx context.Context, key entryKey, target any) bool {
	payload, ok := f.lookup(ctx, key)
	if !ok {
		return false
	}
	if err := json.Unmarshal([]byte(payload), target); err != nil {
		f.store.warn(ctx, "cache entry unreadable", key, err)
		return false
	}
	return true
}

func (f *cachedFetcher) storeJSON(ctx context.Context, key entryKey, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		f.store.warn(ctx, "cache entry not encodable", key, err)
		return
	}
	f.store.save(ctx, key, string(data))
}

func (s *Store) save(ctx context.Context, key entryKey, payload string) {
	if err := s.put(ctx, key, payload); err != nil {
		s.warn(ctx, "cache write failed", key, err)
	}
}

func (s *Store) warn(ctx context.Context, msg string, key entryKey, err error) {
	logging.WarnWithContext(logging.WithContext(ctx, s.logger), msg, "cache_degraded",
		logging.String("cache_page", key.page),
		logging.String("prop", key.prop),
		logging.Error(err),
		logging.String(logging.FieldImpact, "response fetched from the wiki instead of the cache"),
		logging.String(logging.FieldErrorHint, "run 'wikiepisodes cache clear' or delete "+s.path),
	)
}
