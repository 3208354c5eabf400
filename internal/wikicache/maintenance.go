package wikicache

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"
)

// Stats summarizes cache contents.
type Stats struct {
	Entries   int
	Pages     int
	Expired   int
	Oldest    time.Time
	Newest    time.Time
	SizeBytes int64
}

// Stats reports entry counts, age range and the database file size.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	var (
		stats          Stats
		oldest, newest sql.NullInt64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1), COUNT(DISTINCT page), MIN(fetched_at), MAX(fetched_at) FROM responses`,
	).Scan(&stats.Entries, &stats.Pages, &oldest, &newest)
	if err != nil {
		return Stats{}, fmt.Errorf("cache stats: %w", err)
	}
	if oldest.Valid {
		stats.Oldest = time.Unix(oldest.Int64, 0)
	}
	if newest.Valid {
		stats.Newest = time.Unix(newest.Int64, 0)
	}
	if s.ttl > 0 {
		cutoff := s.now().Add(-s.ttl).Unix()
		if err := s.db.QueryRowContext(ctx,
			`SELECT COUNT(1) FROM responses WHERE fetched_at < ?`, cutoff,
		).Scan(&stats.Expired); err != nil {
			return Stats{}, fmt.Errorf("cache stats: %w", err)
		}
	}
	for _, file := range []string{s.path, s.path + "-wal"} {
		if info, err := os.Stat(file); err == nil {
			stats.SizeBytes += info.Size()
		}
	}
	return stats, nil
}

// Clear removes every cached response and returns how many were deleted.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.exec(ctx, `DELETE FROM responses`)
	if err != nil {
		return 0, fmt.Errorf("clear cache: %w", err)
	}
	return res.RowsAffected()
}

// Prune removes responses older than the TTL and returns how many were
// deleted. It is a no-op when entries never expire.
func (s *Store) Prune(ctx context.Context) (int64, error) {
	if s.ttl <= 0 {
		return 0, nil
	}
	cutoff := s.now().Add(-s.ttl).Unix()
	res, err := s.exec(ctx, `DELETE FROM responses WHERE fetched_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune cache: %w", err)
	}
	return res.RowsAffected()
}
