// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"
)

// MaxCacheLogEntries caps how many entries RecentEntries returns.
const MaxCacheLogEntries = 500

// CacheLogEntry is one page cache invalidation: scope "page" with action
// "evict" for a single key, or scope "all" with action "flush".
type CacheLogEntry struct {
	ID            int64
	Scope         string
	Key           string
	Action        string
	InvalidatedAt time.Time
}

// CacheLogStore keeps an audit trail of page cache invalidations. It
// satisfies cache.InvalidationLogger.
type CacheLogStore struct {
	db *sql.DB
}

func NewCacheLogStore(db *sql.DB) *CacheLogStore {
	return &CacheLogStore{db: db}
}

// Log appends an entry. The trail is best effort: a failed insert is
// logged and otherwise ignored, so it never fails an invalidation.
func (s *CacheLogStore) Log(ctx context.Context, scope, key, action string) {
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO cache_invalidation_log (scope, cache_key, action) VALUES ($1, $2, $3)`,
		scope, key, action,
	); err != nil {
		slog.Warn("cache invalidation not recorded", "scope", scope, "key", key, "action", action, "error", err)
	}
}

// RecentEntries returns up to limit entries, newest first. limit is
// clamped to [1, MaxCacheLogEntries].
func (s *CacheLogStore) RecentEntries(ctx context.Context, limit int) ([]CacheLogEntry, error) {
	limit = min(max(limit, 1), MaxCacheLogEntries)

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, scope, cache_key, action, invalidated_at
		FROM cache_invalidation_log
		ORDER BY invalidated_at DESC, id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent cache log entries: %w", err)
	}
	defer rows.Close()

	entries := make([]CacheLogEntry, 0, limit)
	for rows.Next() {
		var e CacheLogEntry
		if err := rows.Scan(&e.ID, &e.Scope, &e.Key, &e.Action, &e.InvalidatedAt); err != nil {
			return nil, fmt.Errorf("scan cache log entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
