// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestCacheLogRoundTrip(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	s := NewCacheLogStore(db)

	evicted := "en:post:" + uuid.NewString()
	flushed := "flush-" + uuid.NewString()
	t.Cleanup(func() {
		db.Exec(`DELETE FROM cache_invalidation_log WHERE cache_key IN ($1, $2)`, evicted, flushed)
	})

	s.Log(ctx, "page", evicted, "evict")
	s.Log(ctx, "all", flushed, "flush")

	entries, err := s.RecentEntries(ctx, 50)
	if err != nil {
		t.Fatalf("RecentEntries: %v", err)
	}

	byKey := make(map[string]CacheLogEntry)
	for i, e := range entries {
		byKey[e.Key] = e
		if i > 0 && e.InvalidatedAt.After(entries[i-1].InvalidatedAt) {
			t.Errorf("entry %d is newer than entry %d", i, i-1)
		}
	}
	if e, ok := byKey[evicted]; !ok || e.Scope != "page" || e.Action != "evict" {
		t.Errorf("evict entry = %+v, found %v", e, ok)
	}
	if e, ok := byKey[flushed]; !ok || e.Scope != "all" || e.Action != "flush" {
		t.Errorf("flush entry = %+v, found %v", e, ok)
	}
}

func TestCacheLogLimitClamped(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	s := NewCacheLogStore(db)

	key := "clamp-" + uuid.NewString()
	t.Cleanup(func() { db.Exec(`DELETE FROM cache_invalidation_log WHERE cache_key = $1`, key) })
	s.Log(ctx, "page", key, "evict")

	entries, err := s.RecentEntries(ctx, 0)
	if err != nil {
		t.Fatalf("RecentEntries: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("RecentEntries(0) returned %d entries, want 1", len(entries))
	}
}
