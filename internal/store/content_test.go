package store

import (
	"context"
	"testing"
	"time"

	"blockpress/internal/models"
)

func TestPageStoreFindBySlug(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	lang := testLanguage(t, db, "xa")
	s := NewPageStore(db)

	if _, err := s.Create(ctx, &models.Page{
		LanguageID: lang.ID, Title: "About", Slug: "about", Status: models.ContentStatusPublished,
	}); err != nil {
		t.Fatalf("Create published: %v", err)
	}
	if _, err := s.Create(ctx, &models.Page{
		LanguageID: lang.ID, Title: "Draft", Slug: "draft", Status: models.ContentStatusDraft,
	}); err != nil {
		t.Fatalf("Create draft: %v", err)
	}

	tests := []struct {
		name  string
		slug  string
		found bool
	}{
		{"published", "about", true},
		{"draft is hidden", "draft", false},
		{"missing", "nope", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := s.FindBySlug(ctx, lang.ID, tt.slug)
			if err != nil {
				t.Fatalf("FindBySlug: %v", err)
			}
			if (p != nil) != tt.found {
				t.Fatalf("found: got %v, want %v", p != nil, tt.found)
			}
			if p != nil && p.LanguageID != lang.ID {
				t.Errorf("language: got %d, want %d", p.LanguageID, lang.ID)
			}
		})
	}
}

func TestPostStoreListPublished(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	lang := testLanguage(t, db, "xb")
	s := NewPostStore(db)

	now := time.Now()
	for i, slug := range []string{"oldest", "middle", "newest"} {
		at := now.Add(time.Duration(i) * time.Hour)
		if _, err := s.Create(ctx, &models.Post{
			LanguageID: lang.ID, Title: slug, Slug: slug,
			Status: models.ContentStatusPublished, PublishedAt: &at,
		}); err != nil {
			t.Fatalf("Create %s: %v", slug, err)
		}
	}
	if _, err := s.Create(ctx, &models.Post{
		LanguageID: lang.ID, Title: "draft", Slug: "draft", Status: models.ContentStatusDraft,
	}); err != nil {
		t.Fatalf("Create draft: %v", err)
	}

	count, err := s.CountPublished(ctx, lang.ID)
	if err != nil {
		t.Fatalf("CountPublished: %v", err)
	}
	if count != 3 {
		t.Errorf("count: got %d, want 3", count)
	}

	page, err := s.ListPublished(ctx, lang.ID, 2, 0)
	if err != nil {
		t.Fatalf("ListPublished: %v", err)
	}
	if len(page) != 2 || page[0].Slug != "newest" || page[1].Slug != "middle" {
		t.Errorf("first page: got %v", slugs(page))
	}

	rest, err := s.ListPublished(ctx, lang.ID, 2, 2)
	if err != nil {
		t.Fatalf("ListPublished offset: %v", err)
	}
	if len(rest) != 1 || rest[0].Slug != "oldest" {
		t.Errorf("second page: got %v", slugs(rest))
	}
}

func TestPostStoreCreateSetsPublishedAt(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	lang := testLanguage(t, db, "xc")
	s := NewPostStore(db)

	p, err := s.Create(ctx, &models.Post{
		LanguageID: lang.ID, Title: "Now", Slug: "now", Status: models.ContentStatusPublished,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.PublishedAt == nil {
		t.Error("expected published_at to be set for a published post")
	}

	found, err := s.FindBySlug(ctx, lang.ID, "now")
	if err != nil {
		t.Fatalf("FindBySlug: %v", err)
	}
	if found == nil || found.ID != p.ID {
		t.Fatalf("FindBySlug: got %+v", found)
	}
	if found.FeatureImageKey != nil {
		t.Errorf("expected no feature image, got %q", *found.FeatureImageKey)
	}
}

func TestPostStoreFeatureImageKey(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	lang := testLanguage(t, db, "xd")

	key := "test/feature-" + lang.Code + ".jpg"
	t.Cleanup(func() { cleanMediaByKey(db, key) })
	m, err := NewMediaStore(db).Create(ctx, &models.Media{FileName: "f.jpg", ObjectKey: key})
	if err != nil {
		t.Fatalf("create media: %v", err)
	}

	s := NewPostStore(db)
	p, err := s.Create(ctx, &models.Post{
		LanguageID: lang.ID, Title: "Pic", Slug: "pic",
		Status: models.ContentStatusPublished, FeatureImageID: &m.ID,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.FeatureImageKey == nil || *p.FeatureImageKey != key {
		t.Errorf("feature image key: got %v, want %q", p.FeatureImageKey, key)
	}
}

func slugs(ps []models.Post) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Slug
	}
	return out
}
