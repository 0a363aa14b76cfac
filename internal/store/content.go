// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"blockpress/internal/models"
)

// PageStore reads pages. Pages are owned by a language and addressed by slug
// within it.
type PageStore struct {
	db *sql.DB
}

// NewPageStore creates a new PageStore with the given database connection.
func NewPageStore(db *sql.DB) *PageStore {
	return &PageStore{db: db}
}

const pageColumns = `id, language_id, title, slug, status, meta_title,
	meta_description, translation_group_id, created_at, updated_at`

func scanPage(scanner interface{ Scan(...any) error }) (*models.Page, error) {
	var p models.Page
	err := scanner.Scan(
		&p.ID, &p.LanguageID, &p.Title, &p.Slug, &p.Status, &p.MetaTitle,
		&p.MetaDescription, &p.TranslationGroupID, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// FindBySlug retrieves a published page by language and slug. Returns nil
// if not found.
func (s *PageStore) FindBySlug(ctx context.Context, languageID int64, slug string) (*models.Page, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+pageColumns+`
		FROM pages
		WHERE language_id = $1 AND slug = $2 AND status = 'published'
	`, languageID, slug)
	p, err := scanPage(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find page by slug: %w", err)
	}
	return p, nil
}

// Create inserts a new page and returns it with the generated ID.
func (s *PageStore) Create(ctx context.Context, p *models.Page) (*models.Page, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO pages (language_id, title, slug, status, meta_title, meta_description)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+pageColumns,
		p.LanguageID, p.Title, p.Slug, p.Status, p.MetaTitle, p.MetaDescription,
	)
	created, err := scanPage(row)
	if err != nil {
		return nil, fmt.Errorf("create page: %w", err)
	}
	return created, nil
}

// PostStore reads posts. Only published posts are visible through the
// listing methods.
type PostStore struct {
	db *sql.DB
}

// NewPostStore creates a new PostStore with the given database connection.
func NewPostStore(db *sql.DB) *PostStore {
	return &PostStore{db: db}
}

// postColumns selects from posts aliased as p, joined to media as m for the
// feature image key.
const postColumns = `p.id, p.language_id, p.title, p.slug, p.excerpt, p.status,
	p.published_at, p.meta_title, p.meta_description, p.translation_group_id,
	p.feature_image_id, m.object_key, p.created_at, p.updated_at`

func scanPost(scanner interface{ Scan(...any) error }) (*models.Post, error) {
	var p models.Post
	err := scanner.Scan(
		&p.ID, &p.LanguageID, &p.Title, &p.Slug, &p.Excerpt, &p.Status,
		&p.PublishedAt, &p.MetaTitle, &p.MetaDescription, &p.TranslationGroupID,
		&p.FeatureImageID, &p.FeatureImageKey, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// FindBySlug retrieves a published post by language and slug. Returns nil
// if not found.
func (s *PostStore) FindBySlug(ctx context.Context, languageID int64, slug string) (*models.Post, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+postColumns+`
		FROM posts p
		LEFT JOIN media m ON m.id = p.feature_image_id
		WHERE p.language_id = $1 AND p.slug = $2 AND p.status = 'published'
	`, languageID, slug)
	p, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by slug: %w", err)
	}
	return p, nil
}

// ListPublished returns published posts in the given language, newest first.
func (s *PostStore) ListPublished(ctx context.Context, languageID int64, limit, offset int) ([]models.Post, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+postColumns+`
		FROM posts p
		LEFT JOIN media m ON m.id = p.feature_image_id
		WHERE p.language_id = $1 AND p.status = 'published'
		ORDER BY p.published_at DESC NULLS LAST, p.id DESC
		LIMIT $2 OFFSET $3
	`, languageID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list published posts: %w", err)
	}
	defer rows.Close()

	var items []models.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		items = append(items, *p)
	}
	return items, rows.Err()
}

// CountPublished returns the number of published posts in the given language.
func (s *PostStore) CountPublished(ctx context.Context, languageID int64) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM posts WHERE language_id = $1 AND status = 'published'
	`, languageID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count published posts: %w", err)
	}
	return count, nil
}

// Create inserts a new post. A published post without PublishedAt gets the
// current time.
func (s *PostStore) Create(ctx context.Context, p *models.Post) (*models.Post, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO posts (language_id, title, slug, excerpt, status, published_at,
		                   meta_title, meta_description, feature_image_id)
		VALUES ($1, $2, $3, $4, $5,
		        CASE WHEN $5 = 'published' THEN COALESCE($6, NOW()) ELSE $6 END,
		        $7, $8, $9)
		RETURNING id
	`, p.LanguageID, p.Title, p.Slug, p.Excerpt, p.Status, p.PublishedAt,
		p.MetaTitle, p.MetaDescription, p.FeatureImageID,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT `+postColumns+`
		FROM posts p
		LEFT JOIN media m ON m.id = p.feature_image_id
		WHERE p.id = $1
	`, id)
	created, err := scanPost(row)
	if err != nil {
		return nil, fmt.Errorf("reload post: %w", err)
	}
	return created, nil
}
