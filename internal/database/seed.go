package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// seedBlock is one block of the seeded home page.
type seedBlock struct {
	blockType string
	content   string
}

// seedHomeBlocks exercises every built-in block type.
var seedHomeBlocks = []seedBlock{
	{"hero", `{
		"container_type": "container",
		"min_height": "60vh",
		"padding": {"top": "xl", "bottom": "xl"},
		"column_blocks": [[
			{"block_type": "heading", "content": {"level": 1, "text_content": "Welcome to BlockPress"}},
			{"block_type": "text", "content": {"html_content": "<p>Pages are built from blocks.</p>"}},
			{"block_type": "button", "content": {"text": "Read the blog", "url": "/en/blog/hello-world", "variant": "default", "size": "lg"}}
		]]
	}`},
	{"heading", `{"level": 2, "text_content": "What is in a page"}`},
	{"text", `{"markdown": "Every block has a **type** and a JSON payload.\n\n- hero\n- text\n- image\n- posts grid"}`},
	{"image", `{"media_id": "%s", "object_key": "seed/lake.jpg", "alt_text": "A mountain lake", "caption": "Sample image", "width": 1600, "height": 900}`},
	{"section", `{
		"container_type": "container-lg",
		"responsive_columns": {"mobile": 1, "tablet": 2, "desktop": 2},
		"column_gap": "lg",
		"padding": {"top": "lg", "bottom": "lg"},
		"column_blocks": [
			[{"block_type": "heading", "content": {"level": 3, "text_content": "Critical"}},
			 {"block_type": "text", "content": {"html_content": "<p>The hero renders without waiting.</p>"}}],
			[{"block_type": "heading", "content": {"level": 3, "text_content": "Deferred"}},
			 {"block_type": "text", "content": {"html_content": "<p>Other renderers load on first use.</p>"}}]
		]
	}`},
	{"posts_grid", `{"postsPerPage": 6, "columns": 3, "showPagination": true, "title": "Latest posts"}`},
	{"button", `{"text": "Contact", "url": "mailto:hello@example.com", "variant": "outline"}`},
}

// Seed populates the database with initial development data: the default
// language, a published home page using every block type, and two posts.
// It does nothing if a language already exists.
func Seed(ctx context.Context, db *sql.DB) error {
	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM languages").Scan(&count); err != nil {
		return fmt.Errorf("seed check languages: %w", err)
	}
	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed begin: %w", err)
	}
	defer tx.Rollback()

	var langID int64
	if err := tx.QueryRowContext(ctx, `
		INSERT INTO languages (code, name, is_default) VALUES ('en', 'English', TRUE)
		RETURNING id
	`).Scan(&langID); err != nil {
		return fmt.Errorf("seed language: %w", err)
	}

	var mediaID string
	if err := tx.QueryRowContext(ctx, `
		INSERT INTO media (file_name, object_key, file_type, size_bytes, width, height)
		VALUES ('lake.jpg', 'seed/lake.jpg', 'image/jpeg', 284512, 1600, 900)
		RETURNING id
	`).Scan(&mediaID); err != nil {
		return fmt.Errorf("seed media: %w", err)
	}

	var pageID int64
	if err := tx.QueryRowContext(ctx, `
		INSERT INTO pages (language_id, title, slug, status, meta_description)
		VALUES ($1, 'Home', 'home', 'published', 'A page built from blocks.')
		RETURNING id
	`, langID).Scan(&pageID); err != nil {
		return fmt.Errorf("seed home page: %w", err)
	}

	for i, b := range seedHomeBlocks {
		content := b.content
		if b.blockType == "image" {
			content = fmt.Sprintf(content, mediaID)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO blocks (page_id, language_id, block_type, content, "order")
			VALUES ($1, $2, $3, $4::jsonb, $5)
		`, pageID, langID, b.blockType, content, i); err != nil {
			return fmt.Errorf("seed home block %d (%s): %w", i, b.blockType, err)
		}
	}

	posts := []struct{ title, slug, excerpt, body string }{
		{"Hello, world", "hello-world", "The first post.", "<p>This post is made of a single text block.</p>"},
		{"Blocks and renderers", "blocks-and-renderers", "How pages are put together.", "<p>Each block type has one renderer.</p>"},
	}
	for i, p := range posts {
		var postID int64
		if err := tx.QueryRowContext(ctx, `
			INSERT INTO posts (language_id, title, slug, excerpt, status, published_at, feature_image_id)
			VALUES ($1, $2, $3, $4, 'published', NOW() - ($5::int * INTERVAL '1 day'), $6)
			RETURNING id
		`, langID, p.title, p.slug, p.excerpt, i, mediaID).Scan(&postID); err != nil {
			return fmt.Errorf("seed post %s: %w", p.slug, err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO blocks (post_id, language_id, block_type, content, "order")
			VALUES ($1, $2, 'text', jsonb_build_object('html_content', $3::text), 0)
		`, postID, langID, p.body); err != nil {
			return fmt.Errorf("seed post block %s: %w", p.slug, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed commit: %w", err)
	}

	slog.Info("database seeded", "language", "en", "page", "home", "blocks", len(seedHomeBlocks), "posts", len(posts))
	return nil
}
