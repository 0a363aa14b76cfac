// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// block.go loads the ordered block lists of pages and posts. The order
// within an owner and language is "order" ascending, then id ascending.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"blockpress/internal/models"
)

// BlockStore reads blocks.
type BlockStore struct {
	db *sql.DB
}

// NewBlockStore creates a new BlockStore.
func NewBlockStore(db *sql.DB) *BlockStore {
	return &BlockStore{db: db}
}

const blockColumns = `id, page_id, post_id, language_id, block_type, content,
	"order", created_at, updated_at`

func scanBlock(scanner interface{ Scan(...any) error }) (*models.Block, error) {
	var b models.Block
	var content []byte
	err := scanner.Scan(
		&b.ID, &b.PageID, &b.PostID, &b.LanguageID, &b.BlockType, &content,
		&b.Order, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	b.Content = content
	return &b, nil
}

// ListByPage returns the blocks of a page in one language.
func (s *BlockStore) ListByPage(ctx context.Context, pageID, languageID int64) ([]models.Block, error) {
	return s.list(ctx, `page_id`, pageID, languageID)
}

// ListByPost returns the blocks of a post in one language.
func (s *BlockStore) ListByPost(ctx context.Context, postID, languageID int64) ([]models.Block, error) {
	return s.list(ctx, `post_id`, postID, languageID)
}

func (s *BlockStore) list(ctx context.Context, ownerColumn string, ownerID, languageID int64) ([]models.Block, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+blockColumns+`
		FROM blocks
		WHERE `+ownerColumn+` = $1 AND language_id = $2
		ORDER BY "order" ASC, id ASC
	`, ownerID, languageID)
	if err != nil {
		return nil, fmt.Errorf("list blocks by %s: %w", ownerColumn, err)
	}
	defer rows.Close()

	var items []models.Block
	for rows.Next() {
		b, err := scanBlock(rows)
		if err != nil {
			return nil, fmt.Errorf("scan block: %w", err)
		}
		items = append(items, *b)
	}
	return items, rows.Err()
}

// Create inserts a block and returns it with the generated ID.
func (s *BlockStore) Create(ctx context.Context, b *models.Block) (*models.Block, error) {
	content := []byte(b.Content)
	if len(content) == 0 {
		content = []byte("{}")
	}
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO blocks (page_id, post_id, language_id, block_type, content, "order")
		VALUES ($1, $2, $3, $4, $5::jsonb, $6)
		RETURNING `+blockColumns,
		b.PageID, b.PostID, b.LanguageID, b.BlockType, string(content), b.Order,
	)
	created, err := scanBlock(row)
	if err != nil {
		return nil, fmt.Errorf("create block: %w", err)
	}
	return created, nil
}

// TypeCount is the number of stored blocks of one type.
type TypeCount struct {
	BlockType string
	Count     int
}

// CountByType returns how many blocks exist per block type, most used first.
func (s *BlockStore) CountByType(ctx context.Context) ([]TypeCount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT block_type, COUNT(*) FROM blocks
		GROUP BY block_type
		ORDER BY COUNT(*) DESC, block_type
	`)
	if err != nil {
		return nil, fmt.Errorf("count blocks by type: %w", err)
	}
	defer rows.Close()

	var counts []TypeCount
	for rows.Next() {
		var c TypeCount
		if err := rows.Scan(&c.BlockType, &c.Count); err != nil {
			return nil, fmt.Errorf("scan block count: %w", err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// ImageRef is an image block's reference to an object in storage.
type ImageRef struct {
	BlockID   int64
	ObjectKey string
}

// ListImageObjectKeys returns the object_key of every image block that has
// one. Nested image blocks inside sections are not included.
func (s *BlockStore) ListImageObjectKeys(ctx context.Context) ([]ImageRef, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, content->>'object_key'
		FROM blocks
		WHERE block_type = 'image' AND COALESCE(content->>'object_key', '') <> ''
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("list image object keys: %w", err)
	}
	defer rows.Close()

	var refs []ImageRef
	for rows.Next() {
		var r ImageRef
		if err := rows.Scan(&r.BlockID, &r.ObjectKey); err != nil {
			return nil, fmt.Errorf("scan image ref: %w", err)
		}
		refs = append(refs, r)
	}
	return refs, rows.Err()
}
