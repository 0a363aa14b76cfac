// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"blockpress/internal/models"
)

// MediaStore reads and writes media rows. The objects themselves live in
// the bucket under ObjectKey.
type MediaStore struct {
	db *sql.DB
}

func NewMediaStore(db *sql.DB) *MediaStore {
	return &MediaStore{db: db}
}

const mediaColumns = `id, file_name, object_key, file_type, size_bytes,
	width, height, blur_data_url, created_at`

func scanMedia(scanner interface{ Scan(...any) error }) (*models.Media, error) {
	var m models.Media
	if err := scanner.Scan(
		&m.ID, &m.FileName, &m.ObjectKey, &m.FileType, &m.SizeBytes,
		&m.Width, &m.Height, &m.BlurDataURL, &m.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &m, nil
}

// Create inserts m and returns the stored row.
func (s *MediaStore) Create(ctx context.Context, m *models.Media) (*models.Media, error) {
	created, err := scanMedia(s.db.QueryRowContext(ctx, `
		INSERT INTO media (file_name, object_key, file_type, size_bytes, width, height, blur_data_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+mediaColumns,
		m.FileName, m.ObjectKey, m.FileType, m.SizeBytes, m.Width, m.Height, m.BlurDataURL,
	))
	if err != nil {
		return nil, fmt.Errorf("create media %s: %w", m.ObjectKey, err)
	}
	return created, nil
}

// FindByID returns the media row with the given ID, or nil.
func (s *MediaStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Media, error) {
	m, err := scanMedia(s.db.QueryRowContext(ctx, `SELECT `+mediaColumns+` FROM media WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find media %s: %w", id, err)
	}
	return m, nil
}

// List returns every media row, oldest first.
func (s *MediaStore) List(ctx context.Context) ([]models.Media, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+mediaColumns+` FROM media ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list media: %w", err)
	}
	defer rows.Close()

	var out []models.Media
	for rows.Next() {
		m, err := scanMedia(rows)
		if err != nil {
			return nil, fmt.Errorf("scan media: %w", err)
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}

// Delete removes the row and returns it, or nil if there was none. Posts
// using it as a feature image lose the reference; image blocks keep their
// copied object key.
func (s *MediaStore) Delete(ctx context.Context, id uuid.UUID) (*models.Media, error) {
	m, err := scanMedia(s.db.QueryRowContext(ctx,
		`DELETE FROM media WHERE id = $1 RETURNING `+mediaColumns, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("delete media %s: %w", id, err)
	}
	return m, nil
}
