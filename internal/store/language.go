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

// LanguageStore reads content languages.
type LanguageStore struct {
	db *sql.DB
}

// NewLanguageStore creates a new LanguageStore.
func NewLanguageStore(db *sql.DB) *LanguageStore {
	return &LanguageStore{db: db}
}

const languageColumns = `id, code, name, is_default, created_at`

func scanLanguage(scanner interface{ Scan(...any) error }) (*models.Language, error) {
	var l models.Language
	if err := scanner.Scan(&l.ID, &l.Code, &l.Name, &l.IsDefault, &l.CreatedAt); err != nil {
		return nil, err
	}
	return &l, nil
}

// FindByCode returns the language with the given code, or nil.
func (s *LanguageStore) FindByCode(ctx context.Context, code string) (*models.Language, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+languageColumns+` FROM languages WHERE code = $1`, code)
	l, err := scanLanguage(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find language by code: %w", err)
	}
	return l, nil
}

// Default returns the default language, or nil when none is marked.
func (s *LanguageStore) Default(ctx context.Context) (*models.Language, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+languageColumns+` FROM languages WHERE is_default`)
	l, err := scanLanguage(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find default language: %w", err)
	}
	return l, nil
}

// List returns all languages, default first.
func (s *LanguageStore) List(ctx context.Context) ([]models.Language, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+languageColumns+` FROM languages ORDER BY is_default DESC, code
	`)
	if err != nil {
		return nil, fmt.Errorf("list languages: %w", err)
	}
	defer rows.Close()

	var items []models.Language
	for rows.Next() {
		l, err := scanLanguage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan language: %w", err)
		}
		items = append(items, *l)
	}
	return items, rows.Err()
}

// Create inserts a language.
func (s *LanguageStore) Create(ctx context.Context, code, name string, isDefault bool) (*models.Language, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO languages (code, name, is_default) VALUES ($1, $2, $3)
		RETURNING `+languageColumns, code, name, isDefault)
	l, err := scanLanguage(row)
	if err != nil {
		return nil, fmt.Errorf("create language: %w", err)
	}
	return l, nil
}
