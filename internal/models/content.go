// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// ContentStatus represents the publishing state of a page or post.
type ContentStatus string

const (
	ContentStatusDraft     ContentStatus = "draft"
	ContentStatusPublished ContentStatus = "published"
	ContentStatusArchived  ContentStatus = "archived"
)

// Page is a block-composed page in one language. Translations of the same
// page share a TranslationGroupID.
type Page struct {
	ID                 int64         `json:"id"`
	LanguageID         int64         `json:"language_id"`
	Title              string        `json:"title"`
	Slug               string        `json:"slug"`
	Status             ContentStatus `json:"status"`
	MetaTitle          *string       `json:"meta_title,omitempty"`
	MetaDescription    *string       `json:"meta_description,omitempty"`
	TranslationGroupID uuid.UUID     `json:"translation_group_id"`
	CreatedAt          time.Time     `json:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at"`
}

// IsPublished returns true if the page is in published status.
func (p *Page) IsPublished() bool {
	return p.Status == ContentStatusPublished
}

// Post is a dated, block-composed article in one language.
type Post struct {
	ID                 int64         `json:"id"`
	LanguageID         int64         `json:"language_id"`
	Title              string        `json:"title"`
	Slug               string        `json:"slug"`
	Excerpt            *string       `json:"excerpt,omitempty"`
	Status             ContentStatus `json:"status"`
	PublishedAt        *time.Time    `json:"published_at,omitempty"`
	MetaTitle          *string       `json:"meta_title,omitempty"`
	MetaDescription    *string       `json:"meta_description,omitempty"`
	TranslationGroupID uuid.UUID     `json:"translation_group_id"`
	FeatureImageID     *uuid.UUID    `json:"feature_image_id,omitempty"`
	FeatureImageKey    *string       `json:"feature_image_key,omitempty"`
	CreatedAt          time.Time     `json:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at"`
}

// IsPublished returns true if the post is in published status.
func (p *Post) IsPublished() bool {
	return p.Status == ContentStatusPublished
}

// Language is a content language. Exactly one language is the default.
type Language struct {
	ID        int64     `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	IsDefault bool      `json:"is_default"`
	CreatedAt time.Time `json:"created_at"`
}
