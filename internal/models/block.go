// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"encoding/json"
	"time"
)

// Block is one typed content unit of a page or post in a given language.
// Exactly one of PageID and PostID is set. Content is the raw JSON object
// stored in the database; its shape depends on BlockType and is only
// narrowed by the rendering core once the type is known.
type Block struct {
	ID         int64           `json:"id"`
	PageID     *int64          `json:"page_id,omitempty"`
	PostID     *int64          `json:"post_id,omitempty"`
	LanguageID int64           `json:"language_id"`
	BlockType  string          `json:"block_type"`
	Content    json.RawMessage `json:"content"`
	Order      int             `json:"order"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// HasSingleOwner reports whether the block belongs to exactly one page or post.
func (b *Block) HasSingleOwner() bool {
	return (b.PageID != nil) != (b.PostID != nil)
}

// OwnerKind returns "page" or "post", or "" if the owner is ambiguous.
func (b *Block) OwnerKind() string {
	switch {
	case !b.HasSingleOwner():
		return ""
	case b.PageID != nil:
		return "page"
	default:
		return "post"
	}
}
