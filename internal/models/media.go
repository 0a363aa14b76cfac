// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Media is an uploaded object in storage. Image blocks reference it by ID
// and keep their own copy of the object key and dimensions, so a block
// renders without a media lookup.
type Media struct {
	ID          uuid.UUID `json:"id"`
	FileName    string    `json:"file_name"`
	ObjectKey   string    `json:"object_key"`
	FileType    *string   `json:"file_type,omitempty"`
	SizeBytes   int64     `json:"size_bytes"`
	Width       *int      `json:"width,omitempty"`
	Height      *int      `json:"height,omitempty"`
	BlurDataURL *string   `json:"blur_data_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// IsImage reports whether the stored MIME type is an image type.
func (m *Media) IsImage() bool {
	return m.FileType != nil && strings.HasPrefix(*m.FileType, "image/")
}

// Size formats SizeBytes with a binary unit, for CLI listings.
func (m *Media) Size() string {
	n := float64(m.SizeBytes)
	switch {
	case m.SizeBytes >= 1<<20:
		return fmt.Sprintf("%.1f MiB", n/(1<<20))
	case m.SizeBytes >= 1<<10:
		return fmt.Sprintf("%.0f KiB", n/(1<<10))
	}
	return fmt.Sprintf("%d B", m.SizeBytes)
}

// Dimensions returns "WxH", or "-" when either side is unknown.
func (m *Media) Dimensions() string {
	if m.Width == nil || m.Height == nil {
		return "-"
	}
	return fmt.Sprintf("%dx%d", *m.Width, *m.Height)
}
