package models

import "testing"

// TestIsPublished verifies that pages and posts report published only for
// the "published" status.
func TestIsPublished(t *testing.T) {
	tests := []struct {
		name   string
		status ContentStatus
		want   bool
	}{
		{name: "published", status: ContentStatusPublished, want: true},
		{name: "draft", status: ContentStatusDraft, want: false},
		{name: "archived", status: ContentStatusArchived, want: false},
		{name: "empty status", status: ContentStatus(""), want: false},
		{name: "uppercase PUBLISHED", status: ContentStatus("PUBLISHED"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := &Page{Status: tt.status}
			if got := page.IsPublished(); got != tt.want {
				t.Errorf("Page{Status: %q}.IsPublished() = %v, want %v", tt.status, got, tt.want)
			}
			post := &Post{Status: tt.status}
			if got := post.IsPublished(); got != tt.want {
				t.Errorf("Post{Status: %q}.IsPublished() = %v, want %v", tt.status, got, tt.want)
			}
		})
	}
}

// TestContentStatusConstants verifies the values stored in the status column.
func TestContentStatusConstants(t *testing.T) {
	tests := []struct {
		cs       ContentStatus
		expected string
	}{
		{ContentStatusDraft, "draft"},
		{ContentStatusPublished, "published"},
		{ContentStatusArchived, "archived"},
	}

	for _, tt := range tests {
		if string(tt.cs) != tt.expected {
			t.Errorf("ContentStatus = %q, want %q", string(tt.cs), tt.expected)
		}
	}
}
