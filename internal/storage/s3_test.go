// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package storage

import "testing"

func TestNewWithoutCredentials(t *testing.T) {
	c, err := New("", "auto", "", "", "media", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c != nil {
		t.Fatal("expected nil client when storage is not configured")
	}

	if _, err := New("https://s3.example.com", "auto", "ak", "sk", "", ""); err == nil {
		t.Fatal("expected error for missing bucket")
	}
}

func TestFileURL(t *testing.T) {
	tests := []struct {
		name      string
		publicURL string
		key       string
		want      string
	}{
		{"path style", "", "uploads/a.jpg", "https://s3.example.com/media/uploads/a.jpg"},
		{"public url", "https://cdn.example.com/", "uploads/a.jpg", "https://cdn.example.com/uploads/a.jpg"},
		{"leading slash", "https://cdn.example.com", "/a.jpg", "https://cdn.example.com/a.jpg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New("https://s3.example.com/", "auto", "ak", "sk", "media", tt.publicURL)
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			if got := c.FileURL(tt.key); got != tt.want {
				t.Errorf("FileURL(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestExtractKey(t *testing.T) {
	c, err := New("https://s3.example.com", "auto", "ak", "sk", "media", "https://cdn.example.com")
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	tests := []struct {
		url    string
		want   string
		wantOK bool
	}{
		{"https://cdn.example.com/a/b.jpg", "a/b.jpg", true},
		{"https://s3.example.com/media/c.png", "c.png", true},
		{"https://elsewhere.example.com/c.png", "", false},
	}
	for _, tt := range tests {
		got, ok := c.ExtractKey(tt.url)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ExtractKey(%q) = (%q, %v), want (%q, %v)", tt.url, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestStaticURL(t *testing.T) {
	u := StaticURL("https://assets.example.com/")
	if got := u.FileURL("/x/y.webp"); got != "https://assets.example.com/x/y.webp" {
		t.Errorf("got %q", got)
	}
}
