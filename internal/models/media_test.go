package models

import "testing"

func TestMediaIsImage(t *testing.T) {
	str := func(s string) *string { return &s }

	tests := []struct {
		fileType *string
		want     bool
	}{
		{str("image/jpeg"), true},
		{str("image/svg+xml"), true},
		{str("application/pdf"), false},
		{str("image"), false},
		{str("IMAGE/PNG"), false},
		{nil, false},
	}
	for _, tt := range tests {
		m := &Media{FileType: tt.fileType}
		if got := m.IsImage(); got != tt.want {
			t.Errorf("IsImage(%v) = %v, want %v", tt.fileType, got, tt.want)
		}
	}
}

func TestMediaSize(t *testing.T) {
	tests := []struct {
		bytes int64
		want  string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1 KiB"},
		{284512, "278 KiB"},
		{1 << 20, "1.0 MiB"},
		{2411724, "2.3 MiB"},
	}
	for _, tt := range tests {
		m := &Media{SizeBytes: tt.bytes}
		if got := m.Size(); got != tt.want {
			t.Errorf("Size(%d) = %q, want %q", tt.bytes, got, tt.want)
		}
	}
}

func TestMediaDimensions(t *testing.T) {
	w, h := 1600, 900
	if got := (&Media{Width: &w, Height: &h}).Dimensions(); got != "1600x900" {
		t.Errorf("Dimensions() = %q, want 1600x900", got)
	}
	if got := (&Media{Width: &w}).Dimensions(); got != "-" {
		t.Errorf("Dimensions() with no height = %q, want -", got)
	}
}
