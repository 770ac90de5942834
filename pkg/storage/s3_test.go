package storage

import (
	"strings"
	"testing"
)

func TestValidateVideoFileType(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		filename    string
		want        bool
	}{
		{"mp4 by content type", "video/mp4", "clip.bin", true},
		{"content type with params", "video/mp4; codecs=avc1", "clip.bin", true},
		{"quicktime", "video/quicktime", "clip.mov", true},
		{"extension fallback", "application/octet-stream", "clip.webm", true},
		{"uppercase extension", "", "CLIP.MP4", true},
		{"plain text", "text/plain", "notes.txt", false},
		{"no hints", "", "", false},
		{"image", "image/png", "still.png", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateVideoFileType(tt.contentType, tt.filename); got != tt.want {
				t.Errorf("ValidateVideoFileType(%q, %q) = %v, want %v", tt.contentType, tt.filename, got, tt.want)
			}
		})
	}
}

func TestVideoKey(t *testing.T) {
	key := VideoKey("guest-1", "event-2", 1748800000000)
	if key != "guest-1/event-2-1748800000000.mp4" {
		t.Errorf("key = %q", key)
	}
	if strings.Contains(key, "..") {
		t.Errorf("key %q must not traverse", key)
	}
}
