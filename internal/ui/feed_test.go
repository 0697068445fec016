package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/perchapp/perch/internal/api"
)

func TestRenderPostRowImageMarker(t *testing.T) {
	m := Model{theme: GetTheme("Slate"), width: 120}
	now := time.Now()

	withImage := api.Post{
		ID:       1,
		Caption:  "sunset",
		ImageURL: "https://cdn.example/p/1.jpg",
		User:     api.User{Username: "ada"},
	}
	if got := m.renderPostRow(withImage, false, now); !strings.Contains(got, "▣") {
		t.Errorf("row with image = %q, want ▣ marker", got)
	}

	textOnly := api.Post{ID: 2, Caption: "just words", User: api.User{Username: "ada"}}
	if got := m.renderPostRow(textOnly, false, now); strings.Contains(got, "▣") {
		t.Errorf("row without image = %q, want no ▣ marker", got)
	}
}
