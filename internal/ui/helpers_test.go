package ui

import (
	"testing"
	"time"
)

func TestHumanizeTime(t *testing.T) {
	now := time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		in   time.Time
		want string
	}{
		{"zero", time.Time{}, ""},
		{"just_now", now.Add(-20 * time.Second), "now"},
		{"minutes", now.Add(-5 * time.Minute), "5m"},
		{"hours", now.Add(-3 * time.Hour), "3h"},
		{"days", now.Add(-2 * 24 * time.Hour), "2d"},
		{"old", now.Add(-30 * 24 * time.Hour), "Feb 13, 2026"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := humanizeTime(tc.in, now)
			if got != tc.want {
				t.Fatalf("humanizeTime = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("truncate short = %q, want unchanged", got)
	}
	if got := truncate("abcdef", 4); got != "abc…" {
		t.Fatalf("truncate = %q, want abc…", got)
	}
	if got := truncate("abcdef", 0); got != "" {
		t.Fatalf("truncate zero = %q, want empty", got)
	}
	got := truncate("héllo wörld", 6)
	if n := len([]rune(got)); n > 6 {
		t.Fatalf("got %q (%d runes), want <=6", got, n)
	}
}

func TestCountLabel(t *testing.T) {
	if got := countLabel(1, "comment", "comments"); got != "1 comment" {
		t.Fatalf("countLabel = %q, want 1 comment", got)
	}
	if got := countLabel(0, "comment", "comments"); got != "0 comments" {
		t.Fatalf("countLabel = %q, want 0 comments", got)
	}
	if got := countLabel(7, "post", "posts"); got != "7 posts" {
		t.Fatalf("countLabel = %q, want 7 posts", got)
	}
}
