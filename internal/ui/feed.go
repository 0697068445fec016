package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/perchapp/perch/internal/api"
	"github.com/perchapp/perch/internal/pager"
	"github.com/perchapp/perch/internal/toggle"
)

// feedState is the home timeline: a paginated post loader plus a cursor.
type feedState struct {
	loader   pager.Loader[api.Post]
	selected int
}

func likeKey(postID int64) string {
	return fmt.Sprintf("like:%d", postID)
}

func findPost(items []api.Post, id int64) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}

// beginLike starts an optimistic like toggle for p. The on-screen copy flips
// immediately; the server response settles it later.
func (m *Model) beginLike(p api.Post) tea.Cmd {
	if !m.requireAuth() {
		return nil
	}
	ch, ok := m.toggles.Begin(likeKey(p.ID), p.IsLiked, p.LikesCount)
	if !ok {
		return nil
	}
	m.applyLikeChange(p.ID, ch)
	return toggleLikeCmd(m.ctx, m.client, p.ID)
}

// applyLikeChange pushes a like state change into every place the post is
// currently displayed.
func (m *Model) applyLikeChange(postID int64, ch toggle.Change) {
	for _, l := range []*pager.Loader[api.Post]{&m.feed.loader, &m.profile.loader} {
		if i := findPost(l.Items(), postID); i >= 0 {
			p := l.Items()[i]
			p.IsLiked = ch.Active
			p.LikesCount = ch.Count
			l.SetItem(i, p)
		}
	}
	if m.thread.post.ID == postID {
		m.thread.post.IsLiked = ch.Active
		m.thread.post.LikesCount = ch.Count
	}
}

func (m Model) handleFeedKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	items := m.feed.loader.Items()

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.feed.selected > 0 {
			m.feed.selected--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.feed.selected < len(items)-1 {
			m.feed.selected++
		}
		// Nearing the end of what is loaded pulls the next page in.
		if len(items)-m.feed.selected <= 3 {
			if req, ok := m.feed.loader.LoadNext(); ok {
				return m, fetchFeedPageCmd(m.ctx, m.client, req, m.perPage(), false)
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.Top):
		m.feed.selected = 0
		return m, nil

	case key.Matches(msg, m.keys.Bottom):
		if len(items) > 0 {
			m.feed.selected = len(items) - 1
		}
		if req, ok := m.feed.loader.LoadNext(); ok {
			return m, fetchFeedPageCmd(m.ctx, m.client, req, m.perPage(), false)
		}
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		if req, ok := m.feed.loader.Refresh(); ok {
			return m, fetchFeedPageCmd(m.ctx, m.client, req, m.perPage(), false)
		}
		return m, nil

	case key.Matches(msg, m.keys.Like):
		if m.feed.selected < len(items) {
			return m, m.beginLike(items[m.feed.selected])
		}
		return m, nil

	case key.Matches(msg, m.keys.OpenThread):
		if m.feed.selected < len(items) {
			return m, m.openThread(items[m.feed.selected])
		}
		return m, nil

	case key.Matches(msg, m.keys.OpenProfile):
		if m.feed.selected < len(items) {
			return m, m.openProfile(items[m.feed.selected].User.Username)
		}
		return m, nil

	case key.Matches(msg, m.keys.Compose):
		if !m.requireAuth() {
			return m, nil
		}
		m.forms = newComposeForm()
		m.currentView = ViewCompose
		return m, nil
	}

	return m, nil
}

func (m Model) handleFeedPage(msg feedPageMsg) (tea.Model, tea.Cmd) {
	outcome := m.feed.loader.Apply(msg.req, msg.page, msg.err)

	switch outcome {
	case pager.Stale:
		return m, nil

	case pager.Errored:
		if msg.auto {
			m.pollFailures++
		} else {
			m.handleActionError(msg.err, "Feed")
		}
		return m, nil
	}

	if msg.auto {
		m.pollFailures = 0
	} else if outcome == pager.Unchanged {
		m.toast.show("Feed is up to date", toastInfo)
	}

	if n := len(m.feed.loader.Items()); n == 0 {
		m.feed.selected = 0
	} else if m.feed.selected >= n {
		m.feed.selected = n - 1
	}
	return m, nil
}

func (m Model) handleLikeResult(msg likeResultMsg) (tea.Model, tea.Cmd) {
	id := likeKey(msg.postID)

	if msg.err != nil {
		if ch, ok := m.toggles.Revert(id); ok {
			m.applyLikeChange(msg.postID, ch)
		}
		m.handleActionError(msg.err, "Like")
		return m, nil
	}

	if ch, ok := m.toggles.Confirm(id, msg.resp.Liked, msg.resp.LikesCount, true); ok {
		m.applyLikeChange(msg.postID, ch)
	}
	return m, nil
}

func (m Model) renderFeed() string {
	styles := m.theme.Styles()
	items := m.feed.loader.Items()

	if len(items) == 0 {
		switch m.feed.loader.Status() {
		case pager.StatusIdle, pager.StatusLoadingInitial:
			return styles.MutedText.Render("Loading feed...")
		case pager.StatusError:
			return styles.DangerText.Render("Could not load the feed. Press r to retry.")
		default:
			return styles.MutedText.Render("No posts yet. Press n to share something.")
		}
	}

	height := m.contentHeight()
	start := 0
	if m.feed.selected >= height {
		start = m.feed.selected - height + 1
	}
	end := start + height
	if end > len(items) {
		end = len(items)
	}

	var b strings.Builder
	now := time.Now()
	for i := start; i < end; i++ {
		b.WriteString(m.renderPostRow(items[i], i == m.feed.selected, now))
		b.WriteString("\n")
	}

	switch {
	case m.feed.loader.Status() == pager.StatusLoadingMore:
		b.WriteString(styles.FaintText.Render("Loading more..."))
	case !m.feed.loader.HasMore():
		b.WriteString(styles.FaintText.Render(fmt.Sprintf("%s, all loaded", countLabel(m.feed.loader.Total(), "post", "posts"))))
	}
	return b.String()
}

func (m Model) renderPostRow(p api.Post, selected bool, now time.Time) string {
	styles := m.theme.Styles()

	heart := "♡"
	if p.IsLiked {
		heart = "♥"
	}
	meta := fmt.Sprintf("%s %d  %s  %s",
		heart, p.LikesCount,
		countLabel(p.CommentsCount, "comment", "comments"),
		humanizeTime(p.ParsedCreatedAt(), now))

	caption := truncate(strings.ReplaceAll(p.Caption, "\n", " "), 60)
	if p.ImageURL != "" {
		caption = "▣ " + caption
	}
	line := fmt.Sprintf("@%-14s %-62s %s", p.User.Username, caption, meta)
	if m.width > 2 {
		line = truncate(line, m.width-2)
	}

	if selected {
		return styles.Selected.Render("> " + line)
	}
	return styles.Text.Render("  " + line)
}
