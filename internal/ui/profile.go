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

// profileState is one user's page: their counters plus a paginated loader of
// their posts.
type profileState struct {
	username string
	user     api.UserProfile
	hasUser  bool
	selected int
	loader   pager.Loader[api.Post]
}

func followKey(username string) string {
	return "follow:" + username
}

func (m *Model) openProfile(username string) tea.Cmd {
	if username == "" {
		return nil
	}
	m.profile = profileState{username: username}
	m.currentView = ViewProfile
	if req, ok := m.profile.loader.LoadFirst(); ok {
		return fetchProfileCmd(m.ctx, m.client, username, req)
	}
	return nil
}

// viewingOwnProfile reports whether the open profile belongs to the session
// user.
func (m Model) viewingOwnProfile() bool {
	user, ok := m.session.User()
	return ok && m.profile.hasUser && user.ID == m.profile.user.ID
}

func (m Model) handleProfileKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	items := m.profile.loader.Items()

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.profile.selected > 0 {
			m.profile.selected--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.profile.selected < len(items)-1 {
			m.profile.selected++
		}
		if len(items)-m.profile.selected <= 3 {
			if req, ok := m.profile.loader.LoadNext(); ok {
				return m, fetchProfileCmd(m.ctx, m.client, m.profile.username, req)
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.Top):
		m.profile.selected = 0
		return m, nil

	case key.Matches(msg, m.keys.Bottom):
		if len(items) > 0 {
			m.profile.selected = len(items) - 1
		}
		if req, ok := m.profile.loader.LoadNext(); ok {
			return m, fetchProfileCmd(m.ctx, m.client, m.profile.username, req)
		}
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		if req, ok := m.profile.loader.Refresh(); ok {
			return m, fetchProfileCmd(m.ctx, m.client, m.profile.username, req)
		}
		return m, nil

	case key.Matches(msg, m.keys.Like):
		if m.profile.selected < len(items) {
			return m, m.beginLike(items[m.profile.selected])
		}
		return m, nil

	case key.Matches(msg, m.keys.OpenThread):
		if m.profile.selected < len(items) {
			return m, m.openThread(items[m.profile.selected])
		}
		return m, nil

	case key.Matches(msg, m.keys.Follow):
		return m, m.beginFollow()
	}

	return m, nil
}

// beginFollow starts an optimistic follow toggle for the open profile.
func (m *Model) beginFollow() tea.Cmd {
	if !m.requireAuth() {
		return nil
	}
	if !m.profile.hasUser || m.viewingOwnProfile() {
		return nil
	}

	following := false
	if m.profile.user.FollowStatus != nil {
		following = m.profile.user.FollowStatus.IsFollowing
	}
	ch, ok := m.toggles.Begin(followKey(m.profile.username), following, m.profile.user.FollowersCount)
	if !ok {
		return nil
	}
	m.applyFollowChange(m.profile.username, ch)
	return toggleFollowCmd(m.ctx, m.client, m.profile.username)
}

func (m *Model) applyFollowChange(username string, ch toggle.Change) {
	if m.profile.username != username || !m.profile.hasUser {
		return
	}
	if m.profile.user.FollowStatus == nil {
		m.profile.user.FollowStatus = &api.FollowStatus{}
	}
	m.profile.user.FollowStatus.IsFollowing = ch.Active
	m.profile.user.FollowersCount = ch.Count
}

func (m Model) handleProfile(msg profileMsg) (tea.Model, tea.Cmd) {
	if msg.username != m.profile.username {
		return m, nil
	}

	var page api.Page[api.Post]
	if msg.profile != nil {
		page = msg.profile.Posts
	}

	switch m.profile.loader.Apply(msg.req, page, msg.err) {
	case pager.Stale:
		return m, nil
	case pager.Errored:
		m.handleActionError(msg.err, "Profile")
		return m, nil
	}

	// Do not clobber an optimistic follow state with the server snapshot
	// while the toggle request is still in flight.
	if msg.profile != nil && !m.toggles.Pending(followKey(msg.username)) {
		m.profile.user = msg.profile.User
		m.profile.hasUser = true
	}

	if n := len(m.profile.loader.Items()); n == 0 {
		m.profile.selected = 0
	} else if m.profile.selected >= n {
		m.profile.selected = n - 1
	}
	return m, nil
}

func (m Model) handleFollowResult(msg followResultMsg) (tea.Model, tea.Cmd) {
	id := followKey(msg.username)

	if msg.err != nil {
		if ch, ok := m.toggles.Revert(id); ok {
			m.applyFollowChange(msg.username, ch)
		}
		m.handleActionError(msg.err, "Follow")
		return m, nil
	}

	// The server reports only the final relationship; the follower count is
	// derived from the optimistic delta.
	if ch, ok := m.toggles.Confirm(id, msg.resp.IsFollowing, 0, false); ok {
		m.applyFollowChange(msg.username, ch)
		if msg.resp.IsFollowing {
			m.toast.show("Following @"+msg.username, toastSuccess)
		} else {
			m.toast.show("Unfollowed @"+msg.username, toastInfo)
		}
	}
	return m, nil
}

func (m Model) renderProfile() string {
	styles := m.theme.Styles()

	var b strings.Builder
	if !m.profile.hasUser {
		if m.profile.loader.Status() == pager.StatusError {
			return styles.DangerText.Render("Could not load @" + m.profile.username + ". Press r to retry.")
		}
		return styles.MutedText.Render("Loading @" + m.profile.username + "...")
	}

	u := m.profile.user
	b.WriteString(styles.AccentText.Render(u.Name))
	b.WriteString(styles.MutedText.Render("  @" + u.Username))
	if u.FollowStatus != nil && u.FollowStatus.IsFollowedBy {
		b.WriteString(styles.FaintText.Render("  follows you"))
	}
	b.WriteString("\n")
	b.WriteString(styles.MutedText.Render(fmt.Sprintf("%s  %s  %s",
		countLabel(u.PostsCount, "post", "posts"),
		countLabel(u.FollowersCount, "follower", "followers"),
		fmt.Sprintf("%d following", u.FollowingCount))))
	b.WriteString("\n")

	switch {
	case m.viewingOwnProfile():
		b.WriteString(styles.FaintText.Render("This is you"))
	case u.FollowStatus != nil && u.FollowStatus.IsFollowing:
		b.WriteString(styles.SuccessText.Render("Following") + styles.FaintText.Render("  (f to unfollow)"))
	default:
		b.WriteString(styles.FaintText.Render("Press f to follow"))
	}
	b.WriteString("\n\n")

	items := m.profile.loader.Items()
	switch {
	case len(items) == 0 && m.profile.loader.Loading():
		b.WriteString(styles.MutedText.Render("Loading posts..."))
	case len(items) == 0:
		b.WriteString(styles.MutedText.Render("No posts yet"))
	default:
		height := m.contentHeight() - 4
		if height < 1 {
			height = 1
		}
		start := 0
		if m.profile.selected >= height {
			start = m.profile.selected - height + 1
		}
		end := start + height
		if end > len(items) {
			end = len(items)
		}
		now := time.Now()
		for i := start; i < end; i++ {
			b.WriteString(m.renderPostRow(items[i], i == m.profile.selected, now))
			b.WriteString("\n")
		}
		if m.profile.loader.Status() == pager.StatusLoadingMore {
			b.WriteString(styles.FaintText.Render("Loading more..."))
		}
	}
	return b.String()
}
