package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/perchapp/perch/internal/api"
	"github.com/perchapp/perch/internal/pager"
)

// threadState is a single post opened with its comment thread.
type threadState struct {
	post       api.Post
	loader     pager.Loader[api.Comment]
	selected   int
	composing  bool
	submitting bool
	replyTo    *int64
	replyUser  string
	input      textinput.Model
}

// commentRow is one display line of the flattened thread. Replies sit one
// level under their parent.
type commentRow struct {
	comment api.Comment
	depth   int
}

func newCommentInput() textinput.Model {
	in := textinput.New()
	in.Placeholder = "Write a comment"
	in.CharLimit = 500
	in.Width = 60
	return in
}

func (m *Model) openThread(p api.Post) tea.Cmd {
	m.thread = threadState{post: p, input: newCommentInput()}
	m.currentView = ViewThread
	if req, ok := m.thread.loader.LoadFirst(); ok {
		return fetchCommentsPageCmd(m.ctx, m.client, p.ID, req)
	}
	return nil
}

func (m Model) commentRows() []commentRow {
	var rows []commentRow
	for _, c := range m.thread.loader.Items() {
		rows = append(rows, commentRow{comment: c})
		for _, r := range c.Replies {
			rows = append(rows, commentRow{comment: r, depth: 1})
		}
	}
	return rows
}

// bumpCommentCount adjusts the comment counter everywhere the post shows.
func (m *Model) bumpCommentCount(postID int64, delta int) {
	for _, l := range []*pager.Loader[api.Post]{&m.feed.loader, &m.profile.loader} {
		if i := findPost(l.Items(), postID); i >= 0 {
			p := l.Items()[i]
			p.CommentsCount += delta
			l.SetItem(i, p)
		}
	}
	if m.thread.post.ID == postID {
		m.thread.post.CommentsCount += delta
	}
}

func (m Model) handleThreadKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	rows := m.commentRows()

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.thread.selected > 0 {
			m.thread.selected--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.thread.selected < len(rows)-1 {
			m.thread.selected++
		}
		if len(rows)-m.thread.selected <= 3 {
			if req, ok := m.thread.loader.LoadNext(); ok {
				return m, fetchCommentsPageCmd(m.ctx, m.client, m.thread.post.ID, req)
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.Top):
		m.thread.selected = 0
		return m, nil

	case key.Matches(msg, m.keys.Bottom):
		if len(rows) > 0 {
			m.thread.selected = len(rows) - 1
		}
		if req, ok := m.thread.loader.LoadNext(); ok {
			return m, fetchCommentsPageCmd(m.ctx, m.client, m.thread.post.ID, req)
		}
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		if req, ok := m.thread.loader.Refresh(); ok {
			return m, fetchCommentsPageCmd(m.ctx, m.client, m.thread.post.ID, req)
		}
		return m, nil

	case key.Matches(msg, m.keys.Like):
		return m, m.beginLike(m.thread.post)

	case key.Matches(msg, m.keys.OpenProfile):
		if m.thread.selected < len(rows) {
			return m, m.openProfile(rows[m.thread.selected].comment.User.Username)
		}
		return m, m.openProfile(m.thread.post.User.Username)

	case key.Matches(msg, m.keys.Comment):
		if !m.requireAuth() {
			return m, nil
		}
		m.thread.composing = true
		m.thread.replyTo = nil
		m.thread.replyUser = ""
		m.thread.input.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Reply):
		if !m.requireAuth() {
			return m, nil
		}
		if m.thread.selected >= len(rows) {
			return m, nil
		}
		target := rows[m.thread.selected]
		parent := target.comment.ID
		if target.depth > 0 && target.comment.ParentID != nil {
			// The server keeps threads one level deep; replying to a reply
			// attaches to its parent.
			parent = *target.comment.ParentID
		}
		m.thread.composing = true
		m.thread.replyTo = &parent
		m.thread.replyUser = target.comment.User.Username
		m.thread.input.Focus()
		return m, textinput.Blink
	}

	return m, nil
}

func (m Model) handleCommentsPage(msg commentsPageMsg) (tea.Model, tea.Cmd) {
	if msg.postID != m.thread.post.ID {
		return m, nil
	}

	switch m.thread.loader.Apply(msg.req, msg.page, msg.err) {
	case pager.Stale:
		return m, nil
	case pager.Errored:
		m.handleActionError(msg.err, "Comments")
		return m, nil
	}

	if n := len(m.commentRows()); n == 0 {
		m.thread.selected = 0
	} else if m.thread.selected >= n {
		m.thread.selected = n - 1
	}
	return m, nil
}

func (m Model) handleCommentInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "esc":
		m.thread.composing = false
		m.thread.replyTo = nil
		m.thread.replyUser = ""
		m.thread.input.Reset()
		m.thread.input.Blur()
		return m, nil

	case "enter":
		if m.thread.submitting {
			return m, nil
		}
		body := strings.TrimSpace(m.thread.input.Value())
		if body == "" {
			return m, nil
		}
		m.thread.submitting = true
		return m, createCommentCmd(m.ctx, m.client, m.thread.post.ID, body, m.thread.replyTo)
	}

	var cmd tea.Cmd
	m.thread.input, cmd = m.thread.input.Update(msg)
	return m, cmd
}

func (m Model) handleCommentCreated(msg commentCreatedMsg) (tea.Model, tea.Cmd) {
	m.thread.submitting = false

	if msg.err != nil {
		if fields, ok := api.AsValidation(msg.err); ok {
			m.toast.show(firstFieldError(fields, "Comment rejected"), toastError)
		} else {
			m.handleActionError(msg.err, "Comment")
		}
		return m, nil
	}

	m.bumpCommentCount(msg.postID, 1)

	if m.currentView != ViewThread || m.thread.post.ID != msg.postID {
		return m, nil
	}
	m.thread.composing = false
	m.thread.replyTo = nil
	m.thread.replyUser = ""
	m.thread.input.Reset()
	m.thread.input.Blur()
	m.toast.show("Comment posted", toastSuccess)

	if req, ok := m.thread.loader.Refresh(); ok {
		return m, fetchCommentsPageCmd(m.ctx, m.client, msg.postID, req)
	}
	return m, nil
}

func (m Model) renderThread() string {
	styles := m.theme.Styles()
	p := m.thread.post
	now := time.Now()

	heart := "♡"
	if p.IsLiked {
		heart = "♥"
	}

	var b strings.Builder
	b.WriteString(styles.AccentText.Render("@" + p.User.Username))
	b.WriteString(styles.FaintText.Render("  " + humanizeTime(p.ParsedCreatedAt(), now)))
	b.WriteString("\n")
	b.WriteString(styles.Text.Render(truncate(p.Caption, 200)))
	b.WriteString("\n")
	if p.ImageURL != "" {
		b.WriteString(styles.FaintText.Render("▣ " + truncate(p.ImageURL, 80)))
		b.WriteString("\n")
	}
	b.WriteString(styles.MutedText.Render(fmt.Sprintf("%s %d  %s",
		heart, p.LikesCount, countLabel(p.CommentsCount, "comment", "comments"))))
	b.WriteString("\n\n")

	rows := m.commentRows()
	switch {
	case len(rows) == 0 && m.thread.loader.Loading():
		b.WriteString(styles.MutedText.Render("Loading comments..."))
	case len(rows) == 0 && m.thread.loader.Status() == pager.StatusError:
		b.WriteString(styles.DangerText.Render("Could not load comments. Press r to retry."))
	case len(rows) == 0:
		b.WriteString(styles.MutedText.Render("No comments yet. Press c to start the thread."))
	default:
		height := m.contentHeight() - 5
		if height < 1 {
			height = 1
		}
		start := 0
		if m.thread.selected >= height {
			start = m.thread.selected - height + 1
		}
		end := start + height
		if end > len(rows) {
			end = len(rows)
		}
		for i := start; i < end; i++ {
			b.WriteString(m.renderCommentRow(rows[i], i == m.thread.selected, now))
			b.WriteString("\n")
		}
		if m.thread.loader.Status() == pager.StatusLoadingMore {
			b.WriteString(styles.FaintText.Render("Loading more..."))
			b.WriteString("\n")
		}
	}

	if m.thread.composing {
		b.WriteString("\n")
		if m.thread.replyUser != "" {
			b.WriteString(styles.MutedText.Render("Replying to @" + m.thread.replyUser))
			b.WriteString("\n")
		}
		b.WriteString(m.thread.input.View())
		if m.thread.submitting {
			b.WriteString(styles.FaintText.Render("  sending..."))
		}
	}
	return b.String()
}

func (m Model) renderCommentRow(row commentRow, selected bool, now time.Time) string {
	styles := m.theme.Styles()

	indent := ""
	if row.depth > 0 {
		indent = "    └ "
	}
	line := fmt.Sprintf("%s@%s  %s  %s",
		indent,
		row.comment.User.Username,
		truncate(strings.ReplaceAll(row.comment.Body, "\n", " "), 70),
		humanizeTime(row.comment.ParsedCreatedAt(), now))
	if m.width > 2 {
		line = truncate(line, m.width-2)
	}

	if selected {
		return styles.Selected.Render("> " + line)
	}
	return styles.Text.Render("  " + line)
}
