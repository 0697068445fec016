package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/perchapp/perch/internal/api"
	"github.com/perchapp/perch/internal/pager"
)

// Messages

type tickMsg time.Time

type probeMsg struct {
	user *api.User
	err  error
}

type feedPageMsg struct {
	req  pager.Request
	page api.Page[api.Post]
	auto bool // dispatched by the poll tick, not by the user
	err  error
}

type commentsPageMsg struct {
	postID int64
	req    pager.Request
	page   api.Page[api.Comment]
	err    error
}

type profileMsg struct {
	username string
	req      pager.Request
	profile  *api.ProfileResponse
	err      error
}

type likeResultMsg struct {
	postID int64
	resp   *api.LikeResponse
	err    error
}

type followResultMsg struct {
	username string
	resp     *api.FollowToggleResponse
	err      error
}

type authMsg struct {
	register bool
	resp     *api.SessionResponse
	err      error
}

type logoutMsg struct {
	err error
}

type postCreatedMsg struct {
	post *api.Post
	err  error
}

type commentCreatedMsg struct {
	postID  int64
	comment *api.Comment
	err     error
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func probeCmd(ctx context.Context, client api.Service) tea.Cmd {
	return func() tea.Msg {
		user, err := client.Me(ctx)
		return probeMsg{user: user, err: err}
	}
}

func fetchFeedPageCmd(ctx context.Context, client api.Service, req pager.Request, perPage int, auto bool) tea.Cmd {
	return func() tea.Msg {
		page, err := client.Posts(ctx, req.Page, perPage)
		return feedPageMsg{req: req, page: page, auto: auto, err: err}
	}
}

func fetchCommentsPageCmd(ctx context.Context, client api.Service, postID int64, req pager.Request) tea.Cmd {
	return func() tea.Msg {
		page, err := client.Comments(ctx, postID, req.Page)
		return commentsPageMsg{postID: postID, req: req, page: page, err: err}
	}
}

func fetchProfileCmd(ctx context.Context, client api.Service, username string, req pager.Request) tea.Cmd {
	return func() tea.Msg {
		profile, err := client.Profile(ctx, username, req.Page)
		return profileMsg{username: username, req: req, profile: profile, err: err}
	}
}

func toggleLikeCmd(ctx context.Context, client api.Service, postID int64) tea.Cmd {
	return func() tea.Msg {
		resp, err := client.ToggleLike(ctx, postID)
		return likeResultMsg{postID: postID, resp: resp, err: err}
	}
}

func toggleFollowCmd(ctx context.Context, client api.Service, username string) tea.Cmd {
	return func() tea.Msg {
		resp, err := client.ToggleFollow(ctx, username)
		return followResultMsg{username: username, resp: resp, err: err}
	}
}

func loginCmd(ctx context.Context, client api.Service, req api.LoginRequest) tea.Cmd {
	return func() tea.Msg {
		resp, err := client.Login(ctx, req)
		return authMsg{resp: resp, err: err}
	}
}

func registerCmd(ctx context.Context, client api.Service, req api.RegisterRequest) tea.Cmd {
	return func() tea.Msg {
		resp, err := client.Register(ctx, req)
		return authMsg{register: true, resp: resp, err: err}
	}
}

func logoutCmd(ctx context.Context, client api.Service) tea.Cmd {
	return func() tea.Msg {
		// Best effort; the local session is already gone.
		return logoutMsg{err: client.Logout(ctx)}
	}
}

func createPostCmd(ctx context.Context, client api.Service, caption string) tea.Cmd {
	return func() tea.Msg {
		post, err := client.CreatePost(ctx, caption)
		return postCreatedMsg{post: post, err: err}
	}
}

func createCommentCmd(ctx context.Context, client api.Service, postID int64, body string, parentID *int64) tea.Cmd {
	return func() tea.Msg {
		comment, err := client.CreateComment(ctx, postID, body, parentID)
		return commentCreatedMsg{postID: postID, comment: comment, err: err}
	}
}
