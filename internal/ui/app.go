package ui

import (
	"context"
	"errors"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/perchapp/perch/internal/api"
	"github.com/perchapp/perch/internal/config"
	"github.com/perchapp/perch/internal/prefs"
	"github.com/perchapp/perch/internal/session"
	"github.com/perchapp/perch/internal/toggle"
)

// View represents the current active view.
type View int

const (
	ViewFeed View = iota
	ViewThread
	ViewProfile
	ViewLogin
	ViewRegister
	ViewCompose
)

// Options configures the UI.
type Options struct {
	Context   context.Context
	Client    api.Service
	Session   *session.Store
	Tokens    *prefs.Tokens
	Config    *config.Config
	PollTick  time.Duration
	ThemeName string
	PrefsPath string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	client    api.Service
	session   *session.Store
	tokens    *prefs.Tokens
	config    *config.Config
	prefsPath string
	pollTick  time.Duration

	// UI state
	theme       Theme
	keys        keyMap
	currentView View
	width       int
	height      int
	ready       bool
	showHelp    bool

	// Shared action state
	toggles toggle.Controller
	toast   toast

	// Per-view state
	feed    feedState
	thread  threadState
	profile profileState
	forms   formState

	// Poll health
	pollFailures int
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	pollTick := opts.PollTick
	if pollTick <= 0 {
		pollTick = 30 * time.Second
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = "Nightfox"
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	return Model{
		ctx:         ctx,
		client:      opts.Client,
		session:     opts.Session,
		tokens:      opts.Tokens,
		config:      opts.Config,
		prefsPath:   prefsPath,
		pollTick:    pollTick,
		theme:       GetTheme(themeName),
		keys:        DefaultKeyMap(),
		currentView: ViewFeed,
		forms:       newFormState(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnterAltScreen,
		tickCmd(m.pollTick),
	}
	// The session probe runs at most once per process lifetime.
	if m.session != nil && m.session.BeginProbe() {
		cmds = append(cmds, probeCmd(m.ctx, m.client))
	}
	if req, ok := m.feed.loader.LoadFirst(); ok {
		cmds = append(cmds, fetchFeedPageCmd(m.ctx, m.client, req, m.perPage(), false))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		return m, nil

	case tickMsg:
		return m.handleTick()

	case probeMsg:
		return m.handleProbe(msg)

	case feedPageMsg:
		return m.handleFeedPage(msg)

	case commentsPageMsg:
		return m.handleCommentsPage(msg)

	case profileMsg:
		return m.handleProfile(msg)

	case likeResultMsg:
		return m.handleLikeResult(msg)

	case followResultMsg:
		return m.handleFollowResult(msg)

	case authMsg:
		return m.handleAuth(msg)

	case logoutMsg:
		// Best-effort server call; local state is already cleared.
		return m, nil

	case postCreatedMsg:
		return m.handlePostCreated(msg)

	case commentCreatedMsg:
		return m.handleCommentCreated(msg)
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderContent())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m Model) renderContent() string {
	switch m.currentView {
	case ViewFeed:
		return m.renderFeed()
	case ViewThread:
		return m.renderThread()
	case ViewProfile:
		return m.renderProfile()
	case ViewLogin, ViewRegister:
		return m.renderAuthForm()
	case ViewCompose:
		return m.renderCompose()
	default:
		return ""
	}
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	// Text-entry views own the keyboard except for ctrl+c and esc.
	switch m.currentView {
	case ViewLogin, ViewRegister:
		return m.handleAuthFormKey(msg)
	case ViewCompose:
		return m.handleComposeKey(msg)
	case ViewThread:
		if m.thread.composing {
			return m.handleCommentInputKey(msg)
		}
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "h", "?":
		m.showHelp = true
		return m, nil

	case "T":
		m.theme = GetTheme(NextTheme(m.theme.Name))
		if m.prefsPath != "" {
			_ = prefs.Save(m.prefsPath, prefs.Prefs{Theme: m.theme.Name})
		}
		return m, nil

	case "L":
		if !m.session.Authenticated() {
			m.forms = newLoginForm()
			m.currentView = ViewLogin
		}
		return m, nil

	case "ctrl+d":
		return m.logout()

	case "esc":
		m.currentView = ViewFeed
		return m, nil
	}

	switch m.currentView {
	case ViewFeed:
		return m.handleFeedKey(msg)
	case ViewThread:
		return m.handleThreadKey(msg)
	case ViewProfile:
		return m.handleProfileKey(msg)
	}
	return m, nil
}

// handleTick drives the feed auto-refresh with failure backoff.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	if m.currentView == ViewFeed {
		if req, ok := m.feed.loader.Refresh(); ok {
			cmds = append(cmds, fetchFeedPageCmd(m.ctx, m.client, req, m.perPage(), true))
		}
	}

	m.toast.expire(time.Now())

	next := calculateBackoff(m.pollFailures, m.pollTick)
	cmds = append(cmds, tickCmd(next))
	return m, tea.Batch(cmds...)
}

func (m Model) handleProbe(msg probeMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		// Probe failure is not fatal: browsing anonymously is fine. A 401
		// just means the saved token went stale, so drop it quietly.
		m.session.FinishProbe(nil)
		if api.IsUnauthorized(msg.err) && m.tokens != nil {
			_ = m.tokens.Clear()
		}
		return m, nil
	}
	m.session.FinishProbe(msg.user)
	return m, nil
}

func (m Model) handleAuth(msg authMsg) (tea.Model, tea.Cmd) {
	m.forms.submitting = false
	if msg.err != nil {
		if fields, ok := api.AsValidation(msg.err); ok {
			m.forms.fieldErrors = fields
			m.forms.generalError = ""
			return m, nil
		}
		m.forms.fieldErrors = nil
		m.forms.generalError = errorText(msg.err)
		return m, nil
	}

	m.session.SetUser(msg.resp.User)
	if m.tokens != nil {
		_ = m.tokens.Set(msg.resp.Token)
	}
	m.forms = newFormState()
	m.currentView = ViewFeed
	if msg.register {
		m.toast.show("Welcome, "+msg.resp.User.Name+"!", toastSuccess)
	} else {
		m.toast.show("Logged in as @"+msg.resp.User.Username, toastSuccess)
	}

	// Session scope changed; reload the feed so is_liked flags are correct.
	var cmds []tea.Cmd
	if req, ok := m.feed.loader.LoadFirst(); ok {
		cmds = append(cmds, fetchFeedPageCmd(m.ctx, m.client, req, m.perPage(), false))
	}
	return m, tea.Batch(cmds...)
}

func (m Model) logout() (tea.Model, tea.Cmd) {
	if !m.session.Authenticated() {
		return m, nil
	}
	m.session.Clear()
	if m.tokens != nil {
		_ = m.tokens.Clear()
	}
	m.toast.show("Logged out", toastInfo)
	m.currentView = ViewFeed

	cmds := []tea.Cmd{logoutCmd(m.ctx, m.client)}
	if req, ok := m.feed.loader.LoadFirst(); ok {
		cmds = append(cmds, fetchFeedPageCmd(m.ctx, m.client, req, m.perPage(), false))
	}
	return m, tea.Batch(cmds...)
}

// handleActionError is the single boundary converting a failed action into
// user-visible state. Every unauthorized response from any request funnels
// through here; the session store collapses bursts into one forced logout.
func (m *Model) handleActionError(err error, context string) {
	if api.IsUnauthorized(err) {
		if m.session.ForceLogout() {
			if m.tokens != nil {
				_ = m.tokens.Clear()
			}
			m.forms = newLoginForm()
			m.currentView = ViewLogin
			m.toast.show("Session expired, please log in again", toastWarn)
		}
		return
	}
	if context != "" {
		m.toast.show(context+": "+errorText(err), toastError)
	} else {
		m.toast.show(errorText(err), toastError)
	}
}

func errorText(err error) string {
	if api.IsTransport(err) {
		return "server unreachable"
	}
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return "request failed"
}

func (m Model) perPage() int {
	if m.config != nil && m.config.PerPage > 0 {
		return m.config.PerPage
	}
	return 20
}

// requireAuth gates an action on identity, bouncing to the login view.
func (m *Model) requireAuth() bool {
	if m.session.Authenticated() {
		return true
	}
	m.forms = newLoginForm()
	m.currentView = ViewLogin
	m.toast.show("Log in to do that", toastWarn)
	return false
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(opts.Context))
	_, err := p.Run()
	return err
}
