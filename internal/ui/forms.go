package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/perchapp/perch/internal/api"
)

// formField pairs a text input with the server-side field name its
// validation errors arrive under.
type formField struct {
	label string
	key   string
	input textinput.Model
}

// formState backs the login, registration, and compose views.
type formState struct {
	fields       []formField
	focus        int
	submitting   bool
	fieldErrors  map[string][]string
	generalError string
}

func newFormState() formState {
	return formState{}
}

func newField(label, key, placeholder string, secret bool) formField {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = 120
	in.Width = 40
	if secret {
		in.EchoMode = textinput.EchoPassword
		in.EchoCharacter = '•'
	}
	return formField{label: label, key: key, input: in}
}

func newLoginForm() formState {
	f := formState{fields: []formField{
		newField("Email", "email", "you@example.com", false),
		newField("Password", "password", "", true),
	}}
	f.fields[0].input.Focus()
	return f
}

func newRegisterForm() formState {
	f := formState{fields: []formField{
		newField("Name", "name", "Ada Lovelace", false),
		newField("Username", "username", "ada", false),
		newField("Email", "email", "you@example.com", false),
		newField("Password", "password", "", true),
		newField("Confirm password", "password_confirmation", "", true),
	}}
	f.fields[0].input.Focus()
	return f
}

func newComposeForm() formState {
	f := formState{fields: []formField{
		newField("Caption", "caption", "What's happening?", false),
	}}
	f.fields[0].input.Width = 60
	f.fields[0].input.CharLimit = 500
	f.fields[0].input.Focus()
	return f
}

func (f *formState) setFocus(i int) {
	if len(f.fields) == 0 {
		return
	}
	for j := range f.fields {
		f.fields[j].input.Blur()
	}
	f.focus = ((i % len(f.fields)) + len(f.fields)) % len(f.fields)
	f.fields[f.focus].input.Focus()
}

func (f formState) value(key string) string {
	for _, field := range f.fields {
		if field.key == key {
			return strings.TrimSpace(field.input.Value())
		}
	}
	return ""
}

func firstFieldError(fields map[string][]string, fallback string) string {
	for _, msgs := range fields {
		if len(msgs) > 0 {
			return msgs[0]
		}
	}
	return fallback
}

func (m Model) handleAuthFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "esc":
		m.forms = newFormState()
		m.currentView = ViewFeed
		return m, nil

	case "tab", "down":
		m.forms.setFocus(m.forms.focus + 1)
		return m, nil

	case "shift+tab", "up":
		m.forms.setFocus(m.forms.focus - 1)
		return m, nil

	case "ctrl+r":
		if m.currentView == ViewLogin {
			m.forms = newRegisterForm()
			m.currentView = ViewRegister
		} else {
			m.forms = newLoginForm()
			m.currentView = ViewLogin
		}
		return m, nil

	case "enter":
		// Enter advances until the last field, then submits.
		if m.forms.focus < len(m.forms.fields)-1 {
			m.forms.setFocus(m.forms.focus + 1)
			return m, nil
		}
		return m.submitAuthForm()
	}

	if len(m.forms.fields) == 0 {
		return m, nil
	}
	var cmd tea.Cmd
	m.forms.fields[m.forms.focus].input, cmd = m.forms.fields[m.forms.focus].input.Update(msg)
	return m, cmd
}

func (m Model) submitAuthForm() (tea.Model, tea.Cmd) {
	if m.forms.submitting {
		return m, nil
	}

	if m.currentView == ViewLogin {
		email := m.forms.value("email")
		password := m.forms.value("password")
		if email == "" || password == "" {
			m.forms.generalError = "email and password are required"
			return m, nil
		}
		m.forms.submitting = true
		m.forms.generalError = ""
		m.forms.fieldErrors = nil
		return m, loginCmd(m.ctx, m.client, api.LoginRequest{
			Email:    email,
			Password: password,
		})
	}

	req := api.RegisterRequest{
		Name:                 m.forms.value("name"),
		Username:             m.forms.value("username"),
		Email:                m.forms.value("email"),
		Password:             m.forms.value("password"),
		PasswordConfirmation: m.forms.value("password_confirmation"),
	}
	if req.Name == "" || req.Username == "" || req.Email == "" || req.Password == "" {
		m.forms.generalError = "all fields are required"
		return m, nil
	}
	if req.Password != req.PasswordConfirmation {
		m.forms.generalError = "passwords do not match"
		return m, nil
	}
	m.forms.submitting = true
	m.forms.generalError = ""
	m.forms.fieldErrors = nil
	return m, registerCmd(m.ctx, m.client, req)
}

func (m Model) handleComposeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "esc":
		m.forms = newFormState()
		m.currentView = ViewFeed
		return m, nil

	case "enter":
		if m.forms.submitting {
			return m, nil
		}
		caption := m.forms.value("caption")
		if caption == "" {
			m.forms.generalError = "say something first"
			return m, nil
		}
		m.forms.submitting = true
		m.forms.generalError = ""
		m.forms.fieldErrors = nil
		return m, createPostCmd(m.ctx, m.client, caption)
	}

	if len(m.forms.fields) == 0 {
		return m, nil
	}
	var cmd tea.Cmd
	m.forms.fields[m.forms.focus].input, cmd = m.forms.fields[m.forms.focus].input.Update(msg)
	return m, cmd
}

func (m Model) handlePostCreated(msg postCreatedMsg) (tea.Model, tea.Cmd) {
	m.forms.submitting = false

	if msg.err != nil {
		if fields, ok := api.AsValidation(msg.err); ok {
			m.forms.fieldErrors = fields
			m.forms.generalError = ""
			return m, nil
		}
		if api.IsUnauthorized(msg.err) {
			m.handleActionError(msg.err, "Post")
			return m, nil
		}
		m.forms.generalError = errorText(msg.err)
		return m, nil
	}

	m.forms = newFormState()
	m.currentView = ViewFeed
	m.toast.show("Posted", toastSuccess)

	// Pull the feed again so the new post shows at the top.
	if req, ok := m.feed.loader.LoadFirst(); ok {
		return m, fetchFeedPageCmd(m.ctx, m.client, req, m.perPage(), false)
	}
	return m, nil
}

func (m Model) renderAuthForm() string {
	styles := m.theme.Styles()

	title := "Log in"
	hint := "enter submit · tab next field · ctrl+r create an account · esc cancel"
	if m.currentView == ViewRegister {
		title = "Create account"
		hint = "enter submit · tab next field · ctrl+r back to log in · esc cancel"
	}

	var b strings.Builder
	b.WriteString(styles.AccentText.Render(title))
	b.WriteString("\n\n")

	if m.forms.generalError != "" {
		b.WriteString(styles.DangerText.Render(m.forms.generalError))
		b.WriteString("\n\n")
	}

	for _, field := range m.forms.fields {
		b.WriteString(styles.MutedText.Render(field.label))
		b.WriteString("\n")
		b.WriteString(field.input.View())
		b.WriteString("\n")
		if msgs, ok := m.forms.fieldErrors[field.key]; ok && len(msgs) > 0 {
			b.WriteString(styles.DangerText.Render(strings.Join(msgs, "; ")))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if m.forms.submitting {
		b.WriteString(styles.MutedText.Render("Signing in..."))
		b.WriteString("\n")
	}
	b.WriteString(styles.FaintText.Render(hint))
	return b.String()
}

func (m Model) renderCompose() string {
	styles := m.theme.Styles()

	var b strings.Builder
	b.WriteString(styles.AccentText.Render("New post"))
	b.WriteString("\n\n")

	if m.forms.generalError != "" {
		b.WriteString(styles.DangerText.Render(m.forms.generalError))
		b.WriteString("\n\n")
	}

	for _, field := range m.forms.fields {
		b.WriteString(field.input.View())
		b.WriteString("\n")
		if msgs, ok := m.forms.fieldErrors[field.key]; ok && len(msgs) > 0 {
			b.WriteString(styles.DangerText.Render(strings.Join(msgs, "; ")))
			b.WriteString("\n")
		}
	}

	if m.forms.submitting {
		b.WriteString(styles.MutedText.Render("Posting..."))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render("enter post · esc cancel"))
	return b.String()
}
