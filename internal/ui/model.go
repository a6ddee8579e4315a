package ui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/DawnFalls/getSuitedV1/internal/api"
	"github.com/DawnFalls/getSuitedV1/internal/evaluations"
	"github.com/DawnFalls/getSuitedV1/internal/models"
	"github.com/DawnFalls/getSuitedV1/internal/profile"
	"github.com/DawnFalls/getSuitedV1/internal/session"
	"github.com/DawnFalls/getSuitedV1/internal/view"
)

type screen int

const (
	screenLoading screen = iota
	screenSignInEmail
	screenSignInName
	screenProfile
)

// Messages produced by background commands. Every network completion comes
// back through one of these; the model never blocks in Update.
type (
	sessionLoadedMsg struct{ user *models.User }
	// IdentityChangedMsg is sent by the session-store subscription so every
	// surface re-reads the identity after a write.
	IdentityChangedMsg struct{ User *models.User }
	evalsFetchedMsg    struct{ res evaluations.Result }
	commitDoneMsg      struct{ err error }
	uploadDoneMsg      struct{ err error }
	signInDoneMsg      struct{ err error }
	signedOutMsg       struct{}
)

// Model is the single-threaded event loop owning all UI state. Blocking
// operations run as tea commands; their completions are reconciled here.
type Model struct {
	sessions *session.Manager
	ctrl     *profile.Controller
	loader   *evaluations.Loader
	client   *api.Client

	screen     screen
	user       *models.User
	evals      []models.Evaluation
	input      textinput.Model
	signEmail  string
	signInErr  error
	committing bool
	quitting   bool
}

func NewModel(sessions *session.Manager, ctrl *profile.Controller, loader *evaluations.Loader, client *api.Client) Model {
	ti := textinput.New()
	ti.CharLimit = 156
	ti.Width = 40
	return Model{
		sessions: sessions,
		ctrl:     ctrl,
		loader:   loader,
		client:   client,
		screen:   screenLoading,
		input:    ti,
	}
}

func (m Model) Init() tea.Cmd {
	return func() tea.Msg {
		u, _, _ := m.sessions.Load(context.Background())
		return sessionLoadedMsg{user: u}
	}
}

// fetchCmd starts an evaluation fetch for the current identity if the
// loader decides one is due.
func (m *Model) fetchCmd() tea.Cmd {
	h, ok := m.loader.Track(m.user)
	if !ok {
		m.evals = m.loader.Evaluations()
		return nil
	}
	return func() tea.Msg {
		return evalsFetchedMsg{res: m.loader.Fetch(context.Background(), h)}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case sessionLoadedMsg:
		m.user = msg.user
		if m.user == nil {
			m.screen = screenSignInEmail
			m.input.Placeholder = "you@example.com"
			m.input.Focus()
			return m, textinput.Blink
		}
		m.screen = screenProfile
		return m, m.fetchCmd()

	case IdentityChangedMsg:
		m.user = msg.User
		if m.user == nil && m.screen == screenProfile {
			m.screen = screenSignInEmail
			m.input.SetValue("")
			m.input.Placeholder = "you@example.com"
			m.input.Focus()
			return m, textinput.Blink
		}
		return m, m.fetchCmd()

	case evalsFetchedMsg:
		if m.loader.Apply(msg.res) {
			m.evals = m.loader.Evaluations()
		}
		return m, nil

	case commitDoneMsg, uploadDoneMsg, signedOutMsg:
		// session writes already arrived via IdentityChangedMsg; failures
		// surface through the controller's pending notice
		m.committing = false
		return m, nil

	case signInDoneMsg:
		m.committing = false
		if msg.err != nil {
			// back to the email step with the error rendered under the form
			m.signInErr = msg.err
			m.screen = screenSignInEmail
			m.input.SetValue(m.signEmail)
			m.input.Focus()
			return m, nil
		}
		m.signInErr = nil
		m.screen = screenProfile
		return m, m.fetchCmd()

	case tea.KeyMsg:
		return m.handleKey(msg)

	case error:
		return m, nil
	}

	if m.screen == screenSignInEmail || m.screen == screenSignInName || m.editing() {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) editing() bool {
	mode := m.ctrl.Mode()
	return mode == profile.ModeEditingName || mode == profile.ModeEditingPicture
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// a pending commit-failure notice is blocking: only dismissal works
	if m.ctrl.Notice() != nil {
		switch msg.String() {
		case "enter", "esc":
			m.ctrl.DismissNotice()
		}
		return m, nil
	}

	if msg.String() == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}

	switch m.screen {
	case screenSignInEmail, screenSignInName:
		return m.handleSignInKey(msg)
	case screenProfile:
		return m.handleProfileKey(msg)
	}
	return m, nil
}

func (m Model) handleSignInKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// a sign-in attempt is already in flight; wait for its completion
	if m.committing {
		return m, nil
	}
	if msg.Type == tea.KeyEnter {
		value := strings.TrimSpace(m.input.Value())
		if value == "" {
			return m, nil
		}
		if m.screen == screenSignInEmail {
			m.signEmail = value
			m.screen = screenSignInName
			m.input.SetValue("")
			m.input.Placeholder = "Your name"
			return m, nil
		}
		email, name := m.signEmail, value
		m.signInErr = nil
		m.committing = true
		return m, func() tea.Msg {
			ctx := context.Background()
			token, u, err := m.client.SignIn(ctx, email, name)
			if err != nil {
				return signInDoneMsg{err: err}
			}
			return signInDoneMsg{err: m.sessions.SignIn(ctx, u, token)}
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleProfileKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// a commit or upload command is in flight; the flag is set before the
	// command is returned, so a repeated Enter cannot arm a second one
	if m.committing {
		return m, nil
	}

	switch m.ctrl.Mode() {
	case profile.ModeEditingName:
		switch msg.Type {
		case tea.KeyEnter:
			m.ctrl.UpdateDraft(m.input.Value())
			m.committing = true
			return m, func() tea.Msg {
				return commitDoneMsg{err: m.ctrl.CommitName(context.Background())}
			}
		case tea.KeyEsc:
			m.ctrl.CancelNameEdit()
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd

	case profile.ModeEditingPicture:
		switch msg.Type {
		case tea.KeyEnter:
			path := strings.TrimSpace(m.input.Value())
			if path == "" {
				// empty selection is silently ignored, no transition
				return m, nil
			}
			f, err := os.Open(path)
			if err != nil {
				return m, func() tea.Msg { return err }
			}
			m.committing = true
			return m, func() tea.Msg {
				defer f.Close()
				return uploadDoneMsg{err: m.ctrl.SelectFile(context.Background(), filepath.Base(path), f)}
			}
		case tea.KeyEsc:
			m.ctrl.CancelPictureEdit()
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd

	case profile.ModeUploading:
		// input disabled while an upload is in flight
		return m, nil
	}

	switch msg.String() {
	case "q":
		m.quitting = true
		return m, tea.Quit
	case "e":
		if err := m.ctrl.BeginNameEdit(); err == nil {
			m.input.SetValue(m.ctrl.Draft())
			m.input.Placeholder = ""
			m.input.Focus()
			return m, textinput.Blink
		}
	case "p":
		if err := m.ctrl.BeginPictureEdit(); err == nil {
			m.input.SetValue("")
			m.input.Placeholder = "/path/to/picture.png"
			m.input.Focus()
			return m, textinput.Blink
		}
	case "r":
		return m, m.fetchCmd()
	case "o":
		return m, func() tea.Msg {
			m.ctrl.SignOut(context.Background())
			return signedOutMsg{}
		}
	}
	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return "Bye!\n"
	}

	var b strings.Builder
	b.WriteString(m.navbar() + "\n")

	switch m.screen {
	case screenLoading:
		b.WriteString("\nLoading your profile...\n")

	case screenSignInEmail, screenSignInName:
		b.WriteString(headerStyle.Render("Sign In") + "\n\n")
		if m.screen == screenSignInEmail {
			b.WriteString(promptStyle.Render("Email: ") + m.input.View() + "\n")
		} else {
			b.WriteString(labelStyle.Render("Email") + valueStyle.Render(m.signEmail) + "\n")
			b.WriteString(promptStyle.Render("Name:  ") + m.input.View() + "\n")
		}
		if m.signInErr != nil {
			b.WriteString(errorStyle.Render("Sign in failed: "+m.signInErr.Error()) + "\n")
		}
		b.WriteString(helpStyle.Render("enter: continue • ctrl+c: quit"))

	case screenProfile:
		b.WriteString(m.profileView())
	}

	if n := m.ctrl.Notice(); n != nil {
		b.WriteString("\n" + noticeStyle.Render(n.Message) + "\n")
		b.WriteString(helpStyle.Render("enter: dismiss"))
	}
	b.WriteString("\n")
	return b.String()
}

func (m Model) navbar() string {
	nav := view.Nav(m.user)
	left := navStyle.Render(" getSuited ")
	if !nav.SignedIn {
		return lipgloss.JoinHorizontal(lipgloss.Top, left, navNameStyle.Render("Sign In"))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, left,
		navNameStyle.Render(fmt.Sprintf("%s  %s", nav.Name, nav.AvatarURL)))
}

func (m Model) profileView() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("Profile") + "\n")
	b.WriteString(labelStyle.Render("Picture") + valueStyle.Render(view.Avatar(m.user)) + "\n")

	switch m.ctrl.Mode() {
	case profile.ModeEditingName:
		b.WriteString(promptStyle.Render("Name: ") + m.input.View() + "\n")
		b.WriteString(helpStyle.Render("enter: save • esc: cancel") + "\n")
	case profile.ModeEditingPicture:
		b.WriteString(promptStyle.Render("File: ") + m.input.View() + "\n")
		b.WriteString(helpStyle.Render("enter: upload • esc: cancel") + "\n")
	case profile.ModeUploading:
		b.WriteString(labelStyle.Render("Name") + valueStyle.Render(m.userName()) + "\n")
		b.WriteString(footerStyle.Render("Uploading picture...") + "\n")
	default:
		b.WriteString(labelStyle.Render("Name") + valueStyle.Render(m.userName()) + "\n")
	}

	b.WriteString(renderBox(view.Progress(m.user)))
	b.WriteString(renderBox(view.Evaluations(m.evals)))
	b.WriteString(renderBox(view.Interviews(m.evals)))

	if m.ctrl.Mode() == profile.ModeViewing && !m.committing {
		b.WriteString(helpStyle.Render("e: edit name • p: change picture • r: refresh • o: sign out • q: quit"))
	}
	return b.String()
}

func (m Model) userName() string {
	if m.user == nil {
		return ""
	}
	return m.user.Name
}

func renderBox(box view.Box) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(box.Header) + "\n")
	var rows []string
	for _, row := range box.Rows {
		value := valueStyle.Render(row.Value)
		if row.Link != "" {
			value = linkStyle.Render(row.Value) + footerStyle.Render("  "+row.Link)
		}
		rows = append(rows, labelStyle.Render(row.Label)+value)
	}
	if box.FooterText != "" {
		rows = append(rows, footerStyle.Render(box.FooterText+" → "+box.FooterLink))
	}
	b.WriteString(boxStyle.Render(strings.Join(rows, "\n")) + "\n")
	return b.String()
}
