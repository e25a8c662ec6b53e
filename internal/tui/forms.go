package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/huuquangg/dfscan/internal/api"
)

// ── Login form ────────────────────────────────────────────────────────────────

type loginForm struct {
	email      textinput.Model
	password   textinput.Model
	focus      int // 0 = email, 1 = password
	submitting bool
	errMsg     string
}

func newLoginForm() loginForm {
	email := textinput.New()
	email.Placeholder = "you@example.com"
	email.CharLimit = 254
	email.Focus()

	password := textinput.New()
	password.Placeholder = "••••••••"
	password.EchoMode = textinput.EchoPassword

	return loginForm{email: email, password: password}
}

func (f loginForm) capturing() bool {
	return f.email.Focused() || f.password.Focused()
}

func (f loginForm) update(msg tea.Msg, gateway *api.Client) (loginForm, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "tab", "shift+tab", "up", "down":
			f.focus = 1 - f.focus
			f.syncFocus()
			return f, textinput.Blink
		case "esc":
			f.email.Blur()
			f.password.Blur()
			return f, nil
		case "enter":
			if f.submitting {
				return f, nil // one in-flight login at a time
			}
			if f.focus == 0 {
				f.focus = 1
				f.syncFocus()
				return f, textinput.Blink
			}
			return f.submit(gateway)
		}
	}

	var cmd tea.Cmd
	if f.focus == 0 {
		f.email, cmd = f.email.Update(msg)
	} else {
		f.password, cmd = f.password.Update(msg)
	}
	return f, cmd
}

func (f loginForm) submit(gateway *api.Client) (loginForm, tea.Cmd) {
	email := strings.TrimSpace(f.email.Value())
	password := f.password.Value()
	if email == "" || password == "" {
		f.errMsg = "Email and password are required."
		return f, nil
	}
	f.submitting = true
	f.errMsg = ""
	return f, func() tea.Msg {
		creds, err := gateway.Login(context.Background(), email, password)
		return loginDoneMsg{creds: creds, err: err}
	}
}

func (f loginForm) finish(msg loginDoneMsg) (loginForm, tea.Cmd) {
	f.submitting = false
	if msg.err != nil {
		f.errMsg = msg.err.Error()
		return f, nil
	}
	f.password.SetValue("")
	f.errMsg = ""
	return f, nil
}

func (f loginForm) render() string {
	var sb strings.Builder
	sb.WriteString(heading("Login to continue"))
	sb.WriteString(dimStyle.Render("  Use your registered email and password to access DeepFake analysis.") + "\n\n")
	sb.WriteString(labelStyle.Render("  Email") + "\n")
	sb.WriteString("  " + f.email.View() + "\n\n")
	sb.WriteString(labelStyle.Render("  Password") + "\n")
	sb.WriteString("  " + f.password.View() + "\n")
	if f.errMsg != "" {
		sb.WriteString("\n  " + errorStyle.Render(f.errMsg) + "\n")
	}
	if f.submitting {
		sb.WriteString("\n  " + dimStyle.Render("Signing in...") + "\n")
	} else {
		sb.WriteString("\n" + hintStyle.Render("  tab switch field  enter submit  esc leave form") + "\n")
	}
	return sb.String()
}

func (f *loginForm) syncFocus() {
	if f.focus == 0 {
		f.email.Focus()
		f.password.Blur()
	} else {
		f.email.Blur()
		f.password.Focus()
	}
}

// ── Register form ─────────────────────────────────────────────────────────────

type registerForm struct {
	inputs     [3]textinput.Model // email, password, confirm
	focus      int
	submitting bool
	errMsg     string
}

func newRegisterForm() registerForm {
	email := textinput.New()
	email.Placeholder = "you@example.com"
	email.CharLimit = 254
	email.Focus()

	password := textinput.New()
	password.Placeholder = "At least 6 characters"
	password.EchoMode = textinput.EchoPassword

	confirm := textinput.New()
	confirm.Placeholder = "Re-type password"
	confirm.EchoMode = textinput.EchoPassword

	return registerForm{inputs: [3]textinput.Model{email, password, confirm}}
}

func (f registerForm) capturing() bool {
	for i := range f.inputs {
		if f.inputs[i].Focused() {
			return true
		}
	}
	return false
}

func (f registerForm) update(msg tea.Msg, gateway *api.Client) (registerForm, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "tab", "down":
			f.focus = (f.focus + 1) % len(f.inputs)
			f.syncFocus()
			return f, textinput.Blink
		case "shift+tab", "up":
			f.focus = (f.focus + len(f.inputs) - 1) % len(f.inputs)
			f.syncFocus()
			return f, textinput.Blink
		case "esc":
			for i := range f.inputs {
				f.inputs[i].Blur()
			}
			return f, nil
		case "enter":
			if f.submitting {
				return f, nil
			}
			if f.focus < len(f.inputs)-1 {
				f.focus++
				f.syncFocus()
				return f, textinput.Blink
			}
			return f.submit(gateway)
		}
	}

	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd
}

func (f registerForm) submit(gateway *api.Client) (registerForm, tea.Cmd) {
	email := strings.TrimSpace(f.inputs[0].Value())
	password := f.inputs[1].Value()
	confirm := f.inputs[2].Value()

	if email == "" || password == "" {
		f.errMsg = "Email and password are required."
		return f, nil
	}
	// Checked locally; never reaches the backend.
	if password != confirm {
		f.errMsg = "Passwords do not match."
		return f, nil
	}

	f.submitting = true
	f.errMsg = ""
	return f, func() tea.Msg {
		return registerDoneMsg{err: gateway.Register(context.Background(), email, password)}
	}
}

func (f registerForm) finish(msg registerDoneMsg) registerForm {
	f.submitting = false
	if msg.err != nil {
		f.errMsg = msg.err.Error()
		return f
	}
	f.errMsg = ""
	f.inputs[1].SetValue("")
	f.inputs[2].SetValue("")
	return f
}

func (f registerForm) render() string {
	var sb strings.Builder
	sb.WriteString(heading("Create an account"))
	sb.WriteString(dimStyle.Render("  Register with your email and a password to securely use the DeepFake\n  Detection tool.") + "\n\n")
	labels := [3]string{"  Email", "  Password", "  Confirm password"}
	for i := range f.inputs {
		sb.WriteString(labelStyle.Render(labels[i]) + "\n")
		sb.WriteString("  " + f.inputs[i].View() + "\n\n")
	}
	if f.errMsg != "" {
		sb.WriteString("  " + errorStyle.Render(f.errMsg) + "\n")
	}
	if f.submitting {
		sb.WriteString("  " + dimStyle.Render("Creating account...") + "\n")
	} else {
		sb.WriteString(hintStyle.Render("  tab switch field  enter submit  esc leave form") + "\n")
	}
	return sb.String()
}

func (f *registerForm) syncFocus() {
	for i := range f.inputs {
		if i == f.focus {
			f.inputs[i].Focus()
		} else {
			f.inputs[i].Blur()
		}
	}
}
