// Package tui provides the Bubble Tea interface for the DeepFake Detection
// client: view navigation with auth gating, the two analysis surfaces, and
// the scan history listing.
package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/huuquangg/dfscan/internal/api"
	"github.com/huuquangg/dfscan/internal/config"
	"github.com/huuquangg/dfscan/internal/session"
)

// ── Styles ────────────

var (
	// Title bar at the very top
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("94")).
			Padding(0, 2)

	// Active tab: bright
	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("94")).
			Padding(0, 1)

	// Inactive tab: muted
	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245")).
				Background(lipgloss.Color("235")).
				Padding(0, 1)

	// Separator between tabs
	tabSepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("238")).
			Background(lipgloss.Color("235"))

	// Section heading inside a view
	sectionHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("179"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("33")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	timeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("178"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("82"))

	realBadgeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("82")).
			Bold(true)

	fakeBadgeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	barFillReal = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	barFillFake = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	statusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("245")).
			Padding(0, 1)
)

// ── View definitions ─────────────────

type viewID int

const (
	viewHome viewID = iota
	viewImage
	viewVideo
	viewHistory
	viewLogin
	viewRegister
	viewCount
)

var viewNames = [viewCount]string{
	"Home", "Image", "Video", "History", "Login", "Register",
}

// protectedViews are reachable only with an active session.
var protectedViews = [viewCount]bool{
	viewImage:   true,
	viewVideo:   true,
	viewHistory: true,
}

const loginRequiredNotice = "Please log in to use DeepFake analysis."

// ── Async outcome messages ───────────────────

type loginDoneMsg struct {
	creds *api.Credentials
	err   error
}

type registerDoneMsg struct {
	err error
}

type detectDoneMsg struct {
	kind api.MediaKind
	res  *api.DetectionResult
	err  error
}

type historyDoneMsg struct {
	entries []api.HistoryEntry
	err     error
}

// ── Model ────────────────────

// Model is the root Bubble Tea model. It owns the active view, the session,
// and one sub-model per view.
type Model struct {
	gateway *api.Client
	store   session.Store
	sess    *session.Session // nil when logged out

	active viewID
	notice string // one-shot banner (login required, account created)

	login    loginForm
	register registerForm
	image    *uploadView
	video    *uploadView
	history  *historyView

	width  int
	height int
	ready  bool
}

// New creates the root model. Any previously persisted session is restored;
// a missing or malformed one simply means starting logged out.
func New(gateway *api.Client, store session.Store) Model {
	m := Model{
		gateway:  gateway,
		store:    store,
		active:   viewHome,
		login:    newLoginForm(),
		register: newRegisterForm(),
		history:  newHistoryView(),
	}
	if s, err := store.Load(); err == nil {
		m.sess = s
	}
	m.image = newUploadView(api.KindImage, gateway, m.token())
	m.video = newUploadView(api.KindVideo, gateway, m.token())
	return m
}

func (m Model) token() string {
	if m.sess == nil {
		return ""
	}
	return m.sess.Token
}

// ── Navigation guard ───────────────

// requestView is the only way the active view changes. Protected views
// without a session redirect to login with a notice; everything else
// switches unconditionally. Leaving an analysis view discards its finished
// outcome; coming back starts from the selection again.
func (m *Model) requestView(v viewID) tea.Cmd {
	if v != m.active {
		switch m.active {
		case viewImage:
			m.image.discardOutcome()
		case viewVideo:
			m.video.discardOutcome()
		}
	}
	if protectedViews[v] && m.sess == nil {
		m.notice = loginRequiredNotice
		m.active = viewLogin
		return nil
	}
	m.notice = ""
	m.active = v
	if v == viewHistory && m.sess != nil {
		return m.fetchHistoryCmd()
	}
	return nil
}

// completeLogin establishes the session and lands on the image view, the
// fixed post-login destination.
func (m *Model) completeLogin(creds *api.Credentials) {
	s := &session.Session{Token: creds.Token, Email: creds.Email}
	_ = m.store.Save(s) // best-effort: the in-memory session still works
	m.sess = s
	m.image.setToken(s.Token)
	m.video.setToken(s.Token)
	m.notice = ""
	m.active = viewImage
}

// logout clears the session and returns home. Idempotent.
func (m *Model) logout() {
	_ = m.store.Clear()
	m.sess = nil
	m.image.setToken("")
	m.image.discardOutcome()
	m.video.setToken("")
	m.video.discardOutcome()
	m.history.reset()
	m.notice = ""
	m.active = viewHome
}

// ── Bubble Tea interface ───────────────

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.history.resize(msg.Width, msg.Height-4)
		return m, nil

	case loginDoneMsg:
		var cmd tea.Cmd
		m.login, cmd = m.login.finish(msg)
		if msg.err == nil && msg.creds != nil {
			m.completeLogin(msg.creds)
		}
		return m, cmd

	case registerDoneMsg:
		m.register = m.register.finish(msg)
		if msg.err == nil {
			// Same flow as the web client: land on login with a success note.
			m.active = viewLogin
			m.notice = "Account created! You can now login."
		}
		return m, nil

	case detectDoneMsg:
		// Route to the workflow that issued the call; a stale outcome for a
		// view that moved on is dropped by Finish.
		if msg.kind == api.KindVideo {
			m.video.finish(msg)
		} else {
			m.image.finish(msg)
		}
		return m, nil

	case historyDoneMsg:
		m.history.finish(msg)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	// Everything else (spinner ticks, blink) goes to the active view.
	return m, m.updateActive(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	// While a text input has focus, printable keys belong to it.
	if !m.capturing() {
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "1", "2", "3", "4", "5", "6":
			cmd := m.requestView(viewID(msg.String()[0] - '1'))
			return m, cmd
		case "x":
			if m.sess != nil {
				m.logout()
				return m, nil
			}
		}
	}

	return m, m.updateActive(msg)
}

// capturing reports whether the active view currently owns the keyboard
// (a focused text input).
func (m Model) capturing() bool {
	switch m.active {
	case viewLogin:
		return m.login.capturing()
	case viewRegister:
		return m.register.capturing()
	case viewImage:
		return m.image.capturing()
	case viewVideo:
		return m.video.capturing()
	}
	return false
}

// updateActive forwards a message to the active view's sub-model.
func (m *Model) updateActive(msg tea.Msg) tea.Cmd {
	switch m.active {
	case viewLogin:
		var cmd tea.Cmd
		m.login, cmd = m.login.update(msg, m.gateway)
		return cmd
	case viewRegister:
		var cmd tea.Cmd
		m.register, cmd = m.register.update(msg, m.gateway)
		return cmd
	case viewImage:
		return m.image.update(msg)
	case viewVideo:
		return m.video.update(msg)
	case viewHistory:
		return m.history.update(msg, m.sess != nil, m.fetchHistoryCmd)
	}
	return nil
}

func (m *Model) fetchHistoryCmd() tea.Cmd {
	gateway, token := m.gateway, m.token()
	m.history.loading = true
	return func() tea.Msg {
		entries, err := gateway.FetchHistory(context.Background(), token)
		return historyDoneMsg{entries: entries, err: err}
	}
}

// ── Rendering ─────────────────────────────────────────────────────────────────

func (m Model) View() string {
	if !m.ready {
		return "Loading…"
	}

	title := titleStyle.Width(m.width).Render("  dfscan  DeepFake Detection")

	var tabParts []string
	for i := viewID(0); i < viewCount; i++ {
		label := fmt.Sprintf(" %d %s ", i+1, viewNames[i])
		if i == m.active {
			tabParts = append(tabParts, activeTabStyle.Render(label))
		} else {
			tabParts = append(tabParts, inactiveTabStyle.Render(label))
		}
		if i < viewCount-1 {
			tabParts = append(tabParts, tabSepStyle.Render("│"))
		}
	}
	tabRow := lipgloss.NewStyle().
		Background(lipgloss.Color("235")).
		Width(m.width).
		Render(lipgloss.JoinHorizontal(lipgloss.Top, tabParts...))

	var body strings.Builder
	if m.notice != "" {
		body.WriteString("\n  " + noticeStyle.Render(m.notice) + "\n")
	}
	body.WriteString(m.renderActive())

	hint := "  1-6 views  q quit"
	if m.sess != nil {
		hint += "  x logout"
	}
	if m.active == viewHistory {
		hint += "  r refresh"
	}
	who := "not logged in"
	if m.sess != nil {
		who = m.sess.Email
	}
	pad := m.width - lipgloss.Width(hint) - lipgloss.Width(who) - 2
	if pad < 1 {
		pad = 1
	}
	statusBar := statusBarStyle.Width(m.width).Render(hint + strings.Repeat(" ", pad) + who)

	content := body.String()
	contentHeight := m.height - 3
	if lines := strings.Count(content, "\n"); lines < contentHeight {
		content += strings.Repeat("\n", contentHeight-lines)
	}

	return lipgloss.JoinVertical(lipgloss.Left, title, tabRow, content, statusBar)
}

func (m Model) renderActive() string {
	switch m.active {
	case viewImage:
		return m.image.render(m.width)
	case viewVideo:
		return m.video.render(m.width)
	case viewHistory:
		return m.history.render()
	case viewLogin:
		return m.login.render()
	case viewRegister:
		return m.register.render()
	}
	return m.renderHome()
}

func (m Model) renderHome() string {
	var sb strings.Builder
	sb.WriteString(heading("DeepFake Detection: Identify Real vs Fake"))
	sb.WriteString("  Analyze photos and videos to check whether they are authentic or\n")
	sb.WriteString("  artificially manipulated using AI.\n\n")
	sb.WriteString(bullet("Image analysis — upload a face image and get a REAL/FAKE verdict"))
	sb.WriteString(bullet("Video analysis — key frames are sampled and analyzed"))
	sb.WriteString(bullet("History — every scan on your account, newest first"))
	sb.WriteString("\n")
	if m.sess == nil {
		sb.WriteString(dimStyle.Render("  Log in (5) or register (6) to start analyzing.") + "\n")
	} else {
		sb.WriteString(dimStyle.Render("  Jump to image (2) or video (3) analysis.") + "\n")
	}
	return sb.String()
}

func heading(s string) string {
	return "\n" + sectionHeader.Render("  "+s) + "\n\n"
}

func bullet(text string) string {
	return dimStyle.Render("  •") + "  " + text + "\n"
}

// Run starts the TUI against the configured backend.
func Run(cfg config.Config, store session.Store) error {
	p := tea.NewProgram(New(api.New(cfg.APIBaseURL), store), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
