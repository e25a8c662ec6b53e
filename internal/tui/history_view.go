package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// historyView lists the authenticated user's past scans. It holds no
// long-lived copy of anything: the list is whatever the last fetch returned,
// and a failed refresh leaves the previous list on screen.
type historyView struct {
	vp      viewport.Model
	entries []historyRow
	loading bool
	errMsg  string
	ready   bool
}

// historyRow is one rendered entry; kept pre-formatted so resize is cheap.
type historyRow struct {
	line string
	when string
}

func newHistoryView() *historyView {
	return &historyView{}
}

func (h *historyView) resize(width, height int) {
	if height < 1 {
		height = 1
	}
	h.vp = viewport.New(width, height)
	h.ready = true
	h.vp.SetContent(h.content())
}

func (h *historyView) update(msg tea.Msg, loggedIn bool, fetch func() tea.Cmd) tea.Cmd {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "r" {
		// Manual refresh; a no-op without a session.
		if loggedIn && !h.loading {
			return fetch()
		}
		return nil
	}
	if !h.ready {
		return nil
	}
	var cmd tea.Cmd
	h.vp, cmd = h.vp.Update(msg)
	return cmd
}

func (h *historyView) finish(msg historyDoneMsg) {
	h.loading = false
	if msg.err != nil {
		// Keep the previously displayed list; only the error line changes.
		h.errMsg = msg.err.Error()
	} else {
		h.errMsg = ""
		h.entries = h.entries[:0]
		for _, e := range msg.entries {
			h.entries = append(h.entries, historyRow{
				line: fmt.Sprintf("%s • %s\n  %s • %.2f%%", strings.ToUpper(e.FileType), e.Filename, e.Prediction, e.Confidence),
				when: e.Timestamp.Local().Format("2006-01-02 15:04:05"),
			})
		}
	}
	if h.ready {
		h.vp.SetContent(h.content())
		h.vp.GotoTop()
	}
}

func (h *historyView) reset() {
	h.entries = nil
	h.errMsg = ""
	h.loading = false
	if h.ready {
		h.vp.SetContent(h.content())
	}
}

func (h *historyView) content() string {
	var sb strings.Builder
	for _, row := range h.entries {
		sb.WriteString("  " + strings.ReplaceAll(row.line, "\n", "\n  "))
		sb.WriteString("   " + timeStyle.Render(row.when) + "\n\n")
	}
	return sb.String()
}

func (h *historyView) render() string {
	var sb strings.Builder
	sb.WriteString(heading("Your scan history"))
	sb.WriteString(dimStyle.Render("  Only your own scans are shown here. Other users' results remain private.") + "\n\n")

	if h.errMsg != "" {
		sb.WriteString("  " + errorStyle.Render(h.errMsg) + "\n\n")
	}
	if h.loading {
		sb.WriteString("  " + dimStyle.Render("Loading...") + "\n\n")
	}
	if len(h.entries) == 0 {
		if !h.loading && h.errMsg == "" {
			sb.WriteString(dimStyle.Render("  No scans yet. Analyze an image or video to see it here.") + "\n")
		}
		return sb.String()
	}
	if h.ready {
		sb.WriteString(h.vp.View())
	} else {
		sb.WriteString(h.content())
	}
	return sb.String()
}
