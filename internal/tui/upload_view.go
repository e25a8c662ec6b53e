package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/huuquangg/dfscan/internal/api"
	"github.com/huuquangg/dfscan/internal/upload"
)

// uploadView hosts one upload.Workflow: a path prompt, the preview of the
// selected file, a spinner while a call is in flight, and the result card.
type uploadView struct {
	wf     *upload.Workflow
	path   textinput.Model
	spin   spinner.Model
	selErr string // local selection error (bad extension, unreadable file)
}

func newUploadView(kind api.MediaKind, gateway *api.Client, token string) *uploadView {
	path := textinput.New()
	if kind == api.KindVideo {
		path.Placeholder = "path/to/clip.mp4"
	} else {
		path.Placeholder = "path/to/photo.jpg"
	}
	path.CharLimit = 4096

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return &uploadView{
		wf:   upload.New(kind, gateway, token),
		path: path,
		spin: sp,
	}
}

func (v *uploadView) setToken(token string) { v.wf.SetToken(token) }

func (v *uploadView) capturing() bool { return v.path.Focused() }

func (v *uploadView) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if v.wf.State() == upload.StateSubmitting {
			var cmd tea.Cmd
			v.spin, cmd = v.spin.Update(msg)
			return cmd
		}
		return nil

	case tea.KeyMsg:
		if v.path.Focused() {
			switch msg.String() {
			case "enter":
				v.path.Blur()
				v.selErr = ""
				if err := v.wf.SelectFile(strings.TrimSpace(v.path.Value())); err != nil {
					v.selErr = err.Error()
				}
				return nil
			case "esc":
				v.path.Blur()
				return nil
			}
			var cmd tea.Cmd
			v.path, cmd = v.path.Update(msg)
			return cmd
		}

		switch msg.String() {
		case "e", "/":
			v.selErr = ""
			return v.path.Focus()
		case "enter", "s":
			if sub, ok := v.wf.Start(); ok {
				return tea.Batch(v.spin.Tick, v.submitCmd(sub))
			}
			return nil
		}
	}
	return nil
}

// submitCmd performs the detection call off the event loop and delivers the
// outcome as a detectDoneMsg. The snapshot keeps the goroutine off the
// workflow's mutable selection state.
func (v *uploadView) submitCmd(sub *upload.Submission) tea.Cmd {
	wf := v.wf
	return func() tea.Msg {
		res, err := wf.Run(context.Background(), sub)
		return detectDoneMsg{kind: wf.Kind(), res: res, err: err}
	}
}

// discardOutcome clears a finished result or failure when the user leaves
// the view; the selected file stays selected.
func (v *uploadView) discardOutcome() { v.wf.DiscardOutcome() }

func (v *uploadView) finish(msg detectDoneMsg) {
	v.wf.Finish(msg.res, msg.err)
}

func (v *uploadView) render(width int) string {
	var sb strings.Builder

	if v.wf.Kind() == api.KindVideo {
		sb.WriteString(heading("Video analysis"))
		sb.WriteString(dimStyle.Render("  Upload a short video. Key frames will be sampled and analyzed for\n  deepfake characteristics.") + "\n\n")
		sb.WriteString(labelStyle.Render("  Video file") + dimStyle.Render("  (MP4 · MOV · AVI)") + "\n")
	} else {
		sb.WriteString(heading("Image analysis"))
		sb.WriteString(dimStyle.Render("  Upload a face image. The system will check for signs of AI-generated\n  or manipulated content.") + "\n\n")
		sb.WriteString(labelStyle.Render("  Image file") + dimStyle.Render("  (JPG · PNG · JPEG)") + "\n")
	}
	sb.WriteString("  " + v.path.View() + "\n")

	if p := v.wf.Preview(); p != nil {
		sb.WriteString("\n" + dimStyle.Render("  Selected:") + fmt.Sprintf("  %s  %s\n", p.Name, dimStyle.Render(humanSize(p.Size))))
	}
	if v.selErr != "" {
		sb.WriteString("\n  " + errorStyle.Render(v.selErr) + "\n")
	}

	switch v.wf.State() {
	case upload.StateSubmitting:
		sb.WriteString("\n  " + v.spin.View() + "Analyzing...\n")
	case upload.StateFailed:
		sb.WriteString("\n  " + errorStyle.Render(v.wf.ErrMsg()) + "\n")
	case upload.StateResultReady:
		sb.WriteString(renderResultCard(v.wf.Result(), width, v.wf.Kind() == api.KindVideo))
	}

	sb.WriteString("\n" + hintStyle.Render("  e choose file  enter analyze") + "\n")
	return sb.String()
}

// renderResultCard renders one DetectionResult: verdict badge, confidence
// bar, and the backend's reasoning verbatim.
func renderResultCard(res *api.DetectionResult, width int, video bool) string {
	var sb strings.Builder

	if video {
		sb.WriteString(heading("Video Analysis Result"))
	} else {
		sb.WriteString(heading("Image Analysis Result"))
	}

	isFake := res.Label == "FAKE"
	headline := "✅ Looks Real"
	badgeStyle := realBadgeStyle
	fillStyle := barFillReal
	if isFake {
		headline = "⚠️ Deepfake Likely"
		badgeStyle = fakeBadgeStyle
		fillStyle = barFillFake
	}
	sb.WriteString("  " + headline + "   " + badgeStyle.Render(verdictBadge(res)) + "\n\n")

	barWidth := width - 8
	if barWidth > 60 {
		barWidth = 60
	}
	if barWidth < 10 {
		barWidth = 10
	}
	filled := int(res.Confidence / 100 * float64(barWidth))
	if filled > barWidth {
		filled = barWidth
	}
	sb.WriteString("  " + dimStyle.Render("Confidence") + "\n")
	sb.WriteString("  " + fillStyle.Render(strings.Repeat("█", filled)) + dimStyle.Render(strings.Repeat("░", barWidth-filled)) + "\n\n")

	sb.WriteString("  " + dimStyle.Render("Reasoning") + "\n")
	for _, line := range strings.Split(res.Reasoning, "\n") {
		sb.WriteString("  " + line + "\n")
	}
	return sb.String()
}

// verdictBadge formats a result as e.g. "FAKE • 87.50%".
func verdictBadge(res *api.DetectionResult) string {
	return fmt.Sprintf("%s • %.2f%%", res.Label, res.Confidence)
}

// humanSize formats a byte count for the preview line.
func humanSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
