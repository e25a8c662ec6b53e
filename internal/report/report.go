// Package report serializes scan outcomes for saving or piping: a single
// detection result as a scan report, or a history listing.
package report

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/huuquangg/dfscan/internal/api"
)

// ScanReport is the complete, renderable record of one detection.
type ScanReport struct {
	Filename   string              `json:"filename"`
	MediaKind  string              `json:"media_kind"` // "image" or "video"
	ScannedAt  time.Time           `json:"scanned_at"`
	Result     api.DetectionResult `json:"result"`
	ScannedBy  string              `json:"scanned_by,omitempty"` // account email, empty for anonymous scans
	BackendURL string              `json:"backend_url,omitempty"`
}

// Renderer serializes a ScanReport to bytes.
type Renderer interface {
	Render(r *ScanReport) ([]byte, error)
}

// ForFormat returns the renderer for a format name ("json" or "markdown").
func ForFormat(format string) (Renderer, error) {
	switch format {
	case "json":
		return &JSONRenderer{}, nil
	case "markdown":
		return &MarkdownRenderer{}, nil
	default:
		return nil, fmt.Errorf("unknown report format %q", format)
	}
}

// JSONRenderer renders a ScanReport as indented JSON.
type JSONRenderer struct{}

func (r *JSONRenderer) Render(rep *ScanReport) ([]byte, error) {
	return json.MarshalIndent(rep, "", "  ")
}

// MarkdownRenderer renders a ScanReport as human-readable Markdown.
type MarkdownRenderer struct{}

func (r *MarkdownRenderer) Render(rep *ScanReport) ([]byte, error) {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# Scan report — %s\n\n", rep.Filename)

	sb.WriteString("## Summary\n\n")
	fmt.Fprintf(&sb, "- Media kind: %s\n", rep.MediaKind)
	fmt.Fprintf(&sb, "- Scanned at: %s\n", rep.ScannedAt.Format("2006-01-02 15:04:05 MST"))
	if rep.ScannedBy != "" {
		fmt.Fprintf(&sb, "- Account: %s\n", rep.ScannedBy)
	}
	fmt.Fprintf(&sb, "- Verdict: **%s • %.2f%%**\n", rep.Result.Label, rep.Result.Confidence)
	sb.WriteString("\n")

	sb.WriteString("## Reasoning\n\n")
	if rep.Result.Reasoning == "" {
		sb.WriteString("_No reasoning provided._\n")
	} else {
		sb.WriteString(rep.Result.Reasoning)
		if !strings.HasSuffix(rep.Result.Reasoning, "\n") {
			sb.WriteString("\n")
		}
	}
	return []byte(sb.String()), nil
}

// HistoryJSON renders a history listing as indented JSON.
func HistoryJSON(entries []api.HistoryEntry) ([]byte, error) {
	return json.MarshalIndent(entries, "", "  ")
}

// HistoryMarkdown renders a history listing as a Markdown table.
func HistoryMarkdown(entries []api.HistoryEntry) ([]byte, error) {
	var sb strings.Builder
	sb.WriteString("# Scan history\n\n")
	if len(entries) == 0 {
		sb.WriteString("_No scans yet._\n")
		return []byte(sb.String()), nil
	}
	sb.WriteString("| When | Type | File | Verdict |\n")
	sb.WriteString("|------|------|------|--------|\n")
	for _, e := range entries {
		fmt.Fprintf(&sb, "| %s | %s | %s | %s • %.2f%% |\n",
			e.Timestamp.Format("2006-01-02 15:04:05"),
			strings.ToUpper(e.FileType),
			e.Filename,
			e.Prediction,
			e.Confidence,
		)
	}
	return []byte(sb.String()), nil
}
