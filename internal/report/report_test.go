package report_test

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/huuquangg/dfscan/internal/api"
	"github.com/huuquangg/dfscan/internal/report"
)

func sampleReport() *report.ScanReport {
	return &report.ScanReport{
		Filename:  "photo.jpg",
		MediaKind: "image",
		ScannedAt: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
		Result: api.DetectionResult{
			Label:      "FAKE",
			Confidence: 87.5,
			Reasoning:  "Inconsistent lighting around the jawline.",
		},
		ScannedBy: "a@x.com",
	}
}

func TestMarkdownReport(t *testing.T) {
	data, err := (&report.MarkdownRenderer{}).Render(sampleReport())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	md := string(data)

	for _, want := range []string{
		"# Scan report — photo.jpg",
		"**FAKE • 87.50%**",
		"Inconsistent lighting around the jawline.",
		"- Account: a@x.com",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}
}

func TestJSONReportRoundTrip(t *testing.T) {
	data, err := (&report.JSONRenderer{}).Render(sampleReport())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	var got report.ScanReport
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got.Result.Label != "FAKE" || got.Result.Confidence != 87.5 {
		t.Errorf("result = %+v", got.Result)
	}
	if got.Filename != "photo.jpg" {
		t.Errorf("filename = %q", got.Filename)
	}
}

func TestForFormat(t *testing.T) {
	if _, err := report.ForFormat("json"); err != nil {
		t.Errorf("json: %v", err)
	}
	if _, err := report.ForFormat("markdown"); err != nil {
		t.Errorf("markdown: %v", err)
	}
	if _, err := report.ForFormat("pdf"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestHistoryMarkdownTable(t *testing.T) {
	entries := []api.HistoryEntry{
		{ID: 1, FileType: "image", Filename: "a.jpg", Prediction: "FAKE", Confidence: 99.1,
			Timestamp: time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC)},
	}
	data, err := report.HistoryMarkdown(entries)
	if err != nil {
		t.Fatalf("HistoryMarkdown: %v", err)
	}
	md := string(data)
	if !strings.Contains(md, "| 2026-08-29 09:00:00 | IMAGE | a.jpg | FAKE • 99.10% |") {
		t.Errorf("unexpected table row:\n%s", md)
	}
}

func TestHistoryMarkdownEmpty(t *testing.T) {
	data, err := report.HistoryMarkdown(nil)
	if err != nil {
		t.Fatalf("HistoryMarkdown: %v", err)
	}
	if !strings.Contains(string(data), "_No scans yet._") {
		t.Errorf("empty listing:\n%s", data)
	}
}
