// Package upload manages the file-selection → preview → submit → result
// lifecycle for a single media item. One Workflow instance exists per
// analysis surface (image or video).
package upload

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/huuquangg/dfscan/internal/api"
)

// State is the workflow's position in its lifecycle.
type State int

const (
	StateEmpty State = iota
	StateFileSelected
	StateSubmitting
	StateResultReady
	StateFailed
)

// Detector is the slice of the API client the workflow needs.
type Detector interface {
	Detect(ctx context.Context, kind api.MediaKind, filename string, file io.Reader, token string) (*api.DetectionResult, error)
}

var imageExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true}
var videoExts = map[string]bool{".mp4": true, ".mov": true, ".avi": true}

// Workflow drives one upload through selection, submission, and outcome.
// All methods are called from a single event loop; the only concurrent use
// is Run, which performs the network call and mutates nothing.
type Workflow struct {
	kind    api.MediaKind
	gateway Detector
	token   string

	state   State
	preview *Preview
	result  *api.DetectionResult
	errMsg  string
}

// New returns an empty workflow for the given media kind. token may be empty
// for anonymous analysis.
func New(kind api.MediaKind, gateway Detector, token string) *Workflow {
	return &Workflow{kind: kind, gateway: gateway, token: token}
}

// SetToken swaps the credential used for subsequent submissions (login or
// logout while the view stays mounted).
func (w *Workflow) SetToken(token string) { w.token = token }

func (w *Workflow) State() State                 { return w.state }
func (w *Workflow) Kind() api.MediaKind          { return w.kind }
func (w *Workflow) Preview() *Preview            { return w.preview }
func (w *Workflow) Result() *api.DetectionResult { return w.result }
func (w *Workflow) ErrMsg() string               { return w.errMsg }

// SelectFile validates that path matches the workflow's media kind, opens a
// preview handle, and resets any prior result or error. Valid from any state;
// the superseded preview is released before the new one takes its place.
func (w *Workflow) SelectFile(path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	allowed := imageExts
	if w.kind == api.KindVideo {
		allowed = videoExts
	}
	if !allowed[ext] {
		return fmt.Errorf("%s is not a supported %s file", filepath.Base(path), w.kind)
	}

	p, err := openPreview(path)
	if err != nil {
		return err
	}

	if w.preview != nil {
		w.preview.Release()
	}
	w.preview = p
	w.result = nil
	w.errMsg = ""
	w.state = StateFileSelected
	return nil
}

// Submission is the immutable snapshot of one submission's inputs, captured
// by Start. Run reads only the snapshot, so the event loop is free to change
// the selection or credential while the call is in flight.
type Submission struct {
	Path  string
	Name  string
	Token string
}

// Start begins a submission. With no file selected it fails locally with a
// kind-specific message and no backend contact. While a call is already in
// flight it is ignored. On success it returns the snapshot to hand to Run.
func (w *Workflow) Start() (*Submission, bool) {
	switch w.state {
	case StateSubmitting:
		return nil, false
	case StateFileSelected, StateResultReady, StateFailed:
		if w.preview != nil {
			w.state = StateSubmitting
			return &Submission{Path: w.preview.Path, Name: w.preview.Name, Token: w.token}, true
		}
		fallthrough
	default:
		w.errMsg = fmt.Sprintf("Please choose a %s first.", w.kind)
		w.state = StateFailed
		return nil, false
	}
}

// Run performs the detection call for a snapshot captured by Start. It touches
// no mutable workflow state (kind and gateway are fixed at construction), so
// the event loop may invoke it from a tea.Cmd goroutine and deliver the
// outcome back through Finish.
func (w *Workflow) Run(ctx context.Context, sub *Submission) (*api.DetectionResult, error) {
	f, err := os.Open(sub.Path)
	if err != nil {
		return nil, &api.RequestError{Message: "Failed to read selected file"}
	}
	defer f.Close()
	return w.gateway.Detect(ctx, w.kind, sub.Name, f, sub.Token)
}

// Finish records the outcome of a submission started with Start. Outcomes
// arriving in any other state (e.g. after a new file was selected) are stale
// and dropped.
func (w *Workflow) Finish(res *api.DetectionResult, err error) {
	if w.state != StateSubmitting {
		return
	}
	if err != nil {
		w.errMsg = err.Error()
		w.state = StateFailed
		return
	}
	w.result = res
	w.state = StateResultReady
}

// Submit is the synchronous path used by the CLI: Start, Run, Finish in order.
func (w *Workflow) Submit(ctx context.Context) {
	sub, ok := w.Start()
	if !ok {
		return
	}
	res, err := w.Run(ctx, sub)
	w.Finish(res, err)
}

// DiscardOutcome drops a completed result or failure, returning to the
// selection state. A submission still in flight is untouched; its outcome
// arrives through Finish as usual.
func (w *Workflow) DiscardOutcome() {
	if w.state != StateResultReady && w.state != StateFailed {
		return
	}
	w.result = nil
	w.errMsg = ""
	if w.preview != nil {
		w.state = StateFileSelected
	} else {
		w.state = StateEmpty
	}
}

// Close releases the preview handle. Safe to call repeatedly; called when the
// owning view is torn down.
func (w *Workflow) Close() {
	if w.preview != nil {
		w.preview.Release()
		w.preview = nil
	}
}

// Preview is the transient handle for a selected file. It keeps the file open
// so the selection stays readable until superseded, and must be Released on
// every exit path.
type Preview struct {
	Path string
	Name string
	Size int64

	f *os.File
}

func openPreview(path string) (*Preview, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	return &Preview{Path: path, Name: filepath.Base(path), Size: info.Size(), f: f}, nil
}

// Release frees the underlying file handle. Idempotent.
func (p *Preview) Release() {
	if p.f != nil {
		p.f.Close()
		p.f = nil
	}
}

// Released reports whether the handle has been freed.
func (p *Preview) Released() bool { return p.f == nil }
