// Package watch implements drop-folder mode: media files created in a
// watched directory are classified by extension and handed to a submit
// callback as they appear.
package watch

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/huuquangg/dfscan/internal/api"
)

// Classify maps a filename to the media kind its extension implies.
// ok is false for anything that is not a supported image or video file.
func Classify(path string) (kind api.MediaKind, ok bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg", ".png":
		return api.KindImage, true
	case ".mp4", ".mov", ".avi":
		return api.KindVideo, true
	default:
		return 0, false
	}
}

// SubmitFunc receives each newly dropped media file. Submission failures are
// the callback's to report; the watcher keeps running either way.
type SubmitFunc func(path string, kind api.MediaKind)

// Run watches dir until ctx is cancelled, invoking submit for every media
// file created in it. Non-media files and watcher errors are ignored;
// the loop only stops on cancellation or when the watcher channel closes.
func Run(ctx context.Context, dir string, submit SubmitFunc) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			// Create covers both direct drops and renames into the folder.
			if !event.Has(fsnotify.Create) {
				continue
			}
			kind, isMedia := Classify(event.Name)
			if !isMedia {
				continue
			}
			submit(event.Name, kind)

		case _, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			// Watcher errors are non-fatal; continue watching.
		}
	}
}
