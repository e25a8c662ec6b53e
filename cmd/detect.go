package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/huuquangg/dfscan/internal/api"
	"github.com/huuquangg/dfscan/internal/report"
	"github.com/huuquangg/dfscan/internal/session"
	"github.com/huuquangg/dfscan/internal/upload"
	"github.com/huuquangg/dfscan/internal/watch"
)

var detectKindFlag string
var detectOut string
var detectFormat string

var detectCmd = &cobra.Command{
	Use:   "detect <file>",
	Short: "Submit one image or video for analysis",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]

		kind, err := resolveKind(path, detectKindFlag)
		if err != nil {
			return err
		}

		// A session is optional here: the token rides along when present.
		token, email := currentAuth()

		wf := upload.New(kind, newGateway(), token)
		defer wf.Close()
		if err := wf.SelectFile(path); err != nil {
			return err
		}

		wf.Submit(cmd.Context())
		if wf.State() != upload.StateResultReady {
			return errors.New(wf.ErrMsg())
		}
		res := wf.Result()

		cmd.Printf("File:       %s\n", wf.Preview().Name)
		cmd.Printf("Kind:       %s\n", kind)
		cmd.Printf("Verdict:    %s • %.2f%%\n", res.Label, res.Confidence)
		cmd.Println("Reasoning:")
		cmd.Printf("  %s\n", res.Reasoning)

		if detectOut == "" {
			return nil
		}

		format := detectFormat
		if format == "" {
			format = cfg.DefaultFormat
		}
		// "text" is a screen format; reports on disk default to markdown.
		if format == "" || format == "text" {
			format = "markdown"
		}
		renderer, err := report.ForFormat(format)
		if err != nil {
			return err
		}
		data, err := renderer.Render(&report.ScanReport{
			Filename:   wf.Preview().Name,
			MediaKind:  kind.String(),
			ScannedAt:  time.Now(),
			Result:     *res,
			ScannedBy:  email,
			BackendURL: cfg.APIBaseURL,
		})
		if err != nil {
			return err
		}
		if err := os.WriteFile(detectOut, data, 0o644); err != nil {
			return err
		}
		cmd.Printf("Report written to %s\n", detectOut)
		return nil
	},
}

// resolveKind picks the media kind from the --kind flag or the file extension.
func resolveKind(path, flag string) (api.MediaKind, error) {
	switch flag {
	case "image":
		return api.KindImage, nil
	case "video":
		return api.KindVideo, nil
	case "":
		if kind, ok := watch.Classify(path); ok {
			return kind, nil
		}
		return 0, fmt.Errorf("cannot tell image from video for %s; pass --kind", path)
	default:
		return 0, fmt.Errorf("unknown kind %q (want image or video)", flag)
	}
}

// currentAuth returns the persisted token and email, or empty strings when
// logged out or the store is unreadable.
func currentAuth() (token, email string) {
	store, err := session.NewStore()
	if err != nil {
		return "", ""
	}
	s, err := store.Load()
	if err != nil {
		return "", ""
	}
	return s.Token, s.Email
}

func init() {
	detectCmd.Flags().StringVar(&detectKindFlag, "kind", "", "media kind: image or video (default: by extension)")
	detectCmd.Flags().StringVarP(&detectOut, "output", "o", "", "write a scan report to this file")
	detectCmd.Flags().StringVar(&detectFormat, "format", "", "report format: markdown or json")
	rootCmd.AddCommand(detectCmd)
}
