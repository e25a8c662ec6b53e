package cmd

import (
	"errors"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/huuquangg/dfscan/internal/api"
	"github.com/huuquangg/dfscan/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Watch a drop folder and analyze media files as they appear",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := cfg.WatchDir
		if len(args) == 1 {
			dir = args[0]
		}
		if dir == "" {
			return errors.New("no watch directory given (argument or watch_dir config)")
		}

		token, _ := currentAuth()
		gateway := newGateway()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		cmd.Printf("Watching %s — drop media files to analyze. Ctrl+C to stop.\n", dir)
		return watch.Run(ctx, dir, func(path string, kind api.MediaKind) {
			base := filepath.Base(path)
			f, err := os.Open(path)
			if err != nil {
				cmd.Printf("  ✗ %s: %v\n", base, err)
				return
			}
			defer f.Close()

			res, err := gateway.Detect(ctx, kind, base, f, token)
			if err != nil {
				cmd.Printf("  ✗ %s: %v\n", base, err)
				return
			}
			cmd.Printf("  %s: %s • %.2f%%\n", base, res.Label, res.Confidence)
		})
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
