package cmd

import (
	"github.com/spf13/cobra"

	"github.com/huuquangg/dfscan/internal/session"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the persisted session",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := session.NewStore()
		if err != nil {
			return err
		}
		// Clearing with no active session is a no-op.
		if err := store.Clear(); err != nil {
			return err
		}
		cmd.Println("Logged out.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}
