package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/huuquangg/dfscan/internal/session"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in account",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := session.NewStore()
		if err != nil {
			return err
		}
		s, err := store.Load()
		if err != nil {
			if errors.Is(err, session.ErrNoSession) {
				cmd.Println("not logged in")
				return nil
			}
			return err
		}
		cmd.Println(s.Email)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}
