package cmd

import (
	"errors"
	"os"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"
)

var registerCmd = &cobra.Command{
	Use:   "register <email>",
	Short: "Create a new account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		password, err := readPassword(cmd, "Password: ")
		if err != nil {
			return err
		}

		// Confirmation prompt only makes sense interactively; piped input
		// supplies the password once.
		if term.IsTerminal(os.Stdin.Fd()) {
			confirm, err := readPassword(cmd, "Confirm password: ")
			if err != nil {
				return err
			}
			if password != confirm {
				return errors.New("Passwords do not match.")
			}
		}

		if err := newGateway().Register(cmd.Context(), args[0], password); err != nil {
			return err
		}

		cmd.Println("Account created! You can now login.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(registerCmd)
}
