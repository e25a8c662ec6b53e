package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/huuquangg/dfscan/internal/session"
)

var loginCmd = &cobra.Command{
	Use:   "login <email>",
	Short: "Log in and persist the session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		password, err := readPassword(cmd, "Password: ")
		if err != nil {
			return err
		}

		creds, err := newGateway().Login(cmd.Context(), args[0], password)
		if err != nil {
			return err
		}

		store, err := session.NewStore()
		if err != nil {
			return err
		}
		if err := store.Save(&session.Session{Token: creds.Token, Email: creds.Email}); err != nil {
			return err
		}

		cmd.Printf("Logged in as %s.\n", creds.Email)
		return nil
	},
}

// readPassword prompts for a password without echo on a terminal and falls
// back to reading one line from stdin otherwise (tests, pipes).
func readPassword(cmd *cobra.Command, prompt string) (string, error) {
	if term.IsTerminal(os.Stdin.Fd()) {
		fmt.Fprint(cmd.OutOrStdout(), prompt)
		pw, err := term.ReadPassword(os.Stdin.Fd())
		fmt.Fprintln(cmd.OutOrStdout())
		if err != nil {
			return "", err
		}
		return string(pw), nil
	}
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func init() {
	rootCmd.AddCommand(loginCmd)
}
