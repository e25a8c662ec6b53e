package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/x/term"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/huuquangg/dfscan/internal/api"
	"github.com/huuquangg/dfscan/internal/config"
	"github.com/huuquangg/dfscan/internal/profile"
	"github.com/huuquangg/dfscan/internal/session"
	"github.com/huuquangg/dfscan/internal/tui"
)

// cfg holds the merged configuration, populated in PersistentPreRunE.
var cfg config.Config

// activeProfile holds the loaded user profile.
var activeProfile *profile.Profile

// apiOverride is the --api flag: a one-invocation backend address override.
var apiOverride string

var rootCmd = &cobra.Command{
	Use:   "dfscan",
	Short: "Check images and videos for deepfakes from your terminal",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip setup check for the setup command itself.
		if cmd.Name() == "setup" {
			return nil
		}

		// A .env next to the binary may carry DFSCAN_* overrides.
		_ = godotenv.Load()

		// First-run: profile missing → run setup wizard automatically.
		// Only do this when stdin is an interactive terminal.
		if !profile.Exists() {
			if term.IsTerminal(os.Stdin.Fd()) {
				fmt.Println()
				fmt.Println("  Welcome to dfscan! Looks like this is your first time.")
				if err := runSetup(true); err != nil {
					return err
				}
			}
			// Non-interactive (tests, pipes): continue with defaults, no profile required.
		}

		// Load profile (optional — may not exist in non-interactive environments).
		if profile.Exists() {
			p, err := profile.Load()
			if err != nil {
				return fmt.Errorf("loading profile: %w", err)
			}
			activeProfile = p
		}

		// Merge config layers: profile < global file < project file < env.
		global, err := config.LoadGlobal()
		if err != nil {
			return fmt.Errorf("loading global config: %w", err)
		}
		project, err := config.LoadProject()
		if err != nil {
			return fmt.Errorf("loading project config: %w", err)
		}
		cfg = config.Merge(profileConfig(), global, project, config.FromEnv())

		// The flag beats every file.
		if apiOverride != "" {
			cfg.APIBaseURL = apiOverride
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// Bare invocation on a terminal launches the TUI.
		if term.IsTerminal(os.Stdin.Fd()) {
			return runUI()
		}
		return cmd.Help()
	},
}

// profileConfig maps the profile's preferences onto a config layer.
func profileConfig() *config.Config {
	if activeProfile == nil {
		return nil
	}
	return &config.Config{
		APIBaseURL:    activeProfile.APIBaseURL,
		DefaultFormat: activeProfile.DefaultFormat,
		WatchDir:      activeProfile.WatchDir,
	}
}

// newGateway returns an API client for the configured backend.
func newGateway() *api.Client {
	return api.New(cfg.APIBaseURL)
}

// runUI starts the TUI against the configured backend.
func runUI() error {
	store, err := session.NewStore()
	if err != nil {
		return err
	}
	return tui.Run(cfg, store)
}

// Execute runs the root command. Exits with code 1 on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// GetConfig returns the merged configuration for use by subcommands.
func GetConfig() config.Config {
	return cfg
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiOverride, "api", "", "backend base URL for this invocation")
}
