package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/huuquangg/dfscan/internal/report"
)

var historyFormat string

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List your past scans",
	RunE: func(cmd *cobra.Command, args []string) error {
		token, _ := currentAuth()
		if token == "" {
			return fmt.Errorf("not logged in — run 'dfscan login' first")
		}

		entries, err := newGateway().FetchHistory(cmd.Context(), token)
		if err != nil {
			return err
		}

		format := historyFormat
		if format == "" {
			format = cfg.DefaultFormat
		}
		switch format {
		case "json":
			data, err := report.HistoryJSON(entries)
			if err != nil {
				return err
			}
			cmd.Println(string(data))
			return nil
		case "markdown":
			data, err := report.HistoryMarkdown(entries)
			if err != nil {
				return err
			}
			cmd.Print(string(data))
			return nil
		}

		if len(entries) == 0 {
			cmd.Println("No scans yet. Analyze an image or video to see it here.")
			return nil
		}
		for _, e := range entries {
			cmd.Printf("%s  %-5s  %s • %.2f%%  %s\n",
				e.Timestamp.Local().Format("2006-01-02 15:04:05"),
				strings.ToUpper(e.FileType),
				e.Prediction,
				e.Confidence,
				e.Filename,
			)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().StringVar(&historyFormat, "format", "", "output format: markdown or json")
	rootCmd.AddCommand(historyCmd)
}
