package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizgen/internal/store"
	"github.com/abhisek/quizgen/internal/ui/preview"
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Inspect the question generation audit log",
}

var logsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent generation calls",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		failed, _ := cmd.Flags().GetBool("failed")
		user, _ := cmd.Flags().GetString("user")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		logs, err := s.GenerationLogRepo().QueryGenerationLogs(cmd.Context(), store.QueryOpts{
			Limit:       limit,
			FailedOnly:  failed,
			RequesterID: user,
		})
		if err != nil {
			return fmt.Errorf("query logs: %w", err)
		}

		if len(logs) == 0 {
			fmt.Println("No generation calls found.")
			return nil
		}

		fmt.Printf("%-5s  %-19s  %-12s  %-7s  %-5s  %-3s  %-6s  %-7s  %-3s  %s\n",
			"ID", "Timestamp", "Source", "Chars", "Qs", "Try", "Tokens", "Ms", "OK", "Error")
		fmt.Println(strings.Repeat("─", 100))

		for _, l := range logs {
			ok := "✓"
			if !l.Success {
				ok = "✗"
			}
			if l.WasTruncated {
				ok += "…"
			}
			fmt.Printf("%-5d  %-19s  %-12s  %-7d  %2d/%-2d  %-3d  %-6d  %-7d  %-3s  %s\n",
				l.ID,
				l.Timestamp.Local().Format("2006-01-02 15:04:05"),
				l.Source,
				l.ContentLength,
				l.QuestionsGenerated,
				l.QuestionCount,
				l.Attempts,
				l.TokensUsed,
				l.ElapsedMs,
				ok,
				truncate(l.ErrorMessage, 40),
			)
		}
		return nil
	},
}

var logsStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show generation success rates by content source",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		stats, err := s.GenerationLogRepo().GenerationStats(cmd.Context())
		if err != nil {
			return fmt.Errorf("query stats: %w", err)
		}
		if len(stats) == 0 {
			fmt.Println("No generation calls recorded yet.")
			return nil
		}

		fmt.Println(preview.GenerationStats(stats))
		return nil
	},
}

func init() {
	logsListCmd.Flags().IntP("limit", "n", 20, "Number of calls to show")
	logsListCmd.Flags().Bool("failed", false, "Show only failed calls")
	logsListCmd.Flags().String("user", "", "Filter by requester id")

	logsCmd.AddCommand(logsListCmd)
	logsCmd.AddCommand(logsStatsCmd)
}

// truncate cuts s to at most max runes.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
