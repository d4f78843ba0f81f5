package cmd

import (
	"fmt"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizgen/internal/estimate"
	"github.com/abhisek/quizgen/internal/ui/preview"
)

var estimateCmd = &cobra.Command{
	Use:   "estimate",
	Short: "Estimate tokens and cost for generating from text or a file",
	Long: `Estimate approximates tokens as characters / 4 and assumes the response is
half the size of the prompt. The numbers are advisory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		model, _ := cmd.Flags().GetString("model")
		if model == "" {
			model = cfg.Estimate.Model
		}

		content, err := readContent(cmd)
		if err != nil {
			return err
		}

		est := estimate.ForText(content.Text, model)
		fmt.Println(preview.Estimate(est, utf8.RuneCountInString(content.Text)))
		return nil
	},
}

func init() {
	addContentFlags(estimateCmd)
	estimateCmd.Flags().String("model", "", "Model to price (default from config)")
}
