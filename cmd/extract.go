package cmd

import (
	"fmt"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizgen/internal/estimate"
	"github.com/abhisek/quizgen/internal/extract"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Print the text extracted from a PDF or TXT file",
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		stats, _ := cmd.Flags().GetBool("stats")

		content, err := extract.ExtractFile(cmd.Context(), file)
		if err != nil {
			return err
		}

		fmt.Println(content.Text)

		if stats {
			chars := utf8.RuneCountInString(content.Text)
			cmd.PrintErrf("%s: %d characters, ~%d tokens\n", content.MediaType, chars, estimate.Tokens(content.Text))
		}
		return nil
	},
}

func init() {
	extractCmd.Flags().String("file", "", "File to extract (.pdf or .txt, max 10 MB)")
	extractCmd.Flags().Bool("stats", false, "Print size statistics to stderr")
	_ = extractCmd.MarkFlagRequired("file")
}
