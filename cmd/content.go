package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizgen/internal/extract"
	"github.com/abhisek/quizgen/internal/quiz"
)

// addContentFlags registers --text and --file on cmd.
func addContentFlags(cmd *cobra.Command) {
	cmd.Flags().String("text", "", "Content to use, as plain text")
	cmd.Flags().String("file", "", "Content file to use (.pdf or .txt, max 10 MB)")
	cmd.MarkFlagsMutuallyExclusive("text", "file")
	cmd.MarkFlagsOneRequired("text", "file")
}

// readContent resolves --text or --file into normalized content.
func readContent(cmd *cobra.Command) (quiz.RawContent, error) {
	text, _ := cmd.Flags().GetString("text")
	file, _ := cmd.Flags().GetString("file")

	switch {
	case file != "":
		return extract.ExtractFile(cmd.Context(), file)
	case text != "":
		return extract.FromText(text)
	default:
		return quiz.RawContent{}, errors.New("one of --text or --file is required")
	}
}
