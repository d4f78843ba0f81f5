package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizgen/internal/endpoint"
	"github.com/abhisek/quizgen/internal/questiongen"
	"github.com/abhisek/quizgen/internal/quiz"
	"github.com/abhisek/quizgen/internal/store"
	"github.com/abhisek/quizgen/internal/ui/preview"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate multiple-choice questions from text or a file",
	Long: `Generate questions from --text or --file.

When an endpoint URL is configured (endpoint.url or QUIZGEN_ENDPOINT_URL) the
request is sent there; otherwise the endpoint runs in-process against the
configured LLM provider. Every run is recorded in the generation log.`,
	RunE: runGenerate,
}

func init() {
	addContentFlags(generateCmd)
	generateCmd.Flags().IntP("count", "n", 0, "Number of questions (5-50, default from config)")
	generateCmd.Flags().String("user", "", "Requester id recorded with the request")
	generateCmd.Flags().Bool("json", false, "Print the outcome as JSON")
	generateCmd.Flags().Bool("reveal", true, "Highlight the correct option")
}

// outcomeJSON is the --json output shape.
type outcomeJSON struct {
	Success      bool            `json:"success"`
	Questions    []quiz.Question `json:"questions"`
	TokensUsed   int             `json:"tokensUsed"`
	ElapsedMs    int64           `json:"elapsedMs"`
	WasTruncated bool            `json:"wasTruncated"`
	Attempts     int             `json:"attempts"`
	Error        string          `json:"error,omitempty"`
}

func runGenerate(cmd *cobra.Command, args []string) error {
	count, _ := cmd.Flags().GetInt("count")
	user, _ := cmd.Flags().GetString("user")
	asJSON, _ := cmd.Flags().GetBool("json")
	reveal, _ := cmd.Flags().GetBool("reveal")

	if count == 0 {
		count = cfg.Generation.DefaultQuestions
	}

	content, err := readContent(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	backend, err := newBackend(ctx, s.EventRepo())
	if err != nil {
		return err
	}

	auditor := questiongen.NewAuditor(s.GenerationLogRepo(), cfg.Generation.AuditQueueSize, logger)
	gen := questiongen.New(backend, auditor, cfg.GeneratorConfig(), logger)

	outcome := gen.Generate(ctx, quiz.GenerationRequest{
		Content:       content,
		QuestionCount: count,
		RequesterID:   user,
	})
	auditor.Close()

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(outcomeJSON{
			Success:      outcome.Success,
			Questions:    outcome.Questions,
			TokensUsed:   outcome.TokensUsed,
			ElapsedMs:    outcome.ElapsedMs,
			WasTruncated: outcome.WasTruncated,
			Attempts:     outcome.Attempts,
			Error:        outcome.ErrorMessage,
		}); err != nil {
			return fmt.Errorf("encode outcome: %w", err)
		}
	} else {
		fmt.Print(preview.Outcome(outcome, reveal))
	}

	if !outcome.Success {
		return errors.New("generation failed")
	}
	return nil
}

// newBackend returns the remote endpoint client when a URL is configured,
// otherwise an in-process endpoint.
func newBackend(ctx context.Context, events store.EventRepo) (questiongen.Backend, error) {
	if cfg.Endpoint.URL != "" {
		logger.Debug("using remote endpoint", "url", cfg.Endpoint.URL)
		return endpoint.NewClient(cfg.ClientConfig()), nil
	}

	svc, err := newService(ctx, events)
	if err != nil {
		return nil, err
	}
	logger.Debug("using in-process endpoint")
	return endpoint.Local{Gen: svc}, nil
}
