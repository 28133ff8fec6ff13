package cli

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/lexrag-cli/internal/core/domain"
)

var (
	askLimit int
	askJSON  bool
	askFile  string
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question over the indexed filings",
	Long: `Answers a natural-language question using the indexed corpus.

The question is analysed for filing numbers, party names, dates,
amounts and precautionary measure types; retrieval is constrained
accordingly before the answer is generated. With --file, questions are
read from a file, one per line, and answered in order.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().IntVarP(&askLimit, "limit", "n", 10, "maximum number of chunks to retrieve")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output answers as JSON")
	askCmd.Flags().StringVar(&askFile, "file", "", "read questions from a file, one per line")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	questions, err := collectQuestions(args)
	if err != nil {
		return err
	}

	ctx, cancel := commandContext()
	defer cancel()
	if err := ensureQueryService(ctx); err != nil {
		return err
	}

	answers, err := queryService.AnswerBatch(ctx, questions, askLimit)
	if err != nil {
		return fmt.Errorf("answering failed: %w", err)
	}

	if askJSON {
		return outputAnswersJSON(cmd, answers)
	}
	for _, answer := range answers {
		printAnswer(cmd, answer, len(answers) > 1)
	}
	return nil
}

func collectQuestions(args []string) ([]string, error) {
	if askFile == "" {
		if len(args) == 0 {
			return nil, errors.New("no question: pass one or use --file")
		}
		return []string{args[0]}, nil
	}

	f, err := os.Open(askFile)
	if err != nil {
		return nil, fmt.Errorf("open questions file: %w", err)
	}
	defer f.Close()

	var questions []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			questions = append(questions, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read questions file: %w", err)
	}
	if len(questions) == 0 {
		return nil, errors.New("questions file is empty")
	}
	return questions, nil
}

func outputAnswersJSON(cmd *cobra.Command, answers []domain.Answer) error {
	data, err := json.MarshalIndent(answers, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal answers: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func printAnswer(cmd *cobra.Command, answer domain.Answer, showQuestion bool) {
	if showQuestion {
		cmd.Printf("Pregunta: %s\n\n", answer.Query)
	}
	cmd.Println(answer.Response)
	cmd.Println()
	cmd.Printf("[estrategia: %s, resultados: %d]\n", answer.Strategy, answer.ResultCount)
	if len(answer.FiltersUsed) > 0 {
		cmd.Printf("[filtros: %v]\n", answer.FiltersUsed)
	}
	cmd.Println()
}
