package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/talosedu/materia/internal/core/domain"
)

var (
	queryCourse string
	queryToken  string
	queryJSON   bool
)

var queryCmd = &cobra.Command{
	Use:   "query [question]",
	Short: "Retrieve relevant course material for a question",
	Long: `Scores every indexed chunk against the question and prints the top
matches. Requires a valid access token; --course restricts the search
to one course.`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().StringVarP(&queryCourse, "course", "c", "", "restrict the search to a course")
	queryCmd.Flags().StringVarP(&queryToken, "token", "t", "", "access token (required)")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output the result as JSON")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	if retrieverService == nil {
		return errors.New("retriever service not configured")
	}

	ctx := context.Background()
	token := domain.AccessToken{ID: queryToken}

	result, err := retrieverService.Retrieve(ctx, args[0], token, queryCourse)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if queryJSON {
		return outputQueryJSON(cmd, result)
	}
	return outputQueryText(cmd, result)
}

func outputQueryJSON(cmd *cobra.Command, result domain.RetrievalResult) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputQueryText(cmd *cobra.Command, result domain.RetrievalResult) error {
	switch result.Outcome {
	case domain.OutcomeDenied:
		return errors.New("access denied: invalid or expired token")
	case domain.OutcomeEmpty:
		cmd.Println("No relevant material found.")
	default:
		cmd.Println(result.Context)
	}
	return nil
}
