package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/talosedu/materia/internal/core/domain"
)

// tokenTTL is the issue command's lifetime flag, in seconds.
var tokenTTL int

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Manage access tokens",
	Long:  `Issue, revoke and list the tokens that gate retrieval queries.`,
}

var tokenIssueCmd = &cobra.Command{
	Use:   "issue",
	Short: "Issue a new access token",
	Args:  cobra.NoArgs,
	RunE:  runTokenIssue,
}

var tokenRevokeCmd = &cobra.Command{
	Use:   "revoke [token-id]",
	Short: "Revoke an access token",
	Args:  cobra.ExactArgs(1),
	RunE:  runTokenRevoke,
}

var tokenListCmd = &cobra.Command{
	Use:   "list",
	Short: "List issued tokens",
	Args:  cobra.NoArgs,
	RunE:  runTokenList,
}

func init() {
	tokenIssueCmd.Flags().IntVar(&tokenTTL, "ttl", 0, "token lifetime in seconds (0 = no expiry)")

	tokenCmd.AddCommand(tokenIssueCmd)
	tokenCmd.AddCommand(tokenRevokeCmd)
	tokenCmd.AddCommand(tokenListCmd)
	rootCmd.AddCommand(tokenCmd)
}

func runTokenIssue(cmd *cobra.Command, _ []string) error {
	if gateService == nil {
		return errors.New("gate service not configured")
	}

	ctx := context.Background()
	token, err := gateService.Issue(ctx, tokenTTL)
	if err != nil {
		return fmt.Errorf("failed to issue token: %w", err)
	}

	cmd.Println(token.ID)
	return nil
}

func runTokenRevoke(cmd *cobra.Command, args []string) error {
	if gateService == nil {
		return errors.New("gate service not configured")
	}

	ctx := context.Background()
	if err := gateService.Revoke(ctx, domain.AccessToken{ID: args[0]}); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	cmd.Printf("Token %s revoked.\n", args[0])
	return nil
}

func runTokenList(cmd *cobra.Command, _ []string) error {
	if gateService == nil {
		return errors.New("gate service not configured")
	}

	ctx := context.Background()
	grants, err := gateService.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list tokens: %w", err)
	}

	if len(grants) == 0 {
		cmd.Println("No tokens issued.")
		return nil
	}

	for _, grant := range grants {
		expiry := "never"
		if !grant.ExpiresAt.IsZero() {
			expiry = grant.ExpiresAt.Format("2006-01-02 15:04:05")
		}
		cmd.Printf("  %s\n", grant.ID)
		cmd.Printf("    Issued:  %s\n", grant.IssuedAt.Format("2006-01-02 15:04:05"))
		cmd.Printf("    Expires: %s\n", expiry)
		cmd.Println()
	}

	cmd.Printf("Total: %d tokens\n", len(grants))
	return nil
}
