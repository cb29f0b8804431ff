package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"issue-tracker/internal/repo"
)

func tokensCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokens",
		Short: "Maintain the refresh-token blacklist",
	}
	purge := &cobra.Command{
		Use:     "purge",
		Short:   "Delete blacklist entries whose token has expired",
		PreRunE: a.open,
		RunE: func(cmd *cobra.Command, _ []string) error {
			n, err := repo.NewTokenRepo(a.db).PurgeExpired(cmd.Context(), time.Now())
			if err != nil {
				return err
			}
			a.log.Info("revoked tokens purged", zap.Int64("rows", n))
			fmt.Fprintf(cmd.OutOrStdout(), "purged %d expired entries\n", n)
			return nil
		},
	}
	cmd.AddCommand(purge)
	return cmd
}
