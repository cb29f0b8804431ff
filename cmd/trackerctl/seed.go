package main

import (
	"fmt"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"issue-tracker/internal/repo"
	"issue-tracker/internal/seed"
)

func seedCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert demo data or bootstrap accounts",
	}
	cmd.AddCommand(seedIssuesCmd(a), seedAdminCmd(a))
	return cmd
}

func (a *app) seeder(fakeSeed uint64) *seed.Seeder {
	return &seed.Seeder{
		Users:    repo.NewUserRepo(a.db),
		Projects: repo.NewProjectRepo(a.db),
		Issues:   repo.NewIssueRepo(a.db),
		Faker:    gofakeit.New(fakeSeed),
	}
}

func seedIssuesCmd(a *app) *cobra.Command {
	var (
		email     string
		projectID uint64
		count     int
		fakeSeed  uint64
	)
	cmd := &cobra.Command{
		Use:     "issues",
		Short:   "Bulk-create fake issues on a project",
		PreRunE: a.open,
		RunE: func(cmd *cobra.Command, _ []string) error {
			issues, err := a.seeder(fakeSeed).SeedIssues(cmd.Context(), email, projectID, count)
			if err != nil {
				return err
			}
			a.log.Info("issues seeded", zap.Int("count", len(issues)), zap.Uint64("project_id", projectID))
			fmt.Fprintf(cmd.OutOrStdout(), "created %d issues on project %d\n", len(issues), projectID)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email of the issue owner")
	cmd.Flags().Uint64Var(&projectID, "project", 0, "project id")
	cmd.Flags().IntVar(&count, "count", seed.DefaultIssueCount, "number of issues")
	cmd.Flags().Uint64Var(&fakeSeed, "seed", 0, "faker seed (0 = random)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("project")
	return cmd
}

func seedAdminCmd(a *app) *cobra.Command {
	var email, username, password string
	cmd := &cobra.Command{
		Use:     "admin",
		Short:   "Create an admin account, or promote an existing one",
		PreRunE: a.open,
		RunE: func(cmd *cobra.Command, _ []string) error {
			u, created, err := a.seeder(0).SeedAdmin(cmd.Context(), email, username, password)
			if err != nil {
				return err
			}
			verb := "promoted"
			if created {
				verb = "created"
			}
			a.log.Info("admin ready", zap.Uint64("uid", u.ID), zap.Bool("created", created))
			fmt.Fprintf(cmd.OutOrStdout(), "%s admin %s (id %d)\n", verb, u.Email, u.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "admin email")
	cmd.Flags().StringVar(&username, "username", "", "display name (defaults to the email local part)")
	cmd.Flags().StringVar(&password, "password", "", "admin password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
