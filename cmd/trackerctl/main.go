// trackerctl is the operator CLI: demo seeding, admin bootstrap and
// revocation-list housekeeping against the configured database.
package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"issue-tracker/internal/core/config"
	"issue-tracker/internal/core/database"
	"issue-tracker/internal/core/logger"
	"issue-tracker/internal/domain"
)

type app struct {
	cfgPath string
	cfg     *config.Config
	log     *zap.Logger
	db      *gorm.DB
}

// open loads config, logger and database once per invocation.
func (a *app) open(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Read(a.cfgPath)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log, _ = logger.New(cfg.Log.Level, cfg.Log.JSON)
	a.db, err = database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
	})
	if err != nil {
		return err
	}
	if cfg.DB.AutoMigrate {
		return a.db.WithContext(cmd.Context()).AutoMigrate(domain.Models()...)
	}
	return nil
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "trackerctl",
		Short:         "Operate an issue tracker database",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&a.cfgPath, "config", os.Getenv("CONFIG_PATH"), "path to the config file")
	root.AddCommand(seedCmd(a), tokensCmd(a))
	return root
}

func main() {
	_ = godotenv.Load()
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
