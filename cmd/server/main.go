package main

import (
	"fmt"
	"os"

	"github.com/portfolio/internal/config"
	"github.com/portfolio/internal/db"
	"github.com/portfolio/internal/logging"
	"github.com/portfolio/internal/repository"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app 保存所有子命令共享的配置与日志。
type app struct {
	cfg    config.AppConfig
	logger *zap.Logger
	dev    bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "portfolio",
		Short:         "Portfolio site backend",
		Long:          "Serves the portfolio JSON API and admin gate. Runs the server when no subcommand is given.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.cfg = config.Load()
			logger, err := logging.New(a.cfg.LogLevel, a.dev)
			if err != nil {
				return err
			}
			a.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.PersistentFlags().BoolVar(&a.dev, "dev", false, "human-readable console logs")

	serve := newServeCmd(a)
	root.RunE = serve.RunE
	root.AddCommand(serve, newSeedCmd(a), newBackfillCmd(a), newPurgeCmd(a))

	return root
}

// openStore 打开数据库并返回集合客户端，调用方负责 close。
func (a *app) openStore() (*repository.Store, func(), error) {
	gdb, err := db.Init(a.cfg.DatabasePath)
	if err != nil {
		return nil, nil, fmt.Errorf("initialize database: %w", err)
	}
	closeFn := func() {
		if sqlDB, err := gdb.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				a.logger.Warn("close database", zap.Error(err))
			}
		}
	}
	return repository.NewStore(gdb), closeFn, nil
}
