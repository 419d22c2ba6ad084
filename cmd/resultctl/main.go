package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/school-system/results-portal/internal/config"
	"github.com/school-system/results-portal/internal/logging"
	"github.com/school-system/results-portal/internal/services"
	"github.com/school-system/results-portal/internal/storage"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// app holds what the subcommands share. The store is opened on first use
// so commands that never touch it do not need a database.
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	results *services.ResultService
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:          "resultctl",
		Short:        "Administer the student result store without the HTTP server",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	root.AddCommand(
		newImportCmd(a),
		newFilesCmd(a),
		newDeleteFileCmd(a),
		newResetCmd(a),
		newExportCmd(a),
		newGradeCardCmd(a),
		newHashPasswordCmd(a),
	)
	return root
}

func (a *app) init() error {
	cfg, err := config.Read()
	if err != nil {
		return err
	}
	if err := cfg.ValidateStore(); err != nil {
		return err
	}
	logger, err := logging.New(cfg.Server.Env, cfg.Server.LogLevel)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	a.cfg = cfg
	a.logger = logger
	return nil
}

func (a *app) service() (*services.ResultService, error) {
	if a.results != nil {
		return a.results, nil
	}
	store, err := storage.Open(a.cfg, a.logger)
	if err != nil {
		return nil, err
	}
	a.results = services.NewResultService(store, a.logger)
	return a.results, nil
}
