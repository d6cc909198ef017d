package main

import (
	"fmt"
	"os"

	"github.com/hourbook/hourbook-backend/internal/app"
	"github.com/hourbook/hourbook-backend/pkg/config"
	"github.com/hourbook/hourbook-backend/pkg/database"
	"github.com/hourbook/hourbook-backend/pkg/logger"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	service     string
	databaseURL string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:          "hourbookctl",
		Short:        "Operator tooling for the Hourbook work hours API",
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&opts.service, "service", "hourbook-api", "Configuration name (reads config/<name>.yaml)")
	root.PersistentFlags().StringVar(&opts.databaseURL, "database-url", "", "PostgreSQL URL overriding the configured database")

	root.AddCommand(
		newMigrateCmd(opts),
		newInitAdminCmd(opts),
		newReportCmd(opts),
		newConfigCmd(opts),
	)
	return root
}

// connect loads configuration and opens the database. The caller closes db.
func (o *rootOptions) connect() (*config.Config, *database.DB, *logger.Logger, error) {
	cfg, err := config.Load(o.service)
	if err != nil {
		return nil, nil, nil, err
	}

	log := logger.NewWithWriter(os.Stderr, "hourbookctl", cfg.Server.Environment).SetLevel(cfg.Log.Level)

	var db *database.DB
	if o.databaseURL != "" {
		db, err = database.NewWithDSN(o.databaseURL, log)
	} else {
		db, err = database.New(&cfg.Database, log)
	}
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return cfg, db, log, nil
}

// application wires the services without a broker; events are dropped
func (o *rootOptions) application() (*app.App, func(), error) {
	cfg, db, log, err := o.connect()
	if err != nil {
		return nil, nil, err
	}
	return app.New(cfg, db, nil, log), func() { _ = db.Close() }, nil
}
