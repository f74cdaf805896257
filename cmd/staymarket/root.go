package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/theplant/staymarket/catalog"
	"github.com/theplant/staymarket/config"
	"github.com/theplant/staymarket/logging"
	"github.com/theplant/staymarket/server"
)

type rootOptions struct {
	ConfigPath string
	EnvFiles   []string
}

type app struct {
	cfg    *config.Config
	logger *slog.Logger
}

func (o *rootOptions) load() (*app, error) {
	cfg, err := config.Load(o.ConfigPath, o.EnvFiles...)
	if err != nil {
		return nil, err
	}
	logger := logging.New(cfg.Log, os.Stderr)
	slog.SetDefault(logger)
	return &app{cfg: cfg, logger: logger}, nil
}

func (a *app) openDB() (*gorm.DB, error) {
	dbc := a.cfg.Database
	db, err := gorm.Open(postgres.Open(dbc.DSN), &gorm.Config{
		Logger: logging.Gorm(a.logger, dbc.LogLevel, dbc.SlowThreshold),
	})
	if err != nil {
		return nil, errors.Wrap(err, "open database")
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "get sql db")
	}
	sqlDB.SetMaxOpenConns(dbc.MaxOpenConns)
	sqlDB.SetMaxIdleConns(dbc.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(dbc.ConnMaxLifetime)
	return db, nil
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "staymarket",
		Short:         "Property booking marketplace listing API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "path to the YAML config file")
	cmd.PersistentFlags().StringSliceVar(&opts.EnvFiles, "env-file", []string{".env"}, "dotenv files to load, missing files are skipped")

	cmd.AddCommand(newServeCommand(opts))
	cmd.AddCommand(newMigrateCommand(opts))
	return cmd
}

func newServeCommand(rootOpts *rootOptions) *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := rootOpts.load()
			if err != nil {
				return err
			}
			db, err := a.openDB()
			if err != nil {
				return err
			}
			if migrate {
				if err := catalog.Migrate(db); err != nil {
					return err
				}
			}

			cfg := a.cfg
			e := server.New(catalog.NewRepository(db), server.Options{
				List: catalog.ListOptions{
					Strict:         cfg.Filter.Strict,
					Limits:         cfg.Filter.FilterLimits(),
					DefaultPerPage: cfg.Pagination.DefaultPerPage,
					MaxPerPage:     cfg.Pagination.MaxPerPage,
				},
				RateLimit: cfg.HTTP.RateLimit,
				RateBurst: cfg.HTTP.RateBurst,
				Health: func(ctx context.Context) error {
					sqlDB, err := db.DB()
					if err != nil {
						return err
					}
					return sqlDB.PingContext(ctx)
				},
				Logger: a.logger,
			})
			e.Server.ReadTimeout = cfg.HTTP.ReadTimeout
			e.Server.WriteTimeout = cfg.HTTP.WriteTimeout

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a.logger.Info("listening", "addr", cfg.HTTP.Addr, "strict_filters", cfg.Filter.Strict, "filter_limits", cfg.Filter.Limits)
			return server.Run(ctx, e, cfg.HTTP.Addr, cfg.HTTP.ShutdownTimeout)
		},
	}

	cmd.Flags().BoolVar(&migrate, "migrate", false, "migrate the database before serving")
	return cmd
}

func newMigrateCommand(rootOpts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database tables",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			a, err := rootOpts.load()
			if err != nil {
				return err
			}
			db, err := a.openDB()
			if err != nil {
				return err
			}
			if err := catalog.Migrate(db); err != nil {
				return err
			}
			a.logger.Info("database migrated")
			return nil
		},
	}
}
