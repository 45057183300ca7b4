package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"recipebook/internal/apidoc"
	"recipebook/internal/config"
	appdb "recipebook/internal/db"
	"recipebook/internal/db/mock"
	"recipebook/internal/handlers"
	applog "recipebook/internal/log"
	"recipebook/models"
)

var (
	loadConfigFunc    = config.Load
	configureDatabase = appdb.Configure
)

type rootOptions struct {
	databaseURL string
	logLevel    string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "recipectl",
		Short: "Operate the recipe service database and API description",
		Long: `recipectl manages the recipe service outside the HTTP server.

Examples:
  recipectl migrate                          # create or update tables
  recipectl seed                             # insert the sample recipes
  recipectl import recipes.csv               # create or update recipes from csv
  recipectl openapi --format json -o api.json
`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.logLevel == "" {
				return nil
			}
			return applog.SetLevel(opts.logLevel)
		},
	}

	root.PersistentFlags().StringVar(&opts.databaseURL, "database-url", "", "Database URL (defaults to DATABASE_URL)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn or error")

	root.AddCommand(newMigrateCmd(opts))
	root.AddCommand(newSeedCmd(opts))
	root.AddCommand(newImportCmd(opts))
	root.AddCommand(newOpenAPICmd())

	return root
}

// openDatabase connects to the configured database and migrates it. The mock
// database is never used here: there is nothing to operate on.
func openDatabase(opts *rootOptions) (*gorm.DB, error) {
	cfg, err := loadConfigFunc()
	if err != nil && opts.databaseURL == "" {
		return nil, err
	}
	if opts.databaseURL != "" {
		cfg.Database.URL = opts.databaseURL
	}
	if strings.TrimSpace(cfg.Database.URL) == "" {
		return nil, fmt.Errorf("a database URL is required: set DATABASE_URL or pass --database-url")
	}

	db, err := configureDatabase(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("configure database: %w", err)
	}
	return db, nil
}

func closeDatabase(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the recipes, ingredients and recipe_ingredients tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDatabase(opts)
			if err != nil {
				return err
			}
			defer closeDatabase(db)

			green := color.New(color.FgGreen, color.Bold)
			for _, table := range []string{"recipes", "ingredients", models.TableNameRecipeIngredients} {
				if !db.Migrator().HasTable(table) {
					return fmt.Errorf("table %s missing after migration", table)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "  table %s ready\n", table)
			}
			green.Fprintln(cmd.OutOrStdout(), "migration complete")
			return nil
		},
	}
}

func newSeedCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert the sample recipes, skipping titles that already exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDatabase(opts)
			if err != nil {
				return err
			}
			defer closeDatabase(db)

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			if err := mock.Seed(ctx, db); err != nil {
				return err
			}

			var recipes, ingredients int64
			if err := db.WithContext(ctx).Model(&models.Recipe{}).Count(&recipes).Error; err != nil {
				return fmt.Errorf("count recipes: %w", err)
			}
			if err := db.WithContext(ctx).Model(&models.Ingredient{}).Count(&ingredients).Error; err != nil {
				return fmt.Errorf("count ingredients: %w", err)
			}

			color.New(color.FgGreen, color.Bold).Fprintln(cmd.OutOrStdout(), "seed complete")
			color.New(color.FgCyan).Fprintf(cmd.OutOrStdout(), "  %d recipes, %d ingredients\n", recipes, ingredients)
			return nil
		},
	}
}

func newOpenAPICmd() *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "openapi",
		Short: "Print the OpenAPI description of the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, _, err := apidoc.Build(handlers.APIPrefix).Encode(format)
			if err != nil {
				return err
			}

			if output == "" || output == "-" {
				return writeAll(cmd.OutOrStdout(), out)
			}
			if err := os.WriteFile(output, out, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			color.New(color.FgGreen).Fprintf(cmd.ErrOrStderr(), "wrote %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "Output format: yaml or json")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to a file instead of stdout")
	return cmd
}

func writeAll(w io.Writer, data []byte) error {
	_, err := w.Write(data)
	return err
}
