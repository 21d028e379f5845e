package main

import (
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-storefront/pkg/logging"
	"github.com/goliatone/go-storefront/pkg/sqlstore"
)

var (
	seedFile string
	seedYes  bool
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load catalog data into the database",
	Long: `Write products, stock levels and locales into the configured database.

Without --file the built-in demo catalog is used. Existing stock rows with
the same product code and type are replaced.`,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "", "seed document (yaml), defaults to the demo catalog")
	seedCmd.Flags().BoolVarP(&seedYes, "yes", "y", false, "skip the confirmation prompt")
}

func runSeed(cmd *cobra.Command, _ []string) error {
	_, settings, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := logging.New(settings.Logging)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	raw := sqlstore.DemoSeed()
	if seedFile != "" {
		if raw, err = os.ReadFile(seedFile); err != nil {
			return fmt.Errorf("read seed: %w", err)
		}
	}
	data, err := sqlstore.ParseSeed(raw)
	if err != nil {
		return err
	}

	if !seedYes {
		confirmed := false
		prompt := &survey.Confirm{
			Message: fmt.Sprintf("Write %d products and %d stock rows to %s?", len(data.Products), len(data.Stock), settings.DatabasePath),
		}
		if err := survey.AskOne(prompt, &confirmed); err != nil {
			return err
		}
		if !confirmed {
			return nil
		}
	}

	store, err := sqlstore.Open(cmd.Context(), settings.DatabasePath)
	if err != nil {
		return err
	}
	defer store.Close()

	count, err := store.Seed(cmd.Context(), data)
	if err != nil {
		return err
	}
	logger.Info("seeded database",
		zap.String("path", settings.DatabasePath),
		zap.Int("records", count),
	)
	return nil
}
