// Command storefront serves and renders the HTML storefront clients.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-storefront/pkg/config"
)

var (
	configPath string
	envFile    string
)

var rootCmd = &cobra.Command{
	Use:   "storefront",
	Short: "Serve the basket, checkout address and stock clients",
	Long: `storefront renders the shop front clients as HTML pages.

Available subcommands:
  serve  - run the HTTP server
  render - render one client page to stdout
  seed   - load the demo catalog into the database`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "configuration file (yaml, json or toml)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before the configuration")

	rootCmd.AddCommand(serveCmd, renderCmd, seedCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads the dotenv file, the configuration file and STOREFRONT_*
// environment overrides.
func loadConfig() (*config.Store, config.Settings, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return nil, config.Settings{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}
	store, err := config.New(config.WithFile(configPath), config.WithEnv())
	if err != nil {
		return nil, config.Settings{}, err
	}
	settings, err := config.LoadSettings(store)
	if err != nil {
		return nil, config.Settings{}, fmt.Errorf("decode settings: %w", err)
	}
	return store, settings, nil
}
