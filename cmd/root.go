package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pierreQuevedo/digitaljouss-crm-sub000/internal/config"
	"github.com/pierreQuevedo/digitaljouss-crm-sub000/internal/logger"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "crm",
	Short: "CRM billing and reminder computations",
	Long: `crm reads contracts and payments from the agency CRM backend and
derives billing snapshots, portfolio totals, reminder (relance) lists and
payment delay statistics.

Data is read from the PostgreSQL database in DATABASE_URL, or from a JSON
export of the backend tables passed with --input. Nothing is ever written
back to the backend.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// loadedConfig is the configuration loaded once by main
var loadedConfig *config.Config

// appConfig returns the configuration handed to Execute, or the defaults.
func appConfig() *config.Config {
	if loadedConfig == nil {
		return config.Default()
	}
	return loadedConfig
}

func Execute(cfg *config.Config) {
	loadedConfig = cfg

	if err := rootCmd.Execute(); err != nil {
		logger.Error(err, "Command execution failed")
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("input", "", "Read a JSON export of the backend tables instead of DATABASE_URL")
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON format")
}

// printJSON writes v to stdout as indented JSON
func printJSON(v interface{}) error {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to create JSON output: %w", err)
	}

	fmt.Println(string(jsonData))
	return nil
}
