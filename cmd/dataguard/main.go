package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var (
	configPath string
	output     string
	outputPath string
	watch      bool
)

var rootCmd = &cobra.Command{
	Use:   "dataguard",
	Short: "Validate CSV and Parquet datasets against declared column rules",
	Long: `DataGuard compiles a declarative set of per-column and per-relation
rules from a YAML config, runs them against one or more CSV/Parquet files,
and reports which rules passed, failed, or exceeded their error tolerance.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		run := runOnce
		if watch {
			run = runWatch
		}
		ok, err := run()
		if err != nil {
			return err
		}
		if !ok {
			os.Exit(1)
		}
		return nil
	},
}

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "path to the YAML config declaring tables, columns, and rules")
	rootCmd.Flags().StringVarP(&output, "output", "o", "stdout", "output format: stdout or json")
	rootCmd.Flags().StringVarP(&outputPath, "path", "p", "", "directory or file to write the JSON report to (output=json only)")
	rootCmd.Flags().BoolVarP(&watch, "watch", "w", false, "re-validate whenever the configured file changes (single table, stdout only)")
	_ = rootCmd.MarkFlagRequired("config")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
