// Command wcadmin is a thin demonstration front-end over the working-copy
// metadata core: it parses flags/config and calls straight into
// pkg/wcpath, pkg/wcnode, pkg/wcscan, pkg/wcops and pkg/workqueue. It
// contains no diff/merge/update logic of its own.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cuemby/wcmeta/internal/wclog"
)

var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "wcadmin",
	Short:   "Inspect and operate on a working-copy metadata store",
	Long:    "wcadmin is a demonstration CLI over the working-copy metadata core: it exercises the public interface of pkg/wcpath, pkg/wcnode, pkg/wcscan, pkg/wcops and pkg/workqueue end to end.",
	Version: Version,
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf("wcadmin version %s\nCommit: %s\n", Version, Commit))

	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file (see Config in config.go)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error); overrides config")
	rootCmd.PersistentFlags().Bool("log-json", false, "Output logs in JSON format")

	cobra.OnInitialize(initLogging)

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(childrenCmd)
	rootCmd.AddCommand(commitCmd)
	rootCmd.AddCommand(relocateCmd)
	rootCmd.AddCommand(lockCmd)
	rootCmd.AddCommand(unlockCmd)
	rootCmd.AddCommand(wqListCmd)
}

func initLogging() {
	cfg, _ := loadConfig(rootCmd)

	level := wclog.Level(cfg.LogLevel)
	if flagLevel, _ := rootCmd.PersistentFlags().GetString("log-level"); flagLevel != "" {
		level = wclog.Level(flagLevel)
	}
	jsonOut := cfg.LogJSON
	if rootCmd.PersistentFlags().Changed("log-json") {
		jsonOut, _ = rootCmd.PersistentFlags().GetBool("log-json")
	}

	if err := wclog.Init(wclog.Config{Level: level, JSONOutput: jsonOut}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
}
