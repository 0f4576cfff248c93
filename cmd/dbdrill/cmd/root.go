package cmd

import (
	"github.com/spf13/cobra"
)

var (
	configFile    string
	dbURL         string
	resourcesFile string
	logLevel      string
)

var rootCmd = &cobra.Command{
	Use:   "dbdrill",
	Short: "Interactive database drilling tool",
	Long:  `dbdrill browses a relational database through a configuration-declared map of resources, parameterized searches and typed links between them.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")
	rootCmd.PersistentFlags().StringVar(&dbURL, "db-url", "", "database connection URL (postgres://... or sqlite://path)")
	rootCmd.PersistentFlags().StringVar(&resourcesFile, "resources", "", "path to the resources YAML file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
}

func Execute() error {
	return rootCmd.Execute()
}
