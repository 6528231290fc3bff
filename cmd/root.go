package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/stamp/internal/config"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "stamp",
	Short: "Render epoch timestamps in HTML as localized dates",
	Long: `Stamp finds elements marked with the "datetime" class, reads their text
as Unix epoch seconds and replaces it with a localized short date and long
time, such as "11/14/23, 10:13:20 PM UTC".

Pages can be rendered once (render, build), on every request (serve) or
on demand by AI agents (mcp).`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultPath, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
