package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/stamp/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize stamp configuration with an interactive wizard",
	Long:  `Runs an interactive wizard that picks the locale, time zone, marker class and output directory and writes them to .stamp.yml.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard(cfgFile)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
