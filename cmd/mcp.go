package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	mcpserver "github.com/ziadkadry99/stamp/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio exposing the format_timestamp, render_html and list_locales tools.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		f, err := cfg.Formatter()
		if err != nil {
			return err
		}

		store, closeDB, err := openHistory(cfg)
		if err != nil {
			return err
		}
		defer closeDB()

		// Set version from the cmd package variable.
		mcpserver.Version = Version

		fmt.Fprintf(os.Stderr, "stamp MCP server started on stdio (locale=%s, timezone=%s)\n", f.Tag(), f.Location())

		srv := mcpserver.NewServer(f, cfg.Marker, store)
		return srv.Serve()
	},
}

func init() {
	addRenderFlags(mcpCmd)
	rootCmd.AddCommand(mcpCmd)
}
