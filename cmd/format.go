package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/stamp/internal/render"
)

var formatCmd = &cobra.Command{
	Use:   "format <epoch-seconds>...",
	Short: "Format epoch seconds as localized date-time text",
	Long:  `Prints each argument as a localized short date and long time, one per line. Arguments that are not numbers print as "Invalid Date".`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runFormat,
}

func init() {
	formatCmd.Flags().Bool("json", false, "output results as JSON")
	addRenderFlags(formatCmd)
	rootCmd.AddCommand(formatCmd)
}

type formatResult struct {
	Timestamp string `json:"ts"`
	Text      string `json:"text"`
	Valid     bool   `json:"valid"`
}

func runFormat(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	f, err := cfg.Formatter()
	if err != nil {
		return err
	}

	results := make([]formatResult, len(args))
	for i, arg := range args {
		results[i] = formatResult{Timestamp: arg, Text: render.InvalidDate}
		if t, ok := render.ParseEpoch(arg); ok {
			results[i].Text, results[i].Valid = f.Format(t), true
		}
	}

	out := cmd.OutOrStdout()
	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}
	for _, r := range results {
		fmt.Fprintln(out, r.Text)
	}
	return nil
}
