package cmd

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/stamp/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded render runs",
	Long:  `Lists the render, build and API runs recorded in the history database (history_db in .stamp.yml), newest first.`,
	RunE:  runHistory,
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete runs older than a given age",
	RunE:  runHistoryPrune,
}

func init() {
	historyCmd.Flags().Int("limit", 20, "maximum number of runs")
	historyCmd.Flags().String("source", "", "filter by source: cli, build, http, mcp")
	historyCmd.Flags().Bool("json", false, "output runs as JSON")
	historyPruneCmd.Flags().Duration("older-than", 30*24*time.Hour, "delete runs started before this age")
	historyCmd.AddCommand(historyPruneCmd)
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	store, closeDB, err := openHistory(cfg)
	if err != nil {
		return err
	}
	defer closeDB()
	if store == nil {
		return fmt.Errorf("history is disabled: set history_db in %s", cfgFile)
	}

	limit, _ := cmd.Flags().GetInt("limit")
	source, _ := cmd.Flags().GetString("source")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	runs, err := store.List(cmd.Context(), history.Filter{Source: history.Source(source), Limit: limit})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		if runs == nil {
			runs = []history.Run{}
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	}

	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "STARTED\tSOURCE\tTARGET\tLOCALE\tFILES\tTIMESTAMPS\tINVALID\tSTATUS\t")
	for _, r := range runs {
		status := "ok"
		if r.Error != "" {
			status = "error: " + r.Error
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\t%d\t%s\t\n",
			r.StartedAt.Local().Format(time.DateTime), r.Source, r.Target, r.Locale,
			r.Files, r.Elements, r.Invalid, status)
	}
	return w.Flush()
}

func runHistoryPrune(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	store, closeDB, err := openHistory(cfg)
	if err != nil {
		return err
	}
	defer closeDB()
	if store == nil {
		return fmt.Errorf("history is disabled: set history_db in %s", cfgFile)
	}

	age, _ := cmd.Flags().GetDuration("older-than")
	n, err := store.DeleteBefore(cmd.Context(), time.Now().Add(-age))
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d run(s)\n", n)
	return nil
}
