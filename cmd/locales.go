package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/stamp/internal/locale"
)

var localesCmd = &cobra.Command{
	Use:   "locales",
	Short: "List the supported locales with an example",
	RunE:  runLocales,
}

func init() {
	addRenderFlags(localesCmd)
	rootCmd.AddCommand(localesCmd)
}

func runLocales(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	f, err := cfg.Formatter()
	if err != nil {
		return err
	}

	now := time.Now()
	reg := locale.Default()

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "LOCALE\tEXAMPLE\t")
	for _, tag := range reg.Tags() {
		name := tag.String()
		if tag == f.Tag() {
			name += " *"
		}
		example := reg.ForLocale(tag.String(), f.Location()).Format(now)
		fmt.Fprintf(w, "%s\t%s\t\n", name, example)
	}
	return w.Flush()
}
