package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/stamp/internal/history"
	"github.com/ziadkadry99/stamp/internal/render"
)

var renderCmd = &cobra.Command{
	Use:   "render [files...]",
	Short: "Render the timestamps of HTML files",
	Long: `Reads each HTML file (or stdin when no file is given), replaces the epoch
seconds inside every marked element with localized text and writes the
result to stdout, or back to the file with --in-place.`,
	RunE: runRender,
}

func init() {
	renderCmd.Flags().BoolP("in-place", "i", false, "rewrite files instead of printing them")
	addRenderFlags(renderCmd)
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	inPlace, _ := cmd.Flags().GetBool("in-place")
	if inPlace && len(args) == 0 {
		return fmt.Errorf("--in-place needs at least one file")
	}

	f, err := cfg.Formatter()
	if err != nil {
		return err
	}
	r, err := render.New(f, cfg.Marker)
	if err != nil {
		return err
	}

	run := history.Run{
		StartedAt: time.Now(),
		Source:    history.SourceCLI,
		Target:    "-",
		Locale:    f.Tag().String(),
		Timezone:  f.Location().String(),
	}

	var (
		total  render.Stats
		runErr error
	)
	if len(args) == 0 {
		total, runErr = r.RenderHTML(cmd.InOrStdin(), cmd.OutOrStdout())
		run.Files = 1
	} else {
		run.Target = strings.Join(args, " ")
		for _, path := range args {
			stats, err := renderFile(r, path, inPlace, cmd.OutOrStdout())
			total.Add(stats)
			if err != nil {
				runErr = fmt.Errorf("rendering %s: %w", path, err)
				break
			}
			run.Files++
		}
	}

	finished := time.Now()
	run.FinishedAt = &finished
	run.Elements, run.Invalid = total.Elements, total.Invalid
	if runErr != nil {
		run.Error = runErr.Error()
	}
	recordRun(cmd.Context(), cfg, run)

	if verbose {
		fmt.Fprintf(cmd.ErrOrStderr(), "Rendered %d timestamps (%d invalid) in %d file(s) as %s, %s\n",
			total.Elements, total.Invalid, run.Files, run.Locale, run.Timezone)
	}
	return runErr
}

// renderFile renders one file to out, or back onto itself when inPlace is set.
func renderFile(r *render.Renderer, path string, inPlace bool, out io.Writer) (render.Stats, error) {
	info, err := os.Stat(path)
	if err != nil {
		return render.Stats{}, err
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return render.Stats{}, err
	}

	var buf bytes.Buffer
	stats, err := r.RenderHTML(bytes.NewReader(src), &buf)
	if err != nil {
		return stats, err
	}

	if inPlace {
		return stats, os.WriteFile(path, buf.Bytes(), info.Mode().Perm())
	}
	_, err = buf.WriteTo(out)
	return stats, err
}
