package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/stamp/internal/history"
	"github.com/ziadkadry99/stamp/internal/progress"
	"github.com/ziadkadry99/stamp/internal/render"
	"github.com/ziadkadry99/stamp/internal/site"
)

var buildCmd = &cobra.Command{
	Use:   "build [source-dir]",
	Short: "Build a site directory with every timestamp rendered",
	Long: `Walks the source directory (default: the current one), renders HTML pages,
converts Markdown pages to HTML and renders them, copies all other files
and writes everything to the output directory.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringP("output", "o", "", "output directory (overrides config)")
	addRenderFlags(buildCmd)
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	start := time.Now()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if out, _ := cmd.Flags().GetString("output"); out != "" {
		cfg.OutputDir = out
	}

	srcDir := "."
	if len(args) == 1 {
		srcDir = args[0]
	}

	f, err := cfg.Formatter()
	if err != nil {
		return err
	}
	r, err := render.New(f, cfg.Marker)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	b := &site.Builder{
		SourceDir:   srcDir,
		OutputDir:   cfg.OutputDir,
		Renderer:    r,
		Reporter:    progress.NewReporter(),
		Lang:        f.Tag().String(),
		Include:     cfg.Include,
		Exclude:     cfg.Exclude,
		MaxFileSize: cfg.MaxFileSize,
	}
	res, buildErr := b.Build(ctx)

	finished := time.Now()
	run := history.Run{
		StartedAt:  start,
		FinishedAt: &finished,
		Source:     history.SourceBuild,
		Target:     srcDir,
		Locale:     f.Tag().String(),
		Timezone:   f.Location().String(),
		Files:      res.Files,
		Elements:   res.Stats.Elements,
		Invalid:    res.Stats.Invalid,
	}
	if buildErr != nil {
		run.Error = buildErr.Error()
	}
	recordRun(context.Background(), cfg, run)

	if buildErr != nil {
		return fmt.Errorf("building site: %w", buildErr)
	}

	fmt.Printf("Built %d pages (%d files) into %s in %s\n",
		res.Pages, res.Files, cfg.OutputDir, time.Since(start).Round(time.Millisecond))
	fmt.Printf("  Timestamps: %d rendered, %d invalid\n", res.Stats.Elements-res.Stats.Invalid, res.Stats.Invalid)
	return nil
}
