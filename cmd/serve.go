package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/stamp/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve [dir]",
	Short: "Serve a directory with timestamps rendered per request",
	Long: `Starts an HTTP server for the directory (default: the configured output
directory). HTML pages are rendered in the locale negotiated from each
request's Accept-Language header. The JSON and WebSocket formatting API
is served alongside.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runServe,
}

func init() {
	serveCmd.Flags().Int("port", 0, "port to listen on (overrides config)")
	serveCmd.Flags().Bool("open", false, "open the browser once the server is up")
	addRenderFlags(serveCmd)
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	dir := cfg.OutputDir
	if len(args) == 1 {
		dir = args[0]
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return fmt.Errorf("%s is not a directory\nRun `stamp build` first or pass a directory", dir)
	}

	port := cfg.Server.Port
	if p, _ := cmd.Flags().GetInt("port"); p > 0 {
		port = p
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

	srv, err := server.New(server.Config{
		Port:        port,
		Dir:         dir,
		Marker:      cfg.Marker,
		AllowAll:    cfg.Server.AllowAllOrigins,
		CacheMaxAge: cfg.Server.CacheMaxAge,
	}, f, store)
	if err != nil {
		return err
	}

	// Graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		fmt.Fprintln(os.Stderr, "\nShutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	url := fmt.Sprintf("http://localhost:%d", port)
	fmt.Fprintf(os.Stderr, "stamp server v%s serving %s at %s\n", Version, dir, url)
	fmt.Fprintf(os.Stderr, "  Fallback locale: %s (%s)\n", f.Tag(), f.Location())
	if store != nil {
		fmt.Fprintf(os.Stderr, "  History: %s\n", cfg.HistoryDB)
	}

	if open, _ := cmd.Flags().GetBool("open"); open {
		go openBrowser(url)
	}

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// openBrowser opens the given URL in the default browser.
func openBrowser(url string) {
	var c *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		c = exec.Command("cmd", "/c", "start", url)
	case "darwin":
		c = exec.Command("open", url)
	default:
		c = exec.Command("xdg-open", url)
	}
	_ = c.Start()
}
