package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/stamp/internal/config"
	"github.com/ziadkadry99/stamp/internal/db"
	"github.com/ziadkadry99/stamp/internal/history"
)

// addRenderFlags registers the flags that override the rendering settings
// of the config file.
func addRenderFlags(cmd *cobra.Command) {
	cmd.Flags().String("locale", "", "locale such as de or pt-BR (overrides config)")
	cmd.Flags().String("timezone", "", "IANA time zone such as Europe/Berlin (overrides config)")
	cmd.Flags().String("marker", "", "class that marks timestamp elements (overrides config)")
}

// loadConfig loads the config, applies any render flag overrides and
// validates the result.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `stamp init` to create a config file", err)
	}

	for flag, field := range map[string]*string{
		"locale":   &cfg.Locale,
		"timezone": &cfg.Timezone,
		"marker":   &cfg.Marker,
	} {
		if f := cmd.Flags().Lookup(flag); f != nil && f.Changed {
			*field = f.Value.String()
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// openHistory opens the run history database named in the config. It
// returns a nil store and a no-op close func when history is disabled.
func openHistory(cfg *config.Config) (*history.Store, func(), error) {
	if cfg.HistoryDB == "" {
		return nil, func() {}, nil
	}
	database, err := db.Open(cfg.HistoryDB)
	if err != nil {
		return nil, nil, fmt.Errorf("opening history database: %w", err)
	}
	return history.NewStore(database), func() { database.Close() }, nil
}

// recordRun stores run when history is enabled. Failures only warn.
func recordRun(ctx context.Context, cfg *config.Config, run history.Run) {
	store, closeDB, err := openHistory(cfg)
	if err != nil {
		log.Printf("warning: %v", err)
		return
	}
	defer closeDB()
	if store == nil {
		return
	}
	if _, err := store.Record(ctx, run); err != nil {
		log.Printf("warning: recording run: %v", err)
	}
}
