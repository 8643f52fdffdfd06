package cli

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vietddude/storefront/internal/infra/cache"
)

var flushCmd = &cobra.Command{
	Use:   "flush",
	Short: "Clear the shared Redis cache keyspace",
	Run:   runFlush,
}

func init() {
	rootCmd.AddCommand(flushCmd)
}

func runFlush(cmd *cobra.Command, args []string) {
	cfg := loadConfig()

	if cfg.Cache.Backend != "redis" {
		slog.Error("flush only applies to the redis cache backend", "backend", cfg.Cache.Backend)
		os.Exit(1)
	}

	store, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		slog.Error("Failed to connect to redis", "error", err)
		os.Exit(1)
	}
	defer func() {
		_ = store.Close()
	}()

	if err := store.Clear(context.Background()); err != nil {
		slog.Error("Failed to clear cache", "error", err)
		os.Exit(1)
	}
	slog.Info("Cache cleared")
}
