package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flowdraw/internal/preview"
	"github.com/matzehuels/flowdraw/pkg/cache"
	"github.com/matzehuels/flowdraw/pkg/store"
)

// previewCommand creates the preview command serving the local HTTP site.
func (c *CLI) previewCommand() *cobra.Command {
	var (
		addr     string
		seed     uint64
		noCache  bool
		redisURL string
		mongoURI string
	)

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Serve the local HTTP preview site",
		Long: `Serve the local HTTP preview site.

The site shows a random flowchart, regenerates on /next, and lets you
share diagrams via short links. By default diagrams are held in memory
and rendered artifacts are cached on disk; pass --redis or --mongo to
back them with external services instead.

Examples:
  flowdraw preview
  flowdraw preview --addr 127.0.0.1:9000
  flowdraw preview --redis localhost:6379 --mongo mongodb://localhost:27017`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPreview(cmd.Context(), addr, seed, noCache, redisURL, mongoURI)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", preview.DefaultAddr, "listen address")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "fixed seed for the random diagram sequence")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().StringVar(&redisURL, "redis", "", "Redis address for the artifact cache (host:port)")
	cmd.Flags().StringVar(&mongoURI, "mongo", "", "MongoDB URI for the shared-diagram store")

	return cmd
}

// runPreview assembles the store and cache backends and runs the server.
func (c *CLI) runPreview(ctx context.Context, addr string, seed uint64, noCache bool, redisURL, mongoURI string) error {
	artifactCache, err := c.previewCache(ctx, noCache, redisURL)
	if err != nil {
		return err
	}
	defer artifactCache.Close()

	diagramStore, err := c.previewStore(ctx, mongoURI)
	if err != nil {
		return err
	}
	defer diagramStore.Close(context.Background())

	srv, err := preview.NewServer(preview.Config{
		Store:  diagramStore,
		Cache:  artifactCache,
		Logger: c.Logger,
		Seed:   seed,
	})
	if err != nil {
		return err
	}

	printInfo("Preview running at http://%s", addr)
	printDetail("Press Ctrl+C to stop")

	err = srv.Run(ctx, addr)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// previewCache picks the artifact cache backend: Redis when requested,
// otherwise the shared file cache, or none at all.
func (c *CLI) previewCache(ctx context.Context, noCache bool, redisURL string) (cache.Cache, error) {
	if redisURL != "" {
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{Addr: redisURL})
		if err != nil {
			return nil, fmt.Errorf("connect redis %s: %w", redisURL, err)
		}
		c.Logger.Info("using Redis artifact cache", "addr", redisURL)
		return rc, nil
	}
	return newCache(noCache)
}

// previewStore picks the shared-diagram store backend.
func (c *CLI) previewStore(ctx context.Context, mongoURI string) (store.Store, error) {
	if mongoURI != "" {
		ms, err := store.NewMongoStore(ctx, store.MongoConfig{URI: mongoURI})
		if err != nil {
			return nil, fmt.Errorf("connect mongo: %w", err)
		}
		c.Logger.Info("using MongoDB diagram store")
		return ms, nil
	}
	return store.NewMemoryStore(), nil
}
