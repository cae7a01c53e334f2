package commands

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/headlink/internal/logfields"
	"git.home.luguber.info/inful/headlink/internal/metrics"
	"git.home.luguber.info/inful/headlink/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	MetricsAddr string `help:"Serve Prometheus metrics on this address (overrides configuration)" placeholder:"ADDR"`
}

// Run indexes the vault, then keeps the caches current until interrupted.
func (c *WatchCmd) Run(ctx context.Context, g *Global) error {
	reg := prom.NewRegistry()
	rt, err := g.NewRuntime(metrics.NewPrometheusRecorder(reg))
	if err != nil {
		return err
	}
	defer rt.Close()

	if err := warm(ctx, g, rt); err != nil {
		return err
	}

	w, err := watch.NewWatcher(rt.Vault,
		watch.WithDebounce(g.Config.Watch.Debounce),
		watch.WithLogger(g.Logger),
		watch.OnInvalidate(rt.Augmenter.Forget),
		watch.OnInvalidate(rt.Host.Index().Invalidate))
	if err != nil {
		return err
	}
	if err := w.Start(ctx); err != nil {
		return err
	}
	defer func() { _ = w.Stop() }()

	sw, err := watch.NewSweeper(rt.Augmenter, rt.Vault, g.Config.Watch.SweepInterval, g.Logger)
	if err != nil {
		return err
	}
	sw.Start()
	defer func() { _ = sw.Stop() }()

	addr := c.MetricsAddr
	if addr == "" {
		addr = g.Config.Metrics.Addr
	}
	if addr != "" {
		srv := serveMetrics(g, addr, reg)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	<-ctx.Done()
	g.Logger.Info("Watch stopped", logfields.SessionID(w.SessionID()))
	return nil
}

// warm builds and augments the metadata record of every document once.
func warm(ctx context.Context, g *Global, rt *Runtime) error {
	docs, err := rt.Vault.Documents()
	if err != nil {
		return err
	}
	cache := rt.Host.MetadataCache()
	for _, f := range docs {
		if _, err := cache.CacheByFile(ctx, f); err != nil {
			g.Logger.Warn("Failed to index document", logfields.Path(f.Path), logfields.Error(err))
		}
	}
	g.Logger.Info("Vault indexed", logfields.Count(len(docs)), logfields.Path(rt.Vault.Root()))
	return nil
}

func serveMetrics(g *Global, addr string, reg *prom.Registry) *http.Server {
	srv := &http.Server{Addr: addr, Handler: metrics.NewMux(reg), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			g.Logger.Error("Metrics server failed", logfields.Error(err))
		}
	}()
	g.Logger.Info("Serving metrics", slog.String("addr", addr))
	return srv
}
