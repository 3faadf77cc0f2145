// file: cmd/serve.go
// version: 1.1.0
// guid: 5e2d8c71-a94b-4f06-b3e8-7d1a0c6f92b5

package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/jdfalk/kitfinder/internal/config"
	"github.com/jdfalk/kitfinder/internal/realtime"
	"github.com/jdfalk/kitfinder/internal/search"
	"github.com/jdfalk/kitfinder/internal/server"
	"github.com/jdfalk/kitfinder/internal/watcher"
	"github.com/spf13/cobra"
)

// Seams for tests
var (
	startServer = func(ctx context.Context, srv *server.Server) error {
		return srv.Start(ctx)
	}
	startWatcher = func(path string, svc *search.Service, hub *realtime.Hub) (func(), error) {
		w := watcher.New(reloadOnChange(svc, hub), watcher.DefaultDebounce)
		if err := w.Start(path); err != nil {
			return nil, err
		}
		return w.Stop, nil
	}
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP search API",
	Long: `Start the HTTP search API. The catalog is reloaded automatically when
its file changes unless --watch=false is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := loadStore()
		if err != nil {
			return err
		}
		svc, err := newService(store)
		if err != nil {
			return err
		}

		hub := realtime.NewHub()
		if config.AppConfig.WatchCatalog {
			stop, err := startWatcher(config.AppConfig.CatalogPath, svc, hub)
			if err != nil {
				return fmt.Errorf("failed to watch catalog: %w", err)
			}
			defer stop()
			log.Printf("[INFO] Watching %s for changes", config.AppConfig.CatalogPath)
		}

		srv := server.NewServer(svc, config.AppConfig.Server,
			server.WithVersion(Version),
			server.WithEventHub(hub),
		)
		return startServer(commandContext(cmd), srv)
	},
}

func init() {
	serveCmd.Flags().String("host", "localhost", "host to bind the web server to")
	serveCmd.Flags().String("port", "8080", "port to run the web server on")
	serveCmd.Flags().Duration("read-timeout", 0, "read timeout (e.g. 15s, 1m)")
	serveCmd.Flags().Duration("write-timeout", 0, "write timeout (e.g. 15s, 1m)")
	serveCmd.Flags().Duration("idle-timeout", 0, "idle timeout (e.g. 60s, 2m)")
	serveCmd.Flags().Bool("watch", true, "reload the catalog when its file changes")
}

// reloadOnChange reloads the catalog, logs the outcome and notifies event
// subscribers. A broken file leaves the previous catalog in place.
func reloadOnChange(svc *search.Service, hub *realtime.Hub) watcher.Callback {
	return func(path string) {
		if err := svc.Reload(); err != nil {
			log.Printf("[WARN] Catalog %s changed but could not be reloaded: %v", path, err)
			hub.CatalogReloadFailed(path, err)
			return
		}
		kits, version := svc.Kits()
		log.Printf("[INFO] Catalog reloaded from %s: %d kits (version %d)", path, len(kits), version)
		hub.CatalogReloaded(path, len(kits), version)
	}
}
