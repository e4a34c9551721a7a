package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/vango-dev/statesync/pkg/devtool"
	"github.com/vango-dev/statesync/pkg/statesync"
)

func serveCmd() *cobra.Command {
	var (
		addr        string
		profileName string
		interval    time.Duration
		verbose     bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a workload with the devtool inspection server attached",
		RunE: func(cmd *cobra.Command, args []string) error {
			prof, ok := profiles[profileName]
			if !ok {
				return fmt.Errorf("unknown profile %q (have: fast, standard, stress)", profileName)
			}

			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			logger := newLogger(level)

			hub := devtool.NewHub()
			defer hub.Close()

			w := newWorkload(logger, prof, statesync.WithObserver(hub))
			defer w.handle.Stop()

			// Keep the workload ticking so /events has something to show.
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			go func() {
				for range ticker.C {
					w.flush()
				}
			}()

			srv := devtool.NewServer(hub, w.handle.Snapshot)
			logger.Info("devtool server listening",
				"addr", addr,
				"profile", prof.Name,
				"mappings", prof.Mappings,
				"interval", interval,
			)
			return http.ListenAndServe(addr, srv.Routes())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":6090", "listen address")
	cmd.Flags().StringVarP(&profileName, "profile", "p", "fast", "workload profile: fast, standard, stress")
	cmd.Flags().DurationVar(&interval, "interval", time.Second, "time between workload flushes")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	return cmd
}
