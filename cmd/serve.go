package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/futureline/internal/server"
)

var (
	flagServeAddr         string
	flagServeEventsBuffer int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the plan and generation pipeline over HTTP",
	Long: "Exposes the plan, timeline projections, and all generation steps as a\n" +
		"local HTTP API with an SSE event stream at /v1/stream.",
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagServeAddr, "addr", "", "Listen address (default from config, 127.0.0.1:8791)")
	serveCmd.Flags().IntVar(&flagServeEventsBuffer, "events-buffer", 0, "Max in-memory events retained")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	store, cfg := openStore()

	addr := flagServeAddr
	if addr == "" {
		addr = cfg.Server.Addr
	}
	if addr == "" {
		addr = "127.0.0.1:8791"
	}
	buffer := flagServeEventsBuffer
	if buffer == 0 {
		buffer = cfg.Server.EventsBuffer
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cache := openCache()
	if cache != nil {
		defer func() { _ = cache.Close() }()
	}

	pipe, cleanup := newPipeline(ctx, cfg, cache)
	defer cleanup()

	svc := server.New(server.Config{Addr: addr, EventsBuffer: buffer}, store, pipe, cache, newLogger())

	if !flagQuiet {
		fmt.Printf("  Serving on http://%s (Ctrl-C to stop)\n", addr)
	}
	return svc.Run(ctx)
}
