package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gogpu/gg"

	"github.com/danielhkuo/tipper/capture"
	"github.com/danielhkuo/tipper/cliparse"
	"github.com/danielhkuo/tipper/compositor"
	"github.com/danielhkuo/tipper/db"
	"github.com/danielhkuo/tipper/editor"
	"github.com/danielhkuo/tipper/middleware"
	"github.com/danielhkuo/tipper/router"
)

const (
	sweepInterval   = time.Minute
	shutdownTimeout = 10 * time.Second
)

func main() {
	started := time.Now()

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	// Canvas library logs through the same handler
	gg.SetLogger(slog.Default())

	// Connect to the database
	dbConn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		slog.Error("database connection failed", "type", cfg.DatabaseType, "error", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	// Create schema (tables)
	if err := db.CreateSchema(dbConn, cfg.DatabaseType); err != nil {
		slog.Error("schema creation failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database schema ready", "type", cfg.DatabaseType)

	// Editor pipeline
	fonts, err := compositor.NewFontBook()
	if err != nil {
		slog.Error("font loading failed", "error", err)
		os.Exit(1)
	}
	store := editor.NewStore(editor.Config{
		Acquirer:       capture.NewAcquirer(devices(cfg)),
		Compositor:     compositor.New(fonts),
		AI:             editor.KeywordEditor{Latency: cfg.AIEditLatency},
		AITimeout:      cfg.AIEditTimeout,
		MaxUploadBytes: cfg.MaxUploadBytes,
		MaxImagePixels: cfg.MaxImagePixels,
	}, cfg.SessionIdleTimeout)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go store.Run(ctx, sweepInterval)

	// Create router
	mux := router.NewRouter(dbConn, cfg, store, started)

	// Create server
	server := http.Server{
		Handler:           middleware.CORS(mux),
		Addr:              ":" + strconv.Itoa(cfg.Port),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal
		<-ctrlc
		shutdownCtx, done := context.WithTimeout(context.Background(), shutdownTimeout)
		defer done()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Warn("graceful shutdown failed", "error", err)
			server.Close()
		}
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port, "virtual_camera", cfg.VirtualCamera)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}

	cancel()
	store.CloseAll()
}

// devices returns the capture devices the server can open. Without a
// virtual camera there are none and capture requests fail as not found;
// imports still work.
func devices(cfg cliparse.Config) capture.Devices {
	if !cfg.VirtualCamera {
		return capture.NewVirtualDevices()
	}
	return capture.NewVirtualDevices(
		capture.VirtualCamera{
			ID:     "virtual-front",
			Label:  "Virtual camera (front)",
			Facing: capture.FacingUser,
			Frame:  capture.TestPattern(capture.IdealWidth, capture.IdealHeight),
		},
		capture.VirtualCamera{
			ID:     "virtual-back",
			Label:  "Virtual camera (back)",
			Facing: capture.FacingEnvironment,
			Frame:  capture.TestPattern(capture.IdealHeight, capture.IdealWidth),
		},
	)
}
