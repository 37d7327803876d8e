package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/adfharrison1/mongo-bridge/pkg/bridge"
	"github.com/adfharrison1/mongo-bridge/pkg/config"
	"github.com/adfharrison1/mongo-bridge/pkg/gateway"
	"github.com/adfharrison1/mongo-bridge/pkg/server"
)

func main() {
	// Environment first, command line flags override
	cfg := config.Load()

	var (
		uri       = flag.String("uri", cfg.URI, "MongoDB connection URI")
		defaultDB = flag.String("db", cfg.DefaultDB, "Default database name")
		httpAddr  = flag.String("http", cfg.HTTPAddr, "HTTP listen address (e.g. :8080). Empty disables HTTP.")
		timeout   = flag.Duration("timeout", cfg.RequestTimeout, "Per-command timeout")
		showHelp  = flag.Bool("help", false, "Show help message")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nmongo-bridge exposes MongoDB operations over newline-delimited JSON on stdin/stdout.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEnvironment:\n")
		fmt.Fprintf(os.Stderr, "  MONGODB_URI             Connection URI (default %s)\n", config.DefaultURI)
		fmt.Fprintf(os.Stderr, "  MONGODB_DB              Default database name (default %s)\n", config.DefaultDatabase)
		fmt.Fprintf(os.Stderr, "  BRIDGE_HTTP_ADDR        Optional HTTP listen address\n")
		fmt.Fprintf(os.Stderr, "  BRIDGE_REQUEST_TIMEOUT  Per-command timeout (default %s)\n", config.DefaultRequestTimeout)
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s                                   # Talk to mongodb://localhost:27017\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -uri mongodb://db:27017 -db app   # Custom endpoint and default database\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -http :8080                       # Also serve the HTTP transport\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nProtocol Note:\n")
		fmt.Fprintf(os.Stderr, "  One JSON command per input line, one JSON envelope per output line.\n")
		fmt.Fprintf(os.Stderr, "  Responses are written in completion order, which may differ from input order.\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	cfg.URI = *uri
	cfg.DefaultDB = *defaultDB
	cfg.HTTPAddr = *httpAddr
	cfg.RequestTimeout = *timeout

	// stdout carries response envelopes only; all diagnostics go to stderr
	log.SetOutput(os.Stderr)

	connectCtx, connectCancel := context.WithTimeout(context.Background(), 10*time.Second)
	gw, err := gateway.Connect(connectCtx, cfg)
	connectCancel()
	if err != nil {
		log.Fatalf("ERROR: Could not connect to MongoDB: %v", err)
	}

	dispatcher := bridge.NewDispatcher(gw, cfg.DefaultDB)
	loop := bridge.NewLoop(dispatcher, os.Stdout, cfg.RequestTimeout)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var httpServer *http.Server
	var httpFailed atomic.Bool
	if cfg.HTTPAddr != "" {
		httpServer = &http.Server{
			Addr:    cfg.HTTPAddr,
			Handler: server.New(dispatcher, cfg.RequestTimeout).Router(),
		}
		go func() {
			log.Printf("INFO: HTTP transport listening on %s", cfg.HTTPAddr)
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				// Let the normal shutdown path close the backend connection.
				log.Printf("ERROR: HTTP server failed: %v", err)
				httpFailed.Store(true)
				stop()
			}
		}()
	}

	log.Printf("INFO: Bridge ready (default database '%s')", cfg.DefaultDB)

	// Returns on stdin EOF or termination signal, after draining in-flight
	// commands.
	runErr := loop.Run(ctx, os.Stdin)
	if runErr != nil {
		log.Printf("ERROR: Input loop failed: %v", runErr)
	}
	stop()

	log.Println("INFO: Shutting down...")

	if httpServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("ERROR: HTTP server forced to shutdown: %v", err)
		}
		cancel()
	}

	closeCtx, closeCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer closeCancel()
	if err := gw.Close(closeCtx); err != nil {
		log.Fatalf("ERROR: Could not close MongoDB connection: %v", err)
	}

	if runErr != nil || httpFailed.Load() {
		os.Exit(1)
	}
	log.Println("INFO: Bridge exited")
}
