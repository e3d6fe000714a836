package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Brownie44l1/http-files/internal/filestore"
	"github.com/Brownie44l1/http-files/internal/logging"
	"github.com/Brownie44l1/http-files/internal/router"
	"github.com/Brownie44l1/http-files/internal/server"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "httpserver: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	defaults := server.DefaultConfig()

	directory := flag.String("directory", "", "directory served under /files/ (default: current directory)")
	addr := flag.String("addr", defaults.Addr, "address to listen on")
	bufferSize := flag.Int("buffer-size", defaults.BufferSize, "size of the single read per connection, in bytes")
	maxConns := flag.Int("max-conns", 0, "maximum in-flight connections (0 = unbounded)")
	readTimeout := flag.Duration("read-timeout", 0, "how long to wait for request bytes (0 = forever)")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	flag.Parse()

	level, err := logging.ParseLevel(*logLevel)
	if err != nil {
		return fmt.Errorf("invalid -log-level: %w", err)
	}
	logger := logging.NewConsoleLogger(os.Stdout, level)

	files, err := openDirectory(*directory, logger)
	if err != nil {
		return err
	}
	defer files.Close()

	config := server.DefaultConfig()
	config.Addr = *addr
	config.BufferSize = *bufferSize
	config.MaxConnections = *maxConns
	config.ReadTimeout = *readTimeout

	srv := server.New(config, router.New(files, logger))
	srv.Logger = logger

	logger.Info("starting server",
		logging.F("addr", config.Addr),
		logging.F("directory", files.Path()),
		logging.F("max_conns", config.MaxConnections),
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if !errors.Is(err, server.ErrServerClosed) {
			return err
		}
	case sig := <-sigChan:
		logger.Info("shutting down", logging.F("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Warn("shutdown incomplete", logging.F("error", err))
	}

	stats := srv.Stats()
	logger.Info("server stopped",
		logging.F("connections", stats.ConnectionsTotal),
		logging.F("requests", stats.RequestsTotal),
		logging.F("dropped", stats.DroppedTotal),
		logging.F("errors_4xx", stats.Errors4xx),
		logging.F("errors_5xx", stats.Errors5xx),
		logging.F("avg_latency", stats.AverageLatency.String()),
	)
	return nil
}

// openDirectory opens the served directory, falling back to the current
// directory when the flag is empty or does not name a usable directory
func openDirectory(path string, logger logging.Logger) (*filestore.Dir, error) {
	if path != "" {
		info, err := os.Stat(path)
		switch {
		case err != nil:
			logger.Warn("directory unusable, serving current directory", logging.F("directory", path), logging.F("error", err))
		case !info.IsDir():
			logger.Warn("not a directory, serving current directory", logging.F("directory", path))
		default:
			files, err := filestore.Open(path)
			if err == nil {
				return files, nil
			}
			logger.Warn("directory unusable, serving current directory", logging.F("directory", path), logging.F("error", err))
		}
	}

	files, err := filestore.Open(".")
	if err != nil {
		return nil, fmt.Errorf("open current directory: %w", err)
	}
	return files, nil
}
