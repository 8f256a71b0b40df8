// Command holosd runs the display server: it binds the client socket,
// selects a graphics driver, and drives the render loop until interrupted.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	holos "github.com/gogpu/holos"
	"github.com/gogpu/holos/backend"
	_ "github.com/gogpu/holos/backend/software"
	_ "github.com/gogpu/holos/backend/wgpu"
	"github.com/gogpu/holos/drawable"
	"github.com/gogpu/holos/scene"
	"github.com/gogpu/holos/server"
)

func main() {
	var (
		socket   = flag.String("socket", defaultSocketPath(), "client socket path")
		driver   = flag.String("driver", "", "graphics driver (default: best available)")
		tickRate = flag.Int("tick-rate", 90, "render loop frequency in Hz")
		logLevel = flag.String("log-level", "info", "log level (debug, info, warn, error)")
	)
	flag.Parse()

	if err := run(*socket, *driver, *tickRate, *logLevel); err != nil {
		fmt.Fprintln(os.Stderr, "holosd:", err)
		os.Exit(1)
	}
}

func run(socket, driverName string, tickRate int, logLevel string) error {
	level, err := parseLevel(logLevel)
	if err != nil {
		return err
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	holos.SetLogger(log)

	if tickRate <= 0 {
		return fmt.Errorf("tick rate must be positive, got %d", tickRate)
	}

	drv, err := backend.Open(driverName)
	if err != nil {
		return fmt.Errorf("open driver: %w", err)
	}
	log.Info("driver ready", "driver", drv.Name())

	sys := drawable.NewSystem(drv, scene.NewGraph())

	srv, err := server.Listen(socket, sys, server.Options{})
	if err != nil {
		sys.Shutdown()
		return err
	}
	log.Info("listening", "socket", socket)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveDone := make(chan struct{})
	go func() {
		defer close(serveDone)
		if err := srv.Serve(ctx); err != nil {
			log.Error("serve failed", "err", err)
		}
	}()

	ticker := time.NewTicker(time.Second / time.Duration(tickRate))
	defer ticker.Stop()

	// The render loop is the sole caller of GPU construction, mutation, and
	// destruction. It stops only after the accept loop is down, then runs one
	// final frame so staged work and the destroy queue settle before the
	// driver closes.
	for {
		select {
		case <-ctx.Done():
			log.Info("shutting down")
			srv.Close()
			<-serveDone
			sys.Frame()
			sys.Shutdown()
			return nil
		case <-ticker.C:
			sys.Frame()
		}
	}
}

func parseLevel(s string) (slog.Level, error) {
	switch s {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown log level %q", s)
}

func defaultSocketPath() string {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return dir + "/holos-0.sock"
	}
	return "/tmp/holos-0.sock"
}
