package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/1broseidon/chromesync/internal/config"
	"github.com/1broseidon/chromesync/internal/daemon"
	"github.com/1broseidon/chromesync/internal/decoration"
	"github.com/1broseidon/chromesync/internal/hotkeys"
	"github.com/1broseidon/chromesync/internal/ipc"
	"github.com/1broseidon/chromesync/internal/platform"
	"github.com/1broseidon/chromesync/internal/runtimepath"
)

func runDaemon(args []string) int {
	fs := flag.NewFlagSet("daemon", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: chromesync daemon [--path PATH]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Create the managed window and keep its decoration in sync.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	path := fs.String("path", "", "Config file path (default: ~/.config/chromesync/config.yaml)")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "daemon takes no arguments")
		fs.Usage()
		return 2
	}

	// Load configuration
	res, err := loadConfig(*path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		return 1
	}
	cfg := res.Config
	configPath := *path
	if configPath == "" {
		if configPath, err = config.DefaultConfigPath(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	logger.Info("configuration loaded", "files", len(res.Files),
		"native_title_bar", cfg.Decoration.NativeTitleBar,
		"preserve_frame", cfg.Decoration.PreserveFrame,
		"blur", cfg.Decoration.Blur,
		"resizable", cfg.Decoration.Resizable)

	// Connect to display server
	conn, err := platform.Open(cfg.Display)
	if err != nil {
		logger.Error("failed to connect to display", "error", err)
		return 1
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	loop := daemon.NewLoop(logger)
	session, err := daemon.NewSession(daemon.SessionOptions{
		Conn:       conn,
		Loop:       loop,
		Config:     cfg,
		ConfigPath: configPath,
		Store:      decoration.EnvStore{},
		Logger:     logger,
		Quit:       cancel,
	})
	if err != nil {
		logger.Error("failed to create session", "error", err)
		return 1
	}
	if err := session.Start(); err != nil {
		logger.Error("failed to create window", "error", err)
		return 1
	}
	defer session.Close()

	if bindings := cfg.Hotkeys.Bindings(); len(bindings) > 0 {
		keys := hotkeys.NewHandler(conn.XUtil, conn.Root, logger)
		if err := hotkeys.Bind(keys, bindings, session.HotkeyActions()); err != nil {
			logger.Warn("some hotkeys were not registered", "error", err)
		}
	}

	if pidPath, err := runtimepath.PIDPath(); err == nil {
		if err := os.WriteFile(pidPath, []byte(strconv.Itoa(os.Getpid())+"\n"), 0600); err != nil {
			logger.Warn("failed to write pid file", "path", pidPath, "error", err)
		} else {
			defer os.Remove(pidPath)
		}
	}

	// Start IPC server
	ipcServer, err := ipc.NewServer(session, logger)
	if err != nil {
		logger.Error("failed to create IPC server", "error", err)
		return 1
	}
	if err := ipcServer.Start(); err != nil {
		logger.Error("failed to start IPC server", "error", err)
		return 1
	}
	defer ipcServer.Stop()

	reconciler := daemon.NewReconciler(daemon.ReconcilerConfig{
		Interval: 10 * time.Second,
		Logger:   logger,
	}, session)
	go reconciler.Run(ctx)

	// Setup signal handlers
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigCh)

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case sig := <-sigCh:
				switch sig {
				case syscall.SIGHUP:
					logger.Info("received SIGHUP, reloading config")
					if _, err := session.Reload(); err != nil {
						logger.Error("config reload failed", "error", err)
					}
				default:
					logger.Info("shutting down chromesync daemon", "signal", sig)
					cancel()
					return
				}
			}
		}
	}()

	logger.Info("chromesync daemon started", "socket", ipcServer.SocketPath())

	// Start event loop (blocking)
	before, after, quit := conn.MainPing()
	if err := loop.Run(ctx, daemon.Pings{Before: before, After: after, Quit: quit}); err != nil && err != context.Canceled {
		logger.Error("event loop stopped", "error", err)
		return 1
	}
	return 0
}
