package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := LoadServerConfig()
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}

	addr := flag.String("addr", cfg.Addr, "HTTP listen address")
	dbPath := flag.String("db", cfg.DBPath, "SQLite database path")
	clientDir := flag.String("client", cfg.ClientDir, "Path to client directory")
	levelFile := flag.String("levels", cfg.LevelFile, "Level table YAML (empty = built-in levels)")
	debug := flag.Bool("debug", cfg.Debug, "Verbose development logging")
	flag.Parse()

	log, err := NewLogger(*debug)
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
	defer log.Sync()

	levels := DefaultLevels()
	if *levelFile != "" {
		levels, err = LoadLevelSet(*levelFile)
		if err != nil {
			log.Fatal("level table load failed", zap.String("path", *levelFile), zap.Error(err))
		}
	}
	if err := levels.Validate(); err != nil {
		log.Fatal("level table invalid", zap.Error(err))
	}

	db, err := OpenDB(*dbPath)
	if err != nil {
		log.Fatal("database open failed", zap.String("path", *dbPath), zap.Error(err))
	}
	defer db.Close()

	analytics := NewAnalytics(db, log)
	defer analytics.Stop()

	auth := NewAuth(db, log)

	hub := NewHub(db, auth, analytics, levels, log)
	go hub.Run()

	server := &http.Server{
		Addr:    *addr,
		Handler: SetupRoutes(hub, *clientDir),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server starting",
			zap.String("addr", *addr),
			zap.String("client_dir", *clientDir),
			zap.Int("levels", len(levels.Levels)))
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatal("server failed", zap.Error(err))
	}
}
