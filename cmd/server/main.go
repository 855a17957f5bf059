// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mdhender/tabtxt"
	store "github.com/mdhender/tabtxt/stores/sqlite"
	"github.com/mdhender/tabtxt/web/auth"
	"github.com/mdhender/tabtxt/web/handlers"
)

func main() {
	addr := flag.String("addr", ":8787", "HTTP listen address")
	dataDir := flag.String("data", "testdata", "directory for uploaded files")
	dbPath := flag.String("db", "", "SQLite database file path (empty = in-memory)")
	usersPath := flag.String("users", "", "users JSON file to load at startup")
	logWithDefaultFlags := flag.Bool("log-with-default-flags", false, "log with default flags")
	logWithShortFileName := flag.Bool("log-with-shortfile", true, "log with short file name")
	logWithTimestamp := flag.Bool("log-with-timestamp", false, "log with timestamp")
	timeout := flag.Duration("timeout", 0, "auto-shutdown after duration (e.g., 5s, 1m)")
	showVersion := flag.Bool("version", false, "show version and exit")
	authAs := flag.String("auth-as", "", "auto-authenticate as handle for testing")
	flag.Parse()

	if *showVersion {
		fmt.Println(tabtxt.Version().Core())
		os.Exit(0)
	}

	logFlags := 0
	if *logWithShortFileName {
		logFlags |= log.Lshortfile
	}
	if *logWithTimestamp {
		logFlags |= log.Ltime
	}
	if *logWithDefaultFlags || logFlags == 0 {
		logFlags = log.LstdFlags
	}
	log.SetFlags(logFlags)

	err := run(*dataDir, *dbPath, *usersPath, *authAs, *addr, *timeout)
	if err != nil {
		log.Printf("error: %v\n", err)
	}
}

func run(dataDir, dbPath, usersPath, authAs, addr string, timeout time.Duration) error {
	var sqlStore *store.Store
	var err error

	if dbPath != "" {
		// File-based mode: database must already exist (created by init-db command)
		log.Printf("store: using file-based SQLite: %s", dbPath)
		sqlStore, err = store.NewStoreWithConfig(store.StoreConfig{
			Path:       dbPath,
			InitSchema: false, // schema already applied by init-db
		})
	} else {
		// In-memory mode (default)
		log.Printf("store: using in-memory SQLite")
		sqlStore, err = store.NewStore()
	}
	if err != nil {
		return fmt.Errorf("failed to create SQLite store: %v", err)
	}
	defer sqlStore.Close()

	ctx := context.Background()

	if usersPath != "" {
		if err := sqlStore.LoadUsersFromJSON(ctx, usersPath); err != nil {
			return fmt.Errorf("failed to load users: %w", err)
		}
	}

	stats := sqlStore.Stats()
	log.Printf("store: %d datasets, %d rows, %d columns, %d users",
		stats.Datasets, stats.Rows, stats.Columns, stats.Users)

	sessions := auth.NewSessionStore()
	h := handlers.New(sqlStore, sessions, dataDir)

	if authAs != "" {
		isAdmin, err := sqlStore.IsUserAdmin(ctx, authAs)
		if err != nil {
			log.Printf("auth: failed to check roles for %s: %v", authAs, err)
		}
		h.SetAutoAuth(authAs, isAdmin)
		log.Printf("auth: auto-authenticating as %s (admin=%v)", authAs, isAdmin)
	}

	mux := http.NewServeMux()
	h.Routes(mux)

	server := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	if timeout > 0 {
		go func() {
			log.Printf("server: will auto-shutdown in %v", timeout)
			time.Sleep(timeout)
			log.Printf("server: timeout reached, initiating shutdown")
			shutdown <- os.Interrupt
		}()
	}

	go func() {
		log.Printf("server: listening on %s", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("server: %v", err)
		}
	}()

	<-shutdown
	log.Printf("server: shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown error: %w", err)
	}
	log.Printf("server: stopped")

	return nil
}
