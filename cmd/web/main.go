package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/AdamBeresnev/op-tournament/internal/config"
	"github.com/AdamBeresnev/op-tournament/internal/db"
	"github.com/AdamBeresnev/op-tournament/internal/live"
	"github.com/AdamBeresnev/op-tournament/internal/middleware"
	"github.com/AdamBeresnev/op-tournament/internal/service"
	"github.com/AdamBeresnev/op-tournament/internal/store"
	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"golang.org/x/sync/errgroup"
)

type application struct {
	cfg        *config.Config
	sessions   *scs.SessionManager
	tournament *service.TournamentService
	users      *service.UserService
	userStore  *store.UserStore
	hub        *live.Hub
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Invalid configuration:", err)
	}

	database := db.InitDB(cfg.DBPath)
	defer database.Close()

	if err := db.RunMigrations(database.DB); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	middleware.InitAuth(cfg)

	sessionManager := scs.New()
	sessionManager.Lifetime = cfg.SessionLifetime
	sessionManager.Store = sqlite3store.New(database.DB)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	hub := live.NewHub(cfg.CORSOrigins)
	tournamentService, err := service.NewTournamentService(ctx, store.NewTournamentStore(database), hub, service.Options{
		MaxTeams:      cfg.MaxTeams,
		MatchInterval: cfg.MatchInterval,
	})
	if err != nil {
		log.Fatal("Failed to load tournament:", err)
	}

	userStore := store.NewUserStore(database)
	app := &application{
		cfg:        cfg,
		sessions:   sessionManager,
		tournament: tournamentService,
		users:      service.NewUserService(userStore),
		userStore:  userStore,
		hub:        hub,
	}

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           app.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		hub.Run(gctx)
		return nil
	})
	g.Go(func() error {
		log.Printf("Server starting on http://localhost%s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Println("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatal(err)
	}
}
