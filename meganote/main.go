package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"meganote/meganote/config"
	"meganote/meganote/controllers"
	"meganote/meganote/middlewares"
	"meganote/meganote/routes"
	"meganote/meganote/services/security"
	"meganote/meganote/sources/psql"
	"meganote/meganote/sources/psql/dao"
	"meganote/meganote/utils/logging"
	"meganote/meganote/utils/metrics"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if err := logging.InitLogger(cfg.LogDir); err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	defer logging.Sync()
	metrics.Init()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	db, err := psql.NewDatabase(ctx, cfg)
	if err != nil {
		logging.AppLogger.Error("database connection error", zap.Error(err))
		os.Exit(1)
	}
	defer db.Close()
	sqlDB, err := db.DB.DB()
	if err != nil {
		logging.AppLogger.Error("database handle error", zap.Error(err))
		os.Exit(1)
	}

	userDAO := dao.NewUserDAO(db.DB)
	noteDAO := dao.NewNoteDAO(db.DB)
	messageDAO := dao.NewMessageDAO(db.DB)

	tokens := security.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	hasher := security.NewBcryptHasher(cfg.BcryptCost)

	notesCtrl := controllers.NewNotesController(noteDAO, cfg.PublicOrigin)
	r := routes.NewRouter(routes.Dependencies{
		Auth:           controllers.NewAuthController(userDAO, hasher, tokens),
		Users:          controllers.NewUserController(userDAO),
		Notes:          notesCtrl,
		Messages:       controllers.NewMessagesController(messageDAO, notesCtrl, cfg.MessageMaxLength),
		Health:         controllers.NewHealthController(sqlDB),
		Gate:           middlewares.NewGate(tokens, userDAO),
		StaticDir:      cfg.StaticDir,
		RequestTimeout: cfg.RequestTimeout,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	if err := serve(srv, sigCh); err != nil {
		logging.AppLogger.Error("server error", zap.Error(err))
		logging.Sync()
		db.Close()
		os.Exit(1)
	}
	logging.AppLogger.Info("server shutdown complete")
}

// serve runs srv until stop fires or the listener fails. A listener failure
// is returned right away instead of leaving the process idle.
func serve(srv *http.Server, stop <-chan os.Signal) error {
	serveErr := make(chan error, 1)
	go func() {
		logging.AppLogger.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()
	select {
	case err := <-serveErr:
		return fmt.Errorf("listen: %w", err)
	case <-stop:
	}
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
