package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"recetas-api/internal/assets"
	"recetas-api/internal/auth"
	"recetas-api/internal/background"
	"recetas-api/internal/cache"
	"recetas-api/internal/config"
	"recetas-api/internal/db"
	"recetas-api/internal/logging"
	"recetas-api/internal/router"
	"recetas-api/internal/services"
	"recetas-api/internal/store"
	"recetas-api/internal/utils"
)

const (
	photoPrefix = "recetas"
	taskTimeout = 30 * time.Second
)

func main() {
	cfg := config.MustLoad()
	log := logging.New(cfg.Env, os.Stdout)

	if err := run(cfg, log); err != nil {
		log.Error("server stopped", logging.Err(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Env == config.EnvProd {
		gin.SetMode(gin.ReleaseMode)
	}
	for _, w := range cfg.Warnings() {
		log.Warn(w)
	}

	storage, closeStorage, err := openStorage(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStorage()

	listings, closeCache, err := openCache(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeCache()

	blobs, err := openBlobs(ctx, cfg.Asset)
	if err != nil {
		return err
	}

	runner := background.NewRunner(log, taskTimeout)
	mailer := utils.NewSMTPClient(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.User, cfg.SMTP.Password, cfg.SMTP.From)
	issuer := auth.NewIssuer(cfg.JWT.Secret, cfg.JWT.TTL)
	photos := assets.NewManager(blobs, runner, log, photoPrefix, cfg.Asset.MaxBytes)
	files := assets.NewManager(blobs, runner, log, "", cfg.Asset.MaxBytes)

	engine := router.New(router.Deps{
		Log:           log,
		Issuer:        issuer,
		Accounts:      services.NewAccounts(storage, issuer, mailer, runner, cfg.FrontendBaseURL),
		Categories:    services.NewCategories(storage, listings),
		Recipes:       services.NewRecipes(storage, photos, listings, log, cfg.FallbackUserID),
		Contacts:      services.NewContacts(storage, mailer, runner),
		Photos:        photos,
		Files:         files,
		Blobs:         blobs,
		PublicBaseURL: cfg.PublicBaseURL,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", slog.String("addr", srv.Addr), slog.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
	case <-ctx.Done():
		log.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown", logging.Err(err))
	}
	if err := runner.Wait(shutdownCtx); err != nil {
		log.Warn("background tasks still running at exit", logging.Err(err))
	}
	return nil
}

func openStorage(ctx context.Context, cfg *config.Config, log *slog.Logger) (services.Storage, func(), error) {
	if cfg.StorageDriver == "memory" {
		log.Warn("using in-memory storage, data is lost on exit")
		return store.NewMemory(), func() {}, nil
	}

	gdb, err := db.Init(ctx, cfg.DatabaseDSN, log)
	if err != nil {
		return nil, nil, err
	}
	closeDB := func() {
		if err := db.Close(gdb); err != nil {
			log.Error("close database", logging.Err(err))
		}
	}
	return store.New(gdb), closeDB, nil
}

func openCache(ctx context.Context, cfg *config.Config, log *slog.Logger) (cache.Cache, func(), error) {
	if cfg.Redis.Addr == "" {
		return cache.Nop{}, func() {}, nil
	}
	rc, err := cache.Dial(ctx, cfg.Redis, log)
	if err != nil {
		return nil, nil, err
	}
	closeRedis := func() {
		if err := rc.Close(); err != nil {
			log.Error("close redis", logging.Err(err))
		}
	}
	return rc, closeRedis, nil
}

func openBlobs(ctx context.Context, cfg config.Asset) (assets.Store, error) {
	if cfg.Backend == "s3" {
		s3, err := assets.NewS3Store(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return s3, nil
	}
	disk, err := assets.NewDiskStore(cfg.UploadDir)
	if err != nil {
		return nil, err
	}
	return disk, nil
}
