package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	httpctx "github.com/streamtube/streamtube-server/internal/api/http/context"
	"github.com/streamtube/streamtube-server/internal/api/http/handler"
	"github.com/streamtube/streamtube-server/internal/api/http/router"
	httpServer "github.com/streamtube/streamtube-server/internal/api/http/server"
	"github.com/streamtube/streamtube-server/internal/config"
	"github.com/streamtube/streamtube-server/internal/logger"
	"github.com/streamtube/streamtube-server/internal/model"
	"github.com/streamtube/streamtube-server/internal/password"
	"github.com/streamtube/streamtube-server/internal/repository/postgres"
	"github.com/streamtube/streamtube-server/internal/server"
	"github.com/streamtube/streamtube-server/internal/service"
	storage "github.com/streamtube/streamtube-server/internal/storage/minio"
	"github.com/streamtube/streamtube-server/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}
	defer db.Close()

	userRepo := postgres.NewUserRepository(db)
	sequenceRepo := postgres.NewSequenceRepository(db)
	videoRepo := postgres.NewVideoRepository(db)
	subscriptionRepo := postgres.NewSubscriptionRepository(db)

	tokenManager := token.NewJWT(
		cfg.Auth.AccessTokenSecret,
		cfg.Auth.RefreshTokenSecret,
		time.Duration(cfg.Auth.AccessTokenTTLMin)*time.Minute,
		time.Duration(cfg.Auth.RefreshTokenTTLDay)*24*time.Hour,
	)
	hasher := password.NewHasher(cfg.Auth.BcryptCost)
	ctxMgr := httpctx.NewManager()

	minioClient, err := minio.New(cfg.Storage.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Storage.AccessKey, cfg.Storage.SecretKey, ""),
		Secure: cfg.Storage.UseSSL,
	})
	if err != nil {
		logger.Fatal("failed to create minio client", "error", err)
	}
	storageClient, err := storage.NewClient(ctx, minioClient, cfg.Storage.Bucket)
	if err != nil {
		logger.Fatal("failed to initialize storage client", "error", err)
	}

	authService := service.NewAuth(userRepo, sequenceRepo, hasher, tokenManager, storageClient, logger)
	userService := service.NewUser(userRepo, subscriptionRepo, storageClient, logger)
	videoService := service.NewVideo(videoRepo, storageClient, logger)

	authHandler := handler.NewAuth(authService, ctxMgr, logger)
	userHandler := handler.NewUser(userService, ctxMgr, logger)
	videoHandler := handler.NewVideo(videoService, ctxMgr, logger)

	apiHandler := router.New(authHandler, userHandler, videoHandler, tokenManager, ctxMgr, logger)
	srv := httpServer.NewHTTPServer(fmt.Sprintf(":%s", cfg.HTTP.Port), apiHandler)

	var sl model.SecurityLayer

	if cfg.HTTP.EnableHTTPS {
		sl = server.NewTLSListener(cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)
	} else {
		sl = server.NewPlainListener()
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func(s model.Server) {
		defer wg.Done()
		logger.Info("Starting server on", "address", s.Address())
		err := s.Start(sl)
		if err != nil {
			logger.Error("failed to start server", "error", err)
		}
	}(srv)

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", srv.Address())
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
