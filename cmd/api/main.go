package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	httpadp "proposal-review-service/internal/adapter/http"
	"proposal-review-service/internal/adapter/middleware"
	"proposal-review-service/internal/adapter/repository/mysql"
	"proposal-review-service/internal/config"
	"proposal-review-service/internal/infrastructure/cache"
	"proposal-review-service/internal/infrastructure/db"
	"proposal-review-service/internal/logging"
	"proposal-review-service/internal/notify"
	"proposal-review-service/internal/storage/filestore"
	ucProposal "proposal-review-service/internal/usecase/proposal"
	ucReview "proposal-review-service/internal/usecase/review"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	gdb, err := db.OpenGorm(cfg.MySQLDSN(), cfg.IsProduction())
	if err != nil {
		log.Fatalf("mysql: %v", err)
	}
	if cfg.DBAutoMigrate {
		if err := db.Migrate(gdb); err != nil {
			log.Fatalf("migrate: %v", err)
		}
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		log.Fatalf("mysql handle: %v", err)
	}

	rdb, err := cache.OpenRedis(context.Background(), cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}

	files, err := filestore.NewDisk(cfg.AttachmentsPath)
	if err != nil {
		log.Fatalf("attachments: %v", err)
	}

	var sender notify.Sender = notify.LogSender{Log: logger}
	if cfg.SMTPHost != "" {
		smtp, err := notify.NewSMTPSender(notify.SMTPConfig{
			Host:          cfg.SMTPHost,
			Port:          cfg.SMTPPort,
			User:          cfg.SMTPUser,
			Pass:          cfg.SMTPPass,
			From:          cfg.SMTPFrom,
			SkipTLSVerify: cfg.SMTPSkipTLSVerify,
		})
		if err != nil {
			log.Fatalf("smtp: %v", err)
		}
		sender = smtp
	} else {
		logger.Warn("SMTP_HOST not set, notifications are logged instead of sent")
	}
	dispatcher := notify.NewDispatcher(sender, notify.Options{
		QueueSize:     cfg.NotifyQueueSize,
		FlushInterval: cfg.NotifyFlushInterval,
		BatchSize:     cfg.NotifyBatchSize,
		MaxInFlight:   cfg.NotifyMaxInFlight,
		RatePerSec:    cfg.NotifyRatePerSec,
		MaxAttempts:   cfg.NotifyMaxAttempts,
	}, logger)

	policy, err := ucProposal.ParsePolicy(cfg.DocumentCountPolicy)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	tx := mysql.NewGormUoW(gdb)
	repos := tx.Repos()
	proposals := ucProposal.NewUsecase(repos, tx, files, dispatcher, ucProposal.Options{
		Policy:          policy,
		CodeMaxAttempts: cfg.CodeMaxAttempts,
		ManagerEmails:   cfg.ManagerEmails,
		AdminPanelURL:   cfg.AdminPanelURL,
	}, logger)
	reviews := ucReview.NewUsecase(repos, tx, dispatcher, logger)

	e := echo.New()
	e.HideBanner = true
	if e.IPExtractor, err = middleware.ClientIPExtractor(cfg.TrustedProxies); err != nil {
		log.Fatalf("config: %v", err)
	}
	e.Validator = httpadp.NewValidator()
	e.Use(echomw.Logger(), echomw.Recover())
	// room for a full set of required documents plus form fields
	e.Use(echomw.BodyLimit(fmt.Sprintf("%dK", cfg.MaxUploadBytes*16/1024)))

	httpadp.Register(e, httpadp.Routes{
		Health: httpadp.NewHandler(map[string]httpadp.Check{
			"mysql": sqlDB.PingContext,
			"redis": cache.Check(rdb),
		}),
		Proposals:    httpadp.NewProposalHandler(proposals, cfg.MaxUploadBytes, logger),
		Reviews:      httpadp.NewReviewHandler(reviews, logger),
		Attachments:  httpadp.NewAttachmentHandler(proposals, logger),
		Redis:        rdb,
		JWTSecret:    cfg.JWTSecret,
		IdempTTL:     time.Duration(cfg.IdempTTLSecs) * time.Second,
		LookupLimit:  cfg.LookupRateLimit,
		LookupWindow: time.Duration(cfg.LookupRateWindowSec) * time.Second,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dispatchCtx, stopDispatch := context.WithCancel(context.Background())
	dispatchDone := make(chan struct{})
	go func() {
		defer close(dispatchDone)
		if err := dispatcher.Run(dispatchCtx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("notification dispatcher stopped", "err", err)
		}
	}()

	addr := ":" + cfg.AppPort
	go func() {
		log.Printf("listening on %s", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", "err", err)
	}

	// requests are drained, so nothing publishes after this point
	stopDispatch()
	<-dispatchDone
	logger.Info("notifications flushed",
		"sent", dispatcher.Sent(), "dropped", dispatcher.Dropped(), "unsent", dispatcher.Pending())

	_ = rdb.Close()
	_ = sqlDB.Close()
}
