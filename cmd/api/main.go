package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	"issue-tracker/internal/core/auth"
	"issue-tracker/internal/core/cache"
	"issue-tracker/internal/core/config"
	"issue-tracker/internal/core/database"
	"issue-tracker/internal/core/logger"
	"issue-tracker/internal/core/server"
	"issue-tracker/internal/domain"
	"issue-tracker/internal/query"
	"issue-tracker/internal/repo"
	"issue-tracker/internal/service"
	"issue-tracker/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := newLogger(cfg)
	defer cleanup()
	defer logger.RedirectStdLog(log, zapcore.InfoLevel)()

	// 数据库（失败会直接 Fatal）
	db := mustOpenDB(cfg, log)
	log.Info("database connected", zap.String("driver", cfg.DB.Driver))

	if cfg.DB.AutoMigrate {
		if err := db.AutoMigrate(domain.Models()...); err != nil {
			log.Fatal("automigrate failed", zap.Error(err))
		}
		log.Info("automigrate done")
	}

	jwter := &auth.JWTer{
		Secret:     []byte(cfg.JWT.Secret),
		Issuer:     cfg.JWT.Issuer,
		TTL:        time.Duration(cfg.JWT.AccessTokenTTLMin) * time.Minute,
		RefreshTTL: time.Duration(cfg.JWT.RefreshTokenTTLHour) * time.Hour,
		Leeway:     5 * time.Second,
	}

	users := repo.NewUserRepo(db)
	projects := repo.NewProjectRepo(db)

	var revoked auth.RevocationStore = repo.NewTokenRepo(db)
	var authOpts []service.AuthOption
	if cfg.UseRedis() {
		c := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		defer func() { _ = c.Close() }()
		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		err := c.Ping(pingCtx)
		cancel()
		if err != nil {
			log.Fatal("redis ping", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		}
		log.Info("redis connected", zap.String("addr", cfg.Redis.Addr))
		if cfg.Auth.RevocationStore == "redis" {
			revoked = cache.NewRevocationList(c.RDB)
		}
		if cfg.Auth.UserCacheTTLSec > 0 {
			authOpts = append(authOpts, service.WithUserCache(&cache.Users{
				C:    c,
				TTL:  time.Duration(cfg.Auth.UserCacheTTLSec) * time.Second,
				Repo: users,
			}))
		}
	}
	log.Info("revocation store", zap.String("kind", fmt.Sprintf("%T", revoked)))

	qopts := query.Options{
		Strict:          cfg.Query.Strict,
		DefaultPageSize: cfg.Query.DefaultPageSize,
		MaxPageSize:     cfg.Query.MaxPageSize,
	}
	svc := router.Services{
		Auth:     service.NewAuthService(users, jwter, revoked, log, authOpts...),
		Projects: service.NewProjectService(projects, qopts, log),
		Issues:   service.NewIssueService(repo.NewIssueRepo(db), projects, qopts, log),
	}

	r := router.NewAPIEngine(log, cfg.Limits, svc)

	addr := server.Addr(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	srv := server.BuildServer(
		addr, r,
		time.Duration(cfg.App.HTTP.ReadTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.WriteTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.IdleTimeoutSec)*time.Second,
	)

	// 启动日志
	host4human := cfg.App.HTTP.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + host4human + ":" + fmt.Sprint(cfg.App.HTTP.Port)
	log.Info("issue tracker api starting",
		zap.String("addr", addr),
		zap.String("health", baseURL+"/health"),
		zap.String("metrics", baseURL+"/metrics"),
		zap.String("api", baseURL+"/api"),
	)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("issue tracker api start FAILED", zap.Error(err))
		}
	}()

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Warn("shutdown", zap.Error(err))
	}
	log.Info("issue tracker api stopped gracefully")
}

func newLogger(cfg *config.Config) (*zap.Logger, func()) {
	if !cfg.Log.File.Enable {
		return logger.New(cfg.Log.Level, cfg.Log.JSON)
	}
	return logger.NewWithRotate(cfg.Log.Level, cfg.Log.JSON, logger.FileRotate{
		Filename:   cfg.Log.File.Filename,
		MaxSizeMB:  cfg.Log.File.MaxSizeMB,
		MaxBackups: cfg.Log.File.MaxBackups,
		MaxAgeDays: cfg.Log.File.MaxAgeDays,
		Compress:   cfg.Log.File.Compress,
	})
}

func mustOpenDB(cfg *config.Config, l *zap.Logger) *gorm.DB {
	std, err := logger.ToStdLogger(l.Named("gorm"), zapcore.InfoLevel)
	if err != nil {
		l.Fatal("gorm logger", zap.Error(err))
	}
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
		StdLog:             std,
	})
	if err != nil {
		l.Fatal("db open", zap.Error(err))
	}
	return db
}
