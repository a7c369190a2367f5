package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/bluewave-swim/backoffice/backend/internal/config"
	"github.com/bluewave-swim/backoffice/backend/internal/domain"
	"github.com/bluewave-swim/backoffice/backend/internal/handler"
	"github.com/bluewave-swim/backoffice/backend/internal/metrics"
	"github.com/bluewave-swim/backoffice/backend/internal/repository"
	"github.com/bluewave-swim/backoffice/backend/internal/utils"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	/**********************************************
	 * logger
	 **********************************************/
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	/**********************************************
	 * config
	 **********************************************/
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return
	}

	/**********************************************
	 * database
	 **********************************************/
	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("failed to create database pool", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// sql.Open does not connect, ping to fail fast
	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("failed to connect to database", "error", err)
		return
	}

	if cfg.Database.AutoMigrate {
		if err := repository.RunMigrations(dbpool); err != nil {
			logger.Error("failed to run migrations", "error", err)
			return
		}
	}

	repo := repository.NewRepository(cfg, dbpool)

	/**********************************************
	 * initial admin account
	 **********************************************/
	if err := ensureInitialAdmin(ctx, cfg, repo); err != nil {
		logger.Error("failed to create initial admin", "error", err)
		return
	}

	/**********************************************
	 * rabbitmq
	 **********************************************/
	conn, err := amqp.Dial(cfg.RabbitMQ.DSN)
	if err != nil {
		logger.Error("failed to connect to rabbitmq", "error", err)
		return
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		logger.Error("failed to open channel", "error", err)
		return
	}
	defer ch.Close()

	_, err = ch.QueueDeclare(
		cfg.RabbitMQ.Queue,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		logger.Error("failed to declare queue", "queue", cfg.RabbitMQ.Queue, "error", err)
		return
	}

	/**********************************************
	 * redis
	 **********************************************/
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       0,
	})
	defer rdb.Close()

	redisCtx, redisCancel := context.WithTimeout(context.Background(), time.Duration(cfg.Redis.OperationTimeout)*time.Second)
	defer redisCancel()
	if err := rdb.Ping(redisCtx).Err(); err != nil {
		logger.Error("failed to connect to redis", "error", err)
		return
	}

	/**********************************************
	 * handler
	 **********************************************/
	handler, err := handler.NewHandler(cfg, repo, ch, rdb, metrics.NewManager("swimschool"))
	if err != nil {
		logger.Error("failed to create handler", "error", err)
		return
	}
	handler.RegisterRoutes()

	/**********************************************
	 * http server
	 **********************************************/
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      handler.Mux,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("starting server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped unexpectedly", slog.String("error", err.Error()))
			quit <- syscall.SIGTERM
		}
	}()

	<-quit
	logger.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", slog.String("error", err.Error()))
	}
	logger.Info("server stopped")
}

// ensureInitialAdmin creates the bootstrap account once. Its address is put on
// the admin allow-list so the first login can manage activities.
func ensureInitialAdmin(ctx context.Context, cfg *config.Config, repo *repository.Repository) error {
	if cfg.InitialAdmin.Email == "" {
		return nil
	}

	password := cfg.InitialAdmin.Password
	if password == "" {
		password = utils.GenerateRandomPassword(16)
		slog.Warn("INITIAL_ADMIN_PASSWORD is empty, generated one", "email", cfg.InitialAdmin.Email, "password", password)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := &domain.Account{
		Email:        strings.ToLower(strings.TrimSpace(cfg.InitialAdmin.Email)),
		FullName:     cfg.InitialAdmin.FullName,
		PasswordHash: string(passwordHash),
	}
	if err := repo.CreateAccount(ctx, admin); err != nil {
		var constraintErr *repository.ConstraintError
		if errors.As(err, &constraintErr) && constraintErr.Constraint == "accounts_email_key" {
			slog.Info("initial admin already exists", "email", admin.Email)
		} else {
			return err
		}
	}

	if !cfg.IsAdmin(admin.Email) {
		cfg.AdminEmails = append(cfg.AdminEmails, admin.Email)
	}
	return nil
}
