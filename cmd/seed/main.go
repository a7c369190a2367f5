package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/bluewave-swim/backoffice/backend/internal/cache"
	"github.com/bluewave-swim/backoffice/backend/internal/config"
	"github.com/bluewave-swim/backoffice/backend/internal/repository"
	"github.com/bluewave-swim/backoffice/backend/internal/seed"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"
)

func main() {
	var (
		op         string
		n          int
		file       string
		season     string
		activityID int64
		domainName string
	)

	flag.StringVar(&op, "op", "", "operation to run (import: load a preference CSV, random: generate submissions)")
	flag.IntVar(&n, "n", 20, "number of random submissions")
	flag.StringVar(&file, "file", "", "CSV file for -op import")
	flag.StringVar(&season, "season", "", "season of the imported submissions")
	flag.Int64Var(&activityID, "activity", 0, "activity id (required for random, optional for import)")
	flag.StringVar(&domainName, "email-domain", "example.com", "mail domain of generated parents")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("failed to create database pool", "error", err)
		os.Exit(1)
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	if cfg.Database.AutoMigrate {
		if err := repository.RunMigrations(dbpool); err != nil {
			logger.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}
	}

	repo := repository.NewRepository(cfg, dbpool)

	// seeded rows must not hide behind cached aggregates
	var writer seed.SubmissionWriter = repo
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       0,
	})
	defer rdb.Close()

	redisCtx, redisCancel := context.WithTimeout(context.Background(), time.Duration(cfg.Redis.OperationTimeout)*time.Second)
	defer redisCancel()
	if err := rdb.Ping(redisCtx).Err(); err != nil {
		logger.Warn("redis unreachable, cached aggregates may be stale until they expire", "error", err)
	} else {
		writer = seed.WithInvalidation(repo, cache.NewAggregateCache(
			rdb,
			time.Duration(cfg.Cache.AggregateTTL)*time.Second,
			time.Duration(cfg.Redis.OperationTimeout)*time.Second,
		))
	}

	switch op {
	case "import":
		if file == "" || season == "" {
			logger.Error("-op import needs -file and -season")
			os.Exit(2)
		}

		f, err := os.Open(file)
		if err != nil {
			logger.Error("failed to open file", "file", file, "error", err)
			os.Exit(1)
		}
		defer f.Close()

		if _, err := seed.Import(context.Background(), writer, f, season, activityID); err != nil {
			logger.Error("import failed", "file", file, "error", err)
			os.Exit(1)
		}
	case "random":
		if activityID <= 0 {
			logger.Error("-op random needs -activity")
			os.Exit(2)
		}

		activity, err := repo.GetActivityByID(context.Background(), activityID)
		if err != nil {
			logger.Error("failed to load activity", "activityID", activityID, "error", err)
			os.Exit(1)
		}

		if _, err := seed.Random(context.Background(), writer, activity, n, domainName); err != nil {
			logger.Error("random seeding failed", "error", err)
			os.Exit(1)
		}
	default:
		logger.Error("unknown operation", "op", op)
		flag.Usage()
		os.Exit(2)
	}
}
