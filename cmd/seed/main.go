// Command seed fills the configured database with development content.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"inkwell/internal/cache"
	"inkwell/internal/config"
	"inkwell/internal/database"
	"inkwell/internal/observability"
	"inkwell/internal/seed"

	"github.com/joho/godotenv"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	opts := seed.DefaultOptions()
	flag.IntVar(&opts.Users, "users", opts.Users, "number of accounts to create")
	flag.IntVar(&opts.PostsPerUser, "posts", opts.PostsPerUser, "posts per account")
	flag.IntVar(&opts.CommentsPerPost, "comments", opts.CommentsPerPost, "comments per post")
	flag.Int64Var(&opts.Seed, "seed", opts.Seed, "random seed for reproducible content")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	shutdown, err := observability.InitTracing(observability.TracingConfig{
		ServiceName:  "inkwell-seed",
		Environment:  cfg.Env,
		Enabled:      cfg.TracingEnabled,
		Exporter:     cfg.TracingExport,
		OTLPEndpoint: cfg.OTLPEndpoint,
		SamplerRatio: cfg.SamplerRatio,
	})
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() { _ = shutdown(context.Background()) }()

	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	cache.InitRedis(cfg.RedisURL)

	ctx := observability.WithCorrelationID(context.Background(), observability.GenerateCorrelationID())
	if err := seed.Run(ctx, db, opts); err != nil {
		return err
	}

	log.Printf("seeded %d users with the password %q", opts.Users, seed.SeedPassword)
	return nil
}
