// Command main fills the database with generated or fixture forum content.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"quorum/internal/bootstrap"
	"quorum/internal/config"
	"quorum/internal/database"
	"quorum/internal/seed"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	defaults := seed.DefaultOptions()
	opts := seed.Options{}
	flag.IntVar(&opts.NumUsers, "users", defaults.NumUsers, "Number of users to create")
	flag.IntVar(&opts.NumQuestions, "questions", defaults.NumQuestions, "Number of questions to create")
	flag.IntVar(&opts.MaxAnswers, "max-answers", defaults.MaxAnswers, "Maximum answers per question")
	flag.Float64Var(&opts.LikeRate, "like-rate", defaults.LikeRate, "Chance that a user likes an answer")
	flag.IntVar(&opts.MaxDays, "days", defaults.MaxDays, "Spread content over this many past days")
	flag.Int64Var(&opts.RandSeed, "rand-seed", 0, "Random seed; 0 picks one from the clock")
	flag.BoolVar(&opts.FastHash, "fast-hash", false, "Hash passwords at the minimum bcrypt cost")
	flag.BoolVar(&opts.Clean, "clean", false, "Delete all existing content first")
	fixtures := flag.String("fixtures", "", "Load a YAML fixture file instead of generating content (\"demo\" for the bundled one)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg.SeedDemoData = false

	ctx := context.Background()
	db, _, err := bootstrap.InitRuntime(ctx, cfg, bootstrap.Options{SkipRedis: true})
	if err != nil {
		return err
	}
	defer func() { _ = database.Close(db) }()

	if *fixtures == "" {
		sum, err := seed.NewSeeder(db, opts).Run(ctx)
		if err != nil {
			return fmt.Errorf("seeding failed: %w", err)
		}
		log.Printf("seeded %s (password %q)", sum, seed.DefaultPassword)
		return nil
	}

	fx, err := loadFixtures(*fixtures)
	if err != nil {
		return err
	}
	if opts.Clean {
		if err := seed.Clean(ctx, db); err != nil {
			return fmt.Errorf("clean: %w", err)
		}
	}
	sum, err := seed.ApplyFixtures(ctx, db, fx, opts.FastHash)
	if err != nil {
		return fmt.Errorf("apply fixtures: %w", err)
	}
	log.Printf("loaded %s from %s", sum, *fixtures)
	return nil
}

func loadFixtures(path string) (*seed.Fixtures, error) {
	if path == "demo" {
		return seed.DemoFixtures()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return seed.LoadFixtures(f)
}
