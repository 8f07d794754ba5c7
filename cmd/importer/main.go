package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"game-market/internal/config"
	"game-market/internal/db"
	"game-market/internal/importer"
	"game-market/internal/repository/game"
)

func main() {
	var filePath string
	flag.StringVar(&filePath, "file", "", "Path to the game catalogue CSV")
	flag.Parse()

	if filePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[importer] ", log.LstdFlags|log.LUTC|log.Lshortfile)
	ctx := context.Background()

	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	f, err := os.Open(filePath)
	if err != nil {
		logger.Fatalf("open file: %v", err)
	}
	defer f.Close()

	imp := importer.NewCSVImporter(f, game.NewPostgres(pool))

	start := time.Now()
	count, err := imp.Run(ctx)
	if err != nil {
		logger.Fatalf("import failed: %v", err)
	}

	fmt.Printf("Imported %d games in %s\n", count, time.Since(start).Truncate(time.Millisecond))
}
