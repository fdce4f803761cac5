package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"chopmate/internal/config"
	"chopmate/internal/db"
	"chopmate/internal/importer"
	"chopmate/internal/logging"
	vendorrepo "chopmate/internal/repository/vendor"
	"go.uber.org/zap"
)

func main() {
	var (
		filePath string
		vendorID string
	)
	flag.StringVar(&filePath, "file", "", "Path to menu CSV")
	flag.StringVar(&vendorID, "vendor", "", "Vendor id to import the menu into")
	flag.Parse()

	if filePath == "" || vendorID == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.FromEnv()
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat, "importer")
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString, logger)
	if err != nil {
		logger.Fatal("connect db", zap.Error(err))
	}
	defer pool.Close()

	vendors := vendorrepo.NewPostgres(pool, logger)
	v, err := vendors.GetByID(ctx, vendorID)
	if err != nil {
		logger.Fatal("lookup vendor", zap.String("vendor_id", vendorID), zap.Error(err))
	}

	f, err := os.Open(filePath)
	if err != nil {
		logger.Fatal("open file", zap.Error(err))
	}
	defer f.Close()

	start := time.Now()
	count, err := importer.NewCSVImporter(f, vendors, v.ID).Run(ctx)
	if err != nil {
		logger.Fatal("import failed", zap.Int("imported", count), zap.Error(err))
	}

	logger.Info("menu imported",
		zap.Int("items", count),
		zap.String("vendor", v.Name),
		zap.Duration("took", time.Since(start).Truncate(time.Millisecond)))
}
