package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/giftregistry/backend/config"
	"github.com/giftregistry/backend/internal/domain"
	"github.com/giftregistry/backend/internal/infrastructure/fetcher"
	"github.com/giftregistry/backend/internal/usecase"
	"github.com/giftregistry/backend/pkg/logger"
)

var (
	extractTimeout  time.Duration
	extractNoDirect bool
	extractBasic    bool
	extractVerbose  bool
)

// extractCmd creates the "extract" subcommand.
func extractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract [url]...",
		Short: "Extract product details from one or more product URLs",
		Long: `Run the extraction pipeline for each URL and print one JSON result per line.

Every URL produces a result: when the page cannot be fetched or has no
title, details are derived from the URL itself.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runExtract,
	}

	cmd.Flags().DurationVar(&extractTimeout, "timeout", 0, "per-request timeout (default from config)")
	cmd.Flags().BoolVar(&extractNoDirect, "no-direct", false, "skip the direct fetch and use proxies only")
	cmd.Flags().BoolVar(&extractBasic, "basic", false, "derive details from the URL only, without network access")
	cmd.Flags().BoolVarP(&extractVerbose, "verbose", "v", false, "log transport attempts to stderr")

	return cmd
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	zlog := zap.NewNop()
	if extractVerbose {
		// stdout carries the JSON results
		zlog, err = logger.NewWithWriter("registryctl", "debug", "console", zapcore.AddSync(cmd.ErrOrStderr()))
		if err != nil {
			return err
		}
		defer zlog.Sync()
	}

	opts := fetcher.Options{
		Timeout:           cfg.Scraper.Timeout,
		UserAgent:         cfg.Scraper.UserAgent,
		EnableDirect:      cfg.Scraper.EnableDirect && !extractNoDirect,
		Proxies:           cfg.Scraper.Proxies,
		MaxBodyBytes:      cfg.Scraper.MaxBodyBytes,
		RequestsPerSecond: cfg.Scraper.RequestsPerSecond,
		Burst:             cfg.Scraper.Burst,
	}
	if extractTimeout > 0 {
		opts.Timeout = extractTimeout
	}

	scraper := usecase.NewScrapingService(fetcher.New(opts, zlog, nil), zlog, nil)
	encoder := json.NewEncoder(cmd.OutOrStdout())

	for _, rawURL := range args {
		zlog.Debug("Extracting product", zap.String("url", rawURL), zap.Bool("basic", extractBasic))

		var result domain.ScrapingResult
		if extractBasic {
			result = scraper.BasicProductInfo(rawURL)
		} else {
			result = scraper.ExtractProductInfo(context.Background(), rawURL)
		}

		if err := encoder.Encode(struct {
			URL string `json:"url"`
			domain.ScrapingResult
		}{rawURL, result}); err != nil {
			return fmt.Errorf("write result: %w", err)
		}
	}

	return nil
}
