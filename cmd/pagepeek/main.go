package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/pagepeek/internal/app"
	"github.com/hyperifyio/pagepeek/internal/report"
)

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	var (
		listenAddr    string
		userAgent     string
		fetchTimeout  time.Duration
		maxBodyBytes  int64
		cacheCapacity int
		configPath    string
		oneShotURL    string
		outputPath    string
		outputPDFPath string
		verbose       bool
	)

	flag.StringVar(&listenAddr, "listen", envOr("PAGEPEEK_LISTEN", app.ListenDefault), "Address for the HTTP server")
	flag.StringVar(&userAgent, "ua", app.UserAgentDefault, "User-Agent header for page fetches")
	flag.DurationVar(&fetchTimeout, "fetch.timeout", app.FetchTimeoutDefault, "Deadline for one page fetch")
	flag.Int64Var(&maxBodyBytes, "fetch.maxBody", app.MaxBodyBytesDefault, "Maximum response body bytes to read")
	flag.IntVar(&cacheCapacity, "cache.capacity", app.CacheCapacityDefault, "Maximum number of cached extraction records")
	flag.StringVar(&configPath, "config", os.Getenv("PAGEPEEK_CONFIG"), "Path to YAML or JSON config file")
	flag.StringVar(&oneShotURL, "url", "", "Fetch a single URL, write a report, and exit instead of serving")
	flag.StringVar(&outputPath, "output", "", "Path for the one-shot Markdown report (default stdout)")
	flag.StringVar(&outputPDFPath, "output.pdf", "", "Optional path for a one-shot PDF report")
	flag.BoolVar(&verbose, "v", false, "Verbose logging")
	flag.Parse()

	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	cfg := app.Config{
		ListenAddr:    listenAddr,
		UserAgent:     userAgent,
		FetchTimeout:  fetchTimeout,
		MaxBodyBytes:  maxBodyBytes,
		CacheCapacity: cacheCapacity,
		URL:           oneShotURL,
		OutputPath:    outputPath,
		OutputPDFPath: outputPDFPath,
		Verbose:       verbose,
	}

	if configPath != "" {
		fc, err := app.LoadConfigFile(configPath)
		if err != nil {
			log.Error().Err(err).Str("path", configPath).Msg("load config file")
			os.Exit(1)
		}
		app.ApplyFileConfig(&cfg, fc)
		if cfg.Verbose {
			zerolog.SetGlobalLevel(zerolog.DebugLevel)
		}
	}

	if err := app.ValidateConfig(cfg); err != nil {
		log.Error().Err(err).Msg("invalid configuration")
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		log.Error().Err(err).Msg("run failed")
		os.Exit(1)
	}
}

func run(cfg app.Config) error {
	ctx := context.Background()
	a := app.New(cfg)

	if cfg.URL == "" {
		return a.ListenAndServe(ctx)
	}

	// One-shot mode: fetch, extract, report, exit.
	rec, _, err := a.SubmitURL(ctx, cfg.URL, false)
	if err != nil {
		return fmt.Errorf("peek %s: %w", cfg.URL, err)
	}

	md := report.Markdown(rec)
	if cfg.OutputPath == "" {
		fmt.Print(md)
	} else if err := os.WriteFile(cfg.OutputPath, []byte(md), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	} else {
		log.Info().Str("out", cfg.OutputPath).Msg("wrote report")
	}

	if cfg.OutputPDFPath != "" {
		if err := report.WritePDF(rec, cfg.OutputPDFPath); err != nil {
			return fmt.Errorf("write pdf: %w", err)
		}
		log.Info().Str("out", cfg.OutputPDFPath).Msg("wrote pdf report")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
