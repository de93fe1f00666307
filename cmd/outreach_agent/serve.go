package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/cold-connect/internal/fetch"
	"github.com/jonathan/cold-connect/internal/resume"
	"github.com/jonathan/cold-connect/internal/server"
	"github.com/jonathan/cold-connect/internal/server/ratelimit"
)

var (
	serveAddr       string
	serveMaxRuns    int
	serveUseBrowser bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes the normalize, resume, job extraction, mail and outreach endpoints.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "Address to listen on")
	serveCmd.Flags().IntVar(&serveMaxRuns, "max-concurrent-runs", 0, "Maximum outreach runs served at once (default 4)")
	serveCmd.Flags().BoolVar(&serveUseBrowser, "use-browser", false, "Use headless browser for SPA sites (requires Chrome)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("addr") || cfg.Addr == "" {
		cfg.Addr = serveAddr
	}
	if cmd.Flags().Changed("max-concurrent-runs") {
		cfg.MaxConcurrentRuns = serveMaxRuns
	}
	if cmd.Flags().Changed("use-browser") {
		cfg.UseBrowser = serveUseBrowser
	}

	client, err := newLLMClient(context.Background(), cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	srv, err := server.New(server.Options{
		Addr:              cfg.Addr,
		Client:            client,
		Fetcher:           fetch.NewPageFetcher(cfg.UseBrowser, cfg.Verbose),
		Resume:            resume.NewExtractor(cfg.ResumeOptions()),
		RateLimit:         ratelimit.LoadConfig(),
		MaxConcurrentRuns: cfg.MaxConcurrentRuns,
		Verbose:           cfg.Verbose,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
