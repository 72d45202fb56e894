// Package main is the entry point for the wikiqa server and CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"wikiqa/internal/cache"
	"wikiqa/internal/config"
	"wikiqa/internal/db"
	"wikiqa/internal/history"
	"wikiqa/internal/qa"
	redisdb "wikiqa/internal/redis"
	"wikiqa/internal/wiki"
)

// errBannerFailure reports that a command finished but showed a warning or
// error banner. main maps it to exit status 2.
var errBannerFailure = errors.New("request did not produce an answer")

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wikiqa",
		Short: "Extractive question answering over Wikipedia or your own text",
		Long: `wikiqa answers questions about a passage with an extractive QA model.
The passage is either text you provide or a short summary fetched from
Wikipedia. Run "wikiqa serve" for the web page, or use the ask and wiki
subcommands from a terminal.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().String("config", "config.json", "path to the JSON config file")
	cmd.AddCommand(newServeCmd(), newAskCmd(), newWikiCmd())
	return cmd
}

// services holds everything a subcommand may need, built once from config.
type services struct {
	cfg     *config.Config
	cache   cache.Cache
	answers *qa.Service
	wiki    *wiki.Service
	history *history.Store
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}
	return cfg, nil
}

func buildServices(ctx context.Context, cfg *config.Config) (*services, error) {
	if err := db.Init(cfg); err != nil {
		return nil, fmt.Errorf("DB init error: %w", err)
	}
	c := redisdb.NewCache(ctx, cfg)
	answers, err := qa.NewServiceFromConfig(cfg, c)
	if err != nil {
		return nil, err
	}
	ttl := time.Duration(cfg.Cache.TTLSeconds) * time.Second
	return &services{
		cfg:     cfg,
		cache:   c,
		answers: answers,
		wiki:    wiki.NewService(wiki.NewClient(cfg.Wikipedia), c, ttl),
		history: history.NewStore(db.DB),
	}, nil
}

func main() {
	err := newRootCmd().Execute()
	switch {
	case err == nil:
	case errors.Is(err, errBannerFailure):
		os.Exit(2)
	default:
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}
