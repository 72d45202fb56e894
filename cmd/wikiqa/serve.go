package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"wikiqa/internal/api"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the web page and JSON API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			svc, err := buildServices(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			r := api.SetupRouter(cfg, api.Deps{
				Answers: svc.answers,
				Wiki:    svc.wiki,
				History: svc.history,
				Breaker: svc.answers.Breaker(),
				Cache:   svc.cache,
			})
			addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
			fmt.Printf("Starting server on %s%s\n", addr, cfg.Server.Subpath)
			if err := r.Run(addr); err != nil {
				return fmt.Errorf("server error: %w", err)
			}
			return nil
		},
	}
}
