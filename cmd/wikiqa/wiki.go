package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newWikiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "wiki TERM...",
		Short: "Print the Wikipedia summary the page would use for TERM",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			svc, err := buildServices(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			article, err := svc.wiki.Paragraph(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, article.Title)
			fmt.Fprintln(out, article.Text)
			return nil
		},
	}
}
