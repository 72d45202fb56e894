package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"wikiqa/internal/retrieval"
)

func newAskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask",
		Short: "Answer one question about a passage or a Wikipedia term",
		Long: `Ask runs a single question through the same flow as the web page.
Provide the passage with --context (use "-" to read it from stdin) or a
Wikipedia search term with --wiki. The exit status is 2 when the page would
show a warning or error instead of an answer.`,
		RunE: runAsk,
	}
	cmd.Flags().String("context", "", `passage to answer from ("-" reads stdin)`)
	cmd.Flags().String("wiki", "", "Wikipedia search term to fetch the passage")
	cmd.Flags().String("question", "", "question to ask")
	cmd.Flags().Bool("json", false, "print the result as JSON")
	return cmd
}

func runAsk(cmd *cobra.Command, args []string) error {
	passage, _ := cmd.Flags().GetString("context")
	term, _ := cmd.Flags().GetString("wiki")
	question, _ := cmd.Flags().GetString("question")
	asJSON, _ := cmd.Flags().GetBool("json")

	if passage != "" && term != "" {
		return fmt.Errorf("use either --context or --wiki, not both")
	}
	if passage == "-" {
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		passage = string(b)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	svc, err := buildServices(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	var rec retrieval.Recorder
	if svc.history != nil {
		rec = svc.history
	}
	r := retrieval.New(svc.answers, svc.wiki, rec, cfg.UI.Title, cfg.UI.QuestionMaxChars)
	view := r.Evaluate(cmd.Context(), retrieval.Form{
		UseWikipedia: term != "",
		WikiQuery:    term,
		OriginalText: passage,
		Question:     question,
	})

	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(view); err != nil {
			return err
		}
	} else {
		printView(out, view)
	}
	if view.Banner != nil && (view.Banner.Kind == retrieval.BannerError || view.Banner.Kind == retrieval.BannerWarning) {
		return errBannerFailure
	}
	return nil
}

func printView(w io.Writer, v retrieval.View) {
	fmt.Fprintln(w, v.Title)
	if v.Subheader != "" {
		if v.ArticleTitle != "" {
			fmt.Fprintf(w, "%s: %s\n", v.Subheader, v.ArticleTitle)
		} else {
			fmt.Fprintln(w, v.Subheader)
		}
	}
	if v.Paragraph != "" {
		fmt.Fprintf(w, "\n%s\n\n", v.Paragraph)
	}
	if v.Banner != nil {
		fmt.Fprintf(w, "[%s] %s\n", v.Banner.Kind, v.Banner.Text)
	}
}
