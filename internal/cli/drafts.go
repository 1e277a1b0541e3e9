package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"repurposer/internal/generator"
	"repurposer/internal/providers"
	"repurposer/internal/storage"
	"repurposer/internal/util"

	"github.com/spf13/cobra"
)

func (a *app) newGenerator() (*generator.Generator, error) {
	llm, err := providers.NewLLMProvider(a.cfg)
	if err != nil {
		return nil, err
	}
	return generator.New(llm, a.cfg.LLMMaxTokens), nil
}

func (a *app) generateCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "generate <article-id>",
		Short: "Generate and store a blog draft for one article",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			db, err := a.openDB(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			article, err := storage.NewArticleRepo(db).GetArticle(ctx, strings.TrimSpace(args[0]))
			if errors.Is(err, util.ErrNotFound) {
				return fmt.Errorf("article not found: %s", args[0])
			}
			if err != nil {
				return err
			}
			gen, err := a.newGenerator()
			if err != nil {
				return err
			}
			draft, err := gen.Generate(ctx, article)
			if err != nil {
				return err
			}
			id, err := storage.NewDraftRepo(db).SaveDraft(ctx, draft, article.ID)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if out != "" {
				if err := util.WriteTextAtomic(out, draft.Content); err != nil {
					return err
				}
				fmt.Fprintf(w, "Draft %d written to %s (%s, %d tokens)\n", id, out, draft.Model, draft.TokensUsed)
				return nil
			}
			fmt.Fprintf(w, "Draft %d (%s, %d tokens)\n\n%s\n", id, draft.Model, draft.TokensUsed, draft.Content)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "write the draft markdown to this file")
	return cmd
}

func (a *app) draftsCmd() *cobra.Command {
	var (
		limit  int
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "drafts",
		Short: "List stored drafts, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()
			drafts, err := storage.NewDraftRepo(db).ListDrafts(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), drafts)
			}
			for _, d := range drafts {
				fmt.Fprintf(cmd.OutOrStdout(), "%4d  %s  %s\n", d.ID, d.GeneratedAt.Format("2006-01-02 15:04"), util.DisplaySnippet(d.SourceTitle, titleWidth))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", storage.DefaultDraftLimit, "maximum number of drafts")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	return cmd
}

func (a *app) draftCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "draft <id>",
		Short: "Print one stored draft",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("draft not found: %s", args[0])
			}
			db, err := a.openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()
			d, err := storage.NewDraftRepo(db).GetDraft(cmd.Context(), id)
			if errors.Is(err, util.ErrNotFound) {
				return fmt.Errorf("draft not found: %d", id)
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), d.Content)
			return nil
		},
	}
}

func (a *app) checkLLMCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check-llm",
		Short: "Verify the configured LLM provider accepts the credential",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			gen, err := a.newGenerator()
			if err != nil {
				return err
			}
			ok, msg := gen.CheckConnection(cmd.Context())
			if !ok {
				return errors.New(msg)
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}
}
