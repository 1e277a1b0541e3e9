package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"repurposer/internal/fetcher"
	"repurposer/internal/models"
	"repurposer/internal/storage"
	"repurposer/internal/util"

	"github.com/spf13/cobra"
)

const titleWidth = 70

func (a *app) fetchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fetch",
		Short: "Fetch the latest arXiv and Hugging Face papers into the store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			articles := fetcher.New(a.cfg).FetchAll(cmd.Context())
			if err := a.save(cmd, articles); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Found %d new articles\n", len(articles))
			printArticles(cmd.OutOrStdout(), articles)
			return nil
		},
	}
}

func (a *app) searchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search arXiv within the configured category and store the results",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.TrimSpace(strings.Join(args, " "))
			if query == "" {
				return fmt.Errorf("no search query provided")
			}
			articles := fetcher.New(a.cfg).Search(cmd.Context(), query)
			if err := a.save(cmd, articles); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Found %d articles\n", len(articles))
			printArticles(cmd.OutOrStdout(), articles)
			return nil
		},
	}
}

func (a *app) articlesCmd() *cobra.Command {
	var (
		limit  int
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:     "articles",
		Aliases: []string{"ls"},
		Short:   "List stored articles, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()
			articles, err := storage.NewArticleRepo(db).ListArticles(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), articles)
			}
			printArticles(cmd.OutOrStdout(), articles)
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", storage.DefaultArticleLimit, "maximum number of articles")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	return cmd
}

func (a *app) save(cmd *cobra.Command, articles []models.Article) error {
	db, err := a.openDB(cmd.Context())
	if err != nil {
		return err
	}
	defer db.Close()
	repo := storage.NewArticleRepo(db)
	for _, art := range articles {
		if err := repo.SaveArticle(cmd.Context(), art); err != nil {
			return err
		}
	}
	return nil
}

func printArticles(w io.Writer, articles []models.Article) {
	for _, art := range articles {
		fmt.Fprintf(w, "%s  %-11s  %s\n", art.ID, art.Source, util.DisplaySnippet(art.Title, titleWidth))
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
