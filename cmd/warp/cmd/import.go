package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fanaberia/fanaberia/internal/markdown"
	"github.com/fanaberia/fanaberia/internal/repository"
	"github.com/fanaberia/fanaberia/internal/service"
)

func ImportCmd(load Loader) *cobra.Command {
	return &cobra.Command{
		Use:       "import <posts|pages> <dir>",
		Short:     "Import markdown files with frontmatter as posts or pages",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"posts", "pages"},
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, dir := args[0], args[1]
			if kind != "posts" && kind != "pages" {
				return fmt.Errorf("unknown import kind %q, want posts or pages", kind)
			}

			cfg := load()
			database, err := openMigratedDB(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer database.Close()

			parser := markdown.NewParser()
			categoryRepository := repository.NewCategoryRepository(database)
			categories := service.NewCategoryService(categoryRepository)
			posts := service.NewPostService(repository.NewPostRepository(database), categoryRepository, parser, cfg.PostsPerPage)
			pages := service.NewPageService(repository.NewPageRepository(database), parser)
			importer := service.NewImportService(parser, posts, categories, pages)

			imported, err := importer.ImportDir(dir, kind)
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d %s\n", imported, kind)
			return err
		},
	}
}
