package cli

import (
	"github.com/spf13/cobra"

	"librarydesk/internal/lending"
	"librarydesk/internal/models"
	"librarydesk/internal/search"
)

func newSearchCmd(lib *lending.Library) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search books and users",
	}

	cmd.AddCommand(newSearchBooksCmd(lib, "title", "Books whose title contains the query", search.BooksByTitle))
	cmd.AddCommand(newSearchBooksCmd(lib, "author", "Books whose author contains the query", search.BooksByAuthor))
	cmd.AddCommand(newSearchBooksCmd(lib, "category", "Books in a category", search.BooksByCategory))
	cmd.AddCommand(newSearchBooksCmd(lib, "isbn", "The book with an exact ISBN", func(books []*models.Book, isbn string) []*models.Book {
		if b, ok := search.BookByISBN(books, isbn); ok {
			return []*models.Book{b}
		}
		return nil
	}))
	cmd.AddCommand(newSearchUserCmd(lib))

	return cmd
}

func newSearchBooksCmd(lib *lending.Library, use, short string, find func([]*models.Book, string) []*models.Book) *cobra.Command {
	var out outputOptions

	cmd := &cobra.Command{
		Use:   use + " <query>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := out.resolve(); err != nil {
				return err
			}
			views := newBookViews(find(lib.Books(), args[0]))
			if len(views) == 0 && out.format == outputTable {
				printf(cmd, "No books found")
				return nil
			}
			return out.render(cmd.OutOrStdout(), views, func(t *table) { bookTable(t, views) })
		},
	}

	out.addFlags(cmd)
	return cmd
}

func newSearchUserCmd(lib *lending.Library) *cobra.Command {
	var out outputOptions

	cmd := &cobra.Command{
		Use:   "user <name>",
		Short: "Users whose name contains the query",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := out.resolve(); err != nil {
				return err
			}
			views := newUserViews(search.UsersByName(lib.Users(), args[0]))
			if len(views) == 0 && out.format == outputTable {
				printf(cmd, "No users found")
				return nil
			}
			return out.render(cmd.OutOrStdout(), views, func(t *table) { userTable(t, views) })
		},
	}

	out.addFlags(cmd)
	return cmd
}
