package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"librarydesk/internal/lending"
	"librarydesk/internal/search"
)

func newBookCmd(lib *lending.Library) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "book",
		Short: "Manage the book catalog",
	}

	cmd.AddCommand(newBookAddCmd(lib))
	cmd.AddCommand(newBookRemoveCmd(lib))
	cmd.AddCommand(newBookUpdateCmd(lib))
	cmd.AddCommand(newBookListCmd(lib))
	cmd.AddCommand(newBookShowCmd(lib))
	cmd.AddCommand(newBookImportCmd(lib))

	return cmd
}

func newBookAddCmd(lib *lending.Library) *cobra.Command {
	var title, author, isbn, category, year string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a book to the catalog",
		Example: `  librarydesk book add --title "The Go Programming Language" \
    --author "Donovan, Kernighan" --isbn 978-0134190440 --category Programming --year 2015`,
		RunE: func(cmd *cobra.Command, args []string) error {
			book, err := lib.AddBook(cmd.Context(), title, author, isbn, category, year)
			if err != nil {
				return err
			}
			printf(cmd, "Book added successfully with ID: %d", book.BookID)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Book title")
	cmd.Flags().StringVar(&author, "author", "", "Book author")
	cmd.Flags().StringVar(&isbn, "isbn", "", "ISBN-10 or ISBN-13")
	cmd.Flags().StringVar(&category, "category", "", "Book category")
	cmd.Flags().StringVar(&year, "year", "", "Publication year")

	return cmd
}

func newBookRemoveCmd(lib *lending.Library) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <book-id>",
		Short: "Remove a book that is not on loan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "book")
			if err != nil {
				return err
			}
			if err := lib.RemoveBook(cmd.Context(), id); err != nil {
				return err
			}
			printf(cmd, "Book removed successfully")
			return nil
		},
	}
}

func newBookUpdateCmd(lib *lending.Library) *cobra.Command {
	var title, author, category string

	cmd := &cobra.Command{
		Use:   "update <book-id>",
		Short: "Edit the title, author or category of a book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "book")
			if err != nil {
				return err
			}

			var upd lending.BookUpdate
			if cmd.Flags().Changed("title") {
				upd.Title = &title
			}
			if cmd.Flags().Changed("author") {
				upd.Author = &author
			}
			if cmd.Flags().Changed("category") {
				upd.Category = &category
			}

			book, err := lib.UpdateBook(cmd.Context(), id, upd)
			if err != nil {
				return err
			}
			printf(cmd, "Book %d updated: %s by %s (%s)", book.BookID, book.Title, book.Author, book.Category)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&author, "author", "", "New author")
	cmd.Flags().StringVar(&category, "category", "", "New category")

	return cmd
}

func newBookListCmd(lib *lending.Library) *cobra.Command {
	var (
		out       outputOptions
		available bool
		borrowed  bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List books in the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := out.resolve(); err != nil {
				return err
			}
			if available && borrowed {
				return errors.New("--available and --borrowed are mutually exclusive")
			}

			books := lib.Books()
			switch {
			case available:
				books = search.AvailableBooks(books)
			case borrowed:
				books = search.BorrowedBooks(books)
			}

			views := newBookViews(books)
			return out.render(cmd.OutOrStdout(), views, func(t *table) { bookTable(t, views) })
		},
	}

	out.addFlags(cmd)
	cmd.Flags().BoolVar(&available, "available", false, "Only books on the shelf")
	cmd.Flags().BoolVar(&borrowed, "borrowed", false, "Only books out on loan")

	return cmd
}

func newBookShowCmd(lib *lending.Library) *cobra.Command {
	var out outputOptions

	cmd := &cobra.Command{
		Use:   "show <book-id>",
		Short: "Show one book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := out.resolve(); err != nil {
				return err
			}
			id, err := parseID(args[0], "book")
			if err != nil {
				return err
			}
			book, err := lib.Book(id)
			if err != nil {
				return err
			}

			view := newBookView(book)
			return out.render(cmd.OutOrStdout(), view, func(t *table) { bookTable(t, []bookView{view}) })
		},
	}

	out.addFlags(cmd)
	return cmd
}

// catalogFile is the layout accepted by "book import"
type catalogFile struct {
	Books []struct {
		Title    string `yaml:"title"`
		Author   string `yaml:"author"`
		ISBN     string `yaml:"isbn"`
		Category string `yaml:"category"`
		Year     any    `yaml:"year"`
	} `yaml:"books"`
}

func newBookImportCmd(lib *lending.Library) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.yaml>",
		Short: "Add every book listed in a YAML catalog file",
		Long: `Add books in bulk from a YAML file of the form:

  books:
    - title: Dune
      author: Frank Herbert
      isbn: "9780441172719"
      category: Fiction
      year: 1965

Invalid entries are reported and skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read catalog: %w", err)
			}

			var catalog catalogFile
			if err := yaml.Unmarshal(data, &catalog); err != nil {
				return fmt.Errorf("failed to parse catalog: %w", err)
			}

			added := 0
			for i, entry := range catalog.Books {
				year := ""
				if entry.Year != nil {
					year = fmt.Sprint(entry.Year)
				}
				book, err := lib.AddBook(cmd.Context(), entry.Title, entry.Author, entry.ISBN, entry.Category, year)
				if err != nil {
					if lending.KindOf(err) == lending.KindStorage {
						return err
					}
					fmt.Fprintf(cmd.ErrOrStderr(), "entry %d (%q): %v\n", i+1, entry.Title, err)
					continue
				}
				added++
				printf(cmd, "Book added successfully with ID: %d", book.BookID)
			}

			printf(cmd, "Imported %d of %d books", added, len(catalog.Books))
			return nil
		},
	}
}
