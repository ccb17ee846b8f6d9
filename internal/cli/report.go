package cli

import (
	"github.com/spf13/cobra"

	"librarydesk/internal/lending"
	"librarydesk/internal/report"
)

func newReportCmd(lib *lending.Library) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print circulation reports",
	}

	cmd.AddCommand(newMostBorrowedCmd(lib))
	cmd.AddCommand(newOverdueCmd(lib))
	cmd.AddCommand(newFinesCmd(lib))
	cmd.AddCommand(newCategoryCmd(lib))
	cmd.AddCommand(newActiveMembersCmd(lib))

	return cmd
}

func newMostBorrowedCmd(lib *lending.Library) *cobra.Command {
	var (
		out outputOptions
		top int
	)

	cmd := &cobra.Command{
		Use:   "most-borrowed",
		Short: "Books ranked by how often they were lent",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := out.resolve(); err != nil {
				return err
			}
			views := newBookViews(report.MostBorrowed(lib.Books(), top))
			return out.render(cmd.OutOrStdout(), views, func(t *table) {
				t.header("RANK", "ID", "TITLE", "AUTHOR", "BORROWS")
				for i, b := range views {
					t.row(i+1, b.BookID, truncate(b.Title, 40), truncate(b.Author, 25), b.TotalBorrows)
				}
			})
		},
	}

	out.addFlags(cmd)
	cmd.Flags().IntVar(&top, "top", 10, "Number of books to show (negative for all)")
	return cmd
}

func newOverdueCmd(lib *lending.Library) *cobra.Command {
	var out outputOptions

	cmd := &cobra.Command{
		Use:   "overdue",
		Short: "Open loans past their due date",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := out.resolve(); err != nil {
				return err
			}
			entries := report.Overdue(lib.Transactions(), lib.Books(), lib.Users(), lib.Today())
			views := newOverdueViews(entries)
			return out.render(cmd.OutOrStdout(), views, func(t *table) {
				t.header("TRANSACTION", "BOOK", "TITLE", "MEMBER", "NAME", "DUE", "DAYS OVERDUE")
				for _, v := range views {
					t.row(v.TransactionID, v.BookID, truncate(v.Title, 40), v.MemberID, v.MemberName, v.DueDate, v.DaysOverdue)
				}
			})
		},
	}

	out.addFlags(cmd)
	return cmd
}

func newFinesCmd(lib *lending.Library) *cobra.Command {
	var out outputOptions

	cmd := &cobra.Command{
		Use:   "fines",
		Short: "Outstanding fines per member",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := out.resolve(); err != nil {
				return err
			}
			view := newFineReportView(report.FineRevenue(lib.Users()))
			return out.render(cmd.OutOrStdout(), view, func(t *table) {
				t.header("MEMBER", "NAME", "FINE")
				for _, m := range view.Members {
					t.row(m.MemberID, m.Name, "$"+m.FineAmount)
				}
				t.row("", "TOTAL", "$"+view.Total)
			})
		},
	}

	out.addFlags(cmd)
	return cmd
}

func newCategoryCmd(lib *lending.Library) *cobra.Command {
	var out outputOptions

	cmd := &cobra.Command{
		Use:   "category",
		Short: "Number of books per category",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := out.resolve(); err != nil {
				return err
			}
			counts := report.ByCategory(lib.Books())
			views := make([]categoryView, 0, len(counts))
			for _, c := range counts {
				views = append(views, categoryView{Category: c.Category, Count: c.Count})
			}
			return out.render(cmd.OutOrStdout(), views, func(t *table) {
				t.header("CATEGORY", "BOOKS")
				for _, v := range views {
					t.row(dash(v.Category), v.Count)
				}
			})
		},
	}

	out.addFlags(cmd)
	return cmd
}

func newActiveMembersCmd(lib *lending.Library) *cobra.Command {
	var out outputOptions

	cmd := &cobra.Command{
		Use:   "active-members",
		Short: "Active members with the number of books they hold",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := out.resolve(); err != nil {
				return err
			}
			members := report.ActiveMembers(lib.Users())
			views := make([]activeMemberView, 0, len(members))
			for _, m := range members {
				views = append(views, activeMemberView{MemberID: m.Member.PersonID, Name: m.Member.Name, BorrowedBooks: m.Books})
			}
			return out.render(cmd.OutOrStdout(), views, func(t *table) {
				t.header("MEMBER", "NAME", "BOOKS")
				for _, v := range views {
					t.row(v.MemberID, v.Name, v.BorrowedBooks)
				}
			})
		},
	}

	out.addFlags(cmd)
	return cmd
}
