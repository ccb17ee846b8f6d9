package cli

import (
	"github.com/spf13/cobra"

	"librarydesk/internal/lending"
)

func newMemberCmd(lib *lending.Library) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "member",
		Short: "Look at a member's loans and history",
	}

	cmd.AddCommand(newMemberBooksCmd(lib))
	cmd.AddCommand(newMemberTransactionsCmd(lib))

	return cmd
}

func newMemberBooksCmd(lib *lending.Library) *cobra.Command {
	var out outputOptions

	cmd := &cobra.Command{
		Use:   "books <member-id>",
		Short: "List the books a member currently holds",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := out.resolve(); err != nil {
				return err
			}
			id, err := parseID(args[0], "member")
			if err != nil {
				return err
			}
			views := newBookViews(lib.MemberBorrowedBooks(id))
			return out.render(cmd.OutOrStdout(), views, func(t *table) { bookTable(t, views) })
		},
	}

	out.addFlags(cmd)
	return cmd
}

func newMemberTransactionsCmd(lib *lending.Library) *cobra.Command {
	var out outputOptions

	cmd := &cobra.Command{
		Use:   "transactions <member-id>",
		Short: "List every transaction of a member",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := out.resolve(); err != nil {
				return err
			}
			id, err := parseID(args[0], "member")
			if err != nil {
				return err
			}
			views := newTransactionViews(lib.MemberTransactions(id))
			return out.render(cmd.OutOrStdout(), views, func(t *table) { transactionTable(t, views) })
		},
	}

	out.addFlags(cmd)
	return cmd
}

func newTransactionsCmd(lib *lending.Library) *cobra.Command {
	var out outputOptions

	cmd := &cobra.Command{
		Use:   "transactions",
		Short: "List the full transaction ledger",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := out.resolve(); err != nil {
				return err
			}
			views := newTransactionViews(lib.Transactions())
			return out.render(cmd.OutOrStdout(), views, func(t *table) { transactionTable(t, views) })
		},
	}

	out.addFlags(cmd)
	return cmd
}
