package cli

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"librarydesk/internal/lending"
	"librarydesk/internal/models"
)

func newBorrowCmd(lib *lending.Library, logger *zap.Logger) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "borrow <book-id> <member-id>",
		Short: "Lend a book to a member",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			bookID, memberID, err := parseBookMember(args)
			if err != nil {
				return err
			}

			tx, err := lib.BorrowBook(cmd.Context(), bookID, memberID, days)
			if err != nil {
				if tx == nil {
					return err
				}
				// the loan was recorded in memory but not saved
				logger.Error("Borrow not persisted", zap.Int64("transaction_id", tx.TransactionID), zap.Error(err))
				return err
			}
			printf(cmd, "Book borrowed successfully. Due date: %s", models.FormatDate(*tx.DueDate))
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 0, "Loan period in days (default from BORROW_PERIOD_DAYS)")
	return cmd
}

func newReturnCmd(lib *lending.Library, logger *zap.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "return <book-id> <member-id>",
		Short: "Take a book back and charge any late fee",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			bookID, memberID, err := parseBookMember(args)
			if err != nil {
				return err
			}

			tx, err := lib.ReturnBook(cmd.Context(), bookID, memberID)
			if err != nil {
				if tx != nil {
					logger.Error("Return not persisted", zap.Int64("transaction_id", tx.TransactionID), zap.Error(err))
				}
				return err
			}
			if tx.FineAmount.IsPositive() {
				printf(cmd, "Book returned. Fine: $%s", tx.FineAmount.StringFixed(2))
			} else {
				printf(cmd, "Book returned successfully")
			}
			return nil
		},
	}
}

func newPayFineCmd(lib *lending.Library, logger *zap.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "pay-fine <member-id> <amount>",
		Short: "Record a fine payment from a member",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			memberID, err := parseID(args[0], "member")
			if err != nil {
				return err
			}
			amount, err := decimal.NewFromString(args[1])
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", args[1], err)
			}

			remaining, err := lib.PayFine(cmd.Context(), memberID, amount)
			if err != nil {
				if lending.KindOf(err) == lending.KindStorage {
					logger.Error("Payment not persisted", zap.Int64("member_id", memberID), zap.Error(err))
				}
				return err
			}
			printf(cmd, "Payment successful. Remaining fine: $%s", remaining.StringFixed(2))
			return nil
		},
	}
}

func newExtendCmd(lib *lending.Library) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "extend <book-id> <member-id>",
		Short: "Push back the due date of an open loan",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			bookID, memberID, err := parseBookMember(args)
			if err != nil {
				return err
			}

			tx, err := lib.ExtendLoan(cmd.Context(), bookID, memberID, days)
			if err != nil {
				return err
			}
			printf(cmd, "Loan extended. New due date: %s", models.FormatDate(*tx.DueDate))
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 7, "Days to add to the due date")
	return cmd
}

func parseBookMember(args []string) (bookID, memberID int64, err error) {
	if bookID, err = parseID(args[0], "book"); err != nil {
		return 0, 0, err
	}
	if memberID, err = parseID(args[1], "member"); err != nil {
		return 0, 0, err
	}
	return bookID, memberID, nil
}
