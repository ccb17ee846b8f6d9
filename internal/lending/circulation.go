package lending

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"librarydesk/internal/models"
)

// BorrowBook lends a book to a member for period days (the configured default when period <= 0).
// Checks run in a fixed order and the first failure is returned.
// If only the final save fails, the loan is kept and returned together with a storage error.
func (l *Library) BorrowBook(ctx context.Context, bookID, memberID int64, period int) (*models.BorrowTransaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if period <= 0 {
		period = l.cfg.BorrowPeriod
	}

	_, book := l.findBook(bookID)
	if book == nil {
		return nil, fail(ErrBookNotFound, "")
	}
	member := l.findMember(memberID)
	if member == nil {
		return nil, fail(ErrMemberNotFound, "")
	}
	if !member.IsActive {
		return nil, fail(ErrMemberInactive, "")
	}
	if !member.CanBorrowMore() {
		return nil, fail(ErrBorrowLimitReached, "Member has reached maximum borrow limit (%d books)", member.MaxBooks)
	}
	if member.HasFines() {
		return nil, fail(ErrUnpaidFines, "Member has unpaid fines: $%s", member.FineAmount.StringFixed(2))
	}
	if !book.IsAvailable() {
		return nil, fail(ErrBookUnavailable, "")
	}

	// both cannot fail after the checks above
	_ = book.Lend(memberID)
	_ = member.HoldBook(bookID)
	tx := models.NewBorrowTransaction(l.newTransactionID(), bookID, memberID, l.now(), period)
	l.transactions = append(l.transactions, tx)

	l.logger.Info("Book borrowed",
		zap.Int64("book_id", bookID),
		zap.Int64("member_id", memberID),
		zap.Int64("transaction_id", tx.TransactionID),
		zap.String("due_date", models.FormatDate(*tx.DueDate)))

	if err := l.persist(ctx); err != nil {
		return tx.Copy(), err
	}
	return tx.Copy(), nil
}

// ReturnBook takes a book back from the member who holds it and charges any late fee.
// A failed check leaves every record untouched.
func (l *Library) ReturnBook(ctx context.Context, bookID, memberID int64) (*models.ReturnTransaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	_, book := l.findBook(bookID)
	if book == nil {
		return nil, fail(ErrBookNotFound, "")
	}
	member := l.findMember(memberID)
	if member == nil {
		return nil, fail(ErrMemberNotFound, "")
	}
	if book.IsAvailable() {
		return nil, fail(ErrBookNotCurrentlyBorrowed, "")
	}
	if *book.BorrowerID != memberID {
		return nil, fail(ErrWrongBorrower, "")
	}
	borrow := l.openBorrow(bookID, memberID)
	if borrow == nil {
		return nil, fail(ErrNoMatchingBorrowRecord, "")
	}

	today := l.now()
	ret := models.NewReturnTransaction(l.newTransactionID(), today, borrow, l.cfg.FinePerDay)
	if ret.FineAmount.IsPositive() {
		_ = member.AddFine(ret.FineAmount)
	}
	borrow.MarkReturned(today)
	_ = book.Release()
	member.ReleaseBook(bookID)
	l.transactions = append(l.transactions, ret)

	l.logger.Info("Book returned",
		zap.Int64("book_id", bookID),
		zap.Int64("member_id", memberID),
		zap.Int64("borrow_transaction_id", borrow.TransactionID),
		zap.String("fine", ret.FineAmount.StringFixed(2)))

	result := ret.CloneTransaction().(*models.ReturnTransaction)
	if err := l.persist(ctx); err != nil {
		return result, err
	}
	return result, nil
}

// PayFine reduces a member's outstanding fine and returns the remaining balance.
// Overpayment is rejected rather than clamped.
func (l *Library) PayFine(ctx context.Context, memberID int64, amount decimal.Decimal) (decimal.Decimal, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	member := l.findMember(memberID)
	if member == nil {
		return decimal.Zero, fail(ErrMemberNotFound, "")
	}
	if !amount.IsPositive() {
		return member.FineAmount, fail(ErrInvalidAmount, "")
	}
	if !models.WholeCents(amount) {
		return member.FineAmount, fail(ErrInvalidAmount, "Payment must be in whole cents")
	}
	if amount.GreaterThan(member.FineAmount) {
		return member.FineAmount, fail(ErrOverpaymentRejected, "Payment amount exceeds fine amount ($%s)", member.FineAmount.StringFixed(2))
	}
	if err := member.PayFine(amount); err != nil {
		return member.FineAmount, fail(ErrInvalidAmount, "")
	}

	l.logger.Info("Fine paid",
		zap.Int64("member_id", memberID),
		zap.String("amount", amount.StringFixed(2)),
		zap.String("remaining", member.FineAmount.StringFixed(2)))

	if err := l.persist(ctx); err != nil {
		return member.FineAmount, err
	}
	return member.FineAmount, nil
}

// ExtendLoan moves the due date of the member's open loan of a book out by days
func (l *Library) ExtendLoan(ctx context.Context, bookID, memberID int64, days int) (*models.BorrowTransaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if days <= 0 {
		return nil, fail(ErrInvalidInput, "Extension must be a positive number of days")
	}
	borrow := l.openBorrow(bookID, memberID)
	if borrow == nil {
		return nil, fail(ErrNoMatchingBorrowRecord, "")
	}
	borrow.Extend(days)

	l.logger.Info("Loan extended",
		zap.Int64("transaction_id", borrow.TransactionID),
		zap.Int("days", days),
		zap.String("due_date", models.FormatDate(*borrow.DueDate)))

	if err := l.persist(ctx); err != nil {
		return borrow.Copy(), err
	}
	return borrow.Copy(), nil
}

// SetUserActive enables or disables a user account
func (l *Library) SetUserActive(ctx context.Context, personID int64, active bool) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	_, user := l.findUser(personID)
	if user == nil {
		return fail(ErrUserNotFound, "")
	}
	user.Base().IsActive = active

	l.logger.Info("User status changed", zap.Int64("person_id", personID), zap.Bool("active", active))
	return l.persist(ctx)
}
