package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType discriminates the transaction variants in stored records
type TransactionType string

const (
	TransactionBorrow TransactionType = "borrow"
	TransactionReturn TransactionType = "return"
)

// Transaction is one of *BorrowTransaction or *ReturnTransaction
type Transaction interface {
	Base() *TransactionBase
	Type() TransactionType
	CloneTransaction() Transaction
	isTransaction()
}

// TransactionBase holds the fields shared by borrow and return records
type TransactionBase struct {
	TransactionID   int64
	BookID          int64
	MemberID        int64
	TransactionDate time.Time
	DueDate         *time.Time
	ReturnDate      *time.Time
	FineAmount      decimal.Decimal
}

func (t *TransactionBase) Base() *TransactionBase { return t }

func (*TransactionBase) isTransaction() {}

func (t TransactionBase) clone() TransactionBase {
	c := t
	if t.DueDate != nil {
		d := *t.DueDate
		c.DueDate = &d
	}
	if t.ReturnDate != nil {
		d := *t.ReturnDate
		c.ReturnDate = &d
	}
	return c
}

// BorrowTransaction records a loan. It stays open until ReturnDate is set.
type BorrowTransaction struct {
	TransactionBase
	BorrowPeriod int
}

// NewBorrowTransaction opens a loan due period days after date
func NewBorrowTransaction(id, bookID, memberID int64, date time.Time, period int) *BorrowTransaction {
	day := Day(date)
	due := day.AddDate(0, 0, period)
	return &BorrowTransaction{
		TransactionBase: TransactionBase{
			TransactionID:   id,
			BookID:          bookID,
			MemberID:        memberID,
			TransactionDate: day,
			DueDate:         &due,
			FineAmount:      decimal.Zero,
		},
		BorrowPeriod: period,
	}
}

func (b *BorrowTransaction) Type() TransactionType { return TransactionBorrow }

// IsOpen reports whether the loan has not been returned yet
func (b *BorrowTransaction) IsOpen() bool {
	return b.ReturnDate == nil
}

// Extend pushes the due date out by days
func (b *BorrowTransaction) Extend(days int) {
	if b.DueDate == nil {
		due := b.TransactionDate.AddDate(0, 0, b.BorrowPeriod)
		b.DueDate = &due
	}
	due := b.DueDate.AddDate(0, 0, days)
	b.DueDate = &due
	b.BorrowPeriod += days
}

// MarkReturned closes the loan
func (b *BorrowTransaction) MarkReturned(date time.Time) {
	d := Day(date)
	b.ReturnDate = &d
}

// IsOverdue reports whether an open loan was due strictly before today
func (b *BorrowTransaction) IsOverdue(today time.Time) bool {
	return b.IsOpen() && b.DueDate != nil && Day(*b.DueDate).Before(Day(today))
}

// DaysOverdue returns how many days past due an open loan is
func (b *BorrowTransaction) DaysOverdue(today time.Time) int {
	if !b.IsOverdue(today) {
		return 0
	}
	return DaysBetween(*b.DueDate, today)
}

func (b *BorrowTransaction) CloneTransaction() Transaction {
	return b.Copy()
}

// Copy returns a deep copy of the borrow record
func (b *BorrowTransaction) Copy() *BorrowTransaction {
	return &BorrowTransaction{TransactionBase: b.TransactionBase.clone(), BorrowPeriod: b.BorrowPeriod}
}

// ReturnTransaction records the end of a loan and the fine it produced
type ReturnTransaction struct {
	TransactionBase
	BorrowTransactionID int64
}

// NewReturnTransaction closes out borrow on date and prices the lateness
func NewReturnTransaction(id int64, date time.Time, borrow *BorrowTransaction, finePerDay decimal.Decimal) *ReturnTransaction {
	day := Day(date)
	ret := &ReturnTransaction{
		TransactionBase: TransactionBase{
			TransactionID:   id,
			BookID:          borrow.BookID,
			MemberID:        borrow.MemberID,
			TransactionDate: day,
			ReturnDate:      &day,
			FineAmount:      decimal.Zero,
		},
		BorrowTransactionID: borrow.TransactionID,
	}
	if borrow.DueDate != nil {
		due := Day(*borrow.DueDate)
		ret.DueDate = &due
		ret.FineAmount = CalculateFine(due, day, finePerDay)
	}
	return ret
}

func (r *ReturnTransaction) Type() TransactionType { return TransactionReturn }

func (r *ReturnTransaction) CloneTransaction() Transaction {
	return &ReturnTransaction{TransactionBase: r.TransactionBase.clone(), BorrowTransactionID: r.BorrowTransactionID}
}

// CalculateFine charges perDay for every whole day returned is after due
func CalculateFine(due, returned time.Time, perDay decimal.Decimal) decimal.Decimal {
	days := DaysBetween(due, returned)
	if days <= 0 {
		return decimal.Zero
	}
	return perDay.Mul(decimal.NewFromInt(int64(days)))
}
