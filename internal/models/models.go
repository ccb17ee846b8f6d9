package models

import (
	"errors"
	"math"
	"time"
)

// DateLayout is the calendar-day format used in stored records and messages
const DateLayout = "2006-01-02"

var (
	ErrBookLent    = errors.New("book is already lent")
	ErrBookNotLent = errors.New("book is not lent")
)

// Book represents a book in the library catalog.
// A book is on loan exactly when BorrowerID is set.
type Book struct {
	BookID          int64
	Title           string
	Author          string
	ISBN            string
	Category        string
	PublicationYear string
	BorrowerID      *int64
	TotalBorrows    int
}

// NewBook creates an available book that has never been lent
func NewBook(id int64, title, author, isbn, category, publicationYear string) *Book {
	return &Book{
		BookID:          id,
		Title:           title,
		Author:          author,
		ISBN:            isbn,
		Category:        category,
		PublicationYear: publicationYear,
	}
}

// IsAvailable reports whether the book is on the shelf
func (b *Book) IsAvailable() bool {
	return b.BorrowerID == nil
}

// Lend hands the book to a member and counts the loan
func (b *Book) Lend(memberID int64) error {
	if !b.IsAvailable() {
		return ErrBookLent
	}
	id := memberID
	b.BorrowerID = &id
	b.TotalBorrows++
	return nil
}

// Release puts a lent book back on the shelf
func (b *Book) Release() error {
	if b.IsAvailable() {
		return ErrBookNotLent
	}
	b.BorrowerID = nil
	return nil
}

// Copy returns a deep copy of the book
func (b *Book) Copy() *Book {
	c := *b
	if b.BorrowerID != nil {
		id := *b.BorrowerID
		c.BorrowerID = &id
	}
	return &c
}

// Day truncates t to the start of its calendar day.
// The result is expressed in UTC so that day arithmetic is exact.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of calendar days from one date to another
func DaysBetween(from, to time.Time) int {
	return int(math.Round(Day(to).Sub(Day(from)).Hours() / 24))
}

// ParseDate parses a YYYY-MM-DD string into a calendar day
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// FormatDate renders a calendar day as YYYY-MM-DD
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
