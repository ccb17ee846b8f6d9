// Package report builds read-only summaries over library snapshots.
package report

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"librarydesk/internal/models"
)

// MostBorrowed returns up to n books ordered by TotalBorrows, highest first.
// Ties keep catalog order. A negative n returns every book.
func MostBorrowed(books []*models.Book, n int) []*models.Book {
	sorted := make([]*models.Book, len(books))
	copy(sorted, books)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TotalBorrows > sorted[j].TotalBorrows
	})
	if n >= 0 && n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}

// OverdueEntry is one open loan past its due date
type OverdueEntry struct {
	Transaction *models.BorrowTransaction
	Book        *models.Book
	Member      *models.Member
	DaysOverdue int
}

// Overdue lists open loans due strictly before today, in ledger order.
// Loans whose book or member no longer exists are left out.
func Overdue(txs []models.Transaction, books []*models.Book, users []models.Person, today time.Time) []OverdueEntry {
	bookByID := make(map[int64]*models.Book, len(books))
	for _, b := range books {
		bookByID[b.BookID] = b
	}
	memberByID := make(map[int64]*models.Member)
	for _, u := range users {
		if m, ok := u.(*models.Member); ok {
			memberByID[m.PersonID] = m
		}
	}

	var entries []OverdueEntry
	for _, tx := range txs {
		borrow, ok := tx.(*models.BorrowTransaction)
		if !ok || !borrow.IsOverdue(today) {
			continue
		}
		book, member := bookByID[borrow.BookID], memberByID[borrow.MemberID]
		if book == nil || member == nil {
			continue
		}
		entries = append(entries, OverdueEntry{
			Transaction: borrow,
			Book:        book,
			Member:      member,
			DaysOverdue: borrow.DaysOverdue(today),
		})
	}
	return entries
}

type MemberFine struct {
	Member *models.Member
	Amount decimal.Decimal
}

// FineSummary is the outstanding fine total with a per-member breakdown
type FineSummary struct {
	Total   decimal.Decimal
	Members []MemberFine
}

// FineRevenue sums every member's outstanding fine
func FineRevenue(users []models.Person) FineSummary {
	summary := FineSummary{Total: decimal.Zero}
	for _, u := range users {
		m, ok := u.(*models.Member)
		if !ok {
			continue
		}
		summary.Total = summary.Total.Add(m.FineAmount)
		if m.HasFines() {
			summary.Members = append(summary.Members, MemberFine{Member: m, Amount: m.FineAmount})
		}
	}
	return summary
}

type CategoryCount struct {
	Category string
	Count    int
}

// ByCategory counts books per category, sorted by category name
func ByCategory(books []*models.Book) []CategoryCount {
	counts := make(map[string]int)
	for _, b := range books {
		counts[b.Category]++
	}
	out := make([]CategoryCount, 0, len(counts))
	for c, n := range counts {
		out = append(out, CategoryCount{Category: c, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out
}

// ActiveMember is an active member with the number of books they hold
type ActiveMember struct {
	Member *models.Member
	Books  int
}

// ActiveMembers lists active members in registration order
func ActiveMembers(users []models.Person) []ActiveMember {
	var out []ActiveMember
	for _, u := range users {
		if m, ok := u.(*models.Member); ok && m.IsActive {
			out = append(out, ActiveMember{Member: m, Books: len(m.BorrowedBooks)})
		}
	}
	return out
}
