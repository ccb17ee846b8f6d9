package report

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"librarydesk/internal/models"
)

func day(d int) time.Time {
	return time.Date(2024, 5, d, 0, 0, 0, 0, time.UTC)
}

func bookWithBorrows(id int64, category string, borrows int) *models.Book {
	b := models.NewBook(id, "Book", "Author", "1234567890", category, "2000")
	b.TotalBorrows = borrows
	return b
}

func TestMostBorrowed(t *testing.T) {
	books := []*models.Book{
		bookWithBorrows(1, "A", 2),
		bookWithBorrows(2, "A", 5),
		bookWithBorrows(3, "B", 2),
		bookWithBorrows(4, "B", 0),
	}

	top := MostBorrowed(books, 3)
	require.Len(t, top, 3)
	assert.Equal(t, []int64{2, 1, 3}, []int64{top[0].BookID, top[1].BookID, top[2].BookID})

	assert.Len(t, MostBorrowed(books, 10), 4)
	assert.Len(t, MostBorrowed(books, -1), 4)
	assert.Empty(t, MostBorrowed(books, 0))

	// input order untouched
	assert.Equal(t, int64(1), books[0].BookID)
}

func TestOverdue(t *testing.T) {
	books := []*models.Book{bookWithBorrows(1, "A", 1), bookWithBorrows(2, "A", 1), bookWithBorrows(3, "A", 1)}
	alice := models.NewMember(1, "Alice", "a@x.com", "1234567890", day(1), 5)
	users := []models.Person{alice}

	late := models.NewBorrowTransaction(1, 1, 1, day(1), 5)     // due day 6
	dueToday := models.NewBorrowTransaction(2, 2, 1, day(5), 5) // due day 10
	returned := models.NewBorrowTransaction(3, 3, 1, day(1), 2)
	returned.MarkReturned(day(4))
	ghost := models.NewBorrowTransaction(4, 99, 1, day(1), 1)

	entries := Overdue([]models.Transaction{late, dueToday, returned, ghost}, books, users, day(10))
	require.Len(t, entries, 1)
	assert.Equal(t, int64(1), entries[0].Transaction.TransactionID)
	assert.Equal(t, 4, entries[0].DaysOverdue)
	assert.Equal(t, "Alice", entries[0].Member.Name)
}

func TestFineRevenue(t *testing.T) {
	a := models.NewMember(1, "A", "", "", day(1), 5)
	require.NoError(t, a.AddFine(decimal.RequireFromString("2.50")))
	b := models.NewMember(2, "B", "", "", day(1), 5)
	c := models.NewMember(3, "C", "", "", day(1), 5)
	require.NoError(t, c.AddFine(decimal.NewFromInt(1)))

	summary := FineRevenue([]models.Person{models.NewAdmin(9, "Root", "", "", "1"), a, b, c})
	assert.Equal(t, "3.50", summary.Total.StringFixed(2))
	require.Len(t, summary.Members, 2)
	assert.Equal(t, int64(1), summary.Members[0].Member.PersonID)
	assert.Equal(t, int64(3), summary.Members[1].Member.PersonID)

	empty := FineRevenue(nil)
	assert.True(t, empty.Total.IsZero())
	assert.Empty(t, empty.Members)
}

func TestByCategory(t *testing.T) {
	books := []*models.Book{
		bookWithBorrows(1, "SciFi", 0),
		bookWithBorrows(2, "Classic", 0),
		bookWithBorrows(3, "SciFi", 0),
	}
	assert.Equal(t, []CategoryCount{{"Classic", 1}, {"SciFi", 2}}, ByCategory(books))
}

func TestActiveMembers(t *testing.T) {
	a := models.NewMember(1, "A", "", "", day(1), 5)
	require.NoError(t, a.HoldBook(4))
	b := models.NewMember(2, "B", "", "", day(1), 5)
	b.IsActive = false

	got := ActiveMembers([]models.Person{models.NewLibrarian(3, "L", "", "", "E", "x"), a, b})
	require.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0].Member.PersonID)
	assert.Equal(t, 1, got[0].Books)
}
