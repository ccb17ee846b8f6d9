package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"librarydesk/internal/models"
)

func tempDB(t *testing.T) *SQLiteDB {
	t.Helper()
	db, err := NewSQLiteDB(filepath.Join(t.TempDir(), "data", "library.db"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Initialize(context.Background()))
	return db
}

func TestSQLiteDB_EmptyOnFirstRun(t *testing.T) {
	db := tempDB(t)
	ctx := context.Background()

	books, err := db.LoadBooks(ctx)
	require.NoError(t, err)
	assert.Empty(t, books)

	users, err := db.LoadUsers(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)

	txs, err := db.LoadTransactions(ctx)
	require.NoError(t, err)
	assert.Empty(t, txs)
}

func TestSQLiteDB_InitializeIsIdempotent(t *testing.T) {
	db := tempDB(t)
	assert.NoError(t, db.Initialize(context.Background()))
}

func TestSQLiteDB_Books(t *testing.T) {
	db := tempDB(t)
	ctx := context.Background()

	lent := models.NewBook(1, "Dune", "Frank Herbert", "1234567890", "SciFi", "1965")
	require.NoError(t, lent.Lend(4))
	shelf := models.NewBook(2, "Emma", "Jane Austen", "0987654321", "Classic", "1815")
	require.NoError(t, db.SaveBooks(ctx, []*models.Book{lent, shelf}))

	got, err := db.LoadBooks(ctx)
	require.NoError(t, err)
	assert.Equal(t, []*models.Book{lent, shelf}, got)

	// a second save replaces, not appends
	require.NoError(t, db.SaveBooks(ctx, []*models.Book{shelf}))
	got, err = db.LoadBooks(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestSQLiteDB_Users(t *testing.T) {
	db := tempDB(t)
	ctx := context.Background()

	admin := models.NewAdmin(1, "Root", "r@x.com", "1234567890", "super")
	librarian := models.NewLibrarian(2, "Lib", "l@x.com", "1234567890", "E-9", "night")
	librarian.BooksIssued = 12
	member := models.NewMember(3, "Alice", "a@x.com", "1234567890", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), 3)
	require.NoError(t, member.HoldBook(7))
	require.NoError(t, member.AddFine(decimal.RequireFromString("4.25")))
	member.IsActive = false

	require.NoError(t, db.SaveUsers(ctx, []models.Person{admin, librarian, member}))

	got, err := db.LoadUsers(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, admin, got[0])
	assert.Equal(t, librarian, got[1])

	m := got[2].(*models.Member)
	assert.False(t, m.IsActive)
	assert.Equal(t, []int64{7}, m.BorrowedBooks)
	assert.Equal(t, "4.25", m.FineAmount.StringFixed(2))
	assert.Equal(t, 3, m.MaxBooks)
	assert.Equal(t, "2024-01-02", models.FormatDate(m.MembershipDate))
}

func TestSQLiteDB_MemberRowChecks(t *testing.T) {
	db := tempDB(t)
	ctx := context.Background()

	_, err := db.db.ExecContext(ctx, `
		INSERT INTO users (person_id, role, name, membership_date, fine_amount, max_books)
		VALUES (1, 'member', 'Alice', '2024-01-02', '0', 0)`)
	require.NoError(t, err)

	users, err := db.LoadUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	m := users[0].(*models.Member)
	assert.Equal(t, models.DefaultMaxBooks, m.MaxBooks)
	assert.True(t, m.CanBorrowMore())

	_, err = db.db.ExecContext(ctx, `
		INSERT INTO users (person_id, role, name, membership_date, fine_amount, max_books)
		VALUES (2, 'member', 'Bob', '2024-01-02', '-1.50', 5)`)
	require.NoError(t, err)

	_, err = db.LoadUsers(ctx)
	assert.ErrorContains(t, err, "negative fine_amount")
}

func TestSQLiteDB_Transactions(t *testing.T) {
	db := tempDB(t)
	ctx := context.Background()

	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	borrow := models.NewBorrowTransaction(1, 1, 3, day, 14)
	borrow.MarkReturned(day.AddDate(0, 0, 17))
	ret := models.NewReturnTransaction(2, day.AddDate(0, 0, 17), borrow, decimal.NewFromInt(1))
	open := models.NewBorrowTransaction(3, 2, 3, day, 7)

	require.NoError(t, db.SaveTransactions(ctx, []models.Transaction{borrow, ret, open}))

	got, err := db.LoadTransactions(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)

	b := got[0].(*models.BorrowTransaction)
	assert.Equal(t, 14, b.BorrowPeriod)
	assert.False(t, b.IsOpen())

	r := got[1].(*models.ReturnTransaction)
	assert.Equal(t, int64(1), r.BorrowTransactionID)
	assert.Equal(t, "3.00", r.FineAmount.StringFixed(2))
	assert.Equal(t, *borrow.DueDate, *r.DueDate)

	o := got[2].(*models.BorrowTransaction)
	assert.True(t, o.IsOpen())
	assert.Equal(t, day.AddDate(0, 0, 7), *o.DueDate)
}
