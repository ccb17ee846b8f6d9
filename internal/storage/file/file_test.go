package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"librarydesk/internal/models"
)

func newTestDB(t *testing.T) (*FileDB, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "library_data")
	db := NewFileDB(dir, zap.NewNop())
	require.NoError(t, db.Initialize(context.Background()))
	return db, dir
}

func TestFileDB_MissingFilesAreEmpty(t *testing.T) {
	ctx := context.Background()
	db := NewFileDB(filepath.Join(t.TempDir(), "does", "not", "exist"), nil)

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

func TestFileDB_RoundTrip(t *testing.T) {
	ctx := context.Background()
	db, dir := newTestDB(t)

	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	lent := models.NewBook(1, "Dune", "Frank Herbert", "1234567890", "SciFi", "1965")
	require.NoError(t, lent.Lend(3))
	shelf := models.NewBook(2, "Emma", "Jane Austen", "0987654321", "Classic", "1815")
	require.NoError(t, db.SaveBooks(ctx, []*models.Book{lent, shelf}))

	member := models.NewMember(3, "Alice", "a@x.com", "1234567890", day, 5)
	require.NoError(t, member.HoldBook(1))
	require.NoError(t, member.AddFine(decimal.RequireFromString("2.50")))
	users := []models.Person{
		models.NewAdmin(1, "Root", "r@x.com", "1234567890", "super"),
		models.NewLibrarian(2, "Lib", "l@x.com", "1234567890", "E-7", "evening"),
		member,
	}
	require.NoError(t, db.SaveUsers(ctx, users))

	borrow := models.NewBorrowTransaction(1, 2, 3, day, 14)
	borrow.MarkReturned(day.AddDate(0, 0, 16))
	ret := models.NewReturnTransaction(2, day.AddDate(0, 0, 16), borrow, decimal.NewFromInt(1))
	open := models.NewBorrowTransaction(3, 1, 3, day.AddDate(0, 0, 20), 7)
	require.NoError(t, db.SaveTransactions(ctx, []models.Transaction{borrow, ret, open}))

	for _, name := range []string{booksFile, usersFile, transactionsFile} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}

	gotBooks, err := db.LoadBooks(ctx)
	require.NoError(t, err)
	assert.Equal(t, []*models.Book{lent, shelf}, gotBooks)

	gotUsers, err := db.LoadUsers(ctx)
	require.NoError(t, err)
	require.Len(t, gotUsers, 3)
	assert.Equal(t, users[0], gotUsers[0])
	assert.Equal(t, users[1], gotUsers[1])
	gotMember := gotUsers[2].(*models.Member)
	assert.Equal(t, []int64{1}, gotMember.BorrowedBooks)
	assert.Equal(t, "2.50", gotMember.FineAmount.StringFixed(2))
	assert.Equal(t, day, gotMember.MembershipDate)

	gotTxs, err := db.LoadTransactions(ctx)
	require.NoError(t, err)
	require.Len(t, gotTxs, 3)
	gotBorrow := gotTxs[0].(*models.BorrowTransaction)
	assert.False(t, gotBorrow.IsOpen())
	assert.Equal(t, 14, gotBorrow.BorrowPeriod)
	gotReturn := gotTxs[1].(*models.ReturnTransaction)
	assert.Equal(t, int64(1), gotReturn.BorrowTransactionID)
	assert.Equal(t, "2.00", gotReturn.FineAmount.StringFixed(2))
	assert.True(t, gotTxs[2].(*models.BorrowTransaction).IsOpen())
}

func TestFileDB_ReadsLegacyLayout(t *testing.T) {
	ctx := context.Background()
	db, dir := newTestDB(t)

	books := `[
    {"book_id": 1, "title": "Dune", "author": "Herbert", "isbn": "1234567890",
     "category": "SciFi", "publication_year": 1965, "is_available": false,
     "borrower_id": 2, "total_borrows": 4}
]`
	users := `[
    {"person_id": 1, "name": "Root", "email": "r@x.com", "phone": "1234567890",
     "role": "admin", "admin_level": 1, "permissions": ["add_book"]},
    {"person_id": 2, "name": "Alice", "email": "a@x.com", "phone": "1234567890",
     "is_active": true, "role": "member", "membership_date": "2024-01-10",
     "borrowed_books": [1], "fine_amount": 1.5}
]`
	txs := `[
    {"transaction_id": 1, "book_id": 1, "member_id": 2, "transaction_type": "borrow",
     "transaction_date": "2024-03-01", "due_date": "2024-03-15", "return_date": null,
     "fine_amount": 0.0, "borrow_period": 14}
]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, booksFile), []byte(books), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, usersFile), []byte(users), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, transactionsFile), []byte(txs), 0o644))

	gotBooks, err := db.LoadBooks(ctx)
	require.NoError(t, err)
	require.Len(t, gotBooks, 1)
	assert.Equal(t, "1965", gotBooks[0].PublicationYear)
	assert.False(t, gotBooks[0].IsAvailable())
	assert.Equal(t, 4, gotBooks[0].TotalBorrows)

	gotUsers, err := db.LoadUsers(ctx)
	require.NoError(t, err)
	require.Len(t, gotUsers, 2)
	admin := gotUsers[0].(*models.Admin)
	assert.Equal(t, "1", admin.AdminLevel)
	assert.True(t, admin.IsActive)
	m := gotUsers[1].(*models.Member)
	assert.Equal(t, "1.50", m.FineAmount.StringFixed(2))
	assert.Equal(t, models.DefaultMaxBooks, m.MaxBooks)

	gotTxs, err := db.LoadTransactions(ctx)
	require.NoError(t, err)
	require.Len(t, gotTxs, 1)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), *gotTxs[0].Base().DueDate)
}

func TestFileDB_MalformedData(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		file string
		body string
		load func(db *FileDB) error
	}{
		{
			name: "availability mismatch",
			file: booksFile,
			body: `[{"book_id": 1, "title": "X", "is_available": true, "borrower_id": 3}]`,
			load: func(db *FileDB) error { _, err := db.LoadBooks(ctx); return err },
		},
		{
			name: "unknown role",
			file: usersFile,
			body: `[{"person_id": 1, "name": "X", "role": "janitor"}]`,
			load: func(db *FileDB) error { _, err := db.LoadUsers(ctx); return err },
		},
		{
			name: "unknown transaction type",
			file: transactionsFile,
			body: `[{"transaction_id": 1, "transaction_type": "renew", "transaction_date": "2024-01-01"}]`,
			load: func(db *FileDB) error { _, err := db.LoadTransactions(ctx); return err },
		},
		{
			name: "broken json",
			file: booksFile,
			body: `[{"book_id": 1,`,
			load: func(db *FileDB) error { _, err := db.LoadBooks(ctx); return err },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, dir := newTestDB(t)
			require.NoError(t, os.WriteFile(filepath.Join(dir, tt.file), []byte(tt.body), 0o644))
			assert.Error(t, tt.load(db))
		})
	}
}

func TestFileDB_WriteLeavesNoTempFiles(t *testing.T) {
	ctx := context.Background()
	db, dir := newTestDB(t)

	require.NoError(t, db.SaveBooks(ctx, []*models.Book{models.NewBook(1, "A", "B", "1234567890", "", "2000")}))
	require.NoError(t, db.SaveBooks(ctx, nil))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, booksFile, entries[0].Name())

	books, err := db.LoadBooks(ctx)
	require.NoError(t, err)
	assert.Empty(t, books)
}
