package ch

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	clickhouseTC "github.com/testcontainers/testcontainers-go/modules/clickhouse"

	"librarydesk/internal/migrations"
	"librarydesk/internal/models"
)

// runMigrations manually runs the Up section of the embedded ClickHouse migration
func runMigrations(ctx context.Context, db *ClickHouseDB) error {
	// Drop existing tables
	_ = db.conn.Exec(ctx, "DROP TABLE IF EXISTS transactions")
	_ = db.conn.Exec(ctx, "DROP TABLE IF EXISTS users")
	_ = db.conn.Exec(ctx, "DROP TABLE IF EXISTS books")

	data, err := migrations.FS.ReadFile(migrations.ClickHouseDir + "/00001_create_library_tables.sql")
	if err != nil {
		return err
	}
	up, _, _ := strings.Cut(string(data), "-- +goose Down")
	up = strings.TrimPrefix(strings.TrimSpace(up), "-- +goose Up")

	for _, stmt := range strings.Split(up, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if err := db.conn.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// setupTestDB creates a test ClickHouse instance using testcontainers
func setupTestDB(t *testing.T) (*ClickHouseDB, func()) {
	if testing.Short() {
		t.Skip("skipping ClickHouse integration test in short mode")
	}
	ctx := context.Background()

	// Start ClickHouse container
	clickhouseContainer, err := clickhouseTC.Run(ctx,
		"clickhouse/clickhouse-server:24.3.3.102-alpine",
		clickhouseTC.WithUsername("default"),
		clickhouseTC.WithPassword(""),
		clickhouseTC.WithDatabase("default"),
	)
	require.NoError(t, err, "Failed to start ClickHouse container")

	// Get connection details
	host, err := clickhouseContainer.Host(ctx)
	require.NoError(t, err)

	port, err := clickhouseContainer.MappedPort(ctx, "9000/tcp")
	require.NoError(t, err)

	// Create database connection
	db, err := NewClickHouseDB(host, port.Int(), "default", "default", "", false)
	require.NoError(t, err, "Failed to connect to ClickHouse")

	// Run migrations manually (goose doesn't work well with ClickHouse)
	err = runMigrations(ctx, db)
	require.NoError(t, err, "Failed to run migrations")

	// Cleanup function
	cleanup := func() {
		db.Close()
		clickhouseContainer.Terminate(ctx)
	}

	return db, cleanup
}

// TestClickHouseDB_Books tests saving and loading the catalog
func TestClickHouseDB_Books(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	// Initially should be empty
	books, err := db.LoadBooks(ctx)
	require.NoError(t, err)
	assert.Empty(t, books)

	lent := models.NewBook(1, "Dune", "Frank Herbert", "1234567890", "SciFi", "1965")
	require.NoError(t, lent.Lend(5))
	shelf := models.NewBook(2, "Emma", "Jane Austen", "0987654321", "Classic", "1815")
	require.NoError(t, db.SaveBooks(ctx, []*models.Book{shelf, lent}))

	// Should return books sorted by id
	books, err = db.LoadBooks(ctx)
	require.NoError(t, err)
	require.Len(t, books, 2)
	assert.Equal(t, lent, books[0])
	assert.Equal(t, shelf, books[1])

	// A second save replaces the table
	require.NoError(t, db.SaveBooks(ctx, []*models.Book{shelf}))
	books, err = db.LoadBooks(ctx)
	require.NoError(t, err)
	assert.Len(t, books, 1)

	// Saving nothing empties it
	require.NoError(t, db.SaveBooks(ctx, nil))
	books, err = db.LoadBooks(ctx)
	require.NoError(t, err)
	assert.Empty(t, books)
}

// TestClickHouseDB_Users tests all three person variants
func TestClickHouseDB_Users(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	admin := models.NewAdmin(1, "Root", "r@x.com", "1234567890", "super")
	librarian := models.NewLibrarian(2, "Lib", "l@x.com", "1234567890", "E-1", "morning")
	member := models.NewMember(3, "Alice", "a@x.com", "1234567890", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), 5)
	require.NoError(t, member.HoldBook(1))
	require.NoError(t, member.AddFine(decimal.RequireFromString("1.75")))

	require.NoError(t, db.SaveUsers(ctx, []models.Person{admin, librarian, member}))

	users, err := db.LoadUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 3)

	assert.Equal(t, admin, users[0])
	assert.Equal(t, librarian, users[1])

	m, ok := users[2].(*models.Member)
	require.True(t, ok)
	assert.Equal(t, []int64{1}, m.BorrowedBooks)
	assert.Equal(t, "1.75", m.FineAmount.StringFixed(2))
	assert.Equal(t, "2024-01-02", models.FormatDate(m.MembershipDate))
	assert.Equal(t, 5, m.MaxBooks)
}

// TestClickHouseDB_Transactions tests the ledger round trip
func TestClickHouseDB_Transactions(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	day := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	borrow := models.NewBorrowTransaction(1, 1, 3, day, 14)
	borrow.MarkReturned(day.AddDate(0, 0, 16))
	ret := models.NewReturnTransaction(2, day.AddDate(0, 0, 16), borrow, decimal.NewFromInt(1))
	open := models.NewBorrowTransaction(3, 2, 3, day, 7)

	require.NoError(t, db.SaveTransactions(ctx, []models.Transaction{borrow, ret, open}))

	txs, err := db.LoadTransactions(ctx)
	require.NoError(t, err)
	require.Len(t, txs, 3)

	b := txs[0].(*models.BorrowTransaction)
	assert.False(t, b.IsOpen())
	assert.Equal(t, 14, b.BorrowPeriod)
	assert.Equal(t, "2024-06-15", models.FormatDate(*b.DueDate))

	r := txs[1].(*models.ReturnTransaction)
	assert.Equal(t, int64(1), r.BorrowTransactionID)
	assert.Equal(t, "2.00", r.FineAmount.StringFixed(2))

	assert.True(t, txs[2].(*models.BorrowTransaction).IsOpen())
}

// TestClickHouseDB_Close tests connection closing
func TestClickHouseDB_Close(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	err := db.Close()
	assert.NoError(t, err)
}
