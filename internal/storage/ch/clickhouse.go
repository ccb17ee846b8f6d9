package ch

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/shopspring/decimal"

	"librarydesk/internal/models"
)

type ClickHouseDB struct {
	conn clickhouse.Conn
}

// NewClickHouseDB creates a new ClickHouse database connection
func NewClickHouseDB(host string, port int, database, user, password string, useTLS bool) (*ClickHouseDB, error) {
	addr := fmt.Sprintf("%s:%d", host, port)

	options := &clickhouse.Options{
		Addr:     []string{addr},
		Protocol: clickhouse.Native,
		Auth: clickhouse.Auth{
			Database: database,
			Username: user,
			Password: password,
		},
	}

	// Configure TLS if enabled
	if useTLS {
		options.TLS = &tls.Config{
			InsecureSkipVerify: false,
		}
	}

	conn, err := clickhouse.Open(options)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ClickHouse: %w", err)
	}

	// Test the connection
	if err := conn.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ping ClickHouse: %w", err)
	}

	return &ClickHouseDB{conn: conn}, nil
}

// Initialize is a no-op - tables are managed via migrations
func (db *ClickHouseDB) Initialize(ctx context.Context) error {
	// Tables are created by cmd/migrate from internal/migrations/clickhouse
	return nil
}

// LoadBooks returns all books ordered by id
func (db *ClickHouseDB) LoadBooks(ctx context.Context) ([]*models.Book, error) {
	rows, err := db.conn.Query(ctx, `
		SELECT book_id, title, author, isbn, category, publication_year, borrower_id, total_borrows
		FROM books ORDER BY book_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to load books: %w", err)
	}
	defer rows.Close()

	var books []*models.Book
	for rows.Next() {
		var (
			book         models.Book
			totalBorrows uint32
		)
		if err := rows.Scan(&book.BookID, &book.Title, &book.Author, &book.ISBN, &book.Category,
			&book.PublicationYear, &book.BorrowerID, &totalBorrows); err != nil {
			return nil, fmt.Errorf("failed to scan book: %w", err)
		}
		book.TotalBorrows = int(totalBorrows)
		books = append(books, &book)
	}
	return books, rows.Err()
}

// SaveBooks replaces the books table
func (db *ClickHouseDB) SaveBooks(ctx context.Context, books []*models.Book) error {
	return db.replace(ctx, "books", len(books), func(batch driver.Batch) error {
		for _, b := range books {
			if err := batch.Append(b.BookID, b.Title, b.Author, b.ISBN, b.Category,
				b.PublicationYear, b.BorrowerID, uint32(b.TotalBorrows)); err != nil {
				return fmt.Errorf("book %d: %w", b.BookID, err)
			}
		}
		return nil
	})
}

// LoadUsers returns all users ordered by id
func (db *ClickHouseDB) LoadUsers(ctx context.Context) ([]models.Person, error) {
	rows, err := db.conn.Query(ctx, `
		SELECT person_id, role, name, email, phone, is_active,
		       admin_level, permissions, employee_id, shift, books_issued,
		       membership_date, borrowed_books, fine_amount, max_books
		FROM users ORDER BY person_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}
	defer rows.Close()

	var users []models.Person
	for rows.Next() {
		var (
			base           models.PersonBase
			role           string
			adminLevel     string
			permissions    []string
			employeeID     string
			shift          string
			booksIssued    uint32
			membershipDate *time.Time
			borrowedBooks  []int64
			fine           decimal.Decimal
			maxBooks       uint32
		)
		if err := rows.Scan(&base.PersonID, &role, &base.Name, &base.Email, &base.Phone, &base.IsActive,
			&adminLevel, &permissions, &employeeID, &shift, &booksIssued,
			&membershipDate, &borrowedBooks, &fine, &maxBooks); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}

		switch models.Role(role) {
		case models.RoleAdmin:
			users = append(users, &models.Admin{PersonBase: base, AdminLevel: adminLevel, Permissions: permissions})
		case models.RoleLibrarian:
			users = append(users, &models.Librarian{
				PersonBase: base, EmployeeID: employeeID, Shift: shift, BooksIssued: int(booksIssued),
			})
		case models.RoleMember:
			m := &models.Member{PersonBase: base, BorrowedBooks: borrowedBooks, FineAmount: fine, MaxBooks: int(maxBooks)}
			if m.BorrowedBooks == nil {
				m.BorrowedBooks = []int64{}
			}
			if membershipDate != nil {
				m.MembershipDate = models.Day(*membershipDate)
			}
			users = append(users, m)
		default:
			return nil, fmt.Errorf("user %d: unknown role %q", base.PersonID, role)
		}
	}
	return users, rows.Err()
}

// SaveUsers replaces the users table
func (db *ClickHouseDB) SaveUsers(ctx context.Context, users []models.Person) error {
	return db.replace(ctx, "users", len(users), func(batch driver.Batch) error {
		for _, u := range users {
			base := u.Base()
			var (
				adminLevel, employeeID, shift string
				permissions                   = []string{}
				borrowedBooks                 = []int64{}
				booksIssued, maxBooks         uint32
				membershipDate                *time.Time
				fine                          = decimal.Zero
			)
			switch v := u.(type) {
			case *models.Admin:
				adminLevel = v.AdminLevel
				if v.Permissions != nil {
					permissions = v.Permissions
				}
			case *models.Librarian:
				employeeID, shift, booksIssued = v.EmployeeID, v.Shift, uint32(v.BooksIssued)
			case *models.Member:
				if v.BorrowedBooks != nil {
					borrowedBooks = v.BorrowedBooks
				}
				d := v.MembershipDate
				membershipDate = &d
				fine, maxBooks = v.FineAmount, uint32(v.MaxBooks)
			}
			if err := batch.Append(base.PersonID, string(u.Role()), base.Name, base.Email, base.Phone, base.IsActive,
				adminLevel, permissions, employeeID, shift, booksIssued,
				membershipDate, borrowedBooks, fine, maxBooks); err != nil {
				return fmt.Errorf("user %d: %w", base.PersonID, err)
			}
		}
		return nil
	})
}

// LoadTransactions returns the ledger ordered by id
func (db *ClickHouseDB) LoadTransactions(ctx context.Context) ([]models.Transaction, error) {
	rows, err := db.conn.Query(ctx, `
		SELECT transaction_id, transaction_type, book_id, member_id, transaction_date,
		       due_date, return_date, fine_amount, borrow_period, borrow_transaction_id
		FROM transactions ORDER BY transaction_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}
	defer rows.Close()

	var txs []models.Transaction
	for rows.Next() {
		var (
			base       models.TransactionBase
			kind       string
			period     int32
			borrowTxID *int64
		)
		if err := rows.Scan(&base.TransactionID, &kind, &base.BookID, &base.MemberID, &base.TransactionDate,
			&base.DueDate, &base.ReturnDate, &base.FineAmount, &period, &borrowTxID); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		base.TransactionDate = models.Day(base.TransactionDate)
		base.DueDate = dayPtr(base.DueDate)
		base.ReturnDate = dayPtr(base.ReturnDate)

		switch models.TransactionType(kind) {
		case models.TransactionBorrow:
			txs = append(txs, &models.BorrowTransaction{TransactionBase: base, BorrowPeriod: int(period)})
		case models.TransactionReturn:
			ret := &models.ReturnTransaction{TransactionBase: base}
			if borrowTxID != nil {
				ret.BorrowTransactionID = *borrowTxID
			}
			txs = append(txs, ret)
		default:
			return nil, fmt.Errorf("transaction %d: unknown transaction_type %q", base.TransactionID, kind)
		}
	}
	return txs, rows.Err()
}

// SaveTransactions replaces the transactions table
func (db *ClickHouseDB) SaveTransactions(ctx context.Context, txs []models.Transaction) error {
	return db.replace(ctx, "transactions", len(txs), func(batch driver.Batch) error {
		for _, t := range txs {
			base := t.Base()
			var (
				period     int32
				borrowTxID *int64
			)
			switch v := t.(type) {
			case *models.BorrowTransaction:
				period = int32(v.BorrowPeriod)
			case *models.ReturnTransaction:
				id := v.BorrowTransactionID
				borrowTxID = &id
			}
			if err := batch.Append(base.TransactionID, string(t.Type()), base.BookID, base.MemberID,
				base.TransactionDate, base.DueDate, base.ReturnDate, base.FineAmount, period, borrowTxID); err != nil {
				return fmt.Errorf("transaction %d: %w", base.TransactionID, err)
			}
		}
		return nil
	})
}

// Close closes the database connection
func (db *ClickHouseDB) Close() error {
	if db.conn != nil {
		return db.conn.Close()
	}
	return nil
}

// replace truncates table and, when there are rows, batch-inserts them with fill
func (db *ClickHouseDB) replace(ctx context.Context, table string, n int, fill func(driver.Batch) error) error {
	if err := db.conn.Exec(ctx, "TRUNCATE TABLE "+table); err != nil {
		return fmt.Errorf("failed to truncate %s: %w", table, err)
	}
	if n == 0 {
		return nil
	}

	batch, err := db.conn.PrepareBatch(ctx, "INSERT INTO "+table)
	if err != nil {
		return fmt.Errorf("failed to prepare %s batch: %w", table, err)
	}
	if err := fill(batch); err != nil {
		_ = batch.Abort()
		return fmt.Errorf("failed to save %s: %w", table, err)
	}
	if err := batch.Send(); err != nil {
		return fmt.Errorf("failed to send %s batch: %w", table, err)
	}
	return nil
}

func dayPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := models.Day(*t)
	return &d
}
