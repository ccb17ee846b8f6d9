// Package sqlite stores the library in a single SQLite database file.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	jsoniter "github.com/json-iterator/go"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"librarydesk/internal/migrations"
	"librarydesk/internal/models"
)

var json = jsoniter.ConfigFastest

type SQLiteDB struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSQLiteDB opens (or creates) the database at path
func NewSQLiteDB(path string, logger *zap.Logger) (*SQLiteDB, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_foreign_keys=1", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	// one writer; keeps the DELETE+INSERT replace in a single connection
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping sqlite: %w", err)
	}
	return &SQLiteDB{db: db, logger: logger}, nil
}

// Initialize applies the embedded schema migrations
func (s *SQLiteDB) Initialize(ctx context.Context) error {
	return migrations.Up(ctx, s.db, goose.DialectSQLite3, migrations.SQLiteDir, s.logger)
}

// LoadBooks returns all books ordered by id
func (s *SQLiteDB) LoadBooks(ctx context.Context) ([]*models.Book, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT book_id, title, author, isbn, category, publication_year, borrower_id, total_borrows
		FROM books ORDER BY book_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to load books: %w", err)
	}
	defer rows.Close()

	var books []*models.Book
	for rows.Next() {
		var (
			b        models.Book
			borrower sql.NullInt64
		)
		if err := rows.Scan(&b.BookID, &b.Title, &b.Author, &b.ISBN, &b.Category,
			&b.PublicationYear, &borrower, &b.TotalBorrows); err != nil {
			return nil, fmt.Errorf("failed to scan book: %w", err)
		}
		if borrower.Valid {
			id := borrower.Int64
			b.BorrowerID = &id
		}
		books = append(books, &b)
	}
	return books, rows.Err()
}

// SaveBooks replaces the books table
func (s *SQLiteDB) SaveBooks(ctx context.Context, books []*models.Book) error {
	return s.replace(ctx, "books", func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO books (book_id, title, author, isbn, category, publication_year, borrower_id, total_borrows)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, b := range books {
			if _, err := stmt.ExecContext(ctx, b.BookID, b.Title, b.Author, b.ISBN, b.Category,
				b.PublicationYear, nullInt(b.BorrowerID), b.TotalBorrows); err != nil {
				return fmt.Errorf("book %d: %w", b.BookID, err)
			}
		}
		return nil
	})
}

// LoadUsers returns all users ordered by id
func (s *SQLiteDB) LoadUsers(ctx context.Context) ([]models.Person, error) {
	rows, err := s.db.QueryContext(ctx, `
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
			permissions    string
			employeeID     string
			shift          string
			booksIssued    int
			membershipDate sql.NullString
			borrowedBooks  string
			fine           decimal.Decimal
			maxBooks       int
		)
		if err := rows.Scan(&base.PersonID, &role, &base.Name, &base.Email, &base.Phone, &base.IsActive,
			&adminLevel, &permissions, &employeeID, &shift, &booksIssued,
			&membershipDate, &borrowedBooks, &fine, &maxBooks); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}

		switch models.Role(role) {
		case models.RoleAdmin:
			a := &models.Admin{PersonBase: base, AdminLevel: adminLevel}
			if err := json.UnmarshalFromString(permissions, &a.Permissions); err != nil {
				return nil, fmt.Errorf("user %d: bad permissions: %w", base.PersonID, err)
			}
			users = append(users, a)
		case models.RoleLibrarian:
			users = append(users, &models.Librarian{
				PersonBase: base, EmployeeID: employeeID, Shift: shift, BooksIssued: booksIssued,
			})
		case models.RoleMember:
			if fine.IsNegative() {
				return nil, fmt.Errorf("member %d: negative fine_amount", base.PersonID)
			}
			if maxBooks <= 0 {
				maxBooks = models.DefaultMaxBooks
			}
			m := &models.Member{PersonBase: base, FineAmount: fine, MaxBooks: maxBooks, BorrowedBooks: []int64{}}
			if err := json.UnmarshalFromString(borrowedBooks, &m.BorrowedBooks); err != nil {
				return nil, fmt.Errorf("user %d: bad borrowed_books: %w", base.PersonID, err)
			}
			if membershipDate.Valid {
				d, err := models.ParseDate(membershipDate.String)
				if err != nil {
					return nil, fmt.Errorf("user %d: bad membership_date: %w", base.PersonID, err)
				}
				m.MembershipDate = d
			}
			users = append(users, m)
		default:
			return nil, fmt.Errorf("user %d: unknown role %q", base.PersonID, role)
		}
	}
	return users, rows.Err()
}

// SaveUsers replaces the users table
func (s *SQLiteDB) SaveUsers(ctx context.Context, users []models.Person) error {
	return s.replace(ctx, "users", func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO users (person_id, role, name, email, phone, is_active,
			                   admin_level, permissions, employee_id, shift, books_issued,
			                   membership_date, borrowed_books, fine_amount, max_books)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, u := range users {
			base := u.Base()
			var (
				adminLevel, employeeID, shift string
				permissions                   = "[]"
				borrowedBooks                 = "[]"
				booksIssued, maxBooks         int
				membershipDate                sql.NullString
				fine                          = decimal.Zero
			)
			switch v := u.(type) {
			case *models.Admin:
				adminLevel = v.AdminLevel
				if permissions, err = json.MarshalToString(v.Permissions); err != nil {
					return err
				}
			case *models.Librarian:
				employeeID, shift, booksIssued = v.EmployeeID, v.Shift, v.BooksIssued
			case *models.Member:
				if borrowedBooks, err = json.MarshalToString(v.BorrowedBooks); err != nil {
					return err
				}
				membershipDate = sql.NullString{String: models.FormatDate(v.MembershipDate), Valid: true}
				fine, maxBooks = v.FineAmount, v.MaxBooks
			}
			if _, err := stmt.ExecContext(ctx, base.PersonID, string(u.Role()), base.Name, base.Email, base.Phone,
				base.IsActive, adminLevel, permissions, employeeID, shift, booksIssued,
				membershipDate, borrowedBooks, fine, maxBooks); err != nil {
				return fmt.Errorf("user %d: %w", base.PersonID, err)
			}
		}
		return nil
	})
}

// LoadTransactions returns the ledger ordered by id
func (s *SQLiteDB) LoadTransactions(ctx context.Context) ([]models.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, `
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
			date       string
			due        sql.NullString
			returned   sql.NullString
			period     int
			borrowTxID sql.NullInt64
		)
		if err := rows.Scan(&base.TransactionID, &kind, &base.BookID, &base.MemberID, &date,
			&due, &returned, &base.FineAmount, &period, &borrowTxID); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		if base.TransactionDate, err = models.ParseDate(date); err != nil {
			return nil, fmt.Errorf("transaction %d: bad transaction_date: %w", base.TransactionID, err)
		}
		if base.DueDate, err = parseNullDate(due); err != nil {
			return nil, fmt.Errorf("transaction %d: bad due_date: %w", base.TransactionID, err)
		}
		if base.ReturnDate, err = parseNullDate(returned); err != nil {
			return nil, fmt.Errorf("transaction %d: bad return_date: %w", base.TransactionID, err)
		}

		switch models.TransactionType(kind) {
		case models.TransactionBorrow:
			txs = append(txs, &models.BorrowTransaction{TransactionBase: base, BorrowPeriod: period})
		case models.TransactionReturn:
			txs = append(txs, &models.ReturnTransaction{TransactionBase: base, BorrowTransactionID: borrowTxID.Int64})
		default:
			return nil, fmt.Errorf("transaction %d: unknown transaction_type %q", base.TransactionID, kind)
		}
	}
	return txs, rows.Err()
}

// SaveTransactions replaces the transactions table
func (s *SQLiteDB) SaveTransactions(ctx context.Context, txs []models.Transaction) error {
	return s.replace(ctx, "transactions", func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO transactions (transaction_id, transaction_type, book_id, member_id, transaction_date,
			                          due_date, return_date, fine_amount, borrow_period, borrow_transaction_id)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, t := range txs {
			base := t.Base()
			var (
				period     int
				borrowTxID sql.NullInt64
			)
			switch v := t.(type) {
			case *models.BorrowTransaction:
				period = v.BorrowPeriod
			case *models.ReturnTransaction:
				borrowTxID = sql.NullInt64{Int64: v.BorrowTransactionID, Valid: true}
			}
			if _, err := stmt.ExecContext(ctx, base.TransactionID, string(t.Type()), base.BookID, base.MemberID,
				models.FormatDate(base.TransactionDate), nullDate(base.DueDate), nullDate(base.ReturnDate),
				base.FineAmount, period, borrowTxID); err != nil {
				return fmt.Errorf("transaction %d: %w", base.TransactionID, err)
			}
		}
		return nil
	})
}

// Close closes the database connection
func (s *SQLiteDB) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// replace empties table and refills it with insert inside one transaction
func (s *SQLiteDB) replace(ctx context.Context, table string, insert func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
		return fmt.Errorf("failed to clear %s: %w", table, err)
	}
	if err := insert(tx); err != nil {
		return fmt.Errorf("failed to save %s: %w", table, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit %s: %w", table, err)
	}
	return nil
}

func nullInt(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func nullDate(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: models.FormatDate(*t), Valid: true}
}

func parseNullDate(s sql.NullString) (*time.Time, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	d, err := models.ParseDate(s.String)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
