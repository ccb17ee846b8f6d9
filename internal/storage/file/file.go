// Package file stores the library as three JSON documents in a data directory.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"librarydesk/internal/models"
)

const (
	booksFile        = "books.json"
	usersFile        = "users.json"
	transactionsFile = "transactions.json"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// FileDB keeps books, users and transactions in JSON files under dir
type FileDB struct {
	dir    string
	logger *zap.Logger
}

// NewFileDB creates a store rooted at dir. Nothing touches the disk until Initialize.
func NewFileDB(dir string, logger *zap.Logger) *FileDB {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileDB{dir: dir, logger: logger}
}

// Initialize creates the data directory if it is missing
func (db *FileDB) Initialize(ctx context.Context) error {
	if err := os.MkdirAll(db.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	return nil
}

// LoadBooks reads books.json
func (db *FileDB) LoadBooks(ctx context.Context) ([]*models.Book, error) {
	var records []bookRecord
	if err := db.read(booksFile, &records); err != nil {
		return nil, err
	}
	books := make([]*models.Book, 0, len(records))
	for _, r := range records {
		b, err := r.model()
		if err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", booksFile, err)
		}
		books = append(books, b)
	}
	return books, nil
}

// SaveBooks rewrites books.json
func (db *FileDB) SaveBooks(ctx context.Context, books []*models.Book) error {
	records := make([]bookRecord, 0, len(books))
	for _, b := range books {
		records = append(records, newBookRecord(b))
	}
	return db.write(booksFile, records)
}

// LoadUsers reads users.json
func (db *FileDB) LoadUsers(ctx context.Context) ([]models.Person, error) {
	var records []userRecord
	if err := db.read(usersFile, &records); err != nil {
		return nil, err
	}
	users := make([]models.Person, 0, len(records))
	for _, r := range records {
		p, err := r.model()
		if err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", usersFile, err)
		}
		users = append(users, p)
	}
	return users, nil
}

// SaveUsers rewrites users.json
func (db *FileDB) SaveUsers(ctx context.Context, users []models.Person) error {
	records := make([]userRecord, 0, len(users))
	for _, u := range users {
		r, err := newUserRecord(u)
		if err != nil {
			return fmt.Errorf("failed to encode %s: %w", usersFile, err)
		}
		records = append(records, r)
	}
	return db.write(usersFile, records)
}

// LoadTransactions reads transactions.json
func (db *FileDB) LoadTransactions(ctx context.Context) ([]models.Transaction, error) {
	var records []transactionRecord
	if err := db.read(transactionsFile, &records); err != nil {
		return nil, err
	}
	txs := make([]models.Transaction, 0, len(records))
	for _, r := range records {
		tx, err := r.model()
		if err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", transactionsFile, err)
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

// SaveTransactions rewrites transactions.json
func (db *FileDB) SaveTransactions(ctx context.Context, txs []models.Transaction) error {
	records := make([]transactionRecord, 0, len(txs))
	for _, tx := range txs {
		r, err := newTransactionRecord(tx)
		if err != nil {
			return fmt.Errorf("failed to encode %s: %w", transactionsFile, err)
		}
		records = append(records, r)
	}
	return db.write(transactionsFile, records)
}

// Close does nothing; files are not held open between calls
func (db *FileDB) Close() error {
	return nil
}

// read decodes name into v. A missing file leaves v empty.
func (db *FileDB) read(name string, v any) error {
	path := filepath.Join(db.dir, name)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		db.logger.Debug("Data file not found, starting empty", zap.String("path", path))
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return nil
}

// write replaces name atomically by renaming a temp file over it
func (db *FileDB) write(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}
	if err := os.MkdirAll(db.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	tmp, err := os.CreateTemp(db.dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", name, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(db.dir, name)); err != nil {
		return fmt.Errorf("failed to replace %s: %w", name, err)
	}
	return nil
}
