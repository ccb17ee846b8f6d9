// Package lending implements the circulation desk: the catalog, the people who use it
// and the ledger of loans, with the rules that keep the three consistent.
package lending

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"librarydesk/internal/models"
	"librarydesk/internal/storage"
)

// Library owns the in-memory catalog, users and ledger and writes them through
// to storage after every change. Mutators are serialized by mu.
type Library struct {
	mu     sync.RWMutex
	store  storage.Storage
	cfg    Config
	logger *zap.Logger
	now    func() time.Time

	books        []*models.Book
	users        []models.Person
	transactions []models.Transaction

	nextBookID        int64
	nextPersonID      int64
	nextTransactionID int64
}

// New creates a Library and loads its state from store
func New(ctx context.Context, store storage.Storage, cfg Config, logger *zap.Logger, opts ...Option) (*Library, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid lending config: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	l := &Library{
		store:  store,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}

	if err := l.Reload(ctx); err != nil {
		return nil, err
	}
	return l, nil
}

// Reload replaces the in-memory state with what storage holds.
// The current state is kept unless all three collections load.
func (l *Library) Reload(ctx context.Context) error {
	books, err := l.store.LoadBooks(ctx)
	if err != nil {
		return storageError("load books", err)
	}
	users, err := l.store.LoadUsers(ctx)
	if err != nil {
		return storageError("load users", err)
	}
	txs, err := l.store.LoadTransactions(ctx)
	if err != nil {
		return storageError("load transactions", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.books = books
	l.users = users
	l.transactions = txs

	l.nextBookID = 1
	for _, b := range books {
		if b.BookID >= l.nextBookID {
			l.nextBookID = b.BookID + 1
		}
	}
	l.nextPersonID = 1
	for _, u := range users {
		if id := u.Base().PersonID; id >= l.nextPersonID {
			l.nextPersonID = id + 1
		}
	}
	l.nextTransactionID = 1
	for _, tx := range txs {
		if id := tx.Base().TransactionID; id >= l.nextTransactionID {
			l.nextTransactionID = id + 1
		}
	}

	l.logger.Info("Library state loaded",
		zap.Int("books", len(books)),
		zap.Int("users", len(users)),
		zap.Int("transactions", len(txs)))
	return nil
}

// Config returns the lending policy in force
func (l *Library) Config() Config {
	return l.cfg
}

// Today returns the current calendar day according to the Library clock
func (l *Library) Today() time.Time {
	return models.Day(l.now())
}

// persist writes every collection through to storage. The caller holds mu.
// A failure leaves the in-memory change in place.
func (l *Library) persist(ctx context.Context) error {
	if err := l.store.SaveBooks(ctx, l.books); err != nil {
		l.logger.Error("Failed to save books", zap.Error(err))
		return storageError("save books", err)
	}
	if err := l.store.SaveUsers(ctx, l.users); err != nil {
		l.logger.Error("Failed to save users", zap.Error(err))
		return storageError("save users", err)
	}
	if err := l.store.SaveTransactions(ctx, l.transactions); err != nil {
		l.logger.Error("Failed to save transactions", zap.Error(err))
		return storageError("save transactions", err)
	}
	return nil
}

func (l *Library) findBook(id int64) (int, *models.Book) {
	for i, b := range l.books {
		if b.BookID == id {
			return i, b
		}
	}
	return -1, nil
}

func (l *Library) findUser(id int64) (int, models.Person) {
	for i, u := range l.users {
		if u.Base().PersonID == id {
			return i, u
		}
	}
	return -1, nil
}

func (l *Library) findMember(id int64) *models.Member {
	_, u := l.findUser(id)
	m, _ := u.(*models.Member)
	return m
}

// openBorrow returns the earliest unreturned loan of bookID to memberID
func (l *Library) openBorrow(bookID, memberID int64) *models.BorrowTransaction {
	for _, tx := range l.transactions {
		b, ok := tx.(*models.BorrowTransaction)
		if ok && b.BookID == bookID && b.MemberID == memberID && b.IsOpen() {
			return b
		}
	}
	return nil
}

func (l *Library) newBookID() int64 {
	id := l.nextBookID
	l.nextBookID++
	return id
}

func (l *Library) newPersonID() int64 {
	id := l.nextPersonID
	l.nextPersonID++
	return id
}

func (l *Library) newTransactionID() int64 {
	id := l.nextTransactionID
	l.nextTransactionID++
	return id
}
