package stubs

import (
	"context"
	"sync"

	"librarydesk/internal/models"
)

// MockDB is an in-memory implementation of the Storage interface for testing
type MockDB struct {
	mu           sync.RWMutex
	books        []*models.Book
	users        []models.Person
	transactions []models.Transaction
	saves        int

	loadErr error
	saveErr error
}

// NewMockDB creates a new mock database
func NewMockDB() *MockDB {
	return &MockDB{}
}

// Initialize is a no-op; the mock starts empty
func (m *MockDB) Initialize(ctx context.Context) error {
	return nil
}

// SetLoadError makes every following Load call fail with err
func (m *MockDB) SetLoadError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadErr = err
}

// SetSaveError makes every following Save call fail with err
func (m *MockDB) SetSaveError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveErr = err
}

// Saves returns how many Save calls succeeded
func (m *MockDB) Saves() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.saves
}

// LoadBooks returns copies of the stored books
func (m *MockDB) LoadBooks(ctx context.Context) ([]*models.Book, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.loadErr != nil {
		return nil, m.loadErr
	}
	books := make([]*models.Book, 0, len(m.books))
	for _, b := range m.books {
		books = append(books, b.Copy())
	}
	return books, nil
}

// SaveBooks replaces the stored books with copies of the given ones
func (m *MockDB) SaveBooks(ctx context.Context, books []*models.Book) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.saveErr != nil {
		return m.saveErr
	}
	m.books = make([]*models.Book, 0, len(books))
	for _, b := range books {
		m.books = append(m.books, b.Copy())
	}
	m.saves++
	return nil
}

// LoadUsers returns copies of the stored users
func (m *MockDB) LoadUsers(ctx context.Context) ([]models.Person, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.loadErr != nil {
		return nil, m.loadErr
	}
	users := make([]models.Person, 0, len(m.users))
	for _, u := range m.users {
		users = append(users, u.ClonePerson())
	}
	return users, nil
}

// SaveUsers replaces the stored users with copies of the given ones
func (m *MockDB) SaveUsers(ctx context.Context, users []models.Person) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.saveErr != nil {
		return m.saveErr
	}
	m.users = make([]models.Person, 0, len(users))
	for _, u := range users {
		m.users = append(m.users, u.ClonePerson())
	}
	m.saves++
	return nil
}

// LoadTransactions returns copies of the stored transactions
func (m *MockDB) LoadTransactions(ctx context.Context) ([]models.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.loadErr != nil {
		return nil, m.loadErr
	}
	txs := make([]models.Transaction, 0, len(m.transactions))
	for _, tx := range m.transactions {
		txs = append(txs, tx.CloneTransaction())
	}
	return txs, nil
}

// SaveTransactions replaces the stored transactions with copies of the given ones
func (m *MockDB) SaveTransactions(ctx context.Context, txs []models.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.saveErr != nil {
		return m.saveErr
	}
	m.transactions = make([]models.Transaction, 0, len(txs))
	for _, tx := range txs {
		m.transactions = append(m.transactions, tx.CloneTransaction())
	}
	m.saves++
	return nil
}

// Close does nothing for mock
func (m *MockDB) Close() error {
	return nil
}
