package storage

import (
	"context"

	"librarydesk/internal/models"
)

// Storage defines the interface for persisting the library collections.
// Each Save replaces the stored collection with the given one.
type Storage interface {
	// Book operations
	LoadBooks(ctx context.Context) ([]*models.Book, error)
	SaveBooks(ctx context.Context, books []*models.Book) error

	// User operations
	LoadUsers(ctx context.Context) ([]models.Person, error)
	SaveUsers(ctx context.Context, users []models.Person) error

	// Transaction operations
	LoadTransactions(ctx context.Context) ([]models.Transaction, error)
	SaveTransactions(ctx context.Context, txs []models.Transaction) error

	// Lifecycle
	Initialize(ctx context.Context) error
	Close() error
}
