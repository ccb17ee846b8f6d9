// Package search filters catalog and user snapshots. Nothing here mutates its input.
package search

import (
	"strings"

	"librarydesk/internal/models"
)

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func filterBooks(books []*models.Book, keep func(*models.Book) bool) []*models.Book {
	var out []*models.Book
	for _, b := range books {
		if keep(b) {
			out = append(out, b)
		}
	}
	return out
}

// BooksByTitle matches a case-insensitive substring of the title
func BooksByTitle(books []*models.Book, query string) []*models.Book {
	return filterBooks(books, func(b *models.Book) bool { return containsFold(b.Title, query) })
}

// BooksByAuthor matches a case-insensitive substring of the author
func BooksByAuthor(books []*models.Book, query string) []*models.Book {
	return filterBooks(books, func(b *models.Book) bool { return containsFold(b.Author, query) })
}

// BooksByCategory matches the whole category, ignoring case
func BooksByCategory(books []*models.Book, category string) []*models.Book {
	return filterBooks(books, func(b *models.Book) bool { return strings.EqualFold(b.Category, category) })
}

// BookByISBN returns the first book with exactly this ISBN
func BookByISBN(books []*models.Book, isbn string) (*models.Book, bool) {
	for _, b := range books {
		if b.ISBN == isbn {
			return b, true
		}
	}
	return nil, false
}

func AvailableBooks(books []*models.Book) []*models.Book {
	return filterBooks(books, (*models.Book).IsAvailable)
}

func BorrowedBooks(books []*models.Book) []*models.Book {
	return filterBooks(books, func(b *models.Book) bool { return !b.IsAvailable() })
}

// UserByID returns the person with this id
func UserByID(users []models.Person, id int64) (models.Person, bool) {
	for _, u := range users {
		if u.Base().PersonID == id {
			return u, true
		}
	}
	return nil, false
}

// UsersByName matches a case-insensitive substring of the name
func UsersByName(users []models.Person, query string) []models.Person {
	var out []models.Person
	for _, u := range users {
		if containsFold(u.Base().Name, query) {
			out = append(out, u)
		}
	}
	return out
}

// MembersWithFines returns the members who owe anything
func MembersWithFines(users []models.Person) []*models.Member {
	var out []*models.Member
	for _, u := range users {
		if m, ok := u.(*models.Member); ok && m.HasFines() {
			out = append(out, m)
		}
	}
	return out
}
