package lending

import "librarydesk/internal/models"

// Books returns a snapshot of the catalog in insertion order
func (l *Library) Books() []*models.Book {
	l.mu.RLock()
	defer l.mu.RUnlock()

	books := make([]*models.Book, 0, len(l.books))
	for _, b := range l.books {
		books = append(books, b.Copy())
	}
	return books
}

// Book returns a copy of one book
func (l *Library) Book(id int64) (*models.Book, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	_, b := l.findBook(id)
	if b == nil {
		return nil, fail(ErrBookNotFound, "")
	}
	return b.Copy(), nil
}

// Users returns a snapshot of every registered person
func (l *Library) Users() []models.Person {
	l.mu.RLock()
	defer l.mu.RUnlock()

	users := make([]models.Person, 0, len(l.users))
	for _, u := range l.users {
		users = append(users, u.ClonePerson())
	}
	return users
}

// User returns a copy of one person
func (l *Library) User(id int64) (models.Person, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	_, u := l.findUser(id)
	if u == nil {
		return nil, fail(ErrUserNotFound, "")
	}
	return u.ClonePerson(), nil
}

// Members returns a snapshot of the members only
func (l *Library) Members() []*models.Member {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var members []*models.Member
	for _, u := range l.users {
		if m, ok := u.(*models.Member); ok {
			members = append(members, m.ClonePerson().(*models.Member))
		}
	}
	return members
}

// Transactions returns a snapshot of the ledger in the order it was written
func (l *Library) Transactions() []models.Transaction {
	l.mu.RLock()
	defer l.mu.RUnlock()

	txs := make([]models.Transaction, 0, len(l.transactions))
	for _, tx := range l.transactions {
		txs = append(txs, tx.CloneTransaction())
	}
	return txs
}

// MemberBorrowedBooks resolves the books a member currently holds.
// Ids that no longer resolve are skipped; an unknown member holds nothing.
func (l *Library) MemberBorrowedBooks(memberID int64) []*models.Book {
	l.mu.RLock()
	defer l.mu.RUnlock()

	member := l.findMember(memberID)
	if member == nil {
		return nil
	}
	var books []*models.Book
	for _, id := range member.BorrowedBooks {
		if _, b := l.findBook(id); b != nil {
			books = append(books, b.Copy())
		}
	}
	return books
}

// MemberTransactions returns every ledger entry for a member in ledger order
func (l *Library) MemberTransactions(memberID int64) []models.Transaction {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var txs []models.Transaction
	for _, tx := range l.transactions {
		if tx.Base().MemberID == memberID {
			txs = append(txs, tx.CloneTransaction())
		}
	}
	return txs
}
