package lending

import (
	"context"
	"slices"
	"strings"

	"go.uber.org/zap"

	"librarydesk/internal/models"
	"librarydesk/internal/validator"
)

// BookUpdate lists the editable book fields. Nil or empty fields are left unchanged.
type BookUpdate struct {
	Title    *string
	Author   *string
	Category *string
}

// AddBook validates and catalogs a new, available book
func (l *Library) AddBook(ctx context.Context, title, author, isbn, category, year string) (*models.Book, error) {
	switch {
	case !validator.NonEmpty(title):
		return nil, fail(ErrInvalidInput, "Title cannot be empty")
	case !validator.NonEmpty(author):
		return nil, fail(ErrInvalidInput, "Author cannot be empty")
	case !validator.ISBN(isbn):
		return nil, fail(ErrInvalidInput, "Invalid ISBN format")
	case !validator.YearAt(year, l.now()):
		return nil, fail(ErrInvalidInput, "Invalid publication year")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	book := models.NewBook(l.newBookID(), strings.TrimSpace(title), strings.TrimSpace(author),
		strings.TrimSpace(isbn), strings.TrimSpace(category), strings.TrimSpace(year))
	l.books = append(l.books, book)

	l.logger.Info("Book added", zap.Int64("book_id", book.BookID), zap.String("title", book.Title))

	if err := l.persist(ctx); err != nil {
		return book.Copy(), err
	}
	return book.Copy(), nil
}

// RemoveBook drops a book from the catalog unless it is on loan
func (l *Library) RemoveBook(ctx context.Context, bookID int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	i, book := l.findBook(bookID)
	if book == nil {
		return fail(ErrBookNotFound, "")
	}
	if !book.IsAvailable() {
		return fail(ErrBookCurrentlyBorrowed, "")
	}
	l.books = slices.Delete(l.books, i, i+1)

	l.logger.Info("Book removed", zap.Int64("book_id", bookID))
	return l.persist(ctx)
}

// UpdateBook edits the title, author or category of a book
func (l *Library) UpdateBook(ctx context.Context, bookID int64, upd BookUpdate) (*models.Book, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	_, book := l.findBook(bookID)
	if book == nil {
		return nil, fail(ErrBookNotFound, "")
	}
	if upd.Title != nil && validator.NonEmpty(*upd.Title) {
		book.Title = strings.TrimSpace(*upd.Title)
	}
	if upd.Author != nil && validator.NonEmpty(*upd.Author) {
		book.Author = strings.TrimSpace(*upd.Author)
	}
	if upd.Category != nil && validator.NonEmpty(*upd.Category) {
		book.Category = strings.TrimSpace(*upd.Category)
	}

	l.logger.Info("Book updated", zap.Int64("book_id", bookID))

	if err := l.persist(ctx); err != nil {
		return book.Copy(), err
	}
	return book.Copy(), nil
}

func checkContact(email, phone string) error {
	if !validator.Email(email) {
		return fail(ErrInvalidInput, "Invalid email format")
	}
	if !validator.Phone(phone) {
		return fail(ErrInvalidInput, "Invalid phone format")
	}
	return nil
}

// AddAdmin registers an administrator with the default permission set
func (l *Library) AddAdmin(ctx context.Context, name, email, phone, level string) (*models.Admin, error) {
	if err := checkContact(email, phone); err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	admin := models.NewAdmin(l.newPersonID(), name, email, phone, level)
	return admin.ClonePerson().(*models.Admin), l.addUser(ctx, admin)
}

// AddLibrarian registers a member of staff
func (l *Library) AddLibrarian(ctx context.Context, name, email, phone, employeeID, shift string) (*models.Librarian, error) {
	if err := checkContact(email, phone); err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	librarian := models.NewLibrarian(l.newPersonID(), name, email, phone, employeeID, shift)
	return librarian.ClonePerson().(*models.Librarian), l.addUser(ctx, librarian)
}

// AddMember registers a patron whose membership starts today
func (l *Library) AddMember(ctx context.Context, name, email, phone string) (*models.Member, error) {
	if err := checkContact(email, phone); err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	member := models.NewMember(l.newPersonID(), name, email, phone, l.now(), l.cfg.MaxBooks)
	return member.ClonePerson().(*models.Member), l.addUser(ctx, member)
}

// addUser appends and persists a new person. The caller holds mu.
func (l *Library) addUser(ctx context.Context, p models.Person) error {
	l.users = append(l.users, p)
	l.logger.Info("User added",
		zap.Int64("person_id", p.Base().PersonID),
		zap.String("role", string(p.Role())))
	return l.persist(ctx)
}

// RemoveUser deletes a person unless they are a member still holding books
func (l *Library) RemoveUser(ctx context.Context, personID int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	i, user := l.findUser(personID)
	if user == nil {
		return fail(ErrUserNotFound, "")
	}
	if m, ok := user.(*models.Member); ok && len(m.BorrowedBooks) > 0 {
		return fail(ErrMemberHasBorrowedBooks, "")
	}
	l.users = slices.Delete(l.users, i, i+1)

	l.logger.Info("User removed", zap.Int64("person_id", personID))
	return l.persist(ctx)
}
