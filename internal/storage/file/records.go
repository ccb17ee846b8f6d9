package file

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"librarydesk/internal/models"
)

// looseString decodes from either a JSON string or a JSON number
type looseString string

func (s *looseString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*s = ""
		return nil
	}
	if data[0] == '"' {
		v, err := strconv.Unquote(string(data))
		if err != nil {
			return err
		}
		*s = looseString(v)
		return nil
	}
	*s = looseString(data)
	return nil
}

type bookRecord struct {
	BookID          int64       `json:"book_id"`
	Title           string      `json:"title"`
	Author          string      `json:"author"`
	ISBN            string      `json:"isbn"`
	Category        string      `json:"category"`
	PublicationYear looseString `json:"publication_year"`
	IsAvailable     *bool       `json:"is_available"`
	BorrowerID      *int64      `json:"borrower_id"`
	TotalBorrows    int         `json:"total_borrows"`
}

func newBookRecord(b *models.Book) bookRecord {
	available := b.IsAvailable()
	return bookRecord{
		BookID:          b.BookID,
		Title:           b.Title,
		Author:          b.Author,
		ISBN:            b.ISBN,
		Category:        b.Category,
		PublicationYear: looseString(b.PublicationYear),
		IsAvailable:     &available,
		BorrowerID:      b.BorrowerID,
		TotalBorrows:    b.TotalBorrows,
	}
}

func (r bookRecord) model() (*models.Book, error) {
	if r.IsAvailable != nil && *r.IsAvailable != (r.BorrowerID == nil) {
		return nil, fmt.Errorf("book %d: is_available disagrees with borrower_id", r.BookID)
	}
	b := models.NewBook(r.BookID, r.Title, r.Author, r.ISBN, r.Category, string(r.PublicationYear))
	b.BorrowerID = r.BorrowerID
	b.TotalBorrows = r.TotalBorrows
	return b, nil
}

type userRecord struct {
	PersonID int64       `json:"person_id"`
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Phone    string      `json:"phone"`
	IsActive *bool       `json:"is_active"`
	Role     models.Role `json:"role"`

	AdminLevel  looseString `json:"admin_level,omitempty"`
	Permissions []string    `json:"permissions,omitempty"`

	EmployeeID  looseString `json:"employee_id,omitempty"`
	Shift       string      `json:"shift,omitempty"`
	BooksIssued int         `json:"books_issued,omitempty"`

	MembershipDate string           `json:"membership_date,omitempty"`
	BorrowedBooks  []int64          `json:"borrowed_books,omitempty"`
	FineAmount     *decimal.Decimal `json:"fine_amount,omitempty"`
	MaxBooks       int              `json:"max_books,omitempty"`
}

func newUserRecord(p models.Person) (userRecord, error) {
	base := p.Base()
	active := base.IsActive
	r := userRecord{
		PersonID: base.PersonID,
		Name:     base.Name,
		Email:    base.Email,
		Phone:    base.Phone,
		IsActive: &active,
		Role:     p.Role(),
	}
	switch v := p.(type) {
	case *models.Admin:
		r.AdminLevel = looseString(v.AdminLevel)
		r.Permissions = v.Permissions
	case *models.Librarian:
		r.EmployeeID = looseString(v.EmployeeID)
		r.Shift = v.Shift
		r.BooksIssued = v.BooksIssued
	case *models.Member:
		r.MembershipDate = models.FormatDate(v.MembershipDate)
		r.BorrowedBooks = v.BorrowedBooks
		if r.BorrowedBooks == nil {
			r.BorrowedBooks = []int64{}
		}
		fine := v.FineAmount
		r.FineAmount = &fine
		r.MaxBooks = v.MaxBooks
	default:
		return r, fmt.Errorf("person %d: unsupported type %T", base.PersonID, p)
	}
	return r, nil
}

func (r userRecord) model() (models.Person, error) {
	base := models.PersonBase{
		PersonID: r.PersonID,
		Name:     r.Name,
		Email:    r.Email,
		Phone:    r.Phone,
		IsActive: r.IsActive == nil || *r.IsActive,
	}

	switch r.Role {
	case models.RoleAdmin:
		perms := r.Permissions
		if perms == nil {
			perms = models.DefaultPermissions()
		}
		return &models.Admin{PersonBase: base, AdminLevel: string(r.AdminLevel), Permissions: perms}, nil
	case models.RoleLibrarian:
		return &models.Librarian{PersonBase: base, EmployeeID: string(r.EmployeeID), Shift: r.Shift, BooksIssued: r.BooksIssued}, nil
	case models.RoleMember:
		m := &models.Member{
			PersonBase:    base,
			BorrowedBooks: r.BorrowedBooks,
			FineAmount:    decimal.Zero,
			MaxBooks:      r.MaxBooks,
		}
		if m.BorrowedBooks == nil {
			m.BorrowedBooks = []int64{}
		}
		if m.MaxBooks <= 0 {
			m.MaxBooks = models.DefaultMaxBooks
		}
		if r.FineAmount != nil {
			if r.FineAmount.IsNegative() {
				return nil, fmt.Errorf("member %d: negative fine_amount", r.PersonID)
			}
			m.FineAmount = *r.FineAmount
		}
		if r.MembershipDate != "" {
			d, err := models.ParseDate(r.MembershipDate)
			if err != nil {
				return nil, fmt.Errorf("member %d: bad membership_date: %w", r.PersonID, err)
			}
			m.MembershipDate = d
		}
		return m, nil
	default:
		return nil, fmt.Errorf("person %d: unknown role %q", r.PersonID, r.Role)
	}
}

type transactionRecord struct {
	TransactionID       int64                  `json:"transaction_id"`
	BookID              int64                  `json:"book_id"`
	MemberID            int64                  `json:"member_id"`
	TransactionType     models.TransactionType `json:"transaction_type"`
	TransactionDate     string                 `json:"transaction_date"`
	DueDate             *string                `json:"due_date"`
	ReturnDate          *string                `json:"return_date"`
	FineAmount          decimal.Decimal        `json:"fine_amount"`
	BorrowPeriod        int                    `json:"borrow_period,omitempty"`
	BorrowTransactionID int64                  `json:"borrow_transaction_id,omitempty"`
}

func datePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := models.FormatDate(*t)
	return &s
}

func parseDatePtr(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := models.ParseDate(*s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func newTransactionRecord(tx models.Transaction) (transactionRecord, error) {
	base := tx.Base()
	r := transactionRecord{
		TransactionID:   base.TransactionID,
		BookID:          base.BookID,
		MemberID:        base.MemberID,
		TransactionType: tx.Type(),
		TransactionDate: models.FormatDate(base.TransactionDate),
		DueDate:         datePtr(base.DueDate),
		ReturnDate:      datePtr(base.ReturnDate),
		FineAmount:      base.FineAmount,
	}
	switch v := tx.(type) {
	case *models.BorrowTransaction:
		r.BorrowPeriod = v.BorrowPeriod
	case *models.ReturnTransaction:
		r.BorrowTransactionID = v.BorrowTransactionID
	default:
		return r, fmt.Errorf("transaction %d: unsupported type %T", base.TransactionID, tx)
	}
	return r, nil
}

func (r transactionRecord) model() (models.Transaction, error) {
	date, err := models.ParseDate(r.TransactionDate)
	if err != nil {
		return nil, fmt.Errorf("transaction %d: bad transaction_date: %w", r.TransactionID, err)
	}
	due, err := parseDatePtr(r.DueDate)
	if err != nil {
		return nil, fmt.Errorf("transaction %d: bad due_date: %w", r.TransactionID, err)
	}
	returned, err := parseDatePtr(r.ReturnDate)
	if err != nil {
		return nil, fmt.Errorf("transaction %d: bad return_date: %w", r.TransactionID, err)
	}

	base := models.TransactionBase{
		TransactionID:   r.TransactionID,
		BookID:          r.BookID,
		MemberID:        r.MemberID,
		TransactionDate: date,
		DueDate:         due,
		ReturnDate:      returned,
		FineAmount:      r.FineAmount,
	}

	switch r.TransactionType {
	case models.TransactionBorrow:
		return &models.BorrowTransaction{TransactionBase: base, BorrowPeriod: r.BorrowPeriod}, nil
	case models.TransactionReturn:
		return &models.ReturnTransaction{TransactionBase: base, BorrowTransactionID: r.BorrowTransactionID}, nil
	default:
		return nil, fmt.Errorf("transaction %d: unknown transaction_type %q", r.TransactionID, r.TransactionType)
	}
}
