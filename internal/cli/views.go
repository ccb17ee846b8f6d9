package cli

import (
	"strconv"
	"time"

	"librarydesk/internal/models"
	"librarydesk/internal/report"
)

// Views carry the stored field names so JSON/YAML output matches the data files.

type bookView struct {
	BookID          int64  `json:"book_id" yaml:"book_id"`
	Title           string `json:"title" yaml:"title"`
	Author          string `json:"author" yaml:"author"`
	ISBN            string `json:"isbn" yaml:"isbn"`
	Category        string `json:"category" yaml:"category"`
	PublicationYear string `json:"publication_year" yaml:"publication_year"`
	IsAvailable     bool   `json:"is_available" yaml:"is_available"`
	BorrowerID      *int64 `json:"borrower_id" yaml:"borrower_id"`
	TotalBorrows    int    `json:"total_borrows" yaml:"total_borrows"`
}

func newBookView(b *models.Book) bookView {
	return bookView{
		BookID:          b.BookID,
		Title:           b.Title,
		Author:          b.Author,
		ISBN:            b.ISBN,
		Category:        b.Category,
		PublicationYear: b.PublicationYear,
		IsAvailable:     b.IsAvailable(),
		BorrowerID:      b.BorrowerID,
		TotalBorrows:    b.TotalBorrows,
	}
}

func newBookViews(books []*models.Book) []bookView {
	views := make([]bookView, 0, len(books))
	for _, b := range books {
		views = append(views, newBookView(b))
	}
	return views
}

func bookTable(t *table, books []bookView) {
	t.header("ID", "TITLE", "AUTHOR", "ISBN", "CATEGORY", "YEAR", "STATUS", "BORROWS")
	for _, b := range books {
		status := "available"
		if !b.IsAvailable {
			status = "borrowed"
		}
		t.row(b.BookID, truncate(b.Title, 40), truncate(b.Author, 25), b.ISBN, b.Category, b.PublicationYear, status, b.TotalBorrows)
	}
}

type userView struct {
	PersonID int64  `json:"person_id" yaml:"person_id"`
	Role     string `json:"role" yaml:"role"`
	Name     string `json:"name" yaml:"name"`
	Email    string `json:"email" yaml:"email"`
	Phone    string `json:"phone" yaml:"phone"`
	IsActive bool   `json:"is_active" yaml:"is_active"`

	AdminLevel  string   `json:"admin_level,omitempty" yaml:"admin_level,omitempty"`
	Permissions []string `json:"permissions,omitempty" yaml:"permissions,omitempty"`

	EmployeeID  string `json:"employee_id,omitempty" yaml:"employee_id,omitempty"`
	Shift       string `json:"shift,omitempty" yaml:"shift,omitempty"`
	BooksIssued int    `json:"books_issued,omitempty" yaml:"books_issued,omitempty"`

	MembershipDate string  `json:"membership_date,omitempty" yaml:"membership_date,omitempty"`
	BorrowedBooks  []int64 `json:"borrowed_books,omitempty" yaml:"borrowed_books,omitempty"`
	FineAmount     string  `json:"fine_amount,omitempty" yaml:"fine_amount,omitempty"`
	MaxBooks       int     `json:"max_books,omitempty" yaml:"max_books,omitempty"`
}

func newUserView(p models.Person) userView {
	base := p.Base()
	v := userView{
		PersonID: base.PersonID,
		Role:     string(p.Role()),
		Name:     base.Name,
		Email:    base.Email,
		Phone:    base.Phone,
		IsActive: base.IsActive,
	}
	switch u := p.(type) {
	case *models.Admin:
		v.AdminLevel = u.AdminLevel
		v.Permissions = u.Permissions
	case *models.Librarian:
		v.EmployeeID = u.EmployeeID
		v.Shift = u.Shift
		v.BooksIssued = u.BooksIssued
	case *models.Member:
		v.MembershipDate = models.FormatDate(u.MembershipDate)
		v.BorrowedBooks = u.BorrowedBooks
		v.FineAmount = u.FineAmount.StringFixed(2)
		v.MaxBooks = u.MaxBooks
	}
	return v
}

func newUserViews(users []models.Person) []userView {
	views := make([]userView, 0, len(users))
	for _, u := range users {
		views = append(views, newUserView(u))
	}
	return views
}

func userTable(t *table, users []userView) {
	t.header("ID", "ROLE", "NAME", "EMAIL", "PHONE", "ACTIVE", "DETAILS")
	for _, u := range users {
		t.row(u.PersonID, u.Role, truncate(u.Name, 25), u.Email, u.Phone, u.IsActive, userDetails(u))
	}
}

func userDetails(u userView) string {
	switch models.Role(u.Role) {
	case models.RoleAdmin:
		return "level " + u.AdminLevel
	case models.RoleLibrarian:
		return u.EmployeeID + " / " + u.Shift
	case models.RoleMember:
		return "books " + strconv.Itoa(len(u.BorrowedBooks)) + "/" + strconv.Itoa(u.MaxBooks) + ", fine $" + u.FineAmount
	}
	return ""
}

type transactionView struct {
	TransactionID       int64  `json:"transaction_id" yaml:"transaction_id"`
	TransactionType     string `json:"transaction_type" yaml:"transaction_type"`
	BookID              int64  `json:"book_id" yaml:"book_id"`
	MemberID            int64  `json:"member_id" yaml:"member_id"`
	TransactionDate     string `json:"transaction_date" yaml:"transaction_date"`
	DueDate             string `json:"due_date,omitempty" yaml:"due_date,omitempty"`
	ReturnDate          string `json:"return_date,omitempty" yaml:"return_date,omitempty"`
	FineAmount          string `json:"fine_amount" yaml:"fine_amount"`
	BorrowPeriod        int    `json:"borrow_period,omitempty" yaml:"borrow_period,omitempty"`
	BorrowTransactionID int64  `json:"borrow_transaction_id,omitempty" yaml:"borrow_transaction_id,omitempty"`
}

func formatDatePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return models.FormatDate(*t)
}

func newTransactionView(tx models.Transaction) transactionView {
	base := tx.Base()
	v := transactionView{
		TransactionID:   base.TransactionID,
		TransactionType: string(tx.Type()),
		BookID:          base.BookID,
		MemberID:        base.MemberID,
		TransactionDate: models.FormatDate(base.TransactionDate),
		DueDate:         formatDatePtr(base.DueDate),
		ReturnDate:      formatDatePtr(base.ReturnDate),
		FineAmount:      base.FineAmount.StringFixed(2),
	}
	switch t := tx.(type) {
	case *models.BorrowTransaction:
		v.BorrowPeriod = t.BorrowPeriod
	case *models.ReturnTransaction:
		v.BorrowTransactionID = t.BorrowTransactionID
	}
	return v
}

func newTransactionViews(txs []models.Transaction) []transactionView {
	views := make([]transactionView, 0, len(txs))
	for _, tx := range txs {
		views = append(views, newTransactionView(tx))
	}
	return views
}

func transactionTable(t *table, txs []transactionView) {
	t.header("ID", "TYPE", "BOOK", "MEMBER", "DATE", "DUE", "RETURNED", "FINE")
	for _, tx := range txs {
		t.row(tx.TransactionID, tx.TransactionType, tx.BookID, tx.MemberID, tx.TransactionDate,
			dash(tx.DueDate), dash(tx.ReturnDate), "$"+tx.FineAmount)
	}
}

type overdueView struct {
	TransactionID int64  `json:"transaction_id" yaml:"transaction_id"`
	BookID        int64  `json:"book_id" yaml:"book_id"`
	Title         string `json:"title" yaml:"title"`
	MemberID      int64  `json:"member_id" yaml:"member_id"`
	MemberName    string `json:"member_name" yaml:"member_name"`
	DueDate       string `json:"due_date" yaml:"due_date"`
	DaysOverdue   int    `json:"days_overdue" yaml:"days_overdue"`
}

func newOverdueViews(entries []report.OverdueEntry) []overdueView {
	views := make([]overdueView, 0, len(entries))
	for _, e := range entries {
		views = append(views, overdueView{
			TransactionID: e.Transaction.TransactionID,
			BookID:        e.Book.BookID,
			Title:         e.Book.Title,
			MemberID:      e.Member.PersonID,
			MemberName:    e.Member.Name,
			DueDate:       formatDatePtr(e.Transaction.DueDate),
			DaysOverdue:   e.DaysOverdue,
		})
	}
	return views
}

type memberFineView struct {
	MemberID   int64  `json:"member_id" yaml:"member_id"`
	Name       string `json:"name" yaml:"name"`
	FineAmount string `json:"fine_amount" yaml:"fine_amount"`
}

type fineReportView struct {
	Total   string           `json:"total" yaml:"total"`
	Members []memberFineView `json:"members" yaml:"members"`
}

func newFineReportView(s report.FineSummary) fineReportView {
	v := fineReportView{Total: s.Total.StringFixed(2), Members: []memberFineView{}}
	for _, m := range s.Members {
		v.Members = append(v.Members, memberFineView{
			MemberID:   m.Member.PersonID,
			Name:       m.Member.Name,
			FineAmount: m.Amount.StringFixed(2),
		})
	}
	return v
}

type categoryView struct {
	Category string `json:"category" yaml:"category"`
	Count    int    `json:"count" yaml:"count"`
}

type activeMemberView struct {
	MemberID      int64  `json:"member_id" yaml:"member_id"`
	Name          string `json:"name" yaml:"name"`
	BorrowedBooks int    `json:"borrowed_books" yaml:"borrowed_books"`
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
