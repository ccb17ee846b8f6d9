package models

import (
	"errors"
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// Role discriminates the person variants in stored records
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleLibrarian Role = "librarian"
	RoleMember    Role = "member"
)

// DefaultMaxBooks is how many books a member may hold at once unless configured otherwise
const DefaultMaxBooks = 5

var (
	ErrBorrowLimit    = errors.New("borrow limit reached")
	ErrNegativeFine   = errors.New("fine must not be negative")
	ErrInvalidPayment = errors.New("payment must be a positive amount of whole cents")
	ErrPaymentExceeds = errors.New("payment exceeds outstanding fine")
)

// WholeCents reports whether d has no fraction of a cent
func WholeCents(d decimal.Decimal) bool {
	return d.Equal(d.Round(2))
}

// DefaultPermissions returns the capability tags granted to a new admin
func DefaultPermissions() []string {
	return []string{"add_user", "delete_user", "add_book", "delete_book", "view_reports"}
}

// Person is one of *Admin, *Librarian or *Member
type Person interface {
	Base() *PersonBase
	Role() Role
	ClonePerson() Person
	isPerson()
}

// PersonBase holds the fields shared by every kind of person
type PersonBase struct {
	PersonID int64
	Name     string
	Email    string
	Phone    string
	IsActive bool
}

func (p *PersonBase) Base() *PersonBase { return p }

func (*PersonBase) isPerson() {}

// Admin represents a system administrator
type Admin struct {
	PersonBase
	AdminLevel  string
	Permissions []string
}

// NewAdmin creates an active admin with the default permission set
func NewAdmin(id int64, name, email, phone, adminLevel string) *Admin {
	return &Admin{
		PersonBase:  PersonBase{PersonID: id, Name: name, Email: email, Phone: phone, IsActive: true},
		AdminLevel:  adminLevel,
		Permissions: DefaultPermissions(),
	}
}

func (a *Admin) Role() Role { return RoleAdmin }

// HasPermission reports whether the admin holds a capability tag
func (a *Admin) HasPermission(permission string) bool {
	return slices.Contains(a.Permissions, permission)
}

// Grant adds a capability tag if it is missing
func (a *Admin) Grant(permission string) {
	if !a.HasPermission(permission) {
		a.Permissions = append(a.Permissions, permission)
	}
}

// Revoke removes a capability tag
func (a *Admin) Revoke(permission string) {
	a.Permissions = slices.DeleteFunc(a.Permissions, func(p string) bool { return p == permission })
}

func (a *Admin) ClonePerson() Person {
	c := *a
	c.Permissions = slices.Clone(a.Permissions)
	return &c
}

// Librarian represents library staff
type Librarian struct {
	PersonBase
	EmployeeID  string
	Shift       string
	BooksIssued int
}

// NewLibrarian creates an active librarian
func NewLibrarian(id int64, name, email, phone, employeeID, shift string) *Librarian {
	return &Librarian{
		PersonBase: PersonBase{PersonID: id, Name: name, Email: email, Phone: phone, IsActive: true},
		EmployeeID: employeeID,
		Shift:      shift,
	}
}

func (l *Librarian) Role() Role { return RoleLibrarian }

func (l *Librarian) ClonePerson() Person {
	c := *l
	return &c
}

// Member represents a library patron who can borrow books.
// BorrowedBooks never exceeds MaxBooks and FineAmount is never negative.
type Member struct {
	PersonBase
	MembershipDate time.Time
	BorrowedBooks  []int64
	FineAmount     decimal.Decimal
	MaxBooks       int
}

// NewMember creates an active member without loans or fines
func NewMember(id int64, name, email, phone string, membershipDate time.Time, maxBooks int) *Member {
	if maxBooks <= 0 {
		maxBooks = DefaultMaxBooks
	}
	return &Member{
		PersonBase:     PersonBase{PersonID: id, Name: name, Email: email, Phone: phone, IsActive: true},
		MembershipDate: Day(membershipDate),
		BorrowedBooks:  []int64{},
		FineAmount:     decimal.Zero,
		MaxBooks:       maxBooks,
	}
}

func (m *Member) Role() Role { return RoleMember }

// CanBorrowMore reports whether the member is below the loan limit
func (m *Member) CanBorrowMore() bool {
	return len(m.BorrowedBooks) < m.MaxBooks
}

// Holds reports whether the book is among the member's loans
func (m *Member) Holds(bookID int64) bool {
	return slices.Contains(m.BorrowedBooks, bookID)
}

// HoldBook records a loan. Holding the same book twice is a no-op.
func (m *Member) HoldBook(bookID int64) error {
	if m.Holds(bookID) {
		return nil
	}
	if !m.CanBorrowMore() {
		return ErrBorrowLimit
	}
	m.BorrowedBooks = append(m.BorrowedBooks, bookID)
	return nil
}

// ReleaseBook drops a loan and reports whether it was held
func (m *Member) ReleaseBook(bookID int64) bool {
	i := slices.Index(m.BorrowedBooks, bookID)
	if i < 0 {
		return false
	}
	m.BorrowedBooks = slices.Delete(m.BorrowedBooks, i, i+1)
	return true
}

// HasFines reports whether any amount is outstanding
func (m *Member) HasFines() bool {
	return m.FineAmount.IsPositive()
}

// AddFine accrues a late fee
func (m *Member) AddFine(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return ErrNegativeFine
	}
	m.FineAmount = m.FineAmount.Add(amount)
	return nil
}

// PayFine settles part or all of the outstanding balance
func (m *Member) PayFine(amount decimal.Decimal) error {
	if !amount.IsPositive() || !WholeCents(amount) {
		return ErrInvalidPayment
	}
	if amount.GreaterThan(m.FineAmount) {
		return ErrPaymentExceeds
	}
	m.FineAmount = m.FineAmount.Sub(amount)
	return nil
}

func (m *Member) ClonePerson() Person {
	c := *m
	c.BorrowedBooks = slices.Clone(m.BorrowedBooks)
	return &c
}
