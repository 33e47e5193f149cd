package entities

import (
	"time"
)

type UserRole string

const (
	UserRoleAdmin  UserRole = "admin"
	UserRoleMember UserRole = "member"
)

type LoanStatus string

const (
	LoanStatusBorrowed LoanStatus = "borrowed"
	LoanStatusReturned LoanStatus = "returned"
)

// User is an account of the access gateway. Only the resolved Role is
// consumed by the catalog, roster and ledger handlers.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;size:100" json:"username"`
	Email        string    `gorm:"size:255" json:"email,omitempty"`
	PasswordHash string    `gorm:"size:255" json:"-"`
	Role         UserRole  `gorm:"size:20;default:'member'" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	LastLoginAt      *time.Time `json:"last_login_at,omitempty"`
	FailedLoginCount int        `gorm:"default:0" json:"-"`
	LockedUntil      *time.Time `json:"-"`
}

// Book is one catalog title. Quantity is the number of copies available
// for borrowing right now, not the number of copies owned: it is
// decremented on issue/borrow and incremented on return/cancel.
type Book struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"index;size:512" json:"title"`
	Author    string    `gorm:"size:256" json:"author"`
	Quantity  int       `gorm:"not null;default:0" json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Member is a borrower on the roster.
type Member struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"index;size:256" json:"name"`
	Email     string    `gorm:"size:255" json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Loan records a single issue event and its eventual return. MemberName and
// BookTitle are denormalized copies taken at issue time so the ledger stays
// readable and searchable after the member or book row is deleted.
type Loan struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	MemberID   uint       `gorm:"index" json:"member_id"`
	BookID     uint       `gorm:"index" json:"book_id"`
	MemberName string     `gorm:"index;size:256" json:"member_name"`
	BookTitle  string     `gorm:"index;size:512" json:"book_title"`
	Status     LoanStatus `gorm:"size:20;default:'borrowed'" json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

func (Book) TableName() string {
	return "books"
}

func (Member) TableName() string {
	return "members"
}

// Loans keep the legacy table name: the ledger has always been the
// "transactions" table.
func (Loan) TableName() string {
	return "transactions"
}
