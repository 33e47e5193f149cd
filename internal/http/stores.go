package http

import (
	"github.com/bookhive/bookhive/internal/entities"
)

// CatalogStore is the catalog surface the book pages need.
type CatalogStore interface {
	ListBooks(search string) ([]entities.Book, error)
	GetBookByID(id uint) (*entities.Book, error)
	AddBook(title, author string, quantity int) (*entities.Book, error)
	UpdateBook(id uint, title, author string, quantity int) error
	DeleteBook(id uint) error
	BorrowBook(id uint) error
	CancelBorrow(id uint) error
	CountBooks() (titles int64, copies int64, err error)
}

// RosterStore is the membership surface the member pages need.
type RosterStore interface {
	ListMembers(search string) ([]entities.Member, error)
	AddMember(name, email string) (*entities.Member, error)
	DeleteMember(id uint) error
	CountMembers() (int64, error)
}

// LedgerStore is the loan surface the circulation pages need.
type LedgerStore interface {
	IssueLoan(memberID, bookID uint) (*entities.Loan, error)
	ReturnLoan(id uint) (*entities.Loan, error)
	ListLoans(search string) ([]entities.Loan, error)
	CountLoans() (outstanding int64, returned int64, err error)
}
