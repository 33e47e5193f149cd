// Package ledger provides database operations for the loan ledger.
//
// Issuing and returning each touch two tables (the loan row and the book's
// available-quantity counter), so both run inside a single transaction:
// either the loan changes and the counter moves together, or neither does.
package ledger

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/bookhive/bookhive/internal/entities"
)

var (
	ErrMemberNotFound  = errors.New("member not found")
	ErrBookNotFound    = errors.New("book not found")
	ErrNotAvailable    = errors.New("no copies available")
	ErrLoanNotFound    = errors.New("loan not found")
	ErrAlreadyReturned = errors.New("loan already returned")
)

// Repository handles all ledger database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new ledger repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// IssueLoan records a loan of one copy of a book to a member. Member and
// book must exist; the decrement is guarded by quantity > 0 and no loan row
// is created when the book has no available copies. The member name and
// book title are copied onto the loan so the ledger survives later roster
// or catalog deletions.
func (r *Repository) IssueLoan(memberID, bookID uint) (*entities.Loan, error) {
	var loan *entities.Loan

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var member entities.Member
		if err := tx.First(&member, memberID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrMemberNotFound
			}
			return err
		}

		var book entities.Book
		if err := tx.First(&book, bookID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookNotFound
			}
			return err
		}

		result := tx.Model(&entities.Book{}).
			Where("id = ? AND quantity > 0", bookID).
			UpdateColumn("quantity", gorm.Expr("quantity - 1"))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotAvailable
		}

		loan = &entities.Loan{
			MemberID:   member.ID,
			BookID:     book.ID,
			MemberName: member.Name,
			BookTitle:  book.Title,
			Status:     entities.LoanStatusBorrowed,
		}
		if err := tx.Create(loan).Error; err != nil {
			return fmt.Errorf("failed to create loan: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return loan, nil
}

// ReturnLoan closes a borrowed loan and puts the copy back. A loan can only
// be returned once; a second return is rejected instead of silently
// double-incrementing inventory. If the book was deleted since the issue,
// the loan is still marked returned and the inventory correction is
// skipped.
func (r *Repository) ReturnLoan(id uint) (*entities.Loan, error) {
	var loan entities.Loan

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&loan, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrLoanNotFound
			}
			return err
		}
		if loan.Status != entities.LoanStatusBorrowed {
			return ErrAlreadyReturned
		}

		if err := tx.Model(&loan).Update("status", entities.LoanStatusReturned).Error; err != nil {
			return err
		}

		// Zero rows here means the book is gone; the loan still closes.
		result := tx.Model(&entities.Book{}).
			Where("id = ?", loan.BookID).
			UpdateColumn("quantity", gorm.Expr("quantity + 1"))
		if result.Error != nil {
			return result.Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	loan.Status = entities.LoanStatusReturned
	return &loan, nil
}

// ListLoans returns loans whose member name or book title contains search
// as a substring, newest first. An empty search returns the whole ledger.
func (r *Repository) ListLoans(search string) ([]entities.Loan, error) {
	var loans []entities.Loan
	query := r.db.Order("id DESC")
	if search != "" {
		query = query.Where("instr(member_name, ?) > 0 OR instr(book_title, ?) > 0", search, search)
	}
	err := query.Find(&loans).Error
	return loans, err
}

// CountLoans returns the number of outstanding and returned loans.
func (r *Repository) CountLoans() (outstanding int64, returned int64, err error) {
	err = r.db.Model(&entities.Loan{}).
		Where("status = ?", entities.LoanStatusBorrowed).
		Count(&outstanding).Error
	if err != nil {
		return
	}
	err = r.db.Model(&entities.Loan{}).
		Where("status = ?", entities.LoanStatusReturned).
		Count(&returned).Error
	return
}
