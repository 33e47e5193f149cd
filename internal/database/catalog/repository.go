// Package catalog provides database operations for the book catalog.
//
// A book's Quantity is the live "available now" counter: borrowing and
// issuing decrement it, returning and cancelling increment it. Every
// decrement is a single conditional UPDATE guarded by quantity > 0, so the
// counter can never go negative regardless of interleaving.
package catalog

import (
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/bookhive/bookhive/internal/entities"
)

var (
	ErrBookNotFound     = errors.New("book not found")
	ErrNotAvailable     = errors.New("no copies available")
	ErrTitleRequired    = errors.New("title is required")
	ErrNegativeQuantity = errors.New("quantity must not be negative")
)

// SeedThreshold is the catalog size below which the reference list is
// seeded at startup.
const SeedThreshold = 20

// referenceBooks is the fixed bootstrap list for an empty library.
var referenceBooks = []entities.Book{
	{Title: "To Kill a Mockingbird", Author: "Harper Lee", Quantity: 8},
	{Title: "1984", Author: "George Orwell", Quantity: 10},
	{Title: "Pride and Prejudice", Author: "Jane Austen", Quantity: 7},
	{Title: "The Great Gatsby", Author: "F. Scott Fitzgerald", Quantity: 5},
	{Title: "Moby-Dick", Author: "Herman Melville", Quantity: 6},
	{Title: "The Catcher in the Rye", Author: "J.D. Salinger", Quantity: 9},
	{Title: "War and Peace", Author: "Leo Tolstoy", Quantity: 4},
	{Title: "Crime and Punishment", Author: "Fyodor Dostoevsky", Quantity: 6},
	{Title: "The Odyssey", Author: "Homer", Quantity: 5},
	{Title: "Brave New World", Author: "Aldous Huxley", Quantity: 7},
	{Title: "The Hobbit", Author: "J.R.R. Tolkien", Quantity: 12},
	{Title: "Fahrenheit 451", Author: "Ray Bradbury", Quantity: 5},
	{Title: "Animal Farm", Author: "George Orwell", Quantity: 15},
	{Title: "Jane Eyre", Author: "Charlotte Brontë", Quantity: 6},
	{Title: "Wuthering Heights", Author: "Emily Brontë", Quantity: 5},
	{Title: "The Alchemist", Author: "Paulo Coelho", Quantity: 11},
	{Title: "The Book Thief", Author: "Markus Zusak", Quantity: 8},
	{Title: "Lord of the Flies", Author: "William Golding", Quantity: 6},
	{Title: "The Shining", Author: "Stephen King", Quantity: 4},
	{Title: "The Da Vinci Code", Author: "Dan Brown", Quantity: 10},
}

// Repository handles all catalog database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new catalog repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListBooks returns books whose title contains search as a case-sensitive
// substring, in insertion order. An empty search returns the whole catalog.
// sqlite's LIKE folds ASCII case, so substring matching goes through instr.
func (r *Repository) ListBooks(search string) ([]entities.Book, error) {
	var books []entities.Book
	query := r.db.Order("id ASC")
	if search != "" {
		query = query.Where("instr(title, ?) > 0", search)
	}
	err := query.Find(&books).Error
	return books, err
}

// GetBookByID retrieves a single book.
func (r *Repository) GetBookByID(id uint) (*entities.Book, error) {
	var book entities.Book
	err := r.db.First(&book, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}
	return &book, nil
}

// AddBook inserts a new title with the given number of available copies.
func (r *Repository) AddBook(title, author string, quantity int) (*entities.Book, error) {
	if title == "" {
		return nil, ErrTitleRequired
	}
	if quantity < 0 {
		return nil, ErrNegativeQuantity
	}

	book := &entities.Book{
		Title:    title,
		Author:   author,
		Quantity: quantity,
	}
	if err := r.db.Create(book).Error; err != nil {
		return nil, fmt.Errorf("failed to create book: %w", err)
	}
	return book, nil
}

// UpdateBook overwrites the three mutable fields of a book.
func (r *Repository) UpdateBook(id uint, title, author string, quantity int) error {
	if title == "" {
		return ErrTitleRequired
	}
	if quantity < 0 {
		return ErrNegativeQuantity
	}

	result := r.db.Model(&entities.Book{}).Where("id = ?", id).Updates(map[string]any{
		"title":    title,
		"author":   author,
		"quantity": quantity,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrBookNotFound
	}
	return nil
}

// DeleteBook removes a book row unconditionally. Outstanding loans keep
// their denormalized title and are closed without an inventory correction.
func (r *Repository) DeleteBook(id uint) error {
	return r.db.Delete(&entities.Book{}, id).Error
}

// BorrowBook takes one available copy. The decrement is a single
// conditional UPDATE guarded by quantity > 0; when no row matches the copy
// count is unchanged and ErrNotAvailable is returned. Borrowing from the
// catalog page does not create a loan record, that is the ledger's job.
func (r *Repository) BorrowBook(id uint) error {
	result := r.db.Model(&entities.Book{}).
		Where("id = ? AND quantity > 0", id).
		UpdateColumn("quantity", gorm.Expr("quantity - 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotAvailable
	}
	return nil
}

// CancelBorrow puts one copy back. There is no check that a prior borrow
// happened; the catalog page pairs it with BorrowBook client-side.
func (r *Repository) CancelBorrow(id uint) error {
	result := r.db.Model(&entities.Book{}).
		Where("id = ?", id).
		UpdateColumn("quantity", gorm.Expr("quantity + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrBookNotFound
	}
	return nil
}

// SeedCatalog populates an empty library with the reference list. It runs
// at startup, never as a side effect of a listing. Once the catalog holds
// SeedThreshold books it is a no-op; below that, each reference title is
// inserted only if absent, so admin deletions don't cause duplicates.
func (r *Repository) SeedCatalog() error {
	var count int64
	if err := r.db.Model(&entities.Book{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count books: %w", err)
	}
	if count >= SeedThreshold {
		return nil
	}

	seeded := 0
	for _, book := range referenceBooks {
		var existing entities.Book
		result := r.db.Where("title = ?", book.Title).First(&existing)
		if result.Error == nil {
			continue
		}
		if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return result.Error
		}
		if err := r.db.Create(&book).Error; err != nil {
			return fmt.Errorf("failed to seed book %q: %w", book.Title, err)
		}
		seeded++
	}
	if seeded > 0 {
		log.Printf("Seeded catalog with %d reference books", seeded)
	}
	return nil
}

// CountBooks returns the number of catalog titles and the total number of
// available copies.
func (r *Repository) CountBooks() (titles int64, copies int64, err error) {
	err = r.db.Model(&entities.Book{}).Count(&titles).Error
	if err != nil {
		return
	}
	row := r.db.Model(&entities.Book{}).Select("COALESCE(SUM(quantity), 0)").Row()
	err = row.Scan(&copies)
	return
}
