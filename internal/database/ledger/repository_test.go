package ledger

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/bookhive/bookhive/internal/entities"
)

func setupTestDB(t *testing.T) (*gorm.DB, *Repository, func()) {
	dbPath := "./test_ledger_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.Book{}, &entities.Member{}, &entities.Loan{})
	require.NoError(t, err)

	repo := NewRepository(db)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return db, repo, cleanup
}

func createTestMember(t *testing.T, db *gorm.DB, name string) *entities.Member {
	member := &entities.Member{Name: name, Email: name + "@example.com"}
	require.NoError(t, db.Create(member).Error)
	return member
}

func createTestBook(t *testing.T, db *gorm.DB, title string, quantity int) *entities.Book {
	book := &entities.Book{Title: title, Author: "Test Author", Quantity: quantity}
	require.NoError(t, db.Create(book).Error)
	return book
}

func bookQuantity(t *testing.T, db *gorm.DB, id uint) int {
	var book entities.Book
	require.NoError(t, db.First(&book, id).Error)
	return book.Quantity
}

func TestRepository_IssueLoan(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	alice := createTestMember(t, db, "Alice")
	book := createTestBook(t, db, "1984", 10)

	loan, err := repo.IssueLoan(alice.ID, book.ID)

	require.NoError(t, err)
	assert.Equal(t, entities.LoanStatusBorrowed, loan.Status)
	assert.Equal(t, "Alice", loan.MemberName)
	assert.Equal(t, "1984", loan.BookTitle)
	assert.Equal(t, 9, bookQuantity(t, db, book.ID))
}

func TestRepository_IssueLoan_NoStockCreatesNothing(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	alice := createTestMember(t, db, "Alice")
	book := createTestBook(t, db, "1984", 0)

	_, err := repo.IssueLoan(alice.ID, book.ID)

	assert.ErrorIs(t, err, ErrNotAvailable)
	assert.Equal(t, 0, bookQuantity(t, db, book.ID))

	var count int64
	db.Model(&entities.Loan{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestRepository_IssueLoan_UnknownMember(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	book := createTestBook(t, db, "1984", 5)

	_, err := repo.IssueLoan(999, book.ID)

	assert.ErrorIs(t, err, ErrMemberNotFound)
	assert.Equal(t, 5, bookQuantity(t, db, book.ID))
}

func TestRepository_IssueLoan_UnknownBook(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	alice := createTestMember(t, db, "Alice")

	_, err := repo.IssueLoan(alice.ID, 999)

	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestRepository_ReturnLoan(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	alice := createTestMember(t, db, "Alice")
	book := createTestBook(t, db, "1984", 1)

	loan, err := repo.IssueLoan(alice.ID, book.ID)
	require.NoError(t, err)
	require.Equal(t, 0, bookQuantity(t, db, book.ID))

	returned, err := repo.ReturnLoan(loan.ID)

	require.NoError(t, err)
	assert.Equal(t, entities.LoanStatusReturned, returned.Status)
	assert.Equal(t, 1, bookQuantity(t, db, book.ID))
}

func TestRepository_ReturnLoan_TwiceIsRejected(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	alice := createTestMember(t, db, "Alice")
	book := createTestBook(t, db, "1984", 1)

	loan, err := repo.IssueLoan(alice.ID, book.ID)
	require.NoError(t, err)

	_, err = repo.ReturnLoan(loan.ID)
	require.NoError(t, err)

	_, err = repo.ReturnLoan(loan.ID)

	assert.ErrorIs(t, err, ErrAlreadyReturned)
	// Inventory must not be double-incremented.
	assert.Equal(t, 1, bookQuantity(t, db, book.ID))
}

func TestRepository_ReturnLoan_NotFound(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.ReturnLoan(999)

	assert.ErrorIs(t, err, ErrLoanNotFound)
}

func TestRepository_ReturnLoan_BookDeletedMeanwhile(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	alice := createTestMember(t, db, "Alice")
	book := createTestBook(t, db, "Doomed", 1)

	loan, err := repo.IssueLoan(alice.ID, book.ID)
	require.NoError(t, err)

	require.NoError(t, db.Delete(&entities.Book{}, book.ID).Error)

	returned, err := repo.ReturnLoan(loan.ID)

	require.NoError(t, err)
	assert.Equal(t, entities.LoanStatusReturned, returned.Status)

	var count int64
	db.Model(&entities.Book{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestRepository_ListLoans_NewestFirst(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	alice := createTestMember(t, db, "Alice")
	first := createTestBook(t, db, "First", 5)
	second := createTestBook(t, db, "Second", 5)

	_, err := repo.IssueLoan(alice.ID, first.ID)
	require.NoError(t, err)
	_, err = repo.IssueLoan(alice.ID, second.ID)
	require.NoError(t, err)

	loans, err := repo.ListLoans("")

	require.NoError(t, err)
	require.Len(t, loans, 2)
	assert.Equal(t, "Second", loans[0].BookTitle)
	assert.Equal(t, "First", loans[1].BookTitle)
}

func TestRepository_ListLoans_SearchMatchesMemberOrTitle(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	alice := createTestMember(t, db, "Alice")
	bob := createTestMember(t, db, "Bob")
	orwell := createTestBook(t, db, "1984", 5)
	tolkien := createTestBook(t, db, "The Hobbit", 5)

	_, err := repo.IssueLoan(alice.ID, orwell.ID)
	require.NoError(t, err)
	_, err = repo.IssueLoan(bob.ID, tolkien.ID)
	require.NoError(t, err)

	byMember, err := repo.ListLoans("Alice")
	require.NoError(t, err)
	require.Len(t, byMember, 1)
	assert.Equal(t, "1984", byMember[0].BookTitle)

	byTitle, err := repo.ListLoans("Hobbit")
	require.NoError(t, err)
	require.Len(t, byTitle, 1)
	assert.Equal(t, "Bob", byTitle[0].MemberName)
}

func TestRepository_ListLoans_SurvivesRosterDeletion(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	alice := createTestMember(t, db, "Alice")
	book := createTestBook(t, db, "1984", 5)

	_, err := repo.IssueLoan(alice.ID, book.ID)
	require.NoError(t, err)

	require.NoError(t, db.Delete(&entities.Member{}, alice.ID).Error)

	loans, err := repo.ListLoans("Alice")
	require.NoError(t, err)
	require.Len(t, loans, 1)
	assert.Equal(t, "Alice", loans[0].MemberName)
}

func TestRepository_CountLoans(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	alice := createTestMember(t, db, "Alice")
	book := createTestBook(t, db, "1984", 5)

	first, err := repo.IssueLoan(alice.ID, book.ID)
	require.NoError(t, err)
	_, err = repo.IssueLoan(alice.ID, book.ID)
	require.NoError(t, err)

	_, err = repo.ReturnLoan(first.ID)
	require.NoError(t, err)

	outstanding, returned, err := repo.CountLoans()

	require.NoError(t, err)
	assert.Equal(t, int64(1), outstanding)
	assert.Equal(t, int64(1), returned)
}
