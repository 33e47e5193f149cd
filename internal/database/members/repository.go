// Package members provides database operations for the borrower roster.
package members

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/bookhive/bookhive/internal/entities"
)

var (
	ErrMemberNotFound = errors.New("member not found")
	ErrNameRequired   = errors.New("name is required")
)

// Repository handles all roster database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new roster repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListMembers returns members whose name contains search as a substring,
// in insertion order. An empty search returns the whole roster.
func (r *Repository) ListMembers(search string) ([]entities.Member, error) {
	var members []entities.Member
	query := r.db.Order("id ASC")
	if search != "" {
		query = query.Where("instr(name, ?) > 0", search)
	}
	err := query.Find(&members).Error
	return members, err
}

// GetMemberByID retrieves a single member.
func (r *Repository) GetMemberByID(id uint) (*entities.Member, error) {
	var member entities.Member
	err := r.db.First(&member, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}
	return &member, nil
}

// AddMember registers a borrower.
func (r *Repository) AddMember(name, email string) (*entities.Member, error) {
	if name == "" {
		return nil, ErrNameRequired
	}

	member := &entities.Member{
		Name:  name,
		Email: email,
	}
	if err := r.db.Create(member).Error; err != nil {
		return nil, fmt.Errorf("failed to create member: %w", err)
	}
	return member, nil
}

// DeleteMember removes a member row unconditionally. Loans referencing the
// member keep their denormalized name.
func (r *Repository) DeleteMember(id uint) error {
	return r.db.Delete(&entities.Member{}, id).Error
}

// CountMembers returns the roster size.
func (r *Repository) CountMembers() (int64, error) {
	var count int64
	err := r.db.Model(&entities.Member{}).Count(&count).Error
	return count, err
}
