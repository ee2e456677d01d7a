package account

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	domain "github.com/example/coffee-shop/domain/member"
)

var (
	// ErrMemberNotFound is returned when a member is not found.
	ErrMemberNotFound = errors.New("member not found")
	// ErrEmailTaken is returned when the email is already registered.
	ErrEmailTaken = errors.New("member with this email already exists")
)

// MemberRepository handles member persistence using GORM.
type MemberRepository struct {
	db *gorm.DB
}

// NewMemberRepository creates a new MemberRepository.
func NewMemberRepository(db *gorm.DB) *MemberRepository {
	return &MemberRepository{db: db}
}

// WithTx returns a repository bound to the given transaction.
func (r *MemberRepository) WithTx(tx *gorm.DB) *MemberRepository {
	return &MemberRepository{db: tx}
}

// Create inserts a new member.
func (r *MemberRepository) Create(m *domain.Member) error {
	if err := r.db.Create(m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrEmailTaken
		}
		return fmt.Errorf("failed to create member: %w", err)
	}
	return nil
}

// FindByID finds a member by ID.
func (r *MemberRepository) FindByID(id uint) (*domain.Member, error) {
	var m domain.Member
	if err := r.db.First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to find member: %w", err)
	}
	return &m, nil
}

// FindByEmail finds a member by email.
func (r *MemberRepository) FindByEmail(email string) (*domain.Member, error) {
	var m domain.Member
	if err := r.db.Where("email = ?", email).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to find member: %w", err)
	}
	return &m, nil
}

// EmailExists reports whether the email is already registered.
func (r *MemberRepository) EmailExists(email string) (bool, error) {
	var count int64
	err := r.db.Model(&domain.Member{}).Where("email = ?", email).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return count > 0, nil
}

// Count returns the number of registered members.
func (r *MemberRepository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&domain.Member{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count members: %w", err)
	}
	return count, nil
}
