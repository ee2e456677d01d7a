package account

import (
	"context"
	"errors"
	"fmt"
	"net/mail"

	"golang.org/x/crypto/bcrypt"

	domain "github.com/example/coffee-shop/domain/member"
)

// bcryptCost balances hashing time against brute-force resistance for
// an interactive signup flow.
const bcryptCost = 12

var (
	// ErrInvalidCredentials is returned when login credentials are wrong.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrInvalidSignup is returned when a signup field fails validation.
	ErrInvalidSignup = errors.New("invalid signup")
)

// AccountService handles member registration and login.
type AccountService struct {
	repo *MemberRepository
	jwt  *JWTManager

	// firstIsAdmin promotes the very first registered account to the
	// administrative role so a fresh install has an admin.
	firstIsAdmin bool
}

// NewAccountService creates a new AccountService.
func NewAccountService(repo *MemberRepository, jwt *JWTManager, firstIsAdmin bool) *AccountService {
	return &AccountService{repo: repo, jwt: jwt, firstIsAdmin: firstIsAdmin}
}

func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func passwordMatches(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// Signup registers a new member.
func (s *AccountService) Signup(_ context.Context, req SignupRequest) (*domain.Member, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidSignup)
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return nil, fmt.Errorf("%w: invalid email format", ErrInvalidSignup)
	}
	if len(req.Password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", ErrInvalidSignup)
	}
	if len(req.Password) > 72 {
		return nil, fmt.Errorf("%w: password must be at most 72 characters", ErrInvalidSignup)
	}

	exists, err := s.repo.EmailExists(req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailTaken
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	role := domain.RoleUser
	if s.firstIsAdmin {
		count, err := s.repo.Count()
		if err != nil {
			return nil, err
		}
		if count == 0 {
			role = domain.RoleAdmin
		}
	}

	m := &domain.Member{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         role,
		Address:      req.Address,
	}
	if err := s.repo.Create(m); err != nil {
		return nil, err
	}
	return m, nil
}

// Login authenticates a member and returns a signed token.
func (s *AccountService) Login(_ context.Context, email, password string) (*domain.Member, string, error) {
	m, err := s.repo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, ErrMemberNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if !passwordMatches(password, m.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.jwt.Generate(m.ID, m.Email, m.Role)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}
	return m, token, nil
}

// ValidateToken verifies a token and returns the caller's claims.
func (s *AccountService) ValidateToken(_ context.Context, token string) (*domain.Claims, error) {
	claims, err := s.jwt.Validate(token)
	if err != nil {
		return nil, err
	}
	return &domain.Claims{
		MemberID: claims.MemberID,
		Email:    claims.Email,
		Role:     claims.Role,
	}, nil
}

// GetMember retrieves a member by ID.
func (s *AccountService) GetMember(_ context.Context, id uint) (*domain.Member, error) {
	return s.repo.FindByID(id)
}
