package account

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	domain "github.com/example/coffee-shop/domain/member"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(&domain.Member{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

func newTestService(db *gorm.DB, firstIsAdmin bool) *AccountService {
	jwtManager := NewJWTManager(JWTConfig{
		SecretKey:     "test-secret",
		TokenDuration: time.Hour,
		Issuer:        "coffee-shop-test",
	})
	return NewAccountService(NewMemberRepository(db), jwtManager, firstIsAdmin)
}

func validSignup(email string) SignupRequest {
	return SignupRequest{
		Name:     "Test Member",
		Email:    email,
		Password: "correct-horse-battery",
		Address:  "1 Roastery Lane",
	}
}

func TestAccountService_Signup(t *testing.T) {
	ctx := context.Background()

	t.Run("creates member with hashed password", func(t *testing.T) {
		db := setupTestDB(t)
		svc := newTestService(db, false)

		m, err := svc.Signup(ctx, validSignup("alice@example.com"))
		if err != nil {
			t.Fatalf("Signup() error = %v", err)
		}
		if m.ID == 0 {
			t.Error("expected assigned member id")
		}
		if m.Role != domain.RoleUser {
			t.Errorf("expected role USER, got %s", m.Role)
		}
		if m.PasswordHash == "correct-horse-battery" {
			t.Error("expected password to be hashed, not stored in the clear")
		}
	})

	t.Run("first member becomes admin when enabled", func(t *testing.T) {
		db := setupTestDB(t)
		svc := newTestService(db, true)

		first, err := svc.Signup(ctx, validSignup("admin@example.com"))
		if err != nil {
			t.Fatalf("Signup() error = %v", err)
		}
		if first.Role != domain.RoleAdmin {
			t.Errorf("expected first member to be ADMIN, got %s", first.Role)
		}

		second, err := svc.Signup(ctx, validSignup("user@example.com"))
		if err != nil {
			t.Fatalf("Signup() error = %v", err)
		}
		if second.Role != domain.RoleUser {
			t.Errorf("expected second member to be USER, got %s", second.Role)
		}
	})

	t.Run("duplicate email", func(t *testing.T) {
		db := setupTestDB(t)
		svc := newTestService(db, false)

		if _, err := svc.Signup(ctx, validSignup("dup@example.com")); err != nil {
			t.Fatalf("Signup() error = %v", err)
		}
		if _, err := svc.Signup(ctx, validSignup("dup@example.com")); !errors.Is(err, ErrEmailTaken) {
			t.Errorf("expected ErrEmailTaken, got %v", err)
		}
	})

	t.Run("validation", func(t *testing.T) {
		db := setupTestDB(t)
		svc := newTestService(db, false)

		req := validSignup("bad@example.com")
		req.Name = ""
		if _, err := svc.Signup(ctx, req); !errors.Is(err, ErrInvalidSignup) {
			t.Errorf("expected ErrInvalidSignup for missing name, got %v", err)
		}

		req = validSignup("not-an-email")
		if _, err := svc.Signup(ctx, req); !errors.Is(err, ErrInvalidSignup) {
			t.Errorf("expected ErrInvalidSignup for bad email, got %v", err)
		}

		req = validSignup("short@example.com")
		req.Password = "short"
		if _, err := svc.Signup(ctx, req); !errors.Is(err, ErrInvalidSignup) {
			t.Errorf("expected ErrInvalidSignup for short password, got %v", err)
		}

		req = validSignup("long@example.com")
		req.Password = strings.Repeat("x", 73)
		if _, err := svc.Signup(ctx, req); !errors.Is(err, ErrInvalidSignup) {
			t.Errorf("expected ErrInvalidSignup for overlong password, got %v", err)
		}
	})
}

func TestAccountService_Login(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	svc := newTestService(db, false)

	if _, err := svc.Signup(ctx, validSignup("alice@example.com")); err != nil {
		t.Fatalf("Signup() error = %v", err)
	}

	t.Run("valid credentials return member and token", func(t *testing.T) {
		m, token, err := svc.Login(ctx, "alice@example.com", "correct-horse-battery")
		if err != nil {
			t.Fatalf("Login() error = %v", err)
		}
		if m.Email != "alice@example.com" {
			t.Errorf("unexpected member %q", m.Email)
		}
		if token == "" {
			t.Fatal("expected a signed token")
		}

		claims, err := svc.ValidateToken(ctx, token)
		if err != nil {
			t.Fatalf("ValidateToken() error = %v", err)
		}
		if claims.MemberID != m.ID || claims.Role != m.Role {
			t.Errorf("claims do not match member: %+v", claims)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "alice@example.com", "wrong-password")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("unknown email", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "nobody@example.com", "whatever-pass")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials, got %v", err)
		}
	})
}

func TestJWTManager(t *testing.T) {
	t.Run("rejects token signed with another key", func(t *testing.T) {
		issuer := NewJWTManager(JWTConfig{SecretKey: "key-a", TokenDuration: time.Hour, Issuer: "t"})
		verifier := NewJWTManager(JWTConfig{SecretKey: "key-b", TokenDuration: time.Hour, Issuer: "t"})

		token, err := issuer.Generate(1, "a@example.com", domain.RoleUser)
		if err != nil {
			t.Fatalf("Generate() error = %v", err)
		}
		if _, err := verifier.Validate(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("rejects expired token", func(t *testing.T) {
		m := NewJWTManager(JWTConfig{SecretKey: "key", TokenDuration: -time.Minute, Issuer: "t"})

		token, err := m.Generate(1, "a@example.com", domain.RoleUser)
		if err != nil {
			t.Fatalf("Generate() error = %v", err)
		}
		if _, err := m.Validate(token); !errors.Is(err, ErrExpiredToken) {
			t.Errorf("expected ErrExpiredToken, got %v", err)
		}
	})

	t.Run("rejects garbage", func(t *testing.T) {
		m := NewJWTManager(JWTConfig{SecretKey: "key", TokenDuration: time.Hour, Issuer: "t"})
		if _, err := m.Validate("not.a.token"); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})
}

func TestPasswordHashing(t *testing.T) {
	hash, err := hashPassword("secret-password")
	if err != nil {
		t.Fatalf("hashPassword() error = %v", err)
	}
	if !passwordMatches("secret-password", hash) {
		t.Error("expected matching password to verify")
	}
	if passwordMatches("other-password", hash) {
		t.Error("expected non-matching password to fail")
	}
}
