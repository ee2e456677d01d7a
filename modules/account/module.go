package account

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"gorm.io/gorm"
)

// Module provides member registration and authentication services.
type Module struct {
	db      *gorm.DB
	repo    *MemberRepository
	service *AccountService
}

// Compile-time interface checks.
var _ mono.Module = (*Module)(nil)
var _ mono.ServiceProviderModule = (*Module)(nil)
var _ mono.HealthCheckableModule = (*Module)(nil)

// NewModule creates a new account module over the shared database.
func NewModule(db *gorm.DB) *Module {
	return &Module{db: db}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "account"
}

// Repository exposes the member directory to the checkout engine.
func (m *Module) Repository() *MemberRepository {
	return m.repo
}

// Start wires the repository and token manager.
func (m *Module) Start(_ context.Context) error {
	m.repo = NewMemberRepository(m.db)

	config := DefaultJWTConfig()
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		config.SecretKey = secret
	}
	if d := os.Getenv("JWT_TOKEN_DURATION"); d != "" {
		if parsed, err := time.ParseDuration(d); err == nil {
			config.TokenDuration = parsed
		}
	}

	firstIsAdmin := os.Getenv("FIRST_MEMBER_IS_ADMIN") != "false"
	m.service = NewAccountService(m.repo, NewJWTManager(config), firstIsAdmin)

	log.Println("[account] Module started")
	return nil
}

// Stop is a no-op; the shared database is closed by main.
func (m *Module) Stop(_ context.Context) error {
	log.Println("[account] Module stopped")
	return nil
}

// Health performs a database health check.
func (m *Module) Health(ctx context.Context) mono.HealthStatus {
	sqlDB, err := m.db.DB()
	if err != nil {
		return mono.HealthStatus{Healthy: false, Message: fmt.Sprintf("failed to get sql.DB: %v", err)}
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return mono.HealthStatus{Healthy: false, Message: fmt.Sprintf("database ping failed: %v", err)}
	}
	return mono.HealthStatus{Healthy: true, Message: "operational"}
}

// RegisterServices registers account request-reply services.
func (m *Module) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "signup", json.Unmarshal, json.Marshal, m.handleSignup,
	); err != nil {
		return fmt.Errorf("failed to register signup service: %w", err)
	}
	if err := helper.RegisterTypedRequestReplyService(
		container, "login", json.Unmarshal, json.Marshal, m.handleLogin,
	); err != nil {
		return fmt.Errorf("failed to register login service: %w", err)
	}
	if err := helper.RegisterTypedRequestReplyService(
		container, "validate-token", json.Unmarshal, json.Marshal, m.handleValidateToken,
	); err != nil {
		return fmt.Errorf("failed to register validate-token service: %w", err)
	}
	if err := helper.RegisterTypedRequestReplyService(
		container, "get-member", json.Unmarshal, json.Marshal, m.handleGetMember,
	); err != nil {
		return fmt.Errorf("failed to register get-member service: %w", err)
	}

	log.Printf("[account] Registered services: services.account.{signup,login,validate-token,get-member}")
	return nil
}

// handleSignup handles the account.signup service request.
func (m *Module) handleSignup(ctx context.Context, req SignupRequest, _ *mono.Msg) (SignupResponse, error) {
	member, err := m.service.Signup(ctx, req)
	if err != nil {
		return SignupResponse{}, err
	}
	return SignupResponse{
		ID:        member.ID,
		Name:      member.Name,
		Email:     member.Email,
		Role:      member.Role,
		CreatedAt: member.CreatedAt,
	}, nil
}

// handleLogin handles the account.login service request.
func (m *Module) handleLogin(ctx context.Context, req LoginRequest, _ *mono.Msg) (LoginResponse, error) {
	if req.Email == "" || req.Password == "" {
		return LoginResponse{}, ErrInvalidCredentials
	}
	member, token, err := m.service.Login(ctx, req.Email, req.Password)
	if err != nil {
		return LoginResponse{}, err
	}
	return LoginResponse{
		Token:     token,
		ExpiresIn: m.service.jwt.TokenDuration(),
		MemberID:  member.ID,
		Name:      member.Name,
		Role:      member.Role,
	}, nil
}

// handleValidateToken handles the account.validate-token service
// request. Validation failures are reported in-band so the adapter can
// distinguish a bad token from a transport failure.
func (m *Module) handleValidateToken(ctx context.Context, req ValidateTokenRequest, _ *mono.Msg) (ValidateTokenResponse, error) {
	claims, err := m.service.ValidateToken(ctx, req.Token)
	if err != nil {
		return ValidateTokenResponse{Valid: false, Error: err.Error()}, nil
	}
	return ValidateTokenResponse{
		Valid:    true,
		MemberID: claims.MemberID,
		Email:    claims.Email,
		Role:     claims.Role,
	}, nil
}

// handleGetMember handles the account.get-member service request.
func (m *Module) handleGetMember(ctx context.Context, req GetMemberRequest, _ *mono.Msg) (GetMemberResponse, error) {
	member, err := m.service.GetMember(ctx, req.ID)
	if err != nil {
		return GetMemberResponse{}, err
	}
	return GetMemberResponse{
		ID:        member.ID,
		Name:      member.Name,
		Email:     member.Email,
		Role:      member.Role,
		Address:   member.Address,
		CreatedAt: member.CreatedAt,
	}, nil
}
