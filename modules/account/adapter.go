package account

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"

	domain "github.com/example/coffee-shop/domain/member"
)

// AccountPort is the interface the api module uses for authentication
// and member lookups.
type AccountPort interface {
	Signup(ctx context.Context, req SignupRequest) (*SignupResponse, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	ValidateToken(ctx context.Context, token string) (*domain.Claims, error)
	GetMember(ctx context.Context, id uint) (*GetMemberResponse, error)
}

type accountAdapter struct {
	container mono.ServiceContainer
}

// NewAccountAdapter creates an adapter for account services.
func NewAccountAdapter(container mono.ServiceContainer) AccountPort {
	return &accountAdapter{container: container}
}

func callService[Req any, Resp any](ctx context.Context, container mono.ServiceContainer, service string, req *Req, resp *Resp) error {
	if err := helper.CallRequestReplyService(
		ctx, container, service, json.Marshal, json.Unmarshal, req, resp,
	); err != nil {
		return fmt.Errorf("%s service call failed: %w", service, err)
	}
	return nil
}

func (a *accountAdapter) Signup(ctx context.Context, req SignupRequest) (*SignupResponse, error) {
	var resp SignupResponse
	if err := callService(ctx, a.container, "signup", &req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (a *accountAdapter) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	var resp LoginResponse
	if err := callService(ctx, a.container, "login", &req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (a *accountAdapter) ValidateToken(ctx context.Context, token string) (*domain.Claims, error) {
	req := ValidateTokenRequest{Token: token}
	var resp ValidateTokenResponse
	if err := callService(ctx, a.container, "validate-token", &req, &resp); err != nil {
		return nil, err
	}
	if !resp.Valid {
		return nil, fmt.Errorf("token validation failed: %s", resp.Error)
	}
	return &domain.Claims{
		MemberID: resp.MemberID,
		Email:    resp.Email,
		Role:     resp.Role,
	}, nil
}

func (a *accountAdapter) GetMember(ctx context.Context, id uint) (*GetMemberResponse, error) {
	req := GetMemberRequest{ID: id}
	var resp GetMemberResponse
	if err := callService(ctx, a.container, "get-member", &req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
