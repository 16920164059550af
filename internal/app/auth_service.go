package app

import (
	"context"

	"github.com/google/uuid"

	"github.com/umphart/musabaha-ltd-backend/internal/auth"
	"github.com/umphart/musabaha-ltd-backend/internal/clock"
	"github.com/umphart/musabaha-ltd-backend/internal/domain"
)

type AccountRepository interface {
	CreateAccount(ctx context.Context, a domain.Account) error
	GetAccount(ctx context.Context, id string) (domain.Account, error)
	FindAccountByEmail(ctx context.Context, email string) (domain.Account, error)
}

// AuthService registers accounts and exchanges credentials for tokens.
type AuthService struct {
	repo          AccountRepository
	authenticator *auth.Authenticator
	clock         clock.Clock
}

func NewAuthService(repo AccountRepository, authenticator *auth.Authenticator, clk clock.Clock) *AuthService {
	return &AuthService{
		repo:          repo,
		authenticator: authenticator,
		clock:         clk,
	}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

func (s *AuthService) RegisterAdmin(ctx context.Context, in RegisterInput) (domain.Account, error) {
	return s.register(ctx, in, domain.RoleAdmin)
}

func (s *AuthService) RegisterCustomerAccount(ctx context.Context, in RegisterInput) (domain.Account, error) {
	return s.register(ctx, in, domain.RoleCustomer)
}

func (s *AuthService) register(ctx context.Context, in RegisterInput, role domain.AccountRole) (domain.Account, error) {
	if in.Name == "" {
		return domain.Account{}, domain.ErrNameRequired
	}
	if in.Email == "" {
		return domain.Account{}, domain.ErrEmailRequired
	}
	if in.Password == "" {
		return domain.Account{}, domain.ErrPasswordRequired
	}

	hash, err := s.authenticator.HashPassword(in.Password)
	if err != nil {
		return domain.Account{}, err
	}

	now := s.clock.Now()
	account := domain.Account{
		ID:           uuid.NewString(),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.CreateAccount(ctx, account); err != nil {
		return domain.Account{}, err
	}
	account.PasswordHash = ""
	return account, nil
}

type LoginResult struct {
	Account domain.Account
	Token   string
}

// Login verifies credentials for the given role and issues a token. A role
// mismatch reports invalid credentials rather than leaking which accounts
// exist.
func (s *AuthService) Login(ctx context.Context, email, password string, role domain.AccountRole) (LoginResult, error) {
	if email == "" || password == "" {
		return LoginResult{}, domain.ErrInvalidCredentials
	}

	account, err := s.repo.FindAccountByEmail(ctx, email)
	if err != nil {
		if err == domain.ErrAccountNotFound {
			return LoginResult{}, domain.ErrInvalidCredentials
		}
		return LoginResult{}, err
	}
	if account.Role != role {
		return LoginResult{}, domain.ErrInvalidCredentials
	}
	if !s.authenticator.VerifyPassword(password, account.PasswordHash) {
		return LoginResult{}, domain.ErrInvalidCredentials
	}

	token, err := s.authenticator.IssueToken(account.ID, account.Role, s.clock.Now())
	if err != nil {
		return LoginResult{}, err
	}

	account.PasswordHash = ""
	return LoginResult{Account: account, Token: token}, nil
}

func (s *AuthService) CurrentAccount(ctx context.Context, accountID string) (domain.Account, error) {
	account, err := s.repo.GetAccount(ctx, accountID)
	if err != nil {
		return domain.Account{}, err
	}
	account.PasswordHash = ""
	return account, nil
}
