package app

import (
	"context"
	"testing"
	"time"

	"github.com/umphart/musabaha-ltd-backend/internal/auth"
	"github.com/umphart/musabaha-ltd-backend/internal/clock"
	"github.com/umphart/musabaha-ltd-backend/internal/domain"
)

type fakeAccountRepo struct {
	accounts map[string]domain.Account
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{accounts: make(map[string]domain.Account)}
}

func (r *fakeAccountRepo) CreateAccount(_ context.Context, a domain.Account) error {
	for _, existing := range r.accounts {
		if existing.Email == a.Email {
			return domain.ErrEmailTaken
		}
	}
	r.accounts[a.ID] = a
	return nil
}

func (r *fakeAccountRepo) GetAccount(_ context.Context, id string) (domain.Account, error) {
	a, ok := r.accounts[id]
	if !ok {
		return domain.Account{}, domain.ErrAccountNotFound
	}
	return a, nil
}

func (r *fakeAccountRepo) FindAccountByEmail(_ context.Context, email string) (domain.Account, error) {
	for _, a := range r.accounts {
		if a.Email == email {
			return a, nil
		}
	}
	return domain.Account{}, domain.ErrAccountNotFound
}

func TestAuthService(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)

	newService := func() (*fakeAccountRepo, *AuthService) {
		repo := newFakeAccountRepo()
		return repo, NewAuthService(repo, auth.New("test-secret"), clock.NewFixed(now))
	}

	t.Run("register and login", func(t *testing.T) {
		repo, svc := newService()
		ctx := context.Background()

		account, err := svc.RegisterAdmin(ctx, RegisterInput{Name: "Admin", Email: "admin@example.com", Password: "s3cret"})
		if err != nil {
			t.Fatalf("register: %v", err)
		}
		if account.PasswordHash != "" {
			t.Fatalf("expected hash withheld from response")
		}
		if repo.accounts[account.ID].PasswordHash == "s3cret" {
			t.Fatalf("expected stored password hashed")
		}

		res, err := svc.Login(ctx, "admin@example.com", "s3cret", domain.RoleAdmin)
		if err != nil {
			t.Fatalf("login: %v", err)
		}
		if res.Token == "" {
			t.Fatalf("expected token issued")
		}
	})

	t.Run("role mismatch reports invalid credentials", func(t *testing.T) {
		_, svc := newService()
		ctx := context.Background()

		if _, err := svc.RegisterAdmin(ctx, RegisterInput{Name: "Admin", Email: "admin@example.com", Password: "s3cret"}); err != nil {
			t.Fatalf("register: %v", err)
		}
		if _, err := svc.Login(ctx, "admin@example.com", "s3cret", domain.RoleCustomer); err != domain.ErrInvalidCredentials {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("wrong password and unknown email are indistinguishable", func(t *testing.T) {
		_, svc := newService()
		ctx := context.Background()

		if _, err := svc.RegisterAdmin(ctx, RegisterInput{Name: "Admin", Email: "admin@example.com", Password: "s3cret"}); err != nil {
			t.Fatalf("register: %v", err)
		}
		if _, err := svc.Login(ctx, "admin@example.com", "wrong", domain.RoleAdmin); err != domain.ErrInvalidCredentials {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
		if _, err := svc.Login(ctx, "nobody@example.com", "s3cret", domain.RoleAdmin); err != domain.ErrInvalidCredentials {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("register validates input", func(t *testing.T) {
		_, svc := newService()
		ctx := context.Background()

		if _, err := svc.RegisterAdmin(ctx, RegisterInput{Email: "a@b.c", Password: "x"}); err != domain.ErrNameRequired {
			t.Fatalf("expected ErrNameRequired, got %v", err)
		}
		if _, err := svc.RegisterAdmin(ctx, RegisterInput{Name: "A", Password: "x"}); err != domain.ErrEmailRequired {
			t.Fatalf("expected ErrEmailRequired, got %v", err)
		}
		if _, err := svc.RegisterAdmin(ctx, RegisterInput{Name: "A", Email: "a@b.c"}); err != domain.ErrPasswordRequired {
			t.Fatalf("expected ErrPasswordRequired, got %v", err)
		}
	})
}
