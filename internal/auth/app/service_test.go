package app_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/agrochain/agrochain/internal/auth/adapters/memory"
	"github.com/agrochain/agrochain/internal/auth/app"
	"github.com/agrochain/agrochain/internal/auth/domain"
	"github.com/agrochain/agrochain/internal/auth/ports"
)

type staticIssuer struct{}

func (staticIssuer) Issue(userID string) (string, error) {
	return "token-for-" + userID, nil
}

func newService() (*app.Service, *memory.Repository) {
	repo := memory.NewRepository()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return app.NewService(repo, staticIssuer{}, logger), repo
}

func validInput() app.RegisterInput {
	return app.RegisterInput{
		Name:     "Ana",
		Email:    "Ana@Farm.Test",
		Password: "Sunflower1",
		Role:     domain.RoleFarmer,
		Location: "Valley",
	}
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("creates account and issues token", func(t *testing.T) {
		service, _ := newService()

		result, err := service.Register(ctx, validInput())
		if err != nil {
			t.Fatalf("Register() error: %v", err)
		}

		if result.Token != "token-for-"+result.User.ID {
			t.Errorf("unexpected token %q", result.Token)
		}
		if result.User.Email != "ana@farm.test" {
			t.Errorf("email = %q, want lowercased", result.User.Email)
		}
		if result.User.PasswordHash == "Sunflower1" {
			t.Error("password stored in plaintext")
		}
	})

	t.Run("rejects weak passwords", func(t *testing.T) {
		service, _ := newService()

		weak := []string{"short1A", "alllowercase1", "ALLUPPERCASE1", "NoDigitsHere"}
		for _, password := range weak {
			input := validInput()
			input.Password = password
			if _, err := service.Register(ctx, input); err == nil {
				t.Errorf("expected rejection for password %q", password)
			}
		}
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		service, _ := newService()

		if _, err := service.Register(ctx, validInput()); err != nil {
			t.Fatalf("first Register() error: %v", err)
		}

		_, err := service.Register(ctx, validInput())
		if !errors.Is(err, ports.ErrEmailTaken) {
			t.Errorf("expected ErrEmailTaken, got %v", err)
		}
	})

	t.Run("rejects invalid role", func(t *testing.T) {
		service, _ := newService()

		input := validInput()
		input.Role = domain.Role("admin")
		if _, err := service.Register(ctx, input); err == nil {
			t.Error("expected rejection for unknown role")
		}
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("valid credentials", func(t *testing.T) {
		service, _ := newService()
		registered, err := service.Register(ctx, validInput())
		if err != nil {
			t.Fatalf("Register() error: %v", err)
		}

		result, err := service.Login(ctx, "ana@farm.test", "Sunflower1")
		if err != nil {
			t.Fatalf("Login() error: %v", err)
		}
		if result.User.ID != registered.User.ID {
			t.Errorf("logged in as %q, want %q", result.User.ID, registered.User.ID)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		service, _ := newService()
		if _, err := service.Register(ctx, validInput()); err != nil {
			t.Fatalf("Register() error: %v", err)
		}

		_, err := service.Login(ctx, "ana@farm.test", "WrongPass1")
		if !errors.Is(err, ports.ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("unknown email maps to invalid credentials", func(t *testing.T) {
		service, _ := newService()

		_, err := service.Login(ctx, "ghost@farm.test", "Sunflower1")
		if !errors.Is(err, ports.ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials, got %v", err)
		}
	})
}

func TestSwitchRole(t *testing.T) {
	ctx := context.Background()
	service, _ := newService()

	registered, err := service.Register(ctx, validInput())
	if err != nil {
		t.Fatalf("Register() error: %v", err)
	}

	switched, err := service.SwitchRole(ctx, registered.User.ID)
	if err != nil {
		t.Fatalf("SwitchRole() error: %v", err)
	}
	if switched.Role != domain.RoleBuyer {
		t.Errorf("role = %q, want buyer", switched.Role)
	}

	// Flips back on a second switch.
	switched, err = service.SwitchRole(ctx, registered.User.ID)
	if err != nil {
		t.Fatalf("SwitchRole() error: %v", err)
	}
	if switched.Role != domain.RoleFarmer {
		t.Errorf("role = %q, want farmer", switched.Role)
	}

	if _, err := service.SwitchRole(ctx, "missing"); !errors.Is(err, ports.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
