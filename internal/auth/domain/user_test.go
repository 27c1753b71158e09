package domain_test

import (
	"testing"
	"time"

	"github.com/agrochain/agrochain/internal/auth/domain"
)

func validUser() domain.User {
	now := time.Now().UTC()
	return domain.User{
		ID:           "user-1",
		Name:         "Ana",
		Email:        "ana@farm.test",
		PasswordHash: "hash",
		Role:         domain.RoleFarmer,
		Location:     "Valley",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestUserValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*domain.User)
		wantErr bool
	}{
		{name: "valid user"},
		{
			name:    "name too short",
			mutate:  func(u *domain.User) { u.Name = "A" },
			wantErr: true,
		},
		{
			name:    "email without at sign",
			mutate:  func(u *domain.User) { u.Email = "ana.farm.test" },
			wantErr: true,
		},
		{
			name:    "missing password hash",
			mutate:  func(u *domain.User) { u.PasswordHash = "" },
			wantErr: true,
		},
		{
			name:    "unknown role",
			mutate:  func(u *domain.User) { u.Role = domain.Role("admin") },
			wantErr: true,
		},
		{
			name:    "location too short",
			mutate:  func(u *domain.User) { u.Location = "at" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := validUser()
			if tt.mutate != nil {
				tt.mutate(&user)
			}

			err := user.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRoleOpposite(t *testing.T) {
	if got := domain.RoleFarmer.Opposite(); got != domain.RoleBuyer {
		t.Errorf("farmer.Opposite() = %q, want buyer", got)
	}
	if got := domain.RoleBuyer.Opposite(); got != domain.RoleFarmer {
		t.Errorf("buyer.Opposite() = %q, want farmer", got)
	}
}

func TestRoleIsValid(t *testing.T) {
	for _, role := range []domain.Role{domain.RoleFarmer, domain.RoleBuyer} {
		if !role.IsValid() {
			t.Errorf("%q should be valid", role)
		}
	}
	if domain.Role("admin").IsValid() {
		t.Error("admin should not be a valid role")
	}
}
