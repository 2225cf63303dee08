package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/Yathushan/coldsweat/internal/domain/service"
	"github.com/Yathushan/coldsweat/pkg/logger"
)

func newCredentials() *service.Credentials {
	return service.NewCredentialsWithCost(bcrypt.MinCost)
}

func TestCreateUserUseCase(t *testing.T) {
	store := newMemoryStore()
	uc := NewCreateUserUseCase(store, newCredentials(), logger.Discard())
	ctx := context.Background()

	user, err := uc.Execute(ctx, CreateUserInput{Username: " alice ", Password: "correct horse", Email: "alice@example.com"})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if user.Username != "alice" || !user.IsEnabled {
		t.Fatalf("unexpected user %+v", user)
	}
	if user.PasswordHash == "correct horse" || !strings.HasPrefix(user.PasswordHash, "$2") {
		t.Fatalf("password should be stored as a bcrypt hash, got %q", user.PasswordHash)
	}
	if user.APIKey != newCredentials().MakeAPIKey("alice", "correct horse") {
		t.Fatalf("api key = %q", user.APIKey)
	}

	if _, err := uc.Execute(ctx, CreateUserInput{Username: "alice", Password: "another password"}); !errors.Is(err, ErrUserExists) {
		t.Fatalf("duplicate error = %v, want ErrUserExists", err)
	}
	if _, err := uc.Execute(ctx, CreateUserInput{Username: "bob", Password: "short"}); !errors.Is(err, service.ErrPasswordTooShort) {
		t.Fatalf("short password error = %v", err)
	}
	if _, err := uc.Execute(ctx, CreateUserInput{Username: "  ", Password: "long enough"}); err == nil {
		t.Fatal("expected an error for an empty username")
	}
}

func TestAuthenticateUseCase(t *testing.T) {
	store := newMemoryStore()
	creds := newCredentials()
	ctx := context.Background()

	alice, err := NewCreateUserUseCase(store, creds, logger.Discard()).Execute(ctx, CreateUserInput{Username: "alice", Password: "correct horse"})
	if err != nil {
		t.Fatalf("CreateUser error = %v", err)
	}
	carol, err := NewCreateUserUseCase(store, creds, logger.Discard()).Execute(ctx, CreateUserInput{Username: "carol", Password: "correct horse"})
	if err != nil {
		t.Fatalf("CreateUser error = %v", err)
	}
	carol.IsEnabled = false

	uc := NewAuthenticateUseCase(store, creds, logger.Discard())

	tests := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{name: "valid", username: "alice", password: "correct horse"},
		{name: "wrong password", username: "alice", password: "battery staple", wantErr: ErrInvalidCredentials},
		{name: "unknown user", username: "mallory", password: "correct horse", wantErr: ErrInvalidCredentials},
		{name: "disabled user", username: "carol", password: "correct horse", wantErr: ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := uc.Execute(ctx, tt.username, tt.password)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Execute() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && user.ID != alice.ID {
				t.Fatalf("authenticated user %d, want %d", user.ID, alice.ID)
			}
		})
	}

	byKey, err := uc.ByAPIKey(ctx, strings.ToUpper(alice.APIKey))
	if err != nil || byKey.ID != alice.ID {
		t.Fatalf("ByAPIKey() = %+v, %v", byKey, err)
	}

	current, err := uc.CurrentUser(ctx, alice.ID)
	if err != nil || current == nil {
		t.Fatalf("CurrentUser() = %v, %v", current, err)
	}
	if gone, err := uc.CurrentUser(ctx, 99); err != nil || gone != nil {
		t.Fatalf("CurrentUser(99) = %v, %v, want nil, nil", gone, err)
	}
	if disabled, err := uc.CurrentUser(ctx, carol.ID); err != nil || disabled != nil {
		t.Fatalf("CurrentUser(disabled) = %v, %v, want nil, nil", disabled, err)
	}
}
