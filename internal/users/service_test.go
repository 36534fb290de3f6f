package users

import (
	"context"
	"errors"
	"testing"
)

func TestRegisterAndAuthenticate(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	u, err := svc.Register(ctx, "Alice", "Alice@Example.com", "s3cret")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if u.ID.IsZero() {
		t.Fatal("expected id to be assigned")
	}
	// email normalized to lower case
	if u.Email != "alice@example.com" {
		t.Fatalf("unexpected email: %s", u.Email)
	}
	if u.PasswordHash == "s3cret" || u.PasswordHash == "" {
		t.Fatal("password must be stored hashed")
	}
	if u.CreatedAt.IsZero() || u.UpdatedAt.IsZero() {
		t.Fatalf("expected timestamps to be set: created=%v updated=%v", u.CreatedAt, u.UpdatedAt)
	}

	got, err := svc.Authenticate(ctx, "alice@example.com", "s3cret")
	if err != nil {
		t.Fatalf("authenticate failed: %v", err)
	}
	if got.ID != u.ID {
		t.Fatalf("authenticated wrong user: %s != %s", got.ID.Hex(), u.ID.Hex())
	}

	if _, err := svc.Authenticate(ctx, "alice@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Authenticate(ctx, "nobody@example.com", "s3cret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestRegisterValidationAndDuplicates(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	if _, err := svc.Register(ctx, "", "a@b.c", "pw"); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if _, err := svc.Register(ctx, "A", "a@b.c", ""); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}

	if _, err := svc.Register(ctx, "A", "a@b.c", "pw"); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if _, err := svc.Register(ctx, "B", "a@b.c", "pw2"); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestPublicProfiles(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	a, _ := svc.Register(ctx, "A", "a@x.io", "pw")
	b, _ := svc.Register(ctx, "B", "b@x.io", "pw")

	profiles, err := svc.PublicProfiles(ctx, []string{a.ID.Hex(), b.ID.Hex(), a.ID.Hex(), "", "missing"})
	if err != nil {
		t.Fatalf("profiles failed: %v", err)
	}
	if len(profiles) != 2 {
		t.Fatalf("expected 2 profiles, got %d", len(profiles))
	}
	if profiles[a.ID.Hex()].Name != "A" || profiles[b.ID.Hex()].Name != "B" {
		t.Fatalf("unexpected profiles: %+v", profiles)
	}
}
