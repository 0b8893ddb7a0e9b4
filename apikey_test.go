package goIAM

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"testing"

	"github.com/MrEthical07/goIAM/permission"
)

func TestStaticAPIKeysValidate(t *testing.T) {
	validator := NewStaticAPIKeys(map[string]Principal{
		"svc-key-1": {ID: "svc-1", Email: "svc1@example.com", Permissions: permission.NewSet("coffees:create")},
		"svc-key-2": {ID: "svc-2"},
	})

	principal, err := validator.Validate(context.Background(), "svc-key-1")
	if err != nil {
		t.Fatalf("expected valid key accepted: %v", err)
	}
	if principal.ID != "svc-1" || !principal.Permissions.Has("coffees:create") {
		t.Fatalf("unexpected principal %+v", principal)
	}

	if _, err := validator.Validate(context.Background(), "svc-key-9"); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated for unknown key, got %v", err)
	}
	if _, err := validator.Validate(context.Background(), ""); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated for empty key, got %v", err)
	}
}

func TestStaticAPIKeysReturnsCopy(t *testing.T) {
	validator := NewStaticAPIKeys(map[string]Principal{
		"svc-key-1": {ID: "svc-1", Permissions: permission.NewSet("a")},
	})

	first, err := validator.Validate(context.Background(), "svc-key-1")
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	first.Permissions.Add("b")
	first.ID = "mutated"

	second, err := validator.Validate(context.Background(), "svc-key-1")
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if second.ID != "svc-1" || second.Permissions.Has("b") {
		t.Fatal("caller mutation leaked into the validator's table")
	}
}

func TestStaticAPIKeysNilReceiver(t *testing.T) {
	var validator *StaticAPIKeys
	if _, err := validator.Validate(context.Background(), "anything"); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("nil validator must reject, got %v", err)
	}
}

func TestDigestHex(t *testing.T) {
	sum := sha256.Sum256([]byte("svc-key-1"))
	if got := DigestHex("svc-key-1"); got != hex.EncodeToString(sum[:]) {
		t.Fatalf("unexpected digest %q", got)
	}
}
