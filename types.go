package goIAM

import (
	"context"

	"github.com/MrEthical07/goIAM/permission"
)

// Role is a coarse-grained principal classification checked by
// [RouteDescriptor.Role]. Fine-grained access control uses permissions and
// policies instead.
type Role string

const (
	// RoleRegular is the default role assigned at sign-up.
	RoleRegular Role = "regular"
	// RoleAdmin is an elevated role assigned out of band.
	RoleAdmin Role = "admin"
)

// Principal is the authenticated identity associated with a request. It is
// owned by the external [PrincipalStore]; the engine reads it and writes the
// TFA fields through [PrincipalStore.Update], nothing else.
type Principal struct {
	ID          string
	Email       string
	Role        Role
	Permissions permission.Set
	TFAEnabled  bool
	TFASecret   []byte

	// TFALastCounter is the highest TOTP time-step counter that has
	// authenticated. Codes at or below it are replays and must be rejected.
	TFALastCounter int64

	// ExternalID links a social identity; empty for password principals.
	ExternalID string

	// PasswordHash is empty for social-only principals.
	PasswordHash string
}

// CreatePrincipalInput carries the fields the engine supplies when creating a
// principal during sign-up or first social sign-in.
type CreatePrincipalInput struct {
	Email        string
	PasswordHash string
	ExternalID   string
	Role         Role
	Permissions  permission.Set
}

// PrincipalUpdate is a partial update. Nil fields are left untouched by the
// store.
type PrincipalUpdate struct {
	TFAEnabled     *bool
	TFASecret      []byte
	TFALastCounter *int64
}

// PrincipalStore is the narrow persistence interface the engine consumes.
// Implementations must enforce email and external-ID uniqueness at the
// storage layer and return [ErrPrincipalNotFound] / [ErrPrincipalExists]
// (possibly wrapped) from the corresponding operations.
type PrincipalStore interface {
	FindByEmail(ctx context.Context, email string) (*Principal, error)
	FindByID(ctx context.Context, id string) (*Principal, error)
	FindByExternalID(ctx context.Context, externalID string) (*Principal, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, input CreatePrincipalInput) (*Principal, error)
	Update(ctx context.Context, id string, update PrincipalUpdate) error
}

// Hasher abstracts the password hashing collaborator. The shipped
// implementation is [password.Argon2].
type Hasher interface {
	Hash(plaintext string) (string, error)
	Compare(plaintext, digest string) (bool, error)
}

// ExternalIdentity is the verified result of a social identity token.
type ExternalIdentity struct {
	ExternalID string
	Email      string
}

// IdentityProvider verifies tokens issued by an external identity provider
// (social sign-in). Verification failures must return an error; the engine
// maps every provider failure to [ErrUnauthenticated].
type IdentityProvider interface {
	Verify(ctx context.Context, externalToken string) (ExternalIdentity, error)
}

// TokenPair is returned by the sign-in, refresh, and social sign-in flows.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// TFAProvision holds the freshly generated shared secret and the otpauth://
// provisioning URI returned by [Engine.ProvisionTFA]. The secret must be
// confirmed through [Engine.EnableTFA] before sign-in starts requiring codes.
type TFAProvision struct {
	Secret       []byte
	SecretBase32 string
	URI          string
}
