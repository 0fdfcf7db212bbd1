package identity

import (
	"context"

	"firebase.google.com/go/v4/auth"
)

// AuthClient is the subset of the Firebase Auth client used here.
// *auth.Client satisfies it.
type AuthClient interface {
	DeleteUser(ctx context.Context, uid string) error
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// Provider deletes identities from the authentication provider.
type Provider interface {
	DeleteIdentity(ctx context.Context, uid string) (bool, error)
}

// Verifier resolves a bearer ID token to the caller's user ID.
type Verifier interface {
	VerifyToken(ctx context.Context, idToken string) (string, error)
}
