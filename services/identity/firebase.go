package identity

import (
	"context"
	"fmt"

	"firebase.google.com/go/v4/auth"
	"go.uber.org/zap"
)

// FirebaseProvider implements Provider on Firebase Authentication.
type FirebaseProvider struct {
	client     AuthClient
	logger     *zap.Logger
	isNotFound func(error) bool
}

func NewFirebaseProvider(client AuthClient, logger *zap.Logger) *FirebaseProvider {
	return &FirebaseProvider{client: client, logger: logger, isNotFound: auth.IsUserNotFound}
}

// DeleteIdentity removes the auth user and reports whether one existed. An
// already deleted user is not an error so a retried teardown can proceed to
// the remaining steps.
func (p *FirebaseProvider) DeleteIdentity(ctx context.Context, uid string) (bool, error) {
	if err := p.client.DeleteUser(ctx, uid); err != nil {
		if p.isNotFound(err) {
			p.logger.Info("auth user already absent", zap.String("uid", uid))
			return false, nil
		}
		return false, fmt.Errorf("failed to delete auth user %s: %w", uid, err)
	}
	return true, nil
}
