// utils/firebase.go
package utils

import (
	"context"
	"fmt"

	"dutynotify/config"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"firebase.google.com/go/v4/messaging"
	"firebase.google.com/go/v4/storage"
	"google.golang.org/api/option"
)

// FirebaseClients groups the service clients built from one Firebase app.
type FirebaseClients struct {
	App       *firebase.App
	Messaging *messaging.Client
	Auth      *auth.Client
	Storage   *storage.Client
	Firestore *firestore.Client
}

// FirebaseInit initializes the Firebase App and the clients the service needs.
// Firestore is only opened when it is the configured document store.
func FirebaseInit(ctx context.Context, cfg config.Config) (*FirebaseClients, error) {
	var opts []option.ClientOption
	if cfg.FirebaseCredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.FirebaseCredentialsFile))
	}

	fbConfig := &firebase.Config{
		ProjectID:     cfg.FirebaseProjectID,
		StorageBucket: cfg.FirebaseStorageBucket,
	}
	app, err := firebase.NewApp(ctx, fbConfig, opts...)
	if err != nil {
		return nil, fmt.Errorf("firebase: error initializing app: %w", err)
	}

	clients := &FirebaseClients{App: app}

	if clients.Messaging, err = app.Messaging(ctx); err != nil {
		return nil, fmt.Errorf("firebase: error getting Messaging client: %w", err)
	}
	if clients.Auth, err = app.Auth(ctx); err != nil {
		return nil, fmt.Errorf("firebase: error getting Auth client: %w", err)
	}
	if cfg.BlobBackend == "firebase" {
		if clients.Storage, err = app.Storage(ctx); err != nil {
			return nil, fmt.Errorf("firebase: error getting Storage client: %w", err)
		}
	}
	if cfg.Datastore == "firestore" {
		if clients.Firestore, err = app.Firestore(ctx); err != nil {
			return nil, fmt.Errorf("firebase: error getting Firestore client: %w", err)
		}
	}
	return clients, nil
}

// Close releases the clients that hold connections.
func (c *FirebaseClients) Close() error {
	if c.Firestore != nil {
		return c.Firestore.Close()
	}
	return nil
}
