package userRepo

import (
	"context"
	"fmt"

	"dutynotify/models"
	"dutynotify/utils"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreUserRepo implements UserRepository on the Firestore "users" collection,
// where the document ID is the user ID.
type FirestoreUserRepo struct {
	coll *firestore.CollectionRef
}

func NewFirestoreUserRepo(client *firestore.Client) UserRepository {
	return &FirestoreUserRepo{coll: client.Collection(utils.UsersCollection)}
}

func (r *FirestoreUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	snap, err := r.coll.Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to fetch user with id %s: %w", id, err)
	}

	var user models.User
	if err := snap.DataTo(&user); err != nil {
		return nil, fmt.Errorf("failed to decode user %s: %w", id, err)
	}
	user.ID = snap.Ref.ID
	return &user, nil
}

func (r *FirestoreUserRepo) GetByRole(ctx context.Context, role string) ([]models.User, error) {
	snaps, err := r.coll.Where("role", "==", role).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve users with role %s: %w", role, err)
	}

	users := make([]models.User, 0, len(snaps))
	for _, snap := range snaps {
		var u models.User
		if err := snap.DataTo(&u); err != nil {
			return nil, fmt.Errorf("failed to decode user %s: %w", snap.Ref.ID, err)
		}
		u.ID = snap.Ref.ID
		users = append(users, u)
	}
	return users, nil
}

// Delete succeeds whether or not the document exists.
func (r *FirestoreUserRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.coll.Doc(id).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete user with id %s: %w", id, err)
	}
	return nil
}
