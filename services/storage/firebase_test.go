package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	gcs "cloud.google.com/go/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

// fakeGCS implements the object get and delete calls of the JSON API.
type fakeGCS struct {
	mu      sync.Mutex
	objects map[string]bool
	deleted []string
}

func (f *fakeGCS) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")

	_, name, ok := strings.Cut(r.URL.Path, "/o/")
	if !ok || !f.objects[name] {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"error":{"code":404,"message":"No such object"}}`)
		return
	}

	switch r.Method {
	case http.MethodGet:
		_, _ = io.WriteString(w, `{"bucket":"avatars","name":"`+name+`","size":"512"}`)
	case http.MethodDelete:
		delete(f.objects, name)
		f.deleted = append(f.deleted, name)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func newFirebaseStore(t *testing.T, fake *fakeGCS) *FirebaseStorageService {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	client, err := gcs.NewClient(context.Background(),
		option.WithEndpoint(srv.URL+"/storage/v1/"),
		option.WithoutAuthentication(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return &FirebaseStorageService{bucket: client.Bucket("avatars")}
}

func TestFirebaseDeleteIfExists(t *testing.T) {
	fake := &fakeGCS{objects: map[string]bool{"profile_pictures/u1": true}}
	store := newFirebaseStore(t, fake)

	removed, err := DeleteIfExists(context.Background(), store, ProfilePictureKey("u1"))
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Equal(t, []string{"profile_pictures/u1"}, fake.deleted)

	removed, err = DeleteIfExists(context.Background(), store, ProfilePictureKey("u1"))
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestFirebaseMissingObject(t *testing.T) {
	store := newFirebaseStore(t, &fakeGCS{objects: map[string]bool{}})

	found, err := store.Exists(context.Background(), ProfilePictureKey("u2"))
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Delete(context.Background(), ProfilePictureKey("u2")))
}
