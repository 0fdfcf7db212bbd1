package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeAuth struct {
	tokens    map[string]*auth.Token
	verifies  int
	deleteErr error
	deleted   []string
}

func (f *fakeAuth) DeleteUser(_ context.Context, uid string) error {
	f.deleted = append(f.deleted, uid)
	return f.deleteErr
}

func (f *fakeAuth) VerifyIDToken(_ context.Context, idToken string) (*auth.Token, error) {
	f.verifies++
	tok, ok := f.tokens[idToken]
	if !ok {
		return nil, errors.New("ID token has invalid signature")
	}
	return tok, nil
}

type memCache struct {
	entries map[string]string
	ttls    map[string]time.Duration
}

func newMemCache() *memCache {
	return &memCache{entries: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (c *memCache) Get(_ context.Context, key string) (string, error) {
	uid, ok := c.entries[key]
	if !ok {
		return "", ErrCacheMiss
	}
	return uid, nil
}

func (c *memCache) Set(_ context.Context, key, uid string, ttl time.Duration) error {
	c.entries[key] = uid
	c.ttls[key] = ttl
	return nil
}

func (c *memCache) Del(_ context.Context, key string) error {
	delete(c.entries, key)
	return nil
}

func TestCachingVerifierCachesUntilExpiry(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	client := &fakeAuth{tokens: map[string]*auth.Token{
		"good": {UID: "u1", Expires: now.Add(2 * time.Minute).Unix()},
	}}
	cache := newMemCache()
	v := NewCachingVerifier(client, cache, 5*time.Minute, zap.NewNop())
	v.now = func() time.Time { return now }

	uid, err := v.VerifyToken(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, "u1", uid)

	uid, err = v.VerifyToken(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, "u1", uid)
	assert.Equal(t, 1, client.verifies)
	assert.Equal(t, 2*time.Minute, cache.ttls[CacheKey("good")])

	v.Forget(context.Background(), "good")
	_, err = v.VerifyToken(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, 2, client.verifies)
}

func TestCachingVerifierRejectsInvalidToken(t *testing.T) {
	cache := newMemCache()
	v := NewCachingVerifier(&fakeAuth{}, cache, time.Minute, zap.NewNop())

	_, err := v.VerifyToken(context.Background(), "forged")
	assert.Error(t, err)
	assert.Empty(t, cache.entries)
}

func TestFirebaseProviderDeleteIdentity(t *testing.T) {
	client := &fakeAuth{}
	p := NewFirebaseProvider(client, zap.NewNop())

	removed, err := p.DeleteIdentity(context.Background(), "u1")
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Equal(t, []string{"u1"}, client.deleted)

	client.deleteErr = errors.New("backend unavailable")
	_, err = p.DeleteIdentity(context.Background(), "u1")
	assert.Error(t, err)
}

func TestFirebaseProviderAbsentUser(t *testing.T) {
	errNoUser := errors.New("no user record found for the given identifier")
	client := &fakeAuth{deleteErr: errNoUser}
	p := NewFirebaseProvider(client, zap.NewNop())
	p.isNotFound = func(err error) bool { return errors.Is(err, errNoUser) }

	removed, err := p.DeleteIdentity(context.Background(), "u1")
	require.NoError(t, err)
	assert.False(t, removed)
}
