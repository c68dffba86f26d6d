package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRepo struct {
	byHash map[string]*Session
}

func newMockRepo() *mockRepo {
	return &mockRepo{byHash: make(map[string]*Session)}
}

func (m *mockRepo) Create(_ context.Context, s *Session) error {
	m.byHash[s.TokenHash] = s
	return nil
}

func (m *mockRepo) FindByHash(_ context.Context, hash string) (*Session, error) {
	s, ok := m.byHash[hash]
	if !ok {
		return nil, ErrUnauthorized
	}
	return s, nil
}

func (m *mockRepo) Delete(_ context.Context, hash string) error {
	delete(m.byHash, hash)
	return nil
}

func TestIssueAndAuthenticate(t *testing.T) {
	mgr := NewManager(newMockRepo(), []byte("pepper"), time.Hour)

	token, err := mgr.Issue(context.Background(), "u1")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := mgr.Authenticate(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "u1", userID)
}

func TestAuthenticate_UnknownToken(t *testing.T) {
	mgr := NewManager(newMockRepo(), []byte("pepper"), time.Hour)

	_, err := mgr.Authenticate(context.Background(), "deadbeef")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestAuthenticate_EmptyToken(t *testing.T) {
	mgr := NewManager(newMockRepo(), []byte("pepper"), time.Hour)

	_, err := mgr.Authenticate(context.Background(), "")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestAuthenticate_Expired(t *testing.T) {
	repo := newMockRepo()
	mgr := NewManager(repo, []byte("pepper"), time.Minute)

	token, err := mgr.Issue(context.Background(), "u1")
	require.NoError(t, err)

	mgr.now = func() time.Time { return time.Now().Add(2 * time.Minute) }

	_, err = mgr.Authenticate(context.Background(), token)
	assert.ErrorIs(t, err, ErrUnauthorized)
	// Expired session is evicted.
	assert.Empty(t, repo.byHash)
}

func TestRevoke(t *testing.T) {
	mgr := NewManager(newMockRepo(), []byte("pepper"), time.Hour)

	token, err := mgr.Issue(context.Background(), "u1")
	require.NoError(t, err)
	require.NoError(t, mgr.Revoke(context.Background(), token))

	_, err = mgr.Authenticate(context.Background(), token)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestTokensDifferPerIssue(t *testing.T) {
	mgr := NewManager(newMockRepo(), []byte("pepper"), time.Hour)

	t1, err := mgr.Issue(context.Background(), "u1")
	require.NoError(t, err)
	t2, err := mgr.Issue(context.Background(), "u1")
	require.NoError(t, err)

	assert.NotEqual(t, t1, t2)
}
