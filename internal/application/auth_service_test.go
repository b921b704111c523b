package application

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/arenatv/backend/internal/domain"
	"github.com/arenatv/backend/internal/infrastructure/storage"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeUserRepo serves accounts from memory.
type fakeUserRepo struct {
	users map[string]*domain.AppUser
	err   error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*domain.AppUser)}
}

func (r *fakeUserRepo) Create(user *domain.AppUser) error {
	r.users[user.Username] = user
	return nil
}

func (r *fakeUserRepo) GetByID(id uuid.UUID) (*domain.AppUser, error) {
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeUserRepo) GetByUsername(username string) (*domain.AppUser, error) {
	if r.err != nil {
		return nil, r.err
	}
	u, ok := r.users[username]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) Update(user *domain.AppUser) error { return nil }
func (r *fakeUserRepo) Delete(id uuid.UUID) error         { return nil }

func newTestGate(t *testing.T) (*AuthService, *fakeUserRepo, *storage.Memory) {
	t.Helper()
	repo := newFakeUserRepo()
	store := storage.NewMemory(0)
	svc := NewAuthService(repo, store, "test-salt", "test-secret", 24)
	return svc, repo, store
}

func seedUser(t *testing.T, svc *AuthService, repo *fakeUserRepo, username, password string, expiresAt time.Time, active bool) *domain.AppUser {
	t.Helper()
	user, err := svc.CreateUser(username, password, "Test User", expiresAt)
	require.NoError(t, err)
	user.IsActive = active
	repo.users[user.Username] = user
	return user
}

func TestLoginSuccess(t *testing.T) {
	svc, repo, store := newTestGate(t)
	seedUser(t, svc, repo, "alice", "secret", time.Now().Add(24*time.Hour), true)

	session, token, err := svc.Login("  Alice ", "secret")
	require.NoError(t, err)
	assert.Equal(t, "alice", session.Username)
	assert.NotEmpty(t, token)
	assert.True(t, svc.CheckAccess())

	// Safe subset persisted.
	raw, err := store.Get(context.Background(), sessionKey)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), svc.Fingerprint("secret"))
}

func TestLoginUserNotFound(t *testing.T) {
	svc, _, store := newTestGate(t)

	_, _, err := svc.Login("nobody", "secret")
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = store.Get(context.Background(), sessionKey)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, repo, store := newTestGate(t)
	seedUser(t, svc, repo, "alice", "secret", time.Now().Add(24*time.Hour), true)

	_, _, err := svc.Login("alice", "wrong")
	assert.ErrorIs(t, err, ErrWrongPassword)
	assert.False(t, svc.CheckAccess())

	_, err = store.Get(context.Background(), sessionKey)
	assert.ErrorIs(t, err, storage.ErrNotFound, "fingerprint mismatch must not create a session")
}

func TestLoginDeactivatedAccount(t *testing.T) {
	svc, repo, _ := newTestGate(t)
	seedUser(t, svc, repo, "alice", "secret", time.Now().Add(24*time.Hour), false)

	_, _, err := svc.Login("alice", "secret")
	assert.ErrorIs(t, err, ErrAccountDeactivated)
}

func TestLoginExpiredSubscription(t *testing.T) {
	svc, repo, _ := newTestGate(t)
	seedUser(t, svc, repo, "alice", "secret", time.Now().Add(-time.Hour), true)

	_, _, err := svc.Login("alice", "secret")
	assert.ErrorIs(t, err, ErrSubscriptionExpired)
}

func TestLoginLookupFailure(t *testing.T) {
	svc, repo, _ := newTestGate(t)
	repo.err = assert.AnError

	_, _, err := svc.Login("alice", "secret")
	assert.ErrorIs(t, err, ErrVerification)
}

func TestCheckAccessExpiredSession(t *testing.T) {
	svc, repo, _ := newTestGate(t)
	user := seedUser(t, svc, repo, "alice", "secret", time.Now().Add(time.Minute), true)

	_, _, err := svc.Login("alice", "secret")
	require.NoError(t, err)
	require.True(t, svc.CheckAccess())

	// Re-evaluated on demand: once past expires_at, access is gone.
	svc.now = func() time.Time { return user.ExpiresAt.Add(time.Second) }
	assert.False(t, svc.CheckAccess())

	// An inactive record denies access even when unexpired.
	svc.now = time.Now
	svc.session.IsActive = false
	assert.False(t, svc.CheckAccess())
}

func TestCheckAccessWithoutSession(t *testing.T) {
	svc, _, _ := newTestGate(t)
	assert.False(t, svc.CheckAccess())
}

func TestLogoutClearsSession(t *testing.T) {
	svc, repo, store := newTestGate(t)
	seedUser(t, svc, repo, "alice", "secret", time.Now().Add(24*time.Hour), true)

	_, _, err := svc.Login("alice", "secret")
	require.NoError(t, err)

	svc.Logout()
	assert.Nil(t, svc.CurrentSession())
	assert.False(t, svc.CheckAccess())

	_, err = store.Get(context.Background(), sessionKey)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestSessionSurvivesRestart(t *testing.T) {
	repo := newFakeUserRepo()
	store := storage.NewMemory(0)
	svc := NewAuthService(repo, store, "test-salt", "test-secret", 24)
	seedUser(t, svc, repo, "alice", "secret", time.Now().Add(24*time.Hour), true)

	_, _, err := svc.Login("alice", "secret")
	require.NoError(t, err)

	restarted := NewAuthService(repo, store, "test-salt", "test-secret", 24)
	require.NotNil(t, restarted.CurrentSession())
	assert.Equal(t, "alice", restarted.CurrentSession().Username)
	assert.True(t, restarted.CheckAccess())
}

func TestSessionSafeUnderConcurrentAccess(t *testing.T) {
	svc, repo, _ := newTestGate(t)
	seedUser(t, svc, repo, "alice", "secret", time.Now().Add(24*time.Hour), true)

	// Handlers hit the gate concurrently: RequireAccess reads the session on
	// every request while login and logout replace it.
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				svc.Login("alice", "secret")
				svc.CheckAccess()
				svc.CurrentSession()
				svc.Logout()
			}
		}()
	}
	wg.Wait()

	assert.False(t, svc.CheckAccess())
	assert.Nil(t, svc.CurrentSession())
}

func TestValidateToken(t *testing.T) {
	svc, repo, _ := newTestGate(t)
	user := seedUser(t, svc, repo, "alice", "secret", time.Now().Add(24*time.Hour), true)

	_, token, err := svc.Login("alice", "secret")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "alice", claims.Username)

	_, err = svc.ValidateToken(token + "tampered")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
