package application

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/arenatv/backend/internal/domain"
	"github.com/arenatv/backend/internal/infrastructure/storage"
	"github.com/arenatv/backend/internal/pkg/logger"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrVerification        = errors.New("could not verify account")
	ErrUserNotFound        = errors.New("user not found")
	ErrWrongPassword       = errors.New("incorrect password")
	ErrAccountDeactivated  = errors.New("account deactivated")
	ErrSubscriptionExpired = errors.New("subscription expired")
	ErrInvalidToken        = errors.New("invalid token")
)

// sessionKey is the storage key the session payload is persisted under.
const sessionKey = "session"

// AuthService is the session gate: it authenticates a user against the
// remote record, validates activation and expiry, and keeps the resulting
// session both in memory and in durable storage.
type AuthService struct {
	users           domain.UserRepository
	store           storage.KV
	passwordSalt    string
	jwtSecret       []byte
	tokenExpiration time.Duration
	now             func() time.Time

	// mu guards session; handlers read it concurrently with login/logout.
	mu      sync.RWMutex
	session *domain.Session
}

// Claims represents the JWT claims issued on login.
type Claims struct {
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
	jwt.RegisteredClaims
}

// NewAuthService creates the session gate and restores any persisted
// session so access survives a restart.
func NewAuthService(users domain.UserRepository, store storage.KV, passwordSalt, jwtSecret string, tokenExpHours int) *AuthService {
	s := &AuthService{
		users:           users,
		store:           store,
		passwordSalt:    passwordSalt,
		jwtSecret:       []byte(jwtSecret),
		tokenExpiration: time.Duration(tokenExpHours) * time.Hour,
		now:             time.Now,
	}
	s.session = s.loadSession()
	return s
}

// Login verifies the credentials and the account's activation and expiry,
// then persists the safe session subset and returns it with an API token.
func (s *AuthService) Login(username, password string) (*domain.Session, string, error) {
	uname := strings.ToLower(strings.TrimSpace(username))

	user, err := s.users.GetByUsername(uname)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", ErrUserNotFound
		}
		logger.Error().Err(err).Str("username", uname).Msg("User lookup failed")
		return nil, "", ErrVerification
	}

	if s.Fingerprint(password) != user.PasswordHash {
		return nil, "", ErrWrongPassword
	}
	if !user.IsActive {
		return nil, "", ErrAccountDeactivated
	}
	now := s.now()
	if !user.ExpiresAt.After(now) {
		return nil, "", ErrSubscriptionExpired
	}

	session := domain.SessionFromUser(user)
	s.mu.Lock()
	s.session = session
	s.mu.Unlock()
	s.persistSession(session)

	token, err := s.issueToken(user, now)
	if err != nil {
		return nil, "", ErrVerification
	}
	return session, token, nil
}

// Logout clears the persisted session unconditionally.
func (s *AuthService) Logout() {
	s.mu.Lock()
	s.session = nil
	s.mu.Unlock()
	if err := s.store.Delete(context.Background(), sessionKey); err != nil {
		logger.Debug().Err(err).Msg("Session delete failed")
	}
}

// CheckAccess re-evaluates activation and expiry of the held session. No
// network call is made; an absent session means no access.
func (s *AuthService) CheckAccess() bool {
	s.mu.RLock()
	session := s.session
	s.mu.RUnlock()
	return session.HasAccess(s.now())
}

// CurrentSession returns the held session, or nil when unauthenticated.
func (s *AuthService) CurrentSession() *domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

// ValidateToken parses and validates an API token.
func (s *AuthService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// CreateUser provisions an account with a fingerprinted password.
func (s *AuthService) CreateUser(username, password, displayName string, expiresAt time.Time) (*domain.AppUser, error) {
	user := domain.NewAppUser(strings.ToLower(strings.TrimSpace(username)), displayName, expiresAt)
	user.PasswordHash = s.Fingerprint(password)
	if err := s.users.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Fingerprint derives the one-way digest compared against the stored hash.
// Raw passwords are never compared or stored.
func (s *AuthService) Fingerprint(password string) string {
	sum := sha256.Sum256([]byte(password + s.passwordSalt))
	return hex.EncodeToString(sum[:])
}

// issueToken signs an API token whose lifetime never outlives the
// subscription.
func (s *AuthService) issueToken(user *domain.AppUser, now time.Time) (string, error) {
	expiresAt := now.Add(s.tokenExpiration)
	if user.ExpiresAt.Before(expiresAt) {
		expiresAt = user.ExpiresAt
	}

	claims := &Claims{
		UserID:   user.ID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    "arenatv",
			Subject:   user.ID.String(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// loadSession restores the persisted session payload. A missing or corrupt
// record yields no session.
func (s *AuthService) loadSession() *domain.Session {
	raw, err := s.store.Get(context.Background(), sessionKey)
	if err != nil {
		return nil
	}
	var session domain.Session
	if err := json.Unmarshal(raw, &session); err != nil {
		logger.Warn().Err(err).Msg("Discarding corrupt persisted session")
		return nil
	}
	return &session
}

// persistSession writes the session payload. A storage failure degrades to
// in-memory only.
func (s *AuthService) persistSession(session *domain.Session) {
	data, err := json.Marshal(session)
	if err != nil {
		return
	}
	if err := s.store.Set(context.Background(), sessionKey, data); err != nil {
		logger.Debug().Err(err).Msg("Session persist failed, keeping in-memory state")
	}
}
