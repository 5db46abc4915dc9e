// Package session caches the authenticated user's tokens and profile in the
// local key-value store. All four keys are written together on login and
// removed together on logout so a half-cleared session cannot survive.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/athenaeumhq/athenaeum/internal/store"
)

// Store keys. The profile is cached as JSON so views can render identity
// without a network round trip.
const (
	keyToken        = "token"
	keyRefreshToken = "refreshToken"
	keyUserType     = "userType"
	keyUserProfile  = "userProfile"
)

// Roles a session can carry.
const (
	RoleAuthor   = "author"
	RoleReviewer = "reviewer"
)

// ErrNoSession is returned by accessors when no user is logged in.
var ErrNoSession = errors.New("session: not logged in")

// Profile is the locally cached identity record.
type Profile struct {
	UUID     string `json:"uuid,omitempty"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Type     string `json:"type"`
}

// Cache is the persisted session. It is safe for concurrent use.
type Cache struct {
	mu     sync.RWMutex
	store  *store.Store
	logger *zap.Logger

	token        string
	refreshToken string
	userType     string
}

// New loads any persisted session from the store.
func New(ctx context.Context, st *store.Store, logger *zap.Logger) *Cache {
	c := &Cache{store: st, logger: logger}

	for key, dst := range map[string]*string{
		keyToken:        &c.token,
		keyRefreshToken: &c.refreshToken,
		keyUserType:     &c.userType,
	} {
		val, err := st.Get(ctx, key)
		if err != nil {
			if !errors.Is(err, store.ErrNotFound) {
				logger.Warn("session key unreadable", zap.String("key", key), zap.Error(err))
			}
			continue
		}
		*dst = val
	}
	return c
}

// Persist saves a fresh token grant and profile. A nil profile leaves the
// cached profile alone so a failed profile fetch does not lose the login.
func (c *Cache) Persist(ctx context.Context, accessToken, refreshToken, userType string, profile *Profile) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	pairs := map[string]string{
		keyToken:        accessToken,
		keyRefreshToken: refreshToken,
		keyUserType:     userType,
	}
	if profile != nil {
		data, err := json.Marshal(profile)
		if err != nil {
			return fmt.Errorf("marshal profile: %w", err)
		}
		pairs[keyUserProfile] = string(data)
	}
	for key, val := range pairs {
		if err := c.store.Set(ctx, key, val); err != nil {
			return fmt.Errorf("persist %s: %w", key, err)
		}
	}

	c.token = accessToken
	c.refreshToken = refreshToken
	c.userType = userType
	return nil
}

// SetProfile caches the profile record for an already-persisted session.
func (c *Cache) SetProfile(ctx context.Context, profile *Profile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}
	return c.store.Set(ctx, keyUserProfile, string(data))
}

// Clear removes all session keys. Missing keys are not an error; Clear is
// safe to call on an already logged-out cache.
func (c *Cache) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, key := range []string{keyToken, keyRefreshToken, keyUserType, keyUserProfile} {
		if err := c.store.Delete(ctx, key); err != nil {
			return fmt.Errorf("clear %s: %w", key, err)
		}
	}
	c.token = ""
	c.refreshToken = ""
	c.userType = ""
	return nil
}

// Token returns the access token, or "" when logged out. Satisfies the API
// client's token source.
func (c *Cache) Token(context.Context) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// RefreshToken returns the refresh token, or "" when logged out.
func (c *Cache) RefreshToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.refreshToken
}

// UserType returns the cached role, or "" when logged out.
func (c *Cache) UserType() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.userType
}

// LoggedIn reports whether an access token is present.
func (c *Cache) LoggedIn() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token != ""
}

// Profile returns the cached identity record. A missing or corrupt cache
// entry yields ErrNoSession rather than a decode error; the record is a
// convenience copy, not a source of truth.
func (c *Cache) Profile(ctx context.Context) (*Profile, error) {
	raw, err := c.store.Get(ctx, keyUserProfile)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("read profile: %w", err)
	}
	var profile Profile
	if err := json.Unmarshal([]byte(raw), &profile); err != nil {
		c.logger.Warn("cached profile corrupt, discarding", zap.Error(err))
		return nil, ErrNoSession
	}
	return &profile, nil
}

// Claims decodes the access token's registered claims without verifying the
// signature. The server is the authority on validity; the client only reads
// claims for display and expiry hints.
func (c *Cache) Claims() (*jwt.RegisteredClaims, error) {
	c.mu.RLock()
	token := c.token
	c.mu.RUnlock()

	if token == "" {
		return nil, ErrNoSession
	}
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("decode token: %w", err)
	}
	return claims, nil
}

// ExpiresSoon reports whether the access token expires within the window.
// Tokens without an exp claim never report true.
func (c *Cache) ExpiresSoon(window time.Duration) bool {
	claims, err := c.Claims()
	if err != nil || claims.ExpiresAt == nil {
		return false
	}
	return time.Until(claims.ExpiresAt.Time) < window
}
