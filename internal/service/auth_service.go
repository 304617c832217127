package service

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"meal-labels/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

const tokenCacheTTL = 30 * time.Second

type tokenCacheEntry struct {
	user      *domain.SupabaseUser
	expiresAt time.Time
}

// TokenValidator is the part of the Supabase client the auth service needs.
type TokenValidator interface {
	ValidateToken(token string) (*domain.SupabaseUser, error)
}

type authService struct {
	validator TokenValidator
	logger    domain.Logger
	now       func() time.Time

	tokenCacheMu sync.RWMutex
	tokenCache   map[string]tokenCacheEntry
}

func NewAuthService(
	validator TokenValidator,
	logger domain.Logger,
) *authService {
	return &authService{
		validator:  validator,
		logger:     logger,
		now:        time.Now,
		tokenCache: make(map[string]tokenCacheEntry),
	}
}

var errTokenExpired = errors.New("token expired")

// tokenExpiry reads the exp claim without verifying the signature; Supabase
// remains the authority on validity. A zero time means the token has no exp.
func tokenExpiry(token string) (time.Time, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, err
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, err
	}
	if exp == nil {
		return time.Time{}, nil
	}
	return exp.Time, nil
}

// ValidateToken checks a Supabase access token. Malformed and expired tokens
// are rejected locally; successful lookups are cached briefly so repeated
// uploads do not hit the auth server each time.
func (s *authService) ValidateToken(token string) (*domain.SupabaseUser, error) {
	now := s.now()
	s.tokenCacheMu.RLock()
	entry, ok := s.tokenCache[token]
	s.tokenCacheMu.RUnlock()
	if ok && now.Before(entry.expiresAt) {
		return entry.user, nil
	}

	exp, err := tokenExpiry(token)
	if err != nil {
		s.logger.Debug("Rejected malformed token", "error", err.Error())
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}
	if !exp.IsZero() && !now.Before(exp) {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidToken, errTokenExpired)
	}

	user, err := s.validator.ValidateToken(token)
	if err != nil {
		s.logger.Error("Failed to validate token with Supabase", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}

	s.tokenCacheMu.Lock()
	for key, cached := range s.tokenCache {
		if !now.Before(cached.expiresAt) {
			delete(s.tokenCache, key)
		}
	}
	expiresAt := now.Add(tokenCacheTTL)
	if !exp.IsZero() && exp.Before(expiresAt) {
		expiresAt = exp
	}
	s.tokenCache[token] = tokenCacheEntry{user: user, expiresAt: expiresAt}
	s.tokenCacheMu.Unlock()

	return user, nil
}
