package app

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"grading_service/internal/cache"
	"grading_service/internal/domain"
	"grading_service/internal/errdefs"
	"grading_service/pkg/retry"
)

const identityCachePrefix = "identity:"

// IdentityClient resolves bearer tokens against an identity provider's /user endpoint.
type IdentityClient struct {
	issuer string
	http   *http.Client
	cache  cache.Cache
	ttl    time.Duration
}

func NewIdentityClient(issuer string, timeout time.Duration, c cache.Cache, ttl time.Duration) *IdentityClient {
	if c == nil {
		c = cache.Nop{}
	}
	return &IdentityClient{
		issuer: strings.TrimRight(issuer, "/"),
		http:   &http.Client{Timeout: timeout},
		cache:  c,
		ttl:    ttl,
	}
}

type identityUser struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	AppMetadata struct {
		Roles []string `json:"roles"`
	} `json:"app_metadata"`
}

type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("identity /user status %d", e.code)
}

// Authorize returns the identity behind the Authorization header. A missing
// or rejected token yields ErrUnauthenticated.
func (c *IdentityClient) Authorize(ctx context.Context, authHeader string) (*domain.Identity, error) {
	token, ok := BearerToken(authHeader)
	if !ok {
		return nil, fmt.Errorf("missing bearer token: %w", errdefs.ErrUnauthenticated)
	}

	key := identityCachePrefix + tokenHash(token)
	if data, ok := c.cache.Get(ctx, key); ok {
		var identity domain.Identity
		if err := json.Unmarshal(data, &identity); err == nil {
			return &identity, nil
		}
		c.cache.Delete(ctx, key)
	}

	policy := retry.Policy{
		MaxAttempts: 3,
		BaseDelay:   100 * time.Millisecond,
		Retriable:   isRetriable,
	}
	user, err := retry.Do(ctx, policy, func(ctx context.Context) (*identityUser, error) {
		return c.fetchUser(ctx, token)
	})
	if err != nil {
		var se *statusError
		if errors.As(err, &se) && se.code < http.StatusInternalServerError {
			return nil, fmt.Errorf("invalid token (%v): %w", err, errdefs.ErrUnauthenticated)
		}
		return nil, fmt.Errorf("identity provider unavailable: %w", err)
	}

	identity := &domain.Identity{
		ID:    user.ID,
		Email: user.Email,
		Roles: user.AppMetadata.Roles,
	}
	if data, err := json.Marshal(identity); err == nil {
		c.cache.Set(ctx, key, data, c.ttl)
	}
	return identity, nil
}

func (c *IdentityClient) fetchUser(ctx context.Context, token string) (*identityUser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.issuer+"/user", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &statusError{code: resp.StatusCode}
	}

	var user identityUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("decode identity user: %w", err)
	}
	return &user, nil
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" value.
func BearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	return parts[1], true
}

func tokenHash(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func isRetriable(err error) bool {
	var se *statusError
	if errors.As(err, &se) {
		return se.code >= http.StatusInternalServerError
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
