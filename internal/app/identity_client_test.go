package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grading_service/internal/domain"
	"grading_service/internal/errdefs"
)

type memoryCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: map[string][]byte{}}
}

func (m *memoryCache) Get(_ context.Context, key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok
}

func (m *memoryCache) Set(_ context.Context, key string, data []byte, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = data
}

func (m *memoryCache) Delete(_ context.Context, key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		token  string
		ok     bool
	}{
		{"Bearer abc", "abc", true},
		{"bearer   abc  ", "abc", true},
		{"Basic abc", "", false},
		{"Bearer", "", false},
		{"", "", false},
		{"Bearer a b", "", false},
	}
	for _, tt := range tests {
		token, ok := BearerToken(tt.header)
		assert.Equal(t, tt.ok, ok, tt.header)
		assert.Equal(t, tt.token, token, tt.header)
	}
}

func TestIdentityClient_Authorize(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/user", r.URL.Path)
		switch r.Header.Get("Authorization") {
		case "Bearer good":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"u1","email":"prof@example.edu","app_metadata":{"roles":["Professor"]}}`))
		default:
			w.WriteHeader(http.StatusUnauthorized)
		}
	}))
	defer srv.Close()

	c := NewIdentityClient(srv.URL+"/", time.Second, newMemoryCache(), time.Minute)
	ctx := context.Background()

	identity, err := c.Authorize(ctx, "Bearer good")
	require.NoError(t, err)
	assert.Equal(t, "prof@example.edu", identity.Email)
	assert.True(t, identity.HasRole(domain.UserRoleProfessor, domain.UserRoleAdmin))

	_, err = c.Authorize(ctx, "Bearer good")
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load(), "second lookup should hit the cache")

	_, err = c.Authorize(ctx, "Bearer bad")
	assert.ErrorIs(t, err, errdefs.ErrUnauthenticated)

	_, err = c.Authorize(ctx, "")
	assert.ErrorIs(t, err, errdefs.ErrUnauthenticated)
}

func TestIdentityClient_ProviderFailure(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewIdentityClient(srv.URL, time.Second, nil, time.Minute)

	_, err := c.Authorize(context.Background(), "Bearer good")
	require.Error(t, err)
	assert.NotErrorIs(t, err, errdefs.ErrUnauthenticated)
	assert.Equal(t, int32(3), calls.Load())
}
