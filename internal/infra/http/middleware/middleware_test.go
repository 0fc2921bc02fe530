package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nicksok2413/CRM/internal/entity"
	"github.com/Nicksok2413/CRM/internal/infra/logger"
)

const secret = "test-secret"

func token(t *testing.T, key string, claims Claims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
	require.NoError(t, err)
	return s
}

func claimsFor(sub string, role entity.Role, exp time.Time) Claims {
	return Claims{
		Username: "petrov",
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
}

func protected(t *testing.T, got *entity.Actor) http.Handler {
	return NewAuthenticator(secret).Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := ActorFrom(r.Context())
		require.True(t, ok)
		*got = actor
	}))
}

func TestAuthenticator(t *testing.T) {
	valid := claimsFor("m1", entity.RoleManager, time.Now().Add(time.Hour))

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"valid", "Bearer " + token(t, secret, valid), http.StatusOK},
		{"missing", "", http.StatusUnauthorized},
		{"wrong secret", "Bearer " + token(t, "other", valid), http.StatusUnauthorized},
		{"expired", "Bearer " + token(t, secret, claimsFor("m1", entity.RoleManager, time.Now().Add(-time.Minute))), http.StatusUnauthorized},
		{"system role", "Bearer " + token(t, secret, claimsFor("x", entity.RoleSystem, time.Now().Add(time.Hour))), http.StatusUnauthorized},
		{"no subject", "Bearer " + token(t, secret, claimsFor("", entity.RoleAdmin, time.Now().Add(time.Hour))), http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var actor entity.Actor
			req := httptest.NewRequest(http.MethodGet, "/leads", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			protected(t, &actor).ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, entity.Actor{ID: "m1", Username: "petrov", Role: entity.RoleManager}, actor)
			}
		})
	}
}

func TestMetrics_UsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Metrics)
	r.Use(RequestLogger(logger.NewNop()))
	r.Get("/campaigns/{id}/stats", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	before, err := testutil.GatherAndCount(prometheus.DefaultGatherer, "http_requests_total")
	require.NoError(t, err)
	for _, id := range []string{"a", "b"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/campaigns/"+id+"/stats", nil))
	}

	after, err := testutil.GatherAndCount(prometheus.DefaultGatherer, "http_requests_total")
	require.NoError(t, err)
	assert.Equal(t, before+1, after, "both ids share one series")
}
