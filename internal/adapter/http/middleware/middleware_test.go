package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"loncheras_plus/internal/domain/entities"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

var testSecret = []byte("test-secret")

func newAuthRouter(captured *entities.Actor) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Auth(testSecret))
	r.GET("/me", func(c *gin.Context) {
		actor, ok := ActorFromContext(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		*captured = actor
		c.Status(http.StatusOK)
	})
	return r
}

func TestAuth(t *testing.T) {
	analyst := entities.Actor{UID: "an-1", Email: "ana@loncheras.mx", DisplayName: "Ana", Role: entities.RoleAnalyst}

	t.Run("valid token", func(t *testing.T) {
		var got entities.Actor
		r := newAuthRouter(&got)
		token, err := IssueToken(testSecret, analyst, time.Hour)
		if err != nil {
			t.Fatalf("issue token: %v", err)
		}

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		if got != analyst {
			t.Fatalf("unexpected actor: %+v", got)
		}
	})

	cases := []struct {
		name   string
		header func() string
	}{
		{"missing header", func() string { return "" }},
		{"wrong scheme", func() string { return "Basic abc" }},
		{"garbage token", func() string { return "Bearer not-a-jwt" }},
		{"wrong secret", func() string {
			tok, _ := IssueToken([]byte("other"), analyst, time.Hour)
			return "Bearer " + tok
		}},
		{"expired", func() string {
			tok, _ := IssueToken(testSecret, analyst, -time.Hour)
			return "Bearer " + tok
		}},
		{"no subject", func() string {
			tok, _ := IssueToken(testSecret, entities.Actor{Role: entities.RoleAnalyst}, time.Hour)
			return "Bearer " + tok
		}},
		{"no expiry", func() string {
			tok, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, IdentityClaims{
				RegisteredClaims: jwt.RegisteredClaims{Subject: "an-1"},
			}).SignedString(testSecret)
			return "Bearer " + tok
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var got entities.Actor
			r := newAuthRouter(&got)
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if h := tc.header(); h != "" {
				req.Header.Set("Authorization", h)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", w.Code)
			}
			if !strings.Contains(w.Body.String(), "UNAUTHORIZED") {
				t.Fatalf("expected error envelope, got %s", w.Body.String())
			}
		})
	}
}

func TestMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Metrics())
	r.GET("/v1/quotes/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/v1/quotes/:id", "204"))
	for _, id := range []string{"a", "b"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/quotes/"+id, nil))
	}
	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/v1/quotes/:id", "204"))
	if after-before != 2 {
		t.Fatalf("expected 2 requests on the route template, got %v", after-before)
	}
}
