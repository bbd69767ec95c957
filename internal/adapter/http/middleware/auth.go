package middleware

import (
	"log"
	"loncheras_plus/internal/domain/entities"
	"loncheras_plus/pkg"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const actorContextKey = "loncheras.actor"

// IdentityClaims is the token payload issued by the identity provider.
// The role claim holds the application role of the user profile.
type IdentityClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// Auth validates HS256 bearer tokens signed with secret and stores the caller
// as an entities.Actor in the gin context.
func Auth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			abortUnauthorized(c, "Missing bearer token")
			return
		}

		claims := &IdentityClaims{}
		token, err := jwt.ParseWithClaims(strings.TrimSpace(parts[1]), claims, func(*jwt.Token) (interface{}, error) {
			return secret, nil
		},
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithExpirationRequired(),
			jwt.WithLeeway(30*time.Second),
		)
		if err != nil || !token.Valid {
			log.Printf("[auth][middleware] token rejected remote=%s err=%v", c.ClientIP(), err)
			abortUnauthorized(c, "Invalid or expired token")
			return
		}
		if claims.Subject == "" {
			abortUnauthorized(c, "Token has no subject")
			return
		}

		c.Set(actorContextKey, entities.Actor{
			UID:         claims.Subject,
			Email:       claims.Email,
			DisplayName: claims.Name,
			Role:        entities.Role(strings.ToLower(strings.TrimSpace(claims.Role))),
		})
		c.Next()
	}
}

// ActorFromContext returns the caller set by Auth.
func ActorFromContext(c *gin.Context) (entities.Actor, bool) {
	v, ok := c.Get(actorContextKey)
	if !ok {
		return entities.Actor{}, false
	}
	actor, ok := v.(entities.Actor)
	return actor, ok
}

// SetActor is used by tests and internal callers that authenticate by other means.
func SetActor(c *gin.Context, actor entities.Actor) {
	c.Set(actorContextKey, actor)
}

// IssueToken signs an HS256 token for actor. Intended for local tooling and tests.
func IssueToken(secret []byte, actor entities.Actor, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := IdentityClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   actor.UID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email: actor.Email,
		Name:  actor.DisplayName,
		Role:  string(actor.Role),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func abortUnauthorized(c *gin.Context, msg string) {
	appErr := pkg.NewDomainErrorSimple("UNAUTHORIZED", msg, http.StatusUnauthorized)
	c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToHTTPError())
}
