package middleware

import (
	"net/http"
	"strings"

	"github.com/gsagg03-cmyk/erpx/internal/apierror"
	"github.com/gsagg03-cmyk/erpx/internal/authz"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	ClaimsKey = "claims"
	ActorKey  = "actor"

	tokenTypeAccess = "access"
)

// JWTClaims are the custom claims embedded in every token.
type JWTClaims struct {
	UserID     string `json:"user_id"`
	BusinessID string `json:"business_id"`
	Username   string `json:"username"`
	Role       string `json:"role"`
	TokenType  string `json:"typ"`
	jwt.RegisteredClaims
}

// JWTAuth validates the Bearer access token on every protected route and
// stores both the claims and the derived authz.Actor in the context.
func JWTAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("authentication required"))
			return
		}

		tokenStr := strings.TrimPrefix(header, "Bearer ")
		claims := &JWTClaims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})

		if err != nil || !token.Valid || claims.TokenType != tokenTypeAccess {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("invalid or expired token"))
			return
		}

		actor, ok := actorFromClaims(claims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("invalid or expired token"))
			return
		}

		c.Set(ClaimsKey, claims)
		c.Set(ActorKey, actor)
		c.Next()
	}
}

func actorFromClaims(claims *JWTClaims) (authz.Actor, bool) {
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return authz.Actor{}, false
	}
	bizID, err := uuid.Parse(claims.BusinessID)
	if err != nil {
		return authz.Actor{}, false
	}
	role := authz.Role(claims.Role)
	if !role.Valid() {
		return authz.Actor{}, false
	}
	return authz.Actor{BusinessID: bizID, UserID: userID, Role: role}, true
}

// RequireCapability rejects requests whose actor lacks the capability. Services
// check again; this only short-circuits obvious denials at the edge.
func RequireCapability(policy *authz.Policy, capability authz.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !policy.Can(GetActor(c), capability) {
			c.AbortWithStatusJSON(http.StatusForbidden, apierror.WithCode("forbidden", "insufficient permissions"))
			return
		}
		c.Next()
	}
}

// GetClaims is a helper to retrieve typed claims from the Gin context.
func GetClaims(c *gin.Context) *JWTClaims {
	claims, _ := c.Get(ClaimsKey)
	typed, _ := claims.(*JWTClaims)
	return typed
}

// GetActor returns the request's actor, or the zero Actor (no capabilities)
// when the route is not behind JWTAuth.
func GetActor(c *gin.Context) authz.Actor {
	v, _ := c.Get(ActorKey)
	actor, _ := v.(authz.Actor)
	return actor
}
