package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/examhall/examhall-backend/internal/response"
	"github.com/examhall/examhall-backend/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	// ContextKeyClaims is the Gin context key for JWT claims.
	ContextKeyClaims = "claims"
)

var errTokenMissing = errors.New("authorization header required")

// RequireStudentJWT validates a student JWT from the Authorization header.
func RequireStudentJWT(authService *service.AuthService) gin.HandlerFunc {
	return requireTokenType(authService, service.TokenTypeStudent, bearerToken)
}

// RequireAdminJWT validates an admin JWT from the Authorization header.
func RequireAdminJWT(authService *service.AuthService) gin.HandlerFunc {
	return requireTokenType(authService, service.TokenTypeAdmin, bearerToken)
}

// RequireAdminWSAuth validates an admin JWT from the query param ?token=...
// Used for WebSocket upgrade requests, which cannot carry custom headers from browsers.
func RequireAdminWSAuth(authService *service.AuthService) gin.HandlerFunc {
	return requireTokenType(authService, service.TokenTypeAdmin, func(c *gin.Context) string {
		if tok := bearerToken(c); tok != "" {
			return tok
		}
		return c.Query("token")
	})
}

func requireTokenType(authService *service.AuthService, want service.TokenType, extract func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := validate(authService, extract(c))
		if err != nil {
			abortAuthError(c, err)
			return
		}

		if claims.TokenType != want {
			code := response.ErrAdminAccessOnly
			if want == service.TokenTypeStudent {
				code = response.ErrStudentAccessOnly
			}
			response.AbortFail(c, http.StatusForbidden, code)
			return
		}

		c.Set(ContextKeyClaims, claims)
		c.Next()
	}
}

// GetClaims retrieves the JWT claims from the Gin context.
func GetClaims(c *gin.Context) *service.Claims {
	val, exists := c.Get(ContextKeyClaims)
	if !exists {
		return nil
	}
	claims, ok := val.(*service.Claims)
	if !ok {
		return nil
	}
	return claims
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

func validate(authService *service.AuthService, tokenStr string) (*service.Claims, error) {
	if tokenStr == "" {
		return nil, errTokenMissing
	}
	return authService.ValidateToken(tokenStr)
}

func abortAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errTokenMissing):
		response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
	case errors.Is(err, jwt.ErrTokenExpired):
		response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenExpired)
	default:
		response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenInvalid)
	}
}
