package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// orgClaims are the registered claims plus the tenant the token is scoped to.
// Subject carries the user ID.
type orgClaims struct {
	OrganizationID string `json:"orgID"`
	jwt.RegisteredClaims
}

// AuthMiddleware creates a Gin middleware handler that validates JWT tokens
// issued by the platform and extracts the caller's user and organization IDs.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logger.Warn("Authorization header missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			logger.Warn("Authorization header format invalid")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer {token}"})
			return
		}

		claims := &orgClaims{}
		token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return []byte(jwtSecret), nil
		})

		if err != nil || !token.Valid {
			msg := "Invalid token"
			if errors.Is(err, jwt.ErrTokenExpired) {
				msg = "Token has expired"
			} else if errors.Is(err, jwt.ErrTokenNotValidYet) {
				msg = "Token not valid yet"
			}
			logger.Warn("Invalid token", slog.Any("error", err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
			return
		}

		if claims.Subject == "" || claims.OrganizationID == "" {
			logger.Warn("Token missing subject or organization claim")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token missing required claims"})
			return
		}

		c.Set(string(userIDKey), claims.Subject)
		c.Set(string(organizationIDKey), claims.OrganizationID)

		// Propagate identity and an enriched logger on the request context so
		// non-Gin code can read them.
		ctx := context.WithValue(c.Request.Context(), userIDKey, claims.Subject)
		ctx = context.WithValue(ctx, organizationIDKey, claims.OrganizationID)
		ctx = context.WithValue(ctx, loggerKey, logger.With(
			slog.String("user_id", claims.Subject),
			slog.String("organization_id", claims.OrganizationID),
		))
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
