package middleware

import "github.com/gin-gonic/gin"

// userIDKey and organizationIDKey carry the authenticated caller's identity
// and tenant through the request.
const (
	userIDKey         = contextKey("userID")
	organizationIDKey = contextKey("organizationID")
)

// GetUserIDFromContext retrieves the authenticated user ID from the Gin context.
// It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	return stringFromContext(c, userIDKey)
}

// GetOrganizationIDFromContext retrieves the caller's organization ID from the
// Gin context. Every rate and conversion operation is scoped to it; handlers
// must refuse requests where it is absent.
func GetOrganizationIDFromContext(c *gin.Context) (string, bool) {
	return stringFromContext(c, organizationIDKey)
}

func stringFromContext(c *gin.Context, key contextKey) (string, bool) {
	val, exists := c.Get(string(key))
	if !exists {
		// check the request context as well
		reqVal := c.Request.Context().Value(key)
		if reqVal != nil {
			s, ok := reqVal.(string)
			return s, ok
		}
		return "", false
	}

	s, ok := val.(string)
	if !ok {
		return "", false
	}
	return s, true
}
