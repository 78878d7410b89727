package ginserver

import (
	"log/slog"
	"net/http"
	"strings"

	gin "github.com/gin-gonic/gin"

	authsvc "adboard/internal/app/services/auth"
	domainuser "adboard/internal/domain/user"
)

const principalContextKey = "adboard.principal"

// principal is the typed authenticated caller; every guarded operation reads
// the resolved role from here instead of re-deriving it ad hoc.
type principal struct {
	ID    domainuser.ID
	Email string
	Role  domainuser.Role
	Admin bool
	User  *domainuser.User
}

type AuthMiddleware struct {
	Service *authsvc.Service
	Logger  *slog.Logger
}

// Handle resolves a bearer token into a principal. Absent or bad credentials
// pass through anonymously; the per-route guards decide whether that is fatal.
func (m AuthMiddleware) Handle(c *gin.Context) {
	token := extractBearerToken(c.GetHeader("Authorization"))
	if token == "" || m.Service == nil {
		c.Next()
		return
	}
	user, err := m.Service.ResolveToken(c.Request.Context(), token)
	if err != nil {
		if m.Logger != nil {
			m.Logger.Debug("token validation failed", "error", err)
		}
		c.Next()
		return
	}
	c.Set(principalContextKey, principal{
		ID:    user.ID,
		Email: user.Email,
		Role:  user.Profile.Role,
		Admin: user.IsAdmin(),
		User:  user,
	})
	c.Next()
}

func currentPrincipal(c *gin.Context) (principal, bool) {
	val, exists := c.Get(principalContextKey)
	if !exists {
		return principal{}, false
	}
	p, ok := val.(principal)
	return p, ok
}

func requireAuth(c *gin.Context) (principal, bool) {
	p, ok := currentPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "auth required"})
		return principal{}, false
	}
	return p, true
}

func requireRole(c *gin.Context, role domainuser.Role) (principal, bool) {
	p, ok := requireAuth(c)
	if !ok {
		return principal{}, false
	}
	if p.Role != role && !p.Admin {
		c.JSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
		return principal{}, false
	}
	return p, true
}

func requireAdmin(c *gin.Context) (principal, bool) {
	p, ok := requireAuth(c)
	if !ok {
		return principal{}, false
	}
	if !p.Admin {
		c.JSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
		return principal{}, false
	}
	return p, true
}

func extractBearerToken(header string) string {
	if header == "" {
		return ""
	}
	if !strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}
