package middleware

import (
	"context"
	"net/http"

	"github.com/Nahimba/MotoCRM-sub001/internal/access"
	"github.com/Nahimba/MotoCRM-sub001/internal/model"
	"github.com/Nahimba/MotoCRM-sub001/internal/session"

	"github.com/gin-gonic/gin"
)

const (
	AuthUserKey = "authUser"
	AuthRoleKey = "authRole"
	SessionKey  = "session"
)

// Resolver reads the session out of request cookies.
type Resolver interface {
	Resolve(ctx context.Context, cookies []*http.Cookie) session.Resolution
}

// SessionMiddleware resolves the caller, writes any cookie changes back
// and then applies the access rules for the requested path. A redirect
// decision ends the chain with 302 and a JSON body naming the target.
func SessionMiddleware(resolver Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		res := resolver.Resolve(c.Request.Context(), c.Request.Cookies())
		for _, ck := range res.SetCookies {
			http.SetCookie(c.Writer, ck)
		}

		c.Set(SessionKey, res)
		c.Set(AuthRoleKey, res.Role)
		if res.SignedIn() {
			c.Set(AuthUserKey, res.Identity.UserID)
		}

		decision := access.Decide(res.SignedIn(), res.Role, access.Classify(c.Request.URL.Path))
		if !decision.Allowed() {
			c.Header("Location", decision.Redirect)
			c.AbortWithStatusJSON(http.StatusFound, gin.H{"redirect": decision.Redirect})
			return
		}

		c.Next()
	}
}

// InstallSession puts the session middleware on the whole engine, including
// its 404 handler, so unknown paths are classified like registered ones.
// Routes registered before the call stay outside the access layer.
func InstallSession(router *gin.Engine, resolver Resolver) {
	router.Use(SessionMiddleware(resolver))
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	})
}

// CurrentUserID returns the signed-in user's ID, or "" for anonymous callers.
func CurrentUserID(c *gin.Context) string {
	return c.GetString(AuthUserKey)
}

// CurrentRole returns the caller's role, RoleUnknown when none was resolved.
func CurrentRole(c *gin.Context) model.Role {
	if v, ok := c.Get(AuthRoleKey); ok {
		if role, ok := v.(model.Role); ok {
			return role
		}
	}
	return model.RoleUnknown
}
