package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lectern/courseport-backend/internal/model"
	"github.com/lectern/courseport-backend/internal/response"
	"github.com/lectern/courseport-backend/internal/service"
)

const (
	// ContextKeySession is the Gin context key for the resolved session.
	ContextKeySession = "session"
	// ContextKeyClaims is the Gin context key for JWT claims.
	ContextKeyClaims = "claims"
)

// ResolveSession resolves the caller's identity from the Authorization
// header, if any, and stores a tagged Session in the context. A missing
// token resolves to the anonymous session; an invalid or logged-out
// token is rejected. Core services receive the session, never headers.
func ResolveSession(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := bearerToken(c)
		if tokenStr == "" {
			c.Set(ContextKeySession, model.Anonymous())
			c.Next()
			return
		}

		claims, err := authService.ValidateToken(tokenStr)
		if err != nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenInvalid)
			return
		}
		if err := authService.ValidateSession(c.Request.Context(), claims); err != nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrSessionInvalidated)
			return
		}

		c.Set(ContextKeyClaims, claims)
		c.Set(ContextKeySession, authService.SessionFromClaims(claims))
		c.Next()
	}
}

// RequireStudent rejects callers whose session is not a student.
// Run after ResolveSession.
func RequireStudent() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := GetSession(c)
		if sess.IsAnonymous() {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrAuthenticationRequired)
			return
		}
		if !sess.IsStudent() {
			response.AbortFail(c, http.StatusForbidden, response.ErrStudentAccessOnly)
			return
		}
		c.Next()
	}
}

// RequireInstructor rejects callers whose session is not the instructor.
// Run after ResolveSession.
func RequireInstructor() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := GetSession(c)
		if sess.IsAnonymous() {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrAuthenticationRequired)
			return
		}
		if !sess.IsInstructor() {
			response.AbortFail(c, http.StatusForbidden, response.ErrInstructorOnly)
			return
		}
		c.Next()
	}
}

// GetSession retrieves the resolved session from the Gin context.
// Defaults to anonymous when ResolveSession did not run.
func GetSession(c *gin.Context) model.Session {
	val, exists := c.Get(ContextKeySession)
	if !exists {
		return model.Anonymous()
	}
	sess, ok := val.(model.Session)
	if !ok {
		return model.Anonymous()
	}
	return sess
}

// GetClaims retrieves the JWT claims from the Gin context, nil for
// anonymous callers.
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
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return parts[1]
		}
	}
	// Fallback for download links which cannot send headers.
	return c.Query("token")
}
