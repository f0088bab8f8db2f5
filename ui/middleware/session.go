package middleware

import (
	"log"
	"net/http"

	"partsdash/domain/core"
	"partsdash/internal/errors"
	"partsdash/internal/session"

	"github.com/gin-gonic/gin"
)

const sessionKey = "partsdash.session"

// RequireSession resolves the :id path parameter to a live session and
// stores it on the context for the handlers.
func RequireSession(registry *session.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := core.ParseSessionID(c.Param("id"))
		if err != nil {
			log.Printf("[RequireSession] Rejected session id %q: %v", c.Param("id"), err)
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": errors.CodeInvalidInput})
			return
		}

		sess, err := registry.Get(id)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error(), "code": errors.CodeNotFound})
			return
		}

		c.Set(sessionKey, sess)
		c.Next()
	}
}

// Session returns the session stored by RequireSession.
func Session(c *gin.Context) *session.Session {
	return c.MustGet(sessionKey).(*session.Session)
}
