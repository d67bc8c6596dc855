package middleware

import (
	"errors"
	"net/http"
	"os"
	"runtime/debug"
	"strings"

	"storesync/internal/logger"

	"github.com/gin-gonic/gin"
)

// Recovery turns a handler panic into a 500 {"message"} response. Panics
// caused by the client hanging up are dropped without a response.
func Recovery(logger *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			recovered := recover()
			if recovered == nil {
				return
			}
			if brokenConnection(recovered) {
				logger.Debug("Client went away during %s %s", c.Request.Method, c.Request.URL.Path)
				c.Abort()
				return
			}

			logger.Error("Panic serving %s %s: %v", c.Request.Method, c.Request.URL.Path, recovered)
			logger.Debug("Panic stack:\n%s", debug.Stack())

			if c.Writer.Written() {
				c.Abort()
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		}()

		c.Next()
	}
}

func brokenConnection(recovered interface{}) bool {
	err, ok := recovered.(error)
	if !ok {
		return false
	}

	var syscallErr *os.SyscallError
	if !errors.As(err, &syscallErr) {
		return false
	}
	msg := strings.ToLower(syscallErr.Error())
	return strings.Contains(msg, "broken pipe") || strings.Contains(msg, "connection reset by peer")
}
