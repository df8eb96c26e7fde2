package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mini-maxit/modelboard/internal/auth"
	pkgerrors "github.com/mini-maxit/modelboard/pkg/errors"
	"github.com/mini-maxit/modelboard/pkg/models"
	"go.uber.org/zap"
)

const (
	identityKey = "identity"
	tokenKey    = "token"
)

// AuthMiddleware requires a valid "Authorization: Bearer <token>" header.
func AuthMiddleware(authService auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.Request.Header.Get("Authorization")
		if authHeader == "" {
			Fail(c, pkgerrors.ErrUnauthenticated, nil)
			c.Abort()
			return
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			Fail(c, pkgerrors.ErrInvalidToken, nil)
			c.Abort()
			return
		}

		identity, err := authService.Identify(c.Request.Context(), parts[1])
		if err != nil {
			Fail(c, err, nil)
			c.Abort()
			return
		}
		c.Set(identityKey, identity)
		c.Set(tokenKey, parts[1])
		c.Next()
	}
}

func identityFrom(c *gin.Context) models.Identity {
	value, ok := c.Get(identityKey)
	if !ok {
		return models.Identity{}
	}
	identity, _ := value.(models.Identity)
	return identity
}

// LimitBody caps the request body at maxBytes.
func LimitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// RequestLogger logs one line per request on the api logger.
func RequestLogger(log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := []interface{}{
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", status,
			"latency", time.Since(start),
		}
		switch {
		case status >= http.StatusInternalServerError:
			log.Errorw("Request failed", append(fields, "errors", c.Errors.String())...)
		case status >= http.StatusBadRequest:
			log.Infow("Request rejected", append(fields, "errors", c.Errors.String())...)
		default:
			log.Infow("Request served", fields...)
		}
	}
}
