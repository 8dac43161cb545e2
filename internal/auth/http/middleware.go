package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	authDomain "github.com/nubster-opensources/egide/internal/auth/domain"
	"github.com/nubster-opensources/egide/internal/httputil"
)

// TokenHeader is the header every authenticated vault request carries its
// bearer token in.
const TokenHeader = "X-Egide-Token"

// AuthMiddleware validates the request's bearer token against backend and
// stores the resulting AuthContext for downstream handlers.
func AuthMiddleware(backend authDomain.AuthBackend, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader(TokenHeader)

		authCtx, err := backend.Validate(c.Request.Context(), token)
		if err != nil {
			logger.Debug("authentication failed", slog.Any("error", err))
			httputil.HandleErrorGin(c, err, logger)
			c.Abort()
			return
		}

		ctx := WithAuthContext(c.Request.Context(), authCtx)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
