package middleware

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/brchinacargo-glitch/BRCcSis/internal/adapters/http/dto"
	"github.com/brchinacargo-glitch/BRCcSis/internal/platform/config"
	"github.com/brchinacargo-glitch/BRCcSis/internal/platform/logging"
)

const (
	// ContextKeyActorID is the gin context key holding the acting user id.
	ContextKeyActorID = "actor_id"

	defaultActorHeader = "X-User-ID"
)

// Actor returns middleware that reads the acting user id set by the gateway.
// A missing or malformed id is rejected with 401; whether the user exists and
// may act is decided by the application services.
func Actor(cfg *config.AuthConfig) gin.HandlerFunc {
	header := defaultActorHeader
	if cfg != nil && cfg.ActorHeader != "" {
		header = cfg.ActorHeader
	}

	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(header))
		if raw == "" {
			dto.HandleErrorCode(c, dto.ErrorCodeUnauthorized, "missing "+header+" header")
			return
		}

		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			dto.HandleErrorCode(c, dto.ErrorCodeUnauthorized, "invalid "+header+" header")
			return
		}

		c.Set(ContextKeyActorID, id)
		ctx := ContextWithActorID(c.Request.Context(), id)
		ctx = logging.WithActorID(ctx, id)
		c.Request = c.Request.WithContext(ctx)
		trace.SpanFromContext(ctx).SetAttributes(attribute.Int64("enduser.id", id))

		c.Next()
	}
}

// GetActorID returns the id stored by Actor.
func GetActorID(c *gin.Context) (int64, bool) {
	id := c.GetInt64(ContextKeyActorID)

	return id, id > 0
}
