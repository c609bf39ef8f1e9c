package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/nexavault/lockin_backend/internal/core/ports/services"
	"github.com/nexavault/lockin_backend/internal/dto"
)

// AdminMiddleware creates a Gin middleware handler that restricts a route to
// admin users. It must run after AuthMiddleware.
func AdminMiddleware(userSvc portssvc.UserSvcFacade) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		userID, ok := GetUserIDFromContext(c)
		if !ok {
			logger.Error("User ID not found in context for admin check")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.Fail("Unauthorized"))
			return
		}

		user, err := userSvc.GetUserByID(c.Request.Context(), userID)
		if err != nil {
			logger.Warn("Failed to resolve user for admin check", "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.Fail("Unauthorized"))
			return
		}

		if !user.IsAdmin {
			logger.Warn("Non-admin user attempted admin operation")
			c.AbortWithStatusJSON(http.StatusForbidden, dto.Fail("Admin access required"))
			return
		}

		c.Next()
	}
}
