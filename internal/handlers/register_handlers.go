package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/nexavault/lockin_backend/cmd/docs"
	portssvc "github.com/nexavault/lockin_backend/internal/core/ports/services"
	"github.com/nexavault/lockin_backend/internal/dto"
	"github.com/nexavault/lockin_backend/internal/middleware"
	"github.com/nexavault/lockin_backend/pkg/config"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces.
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) error {
	registerCustomValidators()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, dto.OK(gin.H{"status": "ok"}))
	})

	if err := setupPublicRoutes(r, cfg, services); err != nil {
		return err
	}
	setupAPIV1Routes(r, cfg, services)
	setupSwaggerRoutes(r, cfg)
	return nil
}

// setupPublicRoutes registers the unauthenticated auth endpoints behind a
// rate limiter so credential stuffing cannot hammer the login path.
func setupPublicRoutes(r *gin.Engine, cfg *config.Config, services *portssvc.ServiceContainer) error {
	authLimiter, err := middleware.NewRateLimiter(cfg.AuthRateLimit)
	if err != nil {
		return err
	}

	public := r.Group("/api/v1", middleware.RateLimit(authLimiter))
	registerAuthRoutes(public, services.User, cfg)
	return nil
}

// setupAPIV1Routes configures the authenticated /api/v1 group and delegates
// to the per-entity route registrations.
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret))

	adminOnly := middleware.AdminMiddleware(services.User)

	registerPlanRoutes(v1, services.Plan, adminOnly)
	registerLockinRoutes(v1, services.Lockin)
	registerWalletRoutes(v1, services.Wallet)
	registerProfitRoutes(v1, services.Profit)
}

// setupSwaggerRoutes configures the swagger documentation routes.
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
