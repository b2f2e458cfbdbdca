package internal

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/karloscodes/cartridge"
	cartridgemiddleware "github.com/karloscodes/cartridge/middleware"

	"shoplens/internal/config"
	"shoplens/internal/http"
	"shoplens/internal/http/middleware"
)

// SetupSession configures session management on the server.
func SetupSession(srv *cartridge.Server) {
	cfg := config.GetConfig()
	sessionMgr := cartridge.NewSessionManager(cartridge.SessionConfig{
		CookieName: cfg.AppName + "_session",
		Secret:     cfg.GetSessionSecret(),
		TTL:        time.Duration(cfg.GetLoginSessionTimeout()) * time.Second,
		Secure:     cfg.IsProduction(),
		LoginPath:  "/admin/analytics",
	})
	srv.SetSession(sessionMgr)
}

// MountAppRoutes mounts all application routes using cartridge's route API
func MountAppRoutes(srv *cartridge.Server) {
	SetupSession(srv)

	cfg := config.GetConfig()

	// Rate limiting only applies in production; in development/test it
	// would interfere with testing.
	conditionalRateLimiter := func(limiter fiber.Handler) fiber.Handler {
		return func(c *fiber.Ctx) error {
			if cfg.IsProduction() {
				return limiter(c)
			}
			return c.Next()
		}
	}

	// Public endpoints get 60 requests per minute per IP.
	publicRateLimiter := conditionalRateLimiter(cartridgemiddleware.RateLimiter(
		cartridgemiddleware.WithMax(60),
		cartridgemiddleware.WithDuration(time.Minute),
	))

	db := srv.GetDBManager().GetConnection()
	logger := srv.GetLogger()

	publicConfig := &cartridge.RouteConfig{
		CustomMiddleware: []fiber.Handler{publicRateLimiter},
	}

	// Admin pages are embedded in the platform's own admin, which handles
	// authentication before requests reach us. The shop filter resolves
	// which installation the request operates on.
	adminConfig := &cartridge.RouteConfig{
		CustomMiddleware: []fiber.Handler{
			middleware.ShopFilter(db, logger),
		},
	}

	// === ROOT ROUTES ===
	srv.Get("/", http.HomeIndexAction, publicConfig)

	// Health check endpoint
	srv.Get("/_health", http.HealthIndexAction, publicConfig)
	srv.Head("/_health", http.HealthIndexAction, publicConfig)

	// === PROTECTED ADMIN ROUTES ===
	srv.Get("/admin/analytics", http.AnalyticsIndexAction, adminConfig)

	srv.Get("/admin/report", http.ReportIndexAction, adminConfig)
	srv.Post("/admin/report", http.ReportFormAction, adminConfig)
}
