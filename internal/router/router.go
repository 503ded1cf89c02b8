package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/elmtree/tuition-api/internal/config"
	"github.com/elmtree/tuition-api/internal/handler"
	"github.com/elmtree/tuition-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	StudentHandler    *handler.StudentHandler
	RecordHandler     *handler.RecordHandler
	PriceRuleHandler  *handler.PriceRuleHandler
	SettlementHandler *handler.SettlementHandler
	JWTMiddleware     fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())

	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	// Use provided JWT middleware, or a no-op if nil
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	admin := api.Group("", jwtMiddleware)

	if deps.StudentHandler != nil {
		deps.StudentHandler.Register(admin.Group("/students"))
	}

	if deps.RecordHandler != nil {
		deps.RecordHandler.Register(admin.Group("/records"))
	}

	if deps.PriceRuleHandler != nil {
		deps.PriceRuleHandler.Register(admin.Group("/price-rules"))
	}

	if deps.SettlementHandler != nil {
		deps.SettlementHandler.Register(admin.Group("/settlements"))
		deps.SettlementHandler.RegisterDashboard(admin)
	}
}
