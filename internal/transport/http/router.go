package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/lobami/campaign-analytics/internal/handlers"
	authmw "github.com/lobami/campaign-analytics/internal/middleware/auth"
	"github.com/lobami/campaign-analytics/internal/service"
)

type Deps struct {
	DB              *gorm.DB
	AuthSvc         *service.AuthService
	AuthHandler     *handlers.AuthHandler
	CampaignHandler *handlers.CampaignHandler
	SearchHandler   *handlers.SearchHandler
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })
	e.GET("/health/ready", func(c echo.Context) error {
		sqlDB, err := d.DB.DB()
		if err != nil || sqlDB.PingContext(c.Request().Context()) != nil {
			return c.NoContent(http.StatusServiceUnavailable)
		}
		return c.NoContent(http.StatusNoContent)
	})

	v1 := e.Group("/api/v1")

	requireAuth := authmw.RequireAuth(d.AuthSvc)

	auth := v1.Group("/auth")
	auth.POST("/register", d.AuthHandler.Register)
	auth.POST("/token", d.AuthHandler.Login)
	auth.POST("/refresh", d.AuthHandler.Refresh)
	auth.POST("/logout", d.AuthHandler.Logout)
	auth.GET("/me", d.AuthHandler.Me, requireAuth)
	auth.POST("/users", d.AuthHandler.CreateMember, requireAuth, authmw.RequireRole(service.RoleOwner))

	campaigns := v1.Group("/campaigns", requireAuth)
	campaigns.GET("", d.CampaignHandler.List)
	campaigns.GET("/search", d.SearchHandler.Search)
	campaigns.GET("/search-by-date", d.CampaignHandler.SearchByDate)
	campaigns.POST("", d.CampaignHandler.Create, authmw.RequireRole(service.RoleAdmin))
	campaigns.GET("/:name", d.CampaignHandler.Get)
	campaigns.PUT("/:name", d.CampaignHandler.Update, authmw.RequireRole(service.RoleAdmin))
	campaigns.DELETE("/:name", d.CampaignHandler.Delete, authmw.RequireRole(service.RoleOwner))
	campaigns.POST("/:name/periods", d.CampaignHandler.AddPeriod, authmw.RequireRole(service.RoleAdmin))
	campaigns.POST("/:name/sites", d.CampaignHandler.AddSite, authmw.RequireRole(service.RoleAdmin))
}
