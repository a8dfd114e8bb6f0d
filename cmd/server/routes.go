package main

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Nixie-Tech-LLC/dqdash/internal/config"
	"github.com/Nixie-Tech-LLC/dqdash/internal/db"
	"github.com/Nixie-Tech-LLC/dqdash/internal/holiday"
	"github.com/Nixie-Tech-LLC/dqdash/internal/http/api"
	"github.com/Nixie-Tech-LLC/dqdash/internal/http/api/dashboard/endpoints"
	"github.com/Nixie-Tech-LLC/dqdash/internal/http/middleware"
	"github.com/Nixie-Tech-LLC/dqdash/internal/service"
)

// NewRouter builds the engine and mounts every route.
func NewRouter(cfg *config.Config, store db.Store, svc *service.Schedules, cal *holiday.Calendar) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.Logger(), middleware.Metrics())
	RegisterRoutes(r, cfg, store, svc, cal)
	return r
}

// RegisterRoutes sets up all application routes
func RegisterRoutes(r *gin.Engine, cfg *config.Config, store db.Store, svc *service.Schedules, cal *holiday.Calendar) {
	api.SetupValidation()

	// CORS
	r.Use(cors.New(corsConfig(cfg.AllowedOrigins)))

	api.MountGroup(r, api.GroupConfig{
		Prefix: "/api",
	},
		endpoints.CatalogModule(store),
		endpoints.ChecksModule(store, svc),
		endpoints.ScheduleModule(store, svc),
		endpoints.LinksModule(store, svc),
		endpoints.ReportsModule(svc, cal),
	)

	api.MountGroup(r, api.GroupConfig{}, endpoints.HealthModule(store))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, api.ErrNotFound.Msg("no route for %s %s", c.Request.Method, c.Request.URL.Path).Body())
	})
}

func corsConfig(origins []string) cors.Config {
	conf := cors.Config{
		AllowMethods: []string{
			"GET",
			"POST",
			"PUT",
			"DELETE",
			"OPTIONS",
			"HEAD",
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Accept",
			middleware.RequestIDHeader,
		},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Disposition",
			middleware.RequestIDHeader,
		},
		AllowCredentials: false,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		conf.AllowOriginFunc = func(origin string) bool { return true }
	} else {
		conf.AllowOrigins = origins
	}
	return conf
}
