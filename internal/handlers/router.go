package handlers

import (
	"net/http"

	"arcqueue/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Ping godoc
// @Summary	Liveness probe
// @Tags		health
// @Produce	plain
// @Success	200	{string}	string	"pong"
// @Router		/ping [get]
func Ping(c *gin.Context) {
	c.String(http.StatusOK, "pong")
}

// NewRouter builds the gin engine with every route of the service.
func NewRouter(h *CabinetHandler, resolve gin.HandlerFunc, logger *logrus.Logger) *gin.Engine {
	r := gin.New()
	r.RedirectTrailingSlash = false
	r.Use(gin.Recovery(), middleware.Logger(logger))

	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Content-Type"},
		ExposeHeaders:   []string{"Content-Length"},
	}))

	r.GET("/ping", Ping)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/v1")
	cabinetGroup := v1.Group("/cabinets/:cabinet_id", resolve)
	{
		cabinetGroup.GET("", h.Cabinet)
		cabinetGroup.GET("/info", h.Info)
		cabinetGroup.GET("/players", h.Players)
		cabinetGroup.GET("/upcoming", h.Upcoming)
		cabinetGroup.GET("/stats", h.Stats)
		cabinetGroup.POST("/next", h.Next)
		cabinetGroup.POST("/join", h.Join)
		cabinetGroup.DELETE("/leave", h.Leave)
		cabinetGroup.POST("/postpone", h.Postpone)
	}

	return r
}
