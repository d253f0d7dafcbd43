package api

import (
	"net/http"

	performanceHandler "trackflow/internal/performance/handler"

	"github.com/gin-gonic/gin"
)

type API struct {
	router             *gin.RouterGroup
	performanceHandler performanceHandler.Handler
}

func New(router *gin.RouterGroup, performanceHandler performanceHandler.Handler) API {
	return API{
		router:             router,
		performanceHandler: performanceHandler,
	}
}

func (a *API) RegisterRoutes() {
	a.Health()
	apiGroup := a.router.Group("/api")
	{
		performanceGroup := apiGroup.Group("/performance")
		performanceGroup.GET("/:tenant_id/sources", a.performanceHandler.HandleGetAvailableSources)
		performanceGroup.GET("/:tenant_id/campaigns", a.performanceHandler.HandleGetCampaignPerformance)
	}
}

func (a *API) Health() {
	a.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})
}
