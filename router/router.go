package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/starterapp/rkeeper-adapter/controllers"
	"github.com/starterapp/rkeeper-adapter/middlewares"
	"github.com/starterapp/rkeeper-adapter/repositories"
)

// SetupRouter wires the webhook and admin endpoints. Order webhooks are
// authenticated by the gateway api key; project webhooks carry their
// credentials in the body because the tenant may not exist yet; admin
// endpoints need an ops token.
func SetupRouter(
	orderCtrl *controllers.OrderController,
	projectCtrl *controllers.ProjectController,
	syncCtrl *controllers.SyncController,
	clients *repositories.ClientRepository,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.CORSMiddlewares())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		api.POST("/order", middlewares.APIKeyAuth(clients), orderCtrl.HandleOrderWebhook)
		api.POST("/project", projectCtrl.HandleCreateProject)
		api.PUT("/project", projectCtrl.HandleUpdateProject)
	}

	admin := r.Group("/admin", middlewares.AdminAuth())
	{
		admin.POST("/sync/shops", syncCtrl.TriggerShops)
		admin.POST("/sync/menu", syncCtrl.TriggerMenu)
		admin.POST("/sync/orders", syncCtrl.TriggerOrderStatuses)
	}

	return r
}
