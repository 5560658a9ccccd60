package router

import (
	"github.com/gin-gonic/gin"

	"fleet-dashboard/internal/handler"
	"fleet-dashboard/internal/web"
)

func RegisterRoutes(r *gin.Engine, fleetHandler *handler.FleetHandler, pageHandler *handler.PageHandler, hub *handler.Hub) {
	r.SetHTMLTemplate(web.Templates())

	r.GET("/", pageHandler.Index)
	r.GET("/ws", hub.Serve)
	r.GET("/health", fleetHandler.Health)

	api := r.Group("/api")
	api.Use(handler.CSRF())
	{
		fleet := api.Group("/fleet")
		{
			fleet.GET("", fleetHandler.GetView)
			fleet.POST("/refresh", fleetHandler.Refresh)
			fleet.POST("/nodes/:name/log", fleetHandler.OpenLog)
			fleet.POST("/routers/:name/log", fleetHandler.OpenRouterLog)
			fleet.POST("/nodes/:name/:action", fleetHandler.DispatchNode)
			fleet.POST("/all/:action", fleetHandler.DispatchAll)
			fleet.GET("/log", fleetHandler.GetLog)
			fleet.DELETE("/log", fleetHandler.CloseLog)
			fleet.DELETE("/error", fleetHandler.DismissError)
		}
	}
}
