package routes

import (
	"github.com/labstack/echo/v4"

	"maintenance-system/internal/controllers"
)

func runRequestRouter(secureGroup *echo.Group, requestCtrl *controllers.RequestController) {
	// Статические пути объявлены раньше /:id.
	secureGroup.GET("/requests/kanban", requestCtrl.GetKanban)
	secureGroup.GET("/requests/stats", requestCtrl.GetStats)

	secureGroup.GET("/requests", requestCtrl.GetRequests)
	secureGroup.POST("/requests", requestCtrl.CreateRequest)
	secureGroup.GET("/requests/:id", requestCtrl.FindRequest)
	secureGroup.PATCH("/requests/:id/status", requestCtrl.UpdateStatus)
	secureGroup.PATCH("/requests/:id/assign", requestCtrl.AssignTechnician)
	secureGroup.GET("/requests/:id/logs", requestCtrl.GetRequestLogs)
}
