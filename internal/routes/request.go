package routes

import (
	"github.com/labstack/echo/v4"

	"request-console/internal/controllers"
)

// runRequestRouter - справочник заявок и форма создания (оператор и менеджер).
func runRequestRouter(group *echo.Group, controller *controllers.RequestController) {
	group.GET("/requests", controller.List)
	group.POST("/requests", controller.Create)
	group.POST("/requests/filter", controller.Filter)
	group.POST("/requests/more", controller.More)
	group.PUT("/requests/:id", controller.Update)
	group.PUT("/requests/:id/engineer", controller.AssignEngineer)
	group.GET("/requests/:id/history", controller.History)
	group.POST("/requests/:id/history/toggle", controller.ToggleHistory)
	group.POST("/requests/:id/details/toggle", controller.ToggleDetails)
	group.POST("/requests/:id/edit", controller.StartEditing)
	group.DELETE("/requests/edit", controller.CancelEdit)
	group.GET("/engineers", controller.Engineers)
}

// runManagerRequestRouter - действия с заявками, доступные только менеджеру.
func runManagerRequestRouter(group *echo.Group, controller *controllers.RequestController) {
	group.DELETE("/requests/:id", controller.Delete)
	group.GET("/requests/export", controller.Export)
}
