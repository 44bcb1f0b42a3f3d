package routes

import (
	"github.com/labstack/echo/v4"

	"request-console/internal/controllers"
)

func runDeskRouter(group *echo.Group, controller *controllers.DeskController) {
	group.GET("/desk/active", controller.Active)
	group.GET("/desk/day", controller.Day)
	group.GET("/desk/events", controller.Events)
	group.GET("/desk/days", controller.Days)
	group.GET("/desk/completed", controller.Completed)
	group.POST("/desk/completed/more", controller.CompletedMore)
	group.POST("/desk/:id/start", controller.StartWork)
	group.POST("/desk/:id/complete", controller.Complete)
	group.GET("/desk/stats", controller.Stats)
	group.GET("/desk/profile", controller.Profile)
}
