package routes

import (
	"github.com/labstack/echo/v4"

	"request-console/internal/controllers"
)

func runRosterRouter(group *echo.Group, controller *controllers.RosterController) {
	group.GET("/roster", controller.List)
	group.POST("/roster/more", controller.More)
	group.PUT("/roster/:id/balance", controller.AdjustBalance)
	group.GET("/roster/:id/balance/history", controller.BalanceHistory)
	group.GET("/roster/:id/credentials", controller.RevealCredentials)
	group.DELETE("/roster/credentials", controller.CloseCredentials)
	group.DELETE("/roster/:id", controller.DeleteUser)
	group.POST("/users", controller.CreateUser)
	group.GET("/employees", controller.Employees)
}
