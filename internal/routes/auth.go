package routes

import (
	"github.com/labstack/echo/v4"

	"request-console/internal/controllers"
)

func runAuthRouter(group *echo.Group, controller *controllers.AuthController) {
	group.POST("/login", controller.Login)
	group.POST("/logout", controller.Logout)
	group.GET("/session", controller.Session)
}
