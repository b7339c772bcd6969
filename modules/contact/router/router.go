package router

import (
	"flowsite-api/core/middleware"
	"flowsite-api/modules/contact/controller"

	"github.com/labstack/echo/v4"
)

type ContactRouter struct {
	Controller *controller.ContactController
}

func NewContactRouter(ctrl *controller.ContactController) *ContactRouter {
	return &ContactRouter{Controller: ctrl}
}

func (r *ContactRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")
	v1.POST("/contact", r.Controller.Create)

	private := v1.Group("/private", mw.AuthMiddleware())
	private.GET("/contact", r.Controller.List)
}
