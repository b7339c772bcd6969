package router

import (
	"flowsite-api/modules/scheduling/controller"

	"github.com/labstack/echo/v4"
)

type SchedulingRouter struct {
	Controller *controller.SchedulingController
}

func NewSchedulingRouter(ctrl *controller.SchedulingController) *SchedulingRouter {
	return &SchedulingRouter{Controller: ctrl}
}

func (r *SchedulingRouter) Setup(e *echo.Echo) {
	v1 := e.Group("/api/v1")
	v1.POST("/availability", r.Controller.GetAvailability)
	v1.POST("/bookings", r.Controller.CreateBooking)
}
