package scheduling

import (
	"flowsite-api/core/cache"
	"flowsite-api/core/config"
	"flowsite-api/modules/scheduling/controller"
	"flowsite-api/modules/scheduling/provider"
	"flowsite-api/modules/scheduling/router"
	"flowsite-api/modules/scheduling/service"

	"github.com/labstack/echo/v4"
)

func Init(e *echo.Echo, cfg *config.Config, c cache.Cache) {
	cal := provider.NewGoogleCalendar(cfg.GoogleCalendar)
	svc := service.NewSchedulingService(cal, c, cfg.Scheduling, cfg.GoogleCalendar.BusinessInbox)
	ctrl := controller.NewSchedulingController(svc)
	router.NewSchedulingRouter(ctrl).Setup(e)
}
