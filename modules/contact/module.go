package contact

import (
	"flowsite-api/core/database"
	"flowsite-api/core/middleware"
	"flowsite-api/core/queue"
	"flowsite-api/modules/contact/controller"
	"flowsite-api/modules/contact/repository"
	"flowsite-api/modules/contact/router"
	"flowsite-api/modules/contact/service"

	"github.com/labstack/echo/v4"
)

func Init(e *echo.Echo, db database.IDatabase, q *queue.Client, mw *middleware.Middleware) {
	repo := repository.NewContactRepository(db)
	svc := service.NewContactService(repo, q)
	ctrl := controller.NewContactController(svc)
	router.NewContactRouter(ctrl).Setup(e, mw)
}
