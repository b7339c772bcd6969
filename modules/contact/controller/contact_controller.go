package controller

import (
	"flowsite-api/core/controller"
	"flowsite-api/core/errors"
	"flowsite-api/core/params"
	"flowsite-api/modules/contact/dto"
	"flowsite-api/modules/contact/service"

	"github.com/labstack/echo/v4"
)

type ContactController struct {
	controller.BaseController
	service service.ContactService
}

func NewContactController(svc service.ContactService) *ContactController {
	return &ContactController{
		BaseController: controller.NewBaseController(),
		service:        svc,
	}
}

// Create accepts a contact request from the website.
// POST /api/v1/contact
func (cc *ContactController) Create(c echo.Context) error {
	var req dto.CreateContactRequest
	if err := c.Bind(&req); err != nil {
		return cc.BadRequest(errors.ErrInvalidRequestData, "Invalid request data")
	}

	receipt, appErr := cc.service.Create(c.Request().Context(), req)
	if appErr != nil {
		return cc.ErrorResponse(c, appErr)
	}

	return cc.SuccessResponse(c, receipt, "Contact request received")
}

// List returns stored contact requests, paginated. JWT-protected.
// GET /api/v1/private/contact
func (cc *ContactController) List(c echo.Context) error {
	queryParams := params.NewQueryParams(c)

	result, appErr := cc.service.List(c.Request().Context(), *queryParams)
	if appErr != nil {
		return cc.ErrorResponse(c, appErr)
	}

	return cc.SuccessResponse(c, result, "Contact requests retrieved successfully")
}
