package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/starbase-io/roster/internal/model"
	"github.com/starbase-io/roster/internal/service"
)

// DutyHandler exposes duty assignment and duty history.
type DutyHandler struct {
	Service *service.AstronautService
	Audit   service.AuditLogger
}

func NewDutyHandler(svc *service.AstronautService, audit service.AuditLogger) *DutyHandler {
	if svc == nil {
		panic("nil service passed to NewDutyHandler")
	}
	return &DutyHandler{Service: svc, Audit: audit}
}

// CreateDutyResponse returns the id of the newly inserted duty record.
type CreateDutyResponse struct {
	BaseResponse
	ID uint64 `json:"id"`
}

// DutyHistoryResponse pairs the astronaut summary with the ordered ledger.
type DutyHistoryResponse struct {
	BaseResponse
	Person          *model.PersonAstronaut `json:"person,omitempty"`
	AstronautDuties []model.AstronautDuty  `json:"astronaut_duties"`
}

// CreateDuty handles POST /v1/duties: one new duty assignment.
func (h *DutyHandler) CreateDuty(c echo.Context) error {
	var body struct {
		Name          string `json:"name"`
		Rank          string `json:"rank"`
		DutyTitle     string `json:"duty_title"`
		DutyStartDate string `json:"duty_start_date"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, BaseResponse{Message: "invalid request body", ResponseCode: http.StatusBadRequest})
	}
	if msg := missingFields(
		[]string{"Name", "Rank", "DutyTitle", "DutyStartDate"},
		[]string{body.Name, body.Rank, body.DutyTitle, body.DutyStartDate},
	); msg != "" {
		auditValidationFailure(c.Request().Context(), h.Audit, "CreateAstronautDuty", msg)
		return c.JSON(http.StatusBadRequest, BaseResponse{Message: msg, ResponseCode: http.StatusBadRequest})
	}
	startDate, err := parseDate(body.DutyStartDate)
	if err != nil {
		msg := "DutyStartDate must be a date (YYYY-MM-DD) or RFC3339 timestamp"
		auditValidationFailure(c.Request().Context(), h.Audit, "CreateAstronautDuty", msg)
		return c.JSON(http.StatusBadRequest, BaseResponse{Message: msg, ResponseCode: http.StatusBadRequest})
	}

	duty, err := h.Service.AssignDuty(c.Request().Context(), body.Name, body.Rank, body.DutyTitle, startDate)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusCreated, CreateDutyResponse{
		BaseResponse: BaseResponse{Success: true, ResponseCode: http.StatusCreated},
		ID:           duty.ID,
	})
}

// GetDutiesByName handles GET /v1/duties/:name and returns the person's
// full duty history, most recent first.
func (h *DutyHandler) GetDutiesByName(c echo.Context) error {
	name := c.Param("name")
	if msg := missingFields([]string{"Name"}, []string{name}); msg != "" {
		auditValidationFailure(c.Request().Context(), h.Audit, "GetAstronautDutiesByName", msg)
		return c.JSON(http.StatusBadRequest, BaseResponse{Message: msg, ResponseCode: http.StatusBadRequest})
	}
	pa, duties, err := h.Service.GetDutyHistoryByName(c.Request().Context(), name)
	if err != nil {
		return respondQueryErr(c, err)
	}
	return c.JSON(http.StatusOK, DutyHistoryResponse{
		BaseResponse:    okBase(),
		Person:          &pa,
		AstronautDuties: duties,
	})
}
