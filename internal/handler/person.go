package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/starbase-io/roster/internal/model"
	"github.com/starbase-io/roster/internal/service"
)

// PersonHandler exposes person lifecycle operations and the astronaut
// summary reads.
type PersonHandler struct {
	Service *service.AstronautService
	Audit   service.AuditLogger
}

func NewPersonHandler(svc *service.AstronautService, audit service.AuditLogger) *PersonHandler {
	if svc == nil {
		panic("nil service passed to NewPersonHandler")
	}
	return &PersonHandler{Service: svc, Audit: audit}
}

// PeopleResponse carries every astronaut summary.
type PeopleResponse struct {
	BaseResponse
	People []model.PersonAstronaut `json:"people"`
}

// PersonResponse carries a single astronaut summary; Person is omitted on
// a miss.
type PersonResponse struct {
	BaseResponse
	Person *model.PersonAstronaut `json:"person,omitempty"`
}

// CreatePersonResponse returns the identifiers of a freshly created person.
type CreatePersonResponse struct {
	BaseResponse
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// RenamePersonResponse returns the name a person now goes by.
type RenamePersonResponse struct {
	BaseResponse
	Name string `json:"name"`
}

// GetPeople handles GET /v1/persons and lists all astronauts. Persons that
// have never held a duty are not astronauts and do not appear.
func (h *PersonHandler) GetPeople(c echo.Context) error {
	people, err := h.Service.GetAllAstronauts(c.Request().Context())
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, PeopleResponse{BaseResponse: okBase(), People: people})
}

// GetPersonByName handles GET /v1/persons/:name.
func (h *PersonHandler) GetPersonByName(c echo.Context) error {
	name := c.Param("name")
	if msg := missingFields([]string{"Name"}, []string{name}); msg != "" {
		auditValidationFailure(c.Request().Context(), h.Audit, "GetPersonByName/"+name, msg)
		return c.JSON(http.StatusBadRequest, BaseResponse{Message: msg, ResponseCode: http.StatusBadRequest})
	}
	pa, err := h.Service.GetAstronautByName(c.Request().Context(), name)
	if err != nil {
		return respondQueryErr(c, err)
	}
	return c.JSON(http.StatusOK, PersonResponse{BaseResponse: okBase(), Person: &pa})
}

// CreatePerson handles POST /v1/persons.
func (h *PersonHandler) CreatePerson(c echo.Context) error {
	var body struct {
		Name string `json:"name"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, BaseResponse{Message: "invalid request body", ResponseCode: http.StatusBadRequest})
	}
	if msg := missingFields([]string{"Name"}, []string{body.Name}); msg != "" {
		auditValidationFailure(c.Request().Context(), h.Audit, "CreatePerson/"+body.Name, msg)
		return c.JSON(http.StatusBadRequest, BaseResponse{Message: msg, ResponseCode: http.StatusBadRequest})
	}
	p, err := h.Service.CreatePerson(c.Request().Context(), body.Name)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusCreated, CreatePersonResponse{
		BaseResponse: BaseResponse{Success: true, ResponseCode: http.StatusCreated},
		ID:           p.ID,
		Name:         p.Name,
	})
}

// UpdatePerson handles PUT /v1/persons/:name and renames the person.
func (h *PersonHandler) UpdatePerson(c echo.Context) error {
	name := c.Param("name")
	var body struct {
		NewName string `json:"new_name"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, BaseResponse{Message: "invalid request body", ResponseCode: http.StatusBadRequest})
	}
	if msg := missingFields([]string{"Name", "NewName"}, []string{name, body.NewName}); msg != "" {
		auditValidationFailure(c.Request().Context(), h.Audit, "UpdatePerson/"+name, msg)
		return c.JSON(http.StatusBadRequest, BaseResponse{Message: msg, ResponseCode: http.StatusBadRequest})
	}
	p, err := h.Service.RenamePerson(c.Request().Context(), name, body.NewName)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, RenamePersonResponse{BaseResponse: okBase(), Name: p.Name})
}
