package handlers

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/bravo6co-debug/SMS-solapi/internal/service"
	"github.com/bravo6co-debug/SMS-solapi/pkg/response"
	"github.com/bravo6co-debug/SMS-solapi/pkg/validator"
)

type CompanyHandler struct {
	service *service.CompanyService
}

func NewCompanyHandler(service *service.CompanyService) *CompanyHandler {
	return &CompanyHandler{service: service}
}

type CreateCompanyRequest struct {
	Name       string  `json:"name" validate:"required,max=100"`
	Phone      string  `json:"phone" validate:"required,max=20"`
	BusinessID string  `json:"businessId" validate:"required,max=50"`
	Memo       *string `json:"memo,omitempty"`
}

type UpdateCompanyRequest struct {
	Name       *string `json:"name,omitempty" validate:"omitempty,max=100"`
	Phone      *string `json:"phone,omitempty" validate:"omitempty,max=20"`
	BusinessID *string `json:"businessId,omitempty" validate:"omitempty,max=50"`
	Memo       *string `json:"memo,omitempty"`
}

// ListCompanies godoc
// @Summary List companies
// @Description Lists companies with optional search by name or business id
// @Tags companies
// @Produce json
// @Param search query string false "Search term"
// @Param skip query int false "Rows to skip (default: 0)"
// @Param limit query int false "Max rows (default: 100, max: 200)"
// @Success 200 {object} response.SuccessResponse
// @Failure 400 {object} response.ErrorResponse
// @Router /api/companies [get]
func (h *CompanyHandler) ListCompanies(c echo.Context) error {
	skip, limit, err := parseSkipLimitParams(c)
	if err != nil {
		return response.BadRequest(c, err)
	}

	companies, err := h.service.List(c.Request().Context(), c.QueryParam("search"), skip, limit)
	if err != nil {
		return response.InternalServerError(c, err)
	}

	return response.Ok(c, companies)
}

// CountCompanies godoc
// @Summary Total company count
// @Tags companies
// @Produce json
// @Success 200 {object} response.SuccessResponse
// @Router /api/companies/count [get]
func (h *CompanyHandler) CountCompanies(c echo.Context) error {
	count, err := h.service.Count(c.Request().Context())
	if err != nil {
		return response.InternalServerError(c, err)
	}

	return response.Ok(c, map[string]any{"count": count})
}

// GetCompany godoc
// @Summary Get a company
// @Tags companies
// @Produce json
// @Param id path int true "Company ID"
// @Success 200 {object} response.SuccessResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /api/companies/{id} [get]
func (h *CompanyHandler) GetCompany(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, err)
	}

	company, err := h.service.GetByID(c.Request().Context(), id)
	if err != nil {
		return response.InternalServerError(c, err)
	}
	if company == nil {
		return response.NotFound(c, "Company not found")
	}

	return response.Ok(c, company)
}

// CreateCompany godoc
// @Summary Create a company
// @Tags companies
// @Accept json
// @Produce json
// @Param company body CreateCompanyRequest true "Company to create"
// @Success 201 {object} response.SuccessResponse
// @Failure 422 {object} validator.ValidationErrorResponse
// @Router /api/companies [post]
func (h *CompanyHandler) CreateCompany(c echo.Context) error {
	var req CreateCompanyRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return validator.HandleValidationError(c, err)
	}

	company, err := h.service.Create(c.Request().Context(), req.Name, req.Phone, req.BusinessID, req.Memo)
	if err != nil {
		return response.InternalServerError(c, err)
	}

	return response.Created(c, "Company created successfully", company)
}

// UpdateCompany godoc
// @Summary Update a company
// @Tags companies
// @Accept json
// @Produce json
// @Param id path int true "Company ID"
// @Param company body UpdateCompanyRequest true "Fields to update"
// @Success 200 {object} response.SuccessResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /api/companies/{id} [put]
func (h *CompanyHandler) UpdateCompany(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, err)
	}

	var req UpdateCompanyRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return validator.HandleValidationError(c, err)
	}

	company, err := h.service.Update(c.Request().Context(), id, service.CompanyUpdate{
		Name:       req.Name,
		Phone:      req.Phone,
		BusinessID: req.BusinessID,
		Memo:       req.Memo,
	})
	if err != nil {
		return response.InternalServerError(c, err)
	}
	if company == nil {
		return response.NotFound(c, "Company not found")
	}

	return response.Ok(c, company)
}

// DeleteCompany godoc
// @Summary Delete a company
// @Description Deletion is rejected while the company appears in the send history
// @Tags companies
// @Produce json
// @Param id path int true "Company ID"
// @Success 204
// @Failure 404 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Router /api/companies/{id} [delete]
func (h *CompanyHandler) DeleteCompany(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, err)
	}

	deleted, err := h.service.Delete(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrCompanyHasHistory) {
			return response.Conflict(c, err.Error())
		}
		return response.InternalServerError(c, err)
	}
	if !deleted {
		return response.NotFound(c, "Company not found")
	}

	return response.NoContent(c)
}

// BulkUploadCompanies godoc
// @Summary Import companies from a spreadsheet
// @Description Accepts an .xlsx file with name, phone, business id and memo columns
// @Tags companies
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Spreadsheet file"
// @Success 200 {object} response.SuccessResponse
// @Failure 400 {object} response.ErrorResponse
// @Router /api/companies/bulk [post]
func (h *CompanyHandler) BulkUploadCompanies(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return response.BadRequestWithMessage(c, "spreadsheet file is required")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return response.BadRequest(c, err)
	}
	defer file.Close()

	result, err := h.service.ImportSpreadsheet(c.Request().Context(), file)
	if err != nil {
		return response.BadRequest(c, err)
	}

	return response.Ok(c, result)
}

func parseIDParam(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id")
	}
	return id, nil
}

func parseSkipLimitParams(c echo.Context) (int, int, error) {
	const (
		defaultLimit = 100
		maxLimit     = 200
	)

	skip := 0
	if skipStr := c.QueryParam("skip"); skipStr != "" {
		s, err := strconv.Atoi(skipStr)
		if err != nil || s < 0 {
			return 0, 0, fmt.Errorf("skip must be a non-negative integer")
		}
		skip = s
	}

	limit := defaultLimit
	if limitStr := c.QueryParam("limit"); limitStr != "" {
		l, err := strconv.Atoi(limitStr)
		if err != nil || l <= 0 || l > maxLimit {
			return 0, 0, fmt.Errorf("limit must be between 1 and %d", maxLimit)
		}
		limit = l
	}

	return skip, limit, nil
}
