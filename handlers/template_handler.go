package handlers

import (
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/bravo6co-debug/SMS-solapi/internal/service"
	"github.com/bravo6co-debug/SMS-solapi/pkg/response"
	"github.com/bravo6co-debug/SMS-solapi/pkg/validator"
)

type TemplateHandler struct {
	service *service.TemplateService
}

func NewTemplateHandler(service *service.TemplateService) *TemplateHandler {
	return &TemplateHandler{service: service}
}

type CreateTemplateRequest struct {
	Category string `json:"category" validate:"required,oneof=검수완료 진행률50% 진행률100% 기타 기타(캠페인명사용)"`
	Title    string `json:"title" validate:"required,max=100"`
	Content  string `json:"content" validate:"required"`
}

type UpdateTemplateRequest struct {
	Category *string `json:"category,omitempty" validate:"omitempty,oneof=검수완료 진행률50% 진행률100% 기타 기타(캠페인명사용)"`
	Title    *string `json:"title,omitempty" validate:"omitempty,max=100"`
	Content  *string `json:"content,omitempty"`
}

// ListTemplates godoc
// @Summary List templates
// @Tags templates
// @Produce json
// @Success 200 {object} response.SuccessResponse
// @Router /api/templates [get]
func (h *TemplateHandler) ListTemplates(c echo.Context) error {
	templates, err := h.service.List(c.Request().Context())
	if err != nil {
		return response.InternalServerError(c, err)
	}

	return response.Ok(c, templates)
}

// GetTemplate godoc
// @Summary Get a template
// @Tags templates
// @Produce json
// @Param id path int true "Template ID"
// @Success 200 {object} response.SuccessResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /api/templates/{id} [get]
func (h *TemplateHandler) GetTemplate(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, err)
	}

	template, err := h.service.GetByID(c.Request().Context(), id)
	if err != nil {
		return response.InternalServerError(c, err)
	}
	if template == nil {
		return response.NotFound(c, "Template not found")
	}

	return response.Ok(c, template)
}

// CreateTemplate godoc
// @Summary Create a template
// @Description At most 10 templates may exist system-wide
// @Tags templates
// @Accept json
// @Produce json
// @Param template body CreateTemplateRequest true "Template to create"
// @Success 201 {object} response.SuccessResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 422 {object} validator.ValidationErrorResponse
// @Router /api/templates [post]
func (h *TemplateHandler) CreateTemplate(c echo.Context) error {
	var req CreateTemplateRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return validator.HandleValidationError(c, err)
	}

	template, err := h.service.Create(c.Request().Context(), req.Category, req.Title, req.Content)
	if err != nil {
		if errors.Is(err, service.ErrTemplateLimit) {
			return response.BadRequestWithMessage(c, err.Error())
		}
		return response.InternalServerError(c, err)
	}

	return response.Created(c, "Template created successfully", template)
}

// UpdateTemplate godoc
// @Summary Update a template
// @Tags templates
// @Accept json
// @Produce json
// @Param id path int true "Template ID"
// @Param template body UpdateTemplateRequest true "Fields to update"
// @Success 200 {object} response.SuccessResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /api/templates/{id} [put]
func (h *TemplateHandler) UpdateTemplate(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, err)
	}

	var req UpdateTemplateRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return validator.HandleValidationError(c, err)
	}

	template, err := h.service.Update(c.Request().Context(), id, service.TemplateUpdate{
		Category: req.Category,
		Title:    req.Title,
		Content:  req.Content,
	})
	if err != nil {
		return response.InternalServerError(c, err)
	}
	if template == nil {
		return response.NotFound(c, "Template not found")
	}

	return response.Ok(c, template)
}

// DeleteTemplate godoc
// @Summary Delete a template
// @Description Deletion is rejected while the template appears in the send history
// @Tags templates
// @Produce json
// @Param id path int true "Template ID"
// @Success 204
// @Failure 404 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Router /api/templates/{id} [delete]
func (h *TemplateHandler) DeleteTemplate(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, err)
	}

	deleted, err := h.service.Delete(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrTemplateHasHistory) {
			return response.Conflict(c, err.Error())
		}
		return response.InternalServerError(c, err)
	}
	if !deleted {
		return response.NotFound(c, "Template not found")
	}

	return response.NoContent(c)
}
