package handlers

import (
	"github.com/labstack/echo/v4"

	"github.com/bravo6co-debug/SMS-solapi/internal/domain"
	"github.com/bravo6co-debug/SMS-solapi/internal/middlewares"
	"github.com/bravo6co-debug/SMS-solapi/internal/service"
	"github.com/bravo6co-debug/SMS-solapi/pkg/response"
	"github.com/bravo6co-debug/SMS-solapi/pkg/validator"
)

type DraftHandler struct {
	service *service.DraftService
}

func NewDraftHandler(service *service.DraftService) *DraftHandler {
	return &DraftHandler{service: service}
}

type SaveDraftRequest struct {
	TemplateID int64              `json:"templateId" validate:"required"`
	Items      []domain.DraftItem `json:"items" validate:"required,dive"`
}

// GetDraft godoc
// @Summary Load the dispatch scratchpad
// @Tags draft
// @Produce json
// @Success 200 {object} response.SuccessResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /api/draft [get]
func (h *DraftHandler) GetDraft(c echo.Context) error {
	draft, err := h.service.Get(c.Request().Context())
	if err != nil {
		return response.InternalServerError(c, err)
	}
	if draft == nil {
		return response.NotFound(c, "No draft saved")
	}

	return response.Ok(c, draft)
}

// SaveDraft godoc
// @Summary Save the dispatch scratchpad (overwrites)
// @Tags draft
// @Accept json
// @Produce json
// @Param draft body SaveDraftRequest true "Draft to save"
// @Success 200 {object} response.SuccessResponse
// @Failure 422 {object} validator.ValidationErrorResponse
// @Router /api/draft [post]
func (h *DraftHandler) SaveDraft(c echo.Context) error {
	user, ok := middlewares.CurrentUser(c)
	if !ok {
		return response.Unauthorized(c)
	}

	var req SaveDraftRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return validator.HandleValidationError(c, err)
	}

	draft, err := h.service.Save(c.Request().Context(), user.ID, req.TemplateID, req.Items)
	if err != nil {
		return response.InternalServerError(c, err)
	}

	return response.OkWithMessage(c, "Draft saved", draft)
}

// DeleteDraft godoc
// @Summary Delete the dispatch scratchpad
// @Tags draft
// @Produce json
// @Success 204
// @Failure 404 {object} response.ErrorResponse
// @Router /api/draft [delete]
func (h *DraftHandler) DeleteDraft(c echo.Context) error {
	deleted, err := h.service.Delete(c.Request().Context())
	if err != nil {
		return response.InternalServerError(c, err)
	}
	if !deleted {
		return response.NotFound(c, "No draft saved")
	}

	return response.NoContent(c)
}
