package handlers

import (
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/bravo6co-debug/SMS-solapi/internal/domain"
	"github.com/bravo6co-debug/SMS-solapi/internal/middlewares"
	"github.com/bravo6co-debug/SMS-solapi/internal/service"
	"github.com/bravo6co-debug/SMS-solapi/pkg/response"
	"github.com/bravo6co-debug/SMS-solapi/pkg/validator"
)

type SendHandler struct {
	service *service.SendService
}

func NewSendHandler(service *service.SendService) *SendHandler {
	return &SendHandler{service: service}
}

type PreviewRequest struct {
	TemplateID        int64  `json:"templateId" validate:"required"`
	CompanyID         int64  `json:"companyId" validate:"required"`
	CampaignName      string `json:"campaignName" validate:"required,max=200"`
	AdditionalMessage string `json:"additionalMessage,omitempty"`
}

type SendBulkRequest struct {
	TemplateID        int64                 `json:"templateId" validate:"required"`
	Items             []domain.DispatchItem `json:"items" validate:"required,min=1,dive"`
	AdditionalMessage string                `json:"additionalMessage,omitempty"`
}

// PreviewMessage godoc
// @Summary Preview a rendered message
// @Description Renders the template for one recipient and reports char/byte counts
// @Tags send
// @Accept json
// @Produce json
// @Param preview body PreviewRequest true "Preview request"
// @Success 200 {object} domain.PreviewResult
// @Failure 404 {object} response.ErrorResponse
// @Failure 422 {object} validator.ValidationErrorResponse
// @Router /api/send/preview [post]
func (h *SendHandler) PreviewMessage(c echo.Context) error {
	var req PreviewRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return validator.HandleValidationError(c, err)
	}

	preview, err := h.service.Preview(c.Request().Context(),
		req.TemplateID, req.CompanyID, req.CampaignName, req.AdditionalMessage)
	if err != nil {
		if errors.Is(err, service.ErrTemplateNotFound) {
			return response.NotFound(c, "Template not found")
		}
		if errors.Is(err, service.ErrCompanyNotFound) {
			return response.NotFound(c, "Company not found")
		}
		return response.InternalServerError(c, err)
	}

	return response.Ok(c, preview)
}

// SendBulk godoc
// @Summary Dispatch a campaign message to multiple recipients
// @Description Always responds 200 with per-item outcomes; individual recipient failures never fail the call
// @Tags send
// @Accept json
// @Produce json
// @Param request body SendBulkRequest true "Bulk dispatch request"
// @Success 200 {object} domain.BulkDispatchResult
// @Failure 422 {object} validator.ValidationErrorResponse
// @Router /api/send/bulk [post]
func (h *SendHandler) SendBulk(c echo.Context) error {
	user, ok := middlewares.CurrentUser(c)
	if !ok {
		return response.Unauthorized(c)
	}

	var req SendBulkRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return validator.HandleValidationError(c, err)
	}

	result := h.service.DispatchBulk(c.Request().Context(),
		user.ID, req.TemplateID, req.Items, req.AdditionalMessage)

	return response.Ok(c, result)
}

// GetHistory godoc
// @Summary Send history
// @Description Paginated send audit log, newest first
// @Tags send
// @Produce json
// @Param skip query int false "Rows to skip (default: 0)"
// @Param limit query int false "Max rows (default: 100, max: 200)"
// @Success 200 {object} response.PaginatedResponse
// @Failure 400 {object} response.ErrorResponse
// @Router /api/send/history [get]
func (h *SendHandler) GetHistory(c echo.Context) error {
	skip, limit, err := parseSkipLimitParams(c)
	if err != nil {
		return response.BadRequest(c, err)
	}

	history, total, err := h.service.GetHistory(c.Request().Context(), skip, limit)
	if err != nil {
		return response.InternalServerError(c, err)
	}

	page := skip/limit + 1
	return response.Paginated(c, history, page, limit, total)
}
