package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/bravo6co-debug/SMS-solapi/internal/middlewares"
	"github.com/bravo6co-debug/SMS-solapi/internal/service"
	"github.com/bravo6co-debug/SMS-solapi/pkg/logger"
	"github.com/bravo6co-debug/SMS-solapi/pkg/response"
	"github.com/bravo6co-debug/SMS-solapi/pkg/validator"
)

// sessionManager is the slice of the session store the auth handler needs.
type sessionManager interface {
	Create(ctx context.Context, userID int64) (string, error)
	Destroy(ctx context.Context, token string) error
	TTL() time.Duration
}

type AuthHandler struct {
	service  *service.AuthService
	sessions sessionManager
}

func NewAuthHandler(service *service.AuthService, sessions sessionManager) *AuthHandler {
	return &AuthHandler{service: service, sessions: sessions}
}

type SignupRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"required,max=100"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Signup godoc
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param user body SignupRequest true "User to create"
// @Success 201 {object} response.SuccessResponse
// @Failure 400 {object} response.ErrorResponse
// @Router /api/auth/signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req SignupRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return validator.HandleValidationError(c, err)
	}

	user, err := h.service.Signup(c.Request().Context(), req.Username, req.Password, req.Name)
	if err != nil {
		if errors.Is(err, service.ErrUsernameTaken) {
			return response.BadRequestWithMessage(c, err.Error())
		}
		return response.InternalServerError(c, err)
	}

	return response.Created(c, "User created successfully", user)
}

// Login godoc
// @Summary Log in and open a session
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Login credentials"
// @Success 200 {object} response.SuccessResponse
// @Failure 401 {object} response.ErrorResponse
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return validator.HandleValidationError(c, err)
	}

	ctx := c.Request().Context()

	user, err := h.service.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, response.ErrorResponse{
				Success: false,
				Error:   err.Error(),
			})
		}
		return response.InternalServerError(c, err)
	}

	token, err := h.sessions.Create(ctx, user.ID)
	if err != nil {
		return response.InternalServerError(c, err)
	}

	c.SetCookie(&http.Cookie{
		Name:     middlewares.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.sessions.TTL().Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	logger.Infof("User %s logged in", user.Username)

	return response.OkWithMessage(c, "Login successful", map[string]any{
		"id":       user.ID,
		"username": user.Username,
		"name":     user.Name,
	})
}

// Logout godoc
// @Summary Log out and destroy the session
// @Tags auth
// @Produce json
// @Success 200 {object} response.SuccessResponse
// @Failure 401 {object} response.ErrorResponse
// @Router /api/auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if cookie, err := c.Cookie(middlewares.SessionCookieName); err == nil && cookie.Value != "" {
		if err := h.sessions.Destroy(c.Request().Context(), cookie.Value); err != nil {
			return response.InternalServerError(c, err)
		}
	}

	c.SetCookie(&http.Cookie{
		Name:     middlewares.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return response.OkWithMessage(c, "Logout successful", nil)
}

// Me godoc
// @Summary Current user info
// @Tags auth
// @Produce json
// @Success 200 {object} response.SuccessResponse
// @Failure 401 {object} response.ErrorResponse
// @Router /api/auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	user, ok := middlewares.CurrentUser(c)
	if !ok {
		return response.Unauthorized(c)
	}

	return response.Ok(c, user)
}
