package middlewares

import (
	"context"
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/bravo6co-debug/SMS-solapi/internal/domain"
	"github.com/bravo6co-debug/SMS-solapi/pkg/response"
	"github.com/bravo6co-debug/SMS-solapi/pkg/session"
)

const (
	// SessionCookieName carries the opaque session token.
	SessionCookieName = "session_id"

	// CurrentUserKey is the echo context key SessionAuth stores the
	// authenticated user under.
	CurrentUserKey = "currentUser"
)

type sessionResolver interface {
	GetUserID(ctx context.Context, token string) (int64, error)
}

type userLoader interface {
	GetUser(ctx context.Context, id int64) (*domain.User, error)
}

// SessionAuth resolves the session cookie to a user and stores it in the
// request context. Requests without a valid session get 401 before any
// handler runs.
func SessionAuth(sessions sessionResolver, users userLoader) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				return response.Unauthorized(c)
			}

			ctx := c.Request().Context()

			userID, err := sessions.GetUserID(ctx, cookie.Value)
			if err != nil {
				if errors.Is(err, session.ErrNotFound) {
					return response.Unauthorized(c)
				}
				return response.InternalServerError(c, err)
			}

			user, err := users.GetUser(ctx, userID)
			if err != nil {
				return response.InternalServerError(c, err)
			}
			if user == nil {
				return response.Unauthorized(c)
			}

			c.Set(CurrentUserKey, user)
			return next(c)
		}
	}
}

// CurrentUser returns the authenticated user stored by SessionAuth.
func CurrentUser(c echo.Context) (*domain.User, bool) {
	user, ok := c.Get(CurrentUserKey).(*domain.User)
	return user, ok
}
