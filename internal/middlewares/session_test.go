package middlewares

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/bravo6co-debug/SMS-solapi/internal/domain"
	"github.com/bravo6co-debug/SMS-solapi/pkg/response"
	"github.com/bravo6co-debug/SMS-solapi/pkg/session"
)

type fakeSessions struct {
	userIDs map[string]int64
}

func (f *fakeSessions) GetUserID(ctx context.Context, token string) (int64, error) {
	id, ok := f.userIDs[token]
	if !ok {
		return 0, session.ErrNotFound
	}
	return id, nil
}

type fakeUsers struct {
	users map[int64]*domain.User
}

func (f *fakeUsers) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	return f.users[id], nil
}

func newSessionContext(token string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/companies", nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestSessionAuth_MissingCookieReturns401(t *testing.T) {
	mw := SessionAuth(&fakeSessions{}, &fakeUsers{})

	c, rec := newSessionContext("")
	handler := mw(func(c echo.Context) error {
		t.Fatalf("next handler must not run without a session cookie")
		return nil
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}

	var body response.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if body.Success {
		t.Errorf("expected Success=false, got true")
	}
}

func TestSessionAuth_UnknownTokenReturns401(t *testing.T) {
	mw := SessionAuth(&fakeSessions{userIDs: map[string]int64{}}, &fakeUsers{})

	c, rec := newSessionContext("expired-token")
	handler := mw(func(c echo.Context) error {
		t.Fatalf("next handler must not run for an unknown token")
		return nil
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
}

func TestSessionAuth_DeletedUserReturns401(t *testing.T) {
	sessions := &fakeSessions{userIDs: map[string]int64{"token-1": 42}}
	users := &fakeUsers{users: map[int64]*domain.User{}}

	mw := SessionAuth(sessions, users)

	c, rec := newSessionContext("token-1")
	handler := mw(func(c echo.Context) error {
		t.Fatalf("next handler must not run for a deleted user")
		return nil
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
}

func TestSessionAuth_ValidSessionInjectsUser(t *testing.T) {
	sessions := &fakeSessions{userIDs: map[string]int64{"token-1": 42}}
	users := &fakeUsers{users: map[int64]*domain.User{
		42: {ID: 42, Username: "admin", Name: "관리자"},
	}}

	mw := SessionAuth(sessions, users)

	c, rec := newSessionContext("token-1")
	nextCalled := false
	handler := mw(func(c echo.Context) error {
		nextCalled = true

		user, ok := CurrentUser(c)
		if !ok {
			t.Fatalf("expected CurrentUser to find the injected user")
		}
		if user.ID != 42 || user.Username != "admin" {
			t.Errorf("unexpected user injected: %+v", user)
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	if !nextCalled {
		t.Fatalf("expected next handler to run")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
}

func TestCurrentUser_AbsentReturnsFalse(t *testing.T) {
	c, _ := newSessionContext("")

	if _, ok := CurrentUser(c); ok {
		t.Fatalf("expected no user on a bare context")
	}
}
