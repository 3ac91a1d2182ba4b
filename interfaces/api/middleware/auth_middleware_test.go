package middleware

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inspection-api/domain/models"
	apperrors "inspection-api/pkg/errors"
	"inspection-api/pkg/utils"
)

// stubAuth maps tokens to users
type stubAuth struct {
	users map[string]*models.User
}

func (s *stubAuth) AuthURL(string, string) (string, error) { return "", nil }

func (s *stubAuth) HandleCallback(context.Context, string, string, string) (string, *models.User, error) {
	return "", nil, nil
}

func (s *stubAuth) Authenticate(_ context.Context, token string) (*models.User, error) {
	if u, ok := s.users[token]; ok {
		return u, nil
	}
	return nil, apperrors.New(apperrors.CodeUnauthorized, "invalid token")
}

func newAuthApp() *fiber.App {
	auth := &stubAuth{users: map[string]*models.User{
		"admin":    {UserID: 1, UserType: models.UserTypeAdmin, ApprovalStatus: models.ApprovalApproved, IsActive: true},
		"worker":   {UserID: 2, UserType: models.UserTypeAnnotator, ApprovalStatus: models.ApprovalApproved, IsActive: true},
		"pending":  {UserID: 3, UserType: models.UserTypeCustomer, ApprovalStatus: models.ApprovalPending},
		"disabled": {UserID: 4, UserType: models.UserTypeAdmin, ApprovalStatus: models.ApprovalApproved, IsActive: false},
	}}

	whoami := func(c *fiber.Ctx) error {
		req, err := RequesterFrom(c)
		if err != nil {
			return utils.AppErrorResponse(c, err)
		}
		return c.JSON(fiber.Map{"user_id": req.UserID, "role": req.Role})
	}

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
	app.Get("/me", Protected(auth), whoami)
	app.Get("/data", Protected(auth), RequireApproved(), whoami)
	app.Get("/admin", Protected(auth), AdminOnly(), whoami)
	app.Get("/ws", ProtectedWithQueryToken(auth), whoami)
	return app
}

func call(t *testing.T, app *fiber.App, path, token string) (int, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	body := map[string]interface{}{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestProtected(t *testing.T) {
	app := newAuthApp()

	status, body := call(t, app, "/me", "")
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "Missing authorization header", body["message"])

	status, body = call(t, app, "/me", "Token admin")
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "Invalid authorization header format", body["message"])

	status, body = call(t, app, "/me", "Bearer nope")
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "unauthorized", body["error"])

	status, body = call(t, app, "/me", "Bearer pending")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, float64(3), body["user_id"])
}

func TestRequireApproved(t *testing.T) {
	app := newAuthApp()

	status, body := call(t, app, "/data", "Bearer pending")
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, "Account is awaiting approval", body["message"])

	status, _ = call(t, app, "/data", "Bearer disabled")
	assert.Equal(t, fiber.StatusForbidden, status)

	status, body = call(t, app, "/data", "Bearer worker")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "annotator", body["role"])
}

func TestAdminOnly(t *testing.T) {
	app := newAuthApp()

	status, body := call(t, app, "/admin", "Bearer worker")
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, "Insufficient permissions", body["message"])

	status, body = call(t, app, "/admin", "Bearer disabled")
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, "Account is awaiting approval", body["message"])

	status, _ = call(t, app, "/admin", "Bearer admin")
	assert.Equal(t, fiber.StatusOK, status)
}

func TestProtectedWithQueryToken(t *testing.T) {
	app := newAuthApp()

	status, body := call(t, app, "/ws?token=worker", "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, float64(2), body["user_id"])

	status, _ = call(t, app, "/me?token=worker", "")
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestErrorHandlerMapsApplicationErrors(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
	app.Get("/missing", func(c *fiber.Ctx) error { return apperrors.NotFound("image", 5) })
	app.Get("/teapot", func(c *fiber.Ctx) error { return fiber.NewError(fiber.StatusTeapot, "short and stout") })

	status, body := call(t, app, "/missing", "")
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "not_found", body["error"])

	status, body = call(t, app, "/teapot", "")
	assert.Equal(t, fiber.StatusTeapot, status)
	assert.Equal(t, "short and stout", body["message"])
}
