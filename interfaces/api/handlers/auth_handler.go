package handlers

import (
	"crypto/rand"
	"encoding/base64"
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"

	"inspection-api/domain/dto"
	"inspection-api/domain/services"
	"inspection-api/pkg/logger"
	"inspection-api/pkg/utils"
)

const (
	stateCookie    = "oauth_state"
	redirectCookie = "oauth_redirect"
	tokenCookie    = "auth_token"
	stateTTL       = 10 * time.Minute
)

type AuthHandler struct {
	authService  services.AuthService
	frontendURL  string
	secureCookie bool
	tokenTTL     time.Duration
}

func NewAuthHandler(authService services.AuthService, frontendURL string, secureCookie bool, tokenTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		frontendURL:  frontendURL,
		secureCookie: secureCookie,
		tokenTTL:     tokenTTL,
	}
}

// Login redirects to the provider named in the path
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	provider := c.Params("provider")

	state, err := generateState()
	if err != nil {
		logger.AuthError("login_error", "Failed to generate state", err, nil)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to generate state", err)
	}

	authURL, err := h.authService.AuthURL(provider, state)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}

	h.setCookie(c, stateCookie, state, stateTTL)
	h.setCookie(c, redirectCookie, c.Query("redirect", "/"), stateTTL)

	logger.Auth("login_redirect", "Redirecting to OAuth provider", map[string]interface{}{
		"provider": provider,
		"ip":       c.IP(),
	})

	return c.Redirect(authURL)
}

// Callback finishes the OAuth flow and hands the token to the frontend
func (h *AuthHandler) Callback(c *fiber.Ctx) error {
	provider := c.Params("provider")

	state := c.Query("state")
	if state == "" || state != c.Cookies(stateCookie) {
		logger.AuthError("callback_error", "Invalid state parameter", nil, map[string]interface{}{"provider": provider})
		return c.Redirect(h.frontendError("invalid_state"))
	}
	h.clearCookie(c, stateCookie)

	if errMsg := c.Query("error"); errMsg != "" {
		logger.AuthError("callback_error", "Provider returned error", nil, map[string]interface{}{
			"provider":       provider,
			"provider_error": errMsg,
		})
		return c.Redirect(h.frontendError(errMsg))
	}

	token, user, err := h.authService.HandleCallback(c.UserContext(), provider, c.Query("code"), state)
	if err != nil {
		logger.AuthError("callback_error", "Failed to complete login", err, map[string]interface{}{"provider": provider})
		return c.Redirect(h.frontendError("auth_failed"))
	}

	logger.Auth("callback_success", "User authenticated successfully", map[string]interface{}{
		"provider": provider,
		"user_id":  user.UserID,
	})

	redirectURL := c.Cookies(redirectCookie, "/")
	h.clearCookie(c, redirectCookie)
	h.setCookie(c, tokenCookie, token, h.tokenTTL)

	q := url.Values{}
	q.Set("token", token)
	q.Set("redirect", redirectURL)
	return c.Redirect(h.frontendURL + "/auth/callback?" + q.Encode())
}

// Me returns the authenticated user as stored
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	token := utils.ExtractTokenFromHeader(c.Get("Authorization"))
	user, err := h.authService.Authenticate(c.UserContext(), token)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, "User retrieved successfully", dto.UserToUserResponse(user))
}

// Logout clears the auth cookie
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.clearCookie(c, tokenCookie)
	return utils.SuccessResponse(c, "Logged out successfully", nil)
}

func (h *AuthHandler) frontendError(code string) string {
	return h.frontendURL + "/login?error=" + url.QueryEscape(code)
}

func (h *AuthHandler) setCookie(c *fiber.Ctx, name, value string, ttl time.Duration) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    value,
		Expires:  time.Now().Add(ttl),
		HTTPOnly: true,
		Secure:   h.secureCookie,
		SameSite: "Lax",
	})
}

func (h *AuthHandler) clearCookie(c *fiber.Ctx, name string) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
	})
}

func generateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
