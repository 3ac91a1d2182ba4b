package oauth

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inspection-api/pkg/config"
)

func newTestNaver(t *testing.T) *NaverProvider {
	t.Helper()
	p := NewNaverProvider(config.NaverOAuthConfig{
		ClientID:     "naver-id",
		ClientSecret: "naver-secret",
		RedirectURL:  "http://localhost/callback",
	})
	httpmock.ActivateNonDefault(p.httpClient)
	t.Cleanup(httpmock.DeactivateAndReset)
	return p
}

func TestNaverExchange(t *testing.T) {
	p := newTestNaver(t)

	httpmock.RegisterResponder(http.MethodPost, naverTokenURL, func(req *http.Request) (*http.Response, error) {
		require.NoError(t, req.ParseForm())
		assert.Equal(t, "the-code", req.PostForm.Get("code"))
		assert.Equal(t, "xyz", req.PostForm.Get("state"))
		return httpmock.NewJsonResponse(http.StatusOK, map[string]interface{}{
			"access_token": "access",
			"token_type":   "bearer",
			"expires_in":   3600,
		})
	})
	httpmock.RegisterResponder(http.MethodGet, naverProfileURL, func(req *http.Request) (*http.Response, error) {
		assert.Equal(t, "Bearer access", req.Header.Get("Authorization"))
		return httpmock.NewJsonResponse(http.StatusOK, map[string]interface{}{
			"resultcode": "00",
			"message":    "success",
			"response": map[string]interface{}{
				"email":    "kim@example.com",
				"nickname": "kim",
			},
		})
	})

	identity, err := p.Exchange(context.Background(), "the-code", "xyz")
	require.NoError(t, err)
	assert.Equal(t, "kim@example.com", identity.Email)
	assert.Equal(t, "kim", identity.DisplayName)
}

func TestNaverExchangeRejectedProfile(t *testing.T) {
	p := newTestNaver(t)

	httpmock.RegisterResponder(http.MethodPost, naverTokenURL,
		httpmock.NewJsonResponderOrPanic(http.StatusOK, map[string]interface{}{"access_token": "access", "token_type": "bearer"}))
	httpmock.RegisterResponder(http.MethodGet, naverProfileURL,
		httpmock.NewJsonResponderOrPanic(http.StatusOK, map[string]interface{}{"resultcode": "024", "message": "Authentication failed"}))

	_, err := p.Exchange(context.Background(), "code", "state")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Authentication failed")
}

func TestNaverExchangeTokenFailure(t *testing.T) {
	p := newTestNaver(t)

	httpmock.RegisterResponder(http.MethodPost, naverTokenURL,
		httpmock.NewStringResponder(http.StatusUnauthorized, `{"error":"invalid_request"}`))

	_, err := p.Exchange(context.Background(), "code", "state")
	require.Error(t, err)
	assert.Equal(t, 0, httpmock.GetCallCountInfo()["GET "+naverProfileURL])
}

func TestGoogleAuthURL(t *testing.T) {
	p := NewGoogleProvider(config.GoogleOAuthConfig{
		ClientID:     "google-id",
		ClientSecret: "google-secret",
		RedirectURL:  "http://localhost/google/callback",
	})

	raw := p.AuthURL("state-1")
	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "accounts.google.com", u.Host)
	assert.Equal(t, "google-id", u.Query().Get("client_id"))
	assert.Equal(t, "state-1", u.Query().Get("state"))
	assert.Contains(t, u.Query().Get("scope"), "userinfo.email")
	assert.NoError(t, p.ValidateConfig())
}

func TestGoogleValidateConfig(t *testing.T) {
	p := NewGoogleProvider(config.GoogleOAuthConfig{})
	assert.Error(t, p.ValidateConfig())
}
