package oauth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	oauth2api "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"

	"inspection-api/domain/services"
	"inspection-api/pkg/config"
)

// GoogleProvider signs users in with their Google account
type GoogleProvider struct {
	config     *oauth2.Config
	httpClient *http.Client
}

func NewGoogleProvider(cfg config.GoogleOAuthConfig) *GoogleProvider {
	return &GoogleProvider{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes: []string{
				oauth2api.UserinfoEmailScope,
				oauth2api.UserinfoProfileScope,
			},
			Endpoint: google.Endpoint,
		},
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (g *GoogleProvider) Name() string {
	return "google"
}

// AuthURL generates the Google OAuth authorization URL
func (g *GoogleProvider) AuthURL(state string) string {
	return g.config.AuthCodeURL(state, oauth2.SetAuthURLParam("prompt", "select_account"))
}

// Exchange trades the authorization code for a token and reads the profile
func (g *GoogleProvider) Exchange(ctx context.Context, code, _ string) (*services.Identity, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, g.httpClient)

	token, err := g.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code: %w", err)
	}

	svc, err := oauth2api.NewService(ctx, option.WithHTTPClient(g.config.Client(ctx, token)))
	if err != nil {
		return nil, fmt.Errorf("failed to create userinfo client: %w", err)
	}

	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get user info: %w", err)
	}
	if info.Email == "" {
		return nil, errors.New("invalid user info: missing email")
	}

	return &services.Identity{
		Email:       info.Email,
		DisplayName: info.Name,
		AvatarURL:   info.Picture,
	}, nil
}

// ValidateConfig checks if the Google OAuth configuration is valid
func (g *GoogleProvider) ValidateConfig() error {
	if g.config.ClientID == "" {
		return errors.New("GOOGLE_CLIENT_ID is not configured")
	}
	if g.config.ClientSecret == "" {
		return errors.New("GOOGLE_CLIENT_SECRET is not configured")
	}
	if g.config.RedirectURL == "" {
		return errors.New("GOOGLE_REDIRECT_URL is not configured")
	}
	return nil
}
