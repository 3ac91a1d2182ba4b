package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"inspection-api/domain/services"
	"inspection-api/pkg/config"
)

const (
	naverAuthURL    = "https://nid.naver.com/oauth2.0/authorize"
	naverTokenURL   = "https://nid.naver.com/oauth2.0/token"
	naverProfileURL = "https://openapi.naver.com/v1/nid/me"
)

// NaverProvider signs users in with a Naver account
type NaverProvider struct {
	config     *oauth2.Config
	profileURL string
	httpClient *http.Client
}

type naverProfileResponse struct {
	ResultCode string `json:"resultcode"`
	Message    string `json:"message"`
	Response   struct {
		ID           string `json:"id"`
		Email        string `json:"email"`
		Name         string `json:"name"`
		Nickname     string `json:"nickname"`
		ProfileImage string `json:"profile_image"`
	} `json:"response"`
}

func NewNaverProvider(cfg config.NaverOAuthConfig) *NaverProvider {
	return &NaverProvider{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint: oauth2.Endpoint{
				AuthURL:   naverAuthURL,
				TokenURL:  naverTokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		profileURL: naverProfileURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (n *NaverProvider) Name() string {
	return "naver"
}

func (n *NaverProvider) AuthURL(state string) string {
	return n.config.AuthCodeURL(state)
}

// Exchange requires the state of the authorization request, Naver checks it on the token endpoint
func (n *NaverProvider) Exchange(ctx context.Context, code, state string) (*services.Identity, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, n.httpClient)

	token, err := n.config.Exchange(ctx, code, oauth2.SetAuthURLParam("state", state))
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.profileURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create profile request: %w", err)
	}
	token.SetAuthHeader(req)

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("profile request failed: %s", string(body))
	}

	var profile naverProfileResponse
	if err := json.Unmarshal(body, &profile); err != nil {
		return nil, fmt.Errorf("failed to parse profile response: %w", err)
	}
	if profile.ResultCode != "00" {
		return nil, fmt.Errorf("profile request rejected: %s", profile.Message)
	}
	if profile.Response.Email == "" {
		return nil, errors.New("invalid profile: missing email")
	}

	name := profile.Response.Name
	if name == "" {
		name = profile.Response.Nickname
	}
	return &services.Identity{
		Email:       profile.Response.Email,
		DisplayName: name,
		AvatarURL:   profile.Response.ProfileImage,
	}, nil
}

func (n *NaverProvider) ValidateConfig() error {
	if n.config.ClientID == "" || n.config.ClientSecret == "" {
		return errors.New("NAVER_CLIENT_ID and NAVER_CLIENT_SECRET must be configured")
	}
	return nil
}
