package serviceimpl

import (
	"context"
	"strings"
	"time"

	"inspection-api/domain/models"
	"inspection-api/domain/repositories"
	"inspection-api/domain/services"
	apperrors "inspection-api/pkg/errors"
	"inspection-api/pkg/logger"
	"inspection-api/pkg/utils"
)

type AuthServiceImpl struct {
	userRepo  repositories.UserRepository
	providers map[string]services.IdentityProvider
	jwtSecret string
	tokenTTL  time.Duration
}

func NewAuthService(
	userRepo repositories.UserRepository,
	providers []services.IdentityProvider,
	jwtSecret string,
	tokenTTL time.Duration,
) services.AuthService {
	byName := make(map[string]services.IdentityProvider, len(providers))
	for _, p := range providers {
		byName[p.Name()] = p
	}
	return &AuthServiceImpl{
		userRepo:  userRepo,
		providers: byName,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
	}
}

func (s *AuthServiceImpl) provider(name string) (services.IdentityProvider, error) {
	p, ok := s.providers[strings.ToLower(name)]
	if !ok {
		return nil, apperrors.NotFound("oauth provider", name)
	}
	return p, nil
}

func (s *AuthServiceImpl) AuthURL(provider, state string) (string, error) {
	p, err := s.provider(provider)
	if err != nil {
		return "", err
	}
	return p.AuthURL(state), nil
}

func (s *AuthServiceImpl) HandleCallback(ctx context.Context, provider, code, state string) (string, *models.User, error) {
	p, err := s.provider(provider)
	if err != nil {
		return "", nil, err
	}
	if code == "" {
		return "", nil, apperrors.Invalid("authorization code is required")
	}

	identity, err := p.Exchange(ctx, code, state)
	if err != nil {
		logger.AuthError("oauth_exchange_failed", "OAuth code exchange failed", err, map[string]interface{}{"provider": p.Name()})
		return "", nil, apperrors.Upstream(p.Name(), err)
	}

	user, err := s.findOrCreateUser(ctx, p.Name(), identity)
	if err != nil {
		return "", nil, err
	}

	token, err := utils.GenerateToken(user.UserID, user.Email, s.jwtSecret, s.tokenTTL)
	if err != nil {
		return "", nil, apperrors.Wrap(err, apperrors.CodeInternal, "failed to generate token")
	}

	logger.Auth("login", "User signed in", map[string]interface{}{
		"user_id":  user.UserID,
		"provider": p.Name(),
	})
	return token, user, nil
}

func (s *AuthServiceImpl) Authenticate(ctx context.Context, token string) (*models.User, error) {
	userID, err := utils.ValidateToken(token, s.jwtSecret)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeUnauthorized, err.Error())
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if apperrors.IsCode(err, apperrors.CodeNotFound) {
			return nil, apperrors.New(apperrors.CodeUnauthorized, "user no longer exists")
		}
		return nil, err
	}
	return user, nil
}

// findOrCreateUser matches on email; a first login creates a pending, inactive customer
func (s *AuthServiceImpl) findOrCreateUser(ctx context.Context, provider string, identity *services.Identity) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(identity.Email))
	now := time.Now().UTC()

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil {
		updates := map[string]interface{}{"last_login": now}
		if user.ProfileImage == "" && identity.AvatarURL != "" {
			updates["profile_image"] = identity.AvatarURL
			user.ProfileImage = identity.AvatarURL
		}
		if err := s.userRepo.Update(ctx, user.UserID, updates); err != nil {
			return nil, err
		}
		user.LastLogin = &now
		return user, nil
	}
	if !apperrors.IsCode(err, apperrors.CodeNotFound) {
		return nil, err
	}

	newUser := &models.User{
		Email:          email,
		Name:           identity.DisplayName,
		UserType:       models.UserTypeCustomer,
		ApprovalStatus: models.ApprovalPending,
		IsActive:       false,
		ProfileImage:   identity.AvatarURL,
		Provider:       provider,
		LastLogin:      &now,
	}
	if err := s.userRepo.Create(ctx, newUser); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "failed to create user")
	}

	logger.Auth("user_created", "New user registered", map[string]interface{}{
		"user_id":  newUser.UserID,
		"provider": provider,
	})
	return newUser, nil
}
