package serviceimpl

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inspection-api/domain/models"
	"inspection-api/domain/services"
	apperrors "inspection-api/pkg/errors"
	"inspection-api/pkg/utils"
)

const authSecret = "auth-test-secret"

type fakeProvider struct {
	identity *services.Identity
	err      error
}

func (p *fakeProvider) Name() string { return "fake" }

func (p *fakeProvider) AuthURL(state string) string {
	return "https://idp.test/authorize?state=" + state
}

func (p *fakeProvider) Exchange(context.Context, string, string) (*services.Identity, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.identity, nil
}

func TestHandleCallbackCreatesPendingUser(t *testing.T) {
	r := newRepos(t)
	provider := &fakeProvider{identity: &services.Identity{Email: " New.User@Example.com ", DisplayName: "New User", AvatarURL: "https://idp.test/a.png"}}
	svc := NewAuthService(r.users, []services.IdentityProvider{provider}, authSecret, time.Hour)
	ctx := context.Background()

	url, err := svc.AuthURL("FAKE", "s1")
	require.NoError(t, err)
	assert.Contains(t, url, "state=s1")

	token, user, err := svc.HandleCallback(ctx, "fake", "code", "s1")
	require.NoError(t, err)
	assert.Equal(t, "new.user@example.com", user.Email)
	assert.Equal(t, models.ApprovalPending, user.ApprovalStatus)
	assert.Equal(t, models.UserTypeCustomer, user.UserType)
	assert.False(t, user.IsActive)
	assert.Equal(t, "fake", user.Provider)

	id, err := utils.ValidateToken(token, authSecret)
	require.NoError(t, err)
	assert.Equal(t, user.UserID, id)

	_, again, err := svc.HandleCallback(ctx, "fake", "code-2", "s2")
	require.NoError(t, err)
	assert.Equal(t, user.UserID, again.UserID)

	count, err := r.users.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	me, err := svc.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, user.UserID, me.UserID)
	assert.NotNil(t, me.LastLogin)
}

func TestHandleCallbackFailures(t *testing.T) {
	r := newRepos(t)
	provider := &fakeProvider{err: errors.New("bad code")}
	svc := NewAuthService(r.users, []services.IdentityProvider{provider}, authSecret, time.Hour)
	ctx := context.Background()

	_, _, err := svc.HandleCallback(ctx, "fake", "code", "s")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeUpstream))

	_, _, err = svc.HandleCallback(ctx, "fake", "", "s")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalid))

	_, _, err = svc.HandleCallback(ctx, "github", "code", "s")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))

	_, err = svc.AuthURL("github", "s")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
}

func TestAuthenticateRejectsUnknownUsersAndBadTokens(t *testing.T) {
	r := newRepos(t)
	svc := NewAuthService(r.users, nil, authSecret, time.Hour)
	ctx := context.Background()

	orphan, err := utils.GenerateToken(4242, "ghost@example.com", authSecret, time.Hour)
	require.NoError(t, err)
	_, err = svc.Authenticate(ctx, orphan)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeUnauthorized))

	_, err = svc.Authenticate(ctx, "garbage")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeUnauthorized))

	expired, err := utils.GenerateToken(1, "a@example.com", authSecret, -time.Minute)
	require.NoError(t, err)
	_, err = svc.Authenticate(ctx, expired)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeUnauthorized))
	assert.ErrorIs(t, err, utils.ErrExpiredToken)
}
