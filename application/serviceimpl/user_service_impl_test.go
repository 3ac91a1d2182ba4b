package serviceimpl

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inspection-api/domain/dto"
	"inspection-api/domain/models"
	apperrors "inspection-api/pkg/errors"
)

func profileRequest() *dto.CompleteProfileRequest {
	return &dto.CompleteProfileRequest{
		Name:          "Kim Minji",
		UserType:      "annotator",
		Gender:        "female",
		Birthdate:     "1994-07-02",
		Nationality:   "KR",
		CompanyName:   "Acme Steel",
		FactoryName:   "Plant 2",
		BankName:      "Shinhan",
		BankAccount:   " 110-222-333 ",
		TermsAccepted: true,
	}
}

func pendingUser(t *testing.T, r *repos, email string) models.User {
	t.Helper()
	u := models.User{Email: email, UserType: models.UserTypeCustomer, ApprovalStatus: models.ApprovalPending}
	require.NoError(t, r.db.Create(&u).Error)
	return u
}

func TestCompleteProfile(t *testing.T) {
	r := newRepos(t)
	svc := NewUserService(r.users)
	ctx := context.Background()
	u := pendingUser(t, r, "new@example.com")

	resp, err := svc.CompleteProfile(ctx, u.UserID, profileRequest())
	require.NoError(t, err)
	assert.Equal(t, "Kim Minji", resp.Name)
	assert.Equal(t, models.UserTypeAnnotator, resp.UserType)
	assert.Equal(t, models.ApprovalPending, resp.ApprovalStatus)

	stored, err := r.users.GetByID(ctx, u.UserID)
	require.NoError(t, err)
	require.NotNil(t, stored.BankAccount)
	assert.Equal(t, "110-222-333", *stored.BankAccount)
	assert.True(t, stored.ProfileCompleted())

	_, err = svc.CompleteProfile(ctx, u.UserID, profileRequest())
	assert.True(t, apperrors.IsCode(err, apperrors.CodeConflict))
}

func TestCompleteProfileRejectsTakenBankAccount(t *testing.T) {
	r := newRepos(t)
	svc := NewUserService(r.users)
	ctx := context.Background()
	first := pendingUser(t, r, "first@example.com")
	second := pendingUser(t, r, "second@example.com")

	_, err := svc.CompleteProfile(ctx, first.UserID, profileRequest())
	require.NoError(t, err)

	_, err = svc.CompleteProfile(ctx, second.UserID, profileRequest())
	assert.True(t, apperrors.IsCode(err, apperrors.CodeConflict))
}

func TestCompleteProfileValidation(t *testing.T) {
	r := newRepos(t)
	svc := NewUserService(r.users)
	u := pendingUser(t, r, "new@example.com")

	req := profileRequest()
	req.UserType = "admin"
	_, err := svc.CompleteProfile(context.Background(), u.UserID, req)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalid))

	req = profileRequest()
	req.TermsAccepted = false
	_, err = svc.CompleteProfile(context.Background(), u.UserID, req)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalid))
}

func TestDecideApproval(t *testing.T) {
	r := newRepos(t)
	svc := NewUserService(r.users)
	ctx := context.Background()
	boss := r.user(t, "boss@example.com", models.UserTypeAdmin)
	applicant := pendingUser(t, r, "applicant@example.com")
	rejected := pendingUser(t, r, "rejected@example.com")

	pending, err := svc.ListPending(ctx)
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	resp, err := svc.DecideApproval(ctx, admin(boss.UserID), applicant.UserID, true)
	require.NoError(t, err)
	assert.Equal(t, models.ApprovalApproved, resp.ApprovalStatus)
	assert.True(t, resp.IsActive)

	resp, err = svc.DecideApproval(ctx, admin(boss.UserID), rejected.UserID, false)
	require.NoError(t, err)
	assert.Equal(t, models.ApprovalRejected, resp.ApprovalStatus)
	assert.False(t, resp.IsActive)

	assert.Equal(t, int64(1), r.countLogs(t, models.ActivityUserApproved))
	assert.Equal(t, int64(1), r.countLogs(t, models.ActivityUserRejected))

	pending, err = svc.ListPending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)

	_, err = svc.DecideApproval(ctx, admin(boss.UserID), 999, true)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
}

func TestChangeRoleAndDeactivate(t *testing.T) {
	r := newRepos(t)
	svc := NewUserService(r.users)
	ctx := context.Background()
	boss := r.user(t, "boss@example.com", models.UserTypeAdmin)
	member := r.user(t, "member@example.com", models.UserTypeCustomer)

	_, err := svc.ChangeRole(ctx, admin(boss.UserID), boss.UserID, "customer")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeForbidden))

	_, err = svc.ChangeRole(ctx, admin(boss.UserID), member.UserID, "overlord")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalid))

	resp, err := svc.ChangeRole(ctx, admin(boss.UserID), member.UserID, "annotator")
	require.NoError(t, err)
	assert.Equal(t, models.UserTypeAnnotator, resp.UserType)
	assert.Equal(t, int64(1), r.countLogs(t, models.ActivityRoleChanged))

	annotators, err := svc.ListMembers(ctx, "annotator")
	require.NoError(t, err)
	require.Len(t, annotators, 1)
	everyone, err := svc.ListMembers(ctx, "all_roles")
	require.NoError(t, err)
	assert.Len(t, everyone, 2)
	_, err = svc.ListMembers(ctx, "pirate")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalid))

	assert.True(t, apperrors.IsCode(svc.DeactivateMember(ctx, admin(boss.UserID), boss.UserID), apperrors.CodeForbidden))
	require.NoError(t, svc.DeactivateMember(ctx, admin(boss.UserID), member.UserID))

	everyone, err = svc.ListMembers(ctx, "")
	require.NoError(t, err)
	assert.Len(t, everyone, 1)
}
