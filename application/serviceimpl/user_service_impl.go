package serviceimpl

import (
	"context"
	"strings"
	"time"

	"inspection-api/domain/dto"
	"inspection-api/domain/models"
	"inspection-api/domain/repositories"
	"inspection-api/domain/services"
	apperrors "inspection-api/pkg/errors"
	"inspection-api/pkg/logger"
	"inspection-api/pkg/utils"
)

const allRoles = "all_roles"

type UserServiceImpl struct {
	userRepo repositories.UserRepository
}

func NewUserService(userRepo repositories.UserRepository) services.UserService {
	return &UserServiceImpl{
		userRepo: userRepo,
	}
}

func (s *UserServiceImpl) GetProfile(ctx context.Context, userID uint) (*dto.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return dto.UserToUserResponse(user), nil
}

func (s *UserServiceImpl) CompleteProfile(ctx context.Context, userID uint, req *dto.CompleteProfileRequest) (*dto.UserResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.ProfileCompleted() {
		return nil, apperrors.New(apperrors.CodeConflict, "profile already completed")
	}

	account := strings.TrimSpace(req.BankAccount)
	other, err := s.userRepo.GetByBankAccount(ctx, account)
	if err == nil && other.UserID != userID {
		return nil, apperrors.New(apperrors.CodeConflict, "bank account is already registered")
	}
	if err != nil && !apperrors.IsCode(err, apperrors.CodeNotFound) {
		return nil, err
	}

	birthdate, err := time.Parse("2006-01-02", req.Birthdate)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInvalid, "birthdate must be YYYY-MM-DD")
	}

	updates := map[string]interface{}{
		"name":           strings.TrimSpace(req.Name),
		"user_type":      models.UserType(req.UserType),
		"gender":         req.Gender,
		"birthdate":      birthdate,
		"nationality":    req.Nationality,
		"address":        req.Address,
		"company_name":   req.CompanyName,
		"factory_name":   req.FactoryName,
		"bank_name":      req.BankName,
		"bank_account":   account,
		"terms_accepted": req.TermsAccepted,
	}
	if err := s.userRepo.Update(ctx, userID, updates); err != nil {
		return nil, err
	}

	logger.Auth("profile_completed", "User completed signup profile", map[string]interface{}{
		"user_id":   userID,
		"user_type": req.UserType,
	})
	return s.GetProfile(ctx, userID)
}

func (s *UserServiceImpl) ListMembers(ctx context.Context, userType string) ([]*dto.UserResponse, error) {
	filter := repositories.UserFilter{
		ApprovalStatus: models.ApprovalApproved,
		OnlyActive:     true,
	}
	if userType != "" && userType != allRoles {
		t := models.UserType(userType)
		if !t.Valid() {
			return nil, apperrors.Newf(apperrors.CodeInvalid, "unknown user type %q", userType)
		}
		filter.UserType = t
	}
	users, err := s.userRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return dto.UsersToResponse(users), nil
}

func (s *UserServiceImpl) ChangeRole(ctx context.Context, actor services.Requester, userID uint, userType string) (*dto.UserResponse, error) {
	role := models.UserType(userType)
	if !role.Valid() {
		return nil, apperrors.Newf(apperrors.CodeInvalid, "unknown user type %q", userType)
	}
	if actor.UserID == userID {
		return nil, apperrors.New(apperrors.CodeForbidden, "cannot change your own role")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.UserType == role {
		return dto.UserToUserResponse(user), nil
	}

	log := newActivity(actor, models.ActivityRoleChanged, "user", userID, "User role changed", map[string]interface{}{
		"from": string(user.UserType),
		"to":   string(role),
	})
	if err := s.userRepo.UpdateWithLog(ctx, userID, map[string]interface{}{"user_type": role}, log); err != nil {
		return nil, err
	}

	logger.Admin("role_changed", "User role changed", map[string]interface{}{
		"user_id": userID,
		"from":    string(user.UserType),
		"to":      string(role),
	})
	return s.GetProfile(ctx, userID)
}

func (s *UserServiceImpl) DeactivateMember(ctx context.Context, actor services.Requester, userID uint) error {
	if actor.UserID == userID {
		return apperrors.New(apperrors.CodeForbidden, "cannot deactivate yourself")
	}
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return err
	}

	log := newActivity(actor, models.ActivityMemberDeactivated, "user", userID, "Member deactivated", nil)
	if err := s.userRepo.UpdateWithLog(ctx, userID, map[string]interface{}{"is_active": false}, log); err != nil {
		return err
	}
	logger.Admin("member_deactivated", "Member deactivated", map[string]interface{}{"user_id": userID})
	return nil
}

func (s *UserServiceImpl) ListPending(ctx context.Context) ([]*dto.UserResponse, error) {
	users, err := s.userRepo.List(ctx, repositories.UserFilter{ApprovalStatus: models.ApprovalPending})
	if err != nil {
		return nil, err
	}
	return dto.UsersToResponse(users), nil
}

func (s *UserServiceImpl) DecideApproval(ctx context.Context, actor services.Requester, userID uint, approve bool) (*dto.UserResponse, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	status, activity, message := models.ApprovalRejected, models.ActivityUserRejected, "User rejected"
	if approve {
		status, activity, message = models.ApprovalApproved, models.ActivityUserApproved, "User approved"
	}

	updates := map[string]interface{}{
		"approval_status": status,
		"is_active":       approve,
	}
	if err := s.userRepo.UpdateWithLog(ctx, userID, updates, newActivity(actor, activity, "user", userID, message, nil)); err != nil {
		return nil, err
	}

	logger.Admin(string(activity), message, map[string]interface{}{"user_id": userID})
	return s.GetProfile(ctx, userID)
}
