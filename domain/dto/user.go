package dto

import (
	"time"

	"inspection-api/domain/models"
)

type UserResponse struct {
	UserID         uint                  `json:"user_id"`
	Email          string                `json:"email"`
	Name           string                `json:"name"`
	UserType       models.UserType       `json:"user_type"`
	ApprovalStatus models.ApprovalStatus `json:"approval_status"`
	IsActive       bool                  `json:"is_active"`
	Gender         string                `json:"gender,omitempty"`
	Birthdate      *time.Time            `json:"birthdate,omitempty"`
	Nationality    string                `json:"nationality,omitempty"`
	Address        string                `json:"address,omitempty"`
	CompanyName    string                `json:"company_name,omitempty"`
	FactoryName    string                `json:"factory_name,omitempty"`
	BankName       string                `json:"bank_name,omitempty"`
	BankAccount    string                `json:"bank_account,omitempty"`
	TermsAccepted  bool                  `json:"terms_accepted"`
	ProfileImage   string                `json:"profile_image,omitempty"`
	Provider       string                `json:"provider"`
	LastLogin      *time.Time            `json:"last_login,omitempty"`
	CreatedAt      time.Time             `json:"created_at"`
}

func UserToUserResponse(user *models.User) *UserResponse {
	if user == nil {
		return nil
	}
	resp := &UserResponse{
		UserID:         user.UserID,
		Email:          user.Email,
		Name:           user.Name,
		UserType:       user.UserType,
		ApprovalStatus: user.ApprovalStatus,
		IsActive:       user.IsActive,
		Gender:         user.Gender,
		Birthdate:      user.Birthdate,
		Nationality:    user.Nationality,
		Address:        user.Address,
		CompanyName:    user.CompanyName,
		FactoryName:    user.FactoryName,
		BankName:       user.BankName,
		TermsAccepted:  user.TermsAccepted,
		ProfileImage:   user.ProfileImage,
		Provider:       user.Provider,
		LastLogin:      user.LastLogin,
		CreatedAt:      user.CreatedAt,
	}
	if user.BankAccount != nil {
		resp.BankAccount = *user.BankAccount
	}
	return resp
}

func UsersToResponse(users []models.User) []*UserResponse {
	result := make([]*UserResponse, len(users))
	for i := range users {
		result[i] = UserToUserResponse(&users[i])
	}
	return result
}

// CompleteProfileRequest is submitted once after the first OAuth login
type CompleteProfileRequest struct {
	Name          string `json:"name" validate:"required,max=100"`
	UserType      string `json:"user_type" validate:"required,oneof=customer annotator ml_engineer"`
	Gender        string `json:"gender" validate:"omitempty,oneof=male female other"`
	Birthdate     string `json:"birthdate" validate:"required,datetime=2006-01-02"`
	Nationality   string `json:"nationality" validate:"required,max=50"`
	Address       string `json:"address" validate:"omitempty,max=255"`
	CompanyName   string `json:"company_name" validate:"required,max=100"`
	FactoryName   string `json:"factory_name" validate:"required,max=100"`
	BankName      string `json:"bank_name" validate:"required,max=50"`
	BankAccount   string `json:"bank_account" validate:"required,max=50"`
	TermsAccepted bool   `json:"terms_accepted" validate:"required"`
}

type ChangeRoleRequest struct {
	UserType string `json:"user_type" validate:"required,oneof=admin customer annotator ml_engineer"`
}

type ApprovalRequest struct {
	Action string `json:"action" validate:"required,oneof=approve reject"`
}

type LoginResponse struct {
	Token string        `json:"token"`
	User  *UserResponse `json:"user"`
}
