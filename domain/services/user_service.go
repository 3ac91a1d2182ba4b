package services

import (
	"context"

	"inspection-api/domain/dto"
)

type UserService interface {
	GetProfile(ctx context.Context, userID uint) (*dto.UserResponse, error)
	CompleteProfile(ctx context.Context, userID uint, req *dto.CompleteProfileRequest) (*dto.UserResponse, error)

	// ListMembers filters by user type; "all_roles" or empty lists every approved member
	ListMembers(ctx context.Context, userType string) ([]*dto.UserResponse, error)
	ChangeRole(ctx context.Context, actor Requester, userID uint, userType string) (*dto.UserResponse, error)
	DeactivateMember(ctx context.Context, actor Requester, userID uint) error

	ListPending(ctx context.Context) ([]*dto.UserResponse, error)
	DecideApproval(ctx context.Context, actor Requester, userID uint, approve bool) (*dto.UserResponse, error)
}
