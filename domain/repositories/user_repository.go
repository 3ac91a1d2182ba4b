package repositories

import (
	"context"

	"inspection-api/domain/models"
)

type UserFilter struct {
	UserType       models.UserType // empty means all roles
	ApprovalStatus models.ApprovalStatus
	OnlyActive     bool
}

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByBankAccount(ctx context.Context, account string) (*models.User, error)
	Update(ctx context.Context, id uint, updates map[string]interface{}) error
	// UpdateWithLog applies updates and records the activity entry in one transaction
	UpdateWithLog(ctx context.Context, id uint, updates map[string]interface{}, log *models.ActivityLog) error
	List(ctx context.Context, filter UserFilter) ([]models.User, error)
	Count(ctx context.Context) (int64, error)
}
