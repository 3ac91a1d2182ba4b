package postgres

import (
	"context"

	"gorm.io/gorm"

	"inspection-api/domain/models"
	"inspection-api/domain/repositories"
)

type UserRepositoryImpl struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) repositories.UserRepository {
	return &UserRepositoryImpl{db: db}
}

func (r *UserRepositoryImpl) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *UserRepositoryImpl) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("user_id = ?", id).First(&user).Error
	if err != nil {
		return nil, notFound(err, "user", id)
	}
	return &user, nil
}

func (r *UserRepositoryImpl) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, notFound(err, "user", email)
	}
	return &user, nil
}

func (r *UserRepositoryImpl) GetByBankAccount(ctx context.Context, account string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("bank_account = ?", account).First(&user).Error
	if err != nil {
		return nil, notFound(err, "user", account)
	}
	return &user, nil
}

func (r *UserRepositoryImpl) Update(ctx context.Context, id uint, updates map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&models.User{}).Where("user_id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return notFound(gorm.ErrRecordNotFound, "user", id)
	}
	return nil
}

func (r *UserRepositoryImpl) UpdateWithLog(ctx context.Context, id uint, updates map[string]interface{}, log *models.ActivityLog) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.User{}).Where("user_id = ?", id).Updates(updates)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return notFound(gorm.ErrRecordNotFound, "user", id)
		}
		if log != nil {
			return createLog(tx, log)
		}
		return nil
	})
}

func (r *UserRepositoryImpl) List(ctx context.Context, filter repositories.UserFilter) ([]models.User, error) {
	query := r.db.WithContext(ctx).Model(&models.User{})
	if filter.UserType != "" {
		query = query.Where("user_type = ?", filter.UserType)
	}
	if filter.ApprovalStatus != "" {
		query = query.Where("approval_status = ?", filter.ApprovalStatus)
	}
	if filter.OnlyActive {
		query = query.Where("is_active = ?", true)
	}

	var users []models.User
	err := query.Order("created_at ASC").Order("user_id ASC").Find(&users).Error
	return users, err
}

func (r *UserRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Count(&count).Error
	return count, err
}
