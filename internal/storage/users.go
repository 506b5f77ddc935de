package storage

import (
	"context"

	"talk2me/backend/internal/models"
)

func (s *Service) CreateUser(ctx context.Context, user *models.User) error {
	return translateError(s.db(ctx).Create(user).Error)
}

func (s *Service) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db(ctx).Preload("LoginProvider").First(&user, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

// CountUsers повертає кількість існуючих користувачів серед ids.
func (s *Service) CountUsers(ctx context.Context, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var n int64
	err := s.db(ctx).Model(&models.User{}).Where("id IN ?", ids).Count(&n).Error
	return n, translateError(err)
}

func (s *Service) CreateLoginProvider(ctx context.Context, lp *models.LoginProvider) error {
	return translateError(s.db(ctx).Create(lp).Error)
}

func (s *Service) GetLoginProvider(ctx context.Context, userID uint) (*models.LoginProvider, error) {
	var lp models.LoginProvider
	if err := s.db(ctx).Where("user_id = ?", userID).First(&lp).Error; err != nil {
		return nil, translateError(err)
	}
	return &lp, nil
}
