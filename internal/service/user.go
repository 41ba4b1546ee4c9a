package service

import (
	"context"
	"marketpay/internal/dto"
	"marketpay/internal/model"
	"marketpay/internal/repository"
	"time"
)

type UserService interface {
	GetBalance(ctx context.Context, userID uint) (*dto.BalanceResponse, error)
	GetPurchases(ctx context.Context, userID uint) ([]*dto.PurchaseResponse, error)
	GetNotifications(ctx context.Context, userID uint) ([]*model.Notification, error)
	IsAdmin(ctx context.Context, userID uint) (bool, error)
}

type userServiceImpl struct {
	userRepo     repository.UserRepository
	purchaseRepo repository.PurchaseRepository
	notifRepo    repository.NotificationRepository
}

func NewUserService(
	userRepo repository.UserRepository,
	purchaseRepo repository.PurchaseRepository,
	notifRepo repository.NotificationRepository,
) UserService {
	return &userServiceImpl{
		userRepo:     userRepo,
		purchaseRepo: purchaseRepo,
		notifRepo:    notifRepo,
	}
}

func (s *userServiceImpl) GetBalance(ctx context.Context, userID uint) (*dto.BalanceResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &dto.BalanceResponse{
		Balance: user.Balance,
		Display: formatAmount(user.Balance),
	}, nil
}

func (s *userServiceImpl) GetPurchases(ctx context.Context, userID uint) ([]*dto.PurchaseResponse, error) {
	purchases, err := s.purchaseRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]*dto.PurchaseResponse, len(purchases))
	for i, p := range purchases {
		out[i] = &dto.PurchaseResponse{
			ID:        p.ID,
			ProductID: p.ProductID,
			Price:     p.Price,
			CreatedAt: p.CreatedAt.Format(time.RFC3339),
		}
	}

	return out, nil
}

func (s *userServiceImpl) GetNotifications(ctx context.Context, userID uint) ([]*model.Notification, error) {
	return s.notifRepo.ListByUser(ctx, userID)
}

func (s *userServiceImpl) IsAdmin(ctx context.Context, userID uint) (bool, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return false, err
	}

	return user.IsAdmin, nil
}
