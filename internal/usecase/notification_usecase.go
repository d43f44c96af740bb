package usecase

import (
	"context"

	"tripmate/internal/domain/entity"
	"tripmate/internal/domain/repository"
)

type NotificationUseCase struct {
	notificationRepo repository.NotificationRepository
}

func NewNotificationUseCase(notificationRepo repository.NotificationRepository) *NotificationUseCase {
	return &NotificationUseCase{notificationRepo: notificationRepo}
}

func (uc *NotificationUseCase) List(ctx context.Context, userID string) ([]*entity.Notification, error) {
	return uc.notificationRepo.ListByUser(ctx, userID)
}

func (uc *NotificationUseCase) MarkRead(ctx context.Context, userID, id string) error {
	if _, err := uc.notificationRepo.Get(ctx, userID, id); err != nil {
		return err
	}
	return uc.notificationRepo.MarkRead(ctx, userID, id)
}
