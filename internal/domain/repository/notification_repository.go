package repository

import (
	"context"

	"tripmate/internal/domain/entity"
)

type NotificationRepository interface {
	Create(ctx context.Context, recipientID string, n *entity.Notification) (string, error)
	ListByUser(ctx context.Context, userID string) ([]*entity.Notification, error)
	Get(ctx context.Context, userID, id string) (*entity.Notification, error)
	MarkRead(ctx context.Context, userID, id string) error
}
