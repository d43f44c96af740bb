package repository

import (
	"context"
	"fmt"
	"sort"

	"tripmate/internal/domain/entity"
	"tripmate/internal/domain/repository"
	"tripmate/pkg/errors"
)

type rtdbNotificationRepository struct {
	store repository.Store
}

func NewRTDBNotificationRepository(store repository.Store) repository.NotificationRepository {
	return &rtdbNotificationRepository{store: store}
}

func notificationsPath(userID string) string {
	return fmt.Sprintf("Users/%s/notifications", userID)
}

func notificationPath(userID, id string) string {
	return fmt.Sprintf("Users/%s/notifications/%s", userID, id)
}

func (r *rtdbNotificationRepository) Create(ctx context.Context, recipientID string, n *entity.Notification) (string, error) {
	id, err := r.store.GenerateKey(ctx, notificationsPath(recipientID))
	if err != nil {
		return "", err
	}
	n.ID = id
	if err := r.store.Set(ctx, notificationPath(recipientID, id), n); err != nil {
		return "", err
	}
	return id, nil
}

func (r *rtdbNotificationRepository) ListByUser(ctx context.Context, userID string) ([]*entity.Notification, error) {
	var raw map[string]*entity.Notification
	if err := r.store.Get(ctx, notificationsPath(userID), &raw); err != nil {
		return nil, err
	}

	notifications := make([]*entity.Notification, 0, len(raw))
	for key, n := range raw {
		if n == nil {
			continue
		}
		if n.ID == "" {
			n.ID = key
		}
		notifications = append(notifications, n)
	}

	// Newest first; generated keys break ties in insertion order.
	sort.Slice(notifications, func(i, j int) bool {
		if notifications[i].CreatedAt != notifications[j].CreatedAt {
			return notifications[i].CreatedAt > notifications[j].CreatedAt
		}
		return notifications[i].ID > notifications[j].ID
	})
	return notifications, nil
}

func (r *rtdbNotificationRepository) Get(ctx context.Context, userID, id string) (*entity.Notification, error) {
	var n *entity.Notification
	if err := r.store.Get(ctx, notificationPath(userID, id), &n); err != nil {
		return nil, err
	}
	if n == nil {
		return nil, errors.NotFound("Notification", nil)
	}
	if n.ID == "" {
		n.ID = id
	}
	return n, nil
}

func (r *rtdbNotificationRepository) MarkRead(ctx context.Context, userID, id string) error {
	return r.store.Update(ctx, notificationPath(userID, id), map[string]interface{}{
		"read": true,
	})
}
