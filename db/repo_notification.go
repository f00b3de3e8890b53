package db

import (
	"context"
	"fmt"

	"shelfshare/models"

	"gorm.io/gorm"
)

// notify inserts a notification inside the caller's transaction so lifecycle
// side effects and their notifications commit together.
func notify(tx *gorm.DB, userID, message string) error {
	n := &models.Notification{UserID: userID, Message: message}
	if err := tx.Create(n).Error; err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

func (r *Repo) ListNotifications(ctx context.Context, userID string) ([]models.Notification, error) {
	var ns []models.Notification
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(100).
		Find(&ns).Error
	return ns, err
}

// MarkNotificationRead is scoped to the owner so one user cannot touch
// another's notifications.
func (r *Repo) MarkNotificationRead(ctx context.Context, userID, id string) error {
	res := r.DB.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
