package db

import (
	"context"
	"errors"

	"shelfshare/models"

	"gorm.io/gorm"
)

type Repo struct{ DB *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{DB: db} }

var (
	ErrUsernameTaken = errors.New("username already taken")
	ErrEmailTaken    = errors.New("email already registered")
)

// Users

// CreateUser pre-checks the unique columns so signup failures come back as
// friendly sentinel errors instead of raw constraint violations.
func (r *Repo) CreateUser(ctx context.Context, u *models.User) error {
	var n int64
	if err := r.DB.WithContext(ctx).Model(&models.User{}).
		Where("username = ?", u.Username).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return ErrUsernameTaken
	}
	if err := r.DB.WithContext(ctx).Model(&models.User{}).
		Where("email = ?", u.Email).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return ErrEmailTaken
	}
	return r.DB.WithContext(ctx).Create(u).Error
}

func (r *Repo) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := r.DB.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *Repo) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := r.DB.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *Repo) TouchUserSeen(ctx context.Context, userID string) error {
	return r.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("last_seen_at", gorm.Expr("NOW()")).Error
}

// DeleteUserByID removes the user and everything hanging off them. The
// foreign keys cascade on their own; the explicit deletes keep the behavior
// identical on databases migrated without the constraints.
func (r *Repo) DeleteUserByID(ctx context.Context, id string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var invIDs []string
		if err := tx.Model(&models.Inventory{}).
			Where("owner_id = ?", id).
			Pluck("id", &invIDs).Error; err != nil {
			return err
		}
		if len(invIDs) > 0 {
			var itemIDs []string
			if err := tx.Model(&models.Item{}).
				Where("inventory_id IN ?", invIDs).
				Pluck("id", &itemIDs).Error; err != nil {
				return err
			}
			if len(itemIDs) > 0 {
				if err := tx.Where("item_id IN ?", itemIDs).
					Delete(&models.Loan{}).Error; err != nil {
					return err
				}
			}
			if err := tx.Where("inventory_id IN ?", invIDs).
				Delete(&models.Item{}).Error; err != nil {
				return err
			}
			if err := tx.Where("inventory_id IN ?", invIDs).
				Delete(&models.InventoryFollower{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("borrower_id = ?", id).
			Delete(&models.Loan{}).Error; err != nil {
			return err
		}
		if err := tx.Where("owner_id = ?", id).
			Delete(&models.Inventory{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).
			Delete(&models.Notification{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).
			Delete(&models.InventoryFollower{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{ID: id}).Error
	})
}
