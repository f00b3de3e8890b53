package db

import (
	"context"
	"errors"

	"shelfshare/models"

	"gorm.io/gorm"
)

// Inventories

func (r *Repo) CreateInventory(ctx context.Context, inv *models.Inventory) error {
	return r.DB.WithContext(ctx).Create(inv).Error
}

func (r *Repo) FindInventoryByID(ctx context.Context, id string) (*models.Inventory, error) {
	var inv models.Inventory
	if err := r.DB.WithContext(ctx).First(&inv, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &inv, nil
}

// FindInventoryByOwner returns the owner's first inventory. The schema allows
// several but the application only ever creates and uses one.
func (r *Repo) FindInventoryByOwner(ctx context.Context, ownerID string) (*models.Inventory, error) {
	var inv models.Inventory
	err := r.DB.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at ASC").
		First(&inv).Error
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *Repo) UpdateInventory(ctx context.Context, inv *models.Inventory, fields map[string]any) error {
	if err := r.DB.WithContext(ctx).Model(inv).Updates(fields).Error; err != nil {
		return err
	}
	// map updates bypass the struct, read the row back
	return r.DB.WithContext(ctx).First(inv, "id = ?", inv.ID).Error
}

// ListPublicInventories lists every inventory that is not private, newest first.
// The caller's own private inventory still shows up for them.
func (r *Repo) ListPublicInventories(ctx context.Context, callerID string) ([]models.Inventory, error) {
	var invs []models.Inventory
	err := r.DB.WithContext(ctx).
		Where("is_private = FALSE OR owner_id = ?", callerID).
		Order("created_at DESC").
		Find(&invs).Error
	return invs, err
}

// Followers

func (r *Repo) FollowInventory(ctx context.Context, userID, inventoryID string) error {
	f := models.InventoryFollower{UserID: userID, InventoryID: inventoryID}
	err := r.DB.WithContext(ctx).Create(&f).Error
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil // 已关注，幂等
	}
	return err
}

func (r *Repo) UnfollowInventory(ctx context.Context, userID, inventoryID string) error {
	return r.DB.WithContext(ctx).
		Where("user_id = ? AND inventory_id = ?", userID, inventoryID).
		Delete(&models.InventoryFollower{}).Error
}

func (r *Repo) ListFollowedInventories(ctx context.Context, userID string) ([]models.Inventory, error) {
	var invs []models.Inventory
	err := r.DB.WithContext(ctx).
		Table(models.InventoryTable+" i").
		Select("i.*").
		Joins("JOIN inventory_followers f ON f.inventory_id = i.id").
		Where("f.user_id = ?", userID).
		Order("i.created_at DESC").
		Scan(&invs).Error
	return invs, err
}
