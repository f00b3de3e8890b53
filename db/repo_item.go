package db

import (
	"context"
	"errors"
	"time"

	"shelfshare/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Items

var ErrItemLoanLocked = errors.New("item availability is managed by its active loan")

func (r *Repo) CreateItem(ctx context.Context, it *models.Item) error {
	return r.DB.WithContext(ctx).Create(it).Error
}

func (r *Repo) FindItemByID(ctx context.Context, id string) (*models.Item, error) {
	var it models.Item
	if err := r.DB.WithContext(ctx).First(&it, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &it, nil
}

type UpdateItemInput struct {
	Name        string
	Description string
	Condition   string
	LoanStatus  string // "" keeps the current value
}

// UpdateItem applies the owner's edit form. Name, description and condition
// are always writable. While the item has an active loan the lifecycle engine
// is the only writer of loan_status, so a conflicting manual edit is refused.
func (r *Repo) UpdateItem(ctx context.Context, itemID string, in UpdateItemInput) (*models.Item, error) {
	var it models.Item
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&it, "id = ?", itemID).Error; err != nil {
			return err
		}
		update := map[string]any{
			"name":        in.Name,
			"description": in.Description,
			"condition":   in.Condition,
			"updated_at":  time.Now(),
		}
		if in.LoanStatus != "" && in.LoanStatus != it.LoanStatus {
			var n int64
			if err := tx.Model(&models.Loan{}).
				Where("item_id = ? AND status IN ('pending', 'approved')", itemID).
				Count(&n).Error; err != nil {
				return err
			}
			if n > 0 {
				return ErrItemLoanLocked
			}
			update["loan_status"] = in.LoanStatus
		}
		if err := tx.Model(&models.Item{}).
			Where("id = ?", itemID).
			Updates(update).Error; err != nil {
			return err
		}
		return tx.First(&it, "id = ?", itemID).Error
	})
	if err != nil {
		return nil, err
	}
	return &it, nil
}

// DeleteItem removes the item together with every loan that references it.
func (r *Repo) DeleteItem(ctx context.Context, itemID string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("item_id = ?", itemID).
			Delete(&models.Loan{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Item{ID: itemID}).Error
	})
}

// ItemRow is an item annotated with its active loan, if any.
type ItemRow struct {
	ID          string    `json:"id"`
	InventoryID string    `json:"inventoryId"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	LoanStatus  string    `json:"loanStatus"`
	Condition   string    `json:"condition"`
	CreatedAt   time.Time `json:"createdAt"`

	LoanID           *string    `json:"loanId,omitempty"`
	LoanState        *string    `json:"loanState,omitempty"`
	BorrowerID       *string    `json:"borrowerId,omitempty"`
	BorrowerUsername *string    `json:"borrowerUsername,omitempty"`
	RequestDate      *time.Time `json:"requestDate,omitempty"`
}

// ListItemsByInventory returns the inventory's items, each joined to its
// single active loan (the partial unique index guarantees at most one).
func (r *Repo) ListItemsByInventory(ctx context.Context, inventoryID string) ([]ItemRow, error) {
	var rows []ItemRow
	err := r.DB.WithContext(ctx).
		Table(models.ItemTable+" i").
		Select(`
			i.id, i.inventory_id, i.name, i.description, i.loan_status, i.condition, i.created_at,
			al.id           AS loan_id,
			al.status       AS loan_state,
			al.borrower_id,
			al.request_date,
			u.username      AS borrower_username
		`).
		Joins("LEFT JOIN "+models.LoanTable+" al ON al.item_id = i.id AND al.status IN ('pending', 'approved')").
		Joins("LEFT JOIN users u ON u.id = al.borrower_id").
		Where("i.inventory_id = ?", inventoryID).
		Order("i.created_at DESC").
		Scan(&rows).Error
	return rows, err
}
