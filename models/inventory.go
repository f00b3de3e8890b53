package models

import "time"

const InventoryTable = "inventories"

type Inventory struct {
	ID          string `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID     string `gorm:"type:uuid;index;not null" json:"ownerId"`
	Title       string `gorm:"size:100;not null" json:"title"`
	Description string `gorm:"type:text" json:"description,omitempty"`

	// Read-access gates. A public inventory ignores all three.
	IsPrivate          bool   `gorm:"not null;default:false" json:"isPrivate"`
	AllowedEmailDomain string `gorm:"size:100" json:"allowedEmailDomain,omitempty"`
	AccessLinkToken    string `gorm:"size:64" json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Items []Item `gorm:"foreignKey:InventoryID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Inventory) TableName() string { return InventoryTable }

// InventoryFollower links a user to an inventory they follow.
type InventoryFollower struct {
	UserID      string    `gorm:"type:uuid;primaryKey" json:"userId"`
	InventoryID string    `gorm:"type:uuid;primaryKey;index" json:"inventoryId"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (InventoryFollower) TableName() string { return "inventory_followers" }
