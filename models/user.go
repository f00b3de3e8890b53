package models

import (
	"time"
)

type User struct {
	ID       string `gorm:"primaryKey;type:uuid" json:"id"`
	Username string `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Email    string `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Password string `gorm:"size:255;not null" json:"-"` // bcrypt hash

	LastSeenAt *time.Time `gorm:"index" json:"lastSeenAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Inventories []Inventory `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"-"`
	Borrowed    []Loan      `gorm:"foreignKey:BorrowerID;constraint:OnDelete:CASCADE" json:"-"`
}

func (User) TableName() string { return "users" }
