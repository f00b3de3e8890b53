// models/item_loan.go
package models

import "time"

const ItemTable = "items"
const LoanTable = "loans"

// Item availability. on_loan is derived state: only the loan lifecycle
// flips it while a loan is active.
const (
	ItemAvailable   = "available"
	ItemOnLoan      = "on_loan"
	ItemUnavailable = "unavailable"
)

// Physical condition, owner-editable at any time.
const (
	CondFunctional       = "functional"
	CondMinorRepair      = "minor_repair"
	CondUnderRepair      = "under_repair"
	CondOutOfService     = "out_of_service"
	CondMissingParts     = "missing_parts"
	CondInspectionNeeded = "inspection_needed"
)

const (
	LoanPending  = "pending"
	LoanApproved = "approved"
	LoanRejected = "rejected"
	LoanReturned = "returned"
)

type Item struct {
	ID          string `gorm:"type:uuid;primaryKey" json:"id"`
	InventoryID string `gorm:"type:uuid;index;not null" json:"inventoryId"`
	Name        string `gorm:"size:100;not null" json:"name"`
	Description string `gorm:"type:text" json:"description,omitempty"`
	LoanStatus  string `gorm:"size:20;not null;default:'available'" json:"loanStatus"`
	Condition   string `gorm:"size:30;not null;default:'functional'" json:"condition"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Loans []Loan `gorm:"foreignKey:ItemID;constraint:OnDelete:CASCADE" json:"-"`
}

type Loan struct {
	ID         string `gorm:"type:uuid;primaryKey" json:"id"`
	ItemID     string `gorm:"type:uuid;index;not null" json:"itemId"`
	BorrowerID string `gorm:"type:uuid;index;not null" json:"borrowerId"`
	// Inventory owner at request time, copied down for fast filtering.
	OwnerID string `gorm:"type:uuid;index;not null" json:"ownerId"`
	Status  string `gorm:"size:20;not null;default:'pending'" json:"status"`

	RequestDate time.Time  `gorm:"index;not null" json:"requestDate"`
	ReturnDate  *time.Time `json:"returnDate,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Item) TableName() string { return ItemTable }
func (Loan) TableName() string { return LoanTable }

// ValidCondition reports whether s is one of the condition enum values.
func ValidCondition(s string) bool {
	switch s {
	case CondFunctional, CondMinorRepair, CondUnderRepair,
		CondOutOfService, CondMissingParts, CondInspectionNeeded:
		return true
	}
	return false
}

// ValidLoanStatus reports whether s is one of the item availability values.
func ValidLoanStatus(s string) bool {
	switch s {
	case ItemAvailable, ItemOnLoan, ItemUnavailable:
		return true
	}
	return false
}

// Active reports whether the loan still blocks the item
// (pending request or approved and not yet returned).
func (l *Loan) Active() bool {
	return l.Status == LoanPending || l.Status == LoanApproved
}
