package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shelfshare/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Loan lifecycle. Every transition is a single transaction that locks the
// rows it reads and re-checks its precondition under the lock, so two
// concurrent requests cannot double-approve one item or double-book it.

var (
	ErrItemNotAvailable = errors.New("item is not available for loan")
	ErrAlreadyRequested = errors.New("you already have a loan for this item")
	ErrLoanNotPending   = errors.New("loan request is no longer pending")
	ErrLoanNotApproved  = errors.New("loan is not currently approved")
	ErrLoanStillActive  = errors.New("loan is still active and cannot be cleared")
)

// RequestLoan creates a pending loan for the borrower. The item stays
// available until the owner approves.
func (r *Repo) RequestLoan(ctx context.Context, borrowerID, itemID string) (*models.Loan, error) {
	var loan *models.Loan
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1) 锁住该物品
		var it models.Item
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&it, "id = ?", itemID).Error; err != nil {
			return err
		}
		if it.LoanStatus != models.ItemAvailable {
			return ErrItemNotAvailable
		}

		// 2) 同一借用人对同一物品只允许一条记录（含未清除的 rejected）
		var n int64
		if err := tx.Model(&models.Loan{}).
			Where("item_id = ? AND borrower_id = ?", itemID, borrowerID).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrAlreadyRequested
		}

		// 3) 别人的活动借约也算占用
		if err := tx.Model(&models.Loan{}).
			Where("item_id = ? AND status IN ('pending', 'approved')", itemID).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrItemNotAvailable
		}

		var inv models.Inventory
		if err := tx.First(&inv, "id = ?", it.InventoryID).Error; err != nil {
			return err
		}

		l := &models.Loan{
			ID:         uuid.NewString(),
			ItemID:     it.ID,
			BorrowerID: borrowerID,
			// owner snapshot at request time
			OwnerID:     inv.OwnerID,
			Status:      models.LoanPending,
			RequestDate: time.Now().UTC(),
		}
		if err := tx.Create(l).Error; err != nil {
			return err
		}
		if err := notify(tx, inv.OwnerID,
			fmt.Sprintf("New loan request for %q", it.Name)); err != nil {
			return err
		}
		loan = l
		return nil
	})
	return loan, err
}

// ApproveLoan flips the loan to approved and the item to on_loan. The
// conditional item update is the double-approval guard: if another request
// already took the item, zero rows match and the transaction rolls back.
func (r *Repo) ApproveLoan(ctx context.Context, loanID string) (*models.Loan, error) {
	var l models.Loan
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&l, "id = ?", loanID).Error; err != nil {
			return err
		}
		if l.Status != models.LoanPending {
			return ErrLoanNotPending
		}
		res := tx.Model(&models.Item{}).
			Where("id = ? AND loan_status = ?", l.ItemID, models.ItemAvailable).
			Update("loan_status", models.ItemOnLoan)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrItemNotAvailable
		}
		if err := tx.Model(&models.Loan{}).
			Where("id = ? AND status = ?", l.ID, models.LoanPending).
			Update("status", models.LoanApproved).Error; err != nil {
			return err
		}
		l.Status = models.LoanApproved
		return notify(tx, l.BorrowerID, "Your loan request was approved")
	})
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// RejectLoan marks the loan rejected. The row stays until the borrower or
// owner clears it; the item was never taken so it is left untouched.
func (r *Repo) RejectLoan(ctx context.Context, loanID string) (*models.Loan, error) {
	var l models.Loan
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&l, "id = ?", loanID).Error; err != nil {
			return err
		}
		if l.Status != models.LoanPending {
			return ErrLoanNotPending
		}
		if err := tx.Model(&models.Loan{}).
			Where("id = ?", l.ID).
			Update("status", models.LoanRejected).Error; err != nil {
			return err
		}
		l.Status = models.LoanRejected
		return notify(tx, l.BorrowerID, "Your loan request was rejected")
	})
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// CancelLoan deletes a still-pending request outright.
func (r *Repo) CancelLoan(ctx context.Context, loanID string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var l models.Loan
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&l, "id = ?", loanID).Error; err != nil {
			return err
		}
		if l.Status != models.LoanPending {
			return ErrLoanNotPending
		}
		return tx.Delete(&models.Loan{ID: l.ID}).Error
	})
}

// ReturnLoan resets the item to available and removes the loan row. actorID
// is whoever triggered the return; the other party gets the notification.
func (r *Repo) ReturnLoan(ctx context.Context, loanID, actorID string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var l models.Loan
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&l, "id = ?", loanID).Error; err != nil {
			return err
		}
		if l.Status != models.LoanApproved {
			return ErrLoanNotApproved
		}
		res := tx.Model(&models.Item{}).
			Where("id = ? AND loan_status = ?", l.ItemID, models.ItemOnLoan).
			Update("loan_status", models.ItemAvailable)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrLoanNotApproved
		}
		if err := tx.Delete(&models.Loan{ID: l.ID}).Error; err != nil {
			return err
		}
		other := l.OwnerID
		if actorID == l.OwnerID {
			other = l.BorrowerID
		}
		return notify(tx, other, "A borrowed item was returned")
	})
}

// ClearLoan removes a resolved (rejected) row once a party acknowledges it.
func (r *Repo) ClearLoan(ctx context.Context, loanID string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var l models.Loan
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&l, "id = ?", loanID).Error; err != nil {
			return err
		}
		if l.Status == models.LoanPending || l.Status == models.LoanApproved {
			return ErrLoanStillActive
		}
		return tx.Delete(&models.Loan{ID: l.ID}).Error
	})
}

func (r *Repo) FindLoanByID(ctx context.Context, id string) (*models.Loan, error) {
	var l models.Loan
	if err := r.DB.WithContext(ctx).First(&l, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &l, nil
}

// LoanRow joins a loan to the item and counterpart names for list views.
type LoanRow struct {
	ID               string    `json:"id"`
	ItemID           string    `json:"itemId"`
	ItemName         string    `json:"itemName"`
	BorrowerID       string    `json:"borrowerId"`
	BorrowerUsername string    `json:"borrowerUsername"`
	OwnerID          string    `json:"ownerId"`
	Status           string    `json:"status"`
	RequestDate      time.Time `json:"requestDate"`
}

func (r *Repo) listLoans(ctx context.Context, col, userID string) ([]LoanRow, error) {
	var rows []LoanRow
	err := r.DB.WithContext(ctx).
		Table(models.LoanTable+" l").
		Select(`
			l.id, l.item_id, l.borrower_id, l.owner_id, l.status, l.request_date,
			i.name     AS item_name,
			u.username AS borrower_username
		`).
		Joins("JOIN "+models.ItemTable+" i ON i.id = l.item_id").
		Joins("JOIN users u ON u.id = l.borrower_id").
		Where("l."+col+" = ?", userID).
		Order("l.request_date DESC").
		Scan(&rows).Error
	return rows, err
}

// ListLoansOwned lists loans against the caller's items (manage-loans view).
func (r *Repo) ListLoansOwned(ctx context.Context, ownerID string) ([]LoanRow, error) {
	return r.listLoans(ctx, "owner_id", ownerID)
}

// ListLoansBorrowed lists the caller's own requests (view-loans view).
func (r *Repo) ListLoansBorrowed(ctx context.Context, borrowerID string) ([]LoanRow, error) {
	return r.listLoans(ctx, "borrower_id", borrowerID)
}
