package controllers

import (
	"errors"
	"net/http"

	"shelfshare/app"
	"shelfshare/authz"
	"shelfshare/db"
	"shelfshare/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type LoanController struct{ *Srv }

func NewLoanController(s *Srv) *LoanController { return &LoanController{Srv: s} }

// loadLoan resolves the loan id, writing the not-found outcome itself.
func (lc *LoanController) loadLoan(c *gin.Context) (*models.Loan, bool) {
	l, err := lc.Repo.FindLoanByID(c.Request.Context(), c.Param("loan_id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, app.H{"error": "loan not found"})
		} else {
			c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		}
		return nil, false
	}
	return l, true
}

// lifecycleError maps the engine's guarded preconditions to user-facing
// outcomes; anything else is a store failure.
func lifecycleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, app.H{"error": "not found"})
	case errors.Is(err, db.ErrItemNotAvailable),
		errors.Is(err, db.ErrAlreadyRequested),
		errors.Is(err, db.ErrLoanNotPending),
		errors.Is(err, db.ErrLoanNotApproved),
		errors.Is(err, db.ErrLoanStillActive):
		c.JSON(http.StatusConflict, app.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
	}
}

// POST /loan-request/:item_id
func (lc *LoanController) Request(c *gin.Context) {
	itemID := c.Param("item_id")
	caller := app.CurrentUser(c)

	it, err := lc.Repo.FindItemByID(c.Request.Context(), itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, app.H{"error": "item not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	inv, err := lc.Repo.FindInventoryByID(c.Request.Context(), it.InventoryID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	if inv.OwnerID == caller.ID {
		c.JSON(http.StatusBadRequest, app.H{"error": "you cannot borrow your own item"})
		return
	}

	loan, err := lc.Repo.RequestLoan(c.Request.Context(), caller.ID, itemID)
	if err != nil {
		lifecycleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, app.H{"loan": loan, "message": "loan requested"})
}

// POST /approve-loan-request/:loan_id
func (lc *LoanController) Approve(c *gin.Context) {
	l, ok := lc.loadLoan(c)
	if !ok {
		return
	}
	if !authz.CanDecideLoan(app.CurrentUser(c), l) {
		c.JSON(http.StatusForbidden, app.H{"error": "only the item owner can approve"})
		return
	}
	loan, err := lc.Repo.ApproveLoan(c.Request.Context(), l.ID)
	if err != nil {
		lifecycleError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"loan": loan, "message": "loan approved"})
}

// POST /reject-loan-request/:loan_id
func (lc *LoanController) Reject(c *gin.Context) {
	l, ok := lc.loadLoan(c)
	if !ok {
		return
	}
	if !authz.CanDecideLoan(app.CurrentUser(c), l) {
		c.JSON(http.StatusForbidden, app.H{"error": "only the item owner can reject"})
		return
	}
	loan, err := lc.Repo.RejectLoan(c.Request.Context(), l.ID)
	if err != nil {
		lifecycleError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"loan": loan, "message": "loan rejected"})
}

// POST /cancel-loan-request/:loan_id
func (lc *LoanController) Cancel(c *gin.Context) {
	l, ok := lc.loadLoan(c)
	if !ok {
		return
	}
	if !authz.CanCloseLoan(app.CurrentUser(c), l) {
		c.JSON(http.StatusForbidden, app.H{"error": "not your loan"})
		return
	}
	if err := lc.Repo.CancelLoan(c.Request.Context(), l.ID); err != nil {
		lifecycleError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true, "message": "loan request cancelled"})
}

// POST /return-loan-request/:loan_id
func (lc *LoanController) Return(c *gin.Context) {
	l, ok := lc.loadLoan(c)
	if !ok {
		return
	}
	caller := app.CurrentUser(c)
	if !authz.CanCloseLoan(caller, l) {
		c.JSON(http.StatusForbidden, app.H{"error": "not your loan"})
		return
	}
	if err := lc.Repo.ReturnLoan(c.Request.Context(), l.ID, caller.ID); err != nil {
		lifecycleError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true, "message": "item returned"})
}

// POST /clear-loan-request/:loan_id
func (lc *LoanController) Clear(c *gin.Context) {
	l, ok := lc.loadLoan(c)
	if !ok {
		return
	}
	if !authz.CanCloseLoan(app.CurrentUser(c), l) {
		c.JSON(http.StatusForbidden, app.H{"error": "not your loan"})
		return
	}
	if err := lc.Repo.ClearLoan(c.Request.Context(), l.ID); err != nil {
		lifecycleError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true, "message": "loan cleared"})
}

// GET /manage-loans — loans against the caller's items
func (lc *LoanController) ManageLoans(c *gin.Context) {
	rows, err := lc.Repo.ListLoansOwned(c.Request.Context(), app.CurrentUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"loans": rows})
}

// GET /view-loans — the caller's own requests
func (lc *LoanController) ViewLoans(c *gin.Context) {
	rows, err := lc.Repo.ListLoansBorrowed(c.Request.Context(), app.CurrentUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"loans": rows})
}
