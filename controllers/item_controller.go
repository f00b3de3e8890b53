package controllers

import (
	"errors"
	"net/http"

	"shelfshare/app"
	"shelfshare/authz"
	"shelfshare/db"
	"shelfshare/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ItemController struct{ *Srv }

func NewItemController(s *Srv) *ItemController { return &ItemController{Srv: s} }

// loadItemWithInventory resolves an item id to the item and its inventory,
// writing the not-found outcome itself. Ownership checks need the inventory.
func (ic *ItemController) loadItemWithInventory(c *gin.Context) (*models.Item, *models.Inventory, bool) {
	it, err := ic.Repo.FindItemByID(c.Request.Context(), c.Param("item_id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, app.H{"error": "item not found"})
		} else {
			c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		}
		return nil, nil, false
	}
	inv, err := ic.Repo.FindInventoryByID(c.Request.Context(), it.InventoryID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return nil, nil, false
	}
	return it, inv, true
}

// POST /create-item
func (ic *ItemController) CreateItem(c *gin.Context) {
	var in struct {
		Name        string `json:"name" binding:"required,max=100"`
		Description string `json:"description"`
		Condition   string `json:"condition"`
		LoanStatus  string `json:"loanStatus"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	if in.Condition == "" {
		in.Condition = models.CondFunctional
	}
	if in.LoanStatus == "" {
		in.LoanStatus = models.ItemAvailable
	}
	if !models.ValidCondition(in.Condition) || !models.ValidLoanStatus(in.LoanStatus) {
		c.JSON(http.StatusBadRequest, app.H{"error": "invalid condition or loan status"})
		return
	}

	caller := app.CurrentUser(c)
	inv, err := ic.Repo.FindInventoryByOwner(c.Request.Context(), caller.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, app.H{"error": "create an inventory first"})
			return
		}
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}

	it := &models.Item{
		ID:          uuid.NewString(),
		InventoryID: inv.ID,
		Name:        in.Name,
		Description: in.Description,
		Condition:   in.Condition,
		LoanStatus:  in.LoanStatus,
	}
	if err := ic.Repo.CreateItem(c.Request.Context(), it); err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, app.H{"item": it})
}

// POST /edit/:item_id
func (ic *ItemController) EditItem(c *gin.Context) {
	var in struct {
		Name        string `json:"name" binding:"required,max=100"`
		Description string `json:"description"`
		Condition   string `json:"condition" binding:"required"`
		LoanStatus  string `json:"loanStatus"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	if !models.ValidCondition(in.Condition) {
		c.JSON(http.StatusBadRequest, app.H{"error": "invalid condition"})
		return
	}
	if in.LoanStatus != "" && !models.ValidLoanStatus(in.LoanStatus) {
		c.JSON(http.StatusBadRequest, app.H{"error": "invalid loan status"})
		return
	}

	it, inv, ok := ic.loadItemWithInventory(c)
	if !ok {
		return
	}
	if !authz.CanMutateItem(app.CurrentUser(c), inv) {
		c.JSON(http.StatusForbidden, app.H{"error": "not your item"})
		return
	}

	updated, err := ic.Repo.UpdateItem(c.Request.Context(), it.ID, db.UpdateItemInput{
		Name:        in.Name,
		Description: in.Description,
		Condition:   in.Condition,
		LoanStatus:  in.LoanStatus,
	})
	if err != nil {
		if errors.Is(err, db.ErrItemLoanLocked) {
			c.JSON(http.StatusConflict, app.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"item": updated})
}

// POST /delete/:item_id
func (ic *ItemController) DeleteItem(c *gin.Context) {
	it, inv, ok := ic.loadItemWithInventory(c)
	if !ok {
		return
	}
	if !authz.CanMutateItem(app.CurrentUser(c), inv) {
		c.JSON(http.StatusForbidden, app.H{"error": "not your item"})
		return
	}
	if err := ic.Repo.DeleteItem(c.Request.Context(), it.ID); err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}
