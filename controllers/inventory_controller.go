package controllers

import (
	"errors"
	"net/http"

	"shelfshare/app"
	"shelfshare/authz"
	"shelfshare/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InventoryController struct{ *Srv }

func GetInventoryController(s *Srv) *InventoryController { return &InventoryController{Srv: s} }

type inventoryInput struct {
	Title              string `json:"title" binding:"required,max=100"`
	Description        string `json:"description"`
	IsPrivate          bool   `json:"isPrivate"`
	AllowedEmailDomain string `json:"allowedEmailDomain"`
}

// POST /create-inventory
// 一个用户实际只有一个 inventory，重复创建直接拒绝
func (ic *InventoryController) CreateInventory(c *gin.Context) {
	var in inventoryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	caller := app.CurrentUser(c)

	if _, err := ic.Repo.FindInventoryByOwner(c.Request.Context(), caller.ID); err == nil {
		c.JSON(http.StatusConflict, app.H{"error": "you already have an inventory"})
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}

	inv := &models.Inventory{
		ID:                 uuid.NewString(),
		OwnerID:            caller.ID,
		Title:              in.Title,
		Description:        in.Description,
		IsPrivate:          in.IsPrivate,
		AllowedEmailDomain: in.AllowedEmailDomain,
	}
	if in.IsPrivate {
		inv.AccessLinkToken = uuid.NewString()
	}
	if err := ic.Repo.CreateInventory(c.Request.Context(), inv); err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, app.H{"inventory": inv, "accessLinkToken": inv.AccessLinkToken})
}

// POST /manage-inventory
func (ic *InventoryController) ManageInventory(c *gin.Context) {
	var in inventoryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	caller := app.CurrentUser(c)

	inv, err := ic.Repo.FindInventoryByOwner(c.Request.Context(), caller.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, app.H{"error": "you have no inventory yet"})
			return
		}
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	if !authz.CanMutateInventory(caller, inv) {
		c.JSON(http.StatusForbidden, app.H{"error": "not your inventory"})
		return
	}

	fields := map[string]any{
		"title":                in.Title,
		"description":          in.Description,
		"is_private":           in.IsPrivate,
		"allowed_email_domain": in.AllowedEmailDomain,
	}
	if in.IsPrivate && inv.AccessLinkToken == "" {
		fields["access_link_token"] = uuid.NewString()
	}
	if err := ic.Repo.UpdateInventory(c.Request.Context(), inv, fields); err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"inventory": inv})
}

// GET /my-inventory
func (ic *InventoryController) MyInventory(c *gin.Context) {
	caller := app.CurrentUser(c)
	inv, err := ic.Repo.FindInventoryByOwner(c.Request.Context(), caller.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, app.H{"error": "you have no inventory yet"})
			return
		}
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	items, err := ic.Repo.ListItemsByInventory(c.Request.Context(), inv.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"inventory": inv, "items": items})
}

// GET /all-inventories
// 私有库不出现在别人的列表里
func (ic *InventoryController) AllInventories(c *gin.Context) {
	invs, err := ic.Repo.ListPublicInventories(c.Request.Context(), app.CurrentUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"inventories": invs})
}

// GET /view-inventory/:id?token=
func (ic *InventoryController) ViewInventory(c *gin.Context) {
	inv, err := ic.Repo.FindInventoryByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, app.H{"error": "inventory not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	if !authz.CanViewInventory(app.CurrentUser(c), inv, c.Query("token")) {
		c.JSON(http.StatusForbidden, app.H{"error": "this inventory is private"})
		return
	}
	items, err := ic.Repo.ListItemsByInventory(c.Request.Context(), inv.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"inventory": inv, "items": items})
}

// POST /follow-inventory/:id
func (ic *InventoryController) Follow(c *gin.Context) {
	inv, err := ic.Repo.FindInventoryByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, app.H{"error": "inventory not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	caller := app.CurrentUser(c)
	if !authz.CanViewInventory(caller, inv, c.Query("token")) {
		c.JSON(http.StatusForbidden, app.H{"error": "this inventory is private"})
		return
	}
	if err := ic.Repo.FollowInventory(c.Request.Context(), caller.ID, inv.ID); err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}

// POST /unfollow-inventory/:id
func (ic *InventoryController) Unfollow(c *gin.Context) {
	if err := ic.Repo.UnfollowInventory(c.Request.Context(), app.CurrentUserID(c), c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}

// GET /followed-inventories
func (ic *InventoryController) Followed(c *gin.Context) {
	invs, err := ic.Repo.ListFollowedInventories(c.Request.Context(), app.CurrentUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"inventories": invs})
}
