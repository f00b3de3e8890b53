package controllers

import (
	"net/http"
	"testing"

	"shelfshare/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func itemSelectRows(id, inventoryID, loanStatus string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "inventory_id", "name", "loan_status", "condition"}).
		AddRow(id, inventoryID, "Drill", loanStatus, models.CondFunctional)
}

func newItemRouter(s *Srv, caller *models.User) *gin.Engine {
	r := gin.New()
	ic := NewItemController(s)
	g := r.Group("", asUser(caller))
	g.POST("/create-item", ic.CreateItem)
	g.POST("/edit/:item_id", ic.EditItem)
	g.POST("/delete/:item_id", ic.DeleteItem)
	return r
}

func TestEditItem_DeniedForNonOwner(t *testing.T) {
	s, mock := newTestSrv(t)
	stranger := &models.User{ID: "stranger-1", Email: "s@example.com"}
	r := newItemRouter(s, stranger)

	mock.ExpectQuery(`SELECT .+ FROM "items" WHERE id = \$1`).
		WillReturnRows(itemSelectRows("item-1", "inv-1", models.ItemAvailable))
	mock.ExpectQuery(`SELECT .+ FROM "inventories" WHERE id = \$1`).
		WillReturnRows(inventorySelectRows("inv-1", "owner-1", false, "", ""))

	w := doRequest(r, http.MethodPost, "/edit/item-1",
		`{"name":"Drill","condition":"under_repair"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "not your item")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEditItem_InvalidConditionRejected(t *testing.T) {
	s, mock := newTestSrv(t)
	owner := &models.User{ID: "owner-1", Email: "o@example.com"}
	r := newItemRouter(s, owner)

	// rejected before any entity load
	w := doRequest(r, http.MethodPost, "/edit/item-1",
		`{"name":"Drill","condition":"slightly_haunted"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteItem_NotFound(t *testing.T) {
	s, mock := newTestSrv(t)
	owner := &models.User{ID: "owner-1", Email: "o@example.com"}
	r := newItemRouter(s, owner)

	mock.ExpectQuery(`SELECT .+ FROM "items" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	w := doRequest(r, http.MethodPost, "/delete/item-x", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateItem_RequiresInventory(t *testing.T) {
	s, mock := newTestSrv(t)
	caller := &models.User{ID: "u-1", Email: "u@example.com"}
	r := newItemRouter(s, caller)

	mock.ExpectQuery(`SELECT .+ FROM "inventories" WHERE owner_id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	w := doRequest(r, http.MethodPost, "/create-item", `{"name":"Drill"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "create an inventory first")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateItem_DefaultsApplied(t *testing.T) {
	s, mock := newTestSrv(t)
	caller := &models.User{ID: "u-1", Email: "u@example.com"}
	r := newItemRouter(s, caller)

	mock.ExpectQuery(`SELECT .+ FROM "inventories" WHERE owner_id = \$1`).
		WillReturnRows(inventorySelectRows("inv-1", "u-1", false, "", ""))
	mock.ExpectExec(`INSERT INTO "items"`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	w := doRequest(r, http.MethodPost, "/create-item", `{"name":"Drill"}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"loanStatus":"available"`)
	assert.Contains(t, w.Body.String(), `"condition":"functional"`)
	assert.NoError(t, mock.ExpectationsWereMet())
}
