package db

import (
	"context"
	"testing"

	"shelfshare/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateItem_ConditionEdit(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .+ FROM "items" WHERE id = \$1 .*FOR UPDATE`).
		WillReturnRows(itemRows("item-1", "inv-1", models.ItemAvailable))
	mock.ExpectExec(`UPDATE "items" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT .+ FROM "items" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "inventory_id", "name", "loan_status", "condition"}).
			AddRow("item-1", "inv-1", "Drill", models.ItemAvailable, models.CondUnderRepair))
	mock.ExpectCommit()

	it, err := repo.UpdateItem(context.Background(), "item-1", UpdateItemInput{
		Name:      "Drill",
		Condition: models.CondUnderRepair,
	})
	require.NoError(t, err)
	assert.Equal(t, models.CondUnderRepair, it.Condition)
	assert.Equal(t, models.ItemAvailable, it.LoanStatus, "availability untouched by a condition edit")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateItem_LoanStatusLockedWhileActiveLoan(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .+ FROM "items" WHERE id = \$1 .*FOR UPDATE`).
		WillReturnRows(itemRows("item-1", "inv-1", models.ItemOnLoan))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "loans" WHERE item_id = \$1 AND status IN`).
		WithArgs("item-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectRollback()

	_, err := repo.UpdateItem(context.Background(), "item-1", UpdateItemInput{
		Name:       "Drill",
		Condition:  models.CondFunctional,
		LoanStatus: models.ItemAvailable,
	})
	assert.ErrorIs(t, err, ErrItemLoanLocked)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateItem_LoanStatusEditableWithoutActiveLoan(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .+ FROM "items" WHERE id = \$1 .*FOR UPDATE`).
		WillReturnRows(itemRows("item-1", "inv-1", models.ItemAvailable))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "loans" WHERE item_id = \$1 AND status IN`).
		WithArgs("item-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(`UPDATE "items" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT .+ FROM "items" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "inventory_id", "name", "loan_status", "condition"}).
			AddRow("item-1", "inv-1", "Drill", models.ItemUnavailable, models.CondFunctional))
	mock.ExpectCommit()

	it, err := repo.UpdateItem(context.Background(), "item-1", UpdateItemInput{
		Name:       "Drill",
		Condition:  models.CondFunctional,
		LoanStatus: models.ItemUnavailable,
	})
	require.NoError(t, err)
	assert.Equal(t, models.ItemUnavailable, it.LoanStatus)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteItem_RemovesLoansFirst(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "loans" WHERE item_id = \$1`).
		WithArgs("item-1").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`DELETE FROM "items"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.DeleteItem(context.Background(), "item-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
