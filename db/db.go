package db

import (
	"fmt"
	"log"
	"os"

	"shelfshare/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func ConnectDB() *gorm.DB {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}

	if err := Migrate(DB); err != nil {
		log.Fatal("Failed to migrate models: ", err)
	}
	log.Println("Database connected")
	return DB
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Inventory{},
		&models.Item{},
		&models.Loan{},
		&models.Notification{},
		&models.InventoryFollower{},
	); err != nil {
		return err
	}

	// 同一物品最多一条活动借约（pending 或 approved）
	if err := db.Exec(fmt.Sprintf(`
	  CREATE UNIQUE INDEX IF NOT EXISTS %s_one_active_per_item
	  ON %s (item_id)
	  WHERE status IN ('pending', 'approved');
	`, models.LoanTable, models.LoanTable)).Error; err != nil {
		return err
	}

	// 查询活动借约更快
	if err := db.Exec(fmt.Sprintf(`
	  CREATE INDEX IF NOT EXISTS %s_active_borrower
	  ON %s (borrower_id, item_id)
	  WHERE status IN ('pending', 'approved');
	`, models.LoanTable, models.LoanTable)).Error; err != nil {
		return err
	}

	return nil
}
