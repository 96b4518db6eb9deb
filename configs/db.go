package configs

import (
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"tableside/repository"
)

// OpenStore opens the on-device sqlite file backing the durable record
// store (the kiosk's localStorage) and migrates the records table.
func OpenStore(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&repository.Record{}); err != nil {
		return nil, err
	}
	return db, nil
}
