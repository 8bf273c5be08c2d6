package db

import (
	"fmt"

	"github.com/RoyceAzure/lab/bookstore/internal/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// BuildDSN 由設定組出 postgres 資料來源名稱 (DSN)
func BuildDSN(cf *config.Config) string {
	return fmt.Sprintf("user=%s password=%s host=%s port=%s dbname=%s sslmode=disable",
		cf.DbUser, cf.DbPas, cf.DbHost, cf.DbPort, cf.DbName)
}

// GetDbConn 連線到資料庫
func GetDbConn(cf *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(BuildDSN(cf)), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres connection: %w", err)
	}
	return db, nil
}
