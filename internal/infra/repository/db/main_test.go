package db

import (
	"fmt"
	"sync/atomic"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBSeq atomic.Int64

// openTestDB 每個suite一個獨立的 in-memory sqlite，彼此不共用資料
func openTestDB(t *testing.T) *DbDao {
	t.Helper()

	dsn := fmt.Sprintf("file:repo_test_%d?mode=memory&cache=shared", testDBSeq.Add(1))
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	dao := NewDbDao(conn)
	if err := dao.InitMigrate(); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	return dao
}
