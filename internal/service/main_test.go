package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/RoyceAzure/lab/bookstore/internal/domain/model"
	"github.com/RoyceAzure/lab/bookstore/internal/infra/repository/db"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testStoreSeq atomic.Int64

// newTestStore 每次呼叫建一個全新的 in-memory sqlite store
func newTestStore(t *testing.T) db.UnifiedDB {
	t.Helper()

	dsn := fmt.Sprintf("file:service_test_%d?mode=memory&cache=shared", testStoreSeq.Add(1))
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	store := db.NewUnifiedDB(conn)
	require.NoError(t, store.InitMigrate())
	return store
}

// captureSink 收集送出的通知，驗證觸發內容用
type captureSink struct {
	mu            sync.Mutex
	notifications []model.Notification
}

func (c *captureSink) Notify(ctx context.Context, n model.Notification) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notifications = append(c.notifications, n)
	return nil
}

func (c *captureSink) all() []model.Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]model.Notification(nil), c.notifications...)
}

func (c *captureSink) byType(t model.NotificationType) []model.Notification {
	var result []model.Notification
	for _, n := range c.all() {
		if n.Type == t {
			result = append(result, n)
		}
	}
	return result
}

func (c *captureSink) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notifications = nil
}

// failingSink 一律投遞失敗，驗證通知失敗不影響業務操作
type failingSink struct{}

func (failingSink) Notify(ctx context.Context, n model.Notification) error {
	return errors.New("sink unavailable")
}
