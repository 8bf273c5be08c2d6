package service

import (
	"context"
	"time"

	"github.com/RoyceAzure/lab/bookstore/internal/domain/model"
	"github.com/rs/zerolog/log"
)

// NotificationSink 通知投遞的外部介面
// 核心只負責組裝訊息內容與目標，投遞成功與否不影響業務操作
type NotificationSink interface {
	Notify(ctx context.Context, notification model.Notification) error
}

// fireNotification 送出通知，失敗只記log不往上拋
func fireNotification(ctx context.Context, sink NotificationSink, n model.Notification) {
	if sink == nil {
		return
	}
	n.CreatedAt = time.Now().UTC()
	if err := sink.Notify(ctx, n); err != nil {
		log.Error().Err(err).
			Str("type", string(n.Type)).
			Int("target_user_id", n.TargetUserID).
			Msg("failed to publish notification")
	}
}

// broadcastToBackoffice 同一內容廣播給所有STAFF與ADMIN
func broadcastToBackoffice(ctx context.Context, sink NotificationSink, content string) {
	fireNotification(ctx, sink, model.Notification{
		Type:    model.NotificationForStaffs,
		Content: content,
	})
	fireNotification(ctx, sink, model.Notification{
		Type:    model.NotificationForAdmins,
		Content: content,
	})
}
