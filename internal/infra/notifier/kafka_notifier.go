package notifier

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/RoyceAzure/lab/bookstore/internal/domain/model"
	"github.com/segmentio/kafka-go"
)

/*
KafkaNotifier 把通知訊息發佈到 kafka topic

核心只負責發佈，實際投遞(站內信、email、推播)由下游consumer處理。
廣播訊息以 type 當 key，個人訊息以 user id 當 key，
同一個用戶的通知會落在同一個 partition，保序。
*/
type KafkaNotifier struct {
	writer *kafka.Writer
}

func NewKafkaNotifier(brokers []string, topic string) *KafkaNotifier {
	return &KafkaNotifier{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireOne,
			Async:        false,
		},
	}
}

func (n *KafkaNotifier) Notify(ctx context.Context, notification model.Notification) error {
	value, err := json.Marshal(notification)
	if err != nil {
		return err
	}

	key := []byte(notification.Type)
	if !notification.IsBroadcast() {
		key = []byte(strconv.Itoa(notification.TargetUserID))
	}

	return n.writer.WriteMessages(ctx, kafka.Message{
		Key:   key,
		Value: value,
		Headers: []kafka.Header{
			{
				Key:   "notification_type",
				Value: []byte(notification.Type),
			},
		},
	})
}

func (n *KafkaNotifier) Close() error {
	return n.writer.Close()
}
