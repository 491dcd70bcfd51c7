package repo

import (
	"context"
	"strconv"
	"time"

	"github.com/richardliu001/point-service/internal/model"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MessageWriter is the subset of *kafka.Writer used by the relay.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// OutboxRelay forwards unprocessed outbox rows to kafka.
type OutboxRelay struct {
	db     *gorm.DB
	writer MessageWriter
	log    *zap.SugaredLogger
}

// NewOutboxRelay constructs the relay.
func NewOutboxRelay(db *gorm.DB, w MessageWriter, logger *zap.SugaredLogger) *OutboxRelay {
	return &OutboxRelay{db: db, writer: w, log: logger}
}

// PollOutbox pulls unprocessed events, oldest first.
func (r *OutboxRelay) PollOutbox(ctx context.Context, limit int) ([]model.OutboxEvent, error) {
	var evts []model.OutboxEvent
	err := r.db.WithContext(ctx).Where("processed = ?", false).Order("id").Limit(limit).Find(&evts).Error
	return evts, err
}

// MarkOutboxProcessed sets processed flag.
func (r *OutboxRelay) MarkOutboxProcessed(ctx context.Context, id uint64) error {
	now := time.Now()
	return r.db.WithContext(ctx).Model(&model.OutboxEvent{}).Where("id = ?", id).
		Updates(map[string]interface{}{"processed": true, "processed_at": &now}).Error
}

// PublishEvent sends to Kafka keyed by user id, so one user's events stay ordered.
func (r *OutboxRelay) PublishEvent(ctx context.Context, evt model.OutboxEvent) error {
	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(evt.AggregateID, 10)),
		Value: []byte(evt.Payload),
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(evt.EventType)},
			{Key: "outbox_id", Value: []byte(strconv.FormatUint(evt.ID, 10))},
		},
		Time: time.Now(),
	}
	return r.writer.WriteMessages(ctx, msg)
}

// RunOnce relays up to limit events and reports how many were sent.
// It stops at the first publish failure so later events are not sent ahead of it.
func (r *OutboxRelay) RunOnce(ctx context.Context, limit int) (int, error) {
	evts, err := r.PollOutbox(ctx, limit)
	if err != nil {
		return 0, err
	}
	sent := 0
	for _, evt := range evts {
		if err := r.PublishEvent(ctx, evt); err != nil {
			r.log.Errorf("publish id=%d: %v", evt.ID, err)
			return sent, err
		}
		if err := r.MarkOutboxProcessed(ctx, evt.ID); err != nil {
			r.log.Errorf("mark processed id=%d: %v", evt.ID, err)
			return sent, err
		}
		sent++
	}
	return sent, nil
}
