package service

import (
	"context"
	"encoding/json"

	"partyorder/menu-svc/internal/domain"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

// Consumer drops cached menu snapshots when a stale-menu message arrives, so
// every replica serves the snapshot of the latest import.
type Consumer struct {
	Reader MessageReader
	Cache  MenuCache
	Logger *zap.Logger
}

func NewConsumer(reader MessageReader, cache MenuCache, logger *zap.Logger) *Consumer {
	return &Consumer{
		Reader: reader,
		Cache:  cache,
		Logger: logger,
	}
}

// Start reads until ctx is cancelled.
func (c *Consumer) Start(ctx context.Context) {
	c.Logger.Info("starting menu consumer")
	for {
		message, err := c.Reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				c.Logger.Info("menu consumer stopped")
				return
			}
			c.Logger.Warn("error reading message", zap.Error(err))
			continue
		}

		var msg domain.MenuMessage
		if err := json.Unmarshal(message.Value, &msg); err != nil {
			c.Logger.Warn("error unmarshaling message", zap.Error(err))
			continue
		}
		c.ProcessMenuStale(ctx, msg)
	}
}

func (c *Consumer) ProcessMenuStale(ctx context.Context, msg domain.MenuMessage) {
	if msg.Type != domain.MenuStaleMessage || msg.EventID == "" {
		return
	}
	if err := c.Cache.Invalidate(ctx, msg.EventID); err != nil {
		c.Logger.Warn("error invalidating menu cache",
			zap.String("event_id", msg.EventID),
			zap.Error(err),
		)
		return
	}
	c.Logger.Debug("menu cache invalidated",
		zap.String("event_id", msg.EventID),
		zap.String("reason", msg.Reason),
	)
}
