package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/orgwise/orgchart-service/internal/cache"
	"github.com/orgwise/orgchart-service/internal/events"
)

// ChangeListener reacts to org change events: it drops cached read models and
// writes a structured change log line.
type ChangeListener struct {
	dispatcher events.Dispatcher
	cache      *cache.ReadCache
	logger     *zap.Logger
}

// NewChangeListener creates the listener.
func NewChangeListener(dispatcher events.Dispatcher, readCache *cache.ReadCache, logger *zap.Logger) *ChangeListener {
	return &ChangeListener{
		dispatcher: dispatcher,
		cache:      readCache,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to every org event.
func (l *ChangeListener) RegisterHandlers() {
	if l.dispatcher == nil {
		return
	}
	for _, eventType := range events.AllEventTypes() {
		l.dispatcher.Subscribe(eventType, l.handleChange)
	}
}

func (l *ChangeListener) handleChange(ctx context.Context, event events.Event) error {
	l.logger.Info("org change",
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)),
		zap.String("entity_type", event.EntityType),
		zap.String("entity_name", event.EntityName),
		zap.String("actor", event.Actor),
		zap.Any("payload", event.Payload),
	)
	if err := l.cache.Bump(ctx); err != nil {
		l.logger.Warn("cache version bump failed; serving read models uncached",
			zap.String("event_id", event.ID), zap.Error(err))
		return err
	}
	return nil
}
