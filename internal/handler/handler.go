package handler

import (
	"context"
	"encoding/json"

	"github.com/hospitalops/hospital-api/internal/model"
	"github.com/hospitalops/hospital-api/internal/repository"
	"github.com/hospitalops/hospital-api/pkg/logger"
)

// Emitter writes domain events to the outbox after successful mutations.
// Emission failures are logged, never surfaced: the mutation already
// committed and the reconciler covers any downstream drift.
type Emitter struct {
	outbox repository.OutboxRepository
	logger *logger.Logger
}

func NewEmitter(outbox repository.OutboxRepository, logger *logger.Logger) *Emitter {
	return &Emitter{outbox: outbox, logger: logger}
}

func (e *Emitter) Emit(ctx context.Context, eventType string, payload interface{}) {
	if e.outbox == nil {
		return
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		e.logger.Error(err, "failed to marshal event payload", map[string]interface{}{
			"event_type": eventType,
		})
		return
	}

	event := &model.OutboxEvent{
		EventType: eventType,
		Payload:   raw,
	}
	if err := e.outbox.Create(ctx, event); err != nil {
		e.logger.Error(err, "failed to create outbox event", map[string]interface{}{
			"event_type": eventType,
		})
	}
}
