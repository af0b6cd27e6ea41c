package notification

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"

	"github.com/IngenieroJosser/credito-sur-backend-sub000/internal/domain/port"
)

// SlogAuditor implements port.AuditPort as a structured audit log. Records
// carry before/after snapshots serialized to JSON.
type SlogAuditor struct {
	logger *slog.Logger
}

// NewSlogAuditor creates the auditor.
func NewSlogAuditor(logger *slog.Logger) *SlogAuditor {
	return &SlogAuditor{logger: logger.With("component", "audit")}
}

func (a *SlogAuditor) Record(ctx context.Context, actorID uuid.UUID, action string, entity port.EntityRef, before, after any) error {
	a.logger.InfoContext(ctx, "audit",
		"actor", actorID,
		"action", action,
		"entity_type", entity.Type,
		"entity_id", entity.ID,
		"before", marshalSnapshot(before),
		"after", marshalSnapshot(after),
	)
	return nil
}

func marshalSnapshot(v any) string {
	if v == nil {
		return ""
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "<unserializable>"
	}
	return string(b)
}
