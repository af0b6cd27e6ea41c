package notification

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/IngenieroJosser/credito-sur-backend-sub000/internal/domain/port"
)

// SlogNotifier implements port.NotificationPort by writing structured log
// records. A real deployment swaps this for the in-app notification service;
// the contract stays best-effort either way.
type SlogNotifier struct {
	logger *slog.Logger
}

// NewSlogNotifier creates the notifier.
func NewSlogNotifier(logger *slog.Logger) *SlogNotifier {
	return &SlogNotifier{logger: logger.With("component", "notifier")}
}

func (n *SlogNotifier) NotifyUser(ctx context.Context, userID uuid.UUID, notice port.Notice) error {
	n.logger.InfoContext(ctx, "user notification",
		"user", userID,
		"title", notice.Title,
		"message", notice.Message,
		"severity", string(notice.Severity),
		"entity_type", notice.Entity.Type,
		"entity_id", notice.Entity.ID,
	)
	return nil
}

func (n *SlogNotifier) NotifyRole(ctx context.Context, roles []string, notice port.Notice) error {
	n.logger.InfoContext(ctx, "role notification",
		"roles", strings.Join(roles, ","),
		"title", notice.Title,
		"message", notice.Message,
		"severity", string(notice.Severity),
		"entity_type", notice.Entity.Type,
		"entity_id", notice.Entity.ID,
	)
	return nil
}
