package port

import (
	"context"

	"github.com/google/uuid"
)

// Severity grades a notification.
type Severity string

const (
	SeverityInfo     Severity = "INFO"
	SeverityWarning  Severity = "WARNING"
	SeverityCritical Severity = "CRITICAL"
)

// EntityRef points a notification or audit record at a domain entity.
type EntityRef struct {
	Type string
	ID   uuid.UUID
}

// Notice is the content of an internal alert.
type Notice struct {
	Title    string
	Message  string
	Severity Severity
	Entity   EntityRef
	Metadata map[string]string
}

// NotificationPort delivers internal alerts. Best-effort: the engine logs
// failures and never fails a financial operation over them.
type NotificationPort interface {
	NotifyUser(ctx context.Context, userID uuid.UUID, n Notice) error
	NotifyRole(ctx context.Context, roles []string, n Notice) error
}

// PushTarget addresses a push notification at a user or a set of roles.
type PushTarget struct {
	UserID *uuid.UUID
	Roles  []string
}

// PushPort delivers push notifications. Same best-effort contract as
// NotificationPort.
type PushPort interface {
	SendPush(ctx context.Context, title, body string, target PushTarget, data map[string]string) error
}

// AuditPort records who changed what. Called after a successful commit;
// failures never roll the commit back.
type AuditPort interface {
	Record(ctx context.Context, actorID uuid.UUID, action string, entity EntityRef, before, after any) error
}

// BroadcastPort fans a signal out to live dashboards. Fire-and-forget.
type BroadcastPort interface {
	Signal(ctx context.Context, topic string, payload any) error
}
