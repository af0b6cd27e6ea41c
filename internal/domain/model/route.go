package model

import (
	"time"

	"github.com/google/uuid"
)

// Route is a collection round worked by one collector.
type Route struct {
	ID          uuid.UUID
	Name        string
	CollectorID uuid.UUID
	Active      bool
	CreatedAt   time.Time
}

// RouteAssignment binds a client to the route that collects from them.
// A client has at most one active assignment.
type RouteAssignment struct {
	ID        uuid.UUID
	ClientID  uuid.UUID
	RouteID   uuid.UUID
	Active    bool
	CreatedAt time.Time
}
