package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/IngenieroJosser/credito-sur-backend-sub000/internal/domain/valueobject"
)

// Client is a borrower. Clients are soft-deleted only.
type Client struct {
	ID              uuid.UUID
	Name            string
	Document        string
	Phone           string
	Address         string
	RiskLevel       valueobject.RiskLevel
	Score           int // 0..100
	Blacklisted     bool
	BlacklistReason string
	// LastRiskOrdinal is the persisted 1..5 ordinal of the last delinquency
	// grade, used to detect sub-label escalations across sweeps and restarts.
	LastRiskOrdinal int
	CreatedAt       time.Time
	UpdatedAt       time.Time
	DeletedAt       *time.Time
}

// NewClient creates a client in good standing.
func NewClient(name, document, phone, address string) *Client {
	now := time.Now().UTC()
	return &Client{
		ID:              uuid.New(),
		Name:            name,
		Document:        document,
		Phone:           phone,
		Address:         address,
		RiskLevel:       valueobject.RiskLevelGreen,
		Score:           100,
		LastRiskOrdinal: 1,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// Deleted reports whether the client was soft-deleted.
func (c *Client) Deleted() bool { return c.DeletedAt != nil }

// ApplyRiskGrade records a new delinquency grade. The score is derived from
// the ordinal so reports can sort clients without re-deriving grades.
func (c *Client) ApplyRiskGrade(level valueobject.RiskLevel, ordinal int, now time.Time) {
	c.RiskLevel = level
	c.LastRiskOrdinal = ordinal
	c.Score = 100 - (ordinal-1)*20
	c.UpdatedAt = now
}

// Blacklist flags the client and pins the risk level.
func (c *Client) Blacklist(reason string, now time.Time) {
	c.Blacklisted = true
	c.BlacklistReason = reason
	c.RiskLevel = valueobject.RiskLevelBlacklisted
	c.UpdatedAt = now
}

// Unblacklist clears the flag and resets the client to good standing.
func (c *Client) Unblacklist(now time.Time) {
	c.Blacklisted = false
	c.BlacklistReason = ""
	c.RiskLevel = valueobject.RiskLevelGreen
	c.LastRiskOrdinal = 1
	c.UpdatedAt = now
}
