// Package events announces appended budget snapshots to interested
// consumers. Delivery is best effort; the sync path never waits on it.
package events

import (
	"context"
	"encoding/json"
	"time"
)

const TypeBudgetSynced = "budget.synced"

// BudgetSynced is published once per appended snapshot. It carries only
// identifiers; consumers read the snapshot from the store.
type BudgetSynced struct {
	Type       string    `json:"type"`
	SnapshotID string    `json:"snapshotId"`
	UserID     string    `json:"userId"`
	Email      string    `json:"email"`
	Timestamp  time.Time `json:"timestamp"`
}

func NewBudgetSynced(snapshotID, userID, email string, at time.Time) BudgetSynced {
	return BudgetSynced{
		Type:       TypeBudgetSynced,
		SnapshotID: snapshotID,
		UserID:     userID,
		Email:      email,
		Timestamp:  at,
	}
}

func (e BudgetSynced) ToJSON() ([]byte, error) { return json.Marshal(e) }

type Publisher interface {
	PublishBudgetSynced(ctx context.Context, e BudgetSynced) error
	Close() error
}

// Nop drops every event. Used when no broker is configured.
type Nop struct{}

func (Nop) PublishBudgetSynced(context.Context, BudgetSynced) error { return nil }
func (Nop) Close() error                                          { return nil }
