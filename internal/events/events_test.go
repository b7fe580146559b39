package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"
)

func TestBudgetSyncedWireShape(t *testing.T) {
	at := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	body, err := NewBudgetSynced("s1", "u1", "a@example.com", at).ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(body, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if m["type"] != TypeBudgetSynced || m["snapshotId"] != "s1" || m["email"] != "a@example.com" {
		t.Fatalf("unexpected payload %s", body)
	}
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = Nop{}
	if err := p.PublishBudgetSynced(context.Background(), BudgetSynced{}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}
