package engine

import (
	"testing"

	"notquiteparadise/internal/domain"
)

func ids(n int) []domain.EntityID {
	out := make([]domain.EntityID, n)
	for i := range out {
		out[i] = domain.PackEntityID(domain.KindActor, uint64(i+1))
	}
	return out
}

func TestTurnManager_Ordering(t *testing.T) {
	e := ids(3)

	t.Run("Lowest time first", func(t *testing.T) {
		tm := NewTurnManager()
		tm.AddEntity(e[0], 30)
		tm.AddEntity(e[1], 10)
		tm.AddEntity(e[2], 20)

		want := []domain.EntityID{e[1], e[2], e[0]}
		got := tm.Order()
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("Order() = %v, want %v", got, want)
			}
		}
		if tm.PeekNext().Entity != e[1] {
			t.Errorf("Expected head %s, got %s", e[1], tm.PeekNext().Entity)
		}
	})

	t.Run("Ties by insertion order", func(t *testing.T) {
		tm := NewTurnManager()
		for _, id := range e {
			tm.AddEntity(id, 0)
		}
		if tm.PeekNext().Entity != e[0] {
			t.Errorf("Expected first inserted at head, got %s", tm.PeekNext().Entity)
		}
	})

	t.Run("Reinsert goes behind equal times", func(t *testing.T) {
		tm := NewTurnManager()
		tm.AddEntity(e[0], 0)
		tm.AddEntity(e[1], 10)

		tm.UpdatePriority(e[0], 10)
		if tm.PeekNext().Entity != e[1] {
			t.Errorf("Expected %s ahead of freshly re-inserted %s", e[1], e[0])
		}
	})

	t.Run("Duplicate add ignored", func(t *testing.T) {
		tm := NewTurnManager()
		tm.AddEntity(e[0], 5)
		tm.AddEntity(e[0], 0)
		if tm.Len() != 1 || tm.PeekNext().Priority != 5 {
			t.Errorf("Expected single entry with time 5, got len=%d prio=%d", tm.Len(), tm.PeekNext().Priority)
		}
	})
}

func TestTurnManager_RemoveAndClear(t *testing.T) {
	e := ids(3)
	tm := NewTurnManager()
	for i, id := range e {
		tm.AddEntity(id, i*10)
	}

	if !tm.RemoveEntity(e[0]) {
		t.Fatal("Expected removal to succeed")
	}
	if tm.RemoveEntity(e[0]) {
		t.Error("Second removal must report false")
	}
	if tm.Contains(e[0]) || tm.PeekNext().Entity != e[1] {
		t.Errorf("Expected %s at head after removal", e[1])
	}
	if tm.UpdatePriority(e[0], 1) {
		t.Error("UpdatePriority of a removed entity must report false")
	}

	tm.Clear()
	if tm.Len() != 0 || tm.PeekNext() != nil {
		t.Error("Expected empty queue after Clear")
	}
	if len(tm.DebugDump()) != 0 {
		t.Error("Expected empty dump")
	}
}
