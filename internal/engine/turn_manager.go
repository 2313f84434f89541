package engine

import (
	"container/heap"
	"sort"

	"notquiteparadise/internal/domain"
	"notquiteparadise/pkg/logger"
)

// TurnManager manages the priority queue of entity turns.
//
// Entities are ordered by time spent, ties by insertion order. Every
// re-insertion (UpdatePriority) takes a fresh sequence number, so an
// entity that just acted goes behind others with the same time.
type TurnManager struct {
	queue   TurnQueue
	itemMap map[domain.EntityID]*TurnItem
	seq     uint64
}

func NewTurnManager() *TurnManager {
	return &TurnManager{
		queue:   make(TurnQueue, 0),
		itemMap: make(map[domain.EntityID]*TurnItem),
	}
}

func (tm *TurnManager) nextSeq() uint64 {
	tm.seq++
	return tm.seq
}

// AddEntity registers an entity in the turn system. Already queued entities are ignored.
func (tm *TurnManager) AddEntity(id domain.EntityID, timeSpent int) {
	if _, ok := tm.itemMap[id]; ok {
		return
	}

	item := &TurnItem{
		Entity:   id,
		Priority: timeSpent,
		Seq:      tm.nextSeq(),
	}
	heap.Push(&tm.queue, item)
	tm.itemMap[id] = item

	logger.Log.WithField("entity_id", id).Debug("Entity added to TurnManager")
}

// UpdatePriority re-inserts an entity with its new time (e.g. after it acted).
func (tm *TurnManager) UpdatePriority(id domain.EntityID, newTime int) bool {
	item, ok := tm.itemMap[id]
	if !ok {
		return false
	}
	tm.queue.Update(item, newTime, tm.nextSeq())
	return true
}

// PeekNext returns the entity whose turn is next, without removing them.
func (tm *TurnManager) PeekNext() *TurnItem {
	if tm.queue.Len() == 0 {
		return nil
	}
	return tm.queue[0]
}

// RemoveEntity removes an entity from the turn system (e.g. death).
func (tm *TurnManager) RemoveEntity(id domain.EntityID) bool {
	item, ok := tm.itemMap[id]
	if !ok {
		return false
	}
	heap.Remove(&tm.queue, item.Index)
	delete(tm.itemMap, id)
	return true
}

func (tm *TurnManager) Contains(id domain.EntityID) bool {
	_, ok := tm.itemMap[id]
	return ok
}

func (tm *TurnManager) Len() int {
	return tm.queue.Len()
}

// Clear empties the queue. Sequence numbers keep growing.
func (tm *TurnManager) Clear() {
	tm.queue = tm.queue[:0]
	tm.itemMap = make(map[domain.EntityID]*TurnItem)
}

// Order returns the queued entities from head to tail.
func (tm *TurnManager) Order() []domain.EntityID {
	items := make([]*TurnItem, len(tm.queue))
	copy(items, tm.queue)
	sort.Slice(items, func(i, j int) bool {
		return TurnQueue(items).Less(i, j)
	})

	out := make([]domain.EntityID, len(items))
	for i, item := range items {
		out[i] = item.Entity
	}
	return out
}

// DebugDump возвращает снимок очереди для отладки
func (tm *TurnManager) DebugDump() []map[string]any {
	result := make([]map[string]any, 0, len(tm.queue))
	for _, item := range tm.queue {
		result = append(result, map[string]any{
			"id":       item.Entity,
			"priority": item.Priority,
			"seq":      item.Seq,
			"index":    item.Index,
		})
	}
	return result
}
