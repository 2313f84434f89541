// Package ai - политики поведения NPC. Политика только решает, какое намерение
// опубликовать; состояние мира она не меняет.
package ai

import (
	"notquiteparadise/internal/domain"
	"notquiteparadise/internal/ecs"
	"notquiteparadise/internal/event"
	"notquiteparadise/internal/skills"
	"notquiteparadise/internal/world"
)

// Имена политик (значение Behaviour.Policy).
const (
	PolicySkipTurn     = "skip_turn"
	PolicyBasicMonster = "basic_monster"
)

// AggroRadius - дальше этого NPC игрока не преследует.
const AggroRadius = 10

// View - то, что политика может читать.
type View struct {
	Store   *ecs.Store
	Map     *world.GameMap
	Library *skills.Library
}

// Policy выбирает следующее намерение сущности.
type Policy interface {
	Decide(view View, self domain.EntityID) event.Event
}

var registry = map[string]Policy{
	PolicySkipTurn:     SkipTurn{},
	PolicyBasicMonster: BasicMonster{},
}

// Lookup возвращает политику по имени.
func Lookup(name string) (Policy, bool) {
	p, ok := registry[name]
	return p, ok
}

// Wait - намерение "пропустить ход".
func Wait(self domain.EntityID) event.Event {
	return event.EndTurn{Entity: self, TimeCost: domain.TimeCostWait}
}

// SkipTurn всегда ждёт.
type SkipTurn struct{}

func (SkipTurn) Decide(_ View, self domain.EntityID) event.Event {
	return Wait(self)
}
