package systems

import (
	"notquiteparadise/internal/components"
	"notquiteparadise/internal/domain"
	"notquiteparadise/internal/ecs"
	"notquiteparadise/internal/event"
	"notquiteparadise/pkg/logger"

	"github.com/sirupsen/logrus"
)

// Activation решает, какие сущности симулируются: всё без позиции и всё,
// что в радиусе (по Чебышеву) от игрока.
type Activation struct {
	store  *ecs.Store
	bus    *event.Bus
	radius int
	log    *logrus.Entry
}

func NewActivation(store *ecs.Store, bus *event.Bus, radius int) *Activation {
	return &Activation{
		store:  store,
		bus:    bus,
		radius: radius,
		log:    logger.Log.WithField("component", "activation_system"),
	}
}

func (a *Activation) Radius() int { return a.radius }

// Process выставляет или снимает флаг Active. Повторный вызов при тех же
// позициях ничего не меняет.
func (a *Activation) Process(globalTime int) {
	player, ok := a.store.First(components.IsPlayer, components.Position)
	if !ok {
		a.log.Debug("No positioned player, activation pass skipped")
		return
	}
	playerPos, err := ecs.Get(a.store, player, components.Position)
	if err != nil {
		return
	}
	origin := *playerPos

	for id, row := range a.store.Query() {
		pos := ecs.Field(row, components.Position)
		if pos == nil || pos.ChebyshevTo(origin) <= a.radius {
			a.activate(id, globalTime)
		} else {
			a.deactivate(id)
		}
	}
}

func (a *Activation) activate(id domain.EntityID, globalTime int) {
	if a.store.Has(id, components.Active) {
		return
	}
	if err := ecs.Attach(a.store, id, components.Active, domain.Active{}); err != nil {
		return
	}

	// Очередь не должна отдать вернувшейся сущности все пропущенные ходы.
	if tracked, err := ecs.Get(a.store, id, components.Tracked); err == nil {
		if tracked.TimeSpent < globalTime+1 {
			tracked.TimeSpent = globalTime + 1
		}
	}

	a.log.WithField("entity_id", id).Debug("Entity activated")
	_ = a.bus.Publish(event.Activated{Entity: id})
}

func (a *Activation) deactivate(id domain.EntityID) {
	if !a.store.Has(id, components.Active) {
		return
	}
	if err := a.store.Detach(id, components.Active); err != nil {
		return
	}
	a.log.WithField("entity_id", id).Debug("Entity deactivated")
	_ = a.bus.Publish(event.Deactivated{Entity: id})
}
