package dungeon

import (
	"notquiteparadise/internal/components"
	"notquiteparadise/internal/domain"
	"notquiteparadise/internal/ecs"
)

// CreatePlayer создаёт управляемого игроком героя.
func CreatePlayer(store *ecs.Store, pos domain.Position) domain.EntityID {
	id := Hero.Spawn(store, domain.KindPlayer, pos)
	if err := ecs.Attach(store, id, components.IsPlayer, domain.IsPlayer{}); err != nil {
		return domain.NilEntityID
	}
	return id
}

// CreateMonster создаёт NPC по шаблону.
func CreateMonster(store *ecs.Store, tpl EntityTemplate, pos domain.Position) domain.EntityID {
	return tpl.Spawn(store, domain.KindActor, pos)
}

// CreateGod создаёт бога: без позиции (всегда активен) и вне очереди ходов.
func CreateGod(store *ecs.Store, name string, known ...string) domain.EntityID {
	return store.Create(domain.KindGod,
		ecs.With(components.Identity, domain.Identity{Name: name}),
		ecs.With(components.Knowledge, domain.Knowledge{Skills: known, Cooldowns: map[string]int{}}),
		ecs.With(components.IsGod, domain.IsGod{}),
	)
}
