package systems

import (
	"notquiteparadise/internal/components"
	"notquiteparadise/internal/domain"
	"notquiteparadise/internal/ecs"
)

// EntitiesAt возвращает сущности с позицией на тайле (в порядке создания).
func EntitiesAt(store *ecs.Store, p domain.Position, kinds ...ecs.ComponentKind) []domain.EntityID {
	var out []domain.EntityID
	query := append([]ecs.ComponentKind{components.Position}, kinds...)
	for id, row := range store.Query(query...) {
		if *ecs.Field(row, components.Position) == p {
			out = append(out, id)
		}
	}
	return out
}

// BlockerAt возвращает сущность, загораживающую проход на тайле, кроме exclude.
func BlockerAt(store *ecs.Store, p domain.Position, exclude domain.EntityID) (domain.EntityID, bool) {
	for _, id := range EntitiesAt(store, p, components.Physicality) {
		if id == exclude || store.IsPendingDeletion(id) {
			continue
		}
		phys, err := ecs.Get(store, id, components.Physicality)
		if err == nil && phys.BlocksMovement {
			return id, true
		}
	}
	return domain.NilEntityID, false
}

// PlayerPosition - позиция игрока, если он есть на карте.
func PlayerPosition(store *ecs.Store) (domain.EntityID, domain.Position, bool) {
	for id, row := range store.Query(components.IsPlayer, components.Position) {
		return id, *ecs.Field(row, components.Position), true
	}
	return domain.NilEntityID, domain.Position{}, false
}
