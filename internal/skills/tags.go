package skills

import (
	"notquiteparadise/internal/components"
	"notquiteparadise/internal/domain"
	"notquiteparadise/internal/ecs"
	"notquiteparadise/internal/systems"
	"notquiteparadise/internal/world"
)

// TileHasTags проверяет, что тайл удовлетворяет всем требованиям относительно actor.
func TileHasTags(store *ecs.Store, gm *world.GameMap, actor domain.EntityID, p domain.Position, tags []TargetTag) bool {
	for _, tag := range tags {
		if !TileHasTag(store, gm, actor, p, tag) {
			return false
		}
	}
	return true
}

// TileHasTag проверяет одно требование.
func TileHasTag(store *ecs.Store, gm *world.GameMap, actor domain.EntityID, p domain.Position, tag TargetTag) bool {
	inBounds := gm.InBounds(p)

	switch tag {
	case TagAny:
		return true
	case TagOutOfBounds:
		return !inBounds
	case TagFloor:
		return inBounds && !gm.IsWall(p)
	case TagWall:
		return inBounds && gm.IsWall(p)
	case TagSelf:
		pos, err := ecs.Get(store, actor, components.Position)
		return err == nil && *pos == p
	case TagOtherEntity:
		for _, id := range systems.EntitiesAt(store, p, components.Resources) {
			if id != actor && !store.IsPendingDeletion(id) {
				return true
			}
		}
		return false
	case TagNoEntity:
		for _, id := range systems.EntitiesAt(store, p) {
			if !store.IsPendingDeletion(id) {
				return false
			}
		}
		return inBounds
	case TagOpenSpace:
		return systems.IsPassable(store, gm, p, actor)
	case TagBlockedMovement:
		return !systems.IsPassable(store, gm, p, actor)
	}
	return false
}
