package systems

import (
	"notquiteparadise/internal/components"
	"notquiteparadise/internal/domain"
	"notquiteparadise/internal/ecs"
	"notquiteparadise/internal/world"
)

// MovementResult - результат вычисления движения
type MovementResult struct {
	From        domain.Position
	Target      domain.Position
	HasMoved    bool
	BlockedBy   domain.EntityID // Если врезались в кого-то (для атаки)
	IsWall      bool            // Если врезались в стену
	OutOfBounds bool
}

// CalculateMove вычисляет новую позицию. Не меняет состояние мира!
func CalculateMove(store *ecs.Store, gm *world.GameMap, mover domain.EntityID, dir domain.Direction) (MovementResult, error) {
	pos, err := ecs.Get(store, mover, components.Position)
	if err != nil {
		return MovementResult{}, err
	}

	target := pos.Step(dir)
	res := MovementResult{From: *pos, Target: target}

	if !gm.InBounds(target) {
		res.OutOfBounds = true
		return res, nil
	}
	if gm.BlocksMovement(target) {
		res.IsWall = true
		return res, nil
	}
	if blocker, ok := BlockerAt(store, target, mover); ok {
		res.BlockedBy = blocker
		return res, nil
	}

	res.HasMoved = true
	return res, nil
}

// IsPassable - можно ли встать на тайл (рельеф и загораживающие сущности).
func IsPassable(store *ecs.Store, gm *world.GameMap, p domain.Position, mover domain.EntityID) bool {
	if !gm.InBounds(p) || gm.BlocksMovement(p) {
		return false
	}
	_, blocked := BlockerAt(store, p, mover)
	return !blocked
}
