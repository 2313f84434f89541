package ai

import (
	"notquiteparadise/internal/components"
	"notquiteparadise/internal/domain"
	"notquiteparadise/internal/ecs"
	"notquiteparadise/internal/event"
	"notquiteparadise/internal/systems"
	"notquiteparadise/pkg/logger"

	"github.com/sirupsen/logrus"
)

// BasicMonster: видит игрока - идёт к нему, рядом - бьёт первым навыком.
type BasicMonster struct{}

func (BasicMonster) Decide(view View, self domain.EntityID) event.Event {
	aiLogger := logger.Log.WithFields(logrus.Fields{
		"component": "ai",
		"entity_id": self,
	})

	pos, err := ecs.Get(view.Store, self, components.Position)
	if err != nil {
		return Wait(self)
	}
	_, playerPos, ok := systems.PlayerPosition(view.Store)
	if !ok {
		aiLogger.Debug("No player on map. Action: WAIT")
		return Wait(self)
	}

	dist := pos.ChebyshevTo(playerPos)
	if !sees(view, self, *pos, playerPos) {
		aiLogger.WithField("distance", dist).Debug("Target not visible. Action: WAIT")
		return Wait(self)
	}

	if dist == 1 {
		if skillID, ok := usableAttack(view, self); ok {
			aiLogger.WithField("skill", skillID).Debug("Target in attack range. Action: USE_SKILL")
			return event.UseSkill{Entity: self, Target: playerPos, SkillID: skillID}
		}
		return Wait(self)
	}

	if dist > AggroRadius {
		return Wait(self)
	}

	dir := calculateSmartMove(view, self, *pos, playerPos)
	if dir.IsZero() {
		aiLogger.Debug("Path is blocked. Action: WAIT")
		return Wait(self)
	}
	return event.Move{Entity: self, Direction: dir}
}

// sees смотрит в личное поле зрения NPC. Пока система видимости его не
// посчитала (только что активирован), хватает дальности и прямой линии.
func sees(view View, self domain.EntityID, from, to domain.Position) bool {
	if fov, err := ecs.Get(view.Store, self, components.FieldOfView); err == nil && fov.Mask != nil {
		return fov.Mask.Get(to.X, to.Y)
	}

	sight := domain.DefaultSightRange
	if s, err := ecs.Get(view.Store, self, components.Sight); err == nil {
		sight = s.Range
	}
	if view.Map.Transparency == nil {
		return false
	}
	return from.ChebyshevTo(to) <= sight && systems.HasLineOfSight(view.Map.Transparency, from, to)
}

// usableAttack - первый известный навык, который можно применить прямо сейчас.
func usableAttack(view View, self domain.EntityID) (string, bool) {
	know, err := ecs.Get(view.Store, self, components.Knowledge)
	if err != nil || len(know.Skills) == 0 {
		return "", false
	}
	res, _ := ecs.Get(view.Store, self, components.Resources)

	for _, id := range know.Skills {
		skill, err := view.Library.Get(id)
		if err != nil || know.Cooldowns[id] > 0 {
			continue
		}
		if res != nil && !res.CanAfford(skill.ResourceType, skill.ResourceCost) {
			continue
		}
		return id, true
	}
	return "", false
}

func calculateSmartMove(view View, self domain.EntityID, from, to domain.Position) domain.Direction {
	ideal := from.DirectionTo(to)
	if systems.IsPassable(view.Store, view.Map, from.Step(ideal), self) {
		return ideal
	}

	// Скольжение вдоль препятствия по приоритетной оси
	dx, dy := to.X-from.X, to.Y-from.Y
	xFirst := abs(dx) > abs(dy)
	alongX := domain.Direction{Dx: ideal.Dx}
	alongY := domain.Direction{Dy: ideal.Dy}

	candidates := []domain.Direction{alongY, alongX}
	if xFirst {
		candidates = []domain.Direction{alongX, alongY}
	}
	for _, d := range candidates {
		if !d.IsZero() && systems.IsPassable(view.Store, view.Map, from.Step(d), self) {
			return d
		}
	}
	return domain.DirNone
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
