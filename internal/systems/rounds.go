package systems

import (
	"notquiteparadise/internal/components"
	"notquiteparadise/internal/domain"
	"notquiteparadise/internal/ecs"
)

// ReduceCooldowns уменьшает перезарядку всех навыков на 1 (не ниже 0).
func ReduceCooldowns(store *ecs.Store) {
	for _, row := range store.Query(components.Knowledge) {
		k := ecs.Field(row, components.Knowledge)
		for skill, cd := range k.Cooldowns {
			if cd <= 1 {
				delete(k.Cooldowns, skill)
				continue
			}
			k.Cooldowns[skill] = cd - 1
		}
	}
}

// ReduceAfflictions уменьшает длительность недугов; истёкшие снимаются
// вместе с их модификаторами характеристик.
func ReduceAfflictions(store *ecs.Store) []domain.EntityID {
	var cured []domain.EntityID
	for id, row := range store.Query(components.Afflictions) {
		aff := ecs.Field(row, components.Afflictions)
		stats := ecs.Field(row, components.CombatStats)

		kept := aff.Active[:0]
		for _, a := range aff.Active {
			a.Duration--
			if a.Duration > 0 {
				kept = append(kept, a)
				continue
			}
			if stats != nil {
				stats.RemoveModifiers(a.Name)
			}
			cured = append(cured, id)
		}
		aff.Active = kept
	}
	return cured
}

// ReduceImmunities уменьшает иммунитеты на 1; истёкшие удаляются.
// Возвращает сущности, потерявшие хотя бы один иммунитет.
func ReduceImmunities(store *ecs.Store) []domain.EntityID {
	var lost []domain.EntityID
	for id, row := range store.Query(components.Immunities) {
		im := ecs.Field(row, components.Immunities)
		expired := false
		for name, rounds := range im.Active {
			if rounds <= 1 {
				delete(im.Active, name)
				expired = true
				continue
			}
			im.Active[name] = rounds - 1
		}
		if expired {
			lost = append(lost, id)
		}
	}
	return lost
}

// ReduceLifespans уменьшает срок жизни и возвращает сущности, у которых он истёк.
func ReduceLifespans(store *ecs.Store) []domain.EntityID {
	var expired []domain.EntityID
	for id, row := range store.Query(components.Lifespan) {
		if store.IsPendingDeletion(id) {
			continue
		}
		ls := ecs.Field(row, components.Lifespan)
		ls.Rounds--
		if ls.Rounds <= 0 {
			expired = append(expired, id)
		}
	}
	return expired
}
