package systems

import (
	"testing"

	"notquiteparadise/internal/components"
	"notquiteparadise/internal/domain"
	"notquiteparadise/internal/ecs"
)

func TestReduceCooldowns(t *testing.T) {
	s := ecs.NewStore()
	id := s.Create(domain.KindActor, ecs.With(components.Knowledge, domain.Knowledge{
		Skills:    []string{"a", "b"},
		Cooldowns: map[string]int{"a": 1, "b": 3},
	}))

	ReduceCooldowns(s)

	k, _ := ecs.Get(s, id, components.Knowledge)
	if _, ok := k.Cooldowns["a"]; ok {
		t.Error("Cooldown 1 must expire")
	}
	if k.Cooldowns["b"] != 2 {
		t.Errorf("Expected cooldown 2, got %d", k.Cooldowns["b"])
	}
}

func TestReduceAfflictions(t *testing.T) {
	s := ecs.NewStore()
	id := s.Create(domain.KindActor,
		ecs.With(components.CombatStats, domain.CombatStats{
			Base: map[domain.StatType]int{domain.StatBustle: 5},
			Mods: []domain.StatModifier{{Cause: "slow", Stat: domain.StatBustle, Amount: -2}},
		}),
		ecs.With(components.Afflictions, domain.Afflictions{Active: []domain.Affliction{
			{Name: "slow", Duration: 1, Stat: domain.StatBustle, Amount: -2},
			{Name: "burn", Duration: 3},
		}}),
	)

	cured := ReduceAfflictions(s)
	if len(cured) != 1 || cured[0] != id {
		t.Errorf("Expected one expiry, got %v", cured)
	}

	stats, _ := ecs.Get(s, id, components.CombatStats)
	if stats.Get(domain.StatBustle) != 5 {
		t.Errorf("Expected modifier removed, bustle = %d", stats.Get(domain.StatBustle))
	}
	aff, _ := ecs.Get(s, id, components.Afflictions)
	if len(aff.Active) != 1 || aff.Active[0].Duration != 2 {
		t.Errorf("Expected burn with 2 rounds left, got %+v", aff.Active)
	}
}

func TestReduceImmunities(t *testing.T) {
	s := ecs.NewStore()
	id := s.Create(domain.KindActor, ecs.With(components.Immunities, domain.Immunities{
		Active: map[string]int{"slow": 1, "burn": 4},
	}))
	untouched := s.Create(domain.KindActor, ecs.With(components.Immunities, domain.Immunities{
		Active: map[string]int{"burn": 3},
	}))

	lost := ReduceImmunities(s)
	if len(lost) != 1 || lost[0] != id {
		t.Errorf("Expected one entity to lose an immunity, got %v", lost)
	}

	im, _ := ecs.Get(s, id, components.Immunities)
	if im.Has("slow") {
		t.Error("Immunity with 1 round left must expire")
	}
	if im.Active["burn"] != 3 {
		t.Errorf("Expected burn immunity 3, got %d", im.Active["burn"])
	}
	other, _ := ecs.Get(s, untouched, components.Immunities)
	if other.Active["burn"] != 2 {
		t.Errorf("Expected burn immunity 2, got %d", other.Active["burn"])
	}
}

func TestReduceLifespans(t *testing.T) {
	s := ecs.NewStore()
	short := s.Create(domain.KindProp, ecs.With(components.Lifespan, domain.Lifespan{Rounds: 1}))
	long := s.Create(domain.KindProp, ecs.With(components.Lifespan, domain.Lifespan{Rounds: 2}))

	expired := ReduceLifespans(s)
	if len(expired) != 1 || expired[0] != short {
		t.Errorf("Expected only short-lived entity, got %v", expired)
	}

	ls, _ := ecs.Get(s, long, components.Lifespan)
	if ls.Rounds != 1 {
		t.Errorf("Expected 1 round left, got %d", ls.Rounds)
	}
}
