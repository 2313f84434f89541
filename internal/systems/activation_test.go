package systems

import (
	"testing"

	"notquiteparadise/internal/components"
	"notquiteparadise/internal/domain"
	"notquiteparadise/internal/ecs"
	"notquiteparadise/internal/event"
)

func TestActivation(t *testing.T) {
	s := ecs.NewStore()
	bus := event.NewBus(event.DefaultMaxDepth)

	var activated, deactivated []domain.EntityID
	bus.Subscribe("test", event.TopicEntity, func(ev event.Event) error {
		switch e := ev.(type) {
		case event.Activated:
			activated = append(activated, e.Entity)
		case event.Deactivated:
			deactivated = append(deactivated, e.Entity)
		}
		return nil
	}, event.TypeActivated, event.TypeDeactivated)

	player := spawnActor(s, domain.KindPlayer, domain.Position{X: 0, Y: 0}, 1)
	_ = ecs.Attach(s, player, components.IsPlayer, domain.IsPlayer{})
	monster := spawnActor(s, domain.KindActor, domain.Position{X: 5, Y: 0}, 1)
	god := s.Create(domain.KindGod, ecs.With(components.IsGod, domain.IsGod{}))

	a := NewActivation(s, bus, 4)

	t.Run("Out of radius cleared", func(t *testing.T) {
		a.Process(0)
		if s.Has(monster, components.Active) {
			t.Error("Monster at distance 5 must be inactive")
		}
		if len(deactivated) != 1 || deactivated[0] != monster {
			t.Errorf("Expected one deactivation of monster, got %v", deactivated)
		}
		if !s.Has(player, components.Active) {
			t.Error("Player must stay active")
		}
		if !s.Has(god, components.Active) {
			t.Error("Entity without position must be active")
		}
	})

	t.Run("Entering radius sets flag and time", func(t *testing.T) {
		activated = nil
		pos, _ := ecs.Get(s, player, components.Position)
		pos.X = 1

		a.Process(30)
		if !s.Has(monster, components.Active) {
			t.Fatal("Monster at distance 4 must be active")
		}
		tracked, _ := ecs.Get(s, monster, components.Tracked)
		if tracked.TimeSpent != 31 {
			t.Errorf("Expected time_spent 31, got %d", tracked.TimeSpent)
		}
		if len(activated) != 1 || activated[0] != monster {
			t.Errorf("Expected one activation of monster, got %v", activated)
		}
	})

	t.Run("Idempotent", func(t *testing.T) {
		activated, deactivated = nil, nil
		a.Process(30)
		a.Process(30)
		if len(activated) != 0 || len(deactivated) != 0 {
			t.Errorf("Expected no changes, got +%v -%v", activated, deactivated)
		}
		if !s.Has(monster, components.Active) {
			t.Error("Monster must stay active")
		}
		tracked, _ := ecs.Get(s, monster, components.Tracked)
		if tracked.TimeSpent != 31 {
			t.Errorf("Expected time_spent to stay 31, got %d", tracked.TimeSpent)
		}
	})
}
