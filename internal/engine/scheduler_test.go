package engine

import (
	"errors"
	"testing"

	"notquiteparadise/internal/components"
	"notquiteparadise/internal/domain"
	"notquiteparadise/internal/ecs"
	"notquiteparadise/internal/event"
)

type schedulerFixture struct {
	store *ecs.Store
	bus   *event.Bus
	s     *Scheduler
	rec   *recorder
}

func newSchedulerFixture(roundLength int) *schedulerFixture {
	store := ecs.NewStore()
	bus := event.NewBus(event.DefaultMaxDepth)
	f := &schedulerFixture{
		store: store,
		bus:   bus,
		s:     NewScheduler(store, bus, roundLength),
	}
	f.rec = record(bus, event.TopicGame)
	return f
}

// actor - отслеживаемая активная сущность с заданным временем.
func (f *schedulerFixture) actor(timeSpent int, player bool) domain.EntityID {
	kind := domain.KindActor
	if player {
		kind = domain.KindPlayer
	}
	id := f.store.Create(kind,
		ecs.With(components.Tracked, domain.Tracked{TimeSpent: timeSpent}),
		ecs.With(components.Active, domain.Active{}),
	)
	if player {
		_ = ecs.Attach(f.store, id, components.IsPlayer, domain.IsPlayer{})
	}
	return id
}

func (f *schedulerFixture) endTurn(t *testing.T, id domain.EntityID, cost int) {
	t.Helper()
	if err := f.bus.Publish(event.EndTurn{Entity: id, TimeCost: cost}); err != nil {
		t.Fatalf("publish end_turn: %v", err)
	}
}

func TestScheduler_Handover(t *testing.T) {
	f := newSchedulerFixture(100)
	p := f.actor(0, true)
	a := f.actor(0, false)

	f.s.Start()
	if f.s.Holder() != p || f.s.State() != domain.StatePlayerTurn {
		t.Fatalf("Expected player turn for %s, got %s holder %s", p, f.s.State(), f.s.Holder())
	}

	f.endTurn(t, p, 10)

	if f.s.Holder() != a {
		t.Errorf("Expected holder %s, got %s", a, f.s.Holder())
	}
	if f.s.State() != domain.StateEnemyTurn {
		t.Errorf("Expected ENEMY_TURN, got %s", f.s.State())
	}
	order := f.s.Order()
	if len(order) != 2 || order[0] != a || order[1] != p {
		t.Errorf("Expected order [%s %s], got %v", a, p, order)
	}
	if f.s.GlobalTime() != 0 {
		t.Errorf("Expected global time 0, got %d", f.s.GlobalTime())
	}
	if f.rec.count(event.TypeTurnEnded) != 1 {
		t.Errorf("Expected one turn_ended, got %d", f.rec.count(event.TypeTurnEnded))
	}
}

func TestScheduler_GlobalTimeMonotonic(t *testing.T) {
	f := newSchedulerFixture(1000)
	f.actor(0, true)
	f.actor(0, false)
	f.actor(7, false)
	f.s.Start()

	last := f.s.GlobalTime()
	for _, cost := range []int{10, 5, 10, 3, 0, 20, 1, 15} {
		f.endTurn(t, f.s.Holder(), cost)

		now := f.s.GlobalTime()
		if now < last {
			t.Fatalf("Global time went backwards: %d -> %d", last, now)
		}
		head := f.s.Queue().PeekNext()
		if head.Entity != f.s.Holder() || head.Priority > now {
			t.Fatalf("Holder %s is not the due head (head %s at %d, now %d)", f.s.Holder(), head.Entity, head.Priority, now)
		}
		last = now
	}
}

func TestScheduler_IgnoresForeignEndTurn(t *testing.T) {
	f := newSchedulerFixture(100)
	p := f.actor(0, true)
	a := f.actor(0, false)
	f.s.Start()

	f.endTurn(t, a, 10)

	if f.s.Holder() != p {
		t.Errorf("Holder changed to %s", f.s.Holder())
	}
	if got := mustGet(t, f.store, a, components.Tracked).TimeSpent; got != 0 {
		t.Errorf("Non-holder was charged: time %d", got)
	}
	if f.rec.count(event.TypeTurnEnded) != 0 {
		t.Error("Foreign end_turn must not produce turn_ended")
	}
}

func TestScheduler_Activation(t *testing.T) {
	f := newSchedulerFixture(100)
	f.actor(0, true)
	f.s.Start()

	t.Run("Activated entity joins the queue", func(t *testing.T) {
		late := f.store.Create(domain.KindActor, ecs.With(components.Tracked, domain.Tracked{TimeSpent: 4}))
		_ = f.bus.Publish(event.Activated{Entity: late})
		if !f.s.Queue().Contains(late) {
			t.Error("Expected activated entity in the queue")
		}

		_ = f.bus.Publish(event.Deactivated{Entity: late})
		if f.s.Queue().Contains(late) {
			t.Error("Expected deactivated entity to leave the queue")
		}
	})

	t.Run("Gods never join", func(t *testing.T) {
		god := f.store.Create(domain.KindGod,
			ecs.With(components.Tracked, domain.Tracked{}),
			ecs.With(components.IsGod, domain.IsGod{}),
		)
		_ = f.bus.Publish(event.Activated{Entity: god})
		if f.s.Queue().Contains(god) {
			t.Error("God must not be queued")
		}
	})
}

func TestScheduler_HolderDeath(t *testing.T) {
	f := newSchedulerFixture(100)
	p := f.actor(0, true)
	a := f.actor(0, false)
	b := f.actor(0, false)
	f.s.Start()
	f.endTurn(t, p, 10)

	if f.s.Holder() != a {
		t.Fatalf("Expected holder %s, got %s", a, f.s.Holder())
	}

	_ = f.bus.Publish(event.Die{Entity: a})

	if f.s.Queue().Contains(a) {
		t.Error("Dead entity is still queued")
	}
	if f.s.Holder() != b {
		t.Errorf("Expected turn to pass to %s, got %s", b, f.s.Holder())
	}
	if f.s.State() != domain.StateEnemyTurn {
		t.Errorf("Expected ENEMY_TURN, got %s", f.s.State())
	}
}

func TestScheduler_PlayerDeath(t *testing.T) {
	f := newSchedulerFixture(100)
	p := f.actor(0, true)
	a := f.actor(0, false)
	f.s.Start()
	f.endTurn(t, p, 10)

	_ = f.bus.Publish(event.Die{Entity: p})

	if f.s.State() != domain.StatePlayerDead {
		t.Fatalf("Expected PLAYER_DEAD, got %s", f.s.State())
	}
	if f.s.Holder() != domain.NilEntityID {
		t.Errorf("Expected no holder, got %s", f.s.Holder())
	}

	f.endTurn(t, a, 10)
	if got := mustGet(t, f.store, a, components.Tracked).TimeSpent; got != 0 {
		t.Errorf("Turns must stop after player death, time %d", got)
	}

	_ = f.bus.Publish(event.Exit{})
	if f.s.State() != domain.StateExitGame {
		t.Errorf("Expected EXIT_GAME from PLAYER_DEAD, got %s", f.s.State())
	}
}

func TestScheduler_Rounds(t *testing.T) {
	f := newSchedulerFixture(20)
	p := f.actor(0, true)
	f.s.Start()

	f.endTurn(t, p, 50)

	if f.s.GlobalTime() != 50 {
		t.Errorf("Expected global time 50, got %d", f.s.GlobalTime())
	}
	if f.s.Round() != 2 {
		t.Errorf("Expected round 2, got %d", f.s.Round())
	}
	if got := f.rec.count(event.TypeEndRound); got != 2 {
		t.Errorf("Expected 2 end_round events, got %d", got)
	}

	f.endTurn(t, p, 10)
	if f.s.Round() != 3 {
		t.Errorf("Expected round 3 at time 60, got %d", f.s.Round())
	}
}

func TestScheduler_Targeting(t *testing.T) {
	t.Run("Enter and exit", func(t *testing.T) {
		f := newSchedulerFixture(100)
		f.actor(0, true)
		f.s.Start()

		if err := f.s.EnterTargeting("lunge"); err != nil {
			t.Fatalf("EnterTargeting: %v", err)
		}
		if f.s.State() != domain.StateTargeting || f.s.TargetingSkill() != "lunge" {
			t.Fatalf("Expected targeting lunge, got %s %q", f.s.State(), f.s.TargetingSkill())
		}

		_ = f.bus.Publish(event.ChangeGameState{State: domain.StatePlayerTurn})
		if f.s.State() != domain.StatePlayerTurn || f.s.TargetingSkill() != "" {
			t.Errorf("Expected PLAYER_TURN after exit, got %s %q", f.s.State(), f.s.TargetingSkill())
		}
	})

	t.Run("Not from enemy turn", func(t *testing.T) {
		f := newSchedulerFixture(100)
		p := f.actor(0, true)
		f.actor(0, false)
		f.s.Start()
		f.endTurn(t, p, 10)

		err := f.s.EnterTargeting("lunge")
		if !errors.Is(err, ErrInvalidState) {
			t.Errorf("Expected ErrInvalidState, got %v", err)
		}
		if f.s.State() != domain.StateEnemyTurn {
			t.Errorf("State changed to %s", f.s.State())
		}
	})

	t.Run("End turn leaves targeting", func(t *testing.T) {
		f := newSchedulerFixture(100)
		p := f.actor(0, true)
		f.actor(0, false)
		f.s.Start()

		_ = f.bus.Publish(event.ChangeGameState{State: domain.StateTargeting, SkillID: "lunge"})
		f.endTurn(t, p, 10)

		if f.s.State() != domain.StateEnemyTurn {
			t.Errorf("Expected ENEMY_TURN, got %s", f.s.State())
		}
		if f.s.TargetingSkill() != "" {
			t.Errorf("Targeting skill not cleared: %q", f.s.TargetingSkill())
		}
	})
}

func TestScheduler_EmptyQueue(t *testing.T) {
	f := newSchedulerFixture(100)
	f.s.Start()

	if f.s.Holder() != domain.NilEntityID {
		t.Errorf("Expected no holder, got %s", f.s.Holder())
	}
	if f.s.State() != domain.StateInitialising {
		t.Errorf("Expected GAME_INITIALISING, got %s", f.s.State())
	}
}
