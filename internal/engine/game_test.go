package engine

import (
	"context"
	"path/filepath"
	"testing"

	"notquiteparadise/internal/components"
	"notquiteparadise/internal/domain"
	"notquiteparadise/internal/ecs"
	"notquiteparadise/internal/event"
	"notquiteparadise/internal/infrastructure/storage"
	"notquiteparadise/internal/skills"
	"notquiteparadise/internal/world"
	"notquiteparadise/pkg/dungeon"
)

var east = domain.Direction{Dx: 1, Dy: 0}

func TestGame_MoveAndEnemyTurn(t *testing.T) {
	g := newTestGame(t, testConfig(), 10, 10)
	p := dungeon.CreatePlayer(g.Store, domain.Position{X: 1, Y: 1})
	statue := spawnStatue(g, domain.Position{X: 5, Y: 5})
	g.Start()

	if g.Scheduler.State() != domain.StatePlayerTurn || g.Scheduler.Holder() != p {
		t.Fatalf("Expected player turn, got %s holder %s", g.Scheduler.State(), g.Scheduler.Holder())
	}

	if err := g.Submit(event.Move{Entity: p, Direction: east}); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if pos := mustGet(t, g.Store, p, components.Position); *pos != (domain.Position{X: 2, Y: 1}) {
		t.Errorf("Expected player at (2,1), got %v", *pos)
	}
	// Старт отдаёт всем время 1, шаг и ожидание статуи стоят по 10.
	if timeOf(t, g, p) != 11 || timeOf(t, g, statue) != 11 {
		t.Errorf("Expected both at 11, got player %d statue %d", timeOf(t, g, p), timeOf(t, g, statue))
	}
	if g.Scheduler.GlobalTime() != 11 {
		t.Errorf("Expected global time 11, got %d", g.Scheduler.GlobalTime())
	}
	if g.Scheduler.State() != domain.StatePlayerTurn || g.Scheduler.Holder() != p {
		t.Errorf("Expected the turn back at the player, got %s holder %s", g.Scheduler.State(), g.Scheduler.Holder())
	}
}

func TestGame_MoveIntoWall(t *testing.T) {
	g := newTestGame(t, testConfig(), 10, 10)
	_ = g.Map.SetTerrain(domain.Position{X: 2, Y: 1}, world.TerrainWall)
	p := dungeon.CreatePlayer(g.Store, domain.Position{X: 1, Y: 1})
	g.Start()
	before := g.Scheduler.GlobalTime()

	_ = g.Submit(event.Move{Entity: p, Direction: east})

	if !hasLog(g, domain.MsgBlocked) {
		t.Errorf("Expected %q in logs, got %v", domain.MsgBlocked, g.Logs)
	}
	if pos := mustGet(t, g.Store, p, components.Position); *pos != (domain.Position{X: 1, Y: 1}) {
		t.Errorf("Player moved into a wall: %v", *pos)
	}
	if g.Scheduler.GlobalTime() != before || g.Scheduler.Holder() != p {
		t.Error("Bumping a wall must not end the turn")
	}
}

func TestGame_BumpAttack(t *testing.T) {
	g := newTestGame(t, testConfig(), 10, 10)
	rec := record(g.Bus, event.TopicEntity)
	p := dungeon.CreatePlayer(g.Store, domain.Position{X: 1, Y: 1})
	statue := spawnStatue(g, domain.Position{X: 2, Y: 1})
	g.Start()

	_ = g.Submit(event.Move{Entity: p, Direction: east})

	if rec.count(event.TypeDamaged) != 1 {
		t.Fatalf("Expected one damaged event, got %d", rec.count(event.TypeDamaged))
	}
	if hp := mustGet(t, g.Store, statue, components.Resources).Health; hp >= dungeon.Statue.Health {
		t.Errorf("Statue took no damage, hp %d", hp)
	}
	if pos := mustGet(t, g.Store, p, components.Position); *pos != (domain.Position{X: 1, Y: 1}) {
		t.Errorf("Attacker must stay in place, got %v", *pos)
	}
	res := mustGet(t, g.Store, p, components.Resources)
	if res.Stamina != dungeon.Hero.Stamina-5 {
		t.Errorf("Expected stamina %d, got %d", dungeon.Hero.Stamina-5, res.Stamina)
	}
}

func TestGame_SkillRuleViolations(t *testing.T) {
	t.Run("Cannot afford", func(t *testing.T) {
		g := newTestGame(t, testConfig(), 10, 10)
		p := dungeon.CreatePlayer(g.Store, domain.Position{X: 1, Y: 1})
		statue := spawnStatue(g, domain.Position{X: 2, Y: 1})
		g.Start()
		mustGet(t, g.Store, p, components.Resources).Stamina = 0
		turns := g.Scheduler.Turns()

		_ = g.Submit(event.UseSkill{Entity: p, Target: domain.Position{X: 2, Y: 1}, SkillID: skills.BasicAttack})

		if !hasLog(g, domain.MsgCannotAfford) {
			t.Errorf("Expected %q in logs", domain.MsgCannotAfford)
		}
		if g.Scheduler.Turns() != turns || g.Scheduler.Holder() != p {
			t.Error("Failed skill must not end the turn")
		}
		if hp := mustGet(t, g.Store, statue, components.Resources).Health; hp != dungeon.Statue.Health {
			t.Errorf("Statue damaged: %d", hp)
		}
	})

	t.Run("Empty target tile", func(t *testing.T) {
		g := newTestGame(t, testConfig(), 10, 10)
		rec := record(g.Bus, event.TopicEntity)
		p := dungeon.CreatePlayer(g.Store, domain.Position{X: 1, Y: 1})
		g.Start()

		_ = g.Submit(event.UseSkill{Entity: p, Target: domain.Position{X: 2, Y: 1}, SkillID: skills.BasicAttack})

		if rec.count(event.TypeDamaged) != 0 {
			t.Error("Attack on an empty tile must not damage anything")
		}
		if mustGet(t, g.Store, p, components.Resources).Stamina != dungeon.Hero.Stamina {
			t.Error("Stamina spent on an invalid target")
		}
		if g.Scheduler.Holder() != p {
			t.Error("Turn passed after an invalid target")
		}
	})

	t.Run("Not your turn", func(t *testing.T) {
		g := newTestGame(t, testConfig(), 10, 10)
		dungeon.CreatePlayer(g.Store, domain.Position{X: 1, Y: 1})
		statue := spawnStatue(g, domain.Position{X: 3, Y: 3})
		g.Start()

		_ = g.Submit(event.Move{Entity: statue, Direction: east})

		if pos := mustGet(t, g.Store, statue, components.Position); *pos != (domain.Position{X: 3, Y: 3}) {
			t.Errorf("Statue moved outside its turn: %v", *pos)
		}
	})
}

func TestGame_Targeting(t *testing.T) {
	g := newTestGame(t, testConfig(), 10, 10)
	p := dungeon.CreatePlayer(g.Store, domain.Position{X: 1, Y: 1})
	g.Start()

	_ = g.Submit(event.WantToUseSkill{Entity: p, Slot: 1})

	if g.Scheduler.State() != domain.StateTargeting {
		t.Fatalf("Expected TARGETING_MODE, got %s", g.Scheduler.State())
	}
	if g.Scheduler.TargetingSkill() != skills.Lunge {
		t.Errorf("Expected %s selected, got %q", skills.Lunge, g.Scheduler.TargetingSkill())
	}

	_ = g.Submit(event.ChangeGameState{State: domain.StatePlayerTurn})
	if g.Scheduler.State() != domain.StatePlayerTurn {
		t.Errorf("Expected PLAYER_TURN after cancel, got %s", g.Scheduler.State())
	}

	_ = g.Submit(event.WantToUseSkill{Entity: p, Slot: 99})
	if g.Scheduler.State() != domain.StatePlayerTurn || !hasLog(g, domain.MsgUnknownSkill) {
		t.Errorf("Expected unknown slot to be reported, state %s", g.Scheduler.State())
	}
}

func TestGame_GodActsOutsideQueue(t *testing.T) {
	g := newTestGame(t, testConfig(), 10, 10)
	dungeon.CreatePlayer(g.Store, domain.Position{X: 1, Y: 1})
	god := dungeon.CreateGod(g.Store, dungeon.Architect.Name, skills.RaiseWall)
	g.Start()

	if g.Scheduler.Queue().Contains(god) {
		t.Fatal("God must not be queued")
	}
	turns := g.Scheduler.Turns()
	target := domain.Position{X: 6, Y: 6}

	_ = g.Submit(event.UseSkill{Entity: god, Target: target, SkillID: skills.RaiseWall})

	if !g.Map.IsWall(target) {
		t.Error("Expected a wall at the target")
	}
	if g.Scheduler.Turns() != turns {
		t.Errorf("God action consumed a turn: %d -> %d", turns, g.Scheduler.Turns())
	}
	if g.Scheduler.State() != domain.StatePlayerTurn {
		t.Errorf("Expected PLAYER_TURN, got %s", g.Scheduler.State())
	}
}

func TestGame_ActivationRadius(t *testing.T) {
	cfg := testConfig()
	cfg.ActivationRadius = 4
	g := newTestGame(t, cfg, 12, 5)
	p := dungeon.CreatePlayer(g.Store, domain.Position{X: 1, Y: 1})
	statue := spawnStatue(g, domain.Position{X: 6, Y: 1})
	g.Start()

	if g.Store.Has(statue, components.Active) || g.Scheduler.Queue().Contains(statue) {
		t.Fatal("Statue at distance 5 must stay inactive")
	}

	_ = g.Submit(event.Move{Entity: p, Direction: east})

	if !g.Store.Has(statue, components.Active) {
		t.Fatal("Statue at distance 4 must be active")
	}
	// Активация поднимает время до текущего+1, затем статуя ждёт 10.
	if got := timeOf(t, g, statue); got != 12 {
		t.Errorf("Expected statue time 12, got %d", got)
	}
	if g.Scheduler.GlobalTime() != 11 || g.Scheduler.Holder() != p {
		t.Errorf("Expected player turn at 11, got %d holder %s", g.Scheduler.GlobalTime(), g.Scheduler.Holder())
	}
}

func TestGame_HeightOcclusion(t *testing.T) {
	t.Run("Taller statue blocks the hero", func(t *testing.T) {
		g := newTestGame(t, testConfig(), 12, 5)
		p := dungeon.CreatePlayer(g.Store, domain.Position{X: 1, Y: 2})
		statue := spawnStatue(g, domain.Position{X: 3, Y: 2})
		g.Start()

		if g.Map.Transparency.Get(3, 2) {
			t.Error("Statue tile must be opaque in the shared transparency")
		}
		if !g.Visibility.CanSee(p, domain.Position{X: 3, Y: 2}) {
			t.Error("Hero must see the statue itself")
		}
		behind := domain.Position{X: 5, Y: 2}
		if g.Visibility.CanSee(p, behind) || g.Map.Visible.Get(behind.X, behind.Y) {
			t.Error("Hero must not see the tile behind a taller statue")
		}
		if !g.Visibility.CanSee(p, domain.Position{X: 4, Y: 0}) {
			t.Error("Tiles off the statue line must stay visible")
		}
		if !g.Store.Has(statue, components.Active) {
			t.Error("Statue must be active")
		}
	})

	t.Run("Taller viewer sees over a shorter actor", func(t *testing.T) {
		g := newTestGame(t, testConfig(), 12, 5)
		dungeon.CreatePlayer(g.Store, domain.Position{X: 10, Y: 0})
		orc := dungeon.CreateMonster(g.Store, dungeon.Orc, domain.Position{X: 1, Y: 2})
		dungeon.CreateMonster(g.Store, dungeon.Goblin, domain.Position{X: 3, Y: 2})

		g.Activation.Process(g.Scheduler.GlobalTime())
		g.Visibility.Process()

		if !g.Visibility.CanSee(orc, domain.Position{X: 5, Y: 2}) {
			t.Error("Orc must see past the shorter goblin")
		}
	})
}

func TestGame_LifespanExpires(t *testing.T) {
	cfg := testConfig()
	cfg.RoundLength = 10
	g := newTestGame(t, cfg, 10, 10)
	p := dungeon.CreatePlayer(g.Store, domain.Position{X: 1, Y: 1})
	prop := g.Store.Create(domain.KindActor,
		ecs.With(components.Position, domain.Position{X: 4, Y: 4}),
		ecs.With(components.Lifespan, domain.Lifespan{Rounds: 1}),
	)
	g.Start()

	_ = g.Submit(event.Move{Entity: p, Direction: east})

	if g.Scheduler.Round() != 1 {
		t.Fatalf("Expected round 1, got %d", g.Scheduler.Round())
	}
	if g.Store.Exists(prop) {
		t.Error("Expired entity must be removed after the round")
	}
}

func TestGame_RoundReducesImmunities(t *testing.T) {
	cfg := testConfig()
	cfg.RoundLength = 10
	g := newTestGame(t, cfg, 10, 10)
	p := dungeon.CreatePlayer(g.Store, domain.Position{X: 1, Y: 1})
	if err := ecs.Attach(g.Store, p, components.Immunities, domain.Immunities{
		Active: map[string]int{"rallied": 1, "hexed": 3},
	}); err != nil {
		t.Fatalf("attach immunities: %v", err)
	}
	g.Start()

	_ = g.Submit(event.Move{Entity: p, Direction: east})

	if g.Scheduler.Round() != 1 {
		t.Fatalf("Expected round 1, got %d", g.Scheduler.Round())
	}
	im := mustGet(t, g.Store, p, components.Immunities)
	if im.Has("rallied") {
		t.Error("Immunity must expire at the end of the round")
	}
	if im.Active["hexed"] != 2 {
		t.Errorf("Expected hexed immunity 2, got %d", im.Active["hexed"])
	}
}

func TestGame_PlayerDeath(t *testing.T) {
	g := newTestGame(t, testConfig(), 10, 10)
	p := dungeon.CreatePlayer(g.Store, domain.Position{X: 1, Y: 1})
	spawnStatue(g, domain.Position{X: 4, Y: 4})
	g.Start()

	_ = g.Submit(event.Die{Entity: p})

	if g.Scheduler.State() != domain.StatePlayerDead {
		t.Fatalf("Expected PLAYER_DEAD, got %s", g.Scheduler.State())
	}
	if !g.Store.Exists(p) {
		t.Error("Dead player must stay in the world")
	}
	if !hasLog(g, domain.MsgPlayerDied) {
		t.Errorf("Expected %q in logs", domain.MsgPlayerDied)
	}

	now := g.Scheduler.GlobalTime()
	_ = g.Submit(event.Move{Entity: p, Direction: east})
	if g.Scheduler.GlobalTime() != now {
		t.Error("Time advanced after player death")
	}
}

func TestBuildGame(t *testing.T) {
	g, err := BuildGame(testConfig())
	if err != nil {
		t.Fatalf("BuildGame: %v", err)
	}
	g.Begin()

	if st := g.Scheduler.State(); st != domain.StatePlayerTurn && st != domain.StatePlayerDead {
		t.Errorf("Expected control with the player after start, got %s", st)
	}
	if _, ok := g.Player(); !ok {
		t.Fatal("No player in generated world")
	}
	god, ok := g.Store.First(components.IsGod)
	if !ok {
		t.Fatal("No god in generated world")
	}
	if g.Scheduler.Queue().Contains(god) {
		t.Error("God must not be queued")
	}
}

func TestGame_BuildStateFor(t *testing.T) {
	g := newTestGame(t, testConfig(), 10, 10)
	p := dungeon.CreatePlayer(g.Store, domain.Position{X: 1, Y: 1})
	statue := spawnStatue(g, domain.Position{X: 3, Y: 1})
	g.Start()

	resp := g.BuildStateFor(p, nil)

	if resp.MyEntityID != p.String() || resp.ActiveEntityID != p.String() {
		t.Errorf("Unexpected ids: me %q active %q", resp.MyEntityID, resp.ActiveEntityID)
	}
	if resp.State != string(domain.StatePlayerTurn) {
		t.Errorf("Expected state %s, got %s", domain.StatePlayerTurn, resp.State)
	}

	views := map[string]bool{}
	for _, e := range resp.Entities {
		views[e.ID] = true
		switch e.ID {
		case p.String():
			if e.Stats == nil || e.Stats.Stamina != dungeon.Hero.Stamina {
				t.Errorf("Player must see own stamina, got %+v", e.Stats)
			}
		case statue.String():
			if e.Stats == nil || e.Stats.Stamina != 0 {
				t.Errorf("Statue stamina must be hidden, got %+v", e.Stats)
			}
		}
	}
	if !views[p.String()] || !views[statue.String()] {
		t.Errorf("Expected player and statue in view, got %v", views)
	}
	if len(resp.Map) == 0 {
		t.Error("Expected explored tiles in the map")
	}
}

func TestGame_SnapshotRoundTrip(t *testing.T) {
	cfg := testConfig()
	g := newTestGame(t, cfg, 10, 10)
	p := dungeon.CreatePlayer(g.Store, domain.Position{X: 1, Y: 1})
	statue := spawnStatue(g, domain.Position{X: 5, Y: 5})
	_ = g.Map.SetTerrain(domain.Position{X: 7, Y: 7}, world.TerrainWall)
	g.Start()
	_ = g.Submit(event.Move{Entity: p, Direction: east})

	snap, err := g.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}

	store, err := storage.Open(filepath.Join(t.TempDir(), "snapshots.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	id, err := store.Save(ctx, snap)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := store.Load(ctx, id)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	restored, err := RestoreGame(cfg, loaded, nil)
	if err != nil {
		t.Fatalf("RestoreGame: %v", err)
	}
	restored.Begin()

	if restored.Scheduler.GlobalTime() != g.Scheduler.GlobalTime() {
		t.Errorf("Global time %d, want %d", restored.Scheduler.GlobalTime(), g.Scheduler.GlobalTime())
	}
	if restored.Scheduler.Holder() != p || restored.Scheduler.State() != domain.StatePlayerTurn {
		t.Errorf("Expected player turn after resume, got %s holder %s", restored.Scheduler.State(), restored.Scheduler.Holder())
	}
	want, got := g.Scheduler.Order(), restored.Scheduler.Order()
	if len(want) != len(got) {
		t.Fatalf("Queue %v, want %v", got, want)
	}
	for i := range want {
		if want[i] != got[i] {
			t.Errorf("Queue %v, want %v", got, want)
			break
		}
	}
	if pos := mustGet(t, restored.Store, p, components.Position); *pos != (domain.Position{X: 2, Y: 1}) {
		t.Errorf("Player restored at %v", *pos)
	}
	if timeOf(t, restored, statue) != timeOf(t, g, statue) {
		t.Errorf("Statue time %d, want %d", timeOf(t, restored, statue), timeOf(t, g, statue))
	}
	if !restored.Map.IsWall(domain.Position{X: 7, Y: 7}) {
		t.Error("Terrain not restored")
	}
	if !restored.Store.Has(p, components.FieldOfView) {
		t.Error("Field of view must be recomputed on resume")
	}
}
