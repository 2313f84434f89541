package systems

import (
	"testing"

	"notquiteparadise/internal/components"
	"notquiteparadise/internal/domain"
	"notquiteparadise/internal/ecs"
)

func TestComputeFOV(t *testing.T) {
	t.Run("Open room within radius", func(t *testing.T) {
		gm := createTestMap(11, 11)
		fov := ComputeFOV(gm.Transparency, domain.Position{X: 5, Y: 5}, 3)

		if !fov.Get(5, 5) {
			t.Error("Origin must be visible")
		}
		if !fov.Get(8, 5) || !fov.Get(5, 2) {
			t.Error("Tiles at distance 3 on axis must be visible")
		}
		if fov.Get(9, 5) {
			t.Error("Tile outside radius must not be visible")
		}
	})

	t.Run("Wall blocks, wall itself lit", func(t *testing.T) {
		// Стена на (6,5), наблюдатель на (5,5)
		gm := createTestMap(11, 11, domain.Position{X: 6, Y: 5})
		fov := ComputeFOV(gm.Transparency, domain.Position{X: 5, Y: 5}, 5)

		if !fov.Get(6, 5) {
			t.Error("Wall tile must be visible")
		}
		if fov.Get(8, 5) {
			t.Error("Tile behind wall must be hidden")
		}
	})

	t.Run("Blind observer", func(t *testing.T) {
		gm := createTestMap(5, 5)
		fov := ComputeFOV(gm.Transparency, domain.Position{X: 2, Y: 2}, 0)
		if fov.Count() != 0 {
			t.Errorf("Expected empty mask for radius 0, got %d tiles", fov.Count())
		}
	})
}

func TestVisibility_HeightOcclusion(t *testing.T) {
	// Ряд: наблюдатель (1,2), загораживающий (2,2), цель (4,2)
	setup := func(viewerHeight, blockerHeight int) (*ecs.Store, *Visibility, domain.EntityID) {
		s := ecs.NewStore()
		gm := createTestMap(7, 5)
		viewer := spawnActor(s, domain.KindPlayer, domain.Position{X: 1, Y: 2}, viewerHeight)
		_ = ecs.Attach(s, viewer, components.IsPlayer, domain.IsPlayer{})
		_ = ecs.Attach(s, viewer, components.LightSource, domain.LightSource{Radius: 10})
		spawnActor(s, domain.KindActor, domain.Position{X: 2, Y: 2}, blockerHeight)

		v := NewVisibility(s, gm)
		v.Process()
		return s, v, viewer
	}

	behind := domain.Position{X: 4, Y: 2}

	t.Run("Equal height blocks", func(t *testing.T) {
		_, v, viewer := setup(1, 1)
		if v.CanSee(viewer, behind) {
			t.Error("Blocker of equal height must hide the tile behind it")
		}
	})

	t.Run("Taller viewer sees over", func(t *testing.T) {
		_, v, viewer := setup(2, 1)
		if !v.CanSee(viewer, behind) {
			t.Error("Taller viewer must see over a lower blocker")
		}
	})

	t.Run("Blocker tile itself visible", func(t *testing.T) {
		_, v, viewer := setup(1, 3)
		if !v.CanSee(viewer, domain.Position{X: 2, Y: 2}) {
			t.Error("Blocker tile must stay visible")
		}
	})
}

func TestVisibility_LightAndExplored(t *testing.T) {
	s := ecs.NewStore()
	gm := createTestMap(10, 3)
	player := spawnActor(s, domain.KindPlayer, domain.Position{X: 1, Y: 1}, 1)
	_ = ecs.Attach(s, player, components.IsPlayer, domain.IsPlayer{})
	_ = ecs.Attach(s, player, components.LightSource, domain.LightSource{Radius: 2})

	v := NewVisibility(s, gm)
	v.Process()

	// Видно в FOV (8), но свет только на 2
	if !gm.Visible.Get(3, 1) {
		t.Error("Lit tile in FOV must be visible")
	}
	if gm.Visible.Get(6, 1) {
		t.Error("Unlit tile must not be visible even inside FOV")
	}
	if !gm.Tile(domain.Position{X: 3, Y: 1}).Explored {
		t.Error("Visible tile must be marked explored")
	}

	// Игрок ушёл, тайл остаётся исследованным, но уже не виден
	pos, _ := ecs.Get(s, player, components.Position)
	pos.X = 8
	v.Process()
	if gm.Visible.Get(3, 1) {
		t.Error("Old tiles must not stay visible after moving away")
	}
	if !gm.Tile(domain.Position{X: 3, Y: 1}).Explored {
		t.Error("Explored flag must persist")
	}
}

func TestVisibility_NoPlayer(t *testing.T) {
	s := ecs.NewStore()
	gm := createTestMap(5, 5)
	spawnActor(s, domain.KindActor, domain.Position{X: 2, Y: 2}, 1)

	v := NewVisibility(s, gm)
	v.Process()

	if gm.Visible.Count() != 0 {
		t.Errorf("Expected nothing visible without player, got %d", gm.Visible.Count())
	}
}
