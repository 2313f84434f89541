package engine

import (
	"fmt"

	"notquiteparadise/internal/components"
	"notquiteparadise/internal/infrastructure/storage"
	"notquiteparadise/internal/skills"
	"notquiteparadise/internal/world"
)

// Snapshot собирает полное восстановимое состояние: компоненты, очередь,
// глобальное время и карту. Поле зрения не сохраняется, оно пересчитывается.
func (g *Game) Snapshot() (*storage.Snapshot, error) {
	records, err := g.Store.Export(components.Persistent)
	if err != nil {
		return nil, fmt.Errorf("export entities: %w", err)
	}
	return &storage.Snapshot{
		Seed:       g.Seed,
		GlobalTime: g.Scheduler.GlobalTime(),
		Round:      g.Scheduler.Round(),
		MapWidth:   g.Map.Width,
		MapHeight:  g.Map.Height,
		Terrain:    g.Map.Terrains(),
		Explored:   g.Map.Explored(),
		Queue:      g.Scheduler.Order(),
		Entities:   records,
	}, nil
}

// RestoreGame поднимает игру из снимка. Ход ещё не отдан: вызовите Resume.
func RestoreGame(cfg Config, snap *storage.Snapshot, library *skills.Library) (*Game, error) {
	gm, err := world.FromTerrains(snap.MapWidth, snap.MapHeight, snap.Terrain)
	if err != nil {
		return nil, fmt.Errorf("restore map: %w", err)
	}
	gm.RestoreExplored(snap.Explored)

	cfg.Seed = snap.Seed
	g := NewGame(cfg, gm, library)
	if err := g.Store.Restore(snap.Entities, components.Persistent); err != nil {
		return nil, fmt.Errorf("restore entities: %w", err)
	}
	g.Scheduler.RestoreQueue(snap.Queue, snap.GlobalTime, snap.Round)
	g.Restored = true
	return g, nil
}
