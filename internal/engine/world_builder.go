package engine

import (
	"fmt"
	"math/rand"
	"time"

	"notquiteparadise/internal/skills"
	"notquiteparadise/pkg/dungeon"

	"github.com/sirupsen/logrus"
)

// BuildGame генерирует уровень и собирает игру: игрок, NPC и бог.
func BuildGame(cfg Config) (*Game, error) {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(cfg.Seed))

	level, err := dungeon.Generate(rng, cfg.MapWidth, cfg.MapHeight)
	if err != nil {
		return nil, fmt.Errorf("generate level: %w", err)
	}

	g := NewGame(cfg, level.Map, skills.DefaultLibrary())
	level.Populate(g.Store)
	dungeon.Architect.Spawn(g.Store)

	g.log.WithFields(logrus.Fields{
		"entities": g.Store.Len(),
		"rooms":    len(level.Rooms),
	}).Info("World built")
	return g, nil
}
