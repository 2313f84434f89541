package dungeon

import (
	"math/rand"
)

// Константы генерации
const (
	MapWidth  = 40
	MapHeight = 25
	MaxRooms  = 8
	MinSize   = 4
	MaxSize   = 10
)

// Generate создает уровень по умолчанию: комнаты, гоблины и орк.
func Generate(rng *rand.Rand, width, height int) (*Level, error) {
	return NewLevel(rng).
		WithSize(width, height).
		WithRooms(MaxRooms).
		SpawnEnemy("goblin", 3).
		SpawnEnemy("orc", 1).
		Build()
}
