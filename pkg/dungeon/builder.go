package dungeon

import (
	"fmt"
	"math/rand"

	"notquiteparadise/internal/domain"
	"notquiteparadise/internal/ecs"
	"notquiteparadise/internal/world"
)

// Rect - Вспомогательная структура для комнаты
type Rect struct {
	X, Y, W, H int
}

func (r Rect) Center() (int, int) {
	return r.X + r.W/2, r.Y + r.H/2
}

func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.W && r.X+r.W >= other.X &&
		r.Y <= other.Y+other.H && r.Y+r.H >= other.Y
}

// Spawn - запланированное появление сущности.
type Spawn struct {
	Template EntityTemplate
	Pos      domain.Position
}

// Level - результат генерации: карта, старт игрока и план спавна.
type Level struct {
	Map    *world.GameMap
	Start  domain.Position
	Spawns []Spawn
	Rooms  []Rect
}

// Populate создаёт игрока и всех запланированных NPC в хранилище.
func (l *Level) Populate(store *ecs.Store) domain.EntityID {
	player := CreatePlayer(store, l.Start)
	for _, s := range l.Spawns {
		CreateMonster(store, s.Template, s.Pos)
	}
	return player
}

// LevelBuilder предоставляет fluent API для создания уровней
type LevelBuilder struct {
	width    int
	height   int
	rooms    []Rect
	terrains []world.Terrain
	occupied map[domain.Position]bool
	spawns   []Spawn
	rng      *rand.Rand
	err      error
}

// NewLevel создает новый builder для уровня
func NewLevel(rng *rand.Rand) *LevelBuilder {
	return &LevelBuilder{
		width:    MapWidth,
		height:   MapHeight,
		occupied: make(map[domain.Position]bool),
		rng:      rng,
	}
}

// WithSize устанавливает размер карты
func (b *LevelBuilder) WithSize(width, height int) *LevelBuilder {
	if width < MaxSize+2 || height < MaxSize+2 {
		b.err = fmt.Errorf("map %dx%d is too small for rooms up to %d", width, height, MaxSize)
		return b
	}
	b.width = width
	b.height = height
	return b
}

func (b *LevelBuilder) randRange(min, max int) int {
	return b.rng.Intn(max-min+1) + min
}

func (b *LevelBuilder) carve(x, y int) {
	b.terrains[y*b.width+x] = world.TerrainFloor
}

// WithRooms генерирует комнаты и коридоры
func (b *LevelBuilder) WithRooms(maxRooms int) *LevelBuilder {
	if b.err != nil {
		return b
	}

	// Заполняем стенами
	b.terrains = make([]world.Terrain, b.width*b.height)
	for i := range b.terrains {
		b.terrains[i] = world.TerrainWall
	}

	b.rooms = make([]Rect, 0, maxRooms)
	for i := 0; i < maxRooms; i++ {
		w := b.randRange(MinSize, MaxSize)
		h := b.randRange(MinSize, MaxSize)
		x := b.randRange(1, b.width-w-1)
		y := b.randRange(1, b.height-h-1)

		newRoom := Rect{X: x, Y: y, W: w, H: h}

		failed := false
		for _, other := range b.rooms {
			if newRoom.Intersects(other) {
				failed = true
				break
			}
		}
		if failed {
			continue
		}

		b.createRoom(newRoom)

		// Соединяем с предыдущей комнатой
		if len(b.rooms) > 0 {
			prevX, prevY := b.rooms[len(b.rooms)-1].Center()
			currX, currY := newRoom.Center()

			if b.rng.Intn(2) == 0 {
				b.createHCorridor(prevX, currX, prevY)
				b.createVCorridor(prevY, currY, currX)
			} else {
				b.createVCorridor(prevY, currY, prevX)
				b.createHCorridor(prevX, currX, currY)
			}
		}
		b.rooms = append(b.rooms, newRoom)
	}

	if len(b.rooms) == 0 {
		b.err = fmt.Errorf("no rooms fit into %dx%d", b.width, b.height)
	}
	return b
}

func (b *LevelBuilder) createRoom(room Rect) {
	for y := room.Y + 1; y < room.Y+room.H; y++ {
		for x := room.X + 1; x < room.X+room.W; x++ {
			b.carve(x, y)
		}
	}
}

func (b *LevelBuilder) createHCorridor(x1, x2, y int) {
	for x := min(x1, x2); x <= max(x1, x2); x++ {
		b.carve(x, y)
	}
}

func (b *LevelBuilder) createVCorridor(y1, y2, x int) {
	for y := min(y1, y2); y <= max(y1, y2); y++ {
		b.carve(x, y)
	}
}

func (b *LevelBuilder) isFloor(p domain.Position) bool {
	if p.X < 0 || p.Y < 0 || p.X >= b.width || p.Y >= b.height {
		return false
	}
	return b.terrains[p.Y*b.width+p.X] == world.TerrainFloor
}

// SpawnEnemy спавнит врагов из шаблона в случайных комнатах (кроме первой)
func (b *LevelBuilder) SpawnEnemy(templateName string, count int) *LevelBuilder {
	if b.err != nil {
		return b
	}
	template, ok := Templates[templateName]
	if !ok {
		b.err = fmt.Errorf("unknown template %q", templateName)
		return b
	}

	for i := 0; i < count && len(b.rooms) > 1; i++ {
		room := b.rooms[b.rng.Intn(len(b.rooms)-1)+1]
		cx, cy := room.Center()

		// Небольшой сдвиг от центра комнаты, чтобы не стоять друг на друге
		for attempt := 0; attempt < 10; attempt++ {
			pos := domain.Position{X: cx + b.randRange(-1, 1), Y: cy + b.randRange(-1, 1)}
			if b.isFloor(pos) && !b.occupied[pos] {
				b.occupied[pos] = true
				b.spawns = append(b.spawns, Spawn{Template: template, Pos: pos})
				break
			}
		}
	}
	return b
}

// StartPos возвращает стартовую позицию (центр первой комнаты)
func (b *LevelBuilder) StartPos() domain.Position {
	if len(b.rooms) > 0 {
		cx, cy := b.rooms[0].Center()
		return domain.Position{X: cx, Y: cy}
	}
	return domain.Position{X: b.width / 2, Y: b.height / 2}
}

// Build собирает и возвращает готовый уровень
func (b *LevelBuilder) Build() (*Level, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.terrains == nil {
		b.WithRooms(MaxRooms)
		if b.err != nil {
			return nil, b.err
		}
	}

	gm, err := world.FromTerrains(b.width, b.height, b.terrains)
	if err != nil {
		return nil, fmt.Errorf("build map: %w", err)
	}

	start := b.StartPos()
	spawns := make([]Spawn, 0, len(b.spawns))
	for _, s := range b.spawns {
		if s.Pos != start {
			spawns = append(spawns, s)
		}
	}

	return &Level{Map: gm, Start: start, Spawns: spawns, Rooms: b.rooms}, nil
}
