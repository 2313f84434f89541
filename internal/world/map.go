// Package world - карта уровня: рельеф и общие маски (прозрачность, свет, видимость).
package world

import (
	"errors"

	"notquiteparadise/internal/domain"
)

// ErrOutOfBounds - координата вне карты.
var ErrOutOfBounds = errors.New("out of bounds")

// Terrain - тип рельефа тайла.
type Terrain uint8

const (
	TerrainFloor Terrain = iota
	TerrainWall
)

func (t Terrain) String() string {
	if t == TerrainWall {
		return "WALL"
	}
	return "FLOOR"
}

// Tile - одна клетка карты.
type Tile struct {
	Terrain        Terrain `json:"terrain"`
	BlocksSight    bool    `json:"blocksSight"`
	BlocksMovement bool    `json:"blocksMovement"`
	Explored       bool    `json:"explored"`
}

func tileFor(t Terrain) Tile {
	wall := t == TerrainWall
	return Tile{Terrain: t, BlocksSight: wall, BlocksMovement: wall}
}

// GameMap хранит рельеф и маски, которые пересчитывает система видимости.
//
//   - Transparency - рельеф + активные сущности, загораживающие обзор
//   - Light        - объединение освещённых областей
//   - Visible      - FOV игрока AND Light (читает презентация)
type GameMap struct {
	Width  int
	Height int
	tiles  []Tile

	Transparency *domain.Mask
	Light        *domain.Mask
	Visible      *domain.Mask
}

// New создаёт карту, заполненную полом.
func New(width, height int) *GameMap {
	m := &GameMap{
		Width:        width,
		Height:       height,
		tiles:        make([]Tile, width*height),
		Transparency: domain.NewMask(width, height),
		Light:        domain.NewMask(width, height),
		Visible:      domain.NewMask(width, height),
	}
	for i := range m.tiles {
		m.tiles[i] = tileFor(TerrainFloor)
	}
	m.Transparency.Fill(true)
	return m
}

func (m *GameMap) GetIndex(x, y int) int {
	return y*m.Width + x
}

func (m *GameMap) InBounds(p domain.Position) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < m.Width && p.Y < m.Height
}

// Tile возвращает тайл. Вне карты - стена.
func (m *GameMap) Tile(p domain.Position) Tile {
	if !m.InBounds(p) {
		return tileFor(TerrainWall)
	}
	return m.tiles[m.GetIndex(p.X, p.Y)]
}

// SetTerrain меняет рельеф тайла.
func (m *GameMap) SetTerrain(p domain.Position, t Terrain) error {
	if !m.InBounds(p) {
		return ErrOutOfBounds
	}
	idx := m.GetIndex(p.X, p.Y)
	explored := m.tiles[idx].Explored
	m.tiles[idx] = tileFor(t)
	m.tiles[idx].Explored = explored
	return nil
}

// IsWall - вне карты тоже стена.
func (m *GameMap) IsWall(p domain.Position) bool {
	return m.Tile(p).Terrain == TerrainWall
}

// BlocksMovement - рельеф непроходим.
func (m *GameMap) BlocksMovement(p domain.Position) bool {
	return m.Tile(p).BlocksMovement
}

// MarkExplored запоминает тайлы, которые когда-либо были видны.
func (m *GameMap) MarkExplored(visible *domain.Mask) {
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			if visible.Get(x, y) {
				m.tiles[m.GetIndex(x, y)].Explored = true
			}
		}
	}
}

// TerrainTransparency - маска прозрачности только по рельефу.
func (m *GameMap) TerrainTransparency() *domain.Mask {
	mask := domain.NewMask(m.Width, m.Height)
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			mask.Set(x, y, !m.tiles[m.GetIndex(x, y)].BlocksSight)
		}
	}
	return mask
}

// Terrains возвращает рельеф построчно (для снапшота).
func (m *GameMap) Terrains() []Terrain {
	out := make([]Terrain, len(m.tiles))
	for i, t := range m.tiles {
		out[i] = t.Terrain
	}
	return out
}

// FromTerrains восстанавливает карту из рельефа.
func FromTerrains(width, height int, terrains []Terrain) (*GameMap, error) {
	if len(terrains) != width*height {
		return nil, errors.New("terrain count does not match map size")
	}
	m := New(width, height)
	for i, t := range terrains {
		m.tiles[i] = tileFor(t)
	}
	m.Transparency = m.TerrainTransparency()
	return m, nil
}

// Explored возвращает флаги "исследован" построчно.
func (m *GameMap) Explored() []bool {
	out := make([]bool, len(m.tiles))
	for i, t := range m.tiles {
		out[i] = t.Explored
	}
	return out
}

// RestoreExplored выставляет флаги "исследован" из снимка. Лишние значения игнорируются.
func (m *GameMap) RestoreExplored(explored []bool) {
	for i := 0; i < len(m.tiles) && i < len(explored); i++ {
		m.tiles[i].Explored = explored[i]
	}
}
