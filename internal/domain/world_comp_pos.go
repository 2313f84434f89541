package domain

// Position - координаты тайла на карте.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Direction - единичный шаг в одном из 8 направлений (или на месте).
type Direction struct {
	Dx int `json:"dx"`
	Dy int `json:"dy"`
}

var (
	DirNone      = Direction{0, 0}
	DirUp        = Direction{0, -1}
	DirDown      = Direction{0, 1}
	DirLeft      = Direction{-1, 0}
	DirRight     = Direction{1, 0}
	DirUpLeft    = Direction{-1, -1}
	DirUpRight   = Direction{1, -1}
	DirDownLeft  = Direction{-1, 1}
	DirDownRight = Direction{1, 1}
)

// IsZero - стоим на месте.
func (d Direction) IsZero() bool {
	return d.Dx == 0 && d.Dy == 0
}

// DistanceSquaredTo возвращает квадрат расстояния (int) для сравнения без корней
func (p Position) DistanceSquaredTo(other Position) int {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return dx*dx + dy*dy
}

// ChebyshevTo - max(|dx|,|dy|). Определяет 8-соседство и радиус активации.
func (p Position) ChebyshevTo(other Position) int {
	dx := abs(p.X - other.X)
	dy := abs(p.Y - other.Y)
	if dx > dy {
		return dx
	}
	return dy
}

// IsAdjacent возвращает true, если цель в соседней клетке (включая диагональ)
func (p Position) IsAdjacent(other Position) bool {
	return p.ChebyshevTo(other) == 1
}

// Shift возвращает новую позицию со смещением
func (p Position) Shift(dx, dy int) Position {
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// Step сдвигает позицию на направление.
func (p Position) Step(d Direction) Position {
	return p.Shift(d.Dx, d.Dy)
}

// DirectionTo возвращает шаг (sign по осям) в сторону цели.
func (p Position) DirectionTo(target Position) Direction {
	return Direction{Dx: sign(target.X - p.X), Dy: sign(target.Y - p.Y)}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
