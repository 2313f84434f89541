package systems

import (
	"notquiteparadise/internal/domain"
)

// HasLineOfSight проверяет прямую видимость между двумя точками по маске прозрачности.
// Алгоритм Брезенхэма; стартовая и конечная точки не проверяются.
func HasLineOfSight(transparent *domain.Mask, p1, p2 domain.Position) bool {
	if p1 == p2 {
		return true
	}

	x0, y0 := p1.X, p1.Y
	x1, y1 := p2.X, p2.Y

	dx := x1 - x0
	if dx < 0 {
		dx = -dx
	}
	dy := y1 - y0
	if dy < 0 {
		dy = -dy
	}

	step := p1.DirectionTo(p2)
	err := dx - dy

	for {
		isStart := x0 == p1.X && y0 == p1.Y
		isEnd := x0 == x1 && y0 == y1
		if !isStart && !isEnd && !transparent.Get(x0, y0) {
			return false
		}
		if isEnd {
			return true
		}

		e2 := err * 2
		if e2 > -dy {
			err -= dy
			x0 += step.Dx
		}
		if e2 < dx {
			err += dx
			y0 += step.Dy
		}
	}
}
