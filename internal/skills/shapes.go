package skills

import "notquiteparadise/internal/domain"

// ShapeTiles перечисляет тайлы формы вокруг center. size - радиус:
// SQUARE покрывает (2*size+1)^2 тайлов, CIRCLE - dx²+dy² <= size²,
// CROSS - центр и по size тайлов по четырём осям. TARGET - только center.
// Порядок детерминирован: построчно сверху вниз, слева направо.
func ShapeTiles(center domain.Position, shape Shape, size int) []domain.Position {
	if shape == ShapeTarget || size <= 0 {
		return []domain.Position{center}
	}

	var out []domain.Position
	for dy := -size; dy <= size; dy++ {
		for dx := -size; dx <= size; dx++ {
			include := false
			switch shape {
			case ShapeSquare:
				include = true
			case ShapeCircle:
				include = dx*dx+dy*dy <= size*size
			case ShapeCross:
				include = dx == 0 || dy == 0
			}
			if include {
				out = append(out, center.Shift(dx, dy))
			}
		}
	}
	return out
}
