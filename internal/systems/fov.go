package systems

import (
	"notquiteparadise/internal/domain"
	"notquiteparadise/pkg/logger"

	"github.com/sirupsen/logrus"
)

// Мультипликаторы для трансформации координат в 8 октантов
var multipliers = [4][8]int{
	{1, 0, 0, -1, -1, 0, 0, 1},
	{0, 1, -1, 0, 0, -1, 1, 0},
	{0, 1, 1, 0, 0, -1, -1, 0},
	{1, 0, 0, 1, -1, 0, 0, -1},
}

// ComputeFOV - рекурсивный shadowcasting по маске прозрачности.
// Стены (непрозрачные клетки) на границе видимости освещаются.
// radius <= 0 - наблюдатель слеп, маска пуста.
func ComputeFOV(transparent *domain.Mask, origin domain.Position, radius int) *domain.Mask {
	visible := domain.NewMask(transparent.Width, transparent.Height)

	fovLogger := logger.Log.WithFields(logrus.Fields{
		"component":    "fov_system",
		"observer_pos": origin,
		"radius":       radius,
	})

	if radius <= 0 {
		fovLogger.Debug("FOV calculation skipped for blind observer (radius <= 0).")
		return visible
	}
	if !transparent.InBounds(origin.X, origin.Y) {
		fovLogger.Warn("FOV origin outside of map")
		return visible
	}

	// Центр всегда виден
	visible.Set(origin.X, origin.Y, true)

	for i := 0; i < 8; i++ {
		castLight(transparent, visible, origin.X, origin.Y, 1, 1.0, 0.0, radius,
			multipliers[0][i], multipliers[1][i],
			multipliers[2][i], multipliers[3][i])
	}

	fovLogger.WithField("visible_tiles", visible.Count()).Trace("FOV calculation complete.")
	return visible
}

func castLight(transparent, visible *domain.Mask, cx, cy, row int, start, end float64, radius, xx, xy, yx, yy int) {
	if start < end {
		return
	}

	radiusSq := radius * radius

	for j := row; j <= radius; j++ {
		dx, dy := -j-1, -j
		blocked := false
		newStart := start

		for {
			dx++
			if dx > 0 {
				break
			}

			lSlope := (float64(dx) - 0.5) / (float64(dy) + 0.5)
			rSlope := (float64(dx) + 0.5) / (float64(dy) - 0.5)

			if start < rSlope {
				continue
			}
			if end > lSlope {
				break
			}

			X := cx + dx*xx + dy*xy
			Y := cy + dx*yx + dy*yy

			if dx*dx+dy*dy <= radiusSq {
				visible.Set(X, Y, true)
			}

			opaque := !transparent.Get(X, Y)
			if blocked {
				// Идём вдоль стены
				if opaque {
					newStart = rSlope
					continue
				}
				// Стена кончилась
				blocked = false
				start = newStart
			} else if opaque && j < radius {
				blocked = true
				castLight(transparent, visible, cx, cy, j+1, start, lSlope, radius, xx, xy, yx, yy)
				newStart = rSlope
			}
		}
		if blocked {
			break
		}
	}
}
