package systems

import (
	"notquiteparadise/internal/components"
	"notquiteparadise/internal/domain"
	"notquiteparadise/internal/ecs"
	"notquiteparadise/internal/world"
	"notquiteparadise/pkg/logger"

	"github.com/sirupsen/logrus"
)

// Visibility пересчитывает прозрачность, свет, личные FOV и видимость тайлов.
type Visibility struct {
	store *ecs.Store
	gm    *world.GameMap
	log   *logrus.Entry
}

func NewVisibility(store *ecs.Store, gm *world.GameMap) *Visibility {
	return &Visibility{
		store: store,
		gm:    gm,
		log:   logger.Log.WithField("component", "visibility_system"),
	}
}

// SetMap переключает систему на другую карту (после загрузки снапшота).
func (v *Visibility) SetMap(gm *world.GameMap) {
	v.gm = gm
}

// Process выполняет полный пересчёт в фиксированном порядке.
func (v *Visibility) Process() {
	v.RefreshTransparency()
	v.ProcessLightMap()
	v.ProcessFOV()
	v.ProcessTileVisibility()
}

type sightBlocker struct {
	id     domain.EntityID
	pos    domain.Position
	height int
}

func (v *Visibility) blockers() []sightBlocker {
	var out []sightBlocker
	for id, row := range v.store.Query(components.Position, components.Physicality, components.Active) {
		phys := ecs.Field(row, components.Physicality)
		if !phys.BlocksSight {
			continue
		}
		out = append(out, sightBlocker{id: id, pos: *ecs.Field(row, components.Position), height: phys.Height})
	}
	return out
}

// RefreshTransparency: рельеф + активные сущности, загораживающие обзор.
func (v *Visibility) RefreshTransparency() {
	mask := v.gm.TerrainTransparency()
	for _, b := range v.blockers() {
		mask.Set(b.pos.X, b.pos.Y, false)
	}
	v.gm.Transparency = mask
}

// ProcessLightMap - объединение областей от всех активных источников света.
func (v *Visibility) ProcessLightMap() {
	light := domain.NewMask(v.gm.Width, v.gm.Height)
	sources := 0
	for _, row := range v.store.Query(components.Position, components.LightSource, components.Active) {
		pos := ecs.Field(row, components.Position)
		src := ecs.Field(row, components.LightSource)
		light.Or(ComputeFOV(v.gm.Transparency, *pos, src.Radius))
		sources++
	}
	v.gm.Light = light
	v.log.WithField("sources", sources).Trace("Light map updated")
}

// ProcessFOV пересчитывает личное поле зрения каждого активного актора.
//
// Другая сущность загораживает обзор, только если она не ниже наблюдателя.
// Сам наблюдатель себя не загораживает.
func (v *Visibility) ProcessFOV() {
	terrain := v.gm.TerrainTransparency()
	blockers := v.blockers()

	for id, row := range v.store.Query(components.Position, components.Sight, components.Active) {
		pos := *ecs.Field(row, components.Position)
		sight := ecs.Field(row, components.Sight).Range

		viewerHeight := 0
		if phys := ecs.Field(row, components.Physicality); phys != nil {
			viewerHeight = phys.Height
		}

		mask := terrain.Clone()
		for _, b := range blockers {
			if b.id == id || viewerHeight > b.height {
				continue
			}
			mask.Set(b.pos.X, b.pos.Y, false)
		}

		fov := ComputeFOV(mask, pos, sight)
		if existing := ecs.Field(row, components.FieldOfView); existing != nil {
			existing.Mask = fov
			continue
		}
		if err := ecs.Attach(v.store, id, components.FieldOfView, domain.FieldOfView{Mask: fov}); err != nil {
			v.log.WithError(err).WithField("entity_id", id).Error("Failed to attach field of view")
		}
	}
}

// ProcessTileVisibility: FOV(игрок) AND свет.
func (v *Visibility) ProcessTileVisibility() {
	visible := domain.NewMask(v.gm.Width, v.gm.Height)

	player, ok := v.store.First(components.IsPlayer, components.FieldOfView)
	if !ok {
		v.gm.Visible = visible
		v.log.Debug("No player with field of view, nothing is visible")
		return
	}

	fov, err := ecs.Get(v.store, player, components.FieldOfView)
	if err != nil || fov.Mask == nil {
		v.gm.Visible = visible
		return
	}

	visible = fov.Mask.Clone()
	visible.And(v.gm.Light)
	v.gm.Visible = visible
	v.gm.MarkExplored(visible)
}

// CanSee - тайл в личном поле зрения сущности.
func (v *Visibility) CanSee(id domain.EntityID, p domain.Position) bool {
	fov, err := ecs.Get(v.store, id, components.FieldOfView)
	if err != nil || fov.Mask == nil {
		return false
	}
	return fov.Mask.Get(p.X, p.Y)
}
