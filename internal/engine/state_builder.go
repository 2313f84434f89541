package engine

import (
	"notquiteparadise/internal/components"
	"notquiteparadise/internal/domain"
	"notquiteparadise/internal/ecs"
	"notquiteparadise/pkg/api"
)

// BuildStateFor создает персональный "снимок" мира для наблюдателя.
// Видимость тайлов берётся из карты (FOV игрока AND свет), сущности
// показываются, если их тайл виден. Себя наблюдатель видит всегда.
// Логи не очищаются: это делает тот, кто рассылает снимки.
func (g *Game) BuildStateFor(observer domain.EntityID, logs []api.LogEntry) *api.ServerResponse {
	gm := g.Map

	// 1. Карта: только исследованные тайлы
	var mapDTO []api.TileView
	for y := 0; y < gm.Height; y++ {
		for x := 0; x < gm.Width; x++ {
			p := domain.Position{X: x, Y: y}
			tile := gm.Tile(p)
			if !tile.Explored {
				continue
			}
			mapDTO = append(mapDTO, api.TileView{
				X: x, Y: y,
				Terrain:    tile.Terrain.String(),
				IsVisible:  gm.Visible.Get(x, y),
				IsExplored: true,
			})
		}
	}

	// 2. Сущности в поле зрения
	var viewEntities []api.EntityView
	for id, row := range g.Store.Query(components.Position) {
		if g.Store.IsPendingDeletion(id) {
			continue
		}
		pos := ecs.Field(row, components.Position)
		if id != observer && !gm.Visible.Get(pos.X, pos.Y) {
			continue
		}
		viewEntities = append(viewEntities, toEntityView(id, row, id == observer))
	}

	resp := &api.ServerResponse{
		Type:  api.ResponseUpdate,
		Tick:  g.Scheduler.GlobalTime(),
		Round: g.Scheduler.Round(),
		State: g.Scheduler.State().String(),
		Grid:  &api.GridMeta{Width: gm.Width, Height: gm.Height},
		Map:   mapDTO,

		Entities:       viewEntities,
		Logs:           logs,
		TargetingSkill: g.Scheduler.TargetingSkill(),
	}
	if observer != domain.NilEntityID {
		resp.MyEntityID = observer.String()
	}
	if holder := g.Scheduler.Holder(); holder != domain.NilEntityID {
		resp.ActiveEntityID = holder.String()
	}
	return resp
}

// toEntityView конвертирует сущность в DTO. Выносливость и время видны только владельцу.
func toEntityView(id domain.EntityID, row ecs.Row, isMe bool) api.EntityView {
	pos := ecs.Field(row, components.Position)
	view := api.EntityView{
		ID:   id.String(),
		Kind: id.Kind().String(),
		X:    pos.X,
		Y:    pos.Y,
	}
	if ident := ecs.Field(row, components.Identity); ident != nil {
		view.Name = ident.Name
	}

	if res := ecs.Field(row, components.Resources); res != nil {
		view.Stats = &api.StatsView{HP: res.Health, MaxHP: res.MaxHealth}
		if isMe {
			view.Stats.Stamina = res.Stamina
			view.Stats.MaxStamina = res.MaxStamina
			if tracked := ecs.Field(row, components.Tracked); tracked != nil {
				view.Stats.TimeSpent = tracked.TimeSpent
			}
		}
	}
	return view
}
