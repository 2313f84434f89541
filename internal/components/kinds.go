// Package components - каталог видов компонентов игры.
package components

import (
	"notquiteparadise/internal/domain"
	"notquiteparadise/internal/ecs"
)

var (
	Identity    = ecs.NewKind[domain.Identity]("identity")
	Position    = ecs.NewKind[domain.Position]("position")
	Resources   = ecs.NewKind[domain.Resources]("resources")
	CombatStats = ecs.NewKind[domain.CombatStats]("combat_stats")
	Tracked     = ecs.NewKind[domain.Tracked]("tracked")
	FieldOfView = ecs.NewKind[domain.FieldOfView]("field_of_view")
	Sight       = ecs.NewKind[domain.Sight]("sight")
	LightSource = ecs.NewKind[domain.LightSource]("light_source")
	Physicality = ecs.NewKind[domain.Physicality]("physicality")
	Behaviour   = ecs.NewKind[domain.Behaviour]("behaviour")
	Knowledge   = ecs.NewKind[domain.Knowledge]("knowledge")
	Afflictions = ecs.NewKind[domain.Afflictions]("afflictions")
	Immunities  = ecs.NewKind[domain.Immunities]("immunities")
	Lifespan    = ecs.NewKind[domain.Lifespan]("lifespan")
	Opinion     = ecs.NewKind[domain.Opinion]("opinion")

	Active   = ecs.NewKind[domain.Active]("active")
	IsPlayer = ecs.NewKind[domain.IsPlayer]("is_player")
	IsGod    = ecs.NewKind[domain.IsGod]("is_god")
)

// Persistent - виды, попадающие в снапшот. FieldOfView пересчитывается
// системой видимости и не сохраняется.
var Persistent = []ecs.ComponentKind{
	Identity, Position, Resources, CombatStats, Tracked, Sight, LightSource,
	Physicality, Behaviour, Knowledge, Afflictions, Immunities, Lifespan, Opinion,
	Active, IsPlayer, IsGod,
}
