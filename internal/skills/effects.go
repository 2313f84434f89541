package skills

import (
	"fmt"
	"sort"

	"notquiteparadise/internal/components"
	"notquiteparadise/internal/domain"
	"notquiteparadise/internal/ecs"
	"notquiteparadise/internal/event"
	"notquiteparadise/internal/systems"
	"notquiteparadise/internal/world"

	"github.com/sirupsen/logrus"
)

func (r *Resolver) applyDamage(actor, target domain.EntityID, p DamageParams) bool {
	res, err := ecs.Get(r.store, target, components.Resources)
	if err != nil || res.Health <= 0 {
		return false
	}

	var attacker, defender *domain.CombatStats
	if s, err := ecs.Get(r.store, actor, components.CombatStats); err == nil {
		attacker = s
	}
	if s, err := ecs.Get(r.store, target, components.CombatStats); err == nil {
		defender = s
	}

	outcome := systems.ResolveAttack(r.rng, attacker, defender, res, systems.Attack{
		Base:       p.Base,
		Potency:    p.Potency,
		DamageType: p.DamageType,
		Accuracy:   p.Accuracy,
		ModStat:    p.ModStat,
		TargetStat: p.TargetStat,
		ForceHit:   p.ForceHit,
	})

	_ = r.bus.Publish(event.Damaged{
		Origin:      actor,
		Target:      target,
		Amount:      outcome.Damage,
		DamageType:  p.DamageType,
		HitType:     outcome.HitType,
		RemainingHP: outcome.RemainingHP,
	})
	_ = r.bus.Publish(event.Message{
		Text: fmt.Sprintf("%s %s %s for %d.", r.name(actor), verbFor(outcome.HitType), r.name(target), outcome.Damage),
		Kind: domain.MessageCombat,
	})

	if outcome.Died {
		_ = r.bus.Publish(event.Die{Entity: target, Killer: actor})
	}
	return true
}

// applyMove двигает цель по шагам, пока путь свободен. Успех - хотя бы один шаг.
func (r *Resolver) applyMove(actor, target domain.EntityID, tile domain.Position, p MoveParams) bool {
	if target == domain.NilEntityID {
		return false
	}

	dir := p.Direction
	if dir.IsZero() {
		origin, err := ecs.Get(r.store, actor, components.Position)
		if err != nil {
			return false
		}
		if target == actor {
			dir = origin.DirectionTo(tile)
		} else if pos, err := ecs.Get(r.store, target, components.Position); err == nil {
			dir = origin.DirectionTo(*pos)
		}
	}
	if dir.IsZero() {
		return false
	}

	distance := p.Distance
	if distance <= 0 {
		distance = 1
	}

	moved := 0
	for i := 0; i < distance; i++ {
		mv, err := systems.CalculateMove(r.store, r.gm, target, dir)
		if err != nil || !mv.HasMoved {
			break
		}
		pos, err := ecs.Get(r.store, target, components.Position)
		if err != nil {
			break
		}
		*pos = mv.Target
		moved++
		_ = r.bus.Publish(event.Moved{Entity: target, From: mv.From, To: mv.Target})
	}
	return moved > 0
}

// applyAffliction вешает недуг и даёт иммунитет к нему на Duration+ImmunityGrace
// раундов. Пока иммунитет действует, недуг не вешается (эффект провален).
func (r *Resolver) applyAffliction(actor, target domain.EntityID, p AfflictionParams) bool {
	if target == domain.NilEntityID || p.Duration <= 0 {
		return false
	}

	if im, err := ecs.Get(r.store, target, components.Immunities); err == nil && im.Has(p.Name) {
		r.log.WithFields(logrus.Fields{
			"target":     target,
			"affliction": p.Name,
			"rounds":     im.Active[p.Name],
		}).Debug("Target is immune to affliction")
		return false
	}

	if !r.store.Has(target, components.Afflictions) {
		if err := ecs.Attach(r.store, target, components.Afflictions, domain.Afflictions{}); err != nil {
			return false
		}
	}
	aff, err := ecs.Get(r.store, target, components.Afflictions)
	if err != nil {
		return false
	}

	for i := range aff.Active {
		if aff.Active[i].Name == p.Name {
			if p.Duration > aff.Active[i].Duration {
				aff.Active[i].Duration = p.Duration
			}
			r.grantImmunity(target, p)
			return true
		}
	}

	aff.Active = append(aff.Active, domain.Affliction{
		Name:     p.Name,
		Duration: p.Duration,
		Origin:   actor,
		Stat:     p.Stat,
		Amount:   p.Amount,
	})
	if stats, err := ecs.Get(r.store, target, components.CombatStats); err == nil && p.Amount != 0 {
		stats.AddModifier(domain.StatModifier{Cause: p.Name, Stat: p.Stat, Amount: p.Amount})
	}

	r.grantImmunity(target, p)

	_ = r.bus.Publish(event.Afflicted{Origin: actor, Target: target, Affliction: p.Name, Duration: p.Duration})
	return true
}

func (r *Resolver) grantImmunity(target domain.EntityID, p AfflictionParams) {
	rounds := p.Duration + domain.ImmunityGrace
	if im, err := ecs.Get(r.store, target, components.Immunities); err == nil {
		im.Grant(p.Name, rounds)
		return
	}
	im := domain.Immunities{}
	im.Grant(p.Name, rounds)
	if err := ecs.Attach(r.store, target, components.Immunities, im); err != nil {
		r.log.WithError(err).WithField("target", target).Error("Failed to attach immunities")
	}
}

// applyTerrain меняет рельеф. Нельзя замуровать сущность в стене.
func (r *Resolver) applyTerrain(tile domain.Position, p TerrainParams) bool {
	if !r.gm.InBounds(tile) {
		return false
	}
	current := r.gm.Tile(tile).Terrain
	if current == p.Terrain {
		return false
	}
	if p.Terrain == world.TerrainWall && len(systems.EntitiesAt(r.store, tile)) > 0 {
		return false
	}
	if err := r.gm.SetTerrain(tile, p.Terrain); err != nil {
		return false
	}

	r.log.WithFields(logrus.Fields{
		"tile":    tile,
		"terrain": p.Terrain,
	}).Debug("Terrain changed")
	_ = r.bus.Publish(event.TerrainChanged{Position: tile})
	return true
}

func (r *Resolver) applyStat(target domain.EntityID, p StatParams) bool {
	stats, err := ecs.Get(r.store, target, components.CombatStats)
	if err != nil {
		return false
	}
	return stats.AddModifier(domain.StatModifier{Cause: p.Cause, Stat: p.Stat, Amount: p.Amount})
}

func (r *Resolver) applyCooldown(target domain.EntityID, p CooldownParams) bool {
	know, err := ecs.Get(r.store, target, components.Knowledge)
	if err != nil {
		return false
	}
	if know.Cooldowns == nil {
		know.Cooldowns = make(map[string]int)
	}

	change := func(id string) {
		cd := know.Cooldowns[id] + p.Amount
		if cd <= 0 {
			delete(know.Cooldowns, id)
			return
		}
		know.Cooldowns[id] = cd
	}

	if p.SkillID != "" {
		change(p.SkillID)
		return true
	}
	for _, id := range know.Skills {
		change(id)
	}
	return true
}

func (r *Resolver) name(id domain.EntityID) string {
	if ident, err := ecs.Get(r.store, id, components.Identity); err == nil && ident.Name != "" {
		return ident.Name
	}
	return id.String()
}

func verbFor(h domain.HitType) string {
	switch h {
	case domain.HitCrit:
		return "crits"
	case domain.HitHit:
		return "hits"
	}
	return "grazes"
}

func sortIDs(ids []domain.EntityID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i].Index() < ids[j].Index() })
}
