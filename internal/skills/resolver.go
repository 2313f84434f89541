package skills

import (
	"errors"
	"fmt"
	"math/rand"

	"notquiteparadise/internal/components"
	"notquiteparadise/internal/domain"
	"notquiteparadise/internal/ecs"
	"notquiteparadise/internal/event"
	"notquiteparadise/internal/world"
	"notquiteparadise/pkg/logger"

	"github.com/sirupsen/logrus"
)

// MaxEffectApplications ограничивает одну цепочку эффектов. Конечные ациклические
// данные до него не доходят; предел срабатывает только на самоссылающихся эффектах.
const MaxEffectApplications = 1024

var (
	ErrSkillNotKnown  = errors.New("skill not known")
	ErrOnCooldown     = errors.New("skill on cooldown")
	ErrCannotAfford   = errors.New("cannot afford skill")
	ErrInvalidTarget  = errors.New("invalid target")
	ErrOutOfRange     = errors.New("target out of range")
	ErrEffectOverflow = errors.New("effect chain exceeded application limit")
)

// Outcome - итог применения навыка.
type Outcome struct {
	Affected []domain.EntityID
	// Applied - сколько эффектов (включая цепочки) было применено.
	Applied int
	// Succeeded - успешность первичных эффектов.
	Succeeded bool
}

// Resolver - единый цикл разрешения эффектов навыков.
type Resolver struct {
	store   *ecs.Store
	bus     *event.Bus
	gm      *world.GameMap
	library *Library
	rng     *rand.Rand
	log     *logrus.Entry
}

func NewResolver(store *ecs.Store, bus *event.Bus, gm *world.GameMap, library *Library, rng *rand.Rand) *Resolver {
	return &Resolver{
		store:   store,
		bus:     bus,
		gm:      gm,
		library: library,
		rng:     rng,
		log:     logger.Log.WithField("component", "effect_resolution"),
	}
}

// SetMap переключает резолвер на другую карту.
func (r *Resolver) SetMap(gm *world.GameMap) {
	r.gm = gm
}

func (r *Resolver) Library() *Library { return r.library }

// queued - эффект, ожидающий применения к сущности или тайлу.
type queued struct {
	effect Effect
	target domain.EntityID // NilEntityID - эффект по тайлу
	tile   domain.Position
	// primary - эффект из списка навыка, а не из цепочки.
	primary bool
}

// CanUse проверяет знание, перезарядку и стоимость, не меняя состояние.
// Богам доступен любой навык библиотеки без стоимости и перезарядки.
func (r *Resolver) CanUse(actor domain.EntityID, skillID string) (Skill, error) {
	skill, err := r.library.Get(skillID)
	if err != nil {
		return Skill{}, err
	}

	isGod := r.store.Has(actor, components.IsGod)
	if know, err := ecs.Get(r.store, actor, components.Knowledge); err == nil {
		if !knows(know, skillID) && !isGod {
			return skill, fmt.Errorf("%w: %s", ErrSkillNotKnown, skillID)
		}
		if know.Cooldowns[skillID] > 0 && !isGod {
			return skill, fmt.Errorf("%w: %s", ErrOnCooldown, skillID)
		}
	} else if !isGod {
		return skill, fmt.Errorf("%w: %s", ErrSkillNotKnown, skillID)
	}

	// Боги не платят за навыки.
	if isGod {
		return skill, nil
	}
	if skill.ResourceCost > 0 && skill.ResourceType != domain.ResourceNone {
		res, err := ecs.Get(r.store, actor, components.Resources)
		if err != nil || !res.CanAfford(skill.ResourceType, skill.ResourceCost) {
			return skill, fmt.Errorf("%w: %s", ErrCannotAfford, skillID)
		}
	}
	return skill, nil
}

// Use применяет навык actor к точке target.
//
// Нарушения правил (не знает навык, перезарядка, не хватает ресурса, цель
// не подходит) сообщаются игроку и ничего не меняют. После разрешения
// списывается стоимость, запускается перезарядка и публикуется EndTurn
// (кроме богов).
func (r *Resolver) Use(actor domain.EntityID, skillID string, target domain.Position) (Outcome, error) {
	log := r.log.WithFields(logrus.Fields{
		"actor":  actor,
		"skill":  skillID,
		"target": target,
	})

	skill, err := r.CanUse(actor, skillID)
	if err != nil {
		log.WithError(err).Debug("Skill use rejected")
		r.notify(actor, MessageFor(err))
		return Outcome{}, err
	}

	if skill.Range > 0 {
		if pos, err := ecs.Get(r.store, actor, components.Position); err == nil && pos.ChebyshevTo(target) > skill.Range {
			log.Debug("Skill target out of range")
			r.notify(actor, domain.MsgInvalidTarget)
			return Outcome{}, fmt.Errorf("%w: %s", ErrOutOfRange, skillID)
		}
	}

	if !TileHasTags(r.store, r.gm, actor, target, skill.RequiredTags) {
		log.WithField("tags", skill.RequiredTags).Debug("Target tile lacks required tags")
		r.notify(actor, domain.MsgInvalidTarget)
		return Outcome{}, fmt.Errorf("%w: %s at %v", ErrInvalidTarget, skillID, target)
	}

	out, err := r.resolve(actor, skill, target)
	if err != nil {
		log.WithError(err).Error("Effect resolution aborted")
	}

	isGod := r.store.Has(actor, components.IsGod)
	if !isGod {
		r.pay(actor, skill)
	}
	_ = r.bus.Publish(event.SkillUsed{Entity: actor, SkillID: skill.ID, Targets: out.Affected})

	if !isGod {
		_ = r.bus.Publish(event.EndTurn{Entity: actor, TimeCost: skill.TimeCost})
	}

	log.WithFields(logrus.Fields{
		"affected": len(out.Affected),
		"applied":  out.Applied,
	}).Debug("Skill resolved")
	return out, err
}

// resolve строит начальную очередь (тайл за тайлом) и обрабатывает её FIFO.
func (r *Resolver) resolve(actor domain.EntityID, skill Skill, target domain.Position) (Outcome, error) {
	var queue []queued
	selfQueued := make(map[int]bool)

	for _, tile := range ShapeTiles(target, skill.Shape, skill.ShapeSize) {
		if !r.gm.InBounds(tile) {
			continue
		}
		occupants := r.targetsOn(tile)
		for i, eff := range skill.Effects {
			switch {
			case eff.ApplyToSelf:
				if !selfQueued[i] {
					selfQueued[i] = true
					queue = append(queue, queued{effect: eff, target: actor, tile: tile, primary: true})
				}
			case eff.Kind.TargetsTile():
				queue = append(queue, queued{effect: eff, tile: tile, primary: true})
			default:
				for _, id := range occupants {
					queue = append(queue, queued{effect: eff, target: id, tile: tile, primary: true})
				}
			}
		}
	}

	out := Outcome{}
	affected := make(map[domain.EntityID]bool)
	primaryOK := false

	for len(queue) > 0 {
		if out.Applied >= MaxEffectApplications {
			out.Affected = collect(affected)
			return out, fmt.Errorf("%w: %s", ErrEffectOverflow, skill.ID)
		}

		item := queue[0]
		queue = queue[1:]
		out.Applied++

		ok := r.apply(actor, item)
		if item.primary && ok {
			primaryOK = true
		}
		if item.target != domain.NilEntityID && item.target != actor {
			affected[item.target] = true
		}

		next := item.effect.OnFail
		if ok {
			next = item.effect.OnSuccess
		}
		for _, child := range next {
			tgt := item.target
			if child.ApplyToSelf {
				tgt = actor
			}
			queue = append(queue, queued{effect: child, target: tgt, tile: item.tile})
		}
	}

	out.Affected = collect(affected)
	out.Succeeded = primaryOK
	return out, nil
}

// targetsOn - сущности на тайле, на которые действуют эффекты (с ресурсами).
func (r *Resolver) targetsOn(tile domain.Position) []domain.EntityID {
	var out []domain.EntityID
	for id, row := range r.store.Query(components.Position, components.Resources) {
		if *ecs.Field(row, components.Position) == tile {
			out = append(out, id)
		}
	}
	return out
}

func (r *Resolver) apply(actor domain.EntityID, item queued) bool {
	switch item.effect.Kind {
	case EffectDamage:
		return r.applyDamage(actor, item.target, item.effect.Damage)
	case EffectMove:
		return r.applyMove(actor, item.target, item.tile, item.effect.Move)
	case EffectApplyAffliction:
		return r.applyAffliction(actor, item.target, item.effect.Affliction)
	case EffectChangeTerrain:
		return r.applyTerrain(item.tile, item.effect.Terrain)
	case EffectAffectStat:
		return r.applyStat(item.target, item.effect.Stat)
	case EffectAffectCooldown:
		return r.applyCooldown(item.target, item.effect.Cooldown)
	}
	r.log.WithField("kind", item.effect.Kind).Error("Unknown effect kind")
	return false
}

func (r *Resolver) pay(actor domain.EntityID, skill Skill) {
	if skill.ResourceCost > 0 && skill.ResourceType != domain.ResourceNone {
		if res, err := ecs.Get(r.store, actor, components.Resources); err == nil {
			res.Spend(skill.ResourceType, skill.ResourceCost)
		}
	}
	if skill.Cooldown > 0 {
		if know, err := ecs.Get(r.store, actor, components.Knowledge); err == nil {
			if know.Cooldowns == nil {
				know.Cooldowns = make(map[string]int)
			}
			know.Cooldowns[skill.ID] = skill.Cooldown
		}
	}
}

// notify отправляет сообщение, только если actor - игрок.
func (r *Resolver) notify(actor domain.EntityID, text string) {
	if text == "" || !r.store.Has(actor, components.IsPlayer) {
		return
	}
	_ = r.bus.Publish(event.Message{Text: text, Kind: domain.MessageBasic, Entity: actor})
}

// MessageFor - текст для игрока по ошибке CanUse/Use.
func MessageFor(err error) string {
	switch {
	case errors.Is(err, ErrCannotAfford):
		return domain.MsgCannotAfford
	case errors.Is(err, ErrOnCooldown):
		return domain.MsgOnCooldown
	case errors.Is(err, ErrSkillNotKnown), errors.Is(err, ErrUnknownSkill):
		return domain.MsgUnknownSkill
	}
	return ""
}

func knows(k *domain.Knowledge, skillID string) bool {
	for _, s := range k.Skills {
		if s == skillID {
			return true
		}
	}
	return false
}

func collect(set map[domain.EntityID]bool) []domain.EntityID {
	out := make([]domain.EntityID, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sortIDs(out)
	return out
}
