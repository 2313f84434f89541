package engine

import (
	"errors"

	"notquiteparadise/internal/components"
	"notquiteparadise/internal/domain"
	"notquiteparadise/internal/ecs"
	"notquiteparadise/internal/event"
	"notquiteparadise/internal/skills"
	"notquiteparadise/internal/systems"

	"github.com/sirupsen/logrus"
)

var ErrZeroDirection = errors.New("movement vector cannot be zero")

// registerEntityHandlers подписывает обработчики намерений сущностей.
func (g *Game) registerEntityHandlers() {
	g.Bus.Subscribe("entity.intents", event.TopicEntity, g.onEntityIntent,
		event.TypeMove, event.TypeUseSkill, event.TypeWantToUseSkill, event.TypeDie)
}

func (g *Game) onEntityIntent(ev event.Event) error {
	switch e := ev.(type) {
	case event.Move:
		return g.handleMove(e)
	case event.UseSkill:
		return g.handleUseSkill(e)
	case event.WantToUseSkill:
		return g.handleWantToUseSkill(e)
	case event.Die:
		return g.handleDie(e)
	}
	return nil
}

// holds - может ли сущность действовать сейчас. Боги действуют вне очереди.
func (g *Game) holds(id domain.EntityID) bool {
	if g.Store.Has(id, components.IsGod) {
		return true
	}
	if id != g.Scheduler.Holder() {
		return false
	}
	st := g.Scheduler.State()
	return st == domain.StatePlayerTurn || st == domain.StateEnemyTurn || st == domain.StateTargeting
}

// notify отправляет сообщение, только если адресат - игрок.
func (g *Game) notify(id domain.EntityID, text string) {
	if text == "" || !g.Store.Has(id, components.IsPlayer) {
		return
	}
	_ = g.Bus.Publish(event.Message{Text: text, Kind: domain.MessageBasic, Entity: id})
}

func (g *Game) handleMove(e event.Move) error {
	log := g.log.WithFields(logrus.Fields{"entity_id": e.Entity, "dir": e.Direction})

	if !g.holds(e.Entity) {
		log.Debug("Move outside of own turn ignored")
		g.notify(e.Entity, domain.MsgNotYourTurn)
		return nil
	}
	if e.Direction.IsZero() {
		return ErrZeroDirection
	}

	res, err := systems.CalculateMove(g.Store, g.Map, e.Entity, e.Direction)
	if err != nil {
		log.WithError(err).Debug("Mover has no position")
		return nil
	}

	switch {
	case res.HasMoved:
		pos, err := ecs.Get(g.Store, e.Entity, components.Position)
		if err != nil {
			return err
		}
		*pos = res.Target
		_ = g.Bus.Publish(event.Moved{Entity: e.Entity, From: res.From, To: res.Target})
		if !g.Store.Has(e.Entity, components.IsGod) {
			_ = g.Bus.Publish(event.EndTurn{Entity: e.Entity, TimeCost: domain.TimeCostMove})
		}

	case res.BlockedBy != domain.NilEntityID:
		skillID, ok := g.bumpSkill(e.Entity)
		if !ok {
			g.notify(e.Entity, domain.MsgBlocked)
			return nil
		}
		log.WithFields(logrus.Fields{"target": res.BlockedBy, "skill": skillID}).Debug("Bump attack")
		_ = g.Bus.Publish(event.UseSkill{Entity: e.Entity, Target: res.Target, SkillID: skillID})

	default:
		// Стена или край карты.
		g.notify(e.Entity, domain.MsgBlocked)
	}
	return nil
}

// bumpSkill - первый известный навык, применимый сейчас.
func (g *Game) bumpSkill(id domain.EntityID) (string, bool) {
	know, err := ecs.Get(g.Store, id, components.Knowledge)
	if err != nil || len(know.Skills) == 0 {
		return "", false
	}
	return know.Skills[0], true
}

func (g *Game) handleUseSkill(e event.UseSkill) error {
	if !g.holds(e.Entity) {
		g.log.WithField("entity_id", e.Entity).Debug("Skill use outside of own turn ignored")
		g.notify(e.Entity, domain.MsgNotYourTurn)
		return nil
	}

	_, err := g.Resolver.Use(e.Entity, e.SkillID, e.Target)
	if errors.Is(err, skills.ErrEffectOverflow) {
		return err
	}
	// Остальные ошибки - нарушения правил, игрок уже получил сообщение.
	return nil
}

func (g *Game) handleWantToUseSkill(e event.WantToUseSkill) error {
	if !g.holds(e.Entity) || !g.Store.Has(e.Entity, components.IsPlayer) {
		g.notify(e.Entity, domain.MsgNotYourTurn)
		return nil
	}

	know, err := ecs.Get(g.Store, e.Entity, components.Knowledge)
	if err != nil || e.Slot < 0 || e.Slot >= len(know.Skills) {
		g.notify(e.Entity, domain.MsgUnknownSkill)
		return nil
	}
	skillID := know.Skills[e.Slot]

	if _, err := g.Resolver.CanUse(e.Entity, skillID); err != nil {
		g.notify(e.Entity, skills.MessageFor(err))
		return nil
	}

	_ = g.Bus.Publish(event.ChangeGameState{State: domain.StateTargeting, SkillID: skillID})
	return nil
}

// handleDie: игрок остаётся в мире (состояние PLAYER_DEAD), остальные удаляются
// при ближайшем Flush.
func (g *Game) handleDie(e event.Die) error {
	if !g.Store.Exists(e.Entity) || g.Store.IsPendingDeletion(e.Entity) {
		return nil
	}

	if g.Store.Has(e.Entity, components.IsPlayer) {
		_ = g.Bus.Publish(event.Message{Text: domain.MsgPlayerDied, Kind: domain.MessageSystem})
		_ = g.Bus.Publish(event.Died{Entity: e.Entity})
		return nil
	}

	if err := g.Store.Delete(e.Entity); err != nil {
		return err
	}
	g.log.WithFields(logrus.Fields{"entity_id": e.Entity, "killer": e.Killer}).Debug("Entity died")
	_ = g.Bus.Publish(event.Died{Entity: e.Entity})
	return nil
}
