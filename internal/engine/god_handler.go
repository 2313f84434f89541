package engine

import (
	"notquiteparadise/internal/components"
	"notquiteparadise/internal/domain"
	"notquiteparadise/internal/ecs"
	"notquiteparadise/internal/event"
	"notquiteparadise/internal/skills"

	"github.com/sirupsen/logrus"
)

// Веса выбора вмешательства: "ничего не делать" весит
// desireToDoNothing - желание вмешаться.
const (
	desireToIntervene        = 10
	desireToInterveneOnTopic = 30
	desireToDoNothing        = 75
)

// registerGodHandlers: боги судят действия смертных и иногда вмешиваются.
func (g *Game) registerGodHandlers() {
	g.Bus.Subscribe("god.judgement", event.TopicEntity, g.onJudgedAction,
		event.TypeSkillUsed, event.TypeAfflicted)
}

func (g *Game) onJudgedAction(ev event.Event) error {
	switch e := ev.(type) {
	case event.SkillUsed:
		if !g.judgeable(e.Entity) {
			return nil
		}
		actions := g.actionsOf(e.SkillID)
		for _, action := range actions {
			g.judge(e.Entity, action)
		}
		g.considerIntervening(e.Entity, actions)

	case event.Afflicted:
		// Каждый наложенный недуг судится отдельно.
		if g.judgeable(e.Origin) {
			g.judge(e.Origin, e.Affliction)
		}
	}
	return nil
}

// judgeable: боги не судят ни себя, ни мёртвых.
func (g *Game) judgeable(id domain.EntityID) bool {
	if id == domain.NilEntityID || !g.Store.Exists(id) || g.Store.IsPendingDeletion(id) {
		return false
	}
	return !g.Store.Has(id, components.IsGod)
}

// actionsOf - за что можно судить навык: его имя, виды эффектов и типы урона.
func (g *Game) actionsOf(skillID string) []string {
	actions := []string{skillID}
	skill, err := g.Resolver.Library().Get(skillID)
	if err != nil {
		return actions
	}
	for _, eff := range skill.Effects {
		actions = append(actions, eff.Kind.String())
		if eff.Kind == skills.EffectDamage {
			actions = append(actions, eff.Damage.DamageType.String())
		}
	}
	return actions
}

func (g *Game) judge(actor domain.EntityID, action string) {
	for _, row := range g.Store.Query(components.IsGod, components.Opinion) {
		opinion := ecs.Field(row, components.Opinion)
		score, ok := opinion.Judge(actor, action)
		if !ok {
			continue
		}
		name := ""
		if ident := ecs.Field(row, components.Identity); ident != nil {
			name = ident.Name
		}
		g.log.WithFields(logrus.Fields{
			"god":     name,
			"actor":   actor,
			"action":  action,
			"opinion": score,
		}).Info("God reacted to action")
	}
}

type intervention struct {
	god     domain.EntityID
	skillID string
}

// considerIntervening: каждый бог с подходящим мнением выбирает вмешательство
// (или ничего) взвешенным броском. Бросок делается, только если выбор есть.
func (g *Game) considerIntervening(actor domain.EntityID, actions []string) {
	var chosen []intervention

	for god, row := range g.Store.Query(components.IsGod, components.Opinion) {
		opinion := ecs.Field(row, components.Opinion)
		eligible, weights := opinion.Eligible(actor)
		if len(eligible) == 0 {
			continue
		}

		desire := desireToIntervene
		for _, action := range actions {
			if opinion.Cares(action) {
				desire = desireToInterveneOnTopic
				break
			}
		}

		total := desireToDoNothing - desire
		for _, w := range weights {
			total += w
		}
		roll := g.Rng.Intn(total)
		for i, w := range weights {
			if roll < w {
				chosen = append(chosen, intervention{god: god, skillID: eligible[i]})
				break
			}
			roll -= w
		}
	}

	if len(chosen) == 0 {
		return
	}
	pos, err := ecs.Get(g.Store, actor, components.Position)
	if err != nil {
		return
	}
	target := *pos

	// Публикуем после обхода: навык бога меняет хранилище.
	for _, in := range chosen {
		g.log.WithFields(logrus.Fields{
			"god":   in.god,
			"actor": actor,
			"skill": in.skillID,
		}).Info("God intervenes")
		_ = g.Bus.Publish(event.UseSkill{Entity: in.god, Target: target, SkillID: in.skillID})
	}
}
