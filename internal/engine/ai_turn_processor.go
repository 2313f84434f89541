package engine

import (
	"notquiteparadise/internal/ai"
	"notquiteparadise/internal/components"
	"notquiteparadise/internal/domain"
	"notquiteparadise/internal/ecs"
	"notquiteparadise/internal/event"
)

// processAITurn спрашивает политику поведения NPC и публикует её намерение.
func (g *Game) processAITurn(npc domain.EntityID) {
	log := g.log.WithField("entity_id", npc)

	var intent event.Event
	beh, err := ecs.Get(g.Store, npc, components.Behaviour)
	if err != nil {
		log.Debug("NPC has no behaviour, waiting")
		intent = ai.Wait(npc)
	} else if policy, ok := ai.Lookup(beh.Policy); !ok {
		log.WithField("policy", beh.Policy).Warn("Unknown behaviour policy, waiting")
		intent = ai.Wait(npc)
	} else {
		intent = policy.Decide(ai.View{
			Store:   g.Store,
			Map:     g.Map,
			Library: g.Resolver.Library(),
		}, npc)
	}

	if intent == nil {
		intent = ai.Wait(npc)
	}
	if err := g.Bus.Publish(intent); err != nil {
		log.WithError(err).Error("AI intent dispatch failed")
	}
}
