package actions

import (
	"notquiteparadise/internal/domain"
	"notquiteparadise/internal/engine/handlers"
	"notquiteparadise/internal/event"
	"notquiteparadise/pkg/api"
)

// HandleUseSkill - применить навык к точке (обычно после выбора цели).
func HandleUseSkill(ctx handlers.Context, p api.SkillPayload) (handlers.Result, error) {
	return handlers.Result{
		Intent: event.UseSkill{
			Entity:  ctx.Actor,
			Target:  domain.Position{X: p.X, Y: p.Y},
			SkillID: p.SkillID,
		},
	}, nil
}

// HandleWantToUseSkill - выбрать слот навыка и перейти к выбору цели.
func HandleWantToUseSkill(ctx handlers.Context, p api.SlotPayload) (handlers.Result, error) {
	return handlers.Result{
		Intent: event.WantToUseSkill{Entity: ctx.Actor, Slot: p.Slot},
	}, nil
}

// HandleCancelTargeting - выйти из режима прицеливания без траты хода.
func HandleCancelTargeting(_ handlers.Context) (handlers.Result, error) {
	return handlers.Result{
		Intent: event.ChangeGameState{State: domain.StatePlayerTurn},
	}, nil
}
