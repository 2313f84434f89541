package actions

import (
	"notquiteparadise/internal/domain"
	"notquiteparadise/internal/engine/handlers"
	"notquiteparadise/internal/event"
)

func HandleWait(ctx handlers.Context) (handlers.Result, error) {
	return handlers.Result{
		Intent: event.EndTurn{Entity: ctx.Actor, TimeCost: domain.TimeCostWait},
		Msg:    "You wait.",
	}, nil
}
